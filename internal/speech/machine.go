package speech

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/MuhammadMuneeeb/Recruitement/internal/avatar"
	"github.com/MuhammadMuneeeb/Recruitement/internal/interview"
	"github.com/MuhammadMuneeeb/Recruitement/internal/profile"
	"github.com/MuhammadMuneeeb/Recruitement/internal/telemetry"
)

// Machine runs one unattended interview on the agent device: it voices the
// interviewer's prompts, captures the candidate's spoken answers, and keeps
// the exchange alive through recognizer stalls and candidate silence.
type Machine struct {
	Recognizer Recognizer
	Voice      VoiceDetector
	Turns      TurnSource
	Speaker    Speaker
	Avatar     avatar.Surface
	Profile    profile.Profile
	Recorder   *telemetry.Recorder

	// Preferred is the candidate's declared language. "mix" probes Urdu
	// first and lets the first answer settle it.
	Preferred interview.Lang

	// Supervisor windows, zero means the package defaults. Exposed for
	// tests that cannot wait out multi-second stalls.
	stall      time.Duration
	stallVoice time.Duration
	healthTick time.Duration
	nudgeDefer time.Duration
}

func (m *Machine) stallAfter() time.Duration {
	if m.stall > 0 {
		return m.stall
	}
	return stallAfter
}

func (m *Machine) stallVoiceWindow() time.Duration {
	if m.stallVoice > 0 {
		return m.stallVoice
	}
	return stallVoiceWin
}

func (m *Machine) healthInterval() time.Duration {
	if m.healthTick > 0 {
		return m.healthTick
	}
	return healthInterval
}

func (m *Machine) nudgeDeferWindow() time.Duration {
	if m.nudgeDefer > 0 {
		return m.nudgeDefer
	}
	return nudgeVoiceDefer
}

// Run drives the interview to completion: opening, answer loop, submission.
func (m *Machine) Run(ctx context.Context) error {
	if m.Avatar == nil {
		m.Avatar = avatar.Nop{}
	}

	prompt, err := m.Turns.Start(ctx)
	if err != nil {
		return fmt.Errorf("start interview: %w", err)
	}
	if err := m.speakPrompt(ctx, prompt); err != nil {
		return err
	}

	for !prompt.Done {
		if m.Recorder != nil {
			m.Recorder.CaptureStarted()
		}
		m.Avatar.SetState(avatar.ModeListening, avatar.EmotionCalm)
		answer, err := m.capture(ctx, captureOpts{
			minWords:  m.Profile.MinWords,
			minSpeech: m.Profile.MinSpeech,
			nudge:     true,
		})
		m.Avatar.SetState(avatar.ModeIdle, avatar.EmotionCalm)
		if err != nil {
			return err
		}
		if m.Recorder != nil {
			m.Recorder.CaptureEnded()
		}

		prompt, err = m.Turns.Respond(ctx, answer)
		if err != nil {
			return fmt.Errorf("respond: %w", err)
		}
		if m.Recorder != nil {
			m.Recorder.ResponseReceived()
		}
		if err := m.speakPrompt(ctx, prompt); err != nil {
			return err
		}
		if m.Recorder != nil {
			m.Recorder.Flush()
		}
	}

	if err := m.Turns.Submit(ctx); err != nil {
		return fmt.Errorf("submit interview: %w", err)
	}
	return nil
}

// AwaitStart voices a readiness prompt and listens for spoken consent
// before the interview begins. Refusal or silence draws a gentler reprompt;
// it keeps waiting until the candidate agrees or the context ends.
func (m *Machine) AwaitStart(ctx context.Context) error {
	if m.Avatar == nil {
		m.Avatar = avatar.Nop{}
	}
	first := true
	for {
		text, lang := startPrompt(first, m.Preferred)
		m.Avatar.SetState(avatar.ModeSpeaking, avatar.EmotionEncouraging)
		err := m.Speaker.Speak(ctx, text, lang)
		m.Avatar.SetState(avatar.ModeIdle, avatar.EmotionCalm)
		if err != nil {
			return fmt.Errorf("speak readiness prompt: %w", err)
		}
		ok, err := m.Confirm(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		first = false
	}
}

func startPrompt(first bool, preferred interview.Lang) (string, interview.Lang) {
	if preferred == interview.LangUR {
		if first {
			return "کیا ہم انٹرویو شروع کریں؟ شروع کرنے کے لیے جی کہیے۔", interview.LangUR
		}
		return "کوئی بات نہیں۔ جب آپ تیار ہوں تو جی کہیے۔", interview.LangUR
	}
	if first {
		return "Checks complete. Shall we start the interview? Please say yes to begin.", interview.LangEN
	}
	return "No problem. Whenever you're ready, just say yes and we will begin.", interview.LangEN
}

// Confirm asks nothing itself; it listens for a short yes/no after the
// caller has voiced a readiness prompt. Endpointing is relaxed so a bare
// "yes" or "جی" lands immediately.
func (m *Machine) Confirm(ctx context.Context) (bool, error) {
	if m.Avatar == nil {
		m.Avatar = avatar.Nop{}
	}
	m.Avatar.SetState(avatar.ModeListening, avatar.EmotionCalm)
	defer m.Avatar.SetState(avatar.ModeIdle, avatar.EmotionCalm)
	reply, err := m.capture(ctx, captureOpts{
		minWords:  1,
		minSpeech: 350 * time.Millisecond,
		nudge:     false,
	})
	if err != nil {
		return false, err
	}
	if reply == "" {
		return false, nil
	}
	return IsAffirmative(reply), nil
}

func (m *Machine) speakPrompt(ctx context.Context, p Prompt) error {
	for _, text := range p.Texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		m.Avatar.SetState(avatar.ModeSpeaking, avatar.DetectEmotion(text))
		if err := m.Speaker.Speak(ctx, text, p.Lang); err != nil {
			return fmt.Errorf("speak prompt: %w", err)
		}
	}
	m.Avatar.SetState(avatar.ModeIdle, avatar.EmotionCalm)
	return nil
}

type captureOpts struct {
	minWords  int
	minSpeech time.Duration
	nudge     bool
}

// capture state lives entirely on the loop goroutine.
type captureRun struct {
	m    *Machine
	ctx  context.Context
	opts captureOpts

	ch    chan loopEvent
	sched *scheduler

	session      Session
	sessionGen   int
	sessionStart time.Time
	locale       string

	probeOrder []string
	probeIdx   int
	langLocked bool
	scoreLang  interview.Lang

	finals      []string
	interim     string
	listenStart time.Time
	firstSpeech time.Time
	lastResult  time.Time
	nudges      int
}

const (
	timerSilence    = "silence"
	timerFinalDrop  = "finalDrop"
	timerRestart    = "restart"
	timerRecover    = "recover"
	timerHealth     = "health"
	timerNoResponse = "noResponse"
)

// capture listens for one complete answer. In nudge mode it waits as long
// as it takes, reprompting every no-response window; it returns "" only in
// confirmation mode, when nothing was heard before the window lapsed.
func (m *Machine) capture(ctx context.Context, opts captureOpts) (string, error) {
	r := &captureRun{
		m:         m,
		ctx:       ctx,
		opts:      opts,
		ch:        make(chan loopEvent, 64),
		scoreLang: m.Preferred,
	}
	r.sched = newScheduler(r.ch)
	defer r.sched.Shutdown()
	defer r.stopSession()

	switch m.Preferred {
	case interview.LangUR, interview.LangEN:
		r.probeOrder = []string{localeFor(m.Preferred)}
	default:
		r.probeOrder = []string{localeUrdu, localeEnglish}
	}

	r.listenStart = time.Now()
	if err := r.startSession(r.probeOrder[0]); err != nil {
		return "", err
	}
	r.sched.Arm(timerHealth, r.m.healthInterval())
	r.sched.Arm(timerNoResponse, m.Profile.NoResponse)

	return r.loop()
}

func (r *captureRun) loop() (string, error) {
	for {
		select {
		case <-r.ctx.Done():
			return "", r.ctx.Err()
		case ev := <-r.ch:
			if ev.timer != "" {
				if !r.sched.Current(ev.timer, ev.timerGen) {
					continue
				}
				done, text, err := r.onTimer(ev.timer)
				if err != nil {
					return "", err
				}
				if done {
					return text, nil
				}
				continue
			}
			if ev.gen != r.sessionGen {
				continue
			}
			if done, text := r.onEvent(ev.ev); done {
				return text, nil
			}
		}
	}
}

func (r *captureRun) startSession(locale string) error {
	r.stopSession()
	session, err := r.m.Recognizer.Start(locale)
	if err != nil {
		return fmt.Errorf("start recognizer %s: %w", locale, err)
	}
	r.session = session
	r.sessionGen++
	r.sessionStart = time.Now()
	r.locale = locale
	if !r.langLocked {
		if locale == localeUrdu && r.m.Preferred == interview.LangUR {
			r.scoreLang = interview.LangUR
		} else if locale == localeEnglish && r.m.Preferred == interview.LangEN {
			r.scoreLang = interview.LangEN
		} else {
			r.scoreLang = interview.LangMix
		}
	}

	gen := r.sessionGen
	go func() {
		for ev := range session.Events() {
			select {
			case r.ch <- loopEvent{ev: ev, gen: gen}:
			case <-r.ctx.Done():
				return
			}
		}
		select {
		case r.ch <- loopEvent{ev: Event{Kind: EventEnd}, gen: gen}:
		case <-r.ctx.Done():
		}
	}()
	return nil
}

func (r *captureRun) stopSession() {
	if r.session != nil {
		r.session.Stop()
		r.session = nil
	}
}

func (r *captureRun) onEvent(ev Event) (bool, string) {
	switch ev.Kind {
	case EventInterim:
		text := ChooseAlternative(ev.Alternatives, r.scoreLang)
		if text == "" {
			return false, ""
		}
		r.noteSpeech()
		r.interim = text
		r.sched.Cancel(timerFinalDrop)
		r.sched.Arm(timerSilence, r.m.Profile.Silence)
	case EventFinal:
		text := ChooseAlternative(ev.Alternatives, r.scoreLang)
		if text == "" {
			return false, ""
		}
		r.noteSpeech()
		r.finals = append(r.finals, text)
		r.interim = ""
		r.lockLang(text)
		r.sched.Arm(timerSilence, r.m.Profile.Silence)
		// Fast path: a final with nothing following it usually means the
		// candidate stopped; do not wait out the full silence window.
		r.sched.Arm(timerFinalDrop, r.m.Profile.FinalDrop)
	case EventError:
		log.Printf("[speech] recognizer error (%s): %s", r.locale, ev.Err)
		r.scheduleRestart()
	case EventEnd:
		r.scheduleRestart()
	}
	return false, ""
}

func (r *captureRun) onTimer(name string) (bool, string, error) {
	switch name {
	case timerSilence:
		if r.shouldStop() {
			return true, r.answerText(), nil
		}
		r.sched.Arm(timerSilence, r.m.Profile.Silence)
	case timerFinalDrop:
		if r.interim == "" && len(r.finals) > 0 && r.shouldStop() {
			return true, r.answerText(), nil
		}
	case timerRestart:
		// A recovery restart may have beaten this fire; never stack a
		// second session on a live one.
		if r.session != nil {
			return false, "", nil
		}
		if !r.langLocked && len(r.probeOrder) > 1 {
			r.probeIdx = (r.probeIdx + 1) % len(r.probeOrder)
		}
		if err := r.startSession(r.probeOrder[r.probeIdx]); err != nil {
			return false, "", err
		}
	case timerRecover:
		if r.session != nil {
			return false, "", nil
		}
		locale := localeFor(interview.LangEN)
		if r.langLocked {
			locale = localeFor(r.scoreLang)
		}
		log.Printf("[speech] recognizer stalled, forcing restart with %s", locale)
		if err := r.startSession(locale); err != nil {
			return false, "", err
		}
	case timerHealth:
		r.sched.Arm(timerHealth, r.m.healthInterval())
		if r.sinceLastResult() > r.m.stallAfter() &&
			r.m.Voice != nil && r.m.Voice.RecentlyDetectedVoice(r.m.stallVoiceWindow()) {
			r.stopSession()
			r.sched.Arm(timerRecover, r.m.Profile.RecoveryDelay)
		}
	case timerNoResponse:
		return r.onNoResponse()
	}
	return false, "", nil
}

func (r *captureRun) onNoResponse() (bool, string, error) {
	if !r.firstSpeech.IsZero() {
		return false, "", nil
	}
	// The candidate is audibly talking but nothing transcribed yet, give
	// the recognizer a little longer before interrupting.
	if r.m.Voice != nil && r.m.Voice.RecentlyDetectedVoice(r.m.nudgeDeferWindow()) {
		r.sched.Arm(timerNoResponse, 2*time.Second)
		return false, "", nil
	}
	if !r.opts.nudge {
		return true, "", nil
	}

	r.stopSession()
	r.sched.Cancel(timerSilence)
	r.sched.Cancel(timerFinalDrop)
	r.sched.Cancel(timerHealth)

	text, lang := nudgeText(r.nudges, r.m.Preferred)
	r.nudges++
	r.m.Avatar.SetState(avatar.ModeSpeaking, avatar.EmotionEncouraging)
	err := r.m.Speaker.Speak(r.ctx, text, lang)
	r.m.Avatar.SetState(avatar.ModeListening, avatar.EmotionCalm)
	if err != nil {
		return false, "", fmt.Errorf("speak nudge: %w", err)
	}

	r.listenStart = time.Now()
	if err := r.startSession(r.probeOrder[r.probeIdx]); err != nil {
		return false, "", err
	}
	r.sched.Arm(timerHealth, r.m.healthInterval())
	r.sched.Arm(timerNoResponse, r.m.Profile.NoResponse)
	return false, "", nil
}

func (r *captureRun) noteSpeech() {
	now := time.Now()
	if r.firstSpeech.IsZero() {
		r.firstSpeech = now
	}
	r.lastResult = now
	r.sched.Cancel(timerNoResponse)
}

func (r *captureRun) lockLang(text string) {
	if r.langLocked {
		return
	}
	r.langLocked = true
	if interview.HasUrduScript(text) {
		r.scoreLang = interview.LangUR
	} else {
		r.scoreLang = interview.LangEN
	}
	if r.m.Preferred == interview.LangMix {
		log.Printf("[speech] language settled to %s", r.scoreLang)
	}
}

func (r *captureRun) scheduleRestart() {
	r.stopSession()
	r.sched.Arm(timerRestart, r.m.Profile.RestartDelay)
}

func (r *captureRun) sinceLastResult() time.Duration {
	if r.lastResult.IsZero() {
		return time.Since(r.sessionStart)
	}
	return time.Since(r.lastResult)
}

func (r *captureRun) shouldStop() bool {
	if r.firstSpeech.IsZero() {
		return false
	}
	if wordCount(r.answerText()) < r.opts.minWords {
		return false
	}
	// Minimum speech is measured against elapsed listening time, so a final
	// that arrives late does not start the clock over.
	return time.Since(r.listenStart) >= r.opts.minSpeech
}

func (r *captureRun) answerText() string {
	parts := append(append([]string{}, r.finals...), r.interim)
	return strings.TrimSpace(strings.Join(parts, " "))
}

// nudgeText escalates and alternates language when the candidate's own
// language is still unknown.
func nudgeText(n int, preferred interview.Lang) (string, interview.Lang) {
	en := []string{
		"Take your time. Whenever you're ready, please share your answer.",
		"Are you still there? Please go ahead with your answer.",
		"If you can hear me, please say something so we can continue.",
	}
	ur := []string{
		"آرام سے سوچیے، جب تیار ہوں تو اپنا جواب دیجیے۔",
		"کیا آپ موجود ہیں؟ براہ کرم اپنا جواب دیجیے۔",
		"اگر آپ مجھے سن سکتے ہیں تو کچھ کہیے تاکہ ہم جاری رکھ سکیں۔",
	}
	idx := n
	if idx >= len(en) {
		idx = len(en) - 1
	}
	lang := preferred
	if lang == interview.LangMix {
		if n%2 == 0 {
			lang = interview.LangEN
		} else {
			lang = interview.LangUR
		}
	}
	if lang == interview.LangUR {
		return ur[idx], interview.LangUR
	}
	return en[idx], interview.LangEN
}

// Package speech implements the candidate-side turn-taking machine: it
// drives the streaming recognizer, decides when an answer is complete,
// nudges unresponsive candidates, and restarts recognition when it stalls.
package speech

import (
	"context"
	"time"

	"github.com/MuhammadMuneeeb/Recruitement/internal/interview"
)

// EventKind classifies recognizer events.
type EventKind string

const (
	EventInterim EventKind = "interim"
	EventFinal   EventKind = "final"
	EventError   EventKind = "error"
	EventEnd     EventKind = "end"
)

// Alternative is one recognition hypothesis.
type Alternative struct {
	Transcript string
	Confidence float64
}

// Event is a single recognizer notification.
type Event struct {
	Kind         EventKind
	Alternatives []Alternative
	Err          string
}

// Session is one live recognition stream. Events is closed after the stream
// ends or errors; Stop is idempotent.
type Session interface {
	Events() <-chan Event
	Stop()
}

// Recognizer opens recognition sessions for a BCP-47 locale.
type Recognizer interface {
	Start(locale string) (Session, error)
}

// VoiceDetector reports raw microphone voice energy independently of the
// recognizer. Used to tell a silent candidate apart from a dead stream.
type VoiceDetector interface {
	RecentlyDetectedVoice(window time.Duration) bool
}

// Prompt is what the interviewer should say next.
type Prompt struct {
	Texts []string
	Lang  interview.Lang
	Done  bool
}

// TurnSource produces interviewer prompts. The HTTP client implements this
// against the server; tests use in-process fakes.
type TurnSource interface {
	Start(ctx context.Context) (Prompt, error)
	Respond(ctx context.Context, answer string) (Prompt, error)
	Submit(ctx context.Context) error
}

// Speaker voices interviewer text and blocks until playback finishes.
type Speaker interface {
	Speak(ctx context.Context, text string, lang interview.Lang) error
}

const (
	// localeEnglish and localeUrdu are the two recognition locales. A "mix"
	// preference probes Urdu first, then English, until the candidate's first
	// words settle the language.
	localeEnglish = "en-US"
	localeUrdu    = "ur-PK"

	// stallAfter is how long without any recognizer result counts as a stall
	// when the microphone still carries voice energy.
	stallAfter      = 4500 * time.Millisecond
	stallVoiceWin   = 2500 * time.Millisecond
	healthInterval  = 1200 * time.Millisecond
	nudgeVoiceDefer = 5 * time.Second
)

// localeFor maps a resolved wire language to a recognition locale.
func localeFor(lang interview.Lang) string {
	if lang == interview.LangUR {
		return localeUrdu
	}
	return localeEnglish
}

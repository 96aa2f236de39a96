package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/MuhammadMuneeeb/Recruitement/internal/profile"
)

// Model generates one JSON document from a system instruction and a
// structured user payload. A nil Model means the deterministic policy runs
// alone.
type Model interface {
	ChatJSON(ctx context.Context, system, user string, maxTokens int) ([]byte, error)
}

// Engine is the dialogue turn policy engine. It is stateless per call and
// safe for concurrent use across sessions.
type Engine struct {
	Model   Model
	Profile profile.Profile
	// Strict surfaces model-validation failures as errors instead of
	// silently substituting the deterministic fallback. The invalid turn is
	// never emitted either way.
	Strict bool
}

// Request carries everything a single policy decision depends on.
type Request struct {
	Conversation  []Turn
	Answer        string
	RoleTitle     string
	PreferredLang Lang
}

// wireTurn is the turn object shape at the language-model boundary.
type wireTurn struct {
	Done bool   `json:"done"`
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
	Lang Lang   `json:"lang"`
}

func closingTurn(lang Lang) Turn {
	text := "Thank you. The interview is complete. Please submit your session."
	switch lang {
	case LangUR:
		text = "شکریہ۔ انٹرویو مکمل ہو گیا ہے۔ براہ کرم اپنا سیشن submit کر دیں۔"
	case LangMix:
		text = "Thank you, interview complete ho gaya hai. براہ کرم اپنا سیشن submit کر دیں۔"
	}
	return Turn{
		Speaker:   SpeakerInterviewer,
		Kind:      KindClosing,
		Text:      text,
		Lang:      lang,
		Timestamp: time.Now(),
		Done:      true,
	}
}

// NextTurn returns the interviewer's next turn for the given history and
// answer. When a model is configured it is consulted first; its output is
// accepted only if it passes validation, otherwise the deterministic policy
// decides. The returned turn is always valid: the engine never asks more
// main questions than the bank holds and never repeats the previous prompt.
func (e *Engine) NextTurn(ctx context.Context, req Request) (Turn, error) {
	lang := ResolveLang(req.PreferredLang, req.Answer)
	bank := BankFor(lang, req.RoleTitle, req.Conversation, req.Answer)
	asked := countMainQuestions(req.Conversation)

	if asked >= len(bank) {
		return closingTurn(lang), nil
	}
	if e.Model == nil {
		return e.fallbackTurn(req, lang, bank, asked), nil
	}

	turn, err := e.modelTurn(ctx, req, lang, bank, asked)
	if err != nil {
		if e.Strict {
			return Turn{}, err
		}
		log.Printf("[interview.next] model rejected, using deterministic policy: %v", err)
		return e.fallbackTurn(req, lang, bank, asked), nil
	}
	return turn, nil
}

// fallbackTurn is the deterministic policy: follow up while the answer is
// shallow and the follow-up budget allows, otherwise advance through the
// bank. It is the same function whether the model is absent or rejected.
func (e *Engine) fallbackTurn(req Request, lang Lang, bank []string, asked int) Turn {
	now := time.Now()
	lastAI := lastInterviewerTurn(req.Conversation)
	mainQuestion := Turn{
		Speaker:   SpeakerInterviewer,
		Kind:      KindQuestion,
		Text:      bank[asked],
		Lang:      lang,
		Timestamp: now,
	}

	// The frontend track is a structured screen: always linear, never
	// heuristic follow-ups.
	if ClassifyTrack(req.RoleTitle) == TrackFrontend {
		return mainQuestion
	}

	depth := effectiveDepth(req.Conversation, req.Answer)
	followups := followupsSinceLastMain(req.Conversation)
	if depth >= sufficientDepth || followups >= 2 {
		return mainQuestion
	}

	text := fallbackFollowup(req.Answer, req.RoleTitle, lang)
	if lastAI != nil && samePrompt(lastAI.Text, text) {
		return mainQuestion
	}
	return Turn{
		Speaker:   SpeakerInterviewer,
		Kind:      KindFollowup,
		Text:      text,
		Lang:      lang,
		Timestamp: now,
	}
}

// fallbackFollowup builds a follow-up anchored on a leading fragment of the
// candidate's own answer so the prompt is never context-free.
func fallbackFollowup(answer, roleTitle string, lang Lang) string {
	lower := strings.ToLower(answer)
	ack := Snippet(answer)

	if lang == LangUR {
		switch {
		case digitRe.MatchString(answer):
			return fmt.Sprintf("آپ نے \"%s\" کا ذکر کیا، اس نتیجے کو آپ نے کس پیمانے پر measure کیا؟", ack)
		case strings.Contains(answer, "ٹیم"):
			return fmt.Sprintf("آپ نے \"%s\" کہا، اس میں بطور %s آپ کا ذاتی کردار کیا تھا؟", ack, roleTitle)
		default:
			return fmt.Sprintf("آپ نے \"%s\" بیان کیا، کیا آپ ایک مخصوص مثال اور measurable outcome دے سکتے ہیں؟", ack)
		}
	}

	switch {
	case digitRe.MatchString(lower):
		return fmt.Sprintf("You mentioned %q. How did you measure that result in practice?", ack)
	case strings.Contains(lower, "team"):
		return fmt.Sprintf("You mentioned %q. What specifically was your own contribution as a %s?", ack, roleTitle)
	default:
		return fmt.Sprintf("You mentioned %q. Can you give one concrete example with a measurable outcome?", ack)
	}
}

const modelSystemPrompt = `You are a live interviewer. Build true dialogue, not monologue.
Output exactly one next turn in strict JSON.
Hard requirements:
- Explicitly reference at least one detail from the latest candidate answer.
- If the answer lacks detail and followupsOnCurrentQuestion < 2, ask a targeted follow-up.
- If the answer is sufficient OR followupsOnCurrentQuestion >= 2, ask the next main question.
- Keep to one short-turn prompt (max 2 sentences).
- Do not repeat previous question wording.
- If all main questions are complete, close the interview.
- If lang is ur, use formal Pakistani Urdu vocabulary and tone.
- If lang is mix, produce natural Pakistani code-mixed speech (English + Urdu).
- For followup questions, you MUST reference the candidate's latest answer detail explicitly.
- Avoid generic followups such as "give one concrete example" unless tied to a specific detail.
JSON schema:
{"done": boolean, "kind": "question" | "followup" | "closing", "text": string, "lang": "en" | "ur" | "mix"}`

type modelContextTurn struct {
	Speaker Speaker `json:"speaker"`
	Kind    Kind    `json:"kind"`
	Text    string  `json:"text"`
}

type modelRequest struct {
	RoleTitle        string             `json:"roleTitle"`
	PreferredLang    Lang               `json:"preferredLang"`
	AnswerDepthScore int                `json:"answerDepthScore"`
	Followups        int                `json:"followupsOnCurrentQuestion"`
	MainIndex        int                `json:"mainQuestionIndex"`
	Answer           string             `json:"latestCandidateAnswer"`
	AnswerSnippet    string             `json:"latestAnswerSnippet"`
	NextMainQuestion string             `json:"nextMainQuestion"`
	Conversation     []modelContextTurn `json:"conversation"`
	SpeedProfile     string             `json:"speedProfile"`
	InterviewMode    string             `json:"interviewMode"`
}

func (e *Engine) modelTurn(ctx context.Context, req Request, lang Lang, bank []string, asked int) (Turn, error) {
	frontend := ClassifyTrack(req.RoleTitle) == TrackFrontend

	history := req.Conversation
	if n := e.Profile.ContextTurns; n > 0 && len(history) > n {
		history = history[len(history)-n:]
	}
	convo := make([]modelContextTurn, 0, len(history))
	for _, t := range history {
		convo = append(convo, modelContextTurn{Speaker: t.Speaker, Kind: t.Kind, Text: trimText(t.Text, 220)})
	}

	mode := "general"
	if frontend {
		mode = "frontend_structured"
	}
	user, err := json.Marshal(modelRequest{
		RoleTitle:        req.RoleTitle,
		PreferredLang:    lang,
		AnswerDepthScore: effectiveDepth(req.Conversation, req.Answer),
		Followups:        followupsSinceLastMain(req.Conversation),
		MainIndex:        asked,
		Answer:           trimText(req.Answer, 500),
		AnswerSnippet:    Snippet(req.Answer),
		NextMainQuestion: bank[asked],
		Conversation:     convo,
		SpeedProfile:     e.Profile.Name,
		InterviewMode:    mode,
	})
	if err != nil {
		return Turn{}, err
	}

	genCtx, cancel := context.WithTimeout(ctx, e.Profile.LLMTimeout)
	defer cancel()
	raw, err := e.Model.ChatJSON(genCtx, modelSystemPrompt, string(user), e.Profile.MaxTokens)
	if err != nil {
		return Turn{}, fmt.Errorf("model generation failed: %w", err)
	}

	var out wireTurn
	if err := json.Unmarshal(raw, &out); err != nil {
		return Turn{}, fmt.Errorf("model returned malformed turn: %w", err)
	}
	out.Text = strings.TrimSpace(out.Text)

	if err := validateModelTurn(out, req, lang); err != nil {
		return Turn{}, err
	}

	// Frontend screens only ever ask scripted main questions; a model that
	// drifts into follow-ups is snapped back onto the bank.
	if frontend && out.Kind != KindQuestion && !out.Done {
		out = wireTurn{Kind: KindQuestion, Text: bank[asked], Lang: out.Lang}
	}

	text := out.Text
	if out.Kind == KindFollowup {
		text = refineFollowupTone(text, out.Lang)
	}
	enforced := out.Lang
	if lang == LangMix {
		enforced = LangMix
	}
	return Turn{
		Speaker:   SpeakerInterviewer,
		Kind:      out.Kind,
		Text:      text,
		Lang:      enforced,
		Timestamp: time.Now(),
		Done:      out.Done,
	}, nil
}

var genericFollowups = map[string]struct{}{
	"can you give one concrete example with a measurable outcome?": {},
	"can you provide more detail?":                                 {},
	"please elaborate.":                                            {},
	"please share more details.":                                   {},
}

// validateModelTurn enforces the acceptance policy on model output: shape,
// language, anti-repetition and, for follow-ups, demonstrable engagement
// with the candidate's answer.
func validateModelTurn(out wireTurn, req Request, lang Lang) error {
	if !ValidTurnKind(out.Kind) {
		return fmt.Errorf("model turn has invalid kind %q", out.Kind)
	}
	if !ValidLang(out.Lang) {
		return fmt.Errorf("model turn has invalid lang %q", out.Lang)
	}
	if out.Text == "" {
		return fmt.Errorf("model turn has empty text")
	}
	if last := lastInterviewerTurn(req.Conversation); last != nil && samePrompt(last.Text, out.Text) {
		return fmt.Errorf("model repeated the previous prompt")
	}
	if out.Kind != KindFollowup {
		return nil
	}

	lower := strings.ToLower(out.Text)
	mentions := strings.Contains(out.Text, "You mentioned") || strings.Contains(out.Text, "آپ نے")
	if !mentions {
		for _, kw := range ContextKeywords(req.Answer) {
			if strings.Contains(lower, kw) {
				mentions = true
				break
			}
		}
	}
	if !mentions {
		return fmt.Errorf("model follow-up does not reference the candidate's answer")
	}
	if _, generic := genericFollowups[strings.TrimSpace(lower)]; generic {
		return fmt.Errorf("model returned a generic follow-up")
	}
	return nil
}

// refineFollowupTone replaces known boilerplate probe phrasings with
// sharper, language-appropriate wording.
func refineFollowupTone(text string, lang Lang) string {
	t := strings.TrimSpace(text)
	if t == "" {
		return t
	}
	if lang == LangUR || lang == LangMix {
		t = strings.ReplaceAll(t,
			"Can you give one concrete example with a measurable outcome?",
			"اس کا quantified outcome کیا تھا؟")
		return strings.ReplaceAll(t,
			"Please give one concrete example and the measurable result.",
			"ایک specific example دیں اور quantified result بتائیں۔")
	}
	t = strings.ReplaceAll(t,
		"Can you give one concrete example with a measurable outcome?",
		"What was the quantified outcome, and how did you validate it?")
	return strings.ReplaceAll(t,
		"Please give one concrete example and the measurable result.",
		"Share one concrete case with numbers and validation.")
}

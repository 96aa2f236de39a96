// Package interview implements the dialogue turn policy engine: given the
// full turn history and the latest candidate answer it decides what the
// interviewer says next, using a deterministic question-bank policy, an
// optional LLM-backed generator with strict output validation, and a
// deterministic fallback when the model is absent or misbehaves.
package interview

import (
	"regexp"
	"strings"
	"time"
)

// Speaker identifies which side of the conversation produced a turn.
type Speaker string

const (
	SpeakerInterviewer Speaker = "interviewer"
	SpeakerCandidate   Speaker = "candidate"
)

// Kind classifies a turn within the dialogue.
type Kind string

const (
	KindGreeting Kind = "greeting"
	KindQuestion Kind = "question"
	KindFollowup Kind = "followup"
	KindAnswer   Kind = "answer"
	KindClosing  Kind = "closing"
)

// Lang is a wire language tag for a turn.
type Lang string

const (
	LangEN  Lang = "en"
	LangUR  Lang = "ur"
	LangMix Lang = "mix"
)

// ValidLang reports whether l is one of the supported tags.
func ValidLang(l Lang) bool { return l == LangEN || l == LangUR || l == LangMix }

// ValidTurnKind reports whether k is a kind the engine may emit.
func ValidTurnKind(k Kind) bool {
	return k == KindQuestion || k == KindFollowup || k == KindClosing
}

// Turn is one immutable unit of dialogue. The ordered sequence of turns is
// the sole state the policy engine consults.
type Turn struct {
	Speaker   Speaker   `json:"speaker"`
	Kind      Kind      `json:"kind"`
	Text      string    `json:"text"`
	Lang      Lang      `json:"lang"`
	Timestamp time.Time `json:"ts"`
	Done      bool      `json:"done,omitempty"`
}

var urduScript = regexp.MustCompile(`[\x{0600}-\x{06FF}]`)

// HasUrduScript reports whether text contains Arabic-script characters.
func HasUrduScript(text string) bool { return urduScript.MatchString(text) }

// DetectLang infers a language tag from script presence in text.
func DetectLang(text string) Lang {
	if HasUrduScript(text) {
		return LangUR
	}
	return LangEN
}

// ResolveLang honours an explicit preference and otherwise infers the
// language from the candidate's latest answer.
func ResolveLang(preferred Lang, answer string) Lang {
	if ValidLang(preferred) {
		return preferred
	}
	return DetectLang(answer)
}

func lastInterviewerTurn(conversation []Turn) *Turn {
	for i := len(conversation) - 1; i >= 0; i-- {
		if conversation[i].Speaker == SpeakerInterviewer {
			return &conversation[i]
		}
	}
	return nil
}

func countMainQuestions(conversation []Turn) int {
	n := 0
	for _, t := range conversation {
		if t.Speaker == SpeakerInterviewer && t.Kind == KindQuestion {
			n++
		}
	}
	return n
}

func followupsSinceLastMain(conversation []Turn) int {
	n := 0
	for i := len(conversation) - 1; i >= 0; i-- {
		t := conversation[i]
		if t.Speaker != SpeakerInterviewer {
			continue
		}
		if t.Kind == KindQuestion {
			break
		}
		if t.Kind == KindFollowup {
			n++
		}
	}
	return n
}

func samePrompt(a, b string) bool {
	x := strings.ToLower(strings.TrimSpace(a))
	y := strings.ToLower(strings.TrimSpace(b))
	return x != "" && y != "" && x == y
}

// Snippet returns the leading word fragment of an answer, used so a
// follow-up always references something the candidate actually said.
func Snippet(answer string) string {
	words := strings.Fields(strings.TrimSpace(answer))
	if len(words) > 10 {
		words = words[:10]
	}
	return strings.Join(words, " ")
}

func trimText(text string, max int) string {
	t := strings.TrimSpace(text)
	if len(t) <= max {
		return t
	}
	return t[:max] + "..."
}

// BuildTranscript renders a conversation as labelled plain-text lines.
func BuildTranscript(conversation []Turn) string {
	var b strings.Builder
	for i, t := range conversation {
		if i > 0 {
			b.WriteString("\n")
		}
		if t.Speaker == SpeakerInterviewer {
			b.WriteString("Interviewer: ")
		} else {
			b.WriteString("Candidate: ")
		}
		b.WriteString(t.Text)
	}
	return b.String()
}

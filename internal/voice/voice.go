// Package voice turns interviewer text into audible speech. A primary cloud
// synthesizer is tried first with a hard deadline; local synthesis covers
// failures so the interview never goes mute.
package voice

import (
	"context"
	"regexp"
	"strings"

	"github.com/MuhammadMuneeeb/Recruitement/internal/interview"
)

// Synthesizer renders text to a PCM WAV clip.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, lang interview.Lang) ([]byte, error)
	Supports(lang interview.Lang) bool
	Name() string
}

// Player renders a WAV clip and blocks until it has drained.
type Player interface {
	Play(wav []byte) error
}

var sentenceSplit = regexp.MustCompile(`[^.!?۔؟]+[.!?۔؟]*`)

// SplitChunks breaks an utterance at sentence boundaries, both Latin and
// Urdu punctuation, so synthesis can start on the first sentence while the
// rest is still rendering.
func SplitChunks(text string) []string {
	matches := sentenceSplit.FindAllString(text, -1)
	var out []string
	for _, m := range matches {
		m = strings.TrimSpace(m)
		if m != "" {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		t := strings.TrimSpace(text)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

package speech

import (
	"regexp"
	"strings"

	"github.com/MuhammadMuneeeb/Recruitement/internal/interview"
)

// ChooseAlternative picks the best recognition hypothesis for the expected
// language. Confidence carries the base score; script bonuses bias toward
// the locale the session is probing, so a noisy low-confidence Urdu
// hypothesis still beats an English mishearing during an Urdu probe.
func ChooseAlternative(alts []Alternative, lang interview.Lang) string {
	best := ""
	bestScore := -1.0
	for _, alt := range alts {
		text := strings.TrimSpace(alt.Transcript)
		if text == "" {
			continue
		}
		score := alt.Confidence * 100
		urdu := interview.HasUrduScript(text)
		switch lang {
		case interview.LangUR:
			if urdu {
				score += 80
			} else {
				score -= 8
			}
		case interview.LangMix:
			if urdu {
				score += 30
			} else {
				score += 20
			}
		default:
			if !urdu {
				score += 25
			}
		}
		if score > bestScore {
			bestScore = score
			best = text
		}
	}
	return best
}

// \b is ASCII-only in RE2, so Urdu tokens are matched as substrings instead.
var (
	affirmativeRe   = regexp.MustCompile(`(?i)\b(yes|yeah|yep|sure|ready|ok|okay|haan|jee|ji)\b`)
	negativeRe      = regexp.MustCompile(`(?i)\b(no|nope|not|wait|nahi)\b`)
	affirmativeUrdu = []string{"جی", "ہاں", "ٹھیک", "تیار"}
	negativeUrdu    = []string{"نہیں", "رکیں", "ابھی نہیں"}
)

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// IsAffirmative reports whether a short reply reads as consent in either
// language. Negation wins when both cues appear.
func IsAffirmative(text string) bool {
	if IsNegative(text) {
		return false
	}
	return affirmativeRe.MatchString(text) || containsAny(text, affirmativeUrdu)
}

func IsNegative(text string) bool {
	return negativeRe.MatchString(text) || containsAny(text, negativeUrdu)
}

// wordCount counts whitespace-separated tokens; Urdu script words count the
// same as Latin words.
func wordCount(text string) int {
	return len(strings.Fields(strings.TrimSpace(text)))
}

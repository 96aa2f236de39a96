package interview

import (
	"regexp"
	"strings"
)

// sufficientDepth is the score at which an answer no longer needs a follow-up.
const sufficientDepth = 3

var (
	digitRe          = regexp.MustCompile(`\d`)
	outcomeVocabEN   = regexp.MustCompile(`impact|result|tradeoff|metric|because|learned|improved|measured`)
	outcomeVocabUR   = regexp.MustCompile(`نتیجہ|اثر|پیمانہ|بہتری|سیکھا`)
	measurementProbe = regexp.MustCompile(`measure|metric|measured|پیمانہ|میژر`)
	measurementReply = regexp.MustCompile(`measured|metric|tracking|before and after|p95|weekly|kpi|dashboard`)
)

// DepthScore is the heuristic measure of how substantive an answer is.
// Length, quantification and outcome vocabulary (in either language) each
// contribute points.
func DepthScore(answer string) int {
	lower := strings.ToLower(answer)
	words := len(strings.Fields(strings.TrimSpace(answer)))
	score := 0
	if words >= 25 {
		score += 2
	}
	if digitRe.MatchString(lower) {
		score++
	}
	if outcomeVocabEN.MatchString(lower) {
		score++
	}
	if outcomeVocabUR.MatchString(answer) {
		score++
	}
	return score
}

// answersMeasurementProbe reports whether the answer addresses a
// quantified-measurement follow-up in measurement terms. An answer that does
// is treated as sufficient even when its raw depth score is low, so the
// engine does not probe the same point twice.
func answersMeasurementProbe(answer string) bool {
	return measurementReply.MatchString(strings.ToLower(answer))
}

// effectiveDepth is DepthScore promoted to sufficient when the previous
// interviewer turn was a measurement probe and the answer engages with it.
func effectiveDepth(conversation []Turn, answer string) int {
	depth := DepthScore(answer)
	last := lastInterviewerTurn(conversation)
	if last != nil && last.Kind == KindFollowup &&
		measurementProbe.MatchString(last.Text) &&
		answersMeasurementProbe(answer) && depth < sufficientDepth {
		depth = sufficientDepth
	}
	return depth
}

var contextStopwords = map[string]struct{}{
	"with": {}, "from": {}, "that": {}, "this": {}, "your": {},
	"about": {}, "have": {}, "what": {}, "when": {}, "which": {},
}

var keywordStrip = regexp.MustCompile(`[^a-z0-9\x{0600}-\x{06FF}\s]`)

// ContextKeywords extracts up to five content words (length >= 4, stopwords
// removed) from an answer, used to check that a generated follow-up actually
// engages with what the candidate said.
func ContextKeywords(answer string) []string {
	cleaned := keywordStrip.ReplaceAllString(strings.ToLower(answer), " ")
	var out []string
	for _, w := range strings.Fields(cleaned) {
		if len([]rune(w)) < 4 {
			continue
		}
		if _, stop := contextStopwords[w]; stop {
			continue
		}
		out = append(out, w)
		if len(out) == 5 {
			break
		}
	}
	return out
}

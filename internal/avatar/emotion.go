package avatar

import (
	"regexp"
	"strings"
)

var (
	closingWords     = regexp.MustCompile(`(?i)thank you for your time|that concludes|آپ کے وقت کا شکریہ`)
	encouragingWords = regexp.MustCompile(`(?i)great|good|interesting|nice|بہت خوب|اچھا`)
	seriousWords     = regexp.MustCompile(`(?i)challenge|difficult|problem|failure|مشکل|ناکامی`)
)

// DetectEmotion picks the affect tag for an utterance using surface cues of
// the text. Question prompts read as curious unless a stronger cue wins.
func DetectEmotion(text string) Emotion {
	switch {
	case closingWords.MatchString(text):
		return EmotionClosing
	case encouragingWords.MatchString(text):
		return EmotionEncouraging
	case seriousWords.MatchString(text):
		return EmotionSerious
	case strings.ContainsAny(text, "?؟"):
		return EmotionCurious
	default:
		return EmotionCalm
	}
}

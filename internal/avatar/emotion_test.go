package avatar

import "testing"

func TestDetectEmotion(t *testing.T) {
	cases := []struct {
		text string
		want Emotion
	}{
		{"Thank you for your time. That concludes the interview.", EmotionClosing},
		{"آپ کے وقت کا شکریہ۔", EmotionClosing},
		{"Great, take your time with this one.", EmotionEncouraging},
		{"Tell me about a difficult failure you handled.", EmotionSerious},
		{"What framework did you use?", EmotionCurious},
		{"آپ نے کون سا فریم ورک استعمال کیا؟", EmotionCurious},
		{"Let us continue.", EmotionCalm},
	}
	for _, tc := range cases {
		if got := DetectEmotion(tc.text); got != tc.want {
			t.Errorf("DetectEmotion(%q) = %s, want %s", tc.text, got, tc.want)
		}
	}
}

package interview

import (
	"strings"
	"testing"
)

func TestDepthScore(t *testing.T) {
	cases := []struct {
		name   string
		answer string
		want   int
	}{
		{"empty", "", 0},
		{"short_plain", "I wrote some code", 0},
		{"digit_only", "about 20 services", 1},
		{"outcome_en", "the result was good", 1},
		{"outcome_ur", "اس کا نتیجہ اچھا تھا", 1},
		{"long_digit_outcome", strings.Repeat("we shipped it carefully ", 7) + "and the result improved latency by 40", 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DepthScore(tc.answer); got != tc.want {
				t.Fatalf("DepthScore(%q) = %d, want %d", tc.answer, got, tc.want)
			}
		})
	}
}

func TestEffectiveDepth_MeasurementPromotion(t *testing.T) {
	conv := []Turn{
		{Speaker: SpeakerInterviewer, Kind: KindFollowup, Text: "How did you measure that result in practice?"},
	}
	answer := "we tracked the p95 dashboard weekly"
	if DepthScore(answer) >= sufficientDepth {
		t.Fatal("test answer must be shallow on its own")
	}
	if got := effectiveDepth(conv, answer); got != sufficientDepth {
		t.Fatalf("effectiveDepth = %d, want %d", got, sufficientDepth)
	}
}

func TestEffectiveDepth_NoPromotionAfterMainQuestion(t *testing.T) {
	conv := []Turn{
		{Speaker: SpeakerInterviewer, Kind: KindQuestion, Text: "How do you measure success?"},
	}
	answer := "we tracked the p95 dashboard weekly"
	if got := effectiveDepth(conv, answer); got >= sufficientDepth {
		t.Fatalf("effectiveDepth = %d, promotion should require a follow-up probe", got)
	}
}

func TestContextKeywords(t *testing.T) {
	got := ContextKeywords("I migrated the payment gateway with zero downtime, which improved checkout")
	want := []string{"migrated", "payment", "gateway", "zero", "downtime"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestContextKeywords_UrduScript(t *testing.T) {
	got := ContextKeywords("میں نے مائیگریشن مکمل کیا")
	if len(got) == 0 {
		t.Fatal("expected Urdu content words to survive extraction")
	}
}

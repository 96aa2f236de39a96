package scoring

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeModel struct {
	reply string
	err   error
	calls int
}

func (f *fakeModel) ChatJSON(_ context.Context, _, _ string, _ int) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.reply), nil
}

func TestHeuristicRecommendationBands(t *testing.T) {
	strong := strings.Repeat("we improved the project delivery by 30 percent and measured results carefully ", 25)
	moderate := strings.Repeat("we improved the project delivery by 30 percent and measured results carefully ", 10)

	cases := []struct {
		name       string
		transcript string
		want       string
	}{
		{"strong transcript shortlists", strong, RecommendShortlist},
		{"moderate transcript holds", moderate, RecommendHold},
		{"thin transcript rejects", "hello", RecommendReject},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fb := Heuristic("Backend Engineer", tc.transcript)
			if fb.Recommendation != tc.want {
				t.Fatalf("recommendation = %s (score %d), want %s", fb.Recommendation, fb.Score, tc.want)
			}
			if fb.RoleTitle != "Backend Engineer" {
				t.Fatalf("roleTitle = %q", fb.RoleTitle)
			}
			if fb.Rubric.Communication < 1 || fb.Rubric.Communication > 5 {
				t.Fatalf("communication out of range: %d", fb.Rubric.Communication)
			}
		})
	}
}

func TestHeuristicQuantificationDrivesClarity(t *testing.T) {
	with := Heuristic("Role", "we cut latency by 40 percent")
	without := Heuristic("Role", "we cut latency substantially")
	if with.Rubric.Clarity <= without.Rubric.Clarity {
		t.Fatalf("clarity with numbers %d, without %d", with.Rubric.Clarity, without.Rubric.Clarity)
	}
}

func TestGenerateAcceptsValidModelFeedback(t *testing.T) {
	model := &fakeModel{reply: `{
		"roleTitle": "ignored",
		"score": 82,
		"recommendation": "Shortlist",
		"strengths": ["clear ownership", "quantified results", "good tradeoffs", "extra item"],
		"risks": ["limited scale"],
		"evidence": ["described the migration"],
		"rubric": {"communication": 9, "problemSolving": 4, "roleFit": 4, "clarity": 0}
	}`}
	s := &Scorer{Model: model}

	fb := s.Generate(context.Background(), "Frontend Developer", "transcript text")
	if fb.Score != 82 || fb.Recommendation != RecommendShortlist {
		t.Fatalf("model feedback not used: %+v", fb)
	}
	if fb.RoleTitle != "Frontend Developer" {
		t.Fatalf("roleTitle must come from the session, got %q", fb.RoleTitle)
	}
	if fb.Rubric.Communication != 5 || fb.Rubric.Clarity != 1 {
		t.Fatalf("rubric not clamped: %+v", fb.Rubric)
	}
	if len(fb.Strengths) != 3 {
		t.Fatalf("strengths not capped: %v", fb.Strengths)
	}
}

func TestGenerateFallsBackOnModelError(t *testing.T) {
	s := &Scorer{Model: &fakeModel{err: errors.New("provider down")}}
	fb := s.Generate(context.Background(), "Role", "we improved the project by 20 percent")
	if fb.Recommendation == "" || fb.Score == 0 {
		t.Fatalf("heuristic fallback missing: %+v", fb)
	}
}

func TestGenerateFallsBackOnBadPayload(t *testing.T) {
	cases := []struct {
		name  string
		reply string
	}{
		{"not json", "sorry"},
		{"score out of range", `{"score":140,"recommendation":"Shortlist"}`},
		{"unknown recommendation", `{"score":70,"recommendation":"Maybe"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &Scorer{Model: &fakeModel{reply: tc.reply}}
			fb := s.Generate(context.Background(), "Role", "hello")
			if fb.Recommendation != RecommendReject {
				t.Fatalf("expected heuristic reject for thin transcript, got %+v", fb)
			}
		})
	}
}

func TestGenerateWithoutModelUsesHeuristic(t *testing.T) {
	var s *Scorer
	fb := s.Generate(context.Background(), "Role", "hello")
	if fb.Recommendation != RecommendReject {
		t.Fatalf("nil scorer must still produce feedback: %+v", fb)
	}
}

// Package scoring turns a completed interview transcript into structured
// hiring feedback. The model-backed path is validated strictly; anything
// malformed degrades to the deterministic heuristic so submission never
// fails on provider trouble.
package scoring

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"regexp"
	"strings"

	"github.com/MuhammadMuneeeb/Recruitement/internal/interview"
)

// Rubric holds the 1-5 per-dimension scores.
type Rubric struct {
	Communication  int `json:"communication"`
	ProblemSolving int `json:"problemSolving"`
	RoleFit        int `json:"roleFit"`
	Clarity        int `json:"clarity"`
}

// Feedback is the evaluation attached to a completed session.
type Feedback struct {
	RoleTitle      string   `json:"roleTitle"`
	Score          int      `json:"score"`
	Recommendation string   `json:"recommendation"`
	Strengths      []string `json:"strengths"`
	Risks          []string `json:"risks"`
	Evidence       []string `json:"evidence"`
	Rubric         Rubric   `json:"rubric"`
}

const (
	RecommendShortlist = "Shortlist"
	RecommendHold      = "Hold"
	RecommendReject    = "Reject"
)

// Scorer generates feedback, preferring the configured model.
type Scorer struct {
	Model interview.Model
}

var (
	digitRe     = regexp.MustCompile(`\d`)
	impactRe    = regexp.MustCompile(`impact|improv|result|metric|measured|led|built|tradeoff`)
	ownershipRe = regexp.MustCompile(`project|team|delivery|ownership`)
)

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Heuristic scores a transcript without any model: word volume drives
// communication, impact vocabulary drives problem solving, quantification
// drives clarity.
func Heuristic(roleTitle, transcript string) Feedback {
	text := strings.ToLower(transcript)
	words := len(strings.Fields(text))
	hasNumbers := digitRe.MatchString(text)

	communication := clamp(int(math.Round(float64(words)/55)), 1, 5)
	problemSolving := 2
	if impactRe.MatchString(text) {
		problemSolving = 4
	}
	roleFit := 2
	if ownershipRe.MatchString(text) {
		roleFit = 3
	}
	clarity := 3
	if hasNumbers {
		clarity = 4
	}

	score := int(math.Round(
		float64(communication)*20*0.2 +
			float64(problemSolving)*20*0.35 +
			float64(roleFit)*20*0.25 +
			float64(clarity)*20*0.2))

	recommendation := RecommendReject
	switch {
	case score >= 75:
		recommendation = RecommendShortlist
	case score >= 60:
		recommendation = RecommendHold
	}

	evidenceNumbers := "Limited quantified outcomes in responses."
	if hasNumbers {
		evidenceNumbers = "Candidate cited quantified outcomes."
	}
	return Feedback{
		RoleTitle:      roleTitle,
		Score:          score,
		Recommendation: recommendation,
		Strengths: []string{
			"Maintained coherent communication throughout the interview.",
			"Provided at least one ownership-oriented example.",
		},
		Risks: []string{
			"Technical depth could be validated further in a live technical round.",
			"More measurable outcomes would improve confidence.",
		},
		Evidence: []string{
			"Candidate described project context and responsibilities.",
			evidenceNumbers,
		},
		Rubric: Rubric{
			Communication:  communication,
			ProblemSolving: problemSolving,
			RoleFit:        roleFit,
			Clarity:        clarity,
		},
	}
}

const scoringSystemPrompt = `You are a hiring evaluator scoring first-round interview transcripts.
Return strict JSON with this schema:
{
  "roleTitle": string,
  "score": number,
  "recommendation": "Shortlist" | "Hold" | "Reject",
  "strengths": string[],
  "risks": string[],
  "evidence": string[],
  "rubric": {"communication": number, "problemSolving": number, "roleFit": number, "clarity": number}
}
Rules:
- rubric values are 1-5
- overall score is 0-100 and should align with rubric
- use evidence from transcript only
- max 3 items each for strengths/risks/evidence`

// Generate builds feedback for a transcript. Model failures and invalid
// payloads are absorbed here; the heuristic result is always usable.
func (s *Scorer) Generate(ctx context.Context, roleTitle, transcript string) Feedback {
	if s == nil || s.Model == nil {
		return Heuristic(roleTitle, transcript)
	}

	user, err := json.Marshal(map[string]string{"roleTitle": roleTitle, "transcript": transcript})
	if err != nil {
		return Heuristic(roleTitle, transcript)
	}
	raw, err := s.Model.ChatJSON(ctx, scoringSystemPrompt, string(user), 520)
	if err != nil {
		log.Printf("[scoring] model unavailable, using heuristic: %v", err)
		return Heuristic(roleTitle, transcript)
	}

	var out Feedback
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Printf("[scoring] malformed model feedback, using heuristic: %v", err)
		return Heuristic(roleTitle, transcript)
	}
	if out.Score < 0 || out.Score > 100 ||
		(out.Recommendation != RecommendShortlist &&
			out.Recommendation != RecommendHold &&
			out.Recommendation != RecommendReject) {
		return Heuristic(roleTitle, transcript)
	}

	out.RoleTitle = roleTitle
	out.Rubric.Communication = clamp(out.Rubric.Communication, 1, 5)
	out.Rubric.ProblemSolving = clamp(out.Rubric.ProblemSolving, 1, 5)
	out.Rubric.RoleFit = clamp(out.Rubric.RoleFit, 1, 5)
	out.Rubric.Clarity = clamp(out.Rubric.Clarity, 1, 5)
	out.Strengths = capList(out.Strengths, 3)
	out.Risks = capList(out.Risks, 3)
	out.Evidence = capList(out.Evidence, 3)
	return out
}

func capList(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

package interview

import (
	"fmt"
	"time"
)

// Opening is the pair of turns that starts every interview: a greeting and
// the first main question from the role's bank.
type Opening struct {
	Greeting string
	Question string
	Lang     Lang
}

// OpeningFor builds the opening for a candidate, role and preferred
// language. The greeting is synthesized; the question always comes from the
// bank so the progression counters stay consistent.
func OpeningFor(candidateName, roleTitle string, preferred Lang) Opening {
	switch preferred {
	case LangMix:
		question := "Please introduce yourself briefly, اور بتائیں کہ آپ اس رول میں دلچسپی کیوں رکھتے ہیں۔"
		if ClassifyTrack(roleTitle) == TrackOrgDev {
			question = "As Organizational Development Lead, capability gaps آپ کیسے assess کرتے ہیں؟"
		}
		return Opening{
			Greeting: fmt.Sprintf("%s, welcome to your interview. آپ کا %s رول کے لیے ابتدائی انٹرویو شروع ہو رہا ہے۔",
				candidateName, roleTitle),
			Question: question,
			Lang:     LangMix,
		}
	case LangUR:
		return Opening{
			Greeting: fmt.Sprintf("%s صاحب/صاحبہ، خوش آمدید۔ %s رول کے ابتدائی انٹرویو میں آپ کا استقبال ہے۔ میں آپ سے پروفیشنل انداز میں سوالات کروں گا۔",
				candidateName, roleTitle),
			Question: BankFor(LangUR, roleTitle, nil, "")[0],
			Lang:     LangUR,
		}
	default:
		return Opening{
			Greeting: fmt.Sprintf("Welcome %s. We will have a structured conversation for the %s role. You can answer in English or Urdu.",
				candidateName, roleTitle),
			Question: BankFor(LangEN, roleTitle, nil, "")[0],
			Lang:     LangEN,
		}
	}
}

// Turns renders the opening as conversation turns ready to append.
func (o Opening) Turns() []Turn {
	now := time.Now()
	return []Turn{
		{Speaker: SpeakerInterviewer, Kind: KindGreeting, Text: o.Greeting, Lang: o.Lang, Timestamp: now},
		{Speaker: SpeakerInterviewer, Kind: KindQuestion, Text: o.Question, Lang: o.Lang, Timestamp: now},
	}
}

package interview

import (
	"regexp"
	"strings"
)

// Track identifies which question bank a role title maps to.
type Track string

const (
	TrackGeneral  Track = "general"
	TrackOrgDev   Track = "org_dev"
	TrackFrontend Track = "frontend"
)

// Framework is the detected frontend sub-specialization.
type Framework string

const (
	FrameworkReact   Framework = "react"
	FrameworkAngular Framework = "angular"
)

var mainQuestionsEN = []string{
	"Tell me about yourself and why you are interested in this role.",
	"Describe one project you built recently. What was your contribution and impact?",
	"Share one difficult technical decision you made and the tradeoffs involved.",
	"Tell me about a disagreement with a teammate and how you handled it.",
	"If selected, what would your first 30 days in this role look like?",
}

var mainQuestionsUR = []string{
	"اپنا تعارف کروائیں اور بتائیں کہ آپ اس رول میں دلچسپی کیوں رکھتے ہیں۔",
	"کسی حالیہ پروجیکٹ کے بارے میں بتائیں جو آپ نے بنایا ہو۔ آپ کا کردار اور اس کا اثر کیا تھا؟",
	"کوئی مشکل تکنیکی فیصلہ بیان کریں اور بتائیں کہ آپ نے کن ٹریڈ آفز کو مدنظر رکھا۔",
	"ایسی صورتحال بتائیں جہاں آپ کی ٹیم ممبر سے اختلاف ہوا ہو، آپ نے اسے کیسے ہینڈل کیا؟",
	"اگر آپ منتخب ہو جائیں تو پہلے 30 دن میں آپ کا پلان کیا ہوگا؟",
}

var orgDevQuestionsEN = []string{
	"As an Organizational Development Lead, how do you assess organization-wide capability gaps?",
	"Describe one organizational change initiative you led and its measurable impact.",
	"How do you align leadership development with business strategy?",
	"How do you handle resistance to change from senior stakeholders?",
	"What would your first 90 days look like in this Organizational Development Lead role?",
}

var orgDevQuestionsUR = []string{
	"بطور Organizational Development Lead آپ organization-wide capability gaps کو کیسے assess کرتے ہیں؟",
	"کوئی ایک organizational change initiative بیان کریں جو آپ نے lead کیا ہو اور اس کا measurable اثر کیا تھا؟",
	"آپ leadership development کو business strategy کے ساتھ کیسے align کرتے ہیں؟",
	"Senior stakeholders کی resistance to change کو آپ کیسے handle کرتے ہیں؟",
	"اس Organizational Development Lead رول میں آپ کے پہلے 90 دن کا پلان کیا ہوگا؟",
}

var frontendCommonQuestions = []string{
	"Please briefly introduce yourself and your frontend development experience.",
	"Which frontend technologies are you currently working with?",
	"What type of project are you currently working on (product, service, or freelance)?",
	"What are your exact responsibilities in the current project?",
	"What is the most challenging frontend issue you recently solved?",
	"What is the difference between == and === in JavaScript?",
	"What is a closure in JavaScript?",
	"What is event bubbling?",
	"If a feature breaks in production, what steps do you take?",
	"Have you owned any feature end-to-end?",
	"What is your current salary?",
	"What is your expected salary?",
	"What is your notice period?",
	"Are you currently interviewing elsewhere or holding any offers?",
}

var frontendFrameworkQuestions = map[Framework][]string{
	FrameworkReact: {
		"What causes unnecessary re-renders in React?",
		"How do you optimize performance in a React app?",
	},
	FrameworkAngular: {
		"What is change detection in Angular?",
		"What is the difference between Observables and Promises?",
	},
}

// ClassifyTrack maps a role title onto a question track. Classification is
// deterministic and re-evaluated each turn.
func ClassifyTrack(roleTitle string) Track {
	t := strings.ToLower(roleTitle)
	switch {
	case strings.Contains(t, "frontend"),
		strings.Contains(t, "front-end"),
		strings.Contains(t, "front end"),
		strings.Contains(t, "react"),
		strings.Contains(t, "angular"),
		strings.Contains(t, "ui engineer"),
		strings.Contains(t, "web developer"),
		strings.Contains(t, "javascript"):
		return TrackFrontend
	case strings.Contains(t, "organizational development"),
		strings.Contains(t, "organization development"),
		strings.Contains(t, "org development"),
		strings.Contains(t, "organizational lead"),
		strings.Contains(t, "od lead"):
		return TrackOrgDev
	default:
		return TrackGeneral
	}
}

var (
	angularHints = regexp.MustCompile(`\bangular\b|rxjs|ngrx|typescript`)
	reactHints   = regexp.MustCompile(`\breact\b|next\.?js|redux|jsx|hooks`)
)

func frameworkFromText(text string) (Framework, bool) {
	t := strings.ToLower(text)
	if angularHints.MatchString(t) {
		return FrameworkAngular, true
	}
	if reactHints.MatchString(t) {
		return FrameworkReact, true
	}
	return "", false
}

// DetectFramework scans the latest answer and then the conversation history
// (newest candidate turn first) for a sub-specialization hint. The first hit
// wins, which keeps the selection sticky once a specialization shows up
// anywhere in the history. React is the default.
func DetectFramework(conversation []Turn, answer string) Framework {
	if fw, ok := frameworkFromText(answer); ok {
		return fw
	}
	for i := len(conversation) - 1; i >= 0; i-- {
		if conversation[i].Speaker != SpeakerCandidate {
			continue
		}
		if fw, ok := frameworkFromText(conversation[i].Text); ok {
			return fw
		}
	}
	return FrameworkReact
}

func frontendBank(fw Framework) []string {
	fwQuestions, ok := frontendFrameworkQuestions[fw]
	if !ok {
		fwQuestions = frontendFrameworkQuestions[FrameworkReact]
	}
	bank := make([]string, 0, len(frontendCommonQuestions)+len(fwQuestions))
	bank = append(bank, frontendCommonQuestions[:8]...)
	bank = append(bank, fwQuestions...)
	bank = append(bank, frontendCommonQuestions[8:]...)
	return bank
}

// BankFor returns the ordered main-question bank for a role and language.
// Frontend questions are English-only; the other tracks localize to Urdu.
func BankFor(lang Lang, roleTitle string, conversation []Turn, answer string) []string {
	switch ClassifyTrack(roleTitle) {
	case TrackFrontend:
		return frontendBank(DetectFramework(conversation, answer))
	case TrackOrgDev:
		if lang == LangUR {
			return orgDevQuestionsUR
		}
		return orgDevQuestionsEN
	default:
		if lang == LangUR {
			return mainQuestionsUR
		}
		return mainQuestionsEN
	}
}

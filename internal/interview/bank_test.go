package interview

import "testing"

func TestClassifyTrack(t *testing.T) {
	cases := []struct {
		role string
		want Track
	}{
		{"Frontend Developer", TrackFrontend},
		{"Senior Front-End Engineer", TrackFrontend},
		{"React Developer", TrackFrontend},
		{"Angular Engineer", TrackFrontend},
		{"Web Developer", TrackFrontend},
		{"Organizational Development Lead", TrackOrgDev},
		{"OD Lead", TrackOrgDev},
		{"Backend Engineer", TrackGeneral},
		{"Data Scientist", TrackGeneral},
	}
	for _, tc := range cases {
		if got := ClassifyTrack(tc.role); got != tc.want {
			t.Errorf("ClassifyTrack(%q) = %s, want %s", tc.role, got, tc.want)
		}
	}
}

func TestDetectFramework_AnswerWinsOverHistory(t *testing.T) {
	conv := []Turn{
		{Speaker: SpeakerCandidate, Kind: KindAnswer, Text: "I mostly work with Angular and RxJS"},
	}
	if fw := DetectFramework(conv, "lately I moved to React hooks"); fw != FrameworkReact {
		t.Fatalf("latest answer should win, got %s", fw)
	}
}

func TestDetectFramework_HistoryNewestFirst(t *testing.T) {
	conv := []Turn{
		{Speaker: SpeakerCandidate, Kind: KindAnswer, Text: "started with react years ago"},
		{Speaker: SpeakerInterviewer, Kind: KindQuestion, Text: "what now?"},
		{Speaker: SpeakerCandidate, Kind: KindAnswer, Text: "these days it is all ngrx and typescript"},
	}
	if fw := DetectFramework(conv, "nothing specific"); fw != FrameworkAngular {
		t.Fatalf("newest candidate turn should win, got %s", fw)
	}
}

func TestDetectFramework_DefaultsToReact(t *testing.T) {
	if fw := DetectFramework(nil, "I write websites"); fw != FrameworkReact {
		t.Fatalf("default framework should be react, got %s", fw)
	}
}

func TestDetectFramework_WordBoundary(t *testing.T) {
	// "reaction" must not read as a React hint.
	if fw := DetectFramework(nil, "my first reaction was to use angular"); fw != FrameworkAngular {
		t.Fatalf("got %s, want angular", fw)
	}
}

func TestBankFor_FrontendShape(t *testing.T) {
	bank := BankFor(LangEN, "Frontend Developer", nil, "I use redux daily")
	if len(bank) != 16 {
		t.Fatalf("frontend bank has %d questions, want 16", len(bank))
	}
	// Framework questions sit at positions 9 and 10 (indexes 8 and 9).
	if bank[8] != "What causes unnecessary re-renders in React?" {
		t.Errorf("position 9 = %q", bank[8])
	}
	if bank[9] != "How do you optimize performance in a React app?" {
		t.Errorf("position 10 = %q", bank[9])
	}
}

func TestBankFor_FrontendIgnoresLang(t *testing.T) {
	en := BankFor(LangEN, "Frontend Developer", nil, "")
	ur := BankFor(LangUR, "Frontend Developer", nil, "")
	if len(en) != len(ur) || en[0] != ur[0] {
		t.Fatal("frontend bank must not localize")
	}
}

func TestBankFor_Localization(t *testing.T) {
	if bank := BankFor(LangUR, "Backend Engineer", nil, ""); !HasUrduScript(bank[0]) {
		t.Error("general bank for ur should be in Urdu script")
	}
	if bank := BankFor(LangEN, "Organizational Development Lead", nil, ""); len(bank) != 5 {
		t.Errorf("org-dev bank has %d questions, want 5", len(bank))
	}
	if bank := BankFor(LangMix, "Backend Engineer", nil, ""); HasUrduScript(bank[0]) {
		t.Error("mix sessions use the English bank")
	}
}

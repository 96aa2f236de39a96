package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MuhammadMuneeeb/Recruitement/internal/interview"
	"github.com/MuhammadMuneeeb/Recruitement/internal/telemetry"
)

func TestStartVoicesOpening(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/interviews/tok-1/start" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req struct {
			PreferredLang interview.Lang `json:"preferredLang"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.PreferredLang != interview.LangMix {
			t.Errorf("preferredLang = %s", req.PreferredLang)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"turns": []interview.Turn{
				{Speaker: interview.SpeakerInterviewer, Text: "Welcome.", Lang: interview.LangEN},
				{Speaker: interview.SpeakerInterviewer, Text: "Tell me about yourself.", Lang: interview.LangEN},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok-1", interview.LangMix)
	prompt, err := c.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(prompt.Texts) != 2 || prompt.Texts[0] != "Welcome." {
		t.Fatalf("prompt = %+v", prompt)
	}
	if prompt.Done {
		t.Fatal("opening must not be done")
	}
}

func TestStartResumedVoicesOnlyLastPrompt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"resumed": true,
			"turns": []interview.Turn{
				{Speaker: interview.SpeakerInterviewer, Text: "Welcome.", Lang: interview.LangEN},
				{Speaker: interview.SpeakerCandidate, Text: "Hi, I am Sara.", Lang: interview.LangEN},
				{Speaker: interview.SpeakerInterviewer, Text: "What did you ship recently?", Lang: interview.LangEN},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok-1", interview.LangEN)
	prompt, err := c.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(prompt.Texts) != 1 || prompt.Texts[0] != "What did you ship recently?" {
		t.Fatalf("resume must re-voice only the last prompt, got %+v", prompt)
	}
}

func TestRespondAndSubmit(t *testing.T) {
	var submitted bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/interviews/tok-1/respond":
			var req struct {
				Answer string `json:"answer"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			if req.Answer != "my answer" {
				t.Errorf("answer = %q", req.Answer)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"done": true, "text": "Thank you for your time.", "lang": "en",
			})
		case "/api/interviews/tok-1/submit":
			submitted = true
			json.NewEncoder(w).Encode(map[string]string{"status": "completed"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "tok-1", interview.LangEN)
	prompt, err := c.Respond(context.Background(), "my answer")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if !prompt.Done || prompt.Texts[0] != "Thank you for your time." {
		t.Fatalf("prompt = %+v", prompt)
	}
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !submitted {
		t.Fatal("submit never reached the server")
	}
}

func TestErrorStatusSurfacesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"interview already completed"}`, http.StatusConflict)
	}))
	defer srv.Close()

	c := New(srv.URL, "tok-1", interview.LangEN)
	if _, err := c.Respond(context.Background(), "late answer"); err == nil {
		t.Fatal("expected error on 409")
	}
}

func TestRecordTurnLatencySetsToken(t *testing.T) {
	var got telemetry.TurnLatency
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := New(srv.URL, "tok-1", interview.LangEN)
	c.RecordTurnLatency(telemetry.TurnLatency{Profile: "balanced", CaptureMs: 900})
	if got.Token != "tok-1" || got.CaptureMs != 900 {
		t.Fatalf("shipped record = %+v", got)
	}
}

func TestSynthesizeSpeech(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/voice/tts" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "audio/wav")
		w.Write([]byte("RIFFclip"))
	}))
	defer srv.Close()

	c := New(srv.URL, "tok-1", interview.LangUR)
	wav, err := c.SynthesizeSpeech(context.Background(), "شکریہ", interview.LangUR)
	if err != nil {
		t.Fatalf("SynthesizeSpeech: %v", err)
	}
	if string(wav) != "RIFFclip" {
		t.Fatalf("wav = %q", wav)
	}
}

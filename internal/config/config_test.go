package config

import (
	"os"
	"testing"
)

func TestLoadServer_DefaultsAndEnv(t *testing.T) {
	os.Setenv("HTTP_ADDRESS", "")
	os.Setenv("GEMINI_MODEL_ID", "")
	os.Setenv("INTERVIEW_SPEED_PROFILE", "")
	os.Setenv("STRICT_VALIDATION", "")
	cfg := LoadServer()
	if cfg.HTTPAddress == "" {
		t.Fatalf("expected default http address")
	}
	if cfg.GeminiModel == "" {
		t.Fatalf("expected default gemini model")
	}
	if cfg.SpeedProfile != "balanced" {
		t.Fatalf("expected balanced default profile, got %q", cfg.SpeedProfile)
	}
	if cfg.StrictValidation {
		t.Fatalf("strict validation must default off")
	}

	os.Setenv("HTTP_ADDRESS", ":9191")
	os.Setenv("INTERVIEW_SPEED_PROFILE", "ultra_fast")
	os.Setenv("STRICT_VALIDATION", "1")
	defer func() {
		os.Setenv("HTTP_ADDRESS", "")
		os.Setenv("INTERVIEW_SPEED_PROFILE", "")
		os.Setenv("STRICT_VALIDATION", "")
	}()
	cfg = LoadServer()
	if cfg.HTTPAddress != ":9191" {
		t.Fatalf("HTTP_ADDRESS not honored, got %q", cfg.HTTPAddress)
	}
	if cfg.SpeedProfile != "ultra_fast" {
		t.Fatalf("profile not honored, got %q", cfg.SpeedProfile)
	}
	if !cfg.StrictValidation {
		t.Fatalf("STRICT_VALIDATION=1 not honored")
	}
}

func TestLoadAgent_Defaults(t *testing.T) {
	os.Setenv("INTERVIEW_SERVER_URL", "")
	os.Setenv("INTERVIEW_SPEED_PROFILE", "")
	os.Setenv("INTERVIEW_LANG", "")
	cfg := LoadAgent()
	if cfg.ServerURL != "http://localhost:8080" {
		t.Fatalf("expected default server url, got %q", cfg.ServerURL)
	}
	if cfg.SpeedProfile != "balanced" || cfg.PreferredLang != "mix" {
		t.Fatalf("defaults wrong: %+v", cfg)
	}
}

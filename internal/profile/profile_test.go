package profile

import (
	"testing"
	"time"
)

func TestGetKnownProfiles(t *testing.T) {
	for _, name := range Names() {
		p := Get(name)
		if p.Name != name {
			t.Fatalf("Get(%q).Name = %q", name, p.Name)
		}
		if p.Silence <= 0 || p.MinSpeech <= 0 || p.MinWords <= 0 {
			t.Fatalf("profile %q has empty endpointing thresholds: %+v", name, p)
		}
		if p.LLMTimeout <= 0 || p.MaxTokens <= 0 || p.ContextTurns <= 0 {
			t.Fatalf("profile %q has empty generation bounds: %+v", name, p)
		}
	}
}

func TestGetUnknownFallsBackToBalanced(t *testing.T) {
	p := Get("warp_speed")
	if p.Name != Default {
		t.Fatalf("unknown profile resolved to %q, want %q", p.Name, Default)
	}
}

func TestProfileOrdering(t *testing.T) {
	fast := Get("ultra_fast")
	balanced := Get("balanced")
	careful := Get("accuracy_first")

	if !(fast.Silence < balanced.Silence && balanced.Silence < careful.Silence) {
		t.Fatalf("silence windows out of order: %v %v %v", fast.Silence, balanced.Silence, careful.Silence)
	}
	if !(fast.LLMTimeout < balanced.LLMTimeout && balanced.LLMTimeout < careful.LLMTimeout) {
		t.Fatalf("llm timeouts out of order: %v %v %v", fast.LLMTimeout, balanced.LLMTimeout, careful.LLMTimeout)
	}
	if balanced.NoResponse != 15*time.Second {
		t.Fatalf("balanced NoResponse = %v", balanced.NoResponse)
	}
}

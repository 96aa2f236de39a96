package main

import (
	"context"

	"github.com/MuhammadMuneeeb/Recruitement/internal/apiclient"
	"github.com/MuhammadMuneeeb/Recruitement/internal/interview"
)

// serverSynth voices text through the server's TTS proxy so the agent needs
// no cloud credentials of its own.
type serverSynth struct {
	client *apiclient.Client
}

func (s *serverSynth) Name() string { return "server" }

func (s *serverSynth) Supports(interview.Lang) bool { return true }

func (s *serverSynth) Synthesize(ctx context.Context, text string, lang interview.Lang) ([]byte, error) {
	return s.client.SynthesizeSpeech(ctx, text, lang)
}

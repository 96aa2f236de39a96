package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MuhammadMuneeeb/Recruitement/internal/config"
	"github.com/MuhammadMuneeeb/Recruitement/internal/httpserver"
	"github.com/MuhammadMuneeeb/Recruitement/internal/interview"
	"github.com/MuhammadMuneeeb/Recruitement/internal/invite"
	"github.com/MuhammadMuneeeb/Recruitement/internal/llm"
	"github.com/MuhammadMuneeeb/Recruitement/internal/profile"
	"github.com/MuhammadMuneeeb/Recruitement/internal/scoring"
	"github.com/MuhammadMuneeeb/Recruitement/internal/store"
	"github.com/MuhammadMuneeeb/Recruitement/internal/voice"
)

func main() {
	// Include sub-second precision in all log timestamps
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)

	cfg := config.LoadServer()
	prof := profile.Get(cfg.SpeedProfile)

	var model interview.Model
	gemini := llm.NewGeminiClient(cfg.GeminiKey, cfg.GeminiModel)
	if gemini.Configured() {
		model = gemini
	}

	var sessions store.Store = store.NewMemoryStore()
	if cfg.SupabaseURL != "" && cfg.SupabaseKey != "" {
		supa, err := store.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey)
		if err != nil {
			log.Fatalf("supabase store: %v", err)
		}
		sessions = supa
	}

	var synths []voice.Synthesizer
	if cfg.ElevenLabsKey != "" && cfg.ElevenLabsVoiceID != "" {
		synths = append(synths, voice.NewElevenLabs(cfg.ElevenLabsKey, cfg.ElevenLabsVoiceID))
	}
	if cfg.DeepgramKey != "" {
		synths = append(synths, voice.NewDeepgram(cfg.DeepgramKey, cfg.DeepgramModel))
	}

	inviteCfg := invite.Config{
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		FromNumber: cfg.TwilioFromNumber,
		BaseURL:    cfg.PublicBaseURL,
	}
	var sender invite.Sender = invite.NopSender{}
	if inviteCfg.Enabled() {
		sender = invite.NewTwilioSender(inviteCfg)
	}

	srv := httpserver.New(httpserver.Deps{
		Store:       sessions,
		Engine:      &interview.Engine{Model: model, Profile: prof, Strict: cfg.StrictValidation},
		Scorer:      &scoring.Scorer{Model: model},
		Synths:      synths,
		Invites:     sender,
		InviteCfg:   inviteCfg,
		Profile:     prof,
		AccessKey:   cfg.RecruiterAccessKey,
		ModelActive: model != nil,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           srv.Echo,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("server listening on %s", cfg.HTTPAddress)
		serverErrors <- server.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	case sig := <-sigChan:
		log.Printf("shutdown signal received: %v", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = server.Close()
	}
}

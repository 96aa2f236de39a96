// The agent runs an unattended interview on a kiosk: it captures the
// candidate's speech, talks to the interview server for turns, and voices
// the interviewer locally.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MuhammadMuneeeb/Recruitement/internal/apiclient"
	"github.com/MuhammadMuneeeb/Recruitement/internal/audio"
	"github.com/MuhammadMuneeeb/Recruitement/internal/avatar"
	"github.com/MuhammadMuneeeb/Recruitement/internal/config"
	"github.com/MuhammadMuneeeb/Recruitement/internal/interview"
	"github.com/MuhammadMuneeeb/Recruitement/internal/profile"
	"github.com/MuhammadMuneeeb/Recruitement/internal/speech"
	"github.com/MuhammadMuneeeb/Recruitement/internal/stt"
	"github.com/MuhammadMuneeeb/Recruitement/internal/telemetry"
	"github.com/MuhammadMuneeeb/Recruitement/internal/voice"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)

	cfg := config.LoadAgent()
	token := flag.String("token", cfg.Token, "interview token")
	lang := flag.String("lang", cfg.PreferredLang, "preferred language: en, ur or mix")
	speed := flag.String("speed", cfg.SpeedProfile, "speed profile: balanced, ultra_fast or accuracy_first")
	flag.Parse()

	if *token == "" {
		log.Fatal("an interview token is required (-token or INTERVIEW_TOKEN)")
	}
	preferred := interview.Lang(*lang)
	if !interview.ValidLang(preferred) {
		preferred = interview.LangMix
	}
	prof := profile.Get(*speed)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("shutdown signal received: %v", sig)
		cancel()
	}()

	capture, err := audio.NewCapture()
	if err != nil {
		log.Fatalf("open microphone: %v", err)
	}
	defer capture.Close()

	presence := audio.NewPresenceMonitor()
	recognizer := stt.New(cfg.AssemblyAIKey)
	capture.OnFrame(presence.Feed)
	capture.OnFrame(recognizer.Feed)
	if err := capture.Start(); err != nil {
		log.Fatalf("start microphone: %v", err)
	}

	client := apiclient.New(cfg.ServerURL, *token, preferred)
	recorder := telemetry.NewRecorder(*token, prof.Name, client)

	chain := []voice.Synthesizer{
		&serverSynth{client: client},
	}
	espeak := voice.NewEspeak()
	if espeak.Available() {
		chain = append(chain, espeak)
	} else {
		log.Println("Warning: espeak-ng not found - no offline voice fallback")
	}
	orch := voice.NewOrchestrator(chain, audio.NewPlayer(), prof.SynthTimeout)
	orch.OnPlaybackStart = recorder.PlaybackStarted
	orch.OnFallback = recorder.UsedFallback

	machine := &speech.Machine{
		Recognizer: recognizer,
		Voice:      presence,
		Turns:      client,
		Speaker:    orch,
		Avatar:     avatar.Log{},
		Profile:    prof,
		Recorder:   recorder,
		Preferred:  preferred,
	}

	log.Printf("agent starting interview token=%s lang=%s profile=%s", *token, preferred, prof.Name)
	if err := machine.AwaitStart(ctx); err != nil {
		log.Fatalf("start confirmation: %v", err)
	}
	start := time.Now()
	if err := machine.Run(ctx); err != nil {
		log.Fatalf("interview failed: %v", err)
	}
	log.Printf("interview complete in %s", time.Since(start).Round(time.Second))
}

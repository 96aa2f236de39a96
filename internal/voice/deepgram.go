package voice

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	msginterfaces "github.com/deepgram/deepgram-go-sdk/pkg/api/speak/v1/websocket/interfaces"
	clientinterfaces "github.com/deepgram/deepgram-go-sdk/pkg/client/interfaces/v1"
	"github.com/deepgram/deepgram-go-sdk/pkg/client/speak"

	"github.com/MuhammadMuneeeb/Recruitement/internal/audio"
	"github.com/MuhammadMuneeeb/Recruitement/internal/interview"
)

// Deepgram synthesizes English speech over the Aura websocket API. The
// voice catalog has no Urdu model, so Urdu falls through to the next
// synthesizer in the chain.
type Deepgram struct {
	apiKey     string
	model      string
	sampleRate int
}

func NewDeepgram(apiKey, model string) *Deepgram {
	if model == "" {
		model = "aura-2-thalia-en"
	}
	return &Deepgram{apiKey: apiKey, model: model, sampleRate: 48000}
}

func (d *Deepgram) Name() string { return "deepgram" }

func (d *Deepgram) Supports(lang interview.Lang) bool {
	return lang == interview.LangEN || lang == interview.LangMix
}

func (d *Deepgram) Synthesize(ctx context.Context, text string, lang interview.Lang) ([]byte, error) {
	if d.apiKey == "" {
		return nil, fmt.Errorf("deepgram: api key missing")
	}
	if text == "" {
		return nil, nil
	}

	options := &clientinterfaces.WSSpeakOptions{
		Model:      d.model,
		Encoding:   "linear16",
		SampleRate: d.sampleRate,
	}

	pcmCh := make(chan []byte, 4096)
	var lastRecvUnix int64
	var seenAudio int32

	cb := &speakCallback{onBinary: func(data []byte) error {
		if len(data) == 0 {
			return nil
		}
		atomic.StoreInt64(&lastRecvUnix, time.Now().UnixNano())
		atomic.StoreInt32(&seenAudio, 1)
		b := make([]byte, len(data))
		copy(b, data)
		select {
		case pcmCh <- b:
		default:
		}
		return nil
	}}

	dg, err := speak.NewWSUsingCallback(ctx, d.apiKey, &clientinterfaces.ClientOptions{}, options, cb)
	if err != nil {
		return nil, fmt.Errorf("deepgram: create ws client: %w", err)
	}
	defer dg.Stop()

	if ok := dg.Connect(); !ok {
		return nil, fmt.Errorf("deepgram: connect failed")
	}
	if err := dg.SpeakWithText(text); err != nil {
		return nil, fmt.Errorf("deepgram: speak text: %w", err)
	}
	if err := dg.Flush(); err != nil {
		return nil, fmt.Errorf("deepgram: flush: %w", err)
	}

	// Collect until the stream goes idle. The SDK has no explicit "clip
	// done" signal in this mode.
	var pcm []byte
	idleWindow := 400 * time.Millisecond
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.Now().Add(12 * time.Second)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case chunk := <-pcmCh:
			pcm = append(pcm, chunk...)
		case <-ticker.C:
			if atomic.LoadInt32(&seenAudio) == 1 {
				last := time.Unix(0, atomic.LoadInt64(&lastRecvUnix))
				if time.Since(last) > idleWindow {
					return audio.EncodeWAV(pcm, d.sampleRate), nil
				}
			}
			if time.Now().After(deadline) {
				if len(pcm) == 0 {
					return nil, fmt.Errorf("deepgram: no audio before deadline")
				}
				return audio.EncodeWAV(pcm, d.sampleRate), nil
			}
		}
	}
}

type speakCallback struct{ onBinary func([]byte) error }

func (s *speakCallback) Open(*msginterfaces.OpenResponse) error         { return nil }
func (s *speakCallback) Metadata(*msginterfaces.MetadataResponse) error { return nil }
func (s *speakCallback) Flush(*msginterfaces.FlushedResponse) error     { return nil }
func (s *speakCallback) Clear(*msginterfaces.ClearedResponse) error     { return nil }
func (s *speakCallback) Close(*msginterfaces.CloseResponse) error       { return nil }
func (s *speakCallback) Warning(*msginterfaces.WarningResponse) error   { return nil }
func (s *speakCallback) Error(*msginterfaces.ErrorResponse) error       { return nil }
func (s *speakCallback) UnhandledEvent([]byte) error                    { return nil }
func (s *speakCallback) Binary(byMsg []byte) error {
	if s.onBinary != nil {
		return s.onBinary(byMsg)
	}
	return nil
}

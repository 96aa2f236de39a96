package voice

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/MuhammadMuneeeb/Recruitement/internal/interview"
)

const chunkPause = 70 * time.Millisecond

// Orchestrator speaks an utterance sentence by sentence. Each chunk is
// synthesized under a hard deadline by the first synthesizer in the chain
// that supports the language; one retry, then the next synthesizer. Losing
// the interviewer's voice mid-interview is the one failure the agent cannot
// tolerate, so the chain ends in local synthesis.
type Orchestrator struct {
	Chain   []Synthesizer
	Player  Player
	Timeout time.Duration

	// OnPlaybackStart fires when the first chunk of an utterance starts
	// playing. OnFallback fires when a chunk was voiced by anything other
	// than the first supporting synthesizer.
	OnPlaybackStart func()
	OnFallback      func()

	cache *ClipCache
}

func NewOrchestrator(chain []Synthesizer, player Player, timeout time.Duration) *Orchestrator {
	if timeout <= 0 {
		timeout = 6 * time.Second
	}
	return &Orchestrator{
		Chain:   chain,
		Player:  player,
		Timeout: timeout,
		cache:   NewClipCache(),
	}
}

// Speak blocks until the whole utterance has played or fails.
func (o *Orchestrator) Speak(ctx context.Context, text string, lang interview.Lang) error {
	chunks := SplitChunks(text)
	started := false
	for i, chunk := range chunks {
		wav, err := o.render(ctx, chunk, lang)
		if err != nil {
			return err
		}
		if len(wav) == 0 {
			continue
		}
		if !started {
			started = true
			if o.OnPlaybackStart != nil {
				o.OnPlaybackStart()
			}
		}
		if err := o.Player.Play(wav); err != nil {
			return fmt.Errorf("play chunk: %w", err)
		}
		if i < len(chunks)-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(chunkPause):
			}
		}
	}
	return nil
}

func (o *Orchestrator) render(ctx context.Context, chunk string, lang interview.Lang) ([]byte, error) {
	if wav := o.cache.Get(chunk, lang); wav != nil {
		return wav, nil
	}

	var lastErr error
	first := true
	for _, synth := range o.Chain {
		if !synth.Supports(lang) {
			continue
		}
		for attempt := 0; attempt < 2; attempt++ {
			wav, err := o.renderOnce(ctx, synth, chunk, lang)
			if err == nil {
				if !first && o.OnFallback != nil {
					o.OnFallback()
				}
				o.cache.Put(chunk, lang, wav)
				return wav, nil
			}
			lastErr = err
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("[voice.tts] %s attempt %d failed: %v", synth.Name(), attempt+1, err)
		}
		first = false
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no synthesizer supports lang %q", lang)
	}
	return nil, fmt.Errorf("synthesize chunk: %w", lastErr)
}

func (o *Orchestrator) renderOnce(ctx context.Context, synth Synthesizer, chunk string, lang interview.Lang) ([]byte, error) {
	sctx, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()
	return synth.Synthesize(sctx, chunk, lang)
}

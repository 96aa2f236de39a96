package voice

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/MuhammadMuneeeb/Recruitement/internal/interview"
)

func TestSplitChunks(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{"english sentences", "Hello there. How are you? Great!", []string{"Hello there.", "How are you?", "Great!"}},
		{"urdu terminators", "آپ کیسے ہیں؟ میں ٹھیک ہوں۔", []string{"آپ کیسے ہیں؟", "میں ٹھیک ہوں۔"}},
		{"no terminator", "just a fragment", []string{"just a fragment"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SplitChunks(tc.text); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("SplitChunks(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestSynthCacheTTL(t *testing.T) {
	now := time.Now()
	c := NewClipCache()
	c.now = func() time.Time { return now }

	c.Put("hello", interview.LangEN, []byte{1, 2, 3})
	if got := c.Get("hello", interview.LangEN); got == nil {
		t.Fatal("expected cache hit")
	}
	if got := c.Get("hello", interview.LangUR); got != nil {
		t.Fatal("language must be part of the key")
	}

	now = now.Add(cacheTTL + time.Second)
	if got := c.Get("hello", interview.LangEN); got != nil {
		t.Fatal("expected expiry after TTL")
	}
}

func TestSynthCacheBounds(t *testing.T) {
	c := NewClipCache()

	long := make([]byte, cacheMaxText+1)
	for i := range long {
		long[i] = 'a'
	}
	c.Put(string(long), interview.LangEN, []byte{1})
	if len(c.entries) != 0 {
		t.Fatal("over-length text must not be cached")
	}

	now := time.Now()
	c.now = func() time.Time {
		now = now.Add(time.Millisecond)
		return now
	}
	for i := 0; i < cacheMaxItems+5; i++ {
		c.Put(string(rune('a'+i%26))+string(rune('A'+i/26)), interview.LangEN, []byte{byte(i)})
	}
	if len(c.entries) > cacheMaxItems {
		t.Fatalf("cache holds %d entries, cap is %d", len(c.entries), cacheMaxItems)
	}
}

type fakeSynth struct {
	name     string
	langs    map[interview.Lang]bool
	wav      []byte
	failures int

	mu    sync.Mutex
	calls int
}

func (f *fakeSynth) Name() string { return f.name }

func (f *fakeSynth) Supports(lang interview.Lang) bool {
	if f.langs == nil {
		return true
	}
	return f.langs[lang]
}

func (f *fakeSynth) Synthesize(_ context.Context, text string, _ interview.Lang) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("synthesis unavailable")
	}
	if f.wav != nil {
		return f.wav, nil
	}
	return []byte(f.name + ":" + text), nil
}

type fakePlayer struct {
	mu     sync.Mutex
	played [][]byte
	err    error
}

func (f *fakePlayer) Play(wav []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.played = append(f.played, wav)
	return nil
}

func TestOrchestratorPlaysEveryChunk(t *testing.T) {
	synth := &fakeSynth{name: "primary"}
	player := &fakePlayer{}
	starts := 0
	o := NewOrchestrator([]Synthesizer{synth}, player, time.Second)
	o.OnPlaybackStart = func() { starts++ }

	err := o.Speak(context.Background(), "First point. Second point.", interview.LangEN)
	if err != nil {
		t.Fatalf("Speak: %v", err)
	}
	if len(player.played) != 2 {
		t.Fatalf("played %d chunks, want 2", len(player.played))
	}
	if starts != 1 {
		t.Fatalf("OnPlaybackStart fired %d times, want once per utterance", starts)
	}
}

func TestOrchestratorRetriesThenFallsBack(t *testing.T) {
	primary := &fakeSynth{name: "primary", failures: 10}
	backup := &fakeSynth{name: "backup"}
	player := &fakePlayer{}
	fallbacks := 0
	o := NewOrchestrator([]Synthesizer{primary, backup}, player, time.Second)
	o.OnFallback = func() { fallbacks++ }

	err := o.Speak(context.Background(), "Short line.", interview.LangEN)
	if err != nil {
		t.Fatalf("Speak: %v", err)
	}
	if primary.calls != 2 {
		t.Fatalf("primary tried %d times, want 2 before moving on", primary.calls)
	}
	if backup.calls != 1 {
		t.Fatalf("backup tried %d times, want 1", backup.calls)
	}
	if fallbacks != 1 {
		t.Fatalf("OnFallback fired %d times, want 1", fallbacks)
	}
	if string(player.played[0]) != "backup:Short line." {
		t.Fatalf("played %q", player.played[0])
	}
}

func TestOrchestratorSkipsUnsupportedLanguage(t *testing.T) {
	english := &fakeSynth{name: "en-only", langs: map[interview.Lang]bool{interview.LangEN: true}}
	multi := &fakeSynth{name: "multi"}
	player := &fakePlayer{}
	fallbacks := 0
	o := NewOrchestrator([]Synthesizer{english, multi}, player, time.Second)
	o.OnFallback = func() { fallbacks++ }

	if err := o.Speak(context.Background(), "شکریہ۔", interview.LangUR); err != nil {
		t.Fatalf("Speak: %v", err)
	}
	if english.calls != 0 {
		t.Fatal("unsupported synthesizer must not be asked")
	}
	if multi.calls != 1 {
		t.Fatalf("multi tried %d times", multi.calls)
	}
	// First *supporting* synthesizer is not a fallback.
	if fallbacks != 0 {
		t.Fatalf("OnFallback fired %d times, want 0", fallbacks)
	}
}

func TestOrchestratorErrorsWhenChainExhausted(t *testing.T) {
	primary := &fakeSynth{name: "primary", failures: 10}
	o := NewOrchestrator([]Synthesizer{primary}, &fakePlayer{}, time.Second)

	err := o.Speak(context.Background(), "Hello.", interview.LangEN)
	if err == nil {
		t.Fatal("expected error when every synthesizer fails")
	}
}

func TestOrchestratorUsesCacheOnRepeat(t *testing.T) {
	synth := &fakeSynth{name: "primary"}
	player := &fakePlayer{}
	o := NewOrchestrator([]Synthesizer{synth}, player, time.Second)

	for i := 0; i < 3; i++ {
		if err := o.Speak(context.Background(), "Are you still there?", interview.LangEN); err != nil {
			t.Fatalf("Speak: %v", err)
		}
	}
	if synth.calls != 1 {
		t.Fatalf("synthesized %d times, want 1 with cache hits after", synth.calls)
	}
	if len(player.played) != 3 {
		t.Fatalf("played %d times, want 3", len(player.played))
	}
}

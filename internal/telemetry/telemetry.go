// Package telemetry measures per-turn latency on the agent side and ships
// the records to the server for aggregation.
package telemetry

import (
	"sync"
	"time"
)

// TurnLatency is one end-to-end turn measurement. All durations are in
// milliseconds as measured on the agent clock.
type TurnLatency struct {
	Token        string `json:"token,omitempty"`
	Profile      string `json:"profile,omitempty"`
	CaptureMs    int64  `json:"captureMs"`
	ResponseMs   int64  `json:"responseMs"`
	SynthesisMs  int64  `json:"synthesisMs"`
	TotalMs      int64  `json:"totalMs"`
	UsedFallback bool   `json:"usedFallback"`
}

// Sink receives completed turn measurements.
type Sink interface {
	RecordTurnLatency(rec TurnLatency)
}

// NopSink discards measurements.
type NopSink struct{}

func (NopSink) RecordTurnLatency(TurnLatency) {}

// Recorder accumulates the timeline of a single turn. Stage marks may arrive
// from different goroutines; PlaybackStarted in particular can fire more than
// once per turn and only the first mark counts.
type Recorder struct {
	mu sync.Mutex

	token   string
	profile string
	sink    Sink

	captureStart  time.Time
	captureEnd    time.Time
	responseEnd   time.Time
	playbackStart time.Time
	usedFallback  bool
}

func NewRecorder(token, profile string, sink Sink) *Recorder {
	if sink == nil {
		sink = NopSink{}
	}
	return &Recorder{token: token, profile: profile, sink: sink}
}

// CaptureStarted marks the beginning of candidate speech capture.
func (r *Recorder) CaptureStarted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.captureStart = time.Now()
	r.captureEnd = time.Time{}
	r.responseEnd = time.Time{}
	r.playbackStart = time.Time{}
	r.usedFallback = false
}

// CaptureEnded marks the answer being finalized and sent to the server.
func (r *Recorder) CaptureEnded() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.captureEnd = time.Now()
}

// ResponseReceived marks the server turn arriving back at the agent.
func (r *Recorder) ResponseReceived() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responseEnd = time.Now()
}

// PlaybackStarted marks first audio out. Idempotent per turn.
func (r *Recorder) PlaybackStarted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.playbackStart.IsZero() {
		return
	}
	r.playbackStart = time.Now()
}

// UsedFallback notes that local synthesis replaced the primary voice.
func (r *Recorder) UsedFallback() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.usedFallback = true
}

// Flush finalizes the turn and emits the record. Turns missing a capture
// start are dropped.
func (r *Recorder) Flush() {
	r.mu.Lock()
	if r.captureStart.IsZero() {
		r.mu.Unlock()
		return
	}
	rec := TurnLatency{
		Token:        r.token,
		Profile:      r.profile,
		UsedFallback: r.usedFallback,
	}
	if !r.captureEnd.IsZero() {
		rec.CaptureMs = r.captureEnd.Sub(r.captureStart).Milliseconds()
	}
	if !r.responseEnd.IsZero() && !r.captureEnd.IsZero() {
		rec.ResponseMs = r.responseEnd.Sub(r.captureEnd).Milliseconds()
	}
	if !r.playbackStart.IsZero() && !r.responseEnd.IsZero() {
		rec.SynthesisMs = r.playbackStart.Sub(r.responseEnd).Milliseconds()
	}
	end := r.playbackStart
	if end.IsZero() {
		end = time.Now()
	}
	rec.TotalMs = end.Sub(r.captureStart).Milliseconds()
	r.captureStart = time.Time{}
	sink := r.sink
	r.mu.Unlock()
	sink.RecordTurnLatency(rec)
}

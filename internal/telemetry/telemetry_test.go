package telemetry

import (
	"testing"
	"time"
)

type captureSink struct {
	records []TurnLatency
}

func (s *captureSink) RecordTurnLatency(rec TurnLatency) {
	s.records = append(s.records, rec)
}

func TestRecorderFlushEmitsOneRecord(t *testing.T) {
	sink := &captureSink{}
	r := NewRecorder("tok-1", "balanced", sink)

	r.CaptureStarted()
	time.Sleep(15 * time.Millisecond)
	r.CaptureEnded()
	r.ResponseReceived()
	r.UsedFallback()
	r.PlaybackStarted()
	r.Flush()

	if len(sink.records) != 1 {
		t.Fatalf("got %d records, want 1", len(sink.records))
	}
	rec := sink.records[0]
	if rec.Token != "tok-1" || rec.Profile != "balanced" {
		t.Fatalf("identity fields wrong: %+v", rec)
	}
	if rec.CaptureMs < 10 {
		t.Fatalf("CaptureMs = %d, want at least the sleep", rec.CaptureMs)
	}
	if rec.TotalMs < rec.CaptureMs {
		t.Fatalf("TotalMs %d below CaptureMs %d", rec.TotalMs, rec.CaptureMs)
	}
	if !rec.UsedFallback {
		t.Fatal("UsedFallback not carried")
	}
}

func TestRecorderFlushWithoutCaptureIsDropped(t *testing.T) {
	sink := &captureSink{}
	r := NewRecorder("tok-1", "balanced", sink)

	r.PlaybackStarted()
	r.Flush()

	if len(sink.records) != 0 {
		t.Fatalf("got %d records, want none without a capture start", len(sink.records))
	}
}

func TestRecorderPlaybackStartedIsIdempotent(t *testing.T) {
	sink := &captureSink{}
	r := NewRecorder("tok-1", "balanced", sink)

	r.CaptureStarted()
	r.CaptureEnded()
	r.ResponseReceived()
	r.PlaybackStarted()
	first := r.playbackStart
	time.Sleep(5 * time.Millisecond)
	r.PlaybackStarted()
	if !r.playbackStart.Equal(first) {
		t.Fatal("second PlaybackStarted moved the mark")
	}
}

func TestRecorderFlushResetsForNextTurn(t *testing.T) {
	sink := &captureSink{}
	r := NewRecorder("tok-1", "balanced", sink)

	r.CaptureStarted()
	r.UsedFallback()
	r.Flush()
	r.Flush()
	if len(sink.records) != 1 {
		t.Fatalf("double flush produced %d records, want 1", len(sink.records))
	}

	r.CaptureStarted()
	r.Flush()
	if len(sink.records) != 2 {
		t.Fatalf("got %d records after second turn, want 2", len(sink.records))
	}
	if sink.records[1].UsedFallback {
		t.Fatal("fallback flag leaked into the next turn")
	}
}

func TestNilSinkDefaultsToNop(t *testing.T) {
	r := NewRecorder("tok-1", "balanced", nil)
	r.CaptureStarted()
	r.Flush()
}

// Package audio handles microphone capture, voice presence detection, and
// playback of synthesized interviewer speech on the agent device.
package audio

import (
	"math"
	"sync"
	"time"
)

// PresenceMonitor tracks when the candidate's voice was last heard on the
// microphone, independently of the speech recognizer. The turn supervisors
// consult it to distinguish "candidate is silent" from "recognizer is dead".
type PresenceMonitor struct {
	mu        sync.Mutex
	threshold float64
	win       []bool
	smoothN   int
	lastVoice time.Time
	now       func() time.Time
}

func NewPresenceMonitor() *PresenceMonitor {
	return &PresenceMonitor{threshold: 300.0, smoothN: 4, now: time.Now}
}

// Feed consumes one frame of 16-bit mono PCM. Frames arrive at roughly 10ms
// cadence from the capture loop.
func (m *PresenceMonitor) Feed(frame []int16) {
	if len(frame) == 0 {
		return
	}
	var sum float64
	for _, s := range frame {
		f := float64(s)
		sum += f * f
	}
	rms := math.Sqrt(sum / float64(len(frame)))

	m.mu.Lock()
	defer m.mu.Unlock()
	m.win = append(m.win, rms >= m.threshold)
	if len(m.win) > m.smoothN {
		m.win = m.win[len(m.win)-m.smoothN:]
	}
	trueCount := 0
	for _, x := range m.win {
		if x {
			trueCount++
		}
	}
	if trueCount*2 >= len(m.win) && trueCount > 0 {
		m.lastVoice = m.now()
	}
}

// RecentlyDetectedVoice reports whether voice energy was observed within the
// given window.
func (m *PresenceMonitor) RecentlyDetectedVoice(window time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lastVoice.IsZero() {
		return false
	}
	return m.now().Sub(m.lastVoice) <= window
}

// LastVoiceAt returns the time of the last detected voice frame, zero if
// none was ever seen.
func (m *PresenceMonitor) LastVoiceAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastVoice
}

package speech

import "time"

// loopEvent is the single funnel into the machine's event loop: recognizer
// events and timer fires both arrive here so all state lives on one
// goroutine.
type loopEvent struct {
	// recognizer event, valid when timer == ""
	ev  Event
	gen int

	// timer fire
	timer    string
	timerGen int
}

// scheduler arms named one-shot timers that deliver into the loop channel.
// Arm, Cancel and Current must be called from the loop goroutine; the
// AfterFunc callbacks only touch the channel and captured values.
type scheduler struct {
	ch     chan loopEvent
	quit   chan struct{}
	timers map[string]*time.Timer
	gens   map[string]int
}

func newScheduler(ch chan loopEvent) *scheduler {
	return &scheduler{
		ch:     ch,
		quit:   make(chan struct{}),
		timers: make(map[string]*time.Timer),
		gens:   make(map[string]int),
	}
}

// Arm (re)schedules the named timer. Any previously armed fire of the same
// name is invalidated by the generation bump.
func (s *scheduler) Arm(name string, d time.Duration) {
	s.gens[name]++
	gen := s.gens[name]
	if t, ok := s.timers[name]; ok {
		t.Stop()
	}
	s.timers[name] = time.AfterFunc(d, func() {
		select {
		case s.ch <- loopEvent{timer: name, timerGen: gen}:
		case <-s.quit:
		}
	})
}

// Cancel stops the named timer and invalidates in-flight fires.
func (s *scheduler) Cancel(name string) {
	s.gens[name]++
	if t, ok := s.timers[name]; ok {
		t.Stop()
		delete(s.timers, name)
	}
}

// Shutdown stops every timer and releases any fire blocked on the channel.
func (s *scheduler) Shutdown() {
	for name, t := range s.timers {
		t.Stop()
		s.gens[name]++
	}
	close(s.quit)
}

// Current reports whether a fired timer event is still the live generation.
func (s *scheduler) Current(name string, gen int) bool {
	return s.gens[name] == gen
}

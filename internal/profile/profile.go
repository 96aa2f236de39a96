// Package profile defines the named speed profiles that trade response
// latency against capture accuracy for the whole turn cycle. A profile is
// selected once at process start and never mutated afterwards.
package profile

import "time"

// Profile bundles every timing threshold the turn cycle depends on.
// Client-side endpointing and server-side generation read from the same
// record so the two halves stay consistent for a given deployment.
type Profile struct {
	Name string

	// Endpointing thresholds for the speech capture state machine.
	Silence       time.Duration // no new speech for this long ends a turn
	MinSpeech     time.Duration // minimum listening time before an answer is ready
	MinWords      int           // minimum accumulated word count before ready
	NoResponse    time.Duration // total silence before a verbal nudge
	SynthTimeout  time.Duration // primary TTS provider budget before fallback
	FinalDrop     time.Duration // audio-energy grace after a final segment
	RestartDelay  time.Duration // delay before re-arming a recognizer that ended
	RecoveryDelay time.Duration // delay before a health-supervisor restart

	// Generation bounds for the dialogue policy engine.
	LLMTimeout   time.Duration
	MaxTokens    int
	ContextTurns int
}

var profiles = map[string]Profile{
	"balanced": {
		Name:          "balanced",
		Silence:       1400 * time.Millisecond,
		MinSpeech:     1200 * time.Millisecond,
		MinWords:      2,
		NoResponse:    15 * time.Second,
		SynthTimeout:  6 * time.Second,
		FinalDrop:     650 * time.Millisecond,
		RestartDelay:  300 * time.Millisecond,
		RecoveryDelay: 180 * time.Millisecond,
		LLMTimeout:    3800 * time.Millisecond,
		MaxTokens:     90,
		ContextTurns:  8,
	},
	"ultra_fast": {
		Name:          "ultra_fast",
		Silence:       1000 * time.Millisecond,
		MinSpeech:     800 * time.Millisecond,
		MinWords:      2,
		NoResponse:    13 * time.Second,
		SynthTimeout:  2700 * time.Millisecond,
		FinalDrop:     450 * time.Millisecond,
		RestartDelay:  300 * time.Millisecond,
		RecoveryDelay: 180 * time.Millisecond,
		LLMTimeout:    2600 * time.Millisecond,
		MaxTokens:     70,
		ContextTurns:  6,
	},
	"accuracy_first": {
		Name:          "accuracy_first",
		Silence:       1900 * time.Millisecond,
		MinSpeech:     1700 * time.Millisecond,
		MinWords:      3,
		NoResponse:    17 * time.Second,
		SynthTimeout:  3600 * time.Millisecond,
		FinalDrop:     900 * time.Millisecond,
		RestartDelay:  300 * time.Millisecond,
		RecoveryDelay: 180 * time.Millisecond,
		LLMTimeout:    6 * time.Second,
		MaxTokens:     130,
		ContextTurns:  10,
	},
}

// Default is the profile used when no explicit selection is made.
const Default = "balanced"

// Get returns the profile for name, falling back to the balanced profile
// for unknown names so a typo in configuration never breaks startup.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	return profiles[Default]
}

// Names lists the known profile names.
func Names() []string {
	return []string{"balanced", "ultra_fast", "accuracy_first"}
}

// Package avatar defines the rendering surface contract for the on-screen
// interviewer. The surface only consumes state; it never signals back into
// the turn-taking core.
package avatar

import "log"

// Mode is what the interviewer is visibly doing.
type Mode string

const (
	ModeIdle      Mode = "idle"
	ModeListening Mode = "listening"
	ModeSpeaking  Mode = "speaking"
)

// Emotion is the affect tag attached to an interviewer utterance.
type Emotion string

const (
	EmotionCalm        Emotion = "calm"
	EmotionCurious     Emotion = "curious"
	EmotionEncouraging Emotion = "encouraging"
	EmotionSerious     Emotion = "serious"
	EmotionClosing     Emotion = "closing"
)

// Surface renders the interviewer state.
type Surface interface {
	SetState(mode Mode, emotion Emotion)
}

// Nop discards all state updates.
type Nop struct{}

func (Nop) SetState(Mode, Emotion) {}

// Log writes state transitions to the process log, the default surface for
// the headless agent.
type Log struct{}

func (Log) SetState(mode Mode, emotion Emotion) {
	log.Printf("[avatar] mode=%s emotion=%s", mode, emotion)
}

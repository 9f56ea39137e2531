// Package playback provides the global single-track playback coordinator.
package playback

import "time"

// State represents the playback state.
type State int

const (
	StateIdle    State = iota // No clip loaded
	StatePlaying              // Clip is playing
	StatePaused               // Clip is loaded but paused
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Snapshot is the read model views render from. Whenever ActiveClipID is
// empty the remaining fields are zero.
type Snapshot struct {
	ActiveClipID string        // Clip currently loaded, empty when idle
	State        State         // Current state
	Position     time.Duration // Last known playback position
	Duration     time.Duration // Clip length, zero until metadata resolves
}

// IsPlaying reports whether the active clip is currently emitting audio.
func (s Snapshot) IsPlaying() bool {
	return s.State == StatePlaying
}

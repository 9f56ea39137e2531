package playback

// EventType represents a playback event type.
type EventType int

const (
	EventClipStarted     EventType = iota // A new clip started playing
	EventClipEnded                        // Clip reached its natural end
	EventStateChanged                     // Pause, resume, toggle or stop
	EventPositionChanged                  // Position tick or metadata resolved
	EventPlaybackFailed                   // Source could not be opened or played
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventClipStarted:
		return "clip_started"
	case EventClipEnded:
		return "clip_ended"
	case EventStateChanged:
		return "state_changed"
	case EventPositionChanged:
		return "position_changed"
	case EventPlaybackFailed:
		return "playback_failed"
	default:
		return "unknown"
	}
}

// Event represents a playback event.
type Event struct {
	Type     EventType
	ClipID   string   // Clip the event refers to (may differ from the snapshot's)
	Snapshot Snapshot // State after the event's mutation
	Err      error    // Set for EventPlaybackFailed
}

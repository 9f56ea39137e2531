package playback

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// ErrNoLocator is the failure reported when Play is called with an empty
// resource locator.
var ErrNoLocator = errors.New("empty resource locator")

// Coordinator is the sole owner of the playback state and of the single
// underlying source handle. Arbitrarily many views may issue commands;
// at most one source is ever rendering, and every mutation (command or
// source callback) is serialized through the coordinator's mutex.
//
// Commands never return playback-I/O errors: open and play failures are
// absorbed, the coordinator returns to idle and an EventPlaybackFailed is
// emitted. Pause, Stop and Seek are no-ops while idle.
type Coordinator struct {
	mu sync.Mutex

	open SourceFactory
	src  Source
	gen  uint64 // Incremented on every source release; stale callbacks are discarded

	clipID   string
	state    State
	position time.Duration
	duration time.Duration

	eventCh chan Event

	ctx    context.Context
	cancel context.CancelFunc
}

// NewCoordinator creates a coordinator that opens sources through the
// given factory. Construct exactly one per process and pass it to every
// consumer; a second instance would break the single-renderer guarantee.
func NewCoordinator(open SourceFactory) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		open:    open,
		state:   StateIdle,
		eventCh: make(chan Event, 16),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Events returns the event channel.
func (c *Coordinator) Events() <-chan Event {
	return c.eventCh
}

// Snapshot returns the current read model.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Play requests playback of the clip identified by clipID, rendered from
// locator. Semantics depend on what is active:
//   - same clip, playing: pause (a single play/pause button dispatches the
//     same command regardless of state)
//   - same clip, paused: resume, position preserved
//   - different clip or idle: release the previous source, then open and
//     start the new one from zero
func (c *Coordinator) Play(locator, clipID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.src != nil && c.clipID == clipID {
		switch c.state {
		case StatePlaying:
			c.src.Pause()
			c.state = StatePaused
			zlog.Debug().Msgf("playback: toggled to pause: clip=%s pos=%v", clipID, c.position)
			c.sendEventLocked(Event{Type: EventStateChanged, ClipID: clipID, Snapshot: c.snapshotLocked()})
		case StatePaused:
			if err := c.src.Play(); err != nil {
				c.failLocked(clipID, err)
				return
			}
			c.state = StatePlaying
			zlog.Debug().Msgf("playback: resumed: clip=%s pos=%v", clipID, c.position)
			c.sendEventLocked(Event{Type: EventStateChanged, ClipID: clipID, Snapshot: c.snapshotLocked()})
		}
		return
	}

	// The previous source is always released before the new one starts:
	// never two resources rendering at once.
	c.releaseLocked()
	c.resetLocked()

	if locator == "" {
		c.failLocked(clipID, ErrNoLocator)
		return
	}

	src, err := c.open(locator, sink{c: c, gen: c.gen})
	if err != nil {
		c.failLocked(clipID, errors.Wrap(err, "failed to open source"))
		return
	}

	c.src = src
	c.clipID = clipID
	c.state = StatePlaying

	if err := src.Play(); err != nil {
		c.failLocked(clipID, errors.Wrap(err, "failed to start source"))
		return
	}

	zlog.Debug().Msgf("playback: started: clip=%s locator=%s", clipID, locator)
	c.sendEventLocked(Event{Type: EventClipStarted, ClipID: clipID, Snapshot: c.snapshotLocked()})
}

// Pause pauses the active clip without releasing it. No-op unless playing.
func (c *Coordinator) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.src == nil || c.state != StatePlaying {
		return
	}

	c.src.Pause()
	c.state = StatePaused
	c.sendEventLocked(Event{Type: EventStateChanged, ClipID: c.clipID, Snapshot: c.snapshotLocked()})
}

// Stop releases the active source and resets to the idle state. No-op
// while idle. Stop is also the cancellation primitive: it releases the
// source regardless of its loading or playing sub-state.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.src == nil && c.state == StateIdle {
		return
	}

	stopped := c.clipID
	c.releaseLocked()
	c.resetLocked()
	zlog.Debug().Msgf("playback: stopped: clip=%s", stopped)
	c.sendEventLocked(Event{Type: EventStateChanged, ClipID: stopped, Snapshot: c.snapshotLocked()})
}

// Seek moves the active clip's position. Values outside [0, duration]
// are clamped, not rejected. While duration is still unknown the only
// reachable position is zero. No-op while idle.
func (c *Coordinator) Seek(pos time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.src == nil {
		return
	}

	if pos < 0 {
		pos = 0
	}
	if pos > c.duration {
		pos = c.duration
	}

	c.src.Seek(pos)
	c.position = pos
	c.sendEventLocked(Event{Type: EventPositionChanged, ClipID: c.clipID, Snapshot: c.snapshotLocked()})
}

// Close releases the source and the event channel.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancel()
	c.releaseLocked()
	c.resetLocked()
	close(c.eventCh)
}

// sink delivers one source generation's callbacks to the coordinator.
type sink struct {
	c   *Coordinator
	gen uint64
}

func (s sink) MetadataLoaded(d time.Duration) { s.c.onMetadata(s.gen, d) }
func (s sink) Progress(pos time.Duration)     { s.c.onProgress(s.gen, pos) }
func (s sink) Ended()                         { s.c.onEnded(s.gen) }
func (s sink) Failed(err error)               { s.c.onFailed(s.gen, err) }

func (c *Coordinator) onMetadata(gen uint64, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.staleLocked(gen) {
		return
	}

	if d < 0 {
		d = 0
	}
	c.duration = d
	if c.position > d {
		c.position = d
	}
	c.sendEventLocked(Event{Type: EventPositionChanged, ClipID: c.clipID, Snapshot: c.snapshotLocked()})
}

func (c *Coordinator) onProgress(gen uint64, pos time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.staleLocked(gen) || c.state != StatePlaying {
		return
	}

	if pos < 0 {
		pos = 0
	}
	if c.duration > 0 && pos > c.duration {
		pos = c.duration
	}
	c.position = pos
	c.sendEventLocked(Event{Type: EventPositionChanged, ClipID: c.clipID, Snapshot: c.snapshotLocked()})
}

func (c *Coordinator) onEnded(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.staleLocked(gen) {
		return
	}

	ended := c.clipID
	c.releaseLocked()
	c.resetLocked()
	zlog.Debug().Msgf("playback: clip ended: clip=%s", ended)
	c.sendEventLocked(Event{Type: EventClipEnded, ClipID: ended, Snapshot: c.snapshotLocked()})
}

func (c *Coordinator) onFailed(gen uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.staleLocked(gen) {
		return
	}

	c.failLocked(c.clipID, err)
}

// staleLocked reports whether a callback belongs to a released source.
// Must be called with lock held.
func (c *Coordinator) staleLocked(gen uint64) bool {
	return gen != c.gen || c.ctx.Err() != nil
}

// failLocked absorbs a playback failure: release, reset to idle, emit.
// A failed play attempt looks identical to a clip that loaded and then
// stopped. Must be called with lock held.
func (c *Coordinator) failLocked(clipID string, err error) {
	c.releaseLocked()
	c.resetLocked()
	zlog.Warn().Msgf("playback: failed: clip=%s err=%v", clipID, err)
	c.sendEventLocked(Event{Type: EventPlaybackFailed, ClipID: clipID, Snapshot: c.snapshotLocked(), Err: err})
}

// releaseLocked closes the current source, if any, and invalidates its
// pending callbacks. Must be called with lock held.
func (c *Coordinator) releaseLocked() {
	if c.src != nil {
		c.src.Close()
		c.src = nil
	}
	c.gen++
}

// resetLocked zeroes the state back to idle. Must be called with lock held.
func (c *Coordinator) resetLocked() {
	c.clipID = ""
	c.state = StateIdle
	c.position = 0
	c.duration = 0
}

func (c *Coordinator) snapshotLocked() Snapshot {
	return Snapshot{
		ActiveClipID: c.clipID,
		State:        c.state,
		Position:     c.position,
		Duration:     c.duration,
	}
}

// sendEventLocked sends an event without blocking. Must be called with
// lock held.
func (c *Coordinator) sendEventLocked(e Event) {
	if c.ctx.Err() != nil {
		return
	}
	select {
	case c.eventCh <- e:
	default:
		// Channel full, drop event
	}
}

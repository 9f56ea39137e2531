package playback

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource is a synchronous test double for the underlying resource.
type fakeSource struct {
	playing bool
	closed  bool
	seeks   []time.Duration
	playErr error
}

func (f *fakeSource) Play() error {
	if f.playErr != nil {
		return f.playErr
	}
	f.playing = true
	return nil
}

func (f *fakeSource) Pause() {
	f.playing = false
}

func (f *fakeSource) Seek(pos time.Duration) {
	f.seeks = append(f.seeks, pos)
}

func (f *fakeSource) Close() {
	f.playing = false
	f.closed = true
}

// fakeFactory records every opened source and its sink so tests can fire
// callbacks synchronously.
type fakeFactory struct {
	sources  []*fakeSource
	sinks    []Events
	locators []string
	openErr  error
	playErr  error
}

func (f *fakeFactory) open(locator string, sink Events) (Source, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	src := &fakeSource{playErr: f.playErr}
	f.sources = append(f.sources, src)
	f.sinks = append(f.sinks, sink)
	f.locators = append(f.locators, locator)
	return src, nil
}

func (f *fakeFactory) last() (*fakeSource, Events) {
	n := len(f.sources)
	if n == 0 {
		return nil, nil
	}
	return f.sources[n-1], f.sinks[n-1]
}

func newTestCoordinator(t *testing.T) (*Coordinator, *fakeFactory) {
	t.Helper()
	f := &fakeFactory{}
	c := NewCoordinator(f.open)
	t.Cleanup(c.Close)
	return c, f
}

// drainEvents empties the event channel and returns what was buffered.
func drainEvents(c *Coordinator) []Event {
	var events []Event
	for {
		select {
		case e := <-c.Events():
			events = append(events, e)
		default:
			return events
		}
	}
}

func assertIdleZeroed(t *testing.T, s Snapshot) {
	t.Helper()
	assert.Empty(t, s.ActiveClipID)
	assert.Equal(t, StateIdle, s.State)
	assert.False(t, s.IsPlaying())
	assert.Equal(t, time.Duration(0), s.Position)
	assert.Equal(t, time.Duration(0), s.Duration)
}

func TestCoordinator_PlayStartsClip(t *testing.T) {
	c, f := newTestCoordinator(t)

	c.Play("a.mp3", "clip-1")

	s := c.Snapshot()
	assert.Equal(t, "clip-1", s.ActiveClipID)
	assert.Equal(t, StatePlaying, s.State)
	assert.True(t, s.IsPlaying())
	assert.Equal(t, time.Duration(0), s.Position)
	assert.Equal(t, time.Duration(0), s.Duration)

	require.Len(t, f.sources, 1)
	assert.True(t, f.sources[0].playing)
	assert.Equal(t, "a.mp3", f.locators[0])

	events := drainEvents(c)
	require.Len(t, events, 1)
	assert.Equal(t, EventClipStarted, events[0].Type)
	assert.Equal(t, "clip-1", events[0].ClipID)
}

func TestCoordinator_MetadataFillsDuration(t *testing.T) {
	c, f := newTestCoordinator(t)

	c.Play("a.mp3", "clip-1")
	_, sink := f.last()
	sink.MetadataLoaded(42 * time.Second)

	s := c.Snapshot()
	assert.Equal(t, "clip-1", s.ActiveClipID)
	assert.True(t, s.IsPlaying())
	assert.Equal(t, 42*time.Second, s.Duration)
	assert.Equal(t, time.Duration(0), s.Position)
}

func TestCoordinator_ToggleLaw(t *testing.T) {
	c, f := newTestCoordinator(t)

	// Calling play twice with the same clip and no intervening command
	// pauses it.
	c.Play("a.mp3", "clip-1")
	c.Play("a.mp3", "clip-1")

	s := c.Snapshot()
	assert.Equal(t, "clip-1", s.ActiveClipID, "toggle keeps the clip loaded")
	assert.Equal(t, StatePaused, s.State)
	assert.False(t, s.IsPlaying())

	require.Len(t, f.sources, 1, "toggle must not open a second source")
	assert.False(t, f.sources[0].playing)
	assert.False(t, f.sources[0].closed, "toggle pauses without releasing")
}

func TestCoordinator_ResumeLaw(t *testing.T) {
	c, f := newTestCoordinator(t)

	c.Play("a.mp3", "clip-1")
	_, sink := f.last()
	sink.MetadataLoaded(60 * time.Second)
	sink.Progress(12 * time.Second)

	c.Pause()
	require.Equal(t, StatePaused, c.Snapshot().State)

	c.Play("a.mp3", "clip-1")

	s := c.Snapshot()
	assert.Equal(t, StatePlaying, s.State)
	assert.Equal(t, 12*time.Second, s.Position, "resume must preserve the pre-pause position")
	require.Len(t, f.sources, 1)
}

func TestCoordinator_SwitchReleasesPreviousSource(t *testing.T) {
	c, f := newTestCoordinator(t)

	c.Play("a.mp3", "clip-1")
	_, sink := f.last()
	sink.MetadataLoaded(30 * time.Second)
	sink.Progress(10 * time.Second)
	c.Pause()

	c.Play("b.mp3", "clip-2")

	require.Len(t, f.sources, 2)
	assert.True(t, f.sources[0].closed, "previous source must be released")
	assert.True(t, f.sources[1].playing)

	s := c.Snapshot()
	assert.Equal(t, "clip-2", s.ActiveClipID)
	assert.Equal(t, StatePlaying, s.State)
	assert.Equal(t, time.Duration(0), s.Position, "position resets for the new clip")
	assert.Equal(t, time.Duration(0), s.Duration, "duration unknown until new metadata resolves")
}

func TestCoordinator_AtMostOneProducer(t *testing.T) {
	c, f := newTestCoordinator(t)

	clips := []string{"clip-1", "clip-2", "clip-3", "clip-4"}
	for _, id := range clips {
		c.Play(id+".mp3", id)

		rendering := 0
		for _, src := range f.sources {
			if src.playing {
				rendering++
			}
		}
		assert.Equal(t, 1, rendering, "exactly one source rendering after each play")
		assert.True(t, f.sources[len(f.sources)-1].playing, "the most recently requested clip is the one rendering")
	}
}

func TestCoordinator_StopResets(t *testing.T) {
	c, f := newTestCoordinator(t)

	c.Play("a.mp3", "clip-1")
	_, sink := f.last()
	sink.MetadataLoaded(90 * time.Second)
	sink.Progress(45 * time.Second)

	c.Stop()

	assertIdleZeroed(t, c.Snapshot())
	assert.True(t, f.sources[0].closed)
}

func TestCoordinator_NaturalEndGoesIdle(t *testing.T) {
	c, f := newTestCoordinator(t)

	c.Play("a.mp3", "clip-1")
	_, sink := f.last()
	sink.MetadataLoaded(5 * time.Second)
	sink.Progress(5 * time.Second)
	drainEvents(c)

	sink.Ended()

	assertIdleZeroed(t, c.Snapshot())
	assert.True(t, f.sources[0].closed)

	events := drainEvents(c)
	require.Len(t, events, 1)
	assert.Equal(t, EventClipEnded, events[0].Type)
	assert.Equal(t, "clip-1", events[0].ClipID)
}

func TestCoordinator_SeekClamps(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		seek     time.Duration
		want     time.Duration
	}{
		{
			name:     "within range",
			duration: 60 * time.Second,
			seek:     30 * time.Second,
			want:     30 * time.Second,
		},
		{
			name:     "past the end clamps to duration",
			duration: 60 * time.Second,
			seek:     2 * time.Minute,
			want:     60 * time.Second,
		},
		{
			name:     "negative clamps to zero",
			duration: 60 * time.Second,
			seek:     -5 * time.Second,
			want:     0,
		},
		{
			name:     "duration unknown clamps to zero",
			duration: 0,
			seek:     10 * time.Second,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, f := newTestCoordinator(t)

			c.Play("a.mp3", "clip-1")
			_, sink := f.last()
			if tt.duration > 0 {
				sink.MetadataLoaded(tt.duration)
			}

			c.Seek(tt.seek)

			s := c.Snapshot()
			assert.Equal(t, tt.want, s.Position)
			src, _ := f.last()
			require.NotEmpty(t, src.seeks)
			assert.Equal(t, tt.want, src.seeks[len(src.seeks)-1], "source sees the clamped value")
		})
	}
}

func TestCoordinator_NoOpsWhileIdle(t *testing.T) {
	c, _ := newTestCoordinator(t)

	// None of these may panic, error or leave the idle state.
	c.Pause()
	c.Stop()
	c.Seek(10 * time.Second)

	assertIdleZeroed(t, c.Snapshot())
	assert.Empty(t, drainEvents(c))
}

func TestCoordinator_OpenFailureAbsorbed(t *testing.T) {
	f := &fakeFactory{openErr: errors.New("resource unavailable")}
	c := NewCoordinator(f.open)
	defer c.Close()

	c.Play("a.mp3", "clip-1")

	assertIdleZeroed(t, c.Snapshot())

	events := drainEvents(c)
	require.Len(t, events, 1)
	assert.Equal(t, EventPlaybackFailed, events[0].Type)
	assert.Equal(t, "clip-1", events[0].ClipID)
	assert.Error(t, events[0].Err)
}

func TestCoordinator_StartFailureAbsorbed(t *testing.T) {
	f := &fakeFactory{playErr: errors.New("decoder broken")}
	c := NewCoordinator(f.open)
	defer c.Close()

	c.Play("a.mp3", "clip-1")

	assertIdleZeroed(t, c.Snapshot())
	require.Len(t, f.sources, 1)
	assert.True(t, f.sources[0].closed, "failed source must still be released")

	events := drainEvents(c)
	require.Len(t, events, 1)
	assert.Equal(t, EventPlaybackFailed, events[0].Type)
}

func TestCoordinator_EmptyLocatorFails(t *testing.T) {
	c, f := newTestCoordinator(t)

	c.Play("", "clip-1")

	assertIdleZeroed(t, c.Snapshot())
	assert.Empty(t, f.sources, "no source may be opened for an empty locator")

	events := drainEvents(c)
	require.Len(t, events, 1)
	assert.Equal(t, EventPlaybackFailed, events[0].Type)
	assert.ErrorIs(t, events[0].Err, ErrNoLocator)
}

func TestCoordinator_StaleCallbacksDiscarded(t *testing.T) {
	c, f := newTestCoordinator(t)

	c.Play("a.mp3", "clip-1")
	_, oldSink := f.last()

	c.Play("b.mp3", "clip-2")
	_, newSink := f.last()
	newSink.MetadataLoaded(20 * time.Second)

	// Callbacks from the released source arrive late and must not touch
	// the new clip's state.
	oldSink.MetadataLoaded(99 * time.Second)
	oldSink.Progress(50 * time.Second)
	oldSink.Ended()

	s := c.Snapshot()
	assert.Equal(t, "clip-2", s.ActiveClipID)
	assert.Equal(t, StatePlaying, s.State)
	assert.Equal(t, 20*time.Second, s.Duration)
	assert.Equal(t, time.Duration(0), s.Position)
}

func TestCoordinator_ProgressClampedToDuration(t *testing.T) {
	c, f := newTestCoordinator(t)

	c.Play("a.mp3", "clip-1")
	_, sink := f.last()
	sink.MetadataLoaded(10 * time.Second)
	sink.Progress(15 * time.Second)

	assert.Equal(t, 10*time.Second, c.Snapshot().Position)
}

func TestCoordinator_ProgressIgnoredWhilePaused(t *testing.T) {
	c, f := newTestCoordinator(t)

	c.Play("a.mp3", "clip-1")
	_, sink := f.last()
	sink.MetadataLoaded(60 * time.Second)
	sink.Progress(5 * time.Second)
	c.Pause()

	sink.Progress(30 * time.Second)

	assert.Equal(t, 5*time.Second, c.Snapshot().Position)
}

func TestCoordinator_LastWriterWins(t *testing.T) {
	c, f := newTestCoordinator(t)

	// Two views racing to play different clips: the later command wins
	// and the earlier clip's source is released.
	c.Play("a.mp3", "clip-1")
	c.Play("b.mp3", "clip-2")
	c.Play("c.mp3", "clip-3")

	s := c.Snapshot()
	assert.Equal(t, "clip-3", s.ActiveClipID)
	assert.True(t, f.sources[0].closed)
	assert.True(t, f.sources[1].closed)
	assert.False(t, f.sources[2].closed)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "playing", StatePlaying.String())
	assert.Equal(t, "paused", StatePaused.String())
	assert.Equal(t, "unknown", State(99).String())
}

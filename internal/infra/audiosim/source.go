// Package audiosim provides a simulated playback source. There is no real
// audio decoding in this product demo; a source emulates the timing
// behavior of a runtime audio element against fixture clip durations.
package audiosim

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/soracane/voxboard/internal/app/playback"
)

// ErrUnknownLocator is returned when no fixture clip matches the locator.
var ErrUnknownLocator = errors.New("unknown resource locator")

// Config holds simulation timing parameters.
type Config struct {
	MetadataDelay    time.Duration // Delay before metadata resolves
	ProgressInterval time.Duration // Interval between progress callbacks
}

// DurationFunc resolves a resource locator to its clip duration. The
// second return value is false when the locator is unknown.
type DurationFunc func(locator string) (time.Duration, bool)

// NewFactory returns a playback.SourceFactory producing simulated sources.
func NewFactory(cfg Config, durationFor DurationFunc) playback.SourceFactory {
	return func(locator string, sink playback.Events) (playback.Source, error) {
		d, ok := durationFor(locator)
		if !ok {
			return nil, errors.Wrapf(ErrUnknownLocator, "locator %q", locator)
		}

		s := &source{
			sink:     sink,
			duration: d,
			cfg:      cfg,
			done:     make(chan struct{}),
		}
		go s.run()
		return s, nil
	}
}

// source emulates one audio element. Callbacks are always invoked without
// holding the source mutex, so the coordinator may call back into the
// source from another goroutine without lock-order trouble.
type source struct {
	mu sync.Mutex

	sink     playback.Events
	duration time.Duration
	cfg      Config

	playing   bool
	startedAt time.Time     // When rendering last (re)started
	elapsed   time.Duration // Accumulated rendering time before startedAt

	done      chan struct{}
	closeOnce sync.Once
}

func (s *source) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.playing {
		s.playing = true
		s.startedAt = time.Now()
	}
	return nil
}

func (s *source) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.playing {
		s.elapsed += time.Since(s.startedAt)
		s.playing = false
	}
}

func (s *source) Seek(pos time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.elapsed = pos
	if s.playing {
		s.startedAt = time.Now()
	}
}

func (s *source) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

func (s *source) run() {
	// Metadata resolves after a short delay, like a real element loading
	// its header.
	select {
	case <-s.done:
		return
	case <-time.After(s.cfg.MetadataDelay):
	}
	s.sink.MetadataLoaded(s.duration)

	ticker := time.NewTicker(s.cfg.ProgressInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			if !s.playing {
				s.mu.Unlock()
				continue
			}
			pos := s.elapsed + time.Since(s.startedAt)
			ended := pos >= s.duration
			s.mu.Unlock()

			if ended {
				s.sink.Ended()
				return
			}
			s.sink.Progress(pos)
		}
	}
}

package fixtures

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/soracane/voxboard/internal/domain/clip"
	"github.com/soracane/voxboard/internal/domain/usage"
	"github.com/soracane/voxboard/internal/domain/voice"
)

// Errors
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("fixture backend unavailable")
)

// Config holds the simulated network behavior of the store.
type Config struct {
	MinDelay    time.Duration // Lower latency bound per read
	MaxDelay    time.Duration // Upper latency bound per read
	FailureRate float64       // Probability in [0,1] that a read fails
	Seed        int64         // Random seed, 0 means time-based
}

// Store serves the synthetic fixture data. Every read waits a random
// simulated network delay and may fail according to FailureRate.
type Store struct {
	cfg Config

	rngMu sync.Mutex
	rng   *rand.Rand

	voices []voice.Voice
	clips  []clip.Clip
	report usage.Report

	clipsByID  map[string]clip.Clip
	clipsByURL map[string]clip.Clip
}

// Load reads the fixture file at path and builds a store around it.
func Load(path string, cfg Config) (*Store, error) {
	f, err := readFixtureFile(path)
	if err != nil {
		return nil, err
	}
	return newStore(f, cfg), nil
}

// LoadBytes builds a store from an in-memory fixture document.
func LoadBytes(data []byte, cfg Config) (*Store, error) {
	f, err := parse(data)
	if err != nil {
		return nil, err
	}
	return newStore(f, cfg), nil
}

func newStore(f *fixtureFile, cfg Config) *Store {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Store{
		cfg:        cfg,
		rng:        rand.New(rand.NewSource(seed)),
		voices:     f.voices(),
		clips:      f.clips(),
		report:     f.report(),
		clipsByID:  make(map[string]clip.Clip),
		clipsByURL: make(map[string]clip.Clip),
	}
	for _, c := range s.clips {
		s.clipsByID[c.ID] = c
		s.clipsByURL[c.AudioURL] = c
	}
	return s
}

// Voices returns all voices.
func (s *Store) Voices(ctx context.Context) ([]voice.Voice, error) {
	if err := s.simulate(ctx); err != nil {
		return nil, err
	}
	result := make([]voice.Voice, len(s.voices))
	copy(result, s.voices)
	return result, nil
}

// Clips returns all clips.
func (s *Store) Clips(ctx context.Context) ([]clip.Clip, error) {
	if err := s.simulate(ctx); err != nil {
		return nil, err
	}
	result := make([]clip.Clip, len(s.clips))
	copy(result, s.clips)
	return result, nil
}

// ClipByID returns the clip with the given id.
func (s *Store) ClipByID(ctx context.Context, id string) (*clip.Clip, error) {
	if err := s.simulate(ctx); err != nil {
		return nil, err
	}
	c, ok := s.clipsByID[id]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "clip %q", id)
	}
	return &c, nil
}

// Usage returns the usage report.
func (s *Store) Usage(ctx context.Context) (*usage.Report, error) {
	if err := s.simulate(ctx); err != nil {
		return nil, err
	}
	report := s.report
	report.Points = make([]usage.Point, len(s.report.Points))
	copy(report.Points, s.report.Points)
	return &report, nil
}

// DurationForLocator resolves an audio URL to its clip duration. This is
// the playback source's metadata lookup: synchronous and exempt from
// latency simulation, since the simulated source applies its own delays.
func (s *Store) DurationForLocator(locator string) (time.Duration, bool) {
	c, ok := s.clipsByURL[locator]
	if !ok {
		return 0, false
	}
	return c.Duration, true
}

// simulate waits the simulated network delay and rolls error injection.
func (s *Store) simulate(ctx context.Context) error {
	delay := s.cfg.MinDelay
	if spread := s.cfg.MaxDelay - s.cfg.MinDelay; spread > 0 {
		delay += time.Duration(s.randInt63n(int64(spread)))
	}

	if delay > 0 {
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "fixture read cancelled")
		case <-time.After(delay):
		}
	}

	if s.cfg.FailureRate > 0 && s.randFloat64() < s.cfg.FailureRate {
		return ErrUnavailable
	}
	return nil
}

func (s *Store) randInt63n(n int64) int64 {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Int63n(n)
}

func (s *Store) randFloat64() float64 {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Float64()
}

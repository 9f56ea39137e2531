package search

import (
	"context"
	"sync"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/soracane/voxboard/internal/app/filter"
	"github.com/soracane/voxboard/internal/domain/clip"
)

// Result represents the outcome of a debounced query.
type Result struct {
	Query filter.Query
	Clips []clip.Clip
	Err   error
}

// Debouncer serializes rapid query submissions: each Submit restarts a
// quiet-window timer and only the latest query executes once the window
// elapses. Results of superseded queries are discarded even if their
// execution was already in flight.
type Debouncer struct {
	mu sync.Mutex

	searcher *Searcher
	window   time.Duration

	seq         uint64 // Latest submission; older executions are stale
	timerCancel func()

	resultCh chan Result

	ctx    context.Context
	cancel context.CancelFunc
}

// NewDebouncer creates a debouncer around the searcher.
func NewDebouncer(searcher *Searcher, window time.Duration) *Debouncer {
	ctx, cancel := context.WithCancel(context.Background())
	return &Debouncer{
		searcher: searcher,
		window:   window,
		resultCh: make(chan Result, 4),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Results returns the result channel.
func (d *Debouncer) Results() <-chan Result {
	return d.resultCh
}

// Submit schedules a query. Any previously pending query is superseded.
func (d *Debouncer) Submit(q filter.Query) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	seq := d.seq

	if d.timerCancel != nil {
		d.timerCancel()
	}
	d.timerCancel = d.startTimer(d.window, func() {
		d.execute(seq, q)
	})
}

// Close cancels any pending query and closes the result channel.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancel()
	if d.timerCancel != nil {
		d.timerCancel()
		d.timerCancel = nil
	}
	close(d.resultCh)
}

// startTimer triggers fn after the delay unless cancelled first.
// Returns a cancel function.
func (d *Debouncer) startTimer(delay time.Duration, fn func()) func() {
	ctx, cancel := context.WithCancel(d.ctx)

	go func() {
		select {
		case <-ctx.Done():
		case <-time.After(delay):
			fn()
		}
	}()

	return cancel
}

func (d *Debouncer) execute(seq uint64, q filter.Query) {
	clips, err := d.searcher.Search(d.ctx, q)

	d.mu.Lock()
	defer d.mu.Unlock()

	// A newer submission arrived while this one was searching
	if seq != d.seq || d.ctx.Err() != nil {
		zlog.Debug().Msgf("search: dropping stale result: text=%q", q.Text)
		return
	}

	select {
	case d.resultCh <- Result{Query: q, Clips: clips, Err: err}:
	default:
		// Consumer not keeping up, drop
	}
}

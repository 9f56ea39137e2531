// Package notification provides the toast manager for transient UI
// notices: pushed toasts live until dismissed or until their TTL elapses,
// and every change is broadcast to subscribed streams.
package notification

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level represents toast severity.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Valid reports whether the level is a known value.
func (l Level) Valid() bool {
	switch l {
	case LevelInfo, LevelSuccess, LevelWarning, LevelError:
		return true
	}
	return false
}

// Toast represents one transient notice.
type Toast struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// EventType represents a toast event type.
type EventType string

const (
	EventShown     EventType = "toast_shown"
	EventDismissed EventType = "toast_dismissed"
)

// Event represents a toast change broadcast to subscribers.
type Event struct {
	Type  EventType `json:"type"`
	Toast Toast     `json:"toast"`
}

// Stream represents a notification stream for a subscriber.
type Stream interface {
	Send(Event) error
}

type entry struct {
	toast  Toast
	cancel func() // Cancels the auto-dismiss timer
}

// Manager manages active toasts, their auto-dismiss timers and
// subscriber broadcasting.
type Manager struct {
	mu     sync.RWMutex
	ttl    time.Duration
	toasts map[string]*entry
	subs   map[string]Stream

	ctx    context.Context
	cancel context.CancelFunc
}

// NewManager creates a toast manager with the given auto-dismiss TTL.
func NewManager(ttl time.Duration) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		ttl:    ttl,
		toasts: make(map[string]*entry),
		subs:   make(map[string]Stream),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Push creates a toast, schedules its auto-dismiss and broadcasts it.
func (m *Manager) Push(level Level, message string) Toast {
	if !level.Valid() {
		level = LevelInfo
	}

	now := time.Now()
	toast := Toast{
		ID:        uuid.New().String(),
		Level:     level,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	m.mu.Lock()
	m.toasts[toast.ID] = &entry{
		toast:  toast,
		cancel: m.startDismissTimer(toast.ID),
	}
	m.mu.Unlock()

	m.broadcast(Event{Type: EventShown, Toast: toast})
	return toast
}

// Dismiss removes a toast before its TTL elapses. Returns false if the
// toast is unknown or already gone.
func (m *Manager) Dismiss(id string) bool {
	m.mu.Lock()
	e, ok := m.toasts[id]
	if ok {
		e.cancel()
		delete(m.toasts, id)
	}
	m.mu.Unlock()

	if !ok {
		return false
	}
	m.broadcast(Event{Type: EventDismissed, Toast: e.toast})
	return true
}

// Active returns the live toasts, oldest first.
func (m *Manager) Active() []Toast {
	m.mu.RLock()
	result := make([]Toast, 0, len(m.toasts))
	for _, e := range m.toasts {
		result = append(result, e.toast)
	}
	m.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// Subscribe adds a stream and returns its subscription ID.
func (m *Manager) Subscribe(stream Stream) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	m.subs[id] = stream
	return id
}

// Unsubscribe removes a subscription.
func (m *Manager) Unsubscribe(subscriptionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subs, subscriptionID)
}

// SubscriberCount returns the number of active subscribers.
func (m *Manager) SubscriberCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subs)
}

// Close cancels all timers and drops all toasts and subscriptions.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancel()
	for _, e := range m.toasts {
		e.cancel()
	}
	m.toasts = make(map[string]*entry)
	m.subs = make(map[string]Stream)
}

// startDismissTimer schedules auto-dismiss for the toast. Returns a
// cancel function.
func (m *Manager) startDismissTimer(id string) func() {
	ctx, cancel := context.WithCancel(m.ctx)

	go func() {
		select {
		case <-ctx.Done():
			return
		case <-time.After(m.ttl):
		}

		m.mu.Lock()
		e, ok := m.toasts[id]
		if ok {
			delete(m.toasts, id)
		}
		m.mu.Unlock()

		if ok {
			m.broadcast(Event{Type: EventDismissed, Toast: e.toast})
		}
	}()

	return cancel
}

// broadcast sends an event to all subscribers. Each stream send runs in
// its own goroutine with a timeout so a slow subscriber cannot stall the
// rest.
func (m *Manager) broadcast(ev Event) {
	m.mu.RLock()
	streams := make([]Stream, 0, len(m.subs))
	for _, s := range m.subs {
		streams = append(streams, s)
	}
	m.mu.RUnlock()

	var wg sync.WaitGroup
	for _, s := range streams {
		wg.Add(1)
		go func(s Stream) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()

			done := make(chan error, 1)
			go func() {
				done <- s.Send(ev)
			}()

			select {
			case <-done:
				// Send errors are ignored; dead streams get cleaned up
				// when their subscriber unsubscribes
			case <-ctx.Done():
			}
		}(s)
	}
	wg.Wait()
}

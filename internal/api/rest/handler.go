// Package rest provides the HTTP and websocket surface of the dashboard.
package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	zlog "github.com/rs/zerolog/log"

	"github.com/soracane/voxboard/internal/app/notification"
	"github.com/soracane/voxboard/internal/app/playback"
	"github.com/soracane/voxboard/internal/app/search"
	"github.com/soracane/voxboard/internal/infra/fixtures"
)

// Handler serves the dashboard API.
type Handler struct {
	store    *fixtures.Store
	coord    *playback.Coordinator
	toasts   *notification.Manager
	searcher *search.Searcher
	debounce time.Duration
	hub      *hub
	validate *validator.Validate
}

// NewHandler wires the API surface. The handler subscribes the websocket
// hub to toast broadcasts; call Run to stream coordinator events.
func NewHandler(
	store *fixtures.Store,
	coord *playback.Coordinator,
	toasts *notification.Manager,
	searcher *search.Searcher,
	debounce time.Duration,
) *Handler {
	h := &Handler{
		store:    store,
		coord:    coord,
		toasts:   toasts,
		searcher: searcher,
		debounce: debounce,
		hub:      newHub(),
		validate: validator.New(),
	}
	toasts.Subscribe(toastStream{hub: h.hub})
	return h
}

// Run forwards coordinator events to websocket clients until the context
// is cancelled or the coordinator closes. Playback failures additionally
// surface as error toasts.
func (h *Handler) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-h.coord.Events():
			if !ok {
				return
			}
			h.hub.broadcast(playbackMessage(ev))
			if ev.Type == playback.EventPlaybackFailed {
				h.toasts.Push(notification.LevelError, "Playback failed, please try again")
			}
		}
	}
}

func (h *Handler) decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(err, "invalid request body")
	}
	if err := h.validate.Struct(v); err != nil {
		return errors.Wrap(err, "validation failed")
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zlog.Error().Msgf("rest: failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// storeStatus maps a fixture store error to an HTTP status.
func storeStatus(err error) int {
	switch {
	case errors.Is(err, fixtures.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, fixtures.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

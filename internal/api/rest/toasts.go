package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/soracane/voxboard/internal/app/notification"
)

type toastListResponse struct {
	Toasts []notification.Toast `json:"toasts"`
}

func (h *Handler) listToasts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, toastListResponse{Toasts: h.toasts.Active()})
}

func (h *Handler) pushToast(w http.ResponseWriter, r *http.Request) {
	var req toastRequest
	if err := h.decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	t := h.toasts.Push(notification.Level(req.Level), req.Message)
	respondJSON(w, http.StatusCreated, t)
}

func (h *Handler) dismissToast(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "toast-id")
	if !h.toasts.Dismiss(id) {
		respondError(w, http.StatusNotFound, "toast not found")
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

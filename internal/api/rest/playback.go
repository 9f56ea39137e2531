package rest

import (
	"net/http"
	"time"
)

// getPlayback returns the current playback snapshot.
func (h *Handler) getPlayback(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, toSnapshotJSON(h.coord.Snapshot()))
}

// playClip starts the requested clip. Requesting the clip that is already
// active toggles between playing and paused instead of restarting it.
func (h *Handler) playClip(w http.ResponseWriter, r *http.Request) {
	var req playRequest
	if err := h.decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.store.ClipByID(r.Context(), req.ClipID)
	if err != nil {
		respondError(w, storeStatus(err), "failed to load clip")
		return
	}

	h.coord.Play(c.AudioURL, c.ID)
	respondJSON(w, http.StatusOK, toSnapshotJSON(h.coord.Snapshot()))
}

func (h *Handler) pausePlayback(w http.ResponseWriter, r *http.Request) {
	h.coord.Pause()
	respondJSON(w, http.StatusOK, toSnapshotJSON(h.coord.Snapshot()))
}

func (h *Handler) stopPlayback(w http.ResponseWriter, r *http.Request) {
	h.coord.Stop()
	respondJSON(w, http.StatusOK, toSnapshotJSON(h.coord.Snapshot()))
}

func (h *Handler) seekPlayback(w http.ResponseWriter, r *http.Request) {
	var req seekRequest
	if err := h.decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.coord.Seek(time.Duration(*req.PositionSeconds * float64(time.Second)))
	respondJSON(w, http.StatusOK, toSnapshotJSON(h.coord.Snapshot()))
}

package rest

import (
	"net/http"

	"github.com/soracane/voxboard/internal/app/filter"
)

type voiceListResponse struct {
	Voices []voiceJSON `json:"voices"`
}

type clipListResponse struct {
	Clips []clipJSON `json:"clips"`
	Total int        `json:"total"`
}

func (h *Handler) listVoices(w http.ResponseWriter, r *http.Request) {
	voices, err := h.store.Voices(r.Context())
	if err != nil {
		respondError(w, storeStatus(err), "failed to load voices")
		return
	}
	respondJSON(w, http.StatusOK, voiceListResponse{Voices: toVoiceListJSON(voices)})
}

// listClips searches the catalog with the configured filter chain. The
// query parameters q, category and language constrain the result.
func (h *Handler) listClips(w http.ResponseWriter, r *http.Request) {
	q := filter.Query{
		Text:     r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
		Language: r.URL.Query().Get("language"),
	}

	clips, err := h.searcher.Search(r.Context(), q)
	if err != nil {
		respondError(w, storeStatus(err), "failed to search clips")
		return
	}
	respondJSON(w, http.StatusOK, clipListResponse{
		Clips: toClipListJSON(clips),
		Total: len(clips),
	})
}

func (h *Handler) getUsage(w http.ResponseWriter, r *http.Request) {
	report, err := h.store.Usage(r.Context())
	if err != nil {
		respondError(w, storeStatus(err), "failed to load usage")
		return
	}
	respondJSON(w, http.StatusOK, toUsageJSON(report))
}

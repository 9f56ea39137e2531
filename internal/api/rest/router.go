package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	zlog "github.com/rs/zerolog/log"
)

// Routes builds the chi router for the dashboard API.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/voices", h.listVoices)
		r.Get("/clips", h.listClips)
		r.Get("/usage", h.getUsage)

		r.Route("/playback", func(r chi.Router) {
			r.Get("/", h.getPlayback)
			r.Post("/play", h.playClip)
			r.Post("/pause", h.pausePlayback)
			r.Post("/stop", h.stopPlayback)
			r.Post("/seek", h.seekPlayback)
		})

		r.Route("/toasts", func(r chi.Router) {
			r.Get("/", h.listToasts)
			r.Post("/", h.pushToast)
			r.Delete("/{toast-id}", h.dismissToast)
		})

		r.Get("/ws", h.serveWS)
	})

	return r
}

// requestLogger logs each request with zerolog.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		zlog.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}

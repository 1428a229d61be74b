package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jaminalder/tictactoe-ai/internal/app"
)

// NewServer wires routes and returns an http.Handler. It also installs the
// board renderer used for the service's SSE broadcasts.
func NewServer(s *app.Service, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	h := &handlers{svc: s, tpl: loadTemplates(), logger: logger.With(slog.String("component", "web"))}
	s.SetRenderer(h.broadcastBoard)

	r.Use(middleware.RequestID)
	r.Use(Logging(logger))
	r.Use(middleware.Recoverer)

	r.Get("/", h.index)
	r.Post("/game", h.create)
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", h.view)
		r.Post("/play", h.play)
		r.Post("/reset", h.reset)
		r.Post("/mode", h.mode)
		r.Get("/events", h.events)
	})
	return r
}

package web

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jaminalder/tictactoe-ai/internal/app"
	"github.com/jaminalder/tictactoe-ai/internal/domain"
)

type handlers struct {
	svc    *app.Service
	tpl    *templates
	logger *slog.Logger
}

// broadcastBoard renders the fragment pushed to subscribers. A failed render
// yields nil, which the event stream skips.
func (h *handlers) broadcastBoard(gs app.GameState) []byte {
	b, err := renderTemplate(h.tpl.board, "", newBoardView(gs, ""))
	if err != nil {
		h.logger.Error("board render failed", slog.String("game_id", gs.ID), slog.String("error", err.Error()))
		return nil
	}
	return b
}

// writeHTML renders t into w, answering 500 when the template fails.
func (h *handlers) writeHTML(w http.ResponseWriter, t *template.Template, data any) {
	b, err := renderTemplate(t, "", data)
	if err != nil {
		h.logger.Error("template render failed", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (h *handlers) writeBoard(w http.ResponseWriter, gs app.GameState, errMsg string) {
	h.writeHTML(w, h.tpl.board, newBoardView(gs, errMsg))
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	h.writeHTML(w, h.tpl.index, nil)
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	mode := app.HumanVsHuman
	if v := r.Form.Get("mode"); v != "" {
		m, err := app.ParseMode(v)
		if err != nil {
			http.Error(w, "unknown mode", http.StatusBadRequest)
			return
		}
		mode = m
	}
	gs, err := h.svc.CreateGame(mode)
	if err != nil {
		http.Error(w, "failed to create", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	gs, ok := h.svc.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	// Render page with embedded board container
	h.writeHTML(w, h.tpl.game, newBoardView(*gs, ""))
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_ = r.ParseForm()
	cell, convErr := strconv.Atoi(r.Form.Get("cell"))
	if convErr != nil {
		cell = -1
	}
	gs, err := h.svc.Play(id, cell)
	var errMsg string
	if err != nil {
		if errors.Is(err, app.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		gs, _ = h.svc.Get(id)
		errMsg = moveErrorMessage(err)
		h.logger.Debug("move rejected", slog.String("game_id", id), slog.Int("cell", cell), slog.String("error", err.Error()))
	}
	if gs == nil {
		http.NotFound(w, r)
		return
	}
	h.writeBoard(w, *gs, errMsg)
}

func moveErrorMessage(err error) string {
	switch {
	case errors.Is(err, app.ErrNotYourTurn):
		return "Not your turn"
	case errors.Is(err, domain.ErrOccupied):
		return "Cell is occupied"
	case errors.Is(err, domain.ErrOutOfBounds):
		return "Out of bounds"
	case errors.Is(err, domain.ErrGameOver):
		return "Game is over"
	default:
		return "Invalid move"
	}
}

func (h *handlers) reset(w http.ResponseWriter, r *http.Request) {
	gs, err := h.svc.Reset(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.writeBoard(w, *gs, "")
}

func (h *handlers) mode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_ = r.ParseForm()
	var (
		gs  *app.GameState
		err error
	)
	if v := r.Form.Get("mode"); v != "" {
		m, perr := app.ParseMode(v)
		if perr != nil {
			http.Error(w, "unknown mode", http.StatusBadRequest)
			return
		}
		gs, err = h.svc.SetMode(id, m)
	} else {
		gs, err = h.svc.ToggleMode(id)
	}
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.writeBoard(w, *gs, "")
}

var heartbeatInterval = 15 * time.Second

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.svc.Get(id); !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	// In tests or non-EventSource requests, just acknowledge headers and return
	if r.Header.Get("Accept") != "text/event-stream" {
		w.WriteHeader(http.StatusOK)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	ctx := r.Context()
	ch, unsub, err := h.svc.Subscribe(ctx, id)
	if err != nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	defer unsub()
	// heartbeat ticker
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	// Initial flush of headers
	flusher.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			flusher.Flush()
		case b, ok := <-ch:
			if !ok {
				return
			}
			if len(b) == 0 {
				continue
			}
			writeEvent(w, "board", b)
			flusher.Flush()
		}
	}
}

// writeEvent emits one SSE event; every payload line gets its own data field.
func writeEvent(w io.Writer, name string, payload []byte) {
	_, _ = fmt.Fprintf(w, "event: %s\n", name)
	for _, line := range bytes.Split(bytes.TrimSpace(payload), []byte("\n")) {
		_, _ = fmt.Fprintf(w, "data: %s\n", line)
	}
	_, _ = io.WriteString(w, "\n")
}

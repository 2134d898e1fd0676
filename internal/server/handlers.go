package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/nmx/internal/models"
	"github.com/desertthunder/nmx/internal/player"
	"github.com/desertthunder/nmx/internal/shared"
)

// NewRouter wires the remote control and event stream of p behind the standard middleware.
func NewRouter(p *player.Player, logger *log.Logger) *BasicRouter {
	r := NewBasicRouter()
	r.Use(RequestID(), Logging(logger), Recover(logger))
	NewPlayerHandler(p, logger).Register(r)
	r.Handler(NewEventsHandler(p.Store(), logger))
	return r
}

// PlayerHandler serves the remote control routes of a [player.Player].
type PlayerHandler struct {
	player *player.Player
	logger *log.Logger
}

func NewPlayerHandler(p *player.Player, logger *log.Logger) *PlayerHandler {
	return &PlayerHandler{player: p, logger: logger}
}

// Register adds every player route to r.
func (h *PlayerHandler) Register(r Router) {
	r.Handle(http.MethodGet, "/api/state", http.HandlerFunc(h.State))
	r.Handle(http.MethodGet, "/api/collector", http.HandlerFunc(h.Collector))
	r.Handle(http.MethodPost, "/api/play", http.HandlerFunc(h.Play))
	r.Handle(http.MethodPost, "/api/next", h.step(h.player.PlayNext))
	r.Handle(http.MethodPost, "/api/prev", h.step(h.player.PlayPrev))
	r.Handle(http.MethodPost, "/api/ended", h.step(h.player.TrackEnded))
	r.Handle(http.MethodPost, "/api/toggle", http.HandlerFunc(h.Toggle))
	r.Handle(http.MethodPost, "/api/mode", http.HandlerFunc(h.Mode))
	r.Handle(http.MethodPost, "/api/like", http.HandlerFunc(h.Like))
	r.Handle(http.MethodPost, "/api/collect", http.HandlerFunc(h.Collect))
	r.Handle(http.MethodPost, "/api/queue/delete", http.HandlerFunc(h.DeleteFromQueue))
	r.Handle(http.MethodDelete, "/api/queue", http.HandlerFunc(h.EmptyQueue))
}

type idRequest struct {
	ID int64 `json:"id"`
}

type modeRequest struct {
	Mode string `json:"mode"`
}

func (h *PlayerHandler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.player.State())
}

func (h *PlayerHandler) Collector(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.player.State().Collector)
}

// Play makes the requested song current and starts playback.
func (h *PlayerHandler) Play(w http.ResponseWriter, r *http.Request) {
	var req idRequest
	if err := decode(r, &req, true); err != nil {
		h.fail(w, r, err)
		return
	}

	music, err := h.player.Lookup(r.Context(), req.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	err = h.player.ChangeCurrentMusic(r.Context(), music)
	h.player.SetPlayingStatus(true)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.player.State().CurrentMusic)
}

func (h *PlayerHandler) step(fn func(ctx context.Context) error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := fn(r.Context()); err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, h.player.State().CurrentMusic)
	})
}

func (h *PlayerHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	h.player.TogglePlaying()
	writeJSON(w, http.StatusOK, map[string]bool{"playing": h.player.State().PlayingStatus})
}

// Mode sets the requested play mode, or cycles to the next one when the body is empty.
func (h *PlayerHandler) Mode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if err := decode(r, &req, false); err != nil {
		h.fail(w, r, err)
		return
	}

	var mode models.PlayMode
	if req.Mode == "" {
		mode = h.player.CyclePlayMode()
	} else {
		m, err := models.ParsePlayMode(req.Mode)
		if err != nil {
			h.fail(w, r, fmt.Errorf("%w: %w", shared.ErrInvalidInput, err))
			return
		}
		h.player.SetPlayMode(m)
		mode = m
	}
	writeJSON(w, http.StatusOK, map[string]string{"mode": mode.String()})
}

// Like toggles the liked state of the requested song, or of the current one when no ID is given.
func (h *PlayerHandler) Like(w http.ResponseWriter, r *http.Request) {
	var req idRequest
	if err := decode(r, &req, false); err != nil {
		h.fail(w, r, err)
		return
	}

	var music models.Music
	switch {
	case req.ID != 0:
		m, err := h.player.Lookup(r.Context(), req.ID)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		music = m
	case h.player.State().CurrentMusic != nil:
		music = *h.player.State().CurrentMusic
	default:
		h.fail(w, r, fmt.Errorf("%w: no song given and nothing playing", shared.ErrInvalidInput))
		return
	}

	liked, err := h.player.ToggleLike(r.Context(), music)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": music.ID, "liked": liked})
}

// Collect toggles the open music list in the collected playlists.
func (h *PlayerHandler) Collect(w http.ResponseWriter, r *http.Request) {
	list := h.player.State().CurrentMusicList
	if list == nil || list.ID == 0 {
		h.fail(w, r, fmt.Errorf("%w: no playlist open", shared.ErrInvalidInput))
		return
	}

	collected, err := h.player.ToggleCollectPlaylist(r.Context(), *list)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": list.ID, "collected": collected})
}

func (h *PlayerHandler) DeleteFromQueue(w http.ResponseWriter, r *http.Request) {
	var req idRequest
	if err := decode(r, &req, true); err != nil {
		h.fail(w, r, err)
		return
	}

	queue := h.player.State().PlayList
	i := models.FindIndex(queue, models.Music{ID: req.ID})
	if i < 0 {
		h.fail(w, r, fmt.Errorf("%w: %d is not queued", shared.ErrTrackNotFound, req.ID))
		return
	}

	if err := h.player.DeleteMusic(r.Context(), queue[i]); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.player.State().PlayList)
}

func (h *PlayerHandler) EmptyQueue(w http.ResponseWriter, r *http.Request) {
	h.player.EmptyPlayList()
	w.WriteHeader(http.StatusNoContent)
}

func (h *PlayerHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "path", r.URL.Path, "err", err, "request_id", RequestIDFrom(r.Context()))
	}
	writeError(w, status, err.Error())
}

// decode reads a JSON body into v. An empty body is an error only when required.
func decode(r *http.Request, v any, required bool) error {
	if r.Body == nil || r.ContentLength == 0 {
		if required {
			return fmt.Errorf("%w: request body required", shared.ErrInvalidInput)
		}
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrTrackNotFound),
		errors.Is(err, shared.ErrPlaylistNotFound),
		errors.Is(err, shared.ErrAlbumNotFound),
		errors.Is(err, shared.ErrSingerNotFound),
		errors.Is(err, shared.ErrDocumentNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrAPIRequest), errors.Is(err, shared.ErrServiceUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

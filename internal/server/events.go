package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/nmx/internal/store"
)

var _ Handler = (*EventsHandler)(nil)

type event struct {
	action store.ActionType
	state  store.State
}

// EventsHandler streams dispatched actions and the resulting state as server-sent events.
//
// Slow clients drop intermediate events; the next event always carries the full state.
type EventsHandler struct {
	store  *store.Store
	logger *log.Logger
	buffer int
}

func NewEventsHandler(s *store.Store, logger *log.Logger) *EventsHandler {
	return &EventsHandler{store: s, logger: logger, buffer: 16}
}

func (h *EventsHandler) Routes() []string {
	return []string{"/api/events"}
}

func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	events := make(chan event, h.buffer)
	unsubscribe := h.store.Subscribe(func(s store.State, a store.Action) {
		select {
		case events <- event{action: a.Type(), state: s}:
		default:
		}
	})
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-events:
			data, err := json.Marshal(ev.state)
			if err != nil {
				h.logger.Error("failed to encode state", "err", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.action, data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/nmx/internal/models"
	"github.com/desertthunder/nmx/internal/player"
	"github.com/desertthunder/nmx/internal/shared"
	"github.com/desertthunder/nmx/internal/store"
	th "github.com/desertthunder/nmx/internal/testing"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestRouter(t *testing.T) (*BasicRouter, *player.Player, *th.MockAPI) {
	t.Helper()
	api := th.NewMockAPI()
	p := player.New(player.Opts{
		API:       api,
		Collector: &th.MemoryCollector{},
		Logger:    quietLogger(),
	})
	return NewRouter(p, quietLogger()), p, api
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode %q: %v", rec.Body.String(), err)
	}
}

func TestBasicRouter(t *testing.T) {
	t.Run("middleware order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		r := NewBasicRouter()
		r.Use(mark("first"), mark("second"))
		r.Handle(http.MethodGet, "/x", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))

		do(t, r, http.MethodGet, "/x", "")
		if strings.Join(order, ",") != "first,second,handler" {
			t.Errorf("unexpected order %v", order)
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handle(http.MethodPost, "/x", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		rec := do(t, r, http.MethodGet, "/x", "")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
		if rec.Header().Get("Allow") != http.MethodPost {
			t.Errorf("expected Allow header, got %q", rec.Header().Get("Allow"))
		}
	})

	t.Run("several methods on one path", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handle(http.MethodGet, "/x", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		r.Handle(http.MethodDelete, "/x", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

		if rec := do(t, r, http.MethodGet, "/x", ""); rec.Code != http.StatusOK {
			t.Errorf("GET: expected 200, got %d", rec.Code)
		}
		if rec := do(t, r, http.MethodDelete, "/x", ""); rec.Code != http.StatusNoContent {
			t.Errorf("DELETE: expected 204, got %d", rec.Code)
		}

		rec := do(t, r, http.MethodPut, "/x", "")
		if got := rec.Header().Get("Allow"); got != "DELETE, GET" {
			t.Errorf("expected sorted Allow header, got %q", got)
		}
	})

	t.Run("unknown path", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handle(http.MethodGet, "/x", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		rec := do(t, r, http.MethodGet, "/nope", "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"error"`) {
			t.Errorf("expected JSON error body, got %q", rec.Body.String())
		}
	})
}

func TestMiddleware(t *testing.T) {
	t.Run("request id generated", func(t *testing.T) {
		var seen string
		h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = RequestIDFrom(r.Context())
		}))

		rec := do(t, h, http.MethodGet, "/", "")
		if seen == "" || rec.Header().Get(RequestIDHeader) != seen {
			t.Errorf("expected matching request id, got %q and %q", seen, rec.Header().Get(RequestIDHeader))
		}
	})

	t.Run("request id propagated", func(t *testing.T) {
		h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if got := rec.Header().Get(RequestIDHeader); got != "abc" {
			t.Errorf("expected abc, got %q", got)
		}
	})

	t.Run("logging records status", func(t *testing.T) {
		var buf bytes.Buffer
		h := Logging(log.New(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))

		do(t, h, http.MethodGet, "/tea", "")
		out := buf.String()
		if !strings.Contains(out, "status=418") || !strings.Contains(out, "path=/tea") {
			t.Errorf("unexpected log output %q", out)
		}
	})

	t.Run("recover", func(t *testing.T) {
		h := Recover(quietLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

		rec := do(t, h, http.MethodGet, "/", "")
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
	})
}

func TestPlayerHandler(t *testing.T) {
	t.Run("state", func(t *testing.T) {
		r, p, _ := newTestRouter(t)
		p.SetPlayMode(models.RandomPlay)

		rec := do(t, r, http.MethodGet, "/api/state", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var s store.State
		decodeBody(t, rec, &s)
		if s.PlayMode != models.RandomPlay {
			t.Errorf("expected random mode, got %v", s.PlayMode)
		}
	})

	t.Run("play from api", func(t *testing.T) {
		r, p, api := newTestRouter(t)
		api.Songs[7] = models.Music{ID: 7, MusicName: "Seven", ImgURL: "x"}

		rec := do(t, r, http.MethodPost, "/api/play", `{"id":7}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
		}

		var m models.Music
		decodeBody(t, rec, &m)
		if m.ID != 7 || m.MusicURL == "" {
			t.Errorf("expected resolved song 7, got %+v", m)
		}
		if !p.State().PlayingStatus {
			t.Error("expected playback started")
		}
	})

	t.Run("play errors", func(t *testing.T) {
		r, _, _ := newTestRouter(t)

		tc := []struct {
			body string
			want int
		}{
			{body: "", want: http.StatusBadRequest},
			{body: "{", want: http.StatusBadRequest},
			{body: `{"id":404}`, want: http.StatusNotFound},
		}
		for _, tt := range tc {
			rec := do(t, r, http.MethodPost, "/api/play", tt.body)
			if rec.Code != tt.want {
				t.Errorf("body %q: expected %d, got %d", tt.body, tt.want, rec.Code)
			}
			var body map[string]string
			decodeBody(t, rec, &body)
			if body["error"] == "" {
				t.Errorf("body %q: expected error message", tt.body)
			}
		}
	})

	t.Run("api failure is bad gateway", func(t *testing.T) {
		r, _, api := newTestRouter(t)
		api.Err = shared.ErrAPIRequest

		rec := do(t, r, http.MethodPost, "/api/play", `{"id":1}`)
		if rec.Code != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", rec.Code)
		}
	})

	t.Run("next and prev", func(t *testing.T) {
		r, p, _ := newTestRouter(t)
		p.AddToPlayList(th.Songs(3)...)

		do(t, r, http.MethodPost, "/api/next", "")
		if got := p.State().CurrentIndex; got != 1 {
			t.Errorf("expected index 1, got %d", got)
		}
		do(t, r, http.MethodPost, "/api/prev", "")
		do(t, r, http.MethodPost, "/api/prev", "")
		if got := p.State().CurrentIndex; got != 2 {
			t.Errorf("expected wrap to 2, got %d", got)
		}
	})

	t.Run("toggle and mode", func(t *testing.T) {
		r, p, _ := newTestRouter(t)
		p.AddToPlayList(th.Songs(1)...)
		do(t, r, http.MethodPost, "/api/play", `{"id":1}`)

		rec := do(t, r, http.MethodPost, "/api/toggle", "")
		var toggled map[string]bool
		decodeBody(t, rec, &toggled)
		if toggled["playing"] {
			t.Error("expected paused")
		}

		rec = do(t, r, http.MethodPost, "/api/mode", `{"mode":"shuffle"}`)
		var mode map[string]string
		decodeBody(t, rec, &mode)
		if mode["mode"] != "random" {
			t.Errorf("expected random, got %v", mode)
		}

		rec = do(t, r, http.MethodPost, "/api/mode", "")
		decodeBody(t, rec, &mode)
		if mode["mode"] != "sequence" {
			t.Errorf("expected cycle to sequence, got %v", mode)
		}

		if rec := do(t, r, http.MethodPost, "/api/mode", `{"mode":"bogus"}`); rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("like and collector", func(t *testing.T) {
		r, p, _ := newTestRouter(t)

		if rec := do(t, r, http.MethodPost, "/api/like", ""); rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 with nothing playing, got %d", rec.Code)
		}

		p.AddToPlayList(th.Songs(2)...)
		rec := do(t, r, http.MethodPost, "/api/like", `{"id":2}`)
		var liked map[string]any
		decodeBody(t, rec, &liked)
		if liked["liked"] != true {
			t.Errorf("expected liked, got %v", liked)
		}

		rec = do(t, r, http.MethodGet, "/api/collector", "")
		var c models.Collector
		decodeBody(t, rec, &c)
		if len(c.Liked().Tracks) != 1 || c.Liked().Tracks[0].ID != 2 {
			t.Errorf("unexpected collector %+v", c)
		}
	})

	t.Run("collect", func(t *testing.T) {
		r, p, _ := newTestRouter(t)

		if rec := do(t, r, http.MethodPost, "/api/collect", ""); rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 without a list, got %d", rec.Code)
		}

		p.ChangeCurrentMusicList(&models.MusicList{ID: 3, Name: "Mix"})
		rec := do(t, r, http.MethodPost, "/api/collect", "")
		if rec.Code != http.StatusOK || !p.IsCollected(models.MusicList{ID: 3}) {
			t.Errorf("expected list collected, got %d", rec.Code)
		}
	})

	t.Run("queue", func(t *testing.T) {
		r, p, _ := newTestRouter(t)
		p.AddToPlayList(th.Songs(3)...)

		rec := do(t, r, http.MethodPost, "/api/queue/delete", `{"id":3}`)
		if rec.Code != http.StatusOK || len(p.State().PlayList) != 2 {
			t.Errorf("expected song removed, got %d with %d queued", rec.Code, len(p.State().PlayList))
		}

		if rec := do(t, r, http.MethodPost, "/api/queue/delete", `{"id":3}`); rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}

		rec = do(t, r, http.MethodDelete, "/api/queue", "")
		if rec.Code != http.StatusNoContent || len(p.State().PlayList) != 0 {
			t.Errorf("expected empty queue, got %d", rec.Code)
		}
	})
}

func TestEventsHandler(t *testing.T) {
	st := store.New(store.InitialState(), quietLogger())
	srv := httptest.NewServer(NewEventsHandler(st, quietLogger()))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/events", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("unexpected content type %q", ct)
	}

	// headers are flushed after the subscription is in place
	st.Dispatch(store.ChangePlayingStatus{Status: true})

	scanner := bufio.NewScanner(resp.Body)
	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			break
		}
		lines = append(lines, line)
	}

	if len(lines) != 2 {
		t.Fatalf("expected event and data lines, got %v", lines)
	}
	if lines[0] != "event: CHANGE_PLAYING_STATUS" {
		t.Errorf("unexpected event line %q", lines[0])
	}

	var s store.State
	if err := json.Unmarshal([]byte(strings.TrimPrefix(lines[1], "data: ")), &s); err != nil {
		t.Fatalf("bad data line: %v", err)
	}
	if !s.PlayingStatus {
		t.Error("expected playing state in event")
	}
}

// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/nmx/internal/models"
	"github.com/desertthunder/nmx/internal/shared"
)

// MockAPI is a test double for [services.MusicAPI].
//
// Songs, Lyrics, Lists, Albums and Singers act as an in-memory catalog. The Err field, when set, is returned by every call.
// Calls counts requests per method name. Hold, when set, runs before GetMusicURL and GetMusicLyric return and may block them.
type MockAPI struct {
	mu sync.Mutex

	URLs    map[int64]string
	Songs   map[int64]models.Music
	Lyrics  map[int64]models.Lyric
	Lists   map[int64]models.MusicList
	Albums  map[int64]models.MusicList
	Singers map[int64]models.SingerInfo
	Err     error
	URLErr  error
	Hold    func(method string, id int64)

	Calls map[string]int
}

// NewMockAPI creates an empty MockAPI.
func NewMockAPI() *MockAPI {
	return &MockAPI{
		URLs:    map[int64]string{},
		Songs:   map[int64]models.Music{},
		Lyrics:  map[int64]models.Lyric{},
		Lists:   map[int64]models.MusicList{},
		Albums:  map[int64]models.MusicList{},
		Singers: map[int64]models.SingerInfo{},
		Calls:   map[string]int{},
	}
}

func (m *MockAPI) record(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Calls == nil {
		m.Calls = map[string]int{}
	}
	m.Calls[name]++
	return m.Err
}

// CallCount returns how many times the named method was called.
func (m *MockAPI) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[name]
}

func (m *MockAPI) GetMusicURL(ctx context.Context, id int64) (string, error) {
	if err := m.record("GetMusicURL"); err != nil {
		return "", err
	}
	if m.Hold != nil {
		m.Hold("GetMusicURL", id)
	}
	if m.URLErr != nil {
		return "", m.URLErr
	}
	if u, ok := m.URLs[id]; ok {
		return u, nil
	}
	return fmt.Sprintf("https://stream.test/%d.mp3", id), nil
}

func (m *MockAPI) GetMusicLyric(ctx context.Context, id int64) (*models.Lyric, error) {
	if err := m.record("GetMusicLyric"); err != nil {
		return nil, err
	}
	if m.Hold != nil {
		m.Hold("GetMusicLyric", id)
	}
	l := m.Lyrics[id]
	return &l, nil
}

func (m *MockAPI) GetSingerInfo(ctx context.Context, id int64) (*models.SingerInfo, error) {
	if err := m.record("GetSingerInfo"); err != nil {
		return nil, err
	}
	info, ok := m.Singers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", shared.ErrSingerNotFound, id)
	}
	return &info, nil
}

func (m *MockAPI) GetAlbumInfo(ctx context.Context, id int64) (*models.MusicList, error) {
	if err := m.record("GetAlbumInfo"); err != nil {
		return nil, err
	}
	a, ok := m.Albums[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", shared.ErrAlbumNotFound, id)
	}
	c := a.Clone()
	return &c, nil
}

func (m *MockAPI) GetMusicDetail(ctx context.Context, id int64) (*models.Music, error) {
	if err := m.record("GetMusicDetail"); err != nil {
		return nil, err
	}
	s, ok := m.Songs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", shared.ErrTrackNotFound, id)
	}
	return &s, nil
}

func (m *MockAPI) GetMusicListDetail(ctx context.Context, id int64) (*models.MusicList, error) {
	if err := m.record("GetMusicListDetail"); err != nil {
		return nil, err
	}
	l, ok := m.Lists[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", shared.ErrPlaylistNotFound, id)
	}
	c := l.Clone()
	return &c, nil
}

func (m *MockAPI) SearchMusic(ctx context.Context, keywords string, limit int) ([]models.Music, error) {
	if err := m.record("SearchMusic"); err != nil {
		return nil, err
	}
	var out []models.Music
	for _, s := range m.Songs {
		if len(out) == limit {
			break
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *MockAPI) Name() string { return "mock" }

// MemoryCollector is an in-memory collector store.
type MemoryCollector struct {
	mu      sync.Mutex
	Doc     *models.Collector
	SaveErr error
	Saves   int
}

func (c *MemoryCollector) Get(ctx context.Context) (*models.Collector, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Doc == nil {
		return models.NewCollector(), nil
	}
	return c.Doc.Clone(), nil
}

func (c *MemoryCollector) Save(ctx context.Context, doc *models.Collector) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.SaveErr != nil {
		return c.SaveErr
	}
	c.Saves++
	c.Doc = doc.Clone()
	return nil
}

// MemorySessions is an in-memory session store.
type MemorySessions struct {
	Session *models.Session
}

func (s *MemorySessions) Get(ctx context.Context) (*models.Session, error) {
	if s.Session == nil {
		return nil, shared.ErrDocumentNotFound
	}
	cp := *s.Session
	cp.PlayList = models.CloneTracks(s.Session.PlayList)
	return &cp, nil
}

func (s *MemorySessions) Save(ctx context.Context, sess *models.Session) error {
	cp := *sess
	cp.PlayList = models.CloneTracks(sess.PlayList)
	s.Session = &cp
	return nil
}

// RecordingNotifier keeps every notice it receives.
type RecordingNotifier struct {
	mu       sync.Mutex
	Messages []string
}

func (n *RecordingNotifier) Info(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Messages = append(n.Messages, msg)
}

// Sequence returns a Rand function that yields values in order, cycling when exhausted.
func Sequence(values ...int) func(n int) int {
	var i int
	return func(n int) int {
		v := values[i%len(values)] % n
		i++
		return v
	}
}

// Songs builds n songs with IDs 1..n.
func Songs(n int) []models.Music {
	out := make([]models.Music, n)
	for i := range n {
		id := int64(i + 1)
		out[i] = models.Music{
			ID:        id,
			MusicName: fmt.Sprintf("Song %d", id),
			ImgURL:    fmt.Sprintf("https://img.test/%d.jpg", id),
			Singer:    models.Singer{ID: 100 + id, Name: fmt.Sprintf("Singer %d", id)},
			Album:     models.Album{ID: 200 + id, Name: fmt.Sprintf("Album %d", id)},
		}
	}
	return out
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

package player

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/nmx/internal/models"
	"github.com/desertthunder/nmx/internal/services"
	"github.com/desertthunder/nmx/internal/shared"
	"github.com/desertthunder/nmx/internal/store"
	"golang.org/x/sync/errgroup"
)

// CollectorStore loads and saves the liked/collected document.
type CollectorStore interface {
	Get(ctx context.Context) (*models.Collector, error)
	Save(ctx context.Context, c *models.Collector) error
}

// SessionStore loads and saves the play queue between runs.
type SessionStore interface {
	Get(ctx context.Context) (*models.Session, error)
	Save(ctx context.Context, s *models.Session) error
}

// HistoryRecorder is told about every song that becomes current.
type HistoryRecorder interface {
	Record(ctx context.Context, m models.Music) error
}

// Notifier shows short user-facing notices (toasts).
type Notifier interface {
	Info(msg string)
}

// Opts contains the dependencies of a [Player].
//
// Sessions, History, Notifier, Logger and Rand are optional.
type Opts struct {
	Store     *store.Store
	API       services.MusicAPI
	Collector CollectorStore
	Sessions  SessionStore
	History   HistoryRecorder
	Notifier  Notifier
	Logger    *log.Logger
	Rand      func(n int) int // returns a value in [0, n)
}

// Player dispatches state changes in response to user intents.
type Player struct {
	store     *store.Store
	api       services.MusicAPI
	collector CollectorStore
	sessions  SessionStore
	history   HistoryRecorder
	notifier  Notifier
	logger    *log.Logger
	intn      func(n int) int
}

type noopNotifier struct{}

func (noopNotifier) Info(string) {}

// New creates a Player from opts.
func New(opts Opts) *Player {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Store == nil {
		opts.Store = store.New(store.InitialState(), opts.Logger)
	}
	if opts.Notifier == nil {
		opts.Notifier = noopNotifier{}
	}
	if opts.Rand == nil {
		opts.Rand = rand.IntN
	}

	return &Player{
		store:     opts.Store,
		api:       opts.API,
		collector: opts.Collector,
		sessions:  opts.Sessions,
		history:   opts.History,
		notifier:  opts.Notifier,
		logger:    opts.Logger,
		intn:      opts.Rand,
	}
}

// Store returns the dispatch bus the player writes to.
func (p *Player) Store() *store.Store {
	return p.store
}

// State returns a snapshot of the current state.
func (p *Player) State() store.State {
	return p.store.State()
}

func (p *Player) dispatch(actions ...store.Action) {
	p.store.Dispatch(actions...)
}

func (p *Player) requireAPI() error {
	if p.api == nil {
		return fmt.Errorf("%w: music API not configured", shared.ErrServiceUnavailable)
	}
	return nil
}

func (p *Player) requireCollector() error {
	if p.collector == nil {
		return fmt.Errorf("%w: collector store not configured", shared.ErrServiceUnavailable)
	}
	return nil
}

// ChangeCollector replaces the collector in state without persisting it.
func (p *Player) ChangeCollector(c *models.Collector) {
	p.dispatch(store.ChangeCollector{Collector: c})
}

// RefreshCollector reloads the collector from the document store.
func (p *Player) RefreshCollector(ctx context.Context) error {
	if err := p.requireCollector(); err != nil {
		return err
	}

	c, err := p.collector.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load collector: %w", err)
	}

	p.dispatch(store.ChangeCollector{Collector: c}, store.RefreshCollector{})
	return nil
}

// ChangeCurrentMusicList shows list; nil clears it.
func (p *Player) ChangeCurrentMusicList(list *models.MusicList) {
	p.dispatch(store.ChangeCurrentMusicList{List: list})
}

// SetLoading shows or hides the loading indicator.
func (p *Player) SetLoading(v bool) {
	p.dispatch(store.ChangeShowLoading{Value: v})
}

func (p *Player) HideMusicList() {
	p.dispatch(store.HideMusicList{})
}

func (p *Player) HideSingerInfo() {
	p.dispatch(store.HideSingerInfo{})
}

func (p *Player) ToggleShowMusicDetail() {
	p.dispatch(store.ToggleShowMusicDetail{})
}

// SetPlayingStatus starts or pauses playback.
func (p *Player) SetPlayingStatus(playing bool) {
	p.dispatch(store.ChangePlayingStatus{Status: playing})
}

// TogglePlaying flips playback. Nothing happens when no song is current.
func (p *Player) TogglePlaying() {
	s := p.store.State()
	if s.CurrentMusic == nil {
		return
	}
	p.SetPlayingStatus(!s.PlayingStatus)
}

func (p *Player) SetPlayMode(mode models.PlayMode) {
	p.dispatch(store.ChangePlayMode{Mode: mode})
}

// CyclePlayMode advances sequence → loop → random and returns the new mode.
func (p *Player) CyclePlayMode() models.PlayMode {
	next := p.store.State().PlayMode.Next()
	p.SetPlayMode(next)
	return next
}

// LoadMusicList fetches a playlist and shows it.
//
// The previous list is cleared while loading. On failure the loading indicator is turned off and the error returned.
func (p *Player) LoadMusicList(ctx context.Context, id int64) error {
	if err := p.requireAPI(); err != nil {
		return err
	}

	p.dispatch(store.ChangeShowLoading{Value: true}, store.ChangeCurrentMusicList{List: nil})

	list, err := p.api.GetMusicListDetail(ctx, id)
	if err != nil {
		p.dispatch(store.ChangeShowLoading{Value: false})
		p.logger.Warn("failed to load music list", "id", id, "err", err)
		return fmt.Errorf("failed to load music list %d: %w", id, err)
	}

	p.dispatch(store.ChangeCurrentMusicList{List: list}, store.ChangeShowLoading{Value: false})
	return nil
}

// LoadSingerInfo fetches an artist profile and shows it.
func (p *Player) LoadSingerInfo(ctx context.Context, id int64) error {
	if err := p.requireAPI(); err != nil {
		return err
	}

	p.dispatch(store.ChangeShowLoading{Value: true}, store.ChangeSingerInfo{Info: nil})

	info, err := p.api.GetSingerInfo(ctx, id)
	if err != nil {
		p.dispatch(store.ChangeShowLoading{Value: false})
		p.logger.Warn("failed to load singer info", "id", id, "err", err)
		return fmt.Errorf("failed to load singer %d: %w", id, err)
	}

	p.dispatch(store.ChangeSingerInfo{Info: info}, store.ChangeShowLoading{Value: false})
	return nil
}

// LoadAlbumInfo fetches an album, shows it as the current music list and hides the singer profile covering it.
func (p *Player) LoadAlbumInfo(ctx context.Context, id int64) error {
	if err := p.requireAPI(); err != nil {
		return err
	}

	p.dispatch(store.ChangeShowLoading{Value: true})

	album, err := p.api.GetAlbumInfo(ctx, id)
	if err != nil {
		p.dispatch(store.ChangeShowLoading{Value: false})
		p.logger.Warn("failed to load album", "id", id, "err", err)
		return fmt.Errorf("failed to load album %d: %w", id, err)
	}

	p.dispatch(
		store.ChangeShowLoading{Value: false},
		store.ChangeCurrentMusicList{List: album},
		store.HideSingerInfo{},
	)
	return nil
}

// Search runs a keyword search and shows the results as a transient music list.
func (p *Player) Search(ctx context.Context, keywords string) error {
	if err := p.requireAPI(); err != nil {
		return err
	}

	p.dispatch(store.ChangeShowLoading{Value: true})

	songs, err := p.api.SearchMusic(ctx, keywords, 30)
	if err != nil {
		p.dispatch(store.ChangeShowLoading{Value: false})
		return fmt.Errorf("failed to search %q: %w", keywords, err)
	}

	p.dispatch(
		store.ChangeCurrentMusicList{List: &models.MusicList{Name: "Search: " + keywords, Tracks: songs}},
		store.ChangeShowLoading{Value: false},
	)
	return nil
}

// EmptyPlayList clears the queue and stops playback.
func (p *Player) EmptyPlayList() {
	p.dispatch(store.ChangePlayList{List: []models.Music{}}, store.ChangePlayingStatus{Status: false})
}

// ChangeCurrentMusic makes music the current song.
//
// A song already in the queue moves the cursor; an unknown song is appended first. Selecting the song that is already current does nothing.
// The song is dispatched right away; lyric, stream URL and missing artwork are fetched afterwards and merged while the song is still current.
// Fetch failures are logged and returned joined; the state dispatched so far is kept.
func (p *Player) ChangeCurrentMusic(ctx context.Context, music models.Music) error {
	selected := p.store.Update(func(s store.State) []store.Action {
		index := models.FindIndex(s.PlayList, music)
		if index >= 0 && index == s.CurrentIndex && s.CurrentMusic != nil && s.CurrentMusic.ID == music.ID {
			return nil
		}

		var actions []store.Action
		if index >= 0 {
			actions = append(actions, store.ChangeCurrentIndex{Index: index})
		} else {
			list := append(s.PlayList, music)
			actions = append(actions, store.ChangePlayList{List: list}, store.ChangeCurrentIndex{Index: len(list) - 1})
		}
		return append(actions, store.ChangeCurrentMusic{Music: &music}, store.ChangeCurrentMusicLyric{Lyric: nil})
	})
	if !selected {
		return nil
	}

	if p.history != nil {
		if err := p.history.Record(ctx, music); err != nil {
			p.logger.Warn("failed to record history", "id", music.ID, "err", err)
		}
	}

	if err := p.requireAPI(); err != nil {
		return err
	}

	return p.resolve(ctx, music)
}

// resolve fetches the lyric and the stream URL (then artwork) of music concurrently.
func (p *Player) resolve(ctx context.Context, music models.Music) error {
	var (
		g        errgroup.Group
		lyricErr error
		urlErr   error
	)

	g.Go(func() error {
		lyric, err := p.api.GetMusicLyric(ctx, music.ID)
		if err != nil {
			lyricErr = fmt.Errorf("lyric: %w", err)
			return lyricErr
		}
		p.store.Update(func(s store.State) []store.Action {
			if !isCurrent(s, music.ID) {
				return nil
			}
			return []store.Action{store.ChangeCurrentMusicLyric{Lyric: lyric}}
		})
		return nil
	})

	g.Go(func() error {
		urlErr = p.resolveStream(ctx, music)
		return urlErr
	})

	// Wait reports only the first failure; both are returned.
	if g.Wait() == nil {
		return nil
	}

	err := errors.Join(lyricErr, urlErr)
	p.logger.Warn("failed to resolve music", "id", music.ID, "err", err)
	return err
}

// resolveStream merges the stream URL and, when missing, the artwork into the current song.
func (p *Player) resolveStream(ctx context.Context, music models.Music) error {
	url, err := p.api.GetMusicURL(ctx, music.ID)
	if err != nil {
		return fmt.Errorf("stream url: %w", err)
	}

	if !p.merge(music.ID, func(m *models.Music) { m.MusicURL = url }) {
		return nil
	}

	if music.ImgURL != "" {
		return nil
	}

	detail, err := p.api.GetMusicDetail(ctx, music.ID)
	if err != nil {
		return fmt.Errorf("artwork: %w", err)
	}

	p.merge(music.ID, func(m *models.Music) { m.ImgURL = detail.ImgURL })
	return nil
}

// merge applies fn to a copy of the current song and dispatches it, only while the current song is id.
//
// Returns false when another song became current meanwhile.
func (p *Player) merge(id int64, fn func(m *models.Music)) bool {
	return p.store.Update(func(s store.State) []store.Action {
		if !isCurrent(s, id) {
			return nil
		}
		cur := *s.CurrentMusic
		fn(&cur)
		return []store.Action{store.ChangeCurrentMusic{Music: &cur}}
	})
}

func isCurrent(s store.State, id int64) bool {
	return s.CurrentMusic != nil && s.CurrentMusic.ID == id
}

// Lookup finds a song by ID in the queue, the open list and the singer's hot songs, then falls back to the API.
func (p *Player) Lookup(ctx context.Context, id int64) (models.Music, error) {
	s := p.store.State()

	lists := [][]models.Music{s.PlayList}
	if s.CurrentMusicList != nil {
		lists = append(lists, s.CurrentMusicList.Tracks)
	}
	if s.SingerInfo != nil {
		lists = append(lists, s.SingerInfo.HotSongs)
	}
	for _, l := range lists {
		if i := models.FindIndex(l, models.Music{ID: id}); i >= 0 {
			return l[i], nil
		}
	}

	if err := p.requireAPI(); err != nil {
		return models.Music{}, err
	}
	m, err := p.api.GetMusicDetail(ctx, id)
	if err != nil {
		return models.Music{}, fmt.Errorf("failed to look up song %d: %w", id, err)
	}
	return *m, nil
}

package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/nmx/internal/formatter"
	"github.com/desertthunder/nmx/internal/models"
	"github.com/desertthunder/nmx/internal/player"
	"github.com/desertthunder/nmx/internal/store"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	CollectorView ViewState = iota
	MusicListView
	SingerView
	QueueView
	DetailView
	SearchView

	stay ViewState = -1
)

func (v ViewState) String() string {
	switch v {
	case CollectorView:
		return "Library"
	case MusicListView:
		return "Music List"
	case SingerView:
		return "Singer"
	case QueueView:
		return "Queue"
	case DetailView:
		return "Now Playing"
	case SearchView:
		return "Search"
	default:
		return ""
	}
}

// tabOrder is the cycle followed by the tab key.
var tabOrder = []ViewState{CollectorView, MusicListView, QueueView, DetailView}

// Model represents the TUI application state.
type Model struct {
	ctx         context.Context
	player      *player.Player
	notices     *StatusNotifier
	view        ViewState
	width       int
	height      int
	collector   list.Model
	tracks      list.Model
	singer      list.Model
	queue       list.Model
	search      textinput.Model
	help        help.Model
	keys        keyMap
	status      string
	err         error
	changes     chan struct{}
	unsubscribe func()
	position    time.Duration
	positionID  int64
}

func newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return l
}

// NewModel creates a new TUI model driving p. notices may be nil.
//
// The model subscribes to p's store; call [Model.Close] when the program exits.
func NewModel(ctx context.Context, p *player.Player, notices *StatusNotifier) *Model {
	if notices == nil {
		notices = NewStatusNotifier()
	}

	search := textinput.New()
	search.Placeholder = "song, singer or album"
	search.CharLimit = 100

	m := &Model{
		ctx:       ctx,
		player:    p,
		notices:   notices,
		view:      CollectorView,
		collector: newList("Library"),
		tracks:    newList("Music List"),
		singer:    newList("Singer"),
		queue:     newList("Queue"),
		search:    search,
		help:      help.New(),
		keys:      newKeyMap(),
		changes:   make(chan struct{}, 1),
	}

	m.unsubscribe = p.Store().Subscribe(func(store.State, store.Action) {
		select {
		case m.changes <- struct{}{}:
		default:
		}
	})
	m.sync()
	return m
}

// Close detaches the model from the player's store.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Init loads the library and starts listening for state changes.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.waitForState(),
		m.tick(),
		m.run("", stay, m.player.RefreshCollector),
	)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, l := range []*list.Model{&m.collector, &m.tracks, &m.singer, &m.queue} {
			l.SetSize(msg.Width-4, msg.Height-8)
		}
		m.search.Width = msg.Width - 8
		return m, nil

	case tea.KeyMsg:
		if m.view == SearchView {
			return m.handleSearchKeys(msg)
		}
		return m.handleKeys(msg)

	case Msg:
		switch msg.kind {
		case MsgStateChanged:
			m.sync()
			return m, m.waitForState()
		case MsgTick:
			if m.player.State().PlayingStatus {
				m.position += time.Second
			}
			return m, m.tick()
		case MsgOpDone:
			res := msg.data.(opResult)
			m.finish(res)
			return m, nil
		}
	}

	return m.updateActiveList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case CollectorView:
		body = m.collector.View()
	case MusicListView:
		body = m.tracks.View()
	case SingerView:
		body = m.renderSinger()
	case QueueView:
		body = m.queue.View()
	case DetailView:
		body = m.renderDetail()
	case SearchView:
		body = fmt.Sprintf("%s\n\n%s", styles.title.Render("Search"), m.search.View())
	}

	return fmt.Sprintf("%s\n\n%s\n%s", body, m.renderStatusBar(), m.renderHelp())
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.player.State()

	switch {
	case key.Matches(msg, m.keys.quit):
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.tab):
		m.view = nextTab(m.view)
		return m, nil

	case key.Matches(msg, m.keys.back):
		return m, m.back(s)

	case key.Matches(msg, m.keys.enter):
		return m, m.selectItem()

	case key.Matches(msg, m.keys.toggle):
		m.player.TogglePlaying()
		return m, nil

	case key.Matches(msg, m.keys.next):
		return m, m.run("", stay, m.player.PlayNext)

	case key.Matches(msg, m.keys.prev):
		return m, m.run("", stay, m.player.PlayPrev)

	case key.Matches(msg, m.keys.mode):
		m.status = "Mode: " + m.player.CyclePlayMode().String()
		return m, nil

	case key.Matches(msg, m.keys.detail):
		m.player.ToggleShowMusicDetail()
		m.view = DetailView
		return m, nil

	case key.Matches(msg, m.keys.search):
		m.view = SearchView
		m.search.SetValue("")
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.clear):
		m.player.EmptyPlayList()
		m.status = "Queue cleared"
		return m, nil

	case key.Matches(msg, m.keys.like):
		if music, ok := m.targetMusic(s); ok {
			return m, m.run("", stay, func(ctx context.Context) error {
				_, err := m.player.ToggleLike(ctx, music)
				return err
			})
		}
		return m, nil

	case key.Matches(msg, m.keys.collect):
		if m.view == MusicListView && s.CurrentMusicList != nil && s.CurrentMusicList.ID != 0 {
			ml := *s.CurrentMusicList
			return m, m.run("", stay, func(ctx context.Context) error {
				collected, err := m.player.ToggleCollectPlaylist(ctx, ml)
				if err == nil && !collected {
					m.notices.Info("Playlist removed")
				}
				return err
			})
		}
		return m, nil

	case key.Matches(msg, m.keys.remove):
		if m.view != QueueView {
			break
		}
		if music, ok := selectedMusic(m.queue); ok {
			return m, m.run("Removed "+music.MusicName, stay, func(ctx context.Context) error {
				return m.player.DeleteMusic(ctx, music)
			})
		}
		return m, nil

	case key.Matches(msg, m.keys.singer):
		if music, ok := m.targetMusic(s); ok && music.Singer.ID != 0 {
			return m, m.run("", SingerView, func(ctx context.Context) error {
				return m.player.LoadSingerInfo(ctx, music.Singer.ID)
			})
		}
		return m, nil

	case key.Matches(msg, m.keys.album):
		if music, ok := m.targetMusic(s); ok && music.Album.ID != 0 {
			return m, m.run("", MusicListView, func(ctx context.Context) error {
				return m.player.LoadAlbumInfo(ctx, music.Album.ID)
			})
		}
		return m, nil
	}

	return m.updateActiveList(msg)
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.search.Blur()
		m.view = CollectorView
		return m, nil
	case tea.KeyEnter:
		q := strings.TrimSpace(m.search.Value())
		m.search.Blur()
		if q == "" {
			m.view = CollectorView
			return m, nil
		}
		return m, m.run("", MusicListView, func(ctx context.Context) error {
			return m.player.Search(ctx, q)
		})
	case tea.KeyCtrlC:
		m.Close()
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// back hides the current view's content and returns to the view below it.
func (m *Model) back(s store.State) tea.Cmd {
	switch m.view {
	case MusicListView:
		m.player.HideMusicList()
		m.view = CollectorView
	case SingerView:
		m.player.HideSingerInfo()
		if s.ShowMusicList {
			m.view = MusicListView
		} else {
			m.view = CollectorView
		}
	case DetailView:
		if s.ShowMusicDetail {
			m.player.ToggleShowMusicDetail()
		}
		m.view = QueueView
	case QueueView:
		m.view = CollectorView
	}
	return nil
}

func (m *Model) selectItem() tea.Cmd {
	switch m.view {
	case CollectorView:
		item, ok := m.collector.SelectedItem().(musicListItem)
		if !ok {
			return nil
		}
		l := item.list
		switch {
		case item.liked || l.ID == 0:
			m.player.ChangeCurrentMusicList(&l)
			m.view = MusicListView
			return nil
		case l.IsAlbum():
			return m.run("", MusicListView, func(ctx context.Context) error {
				return m.player.LoadAlbumInfo(ctx, l.ID)
			})
		default:
			return m.run("", MusicListView, func(ctx context.Context) error {
				return m.player.LoadMusicList(ctx, l.ID)
			})
		}
	case MusicListView, SingerView, QueueView:
		music, ok := selectedMusic(*m.activeList())
		if !ok {
			return nil
		}
		return m.run("", stay, func(ctx context.Context) error {
			err := m.player.ChangeCurrentMusic(ctx, music)
			m.player.SetPlayingStatus(true)
			return err
		})
	}
	return nil
}

// targetMusic is the highlighted song of a song view, or the current song elsewhere.
func (m *Model) targetMusic(s store.State) (models.Music, bool) {
	switch m.view {
	case MusicListView, SingerView, QueueView:
		if music, ok := selectedMusic(*m.activeList()); ok {
			return music, true
		}
	}
	if s.CurrentMusic != nil {
		return *s.CurrentMusic, true
	}
	return models.Music{}, false
}

func (m *Model) activeList() *list.Model {
	switch m.view {
	case MusicListView:
		return &m.tracks
	case SingerView:
		return &m.singer
	case QueueView:
		return &m.queue
	default:
		return &m.collector
	}
}

func (m *Model) updateActiveList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view == DetailView || m.view == SearchView {
		return m, nil
	}
	l := m.activeList()
	var cmd tea.Cmd
	*l, cmd = l.Update(msg)
	return m, cmd
}

func nextTab(v ViewState) ViewState {
	for i, t := range tabOrder {
		if t == v {
			return tabOrder[(i+1)%len(tabOrder)]
		}
	}
	return tabOrder[0]
}

// run executes fn off the update loop. On success the view switches to goTo unless it is stay.
func (m *Model) run(status string, goTo ViewState, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		err := fn(m.ctx)
		return opDoneMsg(status, err, goTo)
	}
}

func (m *Model) finish(res opResult) {
	m.err = res.err
	m.status = res.status
	if notice := m.notices.Take(); notice != "" {
		m.status = notice
	}
	if res.err == nil && res.goTo != stay {
		m.view = res.goTo
	}
	m.sync()
}

func (m *Model) waitForState() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return nil
		case <-m.changes:
			return stateChangedMsg()
		}
	}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg()
	})
}

// sync rebuilds the lists from the player state.
func (m *Model) sync() {
	s := m.player.State()
	liked := m.player.IsLiked

	if s.Collector != nil {
		items := make([]list.Item, 0, len(s.Collector.FoundList)+len(s.Collector.CollectList))
		for i, l := range s.Collector.FoundList {
			items = append(items, musicListItem{list: l, liked: i == 0})
		}
		for _, l := range s.Collector.CollectList {
			items = append(items, musicListItem{list: l})
		}
		m.collector.SetItems(items)
	}

	if s.CurrentMusicList != nil {
		m.tracks.Title = s.CurrentMusicList.Name
		if s.CurrentMusicList.IsAlbum() {
			m.tracks.Title = fmt.Sprintf("%s • %s", s.CurrentMusicList.Name, s.CurrentMusicList.Artist.Name)
		}
		m.tracks.SetItems(musicItems(s.CurrentMusicList.Tracks, s.CurrentMusic, liked))
	} else {
		m.tracks.SetItems(nil)
	}

	if s.SingerInfo != nil {
		m.singer.Title = s.SingerInfo.Artist.Name
		m.singer.SetItems(musicItems(s.SingerInfo.HotSongs, s.CurrentMusic, liked))
	}

	m.queue.Title = fmt.Sprintf("Queue (%d) • %s", len(s.PlayList), s.PlayMode)
	m.queue.SetItems(musicItems(s.PlayList, s.CurrentMusic, liked))

	if s.CurrentMusic != nil && s.CurrentMusic.ID != m.positionID {
		m.positionID = s.CurrentMusic.ID
		m.position = 0
	}
}

func (m *Model) renderSinger() string {
	s := m.player.State()
	if s.SingerInfo == nil {
		return styles.help.Render("No singer loaded")
	}
	a := s.SingerInfo.Artist
	header := fmt.Sprintf("%d albums • %d songs", a.AlbumSize, a.MusicSize)
	if a.BriefDesc != "" {
		header = fmt.Sprintf("%s\n%s", header, truncate(a.BriefDesc, max(m.width-4, 20)))
	}
	return fmt.Sprintf("%s\n%s", styles.dim.Render(header), m.singer.View())
}

func (m *Model) renderDetail() string {
	s := m.player.State()
	if s.CurrentMusic == nil {
		return styles.help.Render("Nothing playing")
	}

	cur := s.CurrentMusic
	var b strings.Builder
	b.WriteString(styles.title.Render(cur.MusicName))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s • %s\n", cur.Singer.Name, cur.Album.Name)
	if cur.MusicURL == "" {
		b.WriteString(styles.warn.Render("resolving stream..."))
	} else {
		b.WriteString(styles.dim.Render(cur.MusicURL))
	}
	b.WriteString("\n\n")

	lines := formatter.ParseLyrics(s.CurrentMusicLyric)
	if len(lines) == 0 {
		b.WriteString(styles.help.Render("No lyric"))
		return b.String()
	}

	active := formatter.LineAt(lines, m.position)
	window := max(m.height-14, 5)
	start := max(active-window/2, 0)
	end := min(start+window, len(lines))

	for i := start; i < end; i++ {
		text := lines[i].Text
		if i == active {
			text = styles.current.Render(text)
		}
		if lines[i].Translation != "" {
			text = fmt.Sprintf("%s  %s", text, styles.dim.Render(lines[i].Translation))
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderStatusBar() string {
	s := m.player.State()

	now := "■ stopped"
	if s.CurrentMusic != nil {
		icon := "⏸"
		if s.PlayingStatus {
			icon = "▶"
		}
		now = fmt.Sprintf("%s %s", icon, formatter.FormatMusic(*s.CurrentMusic))
	}
	if s.ShowLoading {
		now += "  " + styles.warn.Render("loading...")
	}

	line := fmt.Sprintf("%s  [%s]  %s", now, s.PlayMode, m.view)
	switch {
	case m.err != nil:
		line = fmt.Sprintf("%s\n%s", line, styles.err.Render("Error: "+m.err.Error()))
	case m.status != "":
		line = fmt.Sprintf("%s\n%s", line, styles.ok.Render(m.status))
	}
	return styles.bar.Render(line)
}

func (m *Model) renderHelp() string {
	var keys []key.Binding
	switch m.view {
	case CollectorView:
		keys = []key.Binding{m.keys.enter, m.keys.search, m.keys.tab, m.keys.toggle, m.keys.quit}
	case MusicListView:
		keys = []key.Binding{m.keys.enter, m.keys.like, m.keys.collect, m.keys.singer, m.keys.album, m.keys.back}
	case SingerView:
		keys = []key.Binding{m.keys.enter, m.keys.like, m.keys.album, m.keys.back}
	case QueueView:
		keys = []key.Binding{m.keys.enter, m.keys.remove, m.keys.clear, m.keys.mode, m.keys.next, m.keys.prev}
	case DetailView:
		keys = []key.Binding{m.keys.toggle, m.keys.next, m.keys.prev, m.keys.like, m.keys.back}
	case SearchView:
		keys = []key.Binding{m.keys.enter, m.keys.back}
	}
	return m.help.ShortHelpView(keys)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

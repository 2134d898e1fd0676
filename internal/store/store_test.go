package store

import (
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/nmx/internal/models"
	"github.com/google/go-cmp/cmp"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestReduce(t *testing.T) {
	song := &models.Music{ID: 1, MusicName: "One"}
	list := &models.MusicList{ID: 10, Name: "List", Tracks: []models.Music{{ID: 1}}}
	info := &models.SingerInfo{Artist: models.Artist{ID: 5, Name: "Singer"}}

	tc := []struct {
		name   string
		start  State
		action Action
		check  func(t *testing.T, s State)
	}{
		{
			name:   "ChangeCurrentMusicList shows list",
			start:  InitialState(),
			action: ChangeCurrentMusicList{List: list},
			check: func(t *testing.T, s State) {
				if s.CurrentMusicList == nil || s.CurrentMusicList.ID != 10 || !s.ShowMusicList {
					t.Errorf("expected list 10 to be shown, got %+v", s.CurrentMusicList)
				}
			},
		},
		{
			name:   "ChangeCurrentMusicList nil clears",
			start:  State{CurrentMusicList: list, ShowMusicList: true},
			action: ChangeCurrentMusicList{},
			check: func(t *testing.T, s State) {
				if s.CurrentMusicList != nil {
					t.Error("expected list to be cleared")
				}
			},
		},
		{
			name:   "HideMusicList",
			start:  State{ShowMusicList: true},
			action: HideMusicList{},
			check: func(t *testing.T, s State) {
				if s.ShowMusicList {
					t.Error("expected music list hidden")
				}
			},
		},
		{
			name:   "ChangeSingerInfo shows singer",
			start:  InitialState(),
			action: ChangeSingerInfo{Info: info},
			check: func(t *testing.T, s State) {
				if s.SingerInfo == nil || !s.ShowSingerInfo {
					t.Error("expected singer info to be shown")
				}
			},
		},
		{
			name:   "HideSingerInfo",
			start:  State{ShowSingerInfo: true, SingerInfo: info},
			action: HideSingerInfo{},
			check: func(t *testing.T, s State) {
				if s.ShowSingerInfo {
					t.Error("expected singer info hidden")
				}
			},
		},
		{
			name:   "ToggleShowMusicDetail",
			start:  State{ShowMusicDetail: false},
			action: ToggleShowMusicDetail{},
			check: func(t *testing.T, s State) {
				if !s.ShowMusicDetail {
					t.Error("expected music detail shown")
				}
			},
		},
		{
			name:   "ChangeCurrentMusic",
			start:  InitialState(),
			action: ChangeCurrentMusic{Music: song},
			check: func(t *testing.T, s State) {
				if s.CurrentMusic == nil || s.CurrentMusic.ID != 1 {
					t.Errorf("expected current music 1, got %+v", s.CurrentMusic)
				}
			},
		},
		{
			name:   "ChangeShowLoading",
			start:  InitialState(),
			action: ChangeShowLoading{Value: true},
			check: func(t *testing.T, s State) {
				if !s.ShowLoading {
					t.Error("expected loading")
				}
			},
		},
		{
			name:   "ChangePlayingStatus and mode",
			start:  InitialState(),
			action: ChangePlayMode{Mode: models.RandomPlay},
			check: func(t *testing.T, s State) {
				if s.PlayMode != models.RandomPlay {
					t.Errorf("expected random mode, got %v", s.PlayMode)
				}
			},
		},
		{
			name:   "ChangeCurrentMusicLyric nil clears",
			start:  State{CurrentMusicLyric: &models.Lyric{Lrc: "x"}},
			action: ChangeCurrentMusicLyric{},
			check: func(t *testing.T, s State) {
				if s.CurrentMusicLyric != nil {
					t.Error("expected lyric cleared")
				}
			},
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Reduce(tt.start, tt.action))
		})
	}
}

func TestReduceCopies(t *testing.T) {
	t.Run("play list", func(t *testing.T) {
		queue := []models.Music{{ID: 1}, {ID: 2}}
		s := Reduce(InitialState(), ChangePlayList{List: queue})

		queue[0].ID = 100
		if s.PlayList[0].ID != 1 {
			t.Error("reducer stored the caller's slice")
		}
	})

	t.Run("collector", func(t *testing.T) {
		c := models.NewCollector()
		s := Reduce(InitialState(), ChangeCollector{Collector: c})

		c.Liked().Tracks = append(c.Liked().Tracks, models.Music{ID: 1})
		if len(s.Collector.Liked().Tracks) != 0 {
			t.Error("reducer stored the caller's collector")
		}
	})

	t.Run("refresh replaces collector pointer", func(t *testing.T) {
		s := InitialState()
		before := s.Collector
		s = Reduce(s, RefreshCollector{})
		if s.Collector == before {
			t.Error("expected a new collector value")
		}
		if diff := cmp.Diff(before, s.Collector); diff != "" {
			t.Errorf("refresh changed collector contents (-want +got):\n%s", diff)
		}
	})
}

func TestStore(t *testing.T) {
	t.Run("Dispatch applies actions in order", func(t *testing.T) {
		s := New(InitialState(), quietLogger())
		s.Dispatch(
			ChangePlayList{List: []models.Music{{ID: 1}, {ID: 2}}},
			ChangeCurrentIndex{Index: 1},
			ChangePlayingStatus{Status: true},
		)

		st := s.State()
		if len(st.PlayList) != 2 || st.CurrentIndex != 1 || !st.PlayingStatus {
			t.Errorf("unexpected state %+v", st)
		}

		cur, ok := st.Current()
		if !ok || cur.ID != 2 {
			t.Errorf("expected current entry 2, got %+v (%v)", cur, ok)
		}
	})

	t.Run("State returns copies", func(t *testing.T) {
		s := New(InitialState(), quietLogger())
		s.Dispatch(ChangePlayList{List: []models.Music{{ID: 1}}})

		st := s.State()
		st.PlayList[0].ID = 99

		if s.State().PlayList[0].ID != 1 {
			t.Error("mutating a snapshot changed the store")
		}
	})

	t.Run("Subscribe and unsubscribe", func(t *testing.T) {
		s := New(InitialState(), quietLogger())

		var seen []ActionType
		unsubscribe := s.Subscribe(func(st State, a Action) {
			seen = append(seen, a.Type())
		})

		s.Dispatch(ChangeShowLoading{Value: true}, HideMusicList{})
		unsubscribe()
		s.Dispatch(ToggleShowMusicDetail{})

		want := []ActionType{TypeChangeShowLoading, TypeHideMusicList}
		if diff := cmp.Diff(want, seen); diff != "" {
			t.Errorf("listener calls mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("listener sees post-action state", func(t *testing.T) {
		s := New(InitialState(), quietLogger())
		var loading bool
		s.Subscribe(func(st State, a Action) { loading = st.ShowLoading })

		s.Dispatch(ChangeShowLoading{Value: true})
		if !loading {
			t.Error("expected listener to observe loading=true")
		}
	})

	t.Run("concurrent dispatch", func(t *testing.T) {
		s := New(InitialState(), quietLogger())

		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.Dispatch(ChangeCurrentIndex{Index: i})
				_ = s.State()
			}()
		}
		wg.Wait()

		if idx := s.State().CurrentIndex; idx < 0 || idx >= 50 {
			t.Errorf("unexpected index %d", idx)
		}
	})

	t.Run("Update applies returned actions", func(t *testing.T) {
		s := New(InitialState(), quietLogger())
		var seen []ActionType
		s.Subscribe(func(st State, a Action) { seen = append(seen, a.Type()) })

		applied := s.Update(func(st State) []Action {
			return []Action{ChangePlayList{List: []models.Music{{ID: 1}}}, ChangeCurrentIndex{Index: 0}}
		})
		if !applied {
			t.Fatal("expected actions to be applied")
		}
		if st := s.State(); len(st.PlayList) != 1 || st.CurrentIndex != 0 {
			t.Errorf("unexpected state %+v", st)
		}

		if s.Update(func(State) []Action { return nil }) {
			t.Error("expected false when no actions are returned")
		}

		want := []ActionType{TypeChangePlayList, TypeChangeCurrentIndex}
		if diff := cmp.Diff(want, seen); diff != "" {
			t.Errorf("listener calls mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("concurrent Update sees every increment", func(t *testing.T) {
		s := New(InitialState(), quietLogger())
		s.Dispatch(ChangeCurrentIndex{Index: 0})

		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.Update(func(st State) []Action {
					return []Action{ChangeCurrentIndex{Index: st.CurrentIndex + 1}}
				})
			}()
		}
		wg.Wait()

		if idx := s.State().CurrentIndex; idx != 50 {
			t.Errorf("expected index 50, got %d", idx)
		}
	})

	t.Run("Current out of range", func(t *testing.T) {
		if _, ok := (State{CurrentIndex: 3}).Current(); ok {
			t.Error("expected no current entry for an empty queue")
		}
	})
}

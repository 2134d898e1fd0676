package player

import (
	"context"

	"github.com/desertthunder/nmx/internal/models"
	"github.com/desertthunder/nmx/internal/store"
)

// randomIndex returns a random queue position other than current. n must be at least 2.
func (p *Player) randomIndex(current, n int) int {
	for {
		if i := p.intn(n); i != current {
			return i
		}
	}
}

func (p *Player) prevIndex(s store.State) int {
	n := len(s.PlayList)
	switch {
	case s.PlayMode == models.RandomPlay:
		return p.randomIndex(s.CurrentIndex, n)
	case s.CurrentIndex > 0 && s.CurrentIndex < n:
		return s.CurrentIndex - 1
	default:
		return n - 1
	}
}

func (p *Player) nextIndex(s store.State) int {
	n := len(s.PlayList)
	switch {
	case s.PlayMode == models.RandomPlay:
		return p.randomIndex(s.CurrentIndex, n)
	case s.CurrentIndex >= 0 && s.CurrentIndex < n-1:
		return s.CurrentIndex + 1
	default:
		return 0
	}
}

// PlayPrev plays the previous song, wrapping to the end of the queue.
//
// Queues with fewer than two songs are left alone.
func (p *Player) PlayPrev(ctx context.Context) error {
	s := p.store.State()
	if len(s.PlayList) < 2 {
		return nil
	}
	return p.playAt(ctx, s, p.prevIndex(s))
}

// PlayNext plays the next song, wrapping to the start of the queue.
//
// Queues with fewer than two songs are left alone.
func (p *Player) PlayNext(ctx context.Context) error {
	s := p.store.State()
	if len(s.PlayList) < 2 {
		return nil
	}
	return p.playAt(ctx, s, p.nextIndex(s))
}

func (p *Player) playAt(ctx context.Context, s store.State, index int) error {
	return p.ChangeCurrentMusic(ctx, s.PlayList[index])
}

// TrackEnded advances the queue after the current song finished.
//
// Loop mode keeps the same song; a single-song queue in the other modes stops.
func (p *Player) TrackEnded(ctx context.Context) error {
	s := p.store.State()
	switch {
	case s.PlayMode == models.LoopPlay:
		return nil
	case len(s.PlayList) < 2:
		p.SetPlayingStatus(false)
		return nil
	default:
		return p.PlayNext(ctx)
	}
}

// DeleteMusic removes music from the queue.
//
// Removing a song before the current one shifts the cursor back so the same song stays current.
// Removing the current song starts the one that would have played next. Emptying the queue clears the stream URL and stops playback.
// Songs not in the queue are ignored.
func (p *Player) DeleteMusic(ctx context.Context, music models.Music) error {
	s := p.store.State()

	index := models.FindIndex(s.PlayList, music)
	if index < 0 {
		return nil
	}

	list := models.Remove(s.PlayList, index)

	switch {
	case len(list) == 0:
		p.dispatch(store.ChangePlayList{List: list})
		if s.CurrentMusic != nil {
			cur := *s.CurrentMusic
			cur.MusicURL = ""
			p.dispatch(store.ChangeCurrentMusic{Music: &cur})
		}
		p.dispatch(store.ChangePlayingStatus{Status: false})
		return nil
	case index < s.CurrentIndex:
		p.dispatch(store.ChangePlayList{List: list}, store.ChangeCurrentIndex{Index: s.CurrentIndex - 1})
		return nil
	case index == s.CurrentIndex:
		next := s.PlayList[p.nextIndex(s)]
		p.dispatch(store.ChangePlayList{List: list}, store.ChangeCurrentIndex{Index: -1})
		return p.ChangeCurrentMusic(ctx, next)
	default:
		p.dispatch(store.ChangePlayList{List: list})
		return nil
	}
}

// AddToPlayList appends songs that are not queued yet without changing the current song.
func (p *Player) AddToPlayList(songs ...models.Music) int {
	s := p.store.State()
	list := s.PlayList
	added := 0
	for _, m := range songs {
		if models.FindIndex(list, m) < 0 {
			list = append(list, m)
			added++
		}
	}
	if added > 0 {
		p.dispatch(store.ChangePlayList{List: list})
	}
	return added
}

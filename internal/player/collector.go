package player

import (
	"context"
	"fmt"

	"github.com/desertthunder/nmx/internal/models"
)

// ToggleLike adds music to the liked songs (newest first) or removes it when already liked.
//
// The document is saved before the new collector is dispatched. Returns whether the song is liked afterwards.
func (p *Player) ToggleLike(ctx context.Context, music models.Music) (bool, error) {
	if err := p.requireCollector(); err != nil {
		return false, err
	}

	c, err := p.collector.Get(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load collector: %w", err)
	}

	liked := c.Liked()
	index := models.FindIndex(liked.Tracks, music)
	if index < 0 {
		// stream URLs are never persisted
		music.MusicURL = ""
		liked.Tracks = append([]models.Music{music}, liked.Tracks...)
	} else {
		liked.Tracks = models.Remove(liked.Tracks, index)
	}

	if err := p.collector.Save(ctx, c); err != nil {
		return false, fmt.Errorf("failed to save collector: %w", err)
	}

	p.ChangeCollector(c)
	if index < 0 {
		p.notifier.Info("Added to liked songs")
	}
	return index < 0, nil
}

// ToggleCollectPlaylist collects list or, when already collected, removes it.
//
// Returns whether the list is collected afterwards.
func (p *Player) ToggleCollectPlaylist(ctx context.Context, list models.MusicList) (bool, error) {
	if err := p.requireCollector(); err != nil {
		return false, err
	}

	c, err := p.collector.Get(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load collector: %w", err)
	}

	index := models.FindIndex(c.CollectList, list)
	if index < 0 {
		c.CollectList = append(c.CollectList, list.Clone())
	} else {
		c.CollectList = models.Remove(c.CollectList, index)
	}

	if err := p.collector.Save(ctx, c); err != nil {
		return false, fmt.Errorf("failed to save collector: %w", err)
	}

	p.ChangeCollector(c)
	if index < 0 {
		p.notifier.Info("Playlist collected")
	}
	return index < 0, nil
}

// IsLiked reports whether music is in the liked songs of the current state.
func (p *Player) IsLiked(music models.Music) bool {
	c := p.store.State().Collector
	if c == nil {
		return false
	}
	return models.FindIndex(c.Liked().Tracks, music) >= 0
}

// IsCollected reports whether list is among the collected playlists of the current state.
func (p *Player) IsCollected(list models.MusicList) bool {
	c := p.store.State().Collector
	if c == nil {
		return false
	}
	return models.FindIndex(c.CollectList, list) >= 0
}

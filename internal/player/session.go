package player

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/nmx/internal/models"
	"github.com/desertthunder/nmx/internal/shared"
	"github.com/desertthunder/nmx/internal/store"
)

// SaveSession persists the queue, cursor and play mode. Stream URLs are dropped.
func (p *Player) SaveSession(ctx context.Context) error {
	if p.sessions == nil {
		return nil
	}

	s := p.store.State()
	queue := make([]models.Music, len(s.PlayList))
	for i, m := range s.PlayList {
		m.MusicURL = ""
		queue[i] = m
	}

	err := p.sessions.Save(ctx, &models.Session{
		PlayList:     queue,
		CurrentIndex: s.CurrentIndex,
		PlayMode:     s.PlayMode,
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// RestoreSession loads the saved queue. No song becomes current until the user picks one.
func (p *Player) RestoreSession(ctx context.Context) error {
	if p.sessions == nil {
		return nil
	}

	sess, err := p.sessions.Get(ctx)
	if errors.Is(err, shared.ErrDocumentNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	index := sess.CurrentIndex
	if index < 0 || index >= len(sess.PlayList) {
		index = 0
	}

	p.dispatch(
		store.ChangePlayList{List: sess.PlayList},
		store.ChangeCurrentIndex{Index: index},
		store.ChangePlayMode{Mode: sess.PlayMode},
	)
	return nil
}

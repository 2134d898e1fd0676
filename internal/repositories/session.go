package repositories

import (
	"context"

	"github.com/desertthunder/nmx/internal/models"
)

const sessionDocument = "session"

// SessionRepository persists the play queue between runs.
type SessionRepository struct {
	docs *DocumentRepository
}

func NewSessionRepository(docs *DocumentRepository) *SessionRepository {
	return &SessionRepository{docs: docs}
}

// Get loads the saved session. Returns [shared.ErrDocumentNotFound] when nothing was saved.
func (r *SessionRepository) Get(ctx context.Context) (*models.Session, error) {
	var s models.Session
	if err := r.docs.Find(ctx, sessionDocument, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepository) Save(ctx context.Context, s *models.Session) error {
	return r.docs.Upsert(ctx, sessionDocument, s)
}

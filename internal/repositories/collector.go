package repositories

import (
	"context"
	"errors"

	"github.com/desertthunder/nmx/internal/models"
	"github.com/desertthunder/nmx/internal/shared"
)

const collectorDocument = "collector"

// CollectorRepository persists the [models.Collector] document.
type CollectorRepository struct {
	docs *DocumentRepository
}

// NewCollectorRepository creates a CollectorRepository on top of docs.
func NewCollectorRepository(docs *DocumentRepository) *CollectorRepository {
	return &CollectorRepository{docs: docs}
}

// Get loads the collector, returning a fresh [models.NewCollector] when none was saved yet.
//
// A stored document without a liked list is repaired in memory.
func (r *CollectorRepository) Get(ctx context.Context) (*models.Collector, error) {
	var c models.Collector
	err := r.docs.Find(ctx, collectorDocument, &c)
	if errors.Is(err, shared.ErrDocumentNotFound) {
		return models.NewCollector(), nil
	}
	if err != nil {
		return nil, err
	}

	c.Liked()
	if c.CollectList == nil {
		c.CollectList = []models.MusicList{}
	}
	return &c, nil
}

// Save stores c.
func (r *CollectorRepository) Save(ctx context.Context, c *models.Collector) error {
	return r.docs.Upsert(ctx, collectorDocument, c)
}

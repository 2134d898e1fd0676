package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/nmx/internal/models"
	"github.com/desertthunder/nmx/internal/shared"
)

// HistoryEntry is one song that became current.
type HistoryEntry struct {
	MusicID    int64     `json:"musicId"`
	MusicName  string    `json:"musicName"`
	SingerName string    `json:"singerName"`
	PlayedAt   time.Time `json:"playedAt"`
}

// HistoryRepository records play history.
type HistoryRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Record appends m to the history.
func (r *HistoryRepository) Record(ctx context.Context, m models.Music) error {
	query := `INSERT INTO play_history (music_id, music_name, singer_name, played_at) VALUES (?, ?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, m.ID, m.MusicName, m.Singer.Name, time.Now().UTC()); err != nil {
		return fmt.Errorf("%w: failed to record history: %v", shared.ErrStorage, err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (r *HistoryRepository) Recent(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT music_id, music_name, singer_name, played_at
		FROM play_history
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query history: %v", shared.ErrStorage, err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.MusicID, &e.MusicName, &e.SingerName, &e.PlayedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return entries, nil
}

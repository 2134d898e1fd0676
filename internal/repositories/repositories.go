// package repositories provides persistence layer implementations for the local document store.
package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/nmx/internal/shared"
)

// Document describes a stored document without its body.
type Document struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DocumentRepository stores JSON documents by unique name.
type DocumentRepository struct {
	db *sql.DB
}

// NewDocumentRepository creates a new DocumentRepository with the given database connection
func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Find decodes the document called name into v.
//
// Returns [shared.ErrDocumentNotFound] when no such document exists.
func (r *DocumentRepository) Find(ctx context.Context, name string, v any) error {
	var body string
	err := r.db.QueryRowContext(ctx, "SELECT body FROM documents WHERE name = ?", name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", shared.ErrDocumentNotFound, name)
	}
	if err != nil {
		return fmt.Errorf("%w: failed to read document %s: %v", shared.ErrStorage, name, err)
	}

	if err := json.Unmarshal([]byte(body), v); err != nil {
		return fmt.Errorf("%w: failed to decode document %s: %v", shared.ErrStorage, name, err)
	}
	return nil
}

// Upsert encodes v as JSON and stores it under name, creating the document when needed.
func (r *DocumentRepository) Upsert(ctx context.Context, name string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", name, err)
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO documents (id, name, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, shared.GenerateID(), name, string(body), now, now); err != nil {
		return fmt.Errorf("%w: failed to write document %s: %v", shared.ErrStorage, name, err)
	}
	return nil
}

// Delete removes the document called name.
func (r *DocumentRepository) Delete(ctx context.Context, name string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("%w: failed to delete document %s: %v", shared.ErrStorage, name, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrDocumentNotFound, name)
	}
	return nil
}

// List returns every stored document ordered by name.
func (r *DocumentRepository) List(ctx context.Context) ([]Document, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, created_at, updated_at FROM documents ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query documents: %v", shared.ErrStorage, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return docs, nil
}

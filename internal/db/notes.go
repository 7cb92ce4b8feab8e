// ABOUTME: Database operations for notes, the records that carry tags.
// ABOUTME: Provides CRUD and prefix-based lookup for notes.

package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harper/memotag/internal/models"
)

var ErrPrefixTooShort = errors.New("prefix must be at least 6 characters")
var ErrAmbiguousPrefix = errors.New("prefix matches multiple notes")
var ErrNoteNotFound = errors.New("note not found")

const noteColumns = `id, title, content, created_at, updated_at`

func CreateNote(ctx context.Context, q Querier, note *models.Note) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO notes (id, title, content, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		note.ID.String(), note.Title, note.Content, note.CreatedAt, note.UpdatedAt,
	)
	return err
}

func GetNoteByID(ctx context.Context, q Querier, id uuid.UUID) (*models.Note, error) {
	notes, err := queryNotes(ctx, q,
		`SELECT `+noteColumns+` FROM notes WHERE id = ?`,
		id.String(),
	)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, ErrNoteNotFound
	}
	return notes[0], nil
}

func GetNoteByPrefix(ctx context.Context, q Querier, prefix string) (*models.Note, error) {
	if len(prefix) < 6 {
		return nil, ErrPrefixTooShort
	}

	notes, err := queryNotes(ctx, q,
		`SELECT `+noteColumns+` FROM notes WHERE id LIKE ?`,
		prefix+"%",
	)
	if err != nil {
		return nil, err
	}

	if len(notes) == 0 {
		return nil, ErrNoteNotFound
	}
	if len(notes) > 1 {
		return nil, fmt.Errorf("%w: %d matches", ErrAmbiguousPrefix, len(notes))
	}
	return notes[0], nil
}

// ResolveNote accepts a full UUID or an id prefix.
func ResolveNote(ctx context.Context, q Querier, ref string) (*models.Note, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return GetNoteByID(ctx, q, id)
	}
	return GetNoteByPrefix(ctx, q, ref)
}

// ListNotes returns the most recently updated notes first.
func ListNotes(ctx context.Context, q Querier, limit int) ([]*models.Note, error) {
	return queryNotes(ctx, q,
		`SELECT `+noteColumns+` FROM notes ORDER BY updated_at DESC LIMIT ?`,
		limit,
	)
}

func UpdateNote(ctx context.Context, q Querier, note *models.Note) error {
	result, err := q.ExecContext(ctx,
		`UPDATE notes SET title = ?, content = ?, updated_at = ? WHERE id = ?`,
		note.Title, note.Content, note.UpdatedAt, note.ID.String(),
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func DeleteNote(ctx context.Context, q Querier, id uuid.UUID) error {
	result, err := q.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func queryNotes(ctx context.Context, q Querier, query string, args ...any) ([]*models.Note, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var notes []*models.Note
	for rows.Next() {
		note := &models.Note{}
		var idStr string
		if err := rows.Scan(&idStr, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, err
		}
		var parseErr error
		note.ID, parseErr = uuid.Parse(idStr)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid note ID in database: %w", parseErr)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notes, nil
}

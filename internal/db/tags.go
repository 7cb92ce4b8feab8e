// ABOUTME: SQLite implementation of the tagger.TagStore contract.
// ABOUTME: Table and column names come from tagger.Config; values are always bound.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/harper/memotag/internal/models"
	"github.com/harper/memotag/internal/tagger"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var _ tagger.TagStore = (*SQLStore)(nil)

// NoteTagConfig is the tagging setup for notes: tags in "tags", links in
// "note_tags" keyed by "note_id".
func NoteTagConfig() tagger.Config {
	cfg := tagger.DefaultConfig()
	cfg.TagTable = "tags"
	cfg.LinkTable = "note_tags"
	cfg.RecordFKColumn = "note_id"
	return cfg
}

// SQLStore reads and writes tags and links through a Querier, which may be
// a *sql.DB or a *sql.Tx.
type SQLStore struct {
	q   Querier
	cfg tagger.Config

	findTag     string
	insertTag   string
	currentTags string
	insertLink  string
	deleteLink  string
	countedTags string
	taggedWith  string
}

// NewSQLStore validates cfg and prepares the statements for its table names.
func NewSQLStore(q Querier, cfg tagger.Config) (*SQLStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tag, link := quote(cfg.TagTable), quote(cfg.LinkTable)
	tagID, tagName := quote(cfg.TagIDColumn), quote(cfg.TagNameColumn)
	tagFK, recFK := quote(cfg.TagFKColumn), quote(cfg.RecordFKColumn)

	return &SQLStore{
		q:   q,
		cfg: cfg,

		findTag:   fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ?`, tagID, tag, tagName),
		insertTag: fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?)`, tag, tagName),
		currentTags: fmt.Sprintf(
			`SELECT t.%s FROM %s t
			 JOIN %s l ON t.%s = l.%s
			 WHERE l.%s = ?
			 ORDER BY l.rowid`,
			tagName, tag, link, tagID, tagFK, recFK),
		insertLink: fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES (?, ?)`, link, recFK, tagFK),
		deleteLink: fmt.Sprintf(`DELETE FROM %s WHERE %s = ? AND %s = ?`, link, recFK, tagFK),
		countedTags: fmt.Sprintf(
			`SELECT l.%s AS id, t.%s AS name, COUNT(l.%s) AS count
			 FROM %s l
			 JOIN %s t ON l.%s = t.%s
			 GROUP BY l.%s, t.%s
			 ORDER BY count DESC, name ASC`,
			tagFK, tagName, tagFK, link, tag, tagFK, tagID, tagFK, tagName),
		taggedWith: fmt.Sprintf(
			`SELECT l.%s FROM %s l
			 JOIN %s t ON l.%s = t.%s
			 WHERE t.%s = ?`,
			recFK, link, tag, tagFK, tagID, tagName),
	}, nil
}

// WithTx returns a store with the same configuration bound to tx.
func (s *SQLStore) WithTx(tx *sql.Tx) *SQLStore {
	bound := *s
	bound.q = tx
	return &bound
}

// EnsureSchema creates the tag and link tables named by the store's config.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	c := s.cfg
	ddl := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %[1]s (
    %[2]s INTEGER PRIMARY KEY AUTOINCREMENT,
    %[3]s TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS %[4]s (
    %[5]s TEXT NOT NULL,
    %[6]s INTEGER NOT NULL REFERENCES %[1]s(%[2]s) ON DELETE CASCADE,
    PRIMARY KEY (%[5]s, %[6]s)
);
`, quote(c.TagTable), quote(c.TagIDColumn), quote(c.TagNameColumn),
		quote(c.LinkTable), quote(c.RecordFKColumn), quote(c.TagFKColumn))

	if _, err := s.q.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create tag tables: %w", err)
	}
	return nil
}

func (s *SQLStore) FindTagID(ctx context.Context, name string) (int64, bool, error) {
	var id int64
	err := s.q.QueryRowContext(ctx, s.findTag, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func (s *SQLStore) CreateTag(ctx context.Context, name string) (int64, error) {
	tag := models.NewTag(name)
	result, err := s.q.ExecContext(ctx, s.insertTag, tag.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("create tag %q: %w", tag.Name, tagger.ErrDuplicateTag)
		}
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		// The reconciler looks the id up itself.
		return 0, nil
	}
	return id, nil
}

func (s *SQLStore) CurrentTagNames(ctx context.Context, recordID string) ([]string, error) {
	return s.queryStrings(ctx, s.currentTags, recordID)
}

func (s *SQLStore) Link(ctx context.Context, recordID string, tagID int64) error {
	_, err := s.q.ExecContext(ctx, s.insertLink, recordID, tagID)
	return err
}

func (s *SQLStore) Unlink(ctx context.Context, recordID string, tagID int64) error {
	_, err := s.q.ExecContext(ctx, s.deleteLink, recordID, tagID)
	return err
}

func (s *SQLStore) CountedTags(ctx context.Context) ([]models.TagCount, error) {
	rows, err := s.q.QueryContext(ctx, s.countedTags)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var report []models.TagCount
	for rows.Next() {
		var tc models.TagCount
		if err := rows.Scan(&tc.ID, &tc.Name, &tc.Count); err != nil {
			return nil, err
		}
		report = append(report, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return report, nil
}

// RecordIDsWithTag lists the records linked to the tag called name.
func (s *SQLStore) RecordIDsWithTag(ctx context.Context, name string) ([]string, error) {
	return s.queryStrings(ctx, s.taggedWith, name)
}

func (s *SQLStore) queryStrings(ctx context.Context, query string, arg any) ([]string, error) {
	rows, err := s.q.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// quote wraps an identifier already checked by tagger.Config.Validate.
func quote(ident string) string {
	return `"` + ident + `"`
}

func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	switch serr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		return strings.Contains(serr.Error(), "UNIQUE")
	}
	return false
}

// SaveTags runs write, when given, and then reconciles recordID's tags inside
// one transaction. Both commit together or not at all.
func SaveTags(ctx context.Context, conn *sql.DB, cfg tagger.Config, recordID string, isNew bool, in tagger.Input, write func(Querier) error, opts ...tagger.Option) (*tagger.Outcome, error) {
	store, err := NewSQLStore(conn, cfg)
	if err != nil {
		return nil, err
	}

	var out *tagger.Outcome
	err = WithinTx(ctx, conn, func(tx *sql.Tx) error {
		if write != nil {
			if err := write(tx); err != nil {
				return err
			}
		}
		r, err := tagger.NewReconciler(store.WithTx(tx), cfg, opts...)
		if err != nil {
			return err
		}
		out, err = r.Reconcile(ctx, recordID, isNew, in)
		return err
	})
	return out, err
}

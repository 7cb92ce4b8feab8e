// ABOUTME: Tests for database initialization, migrations and transactions.
// ABOUTME: Verifies schema creation, XDG path handling and rollback.

package db

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/harper/memotag/internal/models"
	"github.com/harper/memotag/internal/tagger"
)

// openTestDB opens a fresh database with the note tag tables in place.
func openTestDB(t *testing.T) (*sql.DB, *SQLStore) {
	t.Helper()
	conn, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	store, err := NewSQLStore(conn, NoteTagConfig())
	if err != nil {
		t.Fatalf("failed to create tag store: %v", err)
	}
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("failed to create tag schema: %v", err)
	}
	return conn, store
}

func TestOpenCreatesDatabase(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("expected database file to be created")
	}
}

func TestOpenRunsMigrations(t *testing.T) {
	db, _ := openTestDB(t)

	// Verify tables exist
	tables := []string{"notes", "tags", "note_tags"}
	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("expected table %s to exist: %v", table, err)
		}
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")

	path := DefaultPath()
	expected := filepath.Join("/tmp/xdg-data", "memotag", "memotag.db")

	if path != expected {
		t.Errorf("expected path %q, got %q", expected, path)
	}
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	conn, _ := openTestDB(t)
	ctx := context.Background()
	note := models.NewNote("Doomed", "Content")
	boom := errors.New("boom")

	err := WithinTx(ctx, conn, func(tx *sql.Tx) error {
		if err := CreateNote(ctx, tx, note); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	if _, err := GetNoteByID(ctx, conn, note.ID); !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("expected note to be rolled back, got %v", err)
	}
}

func TestNoteTagConfigIsValid(t *testing.T) {
	if err := NoteTagConfig().Validate(); err != nil {
		t.Fatalf("expected note config to validate: %v", err)
	}
	cfg := NoteTagConfig()
	cfg.RecordFKColumn = ""
	if _, err := NewSQLStore(nil, cfg); !errors.Is(err, tagger.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestPragmasOnEveryConnection(t *testing.T) {
	conn, _ := openTestDB(t)
	ctx := context.Background()

	// Hold both connections so the pool has to hand out two distinct ones.
	first, err := conn.Conn(ctx)
	if err != nil {
		t.Fatalf("failed to get connection: %v", err)
	}
	defer func() { _ = first.Close() }()
	second, err := conn.Conn(ctx)
	if err != nil {
		t.Fatalf("failed to get connection: %v", err)
	}
	defer func() { _ = second.Close() }()

	for i, c := range []*sql.Conn{first, second} {
		var fk, timeout int
		if err := c.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk); err != nil {
			t.Fatalf("connection %d: read foreign_keys: %v", i, err)
		}
		if err := c.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&timeout); err != nil {
			t.Fatalf("connection %d: read busy_timeout: %v", i, err)
		}
		if fk != 1 {
			t.Errorf("connection %d: expected foreign keys on, got %d", i, fk)
		}
		if timeout != 5000 {
			t.Errorf("connection %d: expected busy timeout 5000, got %d", i, timeout)
		}
	}
}

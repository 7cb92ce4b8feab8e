// ABOUTME: Notebook ties note persistence to tag reconciliation for one backend.
// ABOUTME: Shared by the CLI and the MCP server so both save notes the same way.

package notebook

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/harper/memotag/internal/config"
	"github.com/harper/memotag/internal/db"
	"github.com/harper/memotag/internal/kvstore"
	"github.com/harper/memotag/internal/models"
	"github.com/harper/memotag/internal/tagger"
	"go.uber.org/zap"
)

// taggedLister is implemented by both tag backends.
type taggedLister interface {
	tagger.TagStore
	RecordIDsWithTag(ctx context.Context, name string) ([]string, error)
}

// Notebook holds an open note database and the tag backend chosen by config.
type Notebook struct {
	conn    *sql.DB
	cfg     tagger.Config
	sqlTags *db.SQLStore
	kv      *kvstore.Store
	opts    []tagger.Option
	logger  *zap.Logger
}

// Open opens the note database at dbPath and the configured tag backend.
func Open(ctx context.Context, cfg *config.Config, dbPath string, logger *zap.Logger) (*Notebook, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	validate, err := cfg.Validator()
	if err != nil {
		return nil, err
	}

	conn, err := db.Open(dbPath)
	if err != nil {
		return nil, err
	}

	nb := &Notebook{
		conn:   conn,
		cfg:    cfg.Tagger,
		logger: logger,
		opts:   []tagger.Option{tagger.WithLogger(logger.Named("tagger"))},
	}
	if validate != nil {
		nb.opts = append(nb.opts, tagger.WithNameValidator(validate))
	}

	switch cfg.Backend {
	case config.BackendBadger:
		nb.kv, err = kvstore.Open(cfg.BadgerDir())
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
	default:
		nb.sqlTags, err = db.NewSQLStore(conn, cfg.Tagger)
		if err == nil {
			err = nb.sqlTags.EnsureSchema(ctx)
		}
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
	}

	logger.Debug("notebook opened",
		zap.String("db", dbPath),
		zap.String("backend", cfg.Backend))
	return nb, nil
}

// Close closes the tag backend and the database.
func (nb *Notebook) Close() error {
	var kvErr error
	if nb.kv != nil {
		kvErr = nb.kv.Close()
	}
	return errors.Join(kvErr, nb.conn.Close())
}

// DB exposes the note database for reads.
func (nb *Notebook) DB() *sql.DB {
	return nb.conn
}

// TagConfig is the tagging configuration in effect.
func (nb *Notebook) TagConfig() tagger.Config {
	return nb.cfg
}

func (nb *Notebook) store() taggedLister {
	if nb.kv != nil {
		return nb.kv
	}
	return nb.sqlTags
}

// Reconciler returns a reconciler over the backend outside any transaction.
func (nb *Notebook) Reconciler() (*tagger.Reconciler, error) {
	return tagger.NewReconciler(nb.store(), nb.cfg, nb.opts...)
}

// save writes the note with write and reconciles its tags. On SQLite both
// happen in one transaction; on badger the note commits first.
func (nb *Notebook) save(ctx context.Context, note *models.Note, isNew bool, in tagger.Input, write func(db.Querier) error) (*tagger.Outcome, error) {
	if nb.kv == nil {
		return db.SaveTags(ctx, nb.conn, nb.cfg, note.RecordID(), isNew, in, write, nb.opts...)
	}

	if write != nil {
		if err := db.WithinTx(ctx, nb.conn, func(tx *sql.Tx) error { return write(tx) }); err != nil {
			return nil, err
		}
	}
	r, err := nb.Reconciler()
	if err != nil {
		return nil, err
	}
	return r.Reconcile(ctx, note.RecordID(), isNew, in)
}

// Create inserts a new note and links its tags.
func (nb *Notebook) Create(ctx context.Context, note *models.Note, in tagger.Input) (*tagger.Outcome, error) {
	out, err := nb.save(ctx, note, true, in, func(q db.Querier) error {
		return db.CreateNote(ctx, q, note)
	})
	if err != nil {
		return out, fmt.Errorf("create note: %w", err)
	}
	nb.logOutcome(note, out)
	return out, nil
}

// Update saves an existing note's fields and reconciles its tags. A nil in
// leaves the tags alone.
func (nb *Notebook) Update(ctx context.Context, note *models.Note, in tagger.Input) (*tagger.Outcome, error) {
	note.Touch()
	out, err := nb.save(ctx, note, false, in, func(q db.Querier) error {
		return db.UpdateNote(ctx, q, note)
	})
	if err != nil {
		return out, fmt.Errorf("update note: %w", err)
	}
	nb.logOutcome(note, out)
	return out, nil
}

// SetTags reconciles an existing note's tags without touching its fields.
func (nb *Notebook) SetTags(ctx context.Context, note *models.Note, in tagger.Input) (*tagger.Outcome, error) {
	out, err := nb.save(ctx, note, false, in, nil)
	if err != nil {
		return out, fmt.Errorf("set tags: %w", err)
	}
	nb.logOutcome(note, out)
	return out, nil
}

// Delete removes the note and clears its links.
func (nb *Notebook) Delete(ctx context.Context, note *models.Note) error {
	_, err := nb.save(ctx, note, false, tagger.ListInput{}, func(q db.Querier) error {
		return db.DeleteNote(ctx, q, note.ID)
	})
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	nb.logger.Info("note deleted", zap.String("note", note.RecordID()))
	return nil
}

// Resolve finds a note by full id or prefix.
func (nb *Notebook) Resolve(ctx context.Context, ref string) (*models.Note, error) {
	return db.ResolveNote(ctx, nb.conn, ref)
}

// Tags returns a note's tag names in link order.
func (nb *Notebook) Tags(ctx context.Context, note *models.Note) ([]string, error) {
	return nb.store().CurrentTagNames(ctx, note.RecordID())
}

// TagString returns a note's tags joined by the configured delimiter.
func (nb *Notebook) TagString(ctx context.Context, note *models.Note) (string, error) {
	r, err := nb.Reconciler()
	if err != nil {
		return "", err
	}
	return r.TagString(ctx, note.RecordID())
}

// CountedTags reports every tag in use with its number of notes.
func (nb *Notebook) CountedTags(ctx context.Context) ([]models.TagCount, error) {
	return nb.store().CountedTags(ctx)
}

// List returns up to limit notes, most recently updated first. A non-empty
// tag restricts the result to notes carrying it.
func (nb *Notebook) List(ctx context.Context, tag string, limit int) ([]*models.Note, error) {
	if tag == "" {
		return db.ListNotes(ctx, nb.conn, limit)
	}

	ids, err := nb.store().RecordIDsWithTag(ctx, tag)
	if err != nil {
		return nil, fmt.Errorf("list notes tagged %q: %w", tag, err)
	}
	notes := make([]*models.Note, 0, len(ids))
	for _, id := range ids {
		note, err := db.ResolveNote(ctx, nb.conn, id)
		if errors.Is(err, db.ErrNoteNotFound) {
			// Links can outlive a note on the badger backend.
			continue
		}
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
	})
	if limit > 0 && len(notes) > limit {
		notes = notes[:limit]
	}
	return notes, nil
}

func (nb *Notebook) logOutcome(note *models.Note, out *tagger.Outcome) {
	if out == nil {
		return
	}
	nb.logger.Info("note saved",
		zap.String("note", note.RecordID()),
		zap.Strings("linked", out.Linked),
		zap.Strings("unlinked", out.Unlinked),
		zap.Strings("created", out.Created),
		zap.Strings("skipped", out.Skipped),
		zap.Int("issues", len(out.Issues)))
}

// ABOUTME: Tests for note database operations.
// ABOUTME: Covers create, read, update, delete, and prefix matching.

package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harper/memotag/internal/models"
)

func TestCreateAndGetNote(t *testing.T) {
	db, _ := openTestDB(t)
	ctx := context.Background()

	note := models.NewNote("Test Title", "Test content")
	if err := CreateNote(ctx, db, note); err != nil {
		t.Fatalf("failed to create note: %v", err)
	}

	got, err := GetNoteByID(ctx, db, note.ID)
	if err != nil {
		t.Fatalf("failed to get note: %v", err)
	}

	if got.Title != note.Title {
		t.Errorf("expected title %q, got %q", note.Title, got.Title)
	}
	if got.Content != note.Content {
		t.Errorf("expected content %q, got %q", note.Content, got.Content)
	}
}

func TestGetNoteByPrefix(t *testing.T) {
	db, _ := openTestDB(t)
	ctx := context.Background()

	note := models.NewNote("Test", "Content")
	if err := CreateNote(ctx, db, note); err != nil {
		t.Fatalf("failed to create note: %v", err)
	}

	prefix := note.ID.String()[:8]
	got, err := GetNoteByPrefix(ctx, db, prefix)
	if err != nil {
		t.Fatalf("failed to get note by prefix: %v", err)
	}

	if got.ID != note.ID {
		t.Errorf("expected ID %v, got %v", note.ID, got.ID)
	}
}

func TestGetNoteByPrefixTooShort(t *testing.T) {
	db, _ := openTestDB(t)

	_, err := GetNoteByPrefix(context.Background(), db, "abc")
	if !errors.Is(err, ErrPrefixTooShort) {
		t.Errorf("expected ErrPrefixTooShort, got %v", err)
	}
}

func TestResolveNote(t *testing.T) {
	db, _ := openTestDB(t)
	ctx := context.Background()

	note := models.NewNote("Test", "Content")
	if err := CreateNote(ctx, db, note); err != nil {
		t.Fatalf("failed to create note: %v", err)
	}

	for _, ref := range []string{note.ID.String(), note.ID.String()[:6]} {
		got, err := ResolveNote(ctx, db, ref)
		if err != nil {
			t.Fatalf("failed to resolve %q: %v", ref, err)
		}
		if got.ID != note.ID {
			t.Errorf("resolve %q: expected ID %v, got %v", ref, note.ID, got.ID)
		}
	}
}

func TestListNotes(t *testing.T) {
	db, _ := openTestDB(t)
	ctx := context.Background()

	note1 := models.NewNote("First", "Content 1")
	note2 := models.NewNote("Second", "Content 2")
	note2.UpdatedAt = note1.UpdatedAt.Add(time.Minute)
	_ = CreateNote(ctx, db, note1)
	_ = CreateNote(ctx, db, note2)

	notes, err := ListNotes(ctx, db, 20)
	if err != nil {
		t.Fatalf("failed to list notes: %v", err)
	}

	if len(notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(notes))
	}
	if notes[0].Title != "Second" {
		t.Errorf("expected most recent note first, got %q", notes[0].Title)
	}
}

func TestUpdateNote(t *testing.T) {
	db, _ := openTestDB(t)
	ctx := context.Background()

	note := models.NewNote("Original", "Original content")
	_ = CreateNote(ctx, db, note)

	note.Title = "Updated"
	note.Content = "Updated content"
	note.Touch()

	if err := UpdateNote(ctx, db, note); err != nil {
		t.Fatalf("failed to update note: %v", err)
	}

	got, _ := GetNoteByID(ctx, db, note.ID)
	if got.Title != "Updated" {
		t.Errorf("expected title 'Updated', got %q", got.Title)
	}
}

func TestDeleteNote(t *testing.T) {
	db, _ := openTestDB(t)
	ctx := context.Background()

	note := models.NewNote("ToDelete", "Content")
	_ = CreateNote(ctx, db, note)

	if err := DeleteNote(ctx, db, note.ID); err != nil {
		t.Fatalf("failed to delete note: %v", err)
	}

	_, err := GetNoteByID(ctx, db, note.ID)
	if !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("expected ErrNoteNotFound, got %v", err)
	}

	if err := DeleteNote(ctx, db, note.ID); !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("expected ErrNoteNotFound on second delete, got %v", err)
	}
}

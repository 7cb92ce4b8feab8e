// ABOUTME: Note model, the record that owns tag links.
// ABOUTME: Provides constructor, timestamps and the record id used for tagging.

package models

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	ID        uuid.UUID
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewNote(title, content string) *Note {
	now := time.Now()
	return &Note{
		ID:        uuid.New(),
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (n *Note) Touch() {
	n.UpdatedAt = time.Now()
}

// RecordID is the key links are stored under.
func (n *Note) RecordID() string {
	return n.ID.String()
}

// ShortID is the 8 character prefix shown in listings.
func (n *Note) ShortID() string {
	return n.ID.String()[:8]
}

// ABOUTME: The persistence contract the reconciler drives, plus its error types.
// ABOUTME: Adapters live in internal/db (SQLite) and internal/kvstore (badger).

package tagger

import (
	"context"
	"errors"
	"fmt"

	"github.com/harper/memotag/internal/models"
)

var (
	// ErrDuplicateTag is returned by TagStore.CreateTag when a tag with the
	// same name already exists.
	ErrDuplicateTag = errors.New("tag already exists")
	// ErrInvalidConfig is returned when a Config cannot be used.
	ErrInvalidConfig = errors.New("invalid tagger config")
)

// TagStore is the narrow view of the tag and link tables the reconciler needs.
type TagStore interface {
	// FindTagID looks a tag up by exact name.
	FindTagID(ctx context.Context, name string) (int64, bool, error)
	// CreateTag inserts a tag. A zero id with a nil error means the store
	// did not report the new id and the caller has to look it up.
	CreateTag(ctx context.Context, name string) (int64, error)
	// CurrentTagNames lists the names linked to a record, in store order.
	CurrentTagNames(ctx context.Context, recordID string) ([]string, error)
	Link(ctx context.Context, recordID string, tagID int64) error
	// Unlink succeeds when the link does not exist.
	Unlink(ctx context.Context, recordID string, tagID int64) error
	// CountedTags reports linked tags by usage, count descending then name.
	CountedTags(ctx context.Context) ([]models.TagCount, error)
}

// Store operation names used in OpError and Issue.
const (
	OpFind    = "find"
	OpCreate  = "create"
	OpCurrent = "current"
	OpLink    = "link"
	OpUnlink  = "unlink"
)

// OpError reports a store failure that aborted a reconciliation.
type OpError struct {
	Op       string
	RecordID string
	Name     string
	Err      error
}

func (e *OpError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s tags of record %s: %v", e.Op, e.RecordID, e.Err)
	}
	return fmt.Sprintf("%s tag %q for record %s: %v", e.Op, e.Name, e.RecordID, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

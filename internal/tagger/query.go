// ABOUTME: Read-only helpers over the tag store for display and reports.

package tagger

import (
	"context"
	"strings"

	"github.com/harper/memotag/internal/models"
)

// TagNames returns the names linked to recordID in store order.
func (r *Reconciler) TagNames(ctx context.Context, recordID string) ([]string, error) {
	names, err := r.store.CurrentTagNames(ctx, recordID)
	if err != nil {
		return nil, &OpError{Op: OpCurrent, RecordID: recordID, Err: err}
	}
	return names, nil
}

// TagString returns the linked names joined by the configured delimiter.
func (r *Reconciler) TagString(ctx context.Context, recordID string) (string, error) {
	names, err := r.TagNames(ctx, recordID)
	if err != nil {
		return "", err
	}
	return strings.Join(names, r.cfg.Delimiter), nil
}

// CountedTags returns every linked tag with its usage count, most used first.
func (r *Reconciler) CountedTags(ctx context.Context) ([]models.TagCount, error) {
	return r.store.CountedTags(ctx)
}

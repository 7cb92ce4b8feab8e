// ABOUTME: Tests for the in-memory TagStore and report ordering.

package tagger

import (
	"context"
	"testing"

	"github.com/harper/memotag/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreLinks(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	b, err := m.CreateTag(ctx, "b")
	require.NoError(t, err)
	a, err := m.CreateTag(ctx, "a")
	require.NoError(t, err)

	_, err = m.CreateTag(ctx, "a")
	assert.ErrorIs(t, err, ErrDuplicateTag)

	require.NoError(t, m.Link(ctx, "rec", b))
	require.NoError(t, m.Link(ctx, "rec", a))
	assert.Error(t, m.Link(ctx, "rec", a), "double link")
	assert.Error(t, m.Link(ctx, "rec", 99), "unknown tag")

	names, err := m.CurrentTagNames(ctx, "rec")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, names)

	require.NoError(t, m.Unlink(ctx, "rec", b))
	require.NoError(t, m.Unlink(ctx, "rec", b))
	names, err = m.CurrentTagNames(ctx, "rec")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, names)
}

func TestSortTagCounts(t *testing.T) {
	report := []models.TagCount{
		{Name: "pear", Count: 1},
		{Name: "fig", Count: 3},
		{Name: "apple", Count: 1},
	}
	SortTagCounts(report)

	got := make([]string, len(report))
	for i, tc := range report {
		got[i] = tc.Name
	}
	assert.Equal(t, []string{"fig", "apple", "pear"}, got)
}

// ABOUTME: In-process TagStore keeping tags and links in maps.
// ABOUTME: Used by tests and as the reference behaviour for the real adapters.

package tagger

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/harper/memotag/internal/models"
)

var _ TagStore = (*MemoryStore)(nil)

// MemoryStore is a TagStore safe for concurrent use.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int64
	ids    map[string]int64
	names  map[int64]string
	// links keeps each record's tag ids in link order.
	links map[string][]int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		ids:   make(map[string]int64),
		names: make(map[int64]string),
		links: make(map[string][]int64),
	}
}

func (m *MemoryStore) FindTagID(_ context.Context, name string) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.ids[name]
	return id, ok, nil
}

func (m *MemoryStore) CreateTag(_ context.Context, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.ids[name]; ok {
		return 0, fmt.Errorf("create tag %q: %w", name, ErrDuplicateTag)
	}
	m.nextID++
	m.ids[name] = m.nextID
	m.names[m.nextID] = name
	return m.nextID, nil
}

func (m *MemoryStore) CurrentTagNames(_ context.Context, recordID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := m.links[recordID]
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, m.names[id])
	}
	return names, nil
}

func (m *MemoryStore) Link(_ context.Context, recordID string, tagID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.names[tagID]; !ok {
		return fmt.Errorf("link tag %d: no such tag", tagID)
	}
	for _, id := range m.links[recordID] {
		if id == tagID {
			return fmt.Errorf("link tag %d: record %s already linked", tagID, recordID)
		}
	}
	m.links[recordID] = append(m.links[recordID], tagID)
	return nil
}

func (m *MemoryStore) Unlink(_ context.Context, recordID string, tagID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := m.links[recordID]
	for i, id := range ids {
		if id == tagID {
			m.links[recordID] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	if len(m.links[recordID]) == 0 {
		delete(m.links, recordID)
	}
	return nil
}

func (m *MemoryStore) CountedTags(_ context.Context) ([]models.TagCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[int64]int)
	for _, ids := range m.links {
		for _, id := range ids {
			counts[id]++
		}
	}
	report := make([]models.TagCount, 0, len(counts))
	for id, n := range counts {
		report = append(report, models.TagCount{ID: id, Name: m.names[id], Count: n})
	}
	SortTagCounts(report)
	return report, nil
}

// SortTagCounts orders a report by count descending, then name ascending.
func SortTagCounts(report []models.TagCount) {
	sort.Slice(report, func(i, j int) bool {
		if report[i].Count != report[j].Count {
			return report[i].Count > report[j].Count
		}
		return report[i].Name < report[j].Name
	})
}

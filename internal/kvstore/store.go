// ABOUTME: Badger-backed TagStore for running without a relational database.
// ABOUTME: Uses type-prefixed keys for tags by name, tags by id, and links.

package kvstore

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/dgraph-io/badger/v3"
	"github.com/harper/memotag/internal/models"
	"github.com/harper/memotag/internal/tagger"
)

const (
	// TagNamePrefix maps a tag name to its id.
	TagNamePrefix = "tag:name:"
	// TagIDPrefix maps a tag id to its name.
	TagIDPrefix = "tag:id:"
	// LinkPrefix keys are link:<record>\x00<tag id>; the value is a link sequence.
	LinkPrefix = "link:"

	tagSeqKey    = "seq:tag"
	linkSeqKey   = "seq:link"
	seqBandwidth = 64
)

var _ tagger.TagStore = (*Store)(nil)

// Store is safe for concurrent use.
type Store struct {
	db      *badger.DB
	tagSeq  *badger.Sequence
	linkSeq *badger.Sequence
}

// Open opens (or creates) a badger database in dir. An empty dir keeps
// everything in memory.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	tagSeq, err := db.GetSequence([]byte(tagSeqKey), seqBandwidth)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("tag sequence: %w", err)
	}
	linkSeq, err := db.GetSequence([]byte(linkSeqKey), seqBandwidth)
	if err != nil {
		_ = tagSeq.Release()
		_ = db.Close()
		return nil, fmt.Errorf("link sequence: %w", err)
	}
	return &Store{db: db, tagSeq: tagSeq, linkSeq: linkSeq}, nil
}

// Close releases the sequences and closes the database.
func (s *Store) Close() error {
	return errors.Join(s.tagSeq.Release(), s.linkSeq.Release(), s.db.Close())
}

func nameKey(name string) []byte {
	return []byte(TagNamePrefix + name)
}

func idKey(id int64) []byte {
	return []byte(TagIDPrefix + strconv.FormatInt(id, 10))
}

func recordPrefix(recordID string) []byte {
	return []byte(LinkPrefix + recordID + "\x00")
}

func linkKey(recordID string, tagID int64) []byte {
	return append(recordPrefix(recordID), strconv.FormatInt(tagID, 10)...)
}

func encodeInt(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

func decodeInt(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("bad integer value of %d bytes", len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}

func (s *Store) FindTagID(_ context.Context, name string) (int64, bool, error) {
	var id int64
	var found bool
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		id, found, err = lookup(txn, name)
		return err
	})
	return id, found, err
}

func lookup(txn *badger.Txn, name string) (int64, bool, error) {
	item, err := txn.Get(nameKey(name))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	var id uint64
	err = item.Value(func(val []byte) error {
		var err error
		id, err = decodeInt(val)
		return err
	})
	if err != nil {
		return 0, false, fmt.Errorf("decode tag %q: %w", name, err)
	}
	return int64(id), true, nil
}

func (s *Store) CreateTag(_ context.Context, name string) (int64, error) {
	tag := models.NewTag(name)
	next, err := s.tagSeq.Next()
	if err != nil {
		return 0, fmt.Errorf("next tag id: %w", err)
	}
	// Sequences start at zero; tag ids start at one.
	id := int64(next) + 1

	err = s.db.Update(func(txn *badger.Txn) error {
		if _, found, err := lookup(txn, tag.Name); err != nil {
			return err
		} else if found {
			return fmt.Errorf("create tag %q: %w", tag.Name, tagger.ErrDuplicateTag)
		}
		if err := txn.Set(nameKey(tag.Name), encodeInt(uint64(id))); err != nil {
			return err
		}
		return txn.Set(idKey(id), []byte(tag.Name))
	})
	if errors.Is(err, badger.ErrConflict) {
		// Another writer touched the same name key.
		return 0, fmt.Errorf("create tag %q: %w", tag.Name, tagger.ErrDuplicateTag)
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

type link struct {
	seq   uint64
	tagID int64
}

func (s *Store) CurrentTagNames(_ context.Context, recordID string) ([]string, error) {
	var names []string
	err := s.db.View(func(txn *badger.Txn) error {
		links, err := recordLinks(txn, recordID)
		if err != nil {
			return err
		}
		for _, l := range links {
			item, err := txn.Get(idKey(l.tagID))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			name, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			names = append(names, string(name))
		}
		return nil
	})
	return names, err
}

// recordLinks returns a record's links ordered by when they were made.
func recordLinks(txn *badger.Txn, recordID string) ([]link, error) {
	prefix := recordPrefix(recordID)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	var links []link
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		tagID, err := strconv.ParseInt(string(item.Key()[len(prefix):]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse link key %q: %w", item.Key(), err)
		}
		var seq uint64
		if err := item.Value(func(val []byte) error {
			var err error
			seq, err = decodeInt(val)
			return err
		}); err != nil {
			return nil, err
		}
		links = append(links, link{seq: seq, tagID: tagID})
	}
	sort.Slice(links, func(i, j int) bool { return links[i].seq < links[j].seq })
	return links, nil
}

func (s *Store) Link(_ context.Context, recordID string, tagID int64) error {
	seq, err := s.linkSeq.Next()
	if err != nil {
		return fmt.Errorf("next link sequence: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(idKey(tagID)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("link tag %d: no such tag", tagID)
			}
			return err
		}
		key := linkKey(recordID, tagID)
		if _, err := txn.Get(key); err == nil {
			return fmt.Errorf("link tag %d: record %s already linked", tagID, recordID)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, encodeInt(seq))
	})
}

func (s *Store) Unlink(_ context.Context, recordID string, tagID int64) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(linkKey(recordID, tagID))
	})
}

func (s *Store) CountedTags(_ context.Context) ([]models.TagCount, error) {
	counts := make(map[int64]int)
	report := []models.TagCount{}
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte(LinkPrefix)
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().Key()
			sep := bytes.LastIndexByte(key, 0)
			if sep < 0 {
				continue
			}
			tagID, err := strconv.ParseInt(string(key[sep+1:]), 10, 64)
			if err != nil {
				return fmt.Errorf("parse link key %q: %w", key, err)
			}
			counts[tagID]++
		}

		for id, n := range counts {
			item, err := txn.Get(idKey(id))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			name, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			report = append(report, models.TagCount{ID: id, Name: string(name), Count: n})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	tagger.SortTagCounts(report)
	return report, nil
}

// RecordIDsWithTag lists the records linked to the tag called name.
func (s *Store) RecordIDsWithTag(_ context.Context, name string) ([]string, error) {
	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		tagID, found, err := lookup(txn, name)
		if err != nil || !found {
			return err
		}
		suffix := []byte("\x00" + strconv.FormatInt(tagID, 10))

		prefix := []byte(LinkPrefix)
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().Key()
			if bytes.HasSuffix(key, suffix) {
				ids = append(ids, string(key[len(prefix):len(key)-len(suffix)]))
			}
		}
		return nil
	})
	return ids, err
}

// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package snapshot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/metromap/internal/logging"
	"github.com/tomtom215/metromap/internal/metromap"
)

const (
	currentKey        = "metromap:current"
	revisionKeyPrefix = "metromap:rev:"
)

// ErrNoSnapshot is returned by Load when nothing has been saved yet.
var ErrNoSnapshot = errors.New("no map snapshot")

// Snapshot is a persisted map revision.
type Snapshot struct {
	Revision uint64             `json:"revision"`
	SavedAt  time.Time          `json:"saved_at"`
	Map      *metromap.MetroMap `json:"map"`
}

// Store reads and writes snapshots in a BadgerDB database.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) a snapshot database in dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).
		WithLogger(newBadgerLogger(logging.WithComponent("badger")))
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens a non-persistent database, used by tests and by
// check runs that should not touch disk.
func OpenInMemory() (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open in-memory snapshot db: %w", err)
	}
	return &Store{db: db}, nil
}

func revisionKey(rev uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", revisionKeyPrefix, rev))
}

// Save writes snap as both the current snapshot and its revision entry in
// one transaction.
func (s *Store) Save(_ context.Context, snap *Snapshot) error {
	if snap == nil || snap.Map == nil {
		return errors.New("snapshot has no map")
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(currentKey), data); err != nil {
			return fmt.Errorf("set current snapshot: %w", err)
		}
		if err := txn.Set(revisionKey(snap.Revision), data); err != nil {
			return fmt.Errorf("set revision %d: %w", snap.Revision, err)
		}
		return nil
	})
}

// Load returns the current snapshot, or ErrNoSnapshot.
func (s *Store) Load(_ context.Context) (*Snapshot, error) {
	return s.get([]byte(currentKey))
}

func (s *Store) get(key []byte) (*Snapshot, error) {
	var snap Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNoSnapshot
		}
		if err != nil {
			return fmt.Errorf("get %s: %w", key, err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// Revisions lists saved revision numbers in ascending order.
func (s *Store) Revisions(_ context.Context) ([]uint64, error) {
	var revs []uint64
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(revisionKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().Key()
			rev, err := strconv.ParseUint(string(key[len(prefix):]), 10, 64)
			if err != nil {
				continue
			}
			revs = append(revs, rev)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	return revs, nil
}

// Prune deletes all but the newest keep revision entries. The current
// snapshot is never removed.
func (s *Store) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 1 {
		keep = 1
	}
	revs, err := s.Revisions(ctx)
	if err != nil {
		return 0, err
	}
	if len(revs) <= keep {
		return 0, nil
	}

	stale := revs[:len(revs)-keep]
	err = s.db.Update(func(txn *badger.Txn) error {
		for _, rev := range stale {
			if err := txn.Delete(revisionKey(rev)); err != nil {
				return fmt.Errorf("delete revision %d: %w", rev, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(stale), nil
}

// RunGC runs value log garbage collection every interval until ctx is
// canceled.
func (s *Store) RunGC(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			// ErrNoRewrite means there was nothing worth collecting.
			for s.db.RunValueLogGC(0.5) == nil {
			}
		}
	}
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// badgerLogger routes badger's printf-style logging into zerolog.
type badgerLogger struct {
	log zerolog.Logger
}

func newBadgerLogger(l zerolog.Logger) *badgerLogger {
	return &badgerLogger{log: l}
}

func (b *badgerLogger) Errorf(format string, args ...interface{}) {
	b.log.Error().Msgf(format, args...)
}

func (b *badgerLogger) Warningf(format string, args ...interface{}) {
	b.log.Warn().Msgf(format, args...)
}

func (b *badgerLogger) Infof(format string, args ...interface{}) {
	b.log.Debug().Msgf(format, args...)
}

func (b *badgerLogger) Debugf(format string, args ...interface{}) {
	b.log.Trace().Msgf(format, args...)
}

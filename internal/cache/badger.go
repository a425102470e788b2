package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Badger is a Cache backed by badger's native per-entry TTL.
type Badger struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ Cache = (*Badger)(nil)

// OpenBadger opens a badger cache at dir. An empty dir keeps everything in
// memory, which is what tests and single-process deployments use.
func OpenBadger(dir string, logger *slog.Logger) (*Badger, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Disable Badger's internal logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache: %w", err)
	}

	logger.Info("cache opened", "dir", dir, "in_memory", dir == "")
	return &Badger{db: db, logger: logger}, nil
}

// Close releases the underlying database.
func (b *Badger) Close() error {
	return b.db.Close()
}

// Get implements Cache.
func (b *Badger) Get(_ context.Context, key string, dest any) (bool, error) {
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		b.logger.Warn("cache read failed", "key", key, "error", err)
		return false, err
	}
	return true, nil
}

// Set implements Cache. A non-positive ttl stores the value without expiry.
func (b *Badger) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}

	entry := badger.NewEntry([]byte(key), data)
	if ttl > 0 {
		entry = entry.WithTTL(ttl)
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(entry)
	})
}

// Delete implements Cache. Missing keys are ignored.
func (b *Badger) Delete(_ context.Context, keys ...string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		for _, key := range keys {
			if err := txn.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeletePrefix implements Cache.
func (b *Badger) DeletePrefix(_ context.Context, prefix string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte(prefix)})
		var keys [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

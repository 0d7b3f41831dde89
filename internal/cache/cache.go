// Package cache is a small persistent key/value cache with per-entry expiry,
// used to avoid repeating upstream metadata lookups.
package cache

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/relprep/relprep/internal/logger"
)

// Cache wraps a Badger database. Entries expire after the configured TTL.
type Cache struct {
	db     *badger.DB
	ttl    time.Duration
	logger *logger.Logger
}

// Open opens or creates a cache at path.
func Open(path string, ttl time.Duration, log *logger.Logger) (*Cache, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	opts.CompactL0OnClose = true
	return open(opts, ttl, log)
}

// OpenInMemory creates a cache that lives only as long as the process.
func OpenInMemory(ttl time.Duration, log *logger.Logger) (*Cache, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts, ttl, log)
}

func open(opts badger.Options, ttl time.Duration, log *logger.Logger) (*Cache, error) {
	if log == nil {
		log = logger.Discard()
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	log.Info("cache opened", "path", opts.Dir, "ttl", ttl)
	return &Cache{db: db, ttl: ttl, logger: log.Component("cache")}, nil
}

// Close flushes and closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get decodes the entry for key into dest. It reports false when the entry
// is missing or expired.
func (c *Cache) Get(key string, dest any) (bool, error) {
	err := c.db.View(func(txn *badger.Txn) error {
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
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	return true, nil
}

// Set stores value under key. A non-positive TTL keeps the entry forever.
func (c *Cache) Set(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	entry := badger.NewEntry([]byte(key), data)
	if c.ttl > 0 {
		entry = entry.WithTTL(c.ttl)
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(entry)
	})
}

// Delete removes key. Deleting a missing key is not an error.
func (c *Cache) Delete(key string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Remember returns the cached value for key, or calls fetch, stores its
// result and returns it. Cache failures are logged and never hide a
// successful fetch.
func Remember[T any](c *Cache, key string, fetch func() (T, error)) (T, error) {
	var v T
	if c == nil {
		return fetch()
	}

	if ok, err := c.Get(key, &v); err != nil {
		c.logger.Warn("cache read failed", "key", key, "error", err)
	} else if ok {
		return v, nil
	}

	v, err := fetch()
	if err != nil {
		return v, err
	}
	if err := c.Set(key, v); err != nil {
		c.logger.Warn("cache write failed", "key", key, "error", err)
	}
	return v, nil
}

// Package storage provides a persistent evaluation cache for batch
// analysis tooling, keyed by position Zobrist hash.
package storage

import (
	"encoding/binary"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog/log"
)

// EvalCache wraps BadgerDB as a position-hash -> score store. It is not
// a search transposition table: it persists across runs and lives on
// the analysis path, never inside a search.
type EvalCache struct {
	db *badger.DB
}

// Open opens (or creates) an evaluation cache in dir.
func Open(dir string) (*EvalCache, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // zerolog handles logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open eval cache: %w", err)
	}

	log.Debug().Str("dir", dir).Msg("opened eval cache")
	return &EvalCache{db: db}, nil
}

// Close closes the underlying database.
func (c *EvalCache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// cacheKey encodes a position hash as a fixed 8-byte big-endian key.
func cacheKey(hash uint64) []byte {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], hash)
	return k[:]
}

// Get looks up the cached score for a position hash. The second return
// value reports whether the position was present.
func (c *EvalCache) Get(hash uint64) (int32, bool, error) {
	var score int32
	found := false

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(cacheKey(hash))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) != 4 {
				return fmt.Errorf("corrupt cache value: %d bytes", len(val))
			}
			score = int32(binary.LittleEndian.Uint32(val))
			found = true
			return nil
		})
	})
	if err != nil {
		return 0, false, fmt.Errorf("eval cache get: %w", err)
	}

	return score, found, nil
}

// Put stores the score for a position hash, overwriting any previous
// entry.
func (c *EvalCache) Put(hash uint64, score int32) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		var val [4]byte
		binary.LittleEndian.PutUint32(val[:], uint32(score))
		return txn.Set(cacheKey(hash), val[:])
	})
	if err != nil {
		return fmt.Errorf("eval cache put: %w", err)
	}
	return nil
}

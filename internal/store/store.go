// Package store persists the todo and note lists as JSON arrays in a
// key/value database.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Keys under which the lists are stored.
const (
	TodosKey = "todos"
	NotesKey = "notes"
)

var bucketLists = []byte("lists")

// KV is a durable key/value store.
type KV interface {
	// Get returns the value for key. ok is false if the key is not set.
	Get(key string) (value []byte, ok bool, err error)

	// Put overwrites the value for key.
	Put(key string, value []byte) error
}

// BoltStore implements KV using BoltDB.
type BoltStore struct {
	db *bolt.DB
}

// Open opens (or creates) the database at path.
func Open(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketLists)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Get implements KV.
func (s *BoltStore) Get(key string) ([]byte, bool, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketLists)
		if b == nil {
			return nil
		}
		// Values are only valid for the life of the transaction
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return data, data != nil, nil
}

// Put implements KV.
func (s *BoltStore) Put(key string, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketLists)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), value)
	})
}

// Close closes the database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// MemoryStore is an in-memory KV.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Get implements KV.
func (m *MemoryStore) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Put implements KV.
func (m *MemoryStore) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	return nil
}

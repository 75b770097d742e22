// Package storage persists the view state record in an embedded Pebble
// key/value store, the client's durable local storage.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/rs/zerolog/log"

	"github.com/five82/ideas/internal/viewstate"
)

// ViewStateKey is the single key holding the serialized view state.
const ViewStateKey = "view-state"

// ErrParse marks a stored record that could not be decoded.
var ErrParse = errors.New("parse stored view state")

// Store wraps the Pebble database.
type Store struct {
	db *pebble.DB
}

// Open opens (creating if needed) the database under dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory() (*Store, error) {
	db, err := pebble.Open("", &pebble.Options{FS: vfs.NewMem()})
	if err != nil {
		return nil, fmt.Errorf("open in-memory state db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save writes the full record, TotalItems included.
func (s *Store) Save(state viewstate.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal view state: %w", err)
	}
	return s.Put(ViewStateKey, raw)
}

// Load returns the stored record, or nil when there is none or it cannot be
// decoded. Errors never escape; they are logged.
func (s *Store) Load() *viewstate.Partial {
	partial, err := s.load()
	if err != nil {
		log.Warn().Err(err).Str("key", ViewStateKey).Msg("Ignoring stored view state")
		return nil
	}
	return partial
}

func (s *Store) load() (*viewstate.Partial, error) {
	raw, err := s.Get(ViewStateKey)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var partial viewstate.Partial
	if err := json.Unmarshal(raw, &partial); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return &partial, nil
}

// Put stores value under key and syncs it to disk.
func (s *Store) Put(key string, value []byte) error {
	if err := s.db.Set([]byte(key), value, pebble.Sync); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Get returns a copy of the value stored under key. A missing key yields
// pebble.ErrNotFound.
func (s *Store) Get(key string) ([]byte, error) {
	value, closer, err := s.db.Get([]byte(key))
	if err != nil {
		return nil, err
	}
	defer func() { _ = closer.Close() }()
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Package session owns the live view state and keeps durable storage and the
// address bar in lockstep with it.
package session

import (
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/five82/ideas/internal/location"
	"github.com/five82/ideas/internal/viewstate"
)

// Persister is the durable side of a commit. *storage.Store implements it.
type Persister interface {
	Load() *viewstate.Partial
	Save(viewstate.State) error
}

// AddressBar is the URL side of a commit. *location.Bar implements it.
type AddressBar interface {
	Query() url.Values
	Replace(url.Values)
}

// Session holds the authoritative view state.
type Session struct {
	mu    sync.RWMutex
	state viewstate.State
	store Persister
	bar   AddressBar
}

// Restore reconciles storage and the address bar into a new Session and
// commits the result right away, so values that only came from the URL are
// written back to storage too.
func Restore(store Persister, bar AddressBar) (*Session, error) {
	if store == nil || bar == nil {
		return nil, errors.New("session requires storage and an address bar")
	}
	initial := viewstate.Reconcile(store.Load(), location.Decode(bar.Query()))
	s := &Session{store: store, bar: bar}
	if err := s.Commit(initial); err != nil {
		log.Warn().Err(err).Msg("Initial view state not persisted")
	}
	return s, nil
}

// State returns a copy of the current view state.
func (s *Session) State() viewstate.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Commit replaces the view state and writes it to storage and the address
// bar. The in-memory state and the URL always change; a storage failure is
// returned but does not roll anything back.
func (s *Session) Commit(next viewstate.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = next
	s.bar.Replace(location.Encode(next))
	if err := s.store.Save(next); err != nil {
		return fmt.Errorf("persist view state: %w", err)
	}
	return nil
}

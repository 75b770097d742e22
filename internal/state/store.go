package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/ideas/internal/listing"
	"github.com/five82/ideas/internal/pagination"
	"github.com/five82/ideas/internal/viewstate"
)

// Phase is the listing lifecycle stage.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Snapshot is everything the renderer needs for one frame.
type Snapshot struct {
	Phase               Phase
	View                viewstate.State
	Items               []listing.Item
	Meta                listing.Meta
	HasPage             bool
	Window              []pagination.Control
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// Summary returns the "Showing X - Y of Z" line, or "" before the first page.
func (s Snapshot) Summary() string {
	if !s.HasPage {
		return ""
	}
	return s.Meta.Summary()
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Loading records that a request for view is in flight. The previous page
// stays visible until it is replaced.
func (s *Store) Loading(view viewstate.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Phase = PhaseLoading
	s.snapshot.View = view
}

// Ready publishes a fetched page and its pagination window.
func (s *Store) Ready(view viewstate.State, page *listing.Page, window []pagination.Control) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Phase = PhaseReady
	s.snapshot.View = view
	s.snapshot.Items = cloneItems(page.Data)
	s.snapshot.Meta = page.Meta
	s.snapshot.HasPage = true
	s.snapshot.Window = cloneWindow(window)
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Failed records err. The previously published page is kept for reference but
// the phase tells the renderer to show the error panel.
func (s *Store) Failed(view viewstate.State, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Phase = PhaseFailed
	s.snapshot.View = view
	s.snapshot.LastError = err
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures++
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Items = cloneItems(s.snapshot.Items)
	snap.Window = cloneWindow(s.snapshot.Window)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneItems(items []listing.Item) []listing.Item {
	if len(items) == 0 {
		return nil
	}
	dup := make([]listing.Item, len(items))
	copy(dup, items)
	return dup
}

func cloneWindow(window []pagination.Control) []pagination.Control {
	if len(window) == 0 {
		return nil
	}
	dup := make([]pagination.Control, len(window))
	copy(dup, window)
	return dup
}

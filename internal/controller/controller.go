// Package controller drives the listing: it turns user actions into view
// state changes and fetches, and applies fetch results in request order.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/five82/ideas/internal/listing"
	"github.com/five82/ideas/internal/metrics"
	"github.com/five82/ideas/internal/pagination"
	"github.com/five82/ideas/internal/session"
	"github.com/five82/ideas/internal/state"
	"github.com/five82/ideas/internal/viewstate"
)

// ErrInvalidAction is returned for actions that would leave the view in an
// invalid state, such as paging past the last page. State is not changed.
var ErrInvalidAction = errors.New("invalid listing action")

var errEmptyResponse = fmt.Errorf("%w: empty response", listing.ErrFetch)

// Request is one issued fetch. Token orders requests; only the latest one's
// outcome is applied.
type Request struct {
	Token uint64
	View  viewstate.State
	Query listing.QuerySpec
}

// Outcome is the result of fetching a Request.
type Outcome struct {
	Token uint64
	Page  *listing.Page
	Err   error
}

// Result reports what Apply did. Followup is set when the page had to be
// clamped after the fetch and a new request was issued for it.
type Result struct {
	Phase    state.Phase
	Followup *Request
}

// Controller owns the session and the request sequence.
type Controller struct {
	mu      sync.Mutex
	session *session.Session
	fetcher listing.Fetcher
	store   *state.Store
	metrics *metrics.Recorder
	phase   state.Phase
	latest  uint64
}

// New builds a Controller. store and rec may be nil.
func New(sess *session.Session, fetcher listing.Fetcher, store *state.Store, rec *metrics.Recorder) *Controller {
	if store == nil {
		store = &state.Store{}
	}
	return &Controller{
		session: sess,
		fetcher: fetcher,
		store:   store,
		metrics: rec,
		phase:   state.PhaseIdle,
	}
}

// Phase returns the current lifecycle phase.
func (c *Controller) Phase() state.Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// State returns the current view state.
func (c *Controller) State() viewstate.State {
	return c.session.State()
}

// Store returns the render store the controller publishes to.
func (c *Controller) Store() *state.Store {
	return c.store
}

// Reload re-issues a fetch for the current view.
func (c *Controller) Reload() Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.trigger(c.session.State())
}

// SetPage moves to page n. Pages below 1 or past the known last page are
// rejected.
func (c *Controller) SetPage(n int) (Request, error) {
	return c.movePage(func(viewstate.State) int { return n })
}

// NextPage moves one page forward.
func (c *Controller) NextPage() (Request, error) {
	return c.movePage(func(s viewstate.State) int { return s.Page + 1 })
}

// PrevPage moves one page back.
func (c *Controller) PrevPage() (Request, error) {
	return c.movePage(func(s viewstate.State) int { return s.Page - 1 })
}

// FirstPage moves to page 1.
func (c *Controller) FirstPage() (Request, error) {
	return c.movePage(func(viewstate.State) int { return 1 })
}

// LastPage moves to the last known page.
func (c *Controller) LastPage() (Request, error) {
	return c.movePage(func(s viewstate.State) int { return s.TotalPages() })
}

func (c *Controller) movePage(target func(viewstate.State) int) (Request, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.session.State()
	n := target(next)
	last := next.TotalPages()
	switch {
	case n < 1:
		return Request{}, fmt.Errorf("%w: page %d", ErrInvalidAction, n)
	case last > 0 && n > last:
		return Request{}, fmt.Errorf("%w: page %d past last page %d", ErrInvalidAction, n, last)
	}
	next.Page = n
	return c.trigger(next), nil
}

// SetPageSize changes the page size and returns to page 1.
func (c *Controller) SetPageSize(n int) (Request, error) {
	return c.change(func(s *viewstate.State) error {
		if !viewstate.ValidPageSize(n) {
			return fmt.Errorf("%w: page size %d", ErrInvalidAction, n)
		}
		s.ItemsPerPage = n
		return nil
	})
}

// SetSort changes the sort key and returns to page 1.
func (c *Controller) SetSort(key string) (Request, error) {
	return c.change(func(s *viewstate.State) error {
		if !viewstate.ValidSort(key) {
			return fmt.Errorf("%w: sort %q", ErrInvalidAction, key)
		}
		s.SortBy = key
		return nil
	})
}

// CyclePageSize switches to the next allowed page size.
func (c *Controller) CyclePageSize() Request {
	req, _ := c.change(func(s *viewstate.State) error {
		s.ItemsPerPage = viewstate.NextPageSize(s.ItemsPerPage)
		return nil
	})
	return req
}

// CycleSort switches to the next allowed sort key.
func (c *Controller) CycleSort() Request {
	req, _ := c.change(func(s *viewstate.State) error {
		s.SortBy = viewstate.NextSort(s.SortBy)
		return nil
	})
	return req
}

// change applies mutate to the current view and returns to page 1, the way
// a new size or sort order invalidates the old page position.
func (c *Controller) change(mutate func(*viewstate.State) error) (Request, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.session.State()
	if err := mutate(&next); err != nil {
		return Request{}, err
	}
	next.Page = 1
	return c.trigger(next), nil
}

// trigger commits next, enters Loading and issues a new request. c.mu must
// be held.
func (c *Controller) trigger(next viewstate.State) Request {
	if err := c.session.Commit(next); err != nil {
		log.Warn().Err(err).Msg("View state not persisted")
	}
	c.latest++
	c.phase = state.PhaseLoading
	c.store.Loading(next)

	req := Request{Token: c.latest, View: next, Query: listing.BuildQuery(next)}
	log.Debug().
		Uint64("token", req.Token).
		Int("page", next.Page).
		Int("size", next.ItemsPerPage).
		Str("sort", next.SortBy).
		Msg("Listing request issued")
	return req
}

// Fetch performs the remote call for req. It does not touch any state and is
// safe to run on another goroutine.
func (c *Controller) Fetch(ctx context.Context, req Request) Outcome {
	started := time.Now()
	page, err := c.fetcher.FetchPage(ctx, req.Query)
	if err == nil && page == nil {
		err = errEmptyResponse
	}
	c.metrics.ObserveFetch(time.Since(started), err)
	return Outcome{Token: req.Token, Page: page, Err: err}
}

// Apply folds an outcome into the view. Outcomes of superseded requests are
// dropped and reported with ok == false. An outcome with neither a page nor
// an error counts as a failed fetch.
func (c *Controller) Apply(o Outcome) (res Result, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if o.Token != c.latest {
		c.metrics.ObserveDiscarded()
		log.Debug().Uint64("token", o.Token).Uint64("latest", c.latest).Msg("Discarding superseded listing result")
		return Result{Phase: c.phase}, false
	}

	if o.Err == nil && o.Page == nil {
		o.Err = errEmptyResponse
	}

	view := c.session.State()
	if o.Err != nil {
		c.phase = state.PhaseFailed
		c.store.Failed(view, o.Err)
		log.Warn().Err(o.Err).Int("page", view.Page).Msg("Listing fetch failed")
		return Result{Phase: c.phase}, true
	}

	view.TotalItems = max(o.Page.Meta.Total, 0)
	clamped := clampAfterFetch(view)
	if clamped.Page != view.Page {
		log.Info().Int("from", view.Page).Int("to", clamped.Page).Msg("Page out of range, clamping")
		req := c.trigger(clamped)
		return Result{Phase: c.phase, Followup: &req}, true
	}

	if err := c.session.Commit(view); err != nil {
		log.Warn().Err(err).Msg("View state not persisted")
	}
	c.phase = state.PhaseReady
	c.store.Ready(view, o.Page, pagination.Window(view.Page, view.TotalPages()))
	return Result{Phase: c.phase}, true
}

// Refresh fetches req and applies the outcome.
func (c *Controller) Refresh(ctx context.Context, req Request) (Result, bool) {
	return c.Apply(c.Fetch(ctx, req))
}

// clampAfterFetch keeps the page within [1, TotalPages]; an empty listing
// has only page 1.
func clampAfterFetch(s viewstate.State) viewstate.State {
	if s.TotalPages() == 0 {
		s.Page = 1
		return s
	}
	return s.Clamped()
}

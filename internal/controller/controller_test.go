package controller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/five82/ideas/internal/listing"
	"github.com/five82/ideas/internal/location"
	"github.com/five82/ideas/internal/metrics"
	"github.com/five82/ideas/internal/pagination"
	"github.com/five82/ideas/internal/session"
	"github.com/five82/ideas/internal/state"
	"github.com/five82/ideas/internal/storage"
	"github.com/five82/ideas/internal/viewstate"
)

// fakeFetcher answers with a page whose total is total(q), or with err.
type fakeFetcher struct {
	mu    sync.Mutex
	total func(listing.QuerySpec) int
	err   error
	calls []listing.QuerySpec
}

func (f *fakeFetcher) FetchPage(_ context.Context, q listing.QuerySpec) (*listing.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, q)
	if f.err != nil {
		return nil, f.err
	}
	total := 95
	if f.total != nil {
		total = f.total(q)
	}
	return &listing.Page{
		Data: []listing.Item{{ID: int64(q.PageNumber), Title: "idea"}},
		Meta: listing.Meta{CurrentPage: q.PageNumber, Total: total},
	}, nil
}

// gatedFetcher blocks each call until its page is released.
type gatedFetcher struct {
	mu     sync.Mutex
	gates  map[int]chan struct{}
	totals map[int]int
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{gates: map[int]chan struct{}{}, totals: map[int]int{}}
}

func (g *gatedFetcher) gate(page int) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[page]
	if !ok {
		ch = make(chan struct{})
		g.gates[page] = ch
	}
	return ch
}

func (g *gatedFetcher) FetchPage(ctx context.Context, q listing.QuerySpec) (*listing.Page, error) {
	select {
	case <-g.gate(q.PageNumber):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	g.mu.Lock()
	total := g.totals[q.PageNumber]
	g.mu.Unlock()
	return &listing.Page{Meta: listing.Meta{CurrentPage: q.PageNumber, Total: total}}, nil
}

type harness struct {
	ctrl  *Controller
	store *storage.Store
	bar   *location.Bar
	rec   *metrics.Recorder
}

func newHarness(t *testing.T, fetcher listing.Fetcher, rawURL string) harness {
	t.Helper()
	return newSeededHarness(t, fetcher, nil, rawURL)
}

// newSeededHarness restores the session from a stored record, as if a previous
// run had saved stored.
func newSeededHarness(t *testing.T, fetcher listing.Fetcher, stored *viewstate.State, rawURL string) harness {
	t.Helper()
	store, err := storage.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if stored != nil {
		if err := store.Save(*stored); err != nil {
			t.Fatalf("Save returned error: %v", err)
		}
	}

	bar, err := location.NewBar("https://example.com/ideas", rawURL)
	if err != nil {
		t.Fatalf("NewBar returned error: %v", err)
	}
	sess, err := session.Restore(store, bar)
	if err != nil {
		t.Fatalf("Restore returned error: %v", err)
	}
	rec := metrics.New()
	return harness{ctrl: New(sess, fetcher, &state.Store{}, rec), store: store, bar: bar, rec: rec}
}

func TestController_ReloadReachesReady(t *testing.T) {
	h := newHarness(t, &fakeFetcher{}, "?page=2")

	if got := h.ctrl.Phase(); got != state.PhaseIdle {
		t.Fatalf("Phase = %v, want idle", got)
	}
	req := h.ctrl.Reload()
	if got := h.ctrl.Phase(); got != state.PhaseLoading {
		t.Fatalf("Phase after Reload = %v, want loading", got)
	}
	if req.Query.PageNumber != 2 || req.Query.PageSize != 10 {
		t.Fatalf("query = %+v", req.Query)
	}

	res, ok := h.ctrl.Refresh(context.Background(), req)
	if !ok || res.Phase != state.PhaseReady || res.Followup != nil {
		t.Fatalf("Refresh = %+v, %v", res, ok)
	}

	view := h.ctrl.State()
	if view.TotalItems != 95 || view.Page != 2 {
		t.Fatalf("view = %+v", view)
	}
	snap := h.ctrl.Store().Snapshot()
	if snap.Phase != state.PhaseReady || len(snap.Window) == 0 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if got := pagination.Pages(snap.Window); got[len(got)-1] != 10 {
		t.Fatalf("window pages = %v, want last page 10", got)
	}

	// TotalItems is persisted, not put in the URL.
	if stored := h.store.Load(); stored == nil || stored.TotalItems != 95 {
		t.Fatalf("stored = %+v, want totalItems 95", stored)
	}
	if h.bar.Query().Has("totalItems") {
		t.Fatalf("bar leaked totalItems: %s", h.bar.String())
	}
}

func TestController_ActionPersistsImmediately(t *testing.T) {
	h := newHarness(t, &fakeFetcher{}, "")
	h.ctrl.Refresh(context.Background(), h.ctrl.Reload())

	if _, err := h.ctrl.SetPage(4); err != nil {
		t.Fatalf("SetPage returned error: %v", err)
	}
	// Before the fetch for page 4 resolves, storage and URL already agree.
	if stored := h.store.Load(); stored == nil || stored.Page != 4 {
		t.Fatalf("stored = %+v, want page 4", stored)
	}
	if got := location.Decode(h.bar.Query()).Page; got != 4 {
		t.Fatalf("bar page = %d, want 4", got)
	}
}

func TestController_SizeAndSortResetPage(t *testing.T) {
	h := newHarness(t, &fakeFetcher{}, "?page=3")
	h.ctrl.Refresh(context.Background(), h.ctrl.Reload())

	req, err := h.ctrl.SetPageSize(20)
	if err != nil {
		t.Fatalf("SetPageSize returned error: %v", err)
	}
	if req.View.Page != 1 || req.View.ItemsPerPage != 20 {
		t.Fatalf("after SetPageSize view = %+v", req.View)
	}

	if _, err := h.ctrl.SetPage(2); err != nil {
		t.Fatalf("SetPage returned error: %v", err)
	}
	req, err = h.ctrl.SetSort("title")
	if err != nil {
		t.Fatalf("SetSort returned error: %v", err)
	}
	if req.View.Page != 1 || req.Query.SortBy != "title" {
		t.Fatalf("after SetSort request = %+v", req)
	}

	if _, err := h.ctrl.SetSort("rating"); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("SetSort(rating) err = %v, want ErrInvalidAction", err)
	}
	if _, err := h.ctrl.SetPageSize(7); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("SetPageSize(7) err = %v, want ErrInvalidAction", err)
	}
	if got := h.ctrl.State().SortBy; got != "title" {
		t.Fatalf("rejected action changed sort to %q", got)
	}
}

func TestController_PageBounds(t *testing.T) {
	h := newHarness(t, &fakeFetcher{}, "")
	h.ctrl.Refresh(context.Background(), h.ctrl.Reload())

	if _, err := h.ctrl.PrevPage(); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("PrevPage on first page err = %v", err)
	}
	if _, err := h.ctrl.SetPage(11); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("SetPage(11) of 10 err = %v", err)
	}
	req, err := h.ctrl.LastPage()
	if err != nil || req.View.Page != 10 {
		t.Fatalf("LastPage = %+v, %v", req, err)
	}
	h.ctrl.Refresh(context.Background(), req)
	if _, err := h.ctrl.NextPage(); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("NextPage on last page err = %v", err)
	}
	req, err = h.ctrl.FirstPage()
	if err != nil || req.View.Page != 1 {
		t.Fatalf("FirstPage = %+v, %v", req, err)
	}
}

func TestController_LastPageUnknownBeforeFirstFetch(t *testing.T) {
	h := newHarness(t, &fakeFetcher{}, "")
	if _, err := h.ctrl.LastPage(); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("LastPage before fetch err = %v, want ErrInvalidAction", err)
	}
}

func TestController_FailureLeavesViewUntouched(t *testing.T) {
	fetcher := &fakeFetcher{}
	h := newHarness(t, fetcher, "")
	h.ctrl.Refresh(context.Background(), h.ctrl.Reload())
	before := h.ctrl.State()

	fetcher.err = errors.New("connection refused")
	res, ok := h.ctrl.Refresh(context.Background(), h.ctrl.Reload())
	if !ok || res.Phase != state.PhaseFailed {
		t.Fatalf("Refresh = %+v, %v, want failed", res, ok)
	}
	if got := h.ctrl.State(); got != before {
		t.Fatalf("view = %+v, want unchanged %+v", got, before)
	}
	snap := h.ctrl.Store().Snapshot()
	if snap.Phase != state.PhaseFailed || snap.LastError == nil {
		t.Fatalf("snapshot = %+v", snap)
	}

	// A new user action retries.
	fetcher.err = nil
	res, _ = h.ctrl.Refresh(context.Background(), h.ctrl.Reload())
	if res.Phase != state.PhaseReady {
		t.Fatalf("retry phase = %v, want ready", res.Phase)
	}
}

func TestController_SharedPagePastStoredTotalCanPageBack(t *testing.T) {
	// The stored total covers two pages of 50, but the shared URL asks for page 9.
	stored := viewstate.State{Page: 3, ItemsPerPage: 10, SortBy: "title", TotalItems: 95}
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	h := newSeededHarness(t, fetcher, &stored, "?page=9&size=50")

	res, _ := h.ctrl.Refresh(context.Background(), h.ctrl.Reload())
	if res.Phase != state.PhaseFailed {
		t.Fatalf("phase = %v, want failed", res.Phase)
	}
	if got := h.ctrl.State(); got.Page != 9 || got.ItemsPerPage != 50 || got.TotalItems != 0 {
		t.Fatalf("view = %+v, want page 9 of an unknown total", got)
	}

	req, err := h.ctrl.PrevPage()
	if err != nil {
		t.Fatalf("PrevPage returned error: %v", err)
	}
	if req.View.Page != 8 {
		t.Fatalf("PrevPage page = %d, want 8", req.View.Page)
	}
}

func TestController_ApplyWithoutPageFails(t *testing.T) {
	h := newHarness(t, &fakeFetcher{}, "")
	req := h.ctrl.Reload()

	res, ok := h.ctrl.Apply(Outcome{Token: req.Token})
	if !ok || res.Phase != state.PhaseFailed {
		t.Fatalf("Apply = %+v, %v, want failed", res, ok)
	}
	snap := h.ctrl.Store().Snapshot()
	if !errors.Is(snap.LastError, listing.ErrFetch) {
		t.Fatalf("LastError = %v, want ErrFetch", snap.LastError)
	}
	if got := h.ctrl.State().TotalItems; got != 0 {
		t.Fatalf("TotalItems = %d, want 0", got)
	}
}

func TestController_ClampsPagePastEnd(t *testing.T) {
	// Restored page 9 of a listing that now only has 3 pages.
	fetcher := &fakeFetcher{total: func(listing.QuerySpec) int { return 25 }}
	h := newHarness(t, fetcher, "?page=9")

	res, ok := h.ctrl.Refresh(context.Background(), h.ctrl.Reload())
	if !ok || res.Followup == nil {
		t.Fatalf("Refresh = %+v, %v, want a follow-up request", res, ok)
	}
	if res.Phase != state.PhaseLoading || res.Followup.View.Page != 3 {
		t.Fatalf("follow-up = %+v, phase %v", res.Followup, res.Phase)
	}
	if got := location.Decode(h.bar.Query()).Page; got != 3 {
		t.Fatalf("bar page = %d, want clamped 3", got)
	}

	res, _ = h.ctrl.Refresh(context.Background(), *res.Followup)
	if res.Phase != state.PhaseReady || res.Followup != nil {
		t.Fatalf("second Refresh = %+v", res)
	}
	if got := h.ctrl.State(); got.Page != 3 || got.TotalItems != 25 {
		t.Fatalf("view = %+v", got)
	}
}

func TestController_EmptyListingReturnsToFirstPage(t *testing.T) {
	fetcher := &fakeFetcher{total: func(listing.QuerySpec) int { return 0 }}
	h := newHarness(t, fetcher, "?page=4")

	res, _ := h.ctrl.Refresh(context.Background(), h.ctrl.Reload())
	if res.Followup == nil || res.Followup.View.Page != 1 {
		t.Fatalf("Refresh = %+v, want follow-up to page 1", res)
	}
	res, _ = h.ctrl.Refresh(context.Background(), *res.Followup)
	if res.Phase != state.PhaseReady {
		t.Fatalf("phase = %v, want ready", res.Phase)
	}
	if snap := h.ctrl.Store().Snapshot(); len(snap.Window) != 0 {
		t.Fatalf("window = %+v, want empty", snap.Window)
	}
}

func TestController_SupersededRequestIsDiscarded(t *testing.T) {
	gated := newGatedFetcher()
	gated.totals[2] = 40
	gated.totals[5] = 200
	h := newHarness(t, gated, "")

	// Seed a known page count so page 5 is a valid target.
	h.ctrl.Apply(Outcome{Token: h.ctrl.Reload().Token, Page: &listing.Page{Meta: listing.Meta{Total: 100}}})

	reqA, err := h.ctrl.SetPage(2)
	if err != nil {
		t.Fatalf("SetPage(2) returned error: %v", err)
	}
	reqB, err := h.ctrl.SetPage(5)
	if err != nil {
		t.Fatalf("SetPage(5) returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	outcomes := make(chan Outcome, 2)
	go func() { outcomes <- h.ctrl.Fetch(ctx, reqA) }()
	go func() { outcomes <- h.ctrl.Fetch(ctx, reqB) }()

	// B completes first, A arrives late.
	close(gated.gate(5))
	first := <-outcomes
	close(gated.gate(2))
	second := <-outcomes

	if first.Token != reqB.Token || second.Token != reqA.Token {
		t.Fatalf("unexpected completion order: %d then %d", first.Token, second.Token)
	}

	if _, ok := h.ctrl.Apply(first); !ok {
		t.Fatal("latest outcome was not applied")
	}
	if _, ok := h.ctrl.Apply(second); ok {
		t.Fatal("superseded outcome was applied")
	}

	view := h.ctrl.State()
	if view.Page != 5 || view.TotalItems != 200 {
		t.Fatalf("view = %+v, want page 5 with B's total 200", view)
	}
}

func TestController_StaleResultBeforeLatestIsDiscarded(t *testing.T) {
	fetcher := &fakeFetcher{total: func(q listing.QuerySpec) int { return q.PageNumber * 100 }}
	h := newHarness(t, fetcher, "")
	h.ctrl.Refresh(context.Background(), h.ctrl.Reload())

	reqA, _ := h.ctrl.SetPage(2)
	reqB, _ := h.ctrl.SetPage(5)

	// A resolves first but was already superseded by B.
	if _, ok := h.ctrl.Refresh(context.Background(), reqA); ok {
		t.Fatal("superseded outcome was applied")
	}
	if got := h.ctrl.Phase(); got != state.PhaseLoading {
		t.Fatalf("phase after stale result = %v, want still loading", got)
	}
	if _, ok := h.ctrl.Refresh(context.Background(), reqB); !ok {
		t.Fatal("latest outcome was not applied")
	}
	if view := h.ctrl.State(); view.Page != 5 || view.TotalItems != 500 {
		t.Fatalf("view = %+v, want page 5 total 500", view)
	}
}

func TestController_CyclesWrap(t *testing.T) {
	h := newHarness(t, &fakeFetcher{}, "")
	if req := h.ctrl.CyclePageSize(); req.View.ItemsPerPage != 20 {
		t.Fatalf("CyclePageSize = %d, want 20", req.View.ItemsPerPage)
	}
	if req := h.ctrl.CycleSort(); req.View.SortBy != "published_at" {
		t.Fatalf("CycleSort = %q, want published_at", req.View.SortBy)
	}
	if got := h.ctrl.State(); got.ItemsPerPage != 20 || got.SortBy != "published_at" || got.Page != 1 {
		t.Fatalf("state = %+v", got)
	}
}

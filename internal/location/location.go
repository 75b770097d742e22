// Package location translates view state to and from the query parameters of
// the shareable view URL, and keeps the "address bar" that holds that URL.
package location

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/five82/ideas/internal/viewstate"
)

// Query parameter names.
const (
	ParamPage = "page"
	ParamSize = "size"
	ParamSort = "sort"
)

// Encode writes page, size and sort. TotalItems is never part of the URL.
func Encode(s viewstate.State) url.Values {
	values := url.Values{}
	values.Set(ParamPage, strconv.Itoa(s.Page))
	values.Set(ParamSize, strconv.Itoa(s.ItemsPerPage))
	values.Set(ParamSort, s.SortBy)
	return values
}

// Decode reads page, size and sort. Values that are missing, not integers or
// not positive come back as zero so reconciliation falls through them.
func Decode(values url.Values) viewstate.Partial {
	return viewstate.Partial{
		Page:         positiveInt(values.Get(ParamPage)),
		ItemsPerPage: positiveInt(values.Get(ParamSize)),
		SortBy:       strings.TrimSpace(values.Get(ParamSort)),
	}
}

func positiveInt(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// Bar holds the current view URL. It is safe for concurrent use.
type Bar struct {
	mu      sync.RWMutex
	current *url.URL
}

// NewBar starts the bar at base, the page URL. When raw is non-empty it is
// resolved against base, so a bare "?page=2" or a full URL are both accepted.
func NewBar(base, raw string) (*Bar, error) {
	baseURL, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return nil, fmt.Errorf("parse page url %q: %w", base, err)
	}
	current := baseURL
	if trimmed := strings.TrimSpace(raw); trimmed != "" {
		ref, err := url.Parse(trimmed)
		if err != nil {
			return nil, fmt.Errorf("parse view url %q: %w", raw, err)
		}
		current = baseURL.ResolveReference(ref)
	}
	current.Fragment = ""
	return &Bar{current: current}, nil
}

// Query returns the query parameters of the current URL.
func (b *Bar) Query() url.Values {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current.Query()
}

// Replace swaps the query of the current URL in place. Nothing else about the
// URL changes and no history is kept.
func (b *Bar) Replace(values url.Values) {
	b.mu.Lock()
	defer b.mu.Unlock()
	next := *b.current
	next.RawQuery = values.Encode()
	b.current = &next
}

// String returns the current URL.
func (b *Bar) String() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current.String()
}

// Package viewstate holds the pagination, sort and page-size record that the
// listing is rendered from, and the rules for merging it from its sources.
package viewstate

import "slices"

// Defaults used when neither the address bar nor storage provide a value.
const (
	DefaultPage         = 1
	DefaultItemsPerPage = 10
	DefaultSortBy       = "-published_at"
)

// PageSizes lists the page sizes offered by the listing.
var PageSizes = []int{10, 20, 50}

// SortOption pairs a sort key with its display label.
type SortOption struct {
	Key   string
	Label string
}

// SortOptions lists the accepted sort keys. A leading "-" sorts descending.
var SortOptions = []SortOption{
	{Key: "-published_at", Label: "Newest"},
	{Key: "published_at", Label: "Oldest"},
	{Key: "title", Label: "Title A-Z"},
	{Key: "-title", Label: "Title Z-A"},
}

// State is the authoritative in-memory view record for a session.
type State struct {
	Page         int    `json:"page"`
	ItemsPerPage int    `json:"itemsPerPage"`
	SortBy       string `json:"sortBy"`
	TotalItems   int    `json:"totalItems"`
}

// Partial carries a possibly incomplete State. Zero values mean "absent";
// every valid page, size and sort value is non-zero.
type Partial struct {
	Page         int    `json:"page"`
	ItemsPerPage int    `json:"itemsPerPage"`
	SortBy       string `json:"sortBy"`
	TotalItems   int    `json:"totalItems"`
}

// Default returns the built-in starting state.
func Default() State {
	return State{
		Page:         DefaultPage,
		ItemsPerPage: DefaultItemsPerPage,
		SortBy:       DefaultSortBy,
	}
}

// TotalPages derives the page count from TotalItems and ItemsPerPage.
func (s State) TotalPages() int {
	if s.TotalItems <= 0 || s.ItemsPerPage <= 0 {
		return 0
	}
	return (s.TotalItems + s.ItemsPerPage - 1) / s.ItemsPerPage
}

// Clamped returns s with Page forced into [1, TotalPages]. When TotalPages is
// unknown (zero) only the lower bound applies.
func (s State) Clamped() State {
	if s.Page < 1 {
		s.Page = 1
	}
	if last := s.TotalPages(); last > 0 && s.Page > last {
		s.Page = last
	}
	return s
}

// ValidPageSize reports whether n is one of PageSizes.
func ValidPageSize(n int) bool {
	return slices.Contains(PageSizes, n)
}

// ValidSort reports whether key is one of SortOptions.
func ValidSort(key string) bool {
	return slices.ContainsFunc(SortOptions, func(o SortOption) bool { return o.Key == key })
}

// SortLabel returns the display label for key, or the key itself when unknown.
func SortLabel(key string) string {
	for _, o := range SortOptions {
		if o.Key == key {
			return o.Label
		}
	}
	return key
}

// NextPageSize returns the page size after current in PageSizes, wrapping.
func NextPageSize(current int) int {
	for i, n := range PageSizes {
		if n == current {
			return PageSizes[(i+1)%len(PageSizes)]
		}
	}
	return PageSizes[0]
}

// NextSort returns the sort key after current in SortOptions, wrapping.
func NextSort(current string) string {
	for i, o := range SortOptions {
		if o.Key == current {
			return SortOptions[(i+1)%len(SortOptions)].Key
		}
	}
	return SortOptions[0].Key
}

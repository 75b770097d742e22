package listing

import (
	"net/url"

	"github.com/google/go-querystring/query"

	"github.com/five82/ideas/internal/viewstate"
)

// DefaultIncludes are the image renditions requested with every page.
var DefaultIncludes = []string{"small_image", "medium_image"}

// QuerySpec is the normalized set of parameters sent to the listing API.
type QuerySpec struct {
	PageNumber int      `url:"page[number]"`
	PageSize   int      `url:"page[size]"`
	Includes   []string `url:"append,brackets"`
	SortBy     string   `url:"sort"`
}

// BuildQuery maps view state onto a QuerySpec field for field.
func BuildQuery(s viewstate.State) QuerySpec {
	includes := make([]string, len(DefaultIncludes))
	copy(includes, DefaultIncludes)
	return QuerySpec{
		PageNumber: s.Page,
		PageSize:   s.ItemsPerPage,
		Includes:   includes,
		SortBy:     s.SortBy,
	}
}

// Values encodes q as URL query parameters.
func (q QuerySpec) Values() (url.Values, error) {
	return query.Values(q)
}

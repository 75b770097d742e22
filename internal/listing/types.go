package listing

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Timestamp layouts the API has been seen to use for published_at.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05.000000Z",
	"2006-01-02",
}

// Page mirrors a successful listing response.
type Page struct {
	Data []Item `json:"data"`
	Meta Meta   `json:"meta"`
}

// Meta carries the pagination details of a response.
type Meta struct {
	CurrentPage int `json:"current_page"`
	From        int `json:"from"`
	To          int `json:"to"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// Summary renders the "Showing X - Y of Z" line.
func (m Meta) Summary() string {
	return fmt.Sprintf("Showing %s - %s of %s",
		humanize.Comma(int64(m.From)), humanize.Comma(int64(m.To)), humanize.Comma(int64(m.Total)))
}

// Image is one rendition of an item's picture.
type Image struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

// Item is one idea in the listing.
type Item struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	PublishedAt string  `json:"published_at"`
	SmallImage  []Image `json:"small_image"`
	MediumImage []Image `json:"medium_image"`
}

// Published parses PublishedAt, returning the zero time when it cannot.
func (i Item) Published() time.Time {
	return parseTime(i.PublishedAt)
}

// FormatDate renders the card date, e.g. "JANUARY 2, 2006". It returns an
// empty string for unparseable timestamps.
func (i Item) FormatDate() string {
	t := i.Published()
	if t.IsZero() {
		return ""
	}
	return strings.ToUpper(t.Format("January 2, 2006"))
}

// ThumbnailURL prefers the medium rendition, then the small one, then a
// placeholder keyed by the item ID.
func (i Item) ThumbnailURL() string {
	for _, set := range [][]Image{i.MediumImage, i.SmallImage} {
		for _, img := range set {
			if u := strings.TrimSpace(img.URL); u != "" {
				return u
			}
		}
	}
	return fmt.Sprintf("https://picsum.photos/400/250?random=%d", i.ID)
}

func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

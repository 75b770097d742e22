// Package pagination computes the windowed set of pagination controls for a
// listing.
package pagination

// Kind identifies a control.
type Kind int

const (
	KindPage Kind = iota
	KindEllipsis
	KindPrev
	KindNext
)

// windowRadius is how many pages are shown on each side of the current page.
const windowRadius = 2

// Control is one entry of a pagination window.
//
// Page controls carry Number and Active. Prev and next controls carry Target,
// the page they lead to. Ellipses carry nothing.
type Control struct {
	Kind     Kind
	Number   int
	Target   int
	Active   bool
	Disabled bool
}

// Window returns the controls for current out of last pages. It is empty when
// there is at most one page. current is clamped into [1, last].
//
// Layout: prev, [1, […]], current-2 … current+2, [[…], last], next. An
// ellipsis only stands in for a gap of two or more pages; a one-page gap shows
// the boundary page directly.
func Window(current, last int) []Control {
	if last <= 1 {
		return nil
	}
	current = min(max(current, 1), last)

	start := max(1, current-windowRadius)
	end := min(last, current+windowRadius)

	controls := make([]Control, 0, end-start+7)
	controls = append(controls, Control{
		Kind:     KindPrev,
		Target:   current - 1,
		Disabled: current == 1,
	})

	if start > 1 {
		controls = append(controls, page(1, current))
		if start > 2 {
			controls = append(controls, Control{Kind: KindEllipsis, Disabled: true})
		}
	}

	for n := start; n <= end; n++ {
		controls = append(controls, page(n, current))
	}

	if end < last {
		if end < last-1 {
			controls = append(controls, Control{Kind: KindEllipsis, Disabled: true})
		}
		controls = append(controls, page(last, current))
	}

	controls = append(controls, Control{
		Kind:     KindNext,
		Target:   current + 1,
		Disabled: current == last,
	})
	return controls
}

func page(n, current int) Control {
	return Control{Kind: KindPage, Number: n, Active: n == current}
}

// Pages returns the page numbers present in controls, in order.
func Pages(controls []Control) []int {
	var pages []int
	for _, c := range controls {
		if c.Kind == KindPage {
			pages = append(pages, c.Number)
		}
	}
	return pages
}

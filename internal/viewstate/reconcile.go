package viewstate

// Reconcile merges the persisted record and the address bar values into a
// State. Each field is resolved on its own with the precedence
// address bar > persisted > default. Non-positive numbers and unknown sort
// keys count as absent and fall through to the next source.
// The resolved Page is never past the resolved total.
func Reconcile(persisted *Partial, fromURL Partial) State {
	out := Default()
	var stored Partial
	if persisted != nil {
		stored = *persisted
	}

	out.Page = firstPositive(fromURL.Page, stored.Page, out.Page)
	out.ItemsPerPage = firstPositive(fromURL.ItemsPerPage, stored.ItemsPerPage, out.ItemsPerPage)

	switch {
	case ValidSort(fromURL.SortBy):
		out.SortBy = fromURL.SortBy
	case ValidSort(stored.SortBy):
		out.SortBy = stored.SortBy
	}

	// TotalItems never comes from the address bar. A stored total that puts
	// the page past the end is stale for this view and is dropped, leaving the
	// page count unknown until the next fetch.
	if stored.TotalItems > 0 {
		out.TotalItems = stored.TotalItems
		if out.Page > out.TotalPages() {
			out.TotalItems = 0
		}
	}
	return out
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

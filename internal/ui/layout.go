package ui

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the header drops the
	// view URL and the command bar shortens.
	LayoutCompactWidth = 100

	// MinCardWidth keeps cards readable; the grid drops columns below it.
	MinCardWidth = 28
)

// Vertical layout.
const (
	// bannerHeight is the banner band at rest, before parallax.
	bannerHeight = 5

	// headerRows is the header plus command bar.
	headerRows = 2

	// footerRows is the pagination line plus the summary line.
	footerRows = 2

	// scrolledRows and hideRows are the card scroll offsets at which the
	// header turns compact and at which it hides while scrolling down.
	scrolledRows = 2
	hideRows     = 4

	helpWidth = 44
)

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/ideas/internal/viewstate"
)

// headerTracker follows the cards scroll offset. The header turns compact
// once the cards have scrolled, and hides while the user scrolls down past
// the banner.
type headerTracker struct {
	lastY    int
	scrolled bool
	hidden   bool
}

func (h *headerTracker) observe(y int) {
	h.scrolled = y > scrolledRows
	h.hidden = y > h.lastY && y > hideRows
	h.lastY = y
}

func (h *headerTracker) reset() {
	*h = headerTracker{}
}

// renderHeader renders the logo, the shareable view URL and the listing
// options.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	view := m.snapshot.View
	parts := []string{bg.Render("ideas", styles.Logo)}

	if !m.header.scrolled && m.width >= LayoutCompactWidth && m.bar != nil {
		parts = append(parts, bg.Render(truncateMiddle(m.bar.String(), m.width/2), styles.AccentText))
	}
	parts = append(parts,
		bg.Render("Sort:", styles.MutedText)+bg.Space()+bg.Render(viewstate.SortLabel(view.SortBy), styles.Text),
		bg.Render("Per page:", styles.MutedText)+bg.Space()+bg.Render(fmt.Sprintf("%d", view.ItemsPerPage), styles.Text),
	)
	if status := m.renderPhase(styles, bg); status != "" {
		parts = append(parts, status)
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

// renderCommandBar lists the active key bindings.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	commands := []cmd{
		{"←/→", "Page"},
		{"g/G", "First/Last"},
		{"s", "Size"},
		{"o", "Sort"},
		{"r", "Reload"},
	}
	if m.width >= LayoutCompactWidth {
		commands = append(commands,
			cmd{"0-9", "Go to"},
			cmd{"c", fmt.Sprintf("Cols %d", m.columns)},
		)
	}
	commands = append(commands, cmd{"?", "More"}, cmd{"q", "Quit"})

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	if m.jump != "" {
		segments = append(segments, bg.Render("page "+m.jump+"_", styles.WarningText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

// renderPhase shows the request lifecycle in the header.
func (m Model) renderPhase(styles Styles, bg BgStyle) string {
	switch {
	case m.loading():
		return bg.Render(m.spinner.View()+" Loading", styles.WarningText)
	case m.snapshot.LastError != nil && m.snapshot.HasPage:
		return bg.Render("● stale", styles.DangerText)
	}
	return ""
}

// headerHeight is how many rows the header takes in the current frame.
func (m Model) headerHeight() int {
	if m.header.hidden {
		return 0
	}
	return headerRows
}

func (m Model) renderTop() string {
	if m.header.hidden {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), m.renderCommandBar())
}

package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/five82/ideas/internal/pagination"
)

// renderControls draws the pagination window, e.g. "‹ 1 … 4 5 6 … 10 ›".
func renderControls(window []pagination.Control, styles Styles) string {
	if len(window) == 0 {
		return ""
	}
	parts := make([]string, 0, len(window))
	for _, c := range window {
		parts = append(parts, renderControl(c, styles))
	}
	return strings.Join(parts, "")
}

func renderControl(c pagination.Control, styles Styles) string {
	switch c.Kind {
	case pagination.KindPrev:
		return controlStyle(c, styles).Render("‹")
	case pagination.KindNext:
		return controlStyle(c, styles).Render("›")
	case pagination.KindEllipsis:
		return styles.PageDisabled.Render("…")
	default:
		return controlStyle(c, styles).Render(fmt.Sprintf("%d", c.Number))
	}
}

func controlStyle(c pagination.Control, styles Styles) lipgloss.Style {
	switch {
	case c.Active:
		return styles.PageActive
	case c.Disabled:
		return styles.PageDisabled
	default:
		return styles.PageButton
	}
}

// renderFooter draws the pagination controls and the summary line.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	snap := m.snapshot

	controls := renderControls(snap.Window, styles)
	pager := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, controls)

	var info []string
	if summary := snap.Summary(); summary != "" {
		info = append(info, summary)
	}
	if snap.HasPage && !snap.LastUpdated.IsZero() {
		info = append(info, "updated "+lastUpdatedAge(snap.LastUpdated, time.Now()))
	}
	if m.notice != "" {
		info = append(info, m.notice)
	}
	status := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, styles.MutedText.Render(strings.Join(info, "  ·  ")))

	return pager + "\n" + status
}

// lastUpdatedAge renders how long ago the listing was fetched.
func lastUpdatedAge(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

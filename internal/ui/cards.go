package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/five82/ideas/internal/listing"
	"github.com/five82/ideas/internal/state"
)

const (
	noIdeasText     = "No ideas found."
	loadFailedText  = "Failed to load ideas. Press r to retry."
	loadingText     = "Loading ideas…"
	cardTitleLines  = 2
	cardBorderWidth = 4 // rounded border plus horizontal padding
)

// gridColumns is how many cards fit per row, at most want.
func gridColumns(width, want int) int {
	cols := max(want, 1)
	for cols > 1 && width/cols < MinCardWidth {
		cols--
	}
	return cols
}

// renderCardsContent builds the scrollable body for the current snapshot.
func (m Model) renderCardsContent(width int) string {
	snap := m.snapshot
	styles := m.theme.Styles()

	switch {
	case !snap.HasPage && snap.Phase == state.PhaseFailed:
		return m.renderPanel(width, styles.DangerText.Render(loadFailedText), failureDetail(snap))
	case !snap.HasPage:
		return m.renderPanel(width, styles.WarningText.Render(m.spinner.View()+" "+loadingText), "")
	case len(snap.Items) == 0:
		return m.renderPanel(width, styles.MutedText.Render(noIdeasText), "")
	}

	var out []string
	if snap.Phase == state.PhaseFailed {
		out = append(out, styles.DangerText.Render(loadFailedText)+"  "+styles.FaintText.Render(failureDetail(snap)), "")
	}
	out = append(out, m.renderGrid(snap.Items, width, time.Now()))
	return strings.Join(out, "\n")
}

func failureDetail(snap state.Snapshot) string {
	if snap.LastError == nil {
		return ""
	}
	detail := truncate(snap.LastError.Error(), 120)
	if n := snap.ConsecutiveFailures; n > 1 {
		detail = fmt.Sprintf("%s (%d failures in a row)", detail, n)
	}
	return detail
}

// renderPanel centers a message in the cards area.
func (m Model) renderPanel(width int, headline, detail string) string {
	body := headline
	if detail != "" {
		body += "\n" + m.theme.Styles().FaintText.Render(detail)
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		PaddingTop(2).
		Render(body)
}

// renderGrid lays items out in rows of cards.
func (m Model) renderGrid(items []listing.Item, width int, now time.Time) string {
	cols := gridColumns(width, m.columns)
	cardWidth := width / cols

	rows := make([]string, 0, (len(items)+cols-1)/cols)
	for start := 0; start < len(items); start += cols {
		end := min(start+cols, len(items))
		cards := make([]string, 0, cols)
		for _, item := range items[start:end] {
			cards = append(cards, m.renderCard(item, cardWidth, now))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderCard draws one idea: date, title, relative age and thumbnail.
func (m Model) renderCard(item listing.Item, width int, now time.Time) string {
	styles := m.theme.Styles()
	inner := max(width-cardBorderWidth, 1)

	date := item.FormatDate()
	age := ""
	if published := item.Published(); !published.IsZero() {
		age = humanize.RelTime(published, now, "ago", "from now")
	}

	title := wrapLines(item.Title, inner, cardTitleLines)
	for len(title) < cardTitleLines {
		title = append(title, "")
	}

	lines := []string{
		styles.AccentText.Render(padRight(truncate(date, inner), inner)),
		styles.Text.Bold(true).Render(title[0]),
		styles.Text.Bold(true).Render(title[1]),
		styles.MutedText.Render(truncate(age, inner)),
		styles.FaintText.Render(truncateMiddle(item.ThumbnailURL(), inner)),
	}

	return styles.Card.
		Width(width - 2).
		Render(strings.Join(lines, "\n"))
}

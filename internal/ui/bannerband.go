package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/ideas/internal/banner"
)

// bannerRows is the visible height of the banner band for a scroll offset.
// The band scrolls away at half the speed of the cards.
func bannerRows(scrollY int) int {
	return max(bannerHeight-banner.ParallaxOffset(scrollY), 0)
}

// renderBanner draws the title band. A clip path gives the band a slanted
// bottom edge.
func (m Model) renderBanner(rows int) string {
	if rows <= 0 || m.width <= 0 {
		return ""
	}
	styles := m.theme.Styles()
	band := styles.Banner.Width(m.width).Align(lipgloss.Center)

	body := []string{
		"",
		lipgloss.NewStyle().Bold(true).Render(m.banner.Title),
		m.banner.Subtitle,
	}
	if m.banner.ImageURL != "" {
		body = append(body, lipgloss.NewStyle().Faint(true).Render(truncateMiddle(m.banner.ImageURL, m.width-4)))
	}
	for len(body) < bannerHeight {
		body = append(body, "")
	}

	// Scroll the band content up as it collapses.
	body = body[len(body)-rows:]

	lines := make([]string, 0, rows)
	for i, line := range body {
		if m.banner.ClipPath != "" && i == len(body)-1 && rows > 1 {
			lines = append(lines, m.slantedEdge())
			continue
		}
		lines = append(lines, band.Render(line))
	}
	return strings.Join(lines, "\n")
}

// slantedEdge fills the band's last row from the left, sloping down to the
// right like the clip polygon's bottom edge.
func (m Model) slantedEdge() string {
	filled := m.width * 3 / 4
	fill := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.BannerBg)).
		Render(strings.Repeat("▀", filled))
	ramp := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.BannerBg)).
		Render(strings.Repeat("▔", max(m.width-filled, 0)))
	return fill + ramp
}

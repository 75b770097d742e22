package ui

import "strings"

// truncate shortens a string to the given limit, adding an ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 1 {
		return string(runes[:limit])
	}
	return string(runes[:limit-1]) + "…"
}

// truncateMiddle shortens a string by removing characters from the middle so
// both the scheme/host and the file name of a URL stay visible.
func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || value == "" {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	keep := limit - 1
	prefix := keep / 2
	suffix := keep - prefix
	return string(runes[:prefix]) + "…" + string(runes[len(runes)-suffix:])
}

// wrapLines splits text into at most maxLines lines of width runes, breaking
// on spaces. The last line is truncated when text does not fit.
func wrapLines(text string, width, maxLines int) []string {
	words := strings.Fields(text)
	if width <= 0 || maxLines <= 0 || len(words) == 0 {
		return nil
	}

	var lines []string
	cur := ""
	for i, w := range words {
		if cur == "" {
			cur = w
			continue
		}
		if len([]rune(cur))+1+len([]rune(w)) <= width {
			cur += " " + w
			continue
		}
		if len(lines) == maxLines-1 {
			return append(lines, truncate(cur+" "+strings.Join(words[i:], " "), width))
		}
		lines = append(lines, truncate(cur, width))
		cur = w
	}
	return append(lines, truncate(cur, width))
}

// padRight pads a string with spaces to the given width.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(r))
}

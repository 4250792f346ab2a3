package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

// truncate shortens a string to the given display width, adding ellipsis if
// needed. Wide characters count as two cells.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || runewidth.StringWidth(value) <= limit {
		return value
	}
	if limit <= 3 {
		return runewidth.Truncate(value, limit, "")
	}
	return runewidth.Truncate(value, limit, "...")
}

// padRight pads a string with spaces to the given display width.
func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if width <= 0 || w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// formatPassengers renders a yearly passenger count, e.g. "1.2M pax".
func formatPassengers(n int64) string {
	if n <= 0 {
		return "-"
	}
	if n < 1000 {
		return humanize.Comma(n) + " pax"
	}
	value, suffix := humanize.ComputeSI(float64(n))
	return humanize.FtoaWithDigits(value, 1) + strings.ToUpper(suffix) + " pax"
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

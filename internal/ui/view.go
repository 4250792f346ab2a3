package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/flightsearch/internal/flightdb"
	"github.com/five82/flightsearch/internal/state"
)

const (
	starSaved   = "★"
	starUnsaved = "☆"
	codeWidth   = 5
)

func (m Model) renderMain() string {
	styles := m.theme.Styles()
	header := m.renderHeader(styles)
	search := m.renderSearch(styles)
	footer := m.renderFooter(styles)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		search,
		m.renderList(styles, m.listHeight()),
		footer,
	)
}

// listHeight is what remains of the window after the header, search box and
// footer.
func (m Model) listHeight() int {
	styles := m.theme.Styles()
	used := lipgloss.Height(m.renderHeader(styles)) +
		lipgloss.Height(m.renderSearch(styles)) +
		lipgloss.Height(m.renderFooter(styles))
	return max(m.height-used-2, 1)
}

func (m Model) renderHeader(styles Styles) string {
	left := styles.Logo.Render("flightsearch")
	right := styles.MutedText.Render(fmt.Sprintf("%s  %s", m.snap.Phase(), m.theme.Name))
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return styles.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderSearch(styles Styles) string {
	box := styles.Input
	if m.focus == focusInput {
		box = styles.InputFocus
	}
	return box.Width(max(m.width-2, 10)).Render(m.input.View())
}

func (m Model) renderList(styles Styles, height int) string {
	box := styles.Pane
	if m.focus == focusList {
		box = styles.PaneFocus
	}
	width := max(m.width-2, 10)

	title, lines := m.listContent(styles, width-2)
	body := []string{styles.AccentText.Bold(true).Render(title)}
	if len(lines) == 0 {
		body = append(body, styles.FaintText.Render(m.emptyMessage()))
	} else {
		if m.focus == focusList && m.cursor < len(lines) {
			lines[m.cursor] = styles.Selected.Width(width - 2).Render(lines[m.cursor])
		}
		list := m.list
		list.Width = width - 2
		list.Height = max(height-1, 1)
		list.SetContent(strings.Join(lines, "\n"))
		body = append(body, list.View())
	}
	return box.Width(width).Height(height).Render(strings.Join(body, "\n"))
}

func (m Model) listContent(styles Styles, width int) (string, []string) {
	switch m.snap.Phase() {
	case state.PhaseSelected:
		dep := m.snap.SelectedAirport
		lines := make([]string, 0, len(m.snap.Destinations))
		for _, dest := range m.snap.Destinations {
			lines = append(lines, m.destinationLine(styles, dep, dest, width))
		}
		return "Flights from " + dep.Label(), lines
	case state.PhaseTyping:
		lines := make([]string, 0, len(m.snap.Suggestions))
		for _, a := range m.snap.Suggestions {
			lines = append(lines, airportLine(styles, a, width))
		}
		return "Departure airports", lines
	default:
		favs := newestFirst(m.snap.Favorites)
		lines := make([]string, 0, len(favs))
		for _, f := range favs {
			lines = append(lines, styles.Star.Render(starSaved)+" "+styles.Code.Render(f.String()))
		}
		return "Favorite routes", lines
	}
}

func (m Model) destinationLine(styles Styles, dep, dest flightdb.Airport, width int) string {
	star := styles.FaintText.Render(starUnsaved)
	if m.snap.IsSaved(flightdb.Route(dep, dest)) {
		star = styles.Star.Render(starSaved)
	}
	return star + " " + airportLine(styles, dest, width-2)
}

func airportLine(styles Styles, a flightdb.Airport, width int) string {
	pax := formatPassengers(a.Passengers)
	nameWidth := max(width-codeWidth-len(pax)-2, 8)
	return styles.Code.Render(padRight(a.IATACode, codeWidth)) +
		styles.Text.Render(padRight(truncate(a.Name, nameWidth), nameWidth)) + "  " +
		styles.MutedText.Render(pax)
}

func (m Model) emptyMessage() string {
	switch m.snap.Phase() {
	case state.PhaseSelected:
		return "No destinations yet"
	case state.PhaseTyping:
		return "No matching airports"
	default:
		return "No favorite routes. Search for a departure airport to add some."
	}
}

func (m Model) renderFooter(styles Styles) string {
	var hints []string
	if m.focus == focusInput {
		hints = []string{"type to search", "enter/tab list", "esc clear", "ctrl+c quit"}
	} else {
		switch m.snap.Phase() {
		case state.PhaseSelected:
			hints = []string{"space star", "/ search", "? help", "q quit"}
		case state.PhaseTyping:
			hints = []string{"enter select", "/ search", "? help", "q quit"}
		default:
			hints = []string{"d delete", "/ search", "? help", "q quit"}
		}
	}
	return styles.Footer.Render(strings.Join(hints, " · "))
}

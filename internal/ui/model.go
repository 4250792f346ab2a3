package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/flightsearch/internal/flightdb"
	"github.com/five82/flightsearch/internal/state"
)

// Controller is the state machine surface the UI drives. *state.Machine
// implements it.
type Controller interface {
	SetText(text string)
	ClearText()
	SelectAirport(a flightdb.Airport)
	AddFavoriteCandidate(fav flightdb.Favorite)
	RemoveFavoriteCandidate(fav flightdb.Favorite)
	Snapshot() state.SearchState
}

var _ Controller = (*state.Machine)(nil)

// ThemeStore persists the selected theme. *prefs.Store implements it.
type ThemeStore interface {
	Theme() string
	SaveTheme(name string) error
}

// Options configures the UI.
type Options struct {
	Controller Controller
	Changes    <-chan struct{}
	Themes     ThemeStore
	Logger     zerolog.Logger
}

type focus int

const (
	focusInput focus = iota
	focusList
)

// Model is the root application state for Bubble Tea.
type Model struct {
	ctrl    Controller
	changes <-chan struct{}
	themes  ThemeStore
	logger  zerolog.Logger
	keys    keyMap

	theme  Theme
	width  int
	height int
	ready  bool

	input    textinput.Model
	list     viewport.Model
	focus    focus
	cursor   int
	showHelp bool

	snap state.SearchState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	themeName := ""
	if opts.Themes != nil {
		themeName = opts.Themes.Theme()
	}

	input := textinput.New()
	input.Placeholder = "Search airports by code or name"
	input.Prompt = "✈ "
	input.CharLimit = 64

	m := Model{
		ctrl:    opts.Controller,
		changes: opts.Changes,
		themes:  opts.Themes,
		logger:  opts.Logger,
		keys:    DefaultKeyMap(),
		theme:   GetTheme(themeName),
		input:   input,
		list:    viewport.New(0, 0),
		focus:   focusInput,
	}
	if m.ctrl != nil {
		m.snap = m.ctrl.Snapshot()
		m.input.SetValue(m.snap.TextInput)
	}
	m.input.Focus()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForChange(m.changes))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	nm, ok := next.(Model)
	if !ok {
		return next, cmd
	}
	nm.followCursor()
	return nm, cmd
}

func (m Model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-8, 10)
		m.list.Width = max(msg.Width-4, 8)
		m.ready = true
		return m, nil

	case stateChangedMsg:
		m.refresh()
		return m, waitForChange(m.changes)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Tab):
		m.toggleFocus()
		return m, nil
	}

	if m.focus == focusInput {
		return m.handleInputKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.SetValue("")
		m.ctrl.ClearText()
		m.refresh()
		return m, nil
	case "enter", "down":
		if len(m.rows()) > 0 {
			m.toggleFocus()
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.ctrl.SetText(after)
		m.cursor = 0
		m.refresh()
	}
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.rows())

	switch {
	case key.Matches(msg, m.keys.QuitList):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.EditSearch):
		m.toggleFocus()
	case key.Matches(msg, m.keys.Down):
		if m.cursor < n-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = max(n-1, 0)
	case key.Matches(msg, m.keys.Select):
		m.selectCurrent()
	case key.Matches(msg, m.keys.ToggleStar):
		m.toggleStar()
	case key.Matches(msg, m.keys.Delete):
		m.deleteFavorite()
	}
	return m, nil
}

func (m *Model) toggleFocus() {
	if m.focus == focusInput {
		m.focus = focusList
		m.input.Blur()
		return
	}
	m.focus = focusInput
	m.input.Focus()
}

// selectCurrent picks the highlighted suggestion as the departure airport.
func (m *Model) selectCurrent() {
	if m.snap.Phase() != state.PhaseTyping || m.cursor >= len(m.snap.Suggestions) {
		return
	}
	m.ctrl.SelectAirport(m.snap.Suggestions[m.cursor])
	m.cursor = 0
	m.refresh()
}

func (m *Model) toggleStar() {
	if m.snap.Phase() != state.PhaseSelected || m.cursor >= len(m.snap.Destinations) {
		return
	}
	fav := flightdb.Route(m.snap.SelectedAirport, m.snap.Destinations[m.cursor])
	if m.snap.IsSaved(fav) {
		m.ctrl.RemoveFavoriteCandidate(fav)
	} else {
		m.ctrl.AddFavoriteCandidate(fav)
	}
	m.refresh()
}

func (m *Model) deleteFavorite() {
	if m.snap.Phase() != state.PhaseIdle {
		return
	}
	favs := newestFirst(m.snap.Favorites)
	if m.cursor >= len(favs) {
		return
	}
	m.ctrl.RemoveFavoriteCandidate(favs[m.cursor])
	m.refresh()
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	if m.themes == nil {
		return
	}
	if err := m.themes.SaveTheme(m.theme.Name); err != nil {
		m.logger.Warn().Err(err).Str("theme", m.theme.Name).Msg("save theme failed")
	}
}

// followCursor sizes the list viewport and scrolls it so the cursor row is
// visible.
func (m *Model) followCursor() {
	m.list.Height = max(m.listHeight()-1, 1)
	m.list.SetContent(strings.Join(m.rows(), "\n"))

	switch {
	case m.cursor < m.list.YOffset:
		m.list.SetYOffset(m.cursor)
	case m.cursor >= m.list.YOffset+m.list.Height:
		m.list.SetYOffset(m.cursor - m.list.Height + 1)
	}
}

// refresh pulls the latest state and keeps the cursor in range.
func (m *Model) refresh() {
	if m.ctrl == nil {
		return
	}
	m.snap = m.ctrl.Snapshot()
	m.cursor = clamp(m.cursor, 0, max(len(m.rows())-1, 0))
}

// rows labels the list for the current phase: favorites when idle,
// suggestions while typing, destinations once a departure is selected.
func (m Model) rows() []string {
	switch m.snap.Phase() {
	case state.PhaseSelected:
		out := make([]string, len(m.snap.Destinations))
		for i, a := range m.snap.Destinations {
			out[i] = a.IATACode
		}
		return out
	case state.PhaseTyping:
		out := make([]string, len(m.snap.Suggestions))
		for i, a := range m.snap.Suggestions {
			out[i] = a.IATACode
		}
		return out
	default:
		favs := newestFirst(m.snap.Favorites)
		out := make([]string, len(favs))
		for i, f := range favs {
			out[i] = f.String()
		}
		return out
	}
}

func newestFirst(favs []flightdb.Favorite) []flightdb.Favorite {
	out := make([]flightdb.Favorite, len(favs))
	for i, f := range favs {
		out[len(favs)-1-i] = f
	}
	return out
}

// Messages

type stateChangedMsg struct{}

// Commands

func waitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return stateChangedMsg{}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	if opts.Controller == nil {
		return errors.New("ui requires a state controller")
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

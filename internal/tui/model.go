// Package tui is the interactive attendance grid browser.
package tui

import (
	"math"
	"strings"

	"github.com/Veraticus/punchgrid/internal/report"
	"github.com/Veraticus/punchgrid/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

// Cell markers shown next to times, since the table cannot color single cells.
const (
	lateMarker      = "!"
	estimatedMarker = "*"
)

// chrome is the number of lines taken by title, status bar and help.
const chrome = 6

// Config configures the browser.
type Config struct {
	Title  string
	Theme  themes.Theme
	Width  int
	Height int
}

// DefaultConfig returns sensible defaults for an 80x24 terminal.
func DefaultConfig() Config {
	return Config{
		Title:  "Attendance",
		Theme:  themes.Default,
		Width:  80,
		Height: 24,
	}
}

// Model holds the browser state.
type Model struct {
	theme    themes.Theme
	layout   report.Layout
	title    string
	keymap   KeyMap
	help     help.Model
	table    table.Model
	visible  []int // indices into layout.Body currently shown
	width    int
	height   int
	lateOnly bool
	quitting bool
}

// New builds a browser over layout.
func New(layout report.Layout, cfg Config) Model {
	m := Model{
		theme:  cfg.Theme,
		layout: layout,
		title:  cfg.Title,
		keymap: DefaultKeyMap(),
		help:   help.New(),
		width:  cfg.Width,
		height: cfg.Height,
	}

	styles := table.DefaultStyles()
	styles.Header = cfg.Theme.Header
	styles.Selected = cfg.Theme.Selected

	m.table = table.New(
		table.WithColumns(columns(layout)),
		table.WithFocused(true),
		table.WithStyles(styles),
	)
	tableKeys := table.DefaultKeyMap()
	tableKeys.LineUp = m.keymap.Up
	tableKeys.LineDown = m.keymap.Down
	tableKeys.PageUp = m.keymap.PageUp
	tableKeys.PageDown = m.keymap.PageDown
	tableKeys.GotoTop = m.keymap.Home
	tableKeys.GotoBottom = m.keymap.End
	m.table.KeyMap = tableKeys
	m.refreshRows()
	m.resize()
	return m
}

// columns flattens the two header rows into table columns.
func columns(layout report.Layout) []table.Column {
	cols := make([]table.Column, layout.Columns)
	top, sub := layout.Header[0], layout.Header[1]
	for i := range cols {
		title := top[i]
		if i >= report.FirstEmployeeColumn-1 {
			title = strings.TrimSpace(top[i] + " " + sub[i])
		}
		width := int(math.Ceil(layout.Widths[i]))
		if w := len([]rune(title)); w > width {
			width = w
		}
		cols[i] = table.Column{Title: title, Width: width}
	}
	return cols
}

func (m *Model) refreshRows() {
	m.visible = m.visible[:0]
	rows := make([]table.Row, 0, len(m.layout.Body))
	for i, cells := range m.layout.Body {
		if m.lateOnly && !hasLate(cells) {
			continue
		}
		m.visible = append(m.visible, i)
		rows = append(rows, rowText(cells))
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func rowText(cells []report.Cell) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		text := c.Text
		switch {
		case c.Flags.Late:
			text += lateMarker
		case c.Flags.Estimated:
			text += estimatedMarker
		}
		row[i] = text
	}
	return row
}

func hasLate(cells []report.Cell) bool {
	for _, c := range cells {
		if c.Flags.Late {
			return true
		}
	}
	return false
}

func (m *Model) resize() {
	m.table.SetHeight(max(m.height-chrome, 3))
	m.table.SetWidth(m.width)
	m.help.Width = m.width
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keymap.LateOnly):
			m.lateOnly = !m.lateOnly
			m.refreshRows()
			return m, nil
		case key.Matches(msg, m.keymap.NextWeek):
			m.jumpWeek(1)
			return m, nil
		case key.Matches(msg, m.keymap.PrevWeek):
			m.jumpWeek(-1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// jumpWeek moves the cursor to the next or previous Monday row.
func (m *Model) jumpWeek(dir int) {
	for i := m.table.Cursor() + dir; i >= 0 && i < len(m.visible); i += dir {
		cells := m.layout.Body[m.visible[i]]
		if len(cells) > 0 && cells[0].Flags.WeekStart {
			m.table.SetCursor(i)
			return
		}
	}
	if dir < 0 {
		m.table.GotoTop()
	} else {
		m.table.GotoBottom()
	}
}

// Selected returns the layout row under the cursor, or nil if there is none.
func (m Model) Selected() []report.Cell {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.visible) {
		return nil
	}
	return m.layout.Body[m.visible[i]]
}

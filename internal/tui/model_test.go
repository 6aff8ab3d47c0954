package tui

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/punchgrid/internal/model"
	"github.com/Veraticus/punchgrid/internal/report"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoWeeks lays out Mon 2024-01-01 through Wed 2024-01-10 with late
// check-ins on the 3rd and the 9th.
func twoWeeks() report.Layout {
	grid := model.Grid{Employees: []string{"Alice"}}
	for d := model.NewCalendarDate(2024, time.January, 1); !d.After(model.NewCalendarDate(2024, time.January, 10)); d = d.AddDays(1) {
		if d.IsWeekend() {
			continue
		}
		in := "08:00:00"
		if d.Day == 3 || d.Day == 9 {
			in = "09:10:00"
		}
		grid.Rows = append(grid.Rows, model.CalendarRow{
			Date:         d,
			WeekdayLabel: d.Weekday().String()[:3],
			Cells: []model.CellPair{{
				CheckIn:  model.CellValue{Text: in},
				CheckOut: model.CellValue{Text: "17:00:00"},
			}},
		})
	}
	return report.DefaultStyle().Layout(grid)
}

func press(t *testing.T, m Model, keys string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, r := range keys {
		var next tea.Model
		next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	return m, cmd
}

func TestModel_Rows(t *testing.T) {
	m := New(twoWeeks(), DefaultConfig())

	require.Len(t, m.visible, 8)
	assert.Equal(t, "2024/01/01", m.Selected()[0].Text)

	rows := m.table.Rows()
	assert.Equal(t, "09:10:00"+lateMarker, rows[2][3])
	assert.Equal(t, "08:00:00", rows[0][3])
}

func TestModel_WeekJumps(t *testing.T) {
	m := New(twoWeeks(), DefaultConfig())

	m, _ = press(t, m, "]")
	assert.Equal(t, "2024/01/08", m.Selected()[0].Text)

	m, _ = press(t, m, "]")
	assert.Equal(t, "2024/01/10", m.Selected()[0].Text, "no later Monday goes to the end")

	m, _ = press(t, m, "[")
	assert.Equal(t, "2024/01/08", m.Selected()[0].Text)

	m, _ = press(t, m, "[[")
	assert.Equal(t, "2024/01/01", m.Selected()[0].Text)
}

func TestModel_LateOnly(t *testing.T) {
	m := New(twoWeeks(), DefaultConfig())
	m, _ = press(t, m, "G")
	assert.Equal(t, "2024/01/10", m.Selected()[0].Text)

	m, _ = press(t, m, "f")
	require.Len(t, m.visible, 2)
	assert.Equal(t, "2024/01/09", m.Selected()[0].Text, "cursor is clamped to the last visible row")
	assert.Contains(t, m.View(), "late days only")
	assert.Contains(t, m.View(), "(of 8)")

	m, _ = press(t, m, "f")
	assert.Len(t, m.visible, 8)
}

func TestModel_Quit(t *testing.T) {
	m := New(twoWeeks(), DefaultConfig())
	m, cmd := press(t, m, "q")

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestModel_ResizeAndView(t *testing.T) {
	m := New(twoWeeks(), DefaultConfig())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)

	assert.Equal(t, 120, m.width)
	assert.Equal(t, 120, m.help.Width)

	view := m.View()
	assert.Contains(t, view, "Attendance")
	assert.Contains(t, view, "Alice Check-in")
	assert.Contains(t, view, "row 1/8")
	assert.Contains(t, view, "2 late")

	m, _ = press(t, m, "?")
	assert.True(t, m.help.ShowAll)
}

func TestColumns(t *testing.T) {
	cols := columns(twoWeeks())
	require.Len(t, cols, 5)
	assert.Equal(t, "Date", cols[0].Title)
	assert.Equal(t, 16, cols[0].Width)
	assert.Equal(t, "Alice Check-in", cols[3].Title)
	assert.Equal(t, len("Alice Check-in"), cols[3].Width)
	assert.Equal(t, "Check-out", cols[4].Title)
}

func TestRun_EmptyLayout(t *testing.T) {
	assert.Error(t, Run(context.Background(), report.Layout{}, DefaultConfig()))
}

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/punchgrid/internal/engine"
	"github.com/Veraticus/punchgrid/internal/model"
	"github.com/Veraticus/punchgrid/internal/punch"
	"github.com/Veraticus/punchgrid/internal/report"
	"github.com/stretchr/testify/assert"
)

func previewGrid(days int) model.Grid {
	grid := model.Grid{Employees: []string{"Alice", "Bob"}}
	date := model.NewCalendarDate(2024, time.January, 1)
	for i := 0; i < days; i++ {
		grid.Rows = append(grid.Rows, model.CalendarRow{
			Date:         date.AddDays(i),
			WeekdayLabel: "Mon",
			Cells: []model.CellPair{
				{CheckIn: model.CellValue{Text: "08:45:00"}, CheckOut: model.CellValue{Text: "17:00:00"}},
				{CheckIn: model.CellValue{Text: "08:00:00"}, CheckOut: model.CellValue{Text: "08:00:00", Estimated: true}},
			},
		})
	}
	return grid
}

func TestRenderLayout(t *testing.T) {
	layout := report.DefaultStyle().Layout(previewGrid(2))
	out := RenderLayout(layout, 0)

	for _, want := range []string{"Date", "Weekday", "Alice", "Bob", "Check-in", "Check-out", "2024/01/01", "2024/01/02", "08:45:00"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "more rows")
}

func TestRenderLayout_Limit(t *testing.T) {
	layout := report.DefaultStyle().Layout(previewGrid(5))
	out := RenderLayout(layout, 2)

	assert.Contains(t, out, "2024/01/02")
	assert.NotContains(t, out, "2024/01/03")
	assert.Contains(t, out, "3 more rows")
}

func TestHeaderLabels(t *testing.T) {
	layout := report.DefaultStyle().Layout(previewGrid(1))
	labels := headerLabels(layout)

	assert.Equal(t, []string{
		"Date", "Weekday", "Note",
		"Alice\nCheck-in", "\nCheck-out",
		"Bob\nCheck-in", "\nCheck-out",
	}, labels)
}

func TestRenderSummary(t *testing.T) {
	summary := engine.Summary{
		First:     model.NewCalendarDate(2024, time.January, 1),
		Last:      model.NewCalendarDate(2024, time.January, 31),
		Records:   120,
		Punches:   118,
		Skipped:   2,
		Employees: 3,
		Rows:      23,
	}
	out := RenderSummary(summary, report.Counts{Late: 4, Estimated: 1})

	assert.Contains(t, out, "Attendance Summary")
	assert.Contains(t, out, "Records read: 120")
	assert.Contains(t, out, "Business days: 23")
	assert.Contains(t, out, "Late check-ins: 4")
	assert.Contains(t, out, "Estimated cells: 1")
}

func TestRenderSkipped(t *testing.T) {
	assert.Empty(t, RenderSkipped(nil, 0))

	var skipped []punch.Skipped
	for i := 1; i <= 4; i++ {
		skipped = append(skipped, punch.Skipped{
			Err:    errors.New("bad timestamp"),
			Record: model.RawRecord{Source: fmt.Sprintf("in.xlsx:%d", i)},
		})
	}
	out := RenderSkipped(skipped, 2)

	assert.Contains(t, out, "4 records skipped")
	assert.Contains(t, out, "in.xlsx:1")
	assert.Contains(t, out, "in.xlsx:2")
	assert.NotContains(t, out, "in.xlsx:3")
	assert.Contains(t, out, "and 2 more")
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, 2, "Importing")
	p.Step("a.xlsx")
	p.Step("b.xlsx")
	p.Done()
	assert.True(t, strings.Contains(buf.String(), "2/2"))

	var nilProgress *Progress
	assert.NotPanics(t, func() {
		nilProgress.Step("x")
		nilProgress.Done()
	})
}

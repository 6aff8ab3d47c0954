package report

import (
	"time"

	"github.com/Veraticus/punchgrid/internal/model"
)

// Fixed column positions, 1-based as in spreadsheet coordinates.
const (
	DateColumn          = 1
	WeekdayColumn       = 2
	NoteColumn          = 3
	FirstEmployeeColumn = 4

	HeaderRows   = 2
	FirstBodyRow = HeaderRows + 1
)

// Flags is the conditional formatting of one body cell.
type Flags struct {
	Late      bool
	Estimated bool
	WeekStart bool
}

// Cell is one laid out body cell.
type Cell struct {
	Text  string
	Flags Flags
}

// Merge is an inclusive, 1-based cell range rendered as one cell.
type Merge struct {
	FromRow, FromCol int
	ToRow, ToCol     int
}

// Layout is a renderer-neutral description of the grid. Every output
// (xlsx, Google Sheets, terminal) is driven from the same layout.
type Layout struct {
	Header  [HeaderRows][]string
	Merges  []Merge
	Body    [][]Cell
	Widths  []float64
	Columns int
}

// EmployeeColumn returns the check-in column of the i-th employee.
func EmployeeColumn(i int) int {
	return FirstEmployeeColumn + 2*i
}

// Layout computes header, merges, column widths and flagged body cells.
func (s Style) Layout(grid model.Grid) Layout {
	columns := NoteColumn + 2*len(grid.Employees)
	l := Layout{Columns: columns}

	top := make([]string, columns)
	sub := make([]string, columns)
	top[DateColumn-1] = s.Labels.Date
	top[WeekdayColumn-1] = s.Labels.Weekday
	top[NoteColumn-1] = s.Labels.Note
	for _, col := range []int{DateColumn, WeekdayColumn, NoteColumn} {
		l.Merges = append(l.Merges, Merge{FromRow: 1, FromCol: col, ToRow: HeaderRows, ToCol: col})
	}
	for i, name := range grid.Employees {
		col := EmployeeColumn(i)
		top[col-1] = name
		sub[col-1] = s.Labels.CheckIn
		sub[col] = s.Labels.CheckOut
		l.Merges = append(l.Merges, Merge{FromRow: 1, FromCol: col, ToRow: 1, ToCol: col + 1})
	}
	l.Header = [HeaderRows][]string{top, sub}

	l.Widths = make([]float64, columns)
	l.Widths[DateColumn-1] = s.DateWidth
	l.Widths[WeekdayColumn-1] = s.WeekdayWidth
	l.Widths[NoteColumn-1] = s.NoteWidth
	for col := FirstEmployeeColumn; col <= columns; col++ {
		l.Widths[col-1] = s.EmployeeWidth
	}

	l.Body = make([][]Cell, 0, len(grid.Rows))
	for _, row := range grid.Rows {
		l.Body = append(l.Body, s.layoutRow(row, columns))
	}
	return l
}

func (s Style) layoutRow(row model.CalendarRow, columns int) []Cell {
	weekStart := row.Date.Weekday() == time.Monday

	cells := make([]Cell, 0, columns)
	for _, text := range []string{row.Date.Format(s.DateLayout), row.WeekdayLabel, row.Note} {
		cells = append(cells, Cell{Text: text, Flags: Flags{WeekStart: weekStart}})
	}
	for _, pair := range row.Cells {
		cells = append(cells,
			Cell{
				Text: pair.CheckIn.Text,
				Flags: Flags{
					Late:      s.IsLate(pair.CheckIn.Text),
					Estimated: pair.CheckIn.Estimated,
					WeekStart: weekStart,
				},
			},
			Cell{
				Text: pair.CheckOut.Text,
				Flags: Flags{
					Estimated: pair.CheckOut.Estimated,
					WeekStart: weekStart,
				},
			},
		)
	}
	return cells
}

// Counts tallies flagged body cells.
type Counts struct {
	Late      int
	Estimated int
}

// Count returns how many body cells carry each flag.
func (l Layout) Count() Counts {
	var c Counts
	for _, row := range l.Body {
		for _, cell := range row {
			if cell.Flags.Late {
				c.Late++
			}
			if cell.Flags.Estimated {
				c.Estimated++
			}
		}
	}
	return c
}

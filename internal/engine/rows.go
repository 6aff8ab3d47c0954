package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Veraticus/punchgrid/internal/model"
)

// ErrEmptyIndex is returned when there is nothing to lay out.
var ErrEmptyIndex = errors.New("attendance index is empty")

// WeekdayLabels holds the short labels for Monday through Friday.
type WeekdayLabels [5]string

// DefaultWeekdayLabels returns English short labels.
func DefaultWeekdayLabels() WeekdayLabels {
	return WeekdayLabels{"Mon", "Tue", "Wed", "Thu", "Fri"}
}

// KoreanWeekdayLabels returns the single-character labels used by Korean
// attendance sheets.
func KoreanWeekdayLabels() WeekdayLabels {
	return WeekdayLabels{"월", "화", "수", "목", "금"}
}

// Label maps a business weekday to its label. Weekends never reach this
// point, so any other weekday is a programming error and panics.
func (l WeekdayLabels) Label(wd time.Weekday) string {
	switch wd {
	case time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday:
		return l[wd-time.Monday]
	default:
		panic(fmt.Sprintf("engine: no business-day label for %s", wd))
	}
}

// UnlistedPolicy decides what happens to employees present in the data but
// missing from an explicit column order.
type UnlistedPolicy string

// Unlisted employee policies.
const (
	UnlistedAppend UnlistedPolicy = "append"
	UnlistedDrop   UnlistedPolicy = "drop"
)

// Valid reports whether p is a known policy.
func (p UnlistedPolicy) Valid() bool {
	return p == UnlistedAppend || p == UnlistedDrop
}

// ResolveEmployees returns the column order for a report.
//
// With no explicit order the observed names are sorted lexicographically.
// Otherwise the explicit order is kept as given (duplicates removed), and
// observed names missing from it are appended in lexicographic order or
// dropped, depending on policy.
func ResolveEmployees(observed, order []string, policy UnlistedPolicy, logger *slog.Logger) []string {
	if logger == nil {
		logger = slog.Default()
	}

	if len(order) == 0 {
		names := append([]string(nil), observed...)
		sort.Strings(names)
		return names
	}

	listed := make(map[string]struct{}, len(order))
	names := make([]string, 0, len(order)+len(observed))
	for _, name := range order {
		if _, dup := listed[name]; dup {
			continue
		}
		listed[name] = struct{}{}
		names = append(names, name)
	}

	var unlisted []string
	for _, name := range observed {
		if _, ok := listed[name]; !ok {
			unlisted = append(unlisted, name)
		}
	}
	if len(unlisted) == 0 {
		return names
	}
	sort.Strings(unlisted)

	if policy == UnlistedDrop {
		logger.Warn("Dropping employees missing from the column order", "employees", unlisted)
		return names
	}

	logger.Warn("Appending employees missing from the column order", "employees", unlisted)
	return append(names, unlisted...)
}

// BuildRows lays the index out as one row per business day between the
// earliest and latest dates of the index, inclusive. Days without punches
// still produce a row with empty cells; Saturdays and Sundays produce none.
func BuildRows(idx model.AttendanceIndex, employees []string, labels WeekdayLabels) ([]model.CalendarRow, error) {
	first, last, ok := idx.Span()
	if !ok {
		return nil, ErrEmptyIndex
	}

	rows := make([]model.CalendarRow, 0, first.DaysUntil(last)+1)
	for d := first; !d.After(last); d = d.AddDays(1) {
		if d.IsWeekend() {
			continue
		}
		rows = append(rows, buildRow(idx, d, employees, labels))
	}
	return rows, nil
}

func buildRow(idx model.AttendanceIndex, date model.CalendarDate, employees []string, labels WeekdayLabels) model.CalendarRow {
	row := model.CalendarRow{
		Date:         date,
		WeekdayLabel: labels.Label(date.Weekday()),
		Cells:        make([]model.CellPair, len(employees)),
	}

	for i, name := range employees {
		day, ok := idx.Lookup(date, name)
		if !ok {
			continue
		}
		row.Cells[i] = model.CellPair{
			CheckIn:  cellOf(day.CheckIn, day.CheckInEstimated),
			CheckOut: cellOf(day.CheckOut, day.CheckOutEstimated),
		}
	}
	return row
}

func cellOf(t *model.ClockTime, estimated bool) model.CellValue {
	if t == nil {
		return model.CellValue{}
	}
	return model.CellValue{Text: t.String(), Estimated: estimated}
}

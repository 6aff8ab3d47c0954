package model

// CellValue is the text shown in one grid cell and whether it was inferred.
type CellValue struct {
	Text      string
	Estimated bool
}

// IsEmpty reports whether the cell has no text.
func (c CellValue) IsEmpty() bool {
	return c.Text == ""
}

// CellPair holds one employee's check-in and check-out cells for a day.
type CellPair struct {
	CheckIn  CellValue
	CheckOut CellValue
}

// CalendarRow is one business day of the attendance grid.
type CalendarRow struct {
	Date         CalendarDate
	WeekdayLabel string
	Note         string
	Cells        []CellPair // one pair per employee, in report column order
}

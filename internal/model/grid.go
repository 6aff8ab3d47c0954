package model

// Grid is a fully resolved attendance report ready for rendering.
type Grid struct {
	Employees []string      // column order, identical for every row
	Rows      []CalendarRow // business days in ascending date order
}

// Span returns the first and last row dates. ok is false for an empty grid.
func (g Grid) Span() (first, last CalendarDate, ok bool) {
	if len(g.Rows) == 0 {
		return CalendarDate{}, CalendarDate{}, false
	}
	return g.Rows[0].Date, g.Rows[len(g.Rows)-1].Date, true
}

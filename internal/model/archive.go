package model

import "time"

// PunchFilter narrows archive queries. Nil bounds and an empty employee
// list match everything; both bounds are inclusive.
type PunchFilter struct {
	Start     *CalendarDate
	End       *CalendarDate
	Employees []string
}

// Contains reports whether p passes the filter.
func (f PunchFilter) Contains(p PunchRecord) bool {
	if f.Start != nil && p.Date.Before(*f.Start) {
		return false
	}
	if f.End != nil && p.Date.After(*f.End) {
		return false
	}
	if len(f.Employees) == 0 {
		return true
	}
	for _, e := range f.Employees {
		if e == p.Employee {
			return true
		}
	}
	return false
}

// EmployeeSummary describes one employee's archived punches.
type EmployeeSummary struct {
	Name      string
	FirstDate CalendarDate
	LastDate  CalendarDate
	Punches   int
}

// ImportRecord is one entry of the archive's import history.
type ImportRecord struct {
	ImportedAt time.Time
	Source     string
	ID         int64
	Records    int
	Inserted   int
}

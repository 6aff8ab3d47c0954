// Package model defines the attendance domain types shared by the parser, engine and renderer.
package model

import (
	"slices"
	"sort"
)

// DayAttendance aggregates every punch of one employee on one date.
type DayAttendance struct {
	CheckIn           *ClockTime
	CheckOut          *ClockTime
	Observed          []ClockTime
	CheckInEstimated  bool
	CheckOutEstimated bool
}

// Observe folds a punch into the day. The earliest check-in and the
// latest check-out win; every time is kept in Observed regardless of mode.
func (a *DayAttendance) Observe(p PunchRecord) {
	a.Observed = append(a.Observed, p.Time)

	switch p.Mode {
	case ModeCheckIn:
		if a.CheckIn == nil || p.Time < *a.CheckIn {
			t := p.Time
			a.CheckIn = &t
		}
	case ModeCheckOut:
		if a.CheckOut == nil || p.Time > *a.CheckOut {
			t := p.Time
			a.CheckOut = &t
		}
	}
}

// Finalize fills a missing check-in with the earliest observed time and a
// missing check-out with the latest one, flagging each as estimated.
// It is a no-op for a day without observations.
func (a *DayAttendance) Finalize() {
	if len(a.Observed) == 0 {
		return
	}
	if a.CheckIn == nil {
		t := slices.Min(a.Observed)
		a.CheckIn = &t
		a.CheckInEstimated = true
	}
	if a.CheckOut == nil {
		t := slices.Max(a.Observed)
		a.CheckOut = &t
		a.CheckOutEstimated = true
	}
}

// AttendanceIndex maps a date to each employee's attendance on that date.
// Iteration order is always derived from Dates, never from map order.
type AttendanceIndex map[CalendarDate]map[string]*DayAttendance

// Get returns the attendance for (date, employee), creating it if absent.
func (idx AttendanceIndex) Get(date CalendarDate, employee string) *DayAttendance {
	byEmployee, ok := idx[date]
	if !ok {
		byEmployee = make(map[string]*DayAttendance)
		idx[date] = byEmployee
	}
	day, ok := byEmployee[employee]
	if !ok {
		day = &DayAttendance{}
		byEmployee[employee] = day
	}
	return day
}

// Lookup returns the attendance for (date, employee) without creating it.
func (idx AttendanceIndex) Lookup(date CalendarDate, employee string) (*DayAttendance, bool) {
	day, ok := idx[date][employee]
	return day, ok
}

// Dates returns every date key in ascending order.
func (idx AttendanceIndex) Dates() []CalendarDate {
	dates := make([]CalendarDate, 0, len(idx))
	for d := range idx {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})
	return dates
}

// Span returns the earliest and latest date keys. ok is false for an empty index.
func (idx AttendanceIndex) Span() (first, last CalendarDate, ok bool) {
	dates := idx.Dates()
	if len(dates) == 0 {
		return CalendarDate{}, CalendarDate{}, false
	}
	return dates[0], dates[len(dates)-1], true
}

// Employees returns the distinct employee names in lexicographic order.
func (idx AttendanceIndex) Employees() []string {
	seen := make(map[string]struct{})
	for _, byEmployee := range idx {
		for name := range byEmployee {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Finalize runs the estimation pass over every day in the index.
func (idx AttendanceIndex) Finalize() {
	for _, byEmployee := range idx {
		for _, day := range byEmployee {
			day.Finalize()
		}
	}
}

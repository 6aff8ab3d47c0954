package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Calendar parsing errors.
var (
	ErrInvalidDate  = errors.New("invalid calendar date")
	ErrInvalidClock = errors.New("invalid clock time")
)

// dateLayouts are the date shapes attendance terminals are known to export.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
}

// CalendarDate is a wall-clock date with no time zone attached.
// It is comparable and safe to use as a map key.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// NewCalendarDate normalizes the given components into a CalendarDate.
// Out of range values roll over the same way time.Date does.
func NewCalendarDate(year int, month time.Month, day int) CalendarDate {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

// ParseCalendarDate parses a date in one of the supported layouts.
func ParseCalendarDate(s string) (CalendarDate, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if len(s) != len(layout) {
			continue
		}
		t, err := time.Parse(layout, s)
		if err == nil {
			return DateOf(t), nil
		}
	}
	return CalendarDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// Time returns midnight UTC of the date.
func (d CalendarDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// IsZero reports whether d is the zero date.
func (d CalendarDate) IsZero() bool {
	return d == CalendarDate{}
}

// AddDays returns the date n days after d.
func (d CalendarDate) AddDays(n int) CalendarDate {
	return NewCalendarDate(d.Year, d.Month, d.Day+n)
}

// Weekday returns the day of the week of d.
func (d CalendarDate) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// IsWeekend reports whether d falls on a Saturday or Sunday.
func (d CalendarDate) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Before reports whether d is strictly before other.
func (d CalendarDate) Before(other CalendarDate) bool {
	return d.Time().Before(other.Time())
}

// After reports whether d is strictly after other.
func (d CalendarDate) After(other CalendarDate) bool {
	return d.Time().After(other.Time())
}

// DaysUntil returns the number of days from d to other (negative if other is earlier).
func (d CalendarDate) DaysUntil(other CalendarDate) int {
	return int(other.Time().Sub(d.Time()).Hours() / 24)
}

// Format formats the date with a time package layout.
func (d CalendarDate) Format(layout string) string {
	return d.Time().Format(layout)
}

func (d CalendarDate) String() string {
	return d.Format("2006-01-02")
}

// ClockTime is a 24-hour wall-clock time of day, stored as seconds since midnight.
type ClockTime int

const secondsPerDay = 24 * 60 * 60

// NewClockTime builds a ClockTime, wrapping into a single 24-hour day.
func NewClockTime(hour, minute, second int) ClockTime {
	total := (hour*3600 + minute*60 + second) % secondsPerDay
	if total < 0 {
		total += secondsPerDay
	}
	return ClockTime(total)
}

// ParseClockTime parses a strict HH:MM:SS string.
func ParseClockTime(s string) (ClockTime, error) {
	if len(s) != len("15:04:05") || s[2] != ':' || s[5] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return NewClockTime(t.Hour(), t.Minute(), t.Second()), nil
}

// MustParseClockTime is like ParseClockTime but panics on error.
// It is meant for constants and tests.
func MustParseClockTime(s string) ClockTime {
	c, err := ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hour returns the hour component in [0, 23].
func (c ClockTime) Hour() int { return int(c) / 3600 }

// Minute returns the minute component in [0, 59].
func (c ClockTime) Minute() int { return int(c) % 3600 / 60 }

// Second returns the second component in [0, 59].
func (c ClockTime) Second() int { return int(c) % 60 }

// Add returns c shifted by d, wrapping within one day.
func (c ClockTime) Add(d time.Duration) ClockTime {
	return NewClockTime(0, 0, int(c)+int(d/time.Second))
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour(), c.Minute(), c.Second())
}

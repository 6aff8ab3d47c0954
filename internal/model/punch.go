package model

import (
	"crypto/sha256"
	"fmt"
)

// PunchMode is the direction of a single punch.
type PunchMode string

// Punch modes tracked by the engine.
const (
	ModeCheckIn  PunchMode = "check_in"
	ModeCheckOut PunchMode = "check_out"
)

// Valid reports whether m is one of the known modes.
func (m PunchMode) Valid() bool {
	return m == ModeCheckIn || m == ModeCheckOut
}

// RawRecord is one row handed over by a loader before any parsing.
type RawRecord struct {
	Timestamp string // combined date-time string, possibly with an AM/PM marker
	Mode      string // terminal-specific attendance action
	Employee  string // display name
	Source    string // file and row the record came from, for diagnostics
}

// PunchRecord is a single parsed punch. It is never mutated after parsing.
type PunchRecord struct {
	Employee string
	Mode     PunchMode
	Date     CalendarDate
	Time     ClockTime
}

// Hash identifies a punch for duplicate detection across imports.
func (p PunchRecord) Hash() string {
	data := fmt.Sprintf("%s|%s|%s|%s", p.Employee, p.Date, p.Time, p.Mode)
	sum := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", sum)
}

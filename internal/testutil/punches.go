package testutil

import (
	"testing"

	"github.com/Veraticus/punchgrid/internal/model"
)

// PunchBuilder accumulates punch fixtures. Invalid dates or times fail the
// test immediately.
type PunchBuilder struct {
	t       *testing.T
	punches []model.PunchRecord
}

// NewPunchBuilder starts an empty fixture.
func NewPunchBuilder(t *testing.T) *PunchBuilder {
	t.Helper()
	return &PunchBuilder{t: t}
}

// CheckIn adds a check-in punch.
func (b *PunchBuilder) CheckIn(employee, date, clock string) *PunchBuilder {
	b.t.Helper()
	return b.add(employee, model.ModeCheckIn, date, clock)
}

// CheckOut adds a check-out punch.
func (b *PunchBuilder) CheckOut(employee, date, clock string) *PunchBuilder {
	b.t.Helper()
	return b.add(employee, model.ModeCheckOut, date, clock)
}

// Day adds a check-in and a check-out on the same date.
func (b *PunchBuilder) Day(employee, date, in, out string) *PunchBuilder {
	b.t.Helper()
	return b.CheckIn(employee, date, in).CheckOut(employee, date, out)
}

// Build returns a copy of the accumulated punches.
func (b *PunchBuilder) Build() []model.PunchRecord {
	return append([]model.PunchRecord(nil), b.punches...)
}

func (b *PunchBuilder) add(employee string, mode model.PunchMode, date, clock string) *PunchBuilder {
	b.t.Helper()
	d, err := model.ParseCalendarDate(date)
	if err != nil {
		b.t.Fatalf("invalid fixture date: %v", err)
	}
	c, err := model.ParseClockTime(clock)
	if err != nil {
		b.t.Fatalf("invalid fixture time: %v", err)
	}
	b.punches = append(b.punches, model.PunchRecord{
		Employee: employee,
		Mode:     mode,
		Date:     d,
		Time:     c,
	})
	return b
}

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCalendarDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    CalendarDate
		wantErr bool
	}{
		{name: "dashes", input: "2024-01-01", want: CalendarDate{2024, time.January, 1}},
		{name: "slashes", input: "2024/02/29", want: CalendarDate{2024, time.February, 29}},
		{name: "dots", input: "2023.12.31", want: CalendarDate{2023, time.December, 31}},
		{name: "surrounding space", input: " 2024-03-05 ", want: CalendarDate{2024, time.March, 5}},
		{name: "not a leap year", input: "2023-02-29", wantErr: true},
		{name: "single digit month", input: "2024-1-01", wantErr: true},
		{name: "garbage", input: "yesterday", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCalendarDate(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalendarDate_Arithmetic(t *testing.T) {
	d := NewCalendarDate(2024, time.January, 31)

	assert.Equal(t, NewCalendarDate(2024, time.February, 1), d.AddDays(1))
	assert.Equal(t, NewCalendarDate(2023, time.December, 31), d.AddDays(-31))
	assert.Equal(t, time.Wednesday, d.Weekday())
	assert.False(t, d.IsWeekend())
	assert.True(t, NewCalendarDate(2024, time.January, 6).IsWeekend())
	assert.True(t, NewCalendarDate(2024, time.January, 7).IsWeekend())
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.After(d.AddDays(-1)))
	assert.Equal(t, 9, NewCalendarDate(2024, time.January, 1).DaysUntil(NewCalendarDate(2024, time.January, 10)))
	assert.Equal(t, "2024-01-31", d.String())
	assert.Equal(t, "2024/01/31", d.Format("2006/01/02"))
}

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "morning", input: "08:40:00", want: "08:40:00"},
		{name: "midnight", input: "00:00:00", want: "00:00:00"},
		{name: "end of day", input: "23:59:59", want: "23:59:59"},
		{name: "single digit hour", input: "8:40:00", wantErr: true},
		{name: "missing seconds", input: "08:40", wantErr: true},
		{name: "hour out of range", input: "24:00:00", wantErr: true},
		{name: "minute out of range", input: "08:60:00", wantErr: true},
		{name: "wrong separator", input: "08.40.00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClockTime(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidClock)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestClockTime_Components(t *testing.T) {
	c := NewClockTime(18, 5, 9)
	assert.Equal(t, 18, c.Hour())
	assert.Equal(t, 5, c.Minute())
	assert.Equal(t, 9, c.Second())

	assert.Equal(t, "06:05:09", c.Add(12*time.Hour).String())
	assert.Equal(t, "17:05:09", c.Add(-time.Hour).String())
	assert.Equal(t, "00:00:00", NewClockTime(24, 0, 0).String())
	assert.True(t, MustParseClockTime("08:30:59") < MustParseClockTime("08:31:00"))
}

// Package punch turns raw terminal records into parsed punches.
package punch

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/punchgrid/internal/model"
)

// ErrInvalidTimestampFormat is returned for any timestamp the parser cannot read.
var ErrInvalidTimestampFormat = errors.New("invalid timestamp format")

type meridiem int

const (
	ante meridiem = iota
	post
)

// meridiemMarkers lists the AM/PM markers the terminals emit.
// Latin markers are matched case-insensitively.
var meridiemMarkers = map[string]meridiem{
	"오전": ante,
	"오후": post,
	"am": ante,
	"pm": post,
	"a.m.": ante,
	"p.m.": post,
}

// ParseTimestamp splits a raw "<date> <time>" or "<date> <marker> <time>"
// string into a calendar date and a 24-hour clock time.
//
// A PM marker adds twelve hours, wrapping within one day, except that
// 12:xx:xx PM stays noon. An AM marker leaves the time as written.
func ParseTimestamp(raw string) (model.CalendarDate, model.ClockTime, error) {
	fields := strings.Fields(raw)

	var dateField, timeField, markerField string
	switch len(fields) {
	case 2:
		dateField, timeField = fields[0], fields[1]
	case 3:
		dateField, markerField, timeField = fields[0], fields[1], fields[2]
	default:
		return model.CalendarDate{}, 0, fmt.Errorf("%w: expected 2 or 3 fields in %q", ErrInvalidTimestampFormat, raw)
	}

	date, err := model.ParseCalendarDate(dateField)
	if err != nil {
		return model.CalendarDate{}, 0, fmt.Errorf("%w: %w", ErrInvalidTimestampFormat, err)
	}

	clock, err := model.ParseClockTime(timeField)
	if err != nil {
		return model.CalendarDate{}, 0, fmt.Errorf("%w: %w", ErrInvalidTimestampFormat, err)
	}

	if markerField == "" {
		return date, clock, nil
	}

	marker, ok := meridiemMarkers[strings.ToLower(markerField)]
	if !ok {
		return model.CalendarDate{}, 0, fmt.Errorf("%w: unknown AM/PM marker %q", ErrInvalidTimestampFormat, markerField)
	}

	return date, applyMeridiem(clock, marker), nil
}

func applyMeridiem(clock model.ClockTime, marker meridiem) model.ClockTime {
	if marker == post && clock.Hour() != 12 {
		return clock.Add(12 * time.Hour)
	}
	return clock
}

// Package report lays an attendance grid out as a styled spreadsheet.
package report

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/Veraticus/punchgrid/internal/model"
)

// ErrInvalidStyle wraps every style validation failure.
var ErrInvalidStyle = errors.New("invalid report style")

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Labels are the fixed header texts of the grid.
type Labels struct {
	Date     string
	Weekday  string
	Note     string
	CheckIn  string
	CheckOut string
}

// DefaultLabels returns the English header texts.
func DefaultLabels() Labels {
	return Labels{
		Date:     "Date",
		Weekday:  "Weekday",
		Note:     "Note",
		CheckIn:  "Check-in",
		CheckOut: "Check-out",
	}
}

// KoreanLabels returns the header texts of the Korean attendance sheet.
func KoreanLabels() Labels {
	return Labels{
		Date:     "날짜",
		Weekday:  "요일",
		Note:     "비고",
		CheckIn:  "출근",
		CheckOut: "퇴근",
	}
}

// Style holds every visual constant of the grid. Build it once and pass it
// to the renderers; nothing mutates it afterwards.
type Style struct {
	Labels        Labels
	SheetName     string
	DateLayout    string
	FontFamily    string
	LateFill      string
	LateFont      string
	EstimatedFill string
	BorderColor   string
	FontSize      float64
	DateWidth     float64
	WeekdayWidth  float64
	NoteWidth     float64
	EmployeeWidth float64
	LateThreshold model.ClockTime
}

// DefaultStyle mirrors the layout of the attendance sheets the terminal
// operators already use.
func DefaultStyle() Style {
	return Style{
		Labels:        DefaultLabels(),
		SheetName:     "Attendance",
		DateLayout:    "2006/01/02",
		FontFamily:    "Malgun Gothic",
		FontSize:      12,
		LateFill:      "#FFCCCC",
		LateFont:      "#FF0000",
		EstimatedFill: "#FFF2CC",
		BorderColor:   "#000000",
		DateWidth:     16,
		WeekdayWidth:  5,
		NoteWidth:     30,
		EmployeeWidth: 10.5,
		LateThreshold: model.NewClockTime(8, 30, 59),
	}
}

// Validate checks that the style can be rendered.
func (s Style) Validate() error {
	if s.SheetName == "" {
		return fmt.Errorf("%w: sheet name is empty", ErrInvalidStyle)
	}
	if s.DateLayout == "" {
		return fmt.Errorf("%w: date layout is empty", ErrInvalidStyle)
	}
	if s.FontSize <= 0 {
		return fmt.Errorf("%w: font size must be positive", ErrInvalidStyle)
	}
	for name, c := range map[string]string{
		"late fill":      s.LateFill,
		"late font":      s.LateFont,
		"estimated fill": s.EstimatedFill,
		"border color":   s.BorderColor,
	} {
		if !hexColor.MatchString(c) {
			return fmt.Errorf("%w: %s %q is not a #RRGGBB color", ErrInvalidStyle, name, c)
		}
	}
	for name, w := range map[string]float64{
		"date":     s.DateWidth,
		"weekday":  s.WeekdayWidth,
		"note":     s.NoteWidth,
		"employee": s.EmployeeWidth,
	} {
		if w <= 0 {
			return fmt.Errorf("%w: %s column width must be positive", ErrInvalidStyle, name)
		}
	}
	return nil
}

// IsLate reports whether a check-in cell text is strictly after the threshold.
// Empty or unparseable text is never late.
func (s Style) IsLate(text string) bool {
	t, err := model.ParseClockTime(text)
	if err != nil {
		return false
	}
	return t > s.LateThreshold
}

package report

import (
	"testing"
	"time"

	"github.com/Veraticus/punchgrid/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testGrid covers Monday 2024-01-01 and Tuesday 2024-01-02 for two employees.
func testGrid() model.Grid {
	return model.Grid{
		Employees: []string{"A", "B"},
		Rows: []model.CalendarRow{
			{
				Date:         model.NewCalendarDate(2024, time.January, 1),
				WeekdayLabel: "Mon",
				Cells: []model.CellPair{
					{
						CheckIn:  model.CellValue{Text: "08:40:00"},
						CheckOut: model.CellValue{Text: "18:00:00"},
					},
					{
						CheckIn:  model.CellValue{Text: "08:30:59"},
						CheckOut: model.CellValue{Text: "08:30:59", Estimated: true},
					},
				},
			},
			{
				Date:         model.NewCalendarDate(2024, time.January, 2),
				WeekdayLabel: "Tue",
				Cells: []model.CellPair{
					{
						CheckIn:  model.CellValue{Text: "09:10:00", Estimated: true},
						CheckOut: model.CellValue{Text: "09:10:00"},
					},
					{},
				},
			},
		},
	}
}

func TestStyle_IsLate(t *testing.T) {
	s := DefaultStyle()
	tests := []struct {
		text string
		want bool
	}{
		{text: "08:30:59", want: false},
		{text: "08:31:00", want: true},
		{text: "08:00:00", want: false},
		{text: "23:59:59", want: true},
		{text: "", want: false},
		{text: "late", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, s.IsLate(tt.text))
		})
	}

	s.LateThreshold = model.NewClockTime(9, 0, 0)
	assert.False(t, s.IsLate("08:40:00"))
}

func TestStyle_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Style)
		wantErr bool
	}{
		{name: "default", mutate: func(*Style) {}},
		{name: "empty sheet name", mutate: func(s *Style) { s.SheetName = "" }, wantErr: true},
		{name: "bad color", mutate: func(s *Style) { s.LateFill = "red" }, wantErr: true},
		{name: "color without hash", mutate: func(s *Style) { s.EstimatedFill = "FFF2CC" }, wantErr: true},
		{name: "zero width", mutate: func(s *Style) { s.NoteWidth = 0 }, wantErr: true},
		{name: "zero font size", mutate: func(s *Style) { s.FontSize = 0 }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultStyle()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStyle)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestStyle_Layout(t *testing.T) {
	l := DefaultStyle().Layout(testGrid())

	assert.Equal(t, 7, l.Columns)
	assert.Equal(t, []string{"Date", "Weekday", "Note", "A", "", "B", ""}, l.Header[0])
	assert.Equal(t, []string{"", "", "", "Check-in", "Check-out", "Check-in", "Check-out"}, l.Header[1])
	assert.Equal(t, []Merge{
		{FromRow: 1, FromCol: 1, ToRow: 2, ToCol: 1},
		{FromRow: 1, FromCol: 2, ToRow: 2, ToCol: 2},
		{FromRow: 1, FromCol: 3, ToRow: 2, ToCol: 3},
		{FromRow: 1, FromCol: 4, ToRow: 1, ToCol: 5},
		{FromRow: 1, FromCol: 6, ToRow: 1, ToCol: 7},
	}, l.Merges)
	assert.Equal(t, []float64{16, 5, 30, 10.5, 10.5, 10.5, 10.5}, l.Widths)

	require.Len(t, l.Body, 2)
	monday := l.Body[0]
	require.Len(t, monday, 7)
	assert.Equal(t, "2024/01/01", monday[0].Text)
	assert.Equal(t, "Mon", monday[1].Text)
	assert.Equal(t, "", monday[2].Text)
	for _, cell := range monday {
		assert.True(t, cell.Flags.WeekStart)
	}
	assert.Equal(t, Flags{Late: true, WeekStart: true}, monday[3].Flags)
	assert.Equal(t, Flags{WeekStart: true}, monday[4].Flags)
	assert.Equal(t, Flags{WeekStart: true}, monday[5].Flags, "08:30:59 is on time")
	assert.Equal(t, Flags{Estimated: true, WeekStart: true}, monday[6].Flags)

	tuesday := l.Body[1]
	assert.Equal(t, Flags{Late: true, Estimated: true}, tuesday[3].Flags)
	assert.Equal(t, Flags{}, tuesday[4].Flags)
	assert.Equal(t, Cell{}, tuesday[5])
	assert.Equal(t, Cell{}, tuesday[6])

	assert.Equal(t, Counts{Late: 2, Estimated: 2}, l.Count())
}

func TestStyle_LayoutLateOnlyOnCheckInColumns(t *testing.T) {
	grid := model.Grid{
		Employees: []string{"A"},
		Rows: []model.CalendarRow{{
			Date:         model.NewCalendarDate(2024, time.January, 3),
			WeekdayLabel: "Wed",
			Cells: []model.CellPair{{
				CheckIn:  model.CellValue{Text: "07:00:00"},
				CheckOut: model.CellValue{Text: "22:00:00"},
			}},
		}},
	}

	l := DefaultStyle().Layout(grid)
	assert.False(t, l.Body[0][3].Flags.Late)
	assert.False(t, l.Body[0][4].Flags.Late)
}

func TestStyle_LayoutKoreanLabels(t *testing.T) {
	s := DefaultStyle()
	s.Labels = KoreanLabels()
	l := s.Layout(model.Grid{Employees: []string{"강희경(Sophie)"}})

	assert.Equal(t, []string{"날짜", "요일", "비고", "강희경(Sophie)", ""}, l.Header[0])
	assert.Equal(t, []string{"", "", "", "출근", "퇴근"}, l.Header[1])
	assert.Empty(t, l.Body)
}

package cli

import (
	"fmt"
	"strings"

	"github.com/Veraticus/punchgrid/internal/engine"
	"github.com/Veraticus/punchgrid/internal/punch"
	"github.com/Veraticus/punchgrid/internal/report"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// RenderLayout draws the grid as a terminal table. Late and estimated cells
// are colored like their spreadsheet counterparts and Monday dates are bold.
// limit > 0 caps the number of body rows shown.
func RenderLayout(layout report.Layout, limit int) string {
	body := layout.Body
	truncated := 0
	if limit > 0 && len(body) > limit {
		truncated = len(body) - limit
		body = body[:limit]
	}

	rows := make([][]string, len(body))
	for i, cells := range body {
		row := make([]string, len(cells))
		for j, cell := range cells {
			row[j] = cell.Text
		}
		rows[i] = row
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtleStyle).
		BorderRow(false).
		Headers(headerLabels(layout)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			if row < 0 || row >= len(body) || col >= len(body[row]) {
				return TableCellStyle
			}
			flags := body[row][col].Flags
			style := TableCellStyle
			switch {
			case flags.Estimated:
				style = EstimatedCellStyle
			case flags.Late:
				style = LateCellStyle
			}
			if flags.WeekStart && col == report.DateColumn-1 {
				style = style.Bold(true)
			}
			return style
		})

	out := t.Render()
	if truncated > 0 {
		out += "\n" + SubtleStyle.Render(fmt.Sprintf("… %d more rows", truncated))
	}
	return out
}

// headerLabels stacks the two header rows into one label per column. The
// check-out column leaves the employee line blank.
func headerLabels(layout report.Layout) []string {
	labels := make([]string, layout.Columns)
	top, sub := layout.Header[0], layout.Header[1]
	for col := 0; col < layout.Columns; col++ {
		switch {
		case col < report.FirstEmployeeColumn-1:
			labels[col] = top[col]
		case top[col] != "":
			labels[col] = top[col] + "\n" + sub[col]
		default:
			labels[col] = "\n" + sub[col]
		}
	}
	return labels
}

// RenderSummary describes a conversion result for the terminal.
func RenderSummary(summary engine.Summary, counts report.Counts) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s Period: %s to %s\n", CalendarIcon, summary.First.String(), summary.Last.String())
	fmt.Fprintf(&b, "  • Records read: %d\n", summary.Records)
	fmt.Fprintf(&b, "  • Punches kept: %d\n", summary.Punches)
	if summary.Skipped > 0 {
		fmt.Fprintf(&b, "  • Records skipped: %s\n", WarningStyle.Render(fmt.Sprint(summary.Skipped)))
	} else {
		fmt.Fprintf(&b, "  • Records skipped: 0\n")
	}
	fmt.Fprintf(&b, "  • Employees: %d\n", summary.Employees)
	fmt.Fprintf(&b, "  • Business days: %d\n", summary.Rows)
	fmt.Fprintf(&b, "  • Late check-ins: %s\n", LateCellStyle.UnsetPadding().Render(fmt.Sprint(counts.Late)))
	fmt.Fprintf(&b, "  • Estimated cells: %d", counts.Estimated)
	return RenderBox("Attendance Summary", b.String())
}

// RenderSkipped lists records that could not be parsed. At most limit are
// shown when limit > 0.
func RenderSkipped(skipped []punch.Skipped, limit int) string {
	if len(skipped) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(FormatWarning(fmt.Sprintf("%d records skipped:", len(skipped))))
	for i, s := range skipped {
		if limit > 0 && i == limit {
			fmt.Fprintf(&b, "\n  %s", SubtleStyle.Render(fmt.Sprintf("… and %d more", len(skipped)-limit)))
			break
		}
		source := s.Record.Source
		if source == "" {
			source = "?"
		}
		fmt.Fprintf(&b, "\n  %s %s", SubtleStyle.Render(source), s.Err)
	}
	return b.String()
}

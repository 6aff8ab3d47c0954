package sheets

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Veraticus/punchgrid/internal/report"
	"google.golang.org/api/sheets/v4"
)

// Field masks for the formatting requests.
const (
	baseFormatFields   = "userEnteredFormat(textFormat,horizontalAlignment,verticalAlignment,backgroundColor,borders)"
	weekBorderFields   = "userEnteredFormat.borders.top"
	lateFormatFields   = "userEnteredFormat.backgroundColor,userEnteredFormat.textFormat.foregroundColor"
	estimatedFields    = "userEnteredFormat.backgroundColor"
	frozenFields       = "gridProperties.frozenRowCount,gridProperties.frozenColumnCount"
	columnWidthFields  = "pixelSize"
	columnWidthPadding = 5
	pixelsPerChar      = 7
)

// values renders header and body texts row by row.
func values(layout report.Layout) [][]any {
	out := make([][]any, 0, len(layout.Header)+len(layout.Body))
	for _, header := range layout.Header {
		row := make([]any, len(header))
		for i, text := range header {
			row[i] = text
		}
		out = append(out, row)
	}
	for _, body := range layout.Body {
		row := make([]any, len(body))
		for i, cell := range body {
			row[i] = cell.Text
		}
		out = append(out, row)
	}
	return out
}

// formatRequests lays the styled grid onto sheetID: reset, merges, frozen
// panes, column widths, then the flag overlays in the same order the xlsx
// renderer applies them.
func formatRequests(sheetID int64, layout report.Layout, style report.Style) []*sheets.Request {
	rows := int64(report.HeaderRows + len(layout.Body))
	cols := int64(layout.Columns)

	requests := []*sheets.Request{
		{UnmergeCells: &sheets.UnmergeCellsRequest{Range: &sheets.GridRange{SheetId: sheetID}}},
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: gridRange(sheetID, 0, rows, 0, cols),
				Cell: &sheets.CellData{UserEnteredFormat: &sheets.CellFormat{
					TextFormat: &sheets.TextFormat{
						FontFamily: style.FontFamily,
						FontSize:   int64(style.FontSize),
					},
					HorizontalAlignment: "CENTER",
					VerticalAlignment:   "MIDDLE",
				}},
				Fields: baseFormatFields,
			},
		},
	}

	for _, m := range layout.Merges {
		requests = append(requests, &sheets.Request{
			MergeCells: &sheets.MergeCellsRequest{
				Range:     gridRange(sheetID, int64(m.FromRow-1), int64(m.ToRow), int64(m.FromCol-1), int64(m.ToCol)),
				MergeType: "MERGE_ALL",
			},
		})
	}

	requests = append(requests, &sheets.Request{
		UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
			Properties: &sheets.SheetProperties{
				SheetId: sheetID,
				GridProperties: &sheets.GridProperties{
					FrozenRowCount:    report.HeaderRows,
					FrozenColumnCount: report.NoteColumn - 1,
				},
			},
			Fields: frozenFields,
		},
	})

	for i, width := range layout.Widths {
		requests = append(requests, &sheets.Request{
			UpdateDimensionProperties: &sheets.UpdateDimensionPropertiesRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "COLUMNS",
					StartIndex: int64(i),
					EndIndex:   int64(i + 1),
				},
				Properties: &sheets.DimensionProperties{PixelSize: columnPixels(width)},
				Fields:     columnWidthFields,
			},
		})
	}

	for i, body := range layout.Body {
		row := int64(report.HeaderRows + i)
		if len(body) > 0 && body[0].Flags.WeekStart {
			requests = append(requests, &sheets.Request{
				RepeatCell: &sheets.RepeatCellRequest{
					Range: gridRange(sheetID, row, row+1, 0, cols),
					Cell: &sheets.CellData{UserEnteredFormat: &sheets.CellFormat{
						Borders: &sheets.Borders{Top: &sheets.Border{
							Style: "DOUBLE",
							Color: color(style.BorderColor),
						}},
					}},
					Fields: weekBorderFields,
				},
			})
		}
		for j, cell := range body {
			col := int64(j)
			if cell.Flags.Late {
				requests = append(requests, cellRequest(sheetID, row, col, &sheets.CellFormat{
					BackgroundColor: color(style.LateFill),
					TextFormat:      &sheets.TextFormat{ForegroundColor: color(style.LateFont)},
				}, lateFormatFields))
			}
			if cell.Flags.Estimated {
				requests = append(requests, cellRequest(sheetID, row, col, &sheets.CellFormat{
					BackgroundColor: color(style.EstimatedFill),
				}, estimatedFields))
			}
		}
	}

	return requests
}

func cellRequest(sheetID, row, col int64, format *sheets.CellFormat, fields string) *sheets.Request {
	return &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range:  gridRange(sheetID, row, row+1, col, col+1),
			Cell:   &sheets.CellData{UserEnteredFormat: format},
			Fields: fields,
		},
	}
}

// gridRange builds a zero-based, end-exclusive range. Zero indexes are
// force-sent so the API does not read them as unbounded.
func gridRange(sheetID, startRow, endRow, startCol, endCol int64) *sheets.GridRange {
	return &sheets.GridRange{
		SheetId:          sheetID,
		StartRowIndex:    startRow,
		EndRowIndex:      endRow,
		StartColumnIndex: startCol,
		EndColumnIndex:   endCol,
		ForceSendFields:  []string{"SheetId", "StartRowIndex", "StartColumnIndex"},
	}
}

// columnPixels converts an xlsx character width to screen pixels.
func columnPixels(width float64) int64 {
	return int64(math.Round(width*pixelsPerChar + columnWidthPadding))
}

// color converts #RRGGBB to the API's 0..1 channel floats. The style has
// already been validated, so malformed input maps to black.
func color(hex string) *sheets.Color {
	hex = strings.TrimPrefix(hex, "#")
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || len(hex) != 6 {
		return &sheets.Color{}
	}
	return &sheets.Color{
		Red:             float64(v>>16&0xFF) / 255,
		Green:           float64(v>>8&0xFF) / 255,
		Blue:            float64(v&0xFF) / 255,
		ForceSendFields: []string{"Red", "Green", "Blue"},
	}
}

// a1Range quotes a sheet title for A1 notation.
func a1Range(title string, row int) string {
	return fmt.Sprintf("'%s'!A%d", strings.ReplaceAll(title, "'", "''"), row)
}

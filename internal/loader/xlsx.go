package loader

import (
	"bytes"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// serialLayout is how spreadsheet date serials are rendered before parsing.
const serialLayout = "2006-01-02 15:04:05"

func readXLSX(data []byte, _ *slog.Logger) ([][]string, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheet := file.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%w: workbook has no worksheet", ErrEmptyInput)
	}

	// Raw values keep real date cells as serials instead of applying
	// whatever display format the terminal chose.
	rows, err := file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: worksheet %q is empty", ErrEmptyInput, sheet)
	}
	return rows, nil
}

// normalizeTimestamp renders a spreadsheet date serial as text. Anything
// else is returned unchanged.
func normalizeTimestamp(value string) string {
	if value == "" || strings.ContainsAny(value, " -/:") {
		return value
	}
	serial, err := strconv.ParseFloat(value, 64)
	// Serials below 1 are bare times with no date and cannot be placed.
	if err != nil || serial < 1 {
		return value
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return value
	}
	return t.Round(time.Second).Format(serialLayout)
}

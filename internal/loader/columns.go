package loader

import (
	"fmt"
	"strings"

	"github.com/Veraticus/punchgrid/internal/model"
)

// headerScanRows bounds how far down the header row is searched. Terminal
// exports put a title and a period line above it.
const headerScanRows = 10

// Column aliases, normalized. The first match in each list wins, so the
// employee number is only used when the export carries no name column.
var (
	timestampAliases = []string{"인증일시", "일시", "timestamp", "date/time", "datetime", "date time"}
	modeAliases      = []string{"인증모드", "모드", "mode", "action", "punch type"}
	employeeAliases  = []string{"이름", "성명", "name", "employee", "employee name", "사원번호", "employee id"}
)

// columns holds the 0-based index of each required field.
type columns struct {
	timestamp int
	mode      int
	employee  int
}

func normalizeHeader(header string) string {
	return strings.ToLower(strings.Join(strings.Fields(header), " "))
}

func findColumn(header []string, aliases []string) int {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = normalizeHeader(h)
	}
	for _, alias := range aliases {
		for i, h := range normalized {
			if h == alias {
				return i
			}
		}
	}
	return -1
}

// locateHeader returns the header row index and its column mapping.
func locateHeader(rows [][]string) (int, columns, error) {
	limit := min(len(rows), headerScanRows)
	for i := 0; i < limit; i++ {
		ts := findColumn(rows[i], timestampAliases)
		if ts < 0 {
			continue
		}
		cols := columns{
			timestamp: ts,
			mode:      findColumn(rows[i], modeAliases),
			employee:  findColumn(rows[i], employeeAliases),
		}
		if cols.mode < 0 {
			return 0, columns{}, fmt.Errorf("%w: mode (row %d)", ErrMissingColumn, i+1)
		}
		if cols.employee < 0 {
			return 0, columns{}, fmt.Errorf("%w: employee name (row %d)", ErrMissingColumn, i+1)
		}
		return i, cols, nil
	}
	return 0, columns{}, fmt.Errorf("%w: timestamp", ErrMissingColumn)
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// extract maps data rows below the header into raw records. Blank rows are
// dropped; every other row is kept verbatim for the punch parser to judge.
func extract(rows [][]string, source string) ([]model.RawRecord, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}

	headerRow, cols, err := locateHeader(rows)
	if err != nil {
		return nil, err
	}

	var records []model.RawRecord
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		rec := model.RawRecord{
			Timestamp: normalizeTimestamp(cellValue(row, cols.timestamp)),
			Mode:      cellValue(row, cols.mode),
			Employee:  cellValue(row, cols.employee),
			Source:    fmt.Sprintf("%s:%d", source, i+1),
		}
		if rec.Timestamp == "" && rec.Mode == "" && rec.Employee == "" {
			continue
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, ErrEmptyInput
	}
	return records, nil
}

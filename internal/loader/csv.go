package loader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func readCSV(data []byte, _ *slog.Logger) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}
	return rows, nil
}

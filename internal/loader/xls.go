package loader

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/extrame/xls"
)

const (
	// xlsCharset is used for BIFF strings that carry no code page of their own.
	xlsCharset = "utf-8"
	// xlsMaxRows caps how many rows are read from a legacy workbook.
	xlsMaxRows = 100000
)

func readXLS(data []byte, logger *slog.Logger) ([][]string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), xlsCharset)
	if err != nil {
		return nil, fmt.Errorf("failed to open legacy workbook: %w", err)
	}
	if workbook.NumSheets() == 0 {
		return nil, fmt.Errorf("%w: workbook has no worksheet", ErrEmptyInput)
	}
	if workbook.NumSheets() > 1 {
		logger.Warn("Legacy workbook has several worksheets; reading them as one", "sheets", workbook.NumSheets())
	}

	rows := workbook.ReadAllCells(xlsMaxRows)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: worksheet is empty", ErrEmptyInput)
	}
	return rows, nil
}

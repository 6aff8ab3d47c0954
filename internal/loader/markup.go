package loader

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
)

// readMarkup reads the rows of an HTML table or an XML spreadsheet. The
// table with the most rows wins, which skips layout tables around the data.
func readMarkup(data []byte, _ *slog.Logger) ([][]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse markup: %w", err)
	}

	var best *goquery.Selection
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		if best == nil || ownRows(table).Length() > ownRows(best).Length() {
			best = table
		}
	})

	var rows [][]string
	if best != nil {
		rows = tableRows(best)
	}
	if len(rows) == 0 {
		rows = spreadsheetRows(doc)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no table rows found", ErrEmptyInput)
	}
	return rows, nil
}

// ownRows selects the rows of table without descending into nested tables.
func ownRows(table *goquery.Selection) *goquery.Selection {
	return table.Find("tr").FilterFunction(func(_ int, tr *goquery.Selection) bool {
		return tr.Closest("table").IsSelection(table)
	})
}

func tableRows(table *goquery.Selection) [][]string {
	var rows [][]string
	ownRows(table).Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.ChildrenFiltered("th, td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, td.Text())
		})
		rows = append(rows, cells)
	})
	return rows
}

// spreadsheetRows reads XML Spreadsheet 2003 documents, whose element
// names the HTML parser lowercases.
func spreadsheetRows(doc *goquery.Document) [][]string {
	var rows [][]string
	doc.Find("row").Each(func(_ int, row *goquery.Selection) {
		var cells []string
		row.Find("cell").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, cell.Text())
		})
		rows = append(rows, cells)
	})
	return rows
}

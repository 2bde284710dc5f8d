package decode

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/clinops/trialpulse/internal/normalize"
)

// HTML decodes the first <table> of an HTML document, the format most EDC
// systems use for their ".xls" report downloads.
func HTML(data []byte) ([]normalize.Row, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return []normalize.Row{}, nil
	}

	var grid [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		// nested tables belong to their own cells
		if tr.ParentsFiltered("table").First().Get(0) != table.Get(0) {
			return
		}

		var line []string
		tr.ChildrenFiltered("th, td").Each(func(_ int, cell *goquery.Selection) {
			line = append(line, strings.Join(strings.Fields(cell.Text()), " "))
		})
		grid = append(grid, line)
	})

	return rowsFromGrid(grid), nil
}

package decode

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/clinops/trialpulse/internal/normalize"
)

// XLSX decodes the first worksheet of an Office Open XML workbook.
// Cell values are the formatted strings Excel would display.
func XLSX(data []byte) ([]normalize.Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return []normalize.Row{}, nil
	}

	grid, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rowsFromGrid(grid), nil
}

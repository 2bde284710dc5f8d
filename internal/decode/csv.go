package decode

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/clinops/trialpulse/internal/normalize"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSV decodes comma-separated exports. Ragged lines are accepted.
func CSV(data []byte) ([]normalize.Row, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	grid, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rowsFromGrid(grid), nil
}

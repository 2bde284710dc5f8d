// Package decode turns raw study files into header-keyed rows.
//
// Every format is reduced to a grid of strings first; the first non-blank
// line is the header and each later non-blank line becomes one Row keyed by
// header name. Empty cells are omitted from the Row so column lookups fall
// through to the next alias.
package decode

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/clinops/trialpulse/internal/normalize"
)

// ErrUnsupported is returned for file extensions without a decoder
var ErrUnsupported = errors.New("decode: unsupported file type")

// Decoder converts raw file bytes into rows
type Decoder interface {
	Decode(data []byte) ([]normalize.Row, error)
}

// DecoderFunc adapts a function to Decoder
type DecoderFunc func(data []byte) ([]normalize.Row, error)

func (f DecoderFunc) Decode(data []byte) ([]normalize.Row, error) { return f(data) }

// Registry selects a Decoder by file extension
type Registry struct {
	byExt map[string]Decoder
}

// NewRegistry returns a registry with the xlsx, csv and html decoders.
// Legacy .xls exports from EDC systems are HTML tables and decode as such.
func NewRegistry() *Registry {
	r := &Registry{byExt: make(map[string]Decoder)}
	r.Register(DecoderFunc(XLSX), ".xlsx", ".xlsm")
	r.Register(DecoderFunc(CSV), ".csv")
	r.Register(DecoderFunc(HTML), ".html", ".htm", ".xls")
	return r
}

// Register binds d to the given extensions (with leading dot)
func (r *Registry) Register(d Decoder, exts ...string) {
	for _, ext := range exts {
		r.byExt[strings.ToLower(ext)] = d
	}
}

// Supports reports whether file has a registered decoder
func (r *Registry) Supports(file string) bool {
	_, ok := r.byExt[strings.ToLower(path.Ext(file))]
	return ok
}

// Decode decodes data using the decoder registered for file's extension
func (r *Registry) Decode(file string, data []byte) ([]normalize.Row, error) {
	ext := strings.ToLower(path.Ext(file))
	d, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%s: %w", file, ErrUnsupported)
	}

	rows, err := d.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", file, err)
	}
	return rows, nil
}

// rowsFromGrid applies the header-row convention to a string grid.
// Cells beyond the header width are dropped.
func rowsFromGrid(grid [][]string) []normalize.Row {
	start := 0
	for start < len(grid) && blankLine(grid[start]) {
		start++
	}
	if start == len(grid) {
		return []normalize.Row{}
	}

	header := headerNames(grid[start])
	rows := make([]normalize.Row, 0, len(grid)-start-1)
	for _, line := range grid[start+1:] {
		if blankLine(line) {
			continue
		}

		row := make(normalize.Row, len(header))
		for i, cell := range line {
			if i >= len(header) {
				break
			}
			if cell = strings.TrimSpace(cell); cell != "" {
				row[header[i]] = cell
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// headerNames trims header cells, names blank ones __EMPTY, __EMPTY_1, ...
// and suffixes repeats as Name_1, Name_2, skipping suffixed names that are
// already a header of their own.
func headerNames(raw []string) []string {
	names := make([]string, len(raw))
	reserved := make(map[string]bool, len(raw))
	for _, cell := range raw {
		if name := strings.TrimSpace(cell); name != "" {
			reserved[name] = true
		}
	}

	used := make(map[string]bool, len(raw))
	suffix := make(map[string]int, len(raw))
	empty := 0

	for i, cell := range raw {
		name := strings.TrimSpace(cell)
		if name == "" {
			if empty == 0 {
				name = "__EMPTY"
			} else {
				name = fmt.Sprintf("__EMPTY_%d", empty)
			}
			empty++
		}

		if used[name] {
			base := name
			for {
				suffix[base]++
				name = fmt.Sprintf("%s_%d", base, suffix[base])
				if !used[name] && !reserved[name] {
					break
				}
			}
		}
		used[name] = true
		names[i] = name
	}
	return names
}

func blankLine(line []string) bool {
	for _, cell := range line {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

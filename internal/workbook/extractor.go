package workbook

import (
	"fmt"

	"github.com/sheetsum/sheetsum/pkg/utils"
)

// sampleRowCount is how many retained rows are kept as SampleRows.
const sampleRowCount = 3

// extractSheet builds a Sheet from one raw cell grid. The extraction window
// is rows 1..MaxRowsPerSheet+1 (row 1 is the header row); rows whose cells
// are all empty are dropped and do not count toward TotalRows. Any panic
// during extraction is contained here as a per-sheet error so sibling sheets
// keep processing.
func extractSheet(grid [][]string, name string, cfg Config) (res SheetResult) {
	defer func() {
		if r := recover(); r != nil {
			res = ErrSheet(fmt.Sprintf("Failed to process sheet %s: %v", name, r))
		}
	}()

	window := grid
	if len(window) > cfg.MaxRowsPerSheet+1 {
		window = window[:cfg.MaxRowsPerSheet+1]
	}

	// Column count is a whole-sheet property: a wide row past the window
	// still widens the header set, it just contributes no data rows.
	cols := 0
	for _, r := range grid {
		if len(r) > cols {
			cols = len(r)
		}
	}

	var headerRow []string
	if len(window) > 0 {
		headerRow = window[0]
	}
	headers := make([]string, cols)
	for c := 0; c < cols; c++ {
		v := ""
		if c < len(headerRow) {
			v = headerRow[c]
		}
		if v == "" {
			v = fmt.Sprintf("Column_%d", c+1)
		}
		headers[c] = v
	}

	rows := make([]Row, 0, len(window))
	for i := 1; i < len(window); i++ {
		raw := window[i]
		row := make(Row, cols)
		hasData := false
		for c, header := range headers {
			v := ""
			if c < len(raw) {
				v = raw[c]
			}
			if v != "" {
				v = utils.Truncate(v, cfg.MaxCharsPerCell)
				hasData = true
			}
			row[header] = v
		}
		if hasData {
			rows = append(rows, row)
		}
	}

	samples := rows
	if len(samples) > sampleRowCount {
		samples = samples[:sampleRowCount]
	}

	return OkSheet(&Sheet{
		Name:         name,
		Headers:      headers,
		Rows:         rows,
		TotalRows:    len(rows),
		TotalColumns: cols,
		DataTypes:    classifyColumns(rows, headers, cfg),
		SampleRows:   samples,
	})
}

// Package digest composes a single bounded text summary from extracted
// workbook records, sized for a limited LLM context window.
package digest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sheetsum/sheetsum/internal/workbook"
	"github.com/sheetsum/sheetsum/pkg/utils"
)

// Config bounds how much of each sheet the digest previews. The caps are what
// keep digest size proportional to file-count × sheet-count instead of raw
// row count.
type Config struct {
	// SampleRows is how many sample rows are previewed per sheet.
	SampleRows int
	// HeaderPreview is how many headers are listed per sheet.
	HeaderPreview int
	// ValuePreviewChars truncates each previewed cell value independently.
	ValuePreviewChars int
}

// DefaultConfig returns the standard digest bounds.
func DefaultConfig() Config {
	return Config{SampleRows: 2, HeaderPreview: 10, ValuePreviewChars: 50}
}

// Compose renders the results, in their given order, into one text block.
// Pure function: identical ordered input yields byte-identical output. Failed
// units render as marked error lines at their ordered position; successful
// siblings are unaffected.
func Compose(results []workbook.WorkbookResult, cfg Config) string {
	var parts []string
	parts = append(parts, "=== EXCEL FILES ANALYSIS SUMMARY ===")
	parts = append(parts, fmt.Sprintf("Total files processed: %d", len(results)))

	for _, res := range results {
		if res.Failed() {
			parts = append(parts, fmt.Sprintf("\n❌ %s: %s", res.FileName, res.Err))
			continue
		}
		wb := res.Workbook
		parts = append(parts, fmt.Sprintf("\n📁 FILE: %s", wb.FileName))
		parts = append(parts, fmt.Sprintf("   Sheets: %d (%s)", wb.TotalSheets, strings.Join(wb.SheetNames, ", ")))

		for _, name := range wb.SheetNames {
			sr := wb.Sheets[name]
			if sr.Failed() {
				parts = append(parts, fmt.Sprintf("   ❌ Sheet '%s': %s", name, sr.Err))
				continue
			}
			parts = append(parts, composeSheet(sr.Sheet, cfg)...)
		}
	}
	return strings.Join(parts, "\n")
}

func composeSheet(sheet *workbook.Sheet, cfg Config) []string {
	parts := []string{
		fmt.Sprintf("\n   📊 SHEET: %s", sheet.Name),
		fmt.Sprintf("      Dimensions: %d rows × %d columns", sheet.TotalRows, sheet.TotalColumns),
		fmt.Sprintf("      Columns: %s", headerPreview(sheet.Headers, cfg.HeaderPreview)),
	}
	if len(sheet.SampleRows) == 0 {
		return parts
	}
	parts = append(parts, "      Sample data:")
	samples := sheet.SampleRows
	if len(samples) > cfg.SampleRows {
		samples = samples[:cfg.SampleRows]
	}
	for i, row := range samples {
		parts = append(parts, fmt.Sprintf("        Row %d: %s", i+1, rowPreview(row, sheet.Headers, cfg.ValuePreviewChars)))
	}
	return parts
}

// headerPreview joins the first limit headers, marking elision when more exist.
func headerPreview(headers []string, limit int) string {
	shown := headers
	marker := ""
	if len(shown) > limit {
		shown = shown[:limit]
		marker = "..."
	}
	return strings.Join(shown, ", ") + marker
}

// rowPreview renders one row as a compact JSON object with keys in header
// order and each value independently truncated. Header order makes the
// rendering deterministic; Row is a map and must never be ranged here.
func rowPreview(row workbook.Row, headers []string, maxChars int) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, header := range headers {
		if i > 0 {
			b.WriteString(", ")
		}
		writeJSONString(&b, header)
		b.WriteString(": ")
		writeJSONString(&b, utils.Truncate(row[header], maxChars))
	}
	b.WriteByte('}')
	return b.String()
}

func writeJSONString(b *strings.Builder, s string) {
	enc, err := json.Marshal(s)
	if err != nil {
		// Marshal of a string cannot fail; keep the digest well-formed anyway.
		enc = []byte(`""`)
	}
	b.Write(enc)
}

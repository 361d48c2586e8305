package workbook

import "strings"

// classifyColumns labels each column from the values of the first
// ClassifySampleSize retained rows, excluding empty cells. A column with no
// samples is empty; one whose numeric sample fraction strictly exceeds
// NumericThreshold is numeric; everything else is text. Pure function of the
// ordered input; never fails.
func classifyColumns(rows []Row, headers []string, cfg Config) map[string]ColumnType {
	types := make(map[string]ColumnType, len(headers))
	sampleRows := rows
	if len(sampleRows) > cfg.ClassifySampleSize {
		sampleRows = sampleRows[:cfg.ClassifySampleSize]
	}
	for _, header := range headers {
		var samples []string
		for _, row := range sampleRows {
			if v := row[header]; v != "" {
				samples = append(samples, v)
			}
		}
		if len(samples) == 0 {
			types[header] = TypeEmpty
			continue
		}
		numeric := 0
		for _, v := range samples {
			if looksNumeric(v) {
				numeric++
			}
		}
		if float64(numeric) > float64(len(samples))*cfg.NumericThreshold {
			types[header] = TypeNumeric
		} else {
			types[header] = TypeText
		}
	}
	return types
}

// looksNumeric strips every '.' and '-' and reports whether at least one
// character remains and all remaining characters are digits. Multi-dot
// strings like "1.2.3" therefore count as numeric; classification depends on
// this exact behavior, so tighten it only together with its tests.
func looksNumeric(s string) bool {
	stripped := strings.Map(func(r rune) rune {
		if r == '.' || r == '-' {
			return -1
		}
		return r
	}, s)
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

package workbook

// ProcessBatch loads every file in upload order and returns one result per
// file, in the same order. Files are independent: a failure is contained to
// its own result and never affects siblings. Output order is part of the
// contract because digest composition must be reproducible for identical
// input.
func ProcessBatch(files []File, cfg Config) []WorkbookResult {
	results := make([]WorkbookResult, 0, len(files))
	for _, f := range files {
		results = append(results, Load(f.Content, f.Name, cfg))
	}
	return results
}

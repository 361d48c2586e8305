// Package workbook loads spreadsheet workbooks and extracts bounded,
// structured sheet data suitable for digest composition.
package workbook

// ColumnType classifies the values observed in one column.
type ColumnType string

const (
	// TypeNumeric means more than the configured threshold of sampled values look numeric.
	TypeNumeric ColumnType = "numeric"
	// TypeText is the fallback for columns with non-numeric samples.
	TypeText ColumnType = "text"
	// TypeEmpty means no non-empty value was sampled for the column.
	TypeEmpty ColumnType = "empty"
)

// Row maps a header name to the cell value under it. Every row of a sheet
// carries exactly the sheet's header set, empty cells included; iteration
// order comes from Sheet.Headers, never from the map itself.
type Row map[string]string

// Sheet is the bounded extraction of one worksheet.
type Sheet struct {
	Name         string                `json:"sheet_name"`
	Headers      []string              `json:"headers"`
	Rows         []Row                 `json:"rows"`
	TotalRows    int                   `json:"total_rows"`
	TotalColumns int                   `json:"total_columns"`
	DataTypes    map[string]ColumnType `json:"data_types"`
	SampleRows   []Row                 `json:"sample_rows"`
}

// Workbook is the extraction of one uploaded file. SheetNames preserves the
// container's sheet order; Sheets is keyed by sheet name.
type Workbook struct {
	FileName    string                 `json:"file_name"`
	SheetNames  []string               `json:"sheet_names"`
	TotalSheets int                    `json:"total_sheets"`
	Sheets      map[string]SheetResult `json:"sheets"`
}

// SheetResult is the outcome of extracting one sheet: either Sheet is set or
// Err is set, never both. Constructors below enforce the tag.
type SheetResult struct {
	Sheet *Sheet `json:"sheet,omitempty"`
	Err   string `json:"error,omitempty"`
}

// OkSheet wraps a successfully extracted sheet.
func OkSheet(s *Sheet) SheetResult { return SheetResult{Sheet: s} }

// ErrSheet wraps a per-sheet failure message.
func ErrSheet(msg string) SheetResult { return SheetResult{Err: msg} }

// Failed reports whether the sheet could not be extracted.
func (r SheetResult) Failed() bool { return r.Sheet == nil }

// WorkbookResult is the outcome of loading one file. FileName is always set,
// even on failure, so the digest can name the failed unit.
type WorkbookResult struct {
	FileName string    `json:"file_name"`
	Workbook *Workbook `json:"workbook,omitempty"`
	Err      string    `json:"error,omitempty"`
}

// OkWorkbook wraps a successfully loaded workbook.
func OkWorkbook(wb *Workbook) WorkbookResult {
	return WorkbookResult{FileName: wb.FileName, Workbook: wb}
}

// ErrWorkbook wraps a per-file failure message.
func ErrWorkbook(fileName, msg string) WorkbookResult {
	return WorkbookResult{FileName: fileName, Err: msg}
}

// Failed reports whether the file could not be loaded.
func (r WorkbookResult) Failed() bool { return r.Workbook == nil }

// File is one uploaded workbook: its display name and raw byte content.
type File struct {
	Name    string
	Content []byte
}

// Config bounds extraction and classification. Use DefaultConfig as the
// starting point; zero values are not valid.
type Config struct {
	// MaxRowsPerSheet is the extraction window size, excluding the header row.
	MaxRowsPerSheet int
	// MaxCharsPerCell truncates each cell value, appending "..." when applied.
	MaxCharsPerCell int
	// ClassifySampleSize is how many retained rows feed per-column type inference.
	ClassifySampleSize int
	// NumericThreshold is the sample fraction that must be strictly exceeded
	// for a column to classify as numeric.
	NumericThreshold float64
}

// DefaultConfig returns the standard extraction bounds.
func DefaultConfig() Config {
	return Config{
		MaxRowsPerSheet:    100,
		MaxCharsPerCell:    500,
		ClassifySampleSize: 10,
		NumericThreshold:   0.7,
	}
}

package workbook

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// gridReader yields the raw cell grid of each sheet in a workbook container.
// Implementations read computed cell values, never formula text.
type gridReader interface {
	// SheetNames returns sheet names in container order.
	SheetNames() []string
	// Grid returns the cell grid for one sheet. Rows may be ragged; trailing
	// empty cells may be absent.
	Grid(name string) ([][]string, error)
	Close() error
}

// Load opens the workbook bytes and extracts every sheet under cfg's bounds.
// Failure to open the container (corrupt bytes, unsupported format, zero
// sheets) is contained here and reported as an error result for this file
// only. Per-sheet failures are contained per sheet and never abort siblings.
func Load(content []byte, fileName string, cfg Config) WorkbookResult {
	r, err := openReader(content, fileName)
	if err != nil {
		return ErrWorkbook(fileName, fmt.Sprintf("Failed to read %s: %v", fileName, err))
	}
	defer r.Close()

	names := r.SheetNames()
	if len(names) == 0 {
		return ErrWorkbook(fileName, fmt.Sprintf("Failed to read %s: workbook contains no sheets", fileName))
	}

	wb := &Workbook{
		FileName:    fileName,
		SheetNames:  names,
		TotalSheets: len(names),
		Sheets:      make(map[string]SheetResult, len(names)),
	}
	for _, name := range names {
		grid, err := r.Grid(name)
		if err != nil {
			wb.Sheets[name] = ErrSheet(fmt.Sprintf("Failed to process sheet %s: %v", name, err))
			continue
		}
		wb.Sheets[name] = extractSheet(grid, name, cfg)
	}
	return OkWorkbook(wb)
}

// openReader picks a container reader by file extension. The xlsx family goes
// through excelize; .ods goes through the OpenDocument reader. Unknown
// extensions are attempted as xlsx and fail into the file's error result.
func openReader(content []byte, fileName string) (gridReader, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".ods":
		return openODS(content)
	default:
		return openXLSX(content)
	}
}

// xlsxReader reads .xlsx/.xlsm/.xltx/.xltm grids via excelize. GetRows
// returns cached calculated values for formula cells, so formula text never
// reaches extraction.
type xlsxReader struct {
	f *excelize.File
}

func openXLSX(content []byte) (gridReader, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return &xlsxReader{f: f}, nil
}

func (r *xlsxReader) SheetNames() []string { return r.f.GetSheetList() }

func (r *xlsxReader) Grid(name string) ([][]string, error) {
	rows, err := r.f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("get rows: %w", err)
	}
	return rows, nil
}

func (r *xlsxReader) Close() error { return r.f.Close() }

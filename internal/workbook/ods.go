package workbook

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// odsContentPath is the path to the main content inside an .ods zip (OpenDocument Spreadsheet).
const odsContentPath = "content.xml"

// odsMaxRepeat clamps number-columns-repeated / number-rows-repeated
// expansion. OpenDocument writers pad sheet edges with huge repeat counts;
// anything past this bound is padding, and the extraction window is far
// smaller anyway.
const odsMaxRepeat = 1000

// odsReader reads .ods grids. ODS is a ZIP containing content.xml; tables
// live under office:body/office:spreadsheet. Cell display text carries the
// computed value (formula cells store the formula in an attribute we never
// read), so formula text cannot leak into extraction.
type odsReader struct {
	names  []string
	tables map[string][][]string
}

type odsContent struct {
	Body struct {
		Spreadsheet struct {
			Tables []odsTable `xml:"table"`
		} `xml:"spreadsheet"`
	} `xml:"body"`
}

type odsTable struct {
	Name string   `xml:"name,attr"`
	Rows []odsRow `xml:"table-row"`
}

type odsRow struct {
	Repeated int       `xml:"number-rows-repeated,attr"`
	Cells    []odsCell `xml:"table-cell"`
}

type odsCell struct {
	Repeated int            `xml:"number-columns-repeated,attr"`
	Value    string         `xml:"value,attr"`
	Text     []odsParagraph `xml:"p"`
}

// odsParagraph is one text:p element. Writers wrap styled or hyperlinked
// runs in child elements (text:span, text:a), so character data must be
// collected at every depth, not just directly under the paragraph.
type odsParagraph struct {
	Text string
}

func (p *odsParagraph) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var b strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			b.Write(t)
		}
	}
	p.Text = b.String()
	return nil
}

func openODS(content []byte) (gridReader, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open ODS: not a zip: %w", err)
	}
	var contentXML []byte
	for _, f := range zr.File {
		if f.Name != odsContentPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open ODS: open %s: %w", f.Name, err)
		}
		contentXML, err = io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("open ODS: read %s: %w", f.Name, err)
		}
		break
	}
	if contentXML == nil {
		return nil, fmt.Errorf("open ODS: %s not found", odsContentPath)
	}

	var doc odsContent
	if err := xml.Unmarshal(contentXML, &doc); err != nil {
		return nil, fmt.Errorf("open ODS: parse %s: %w", odsContentPath, err)
	}

	r := &odsReader{tables: make(map[string][][]string)}
	for _, table := range doc.Body.Spreadsheet.Tables {
		r.names = append(r.names, table.Name)
		r.tables[table.Name] = expandODSTable(table)
	}
	return r, nil
}

func (r *odsReader) SheetNames() []string { return r.names }

func (r *odsReader) Grid(name string) ([][]string, error) {
	grid, ok := r.tables[name]
	if !ok {
		return nil, fmt.Errorf("sheet %q not found", name)
	}
	return grid, nil
}

func (r *odsReader) Close() error { return nil }

// expandODSTable materializes one table into a grid, applying clamped
// row/column repeats and trimming trailing empty cells and rows.
func expandODSTable(table odsTable) [][]string {
	var grid [][]string
	for _, row := range table.Rows {
		cells := expandODSRow(row)
		for i := 0; i < clampRepeat(row.Repeated); i++ {
			r := make([]string, len(cells))
			copy(r, cells)
			grid = append(grid, r)
		}
	}
	for len(grid) > 0 && len(grid[len(grid)-1]) == 0 {
		grid = grid[:len(grid)-1]
	}
	return grid
}

func expandODSRow(row odsRow) []string {
	var cells []string
	for _, cell := range row.Cells {
		v := odsCellValue(cell)
		for i := 0; i < clampRepeat(cell.Repeated); i++ {
			cells = append(cells, v)
		}
	}
	for len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}

// odsCellValue prefers the cell's display paragraphs; the office:value
// attribute is the fallback for typed cells written without display text.
func odsCellValue(cell odsCell) string {
	parts := make([]string, 0, len(cell.Text))
	for _, p := range cell.Text {
		parts = append(parts, p.Text)
	}
	if v := strings.Join(parts, "\n"); v != "" {
		return v
	}
	return cell.Value
}

func clampRepeat(n int) int {
	if n <= 0 {
		return 1
	}
	if n > odsMaxRepeat {
		return odsMaxRepeat
	}
	return n
}

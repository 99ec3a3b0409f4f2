// Package sheet reads and writes the pipeline's tabular XLSX datasets.
package sheet

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Table is an in-memory tabular dataset: a header row plus data rows.
// Missing cells read as ""; Set materializes columns on demand, so a table
// can grow enrichment columns its source file never had.
type Table struct {
	Header []string
	Rows   [][]string

	cols map[string]int
}

// NewTable creates an empty table with the given columns.
func NewTable(header []string) *Table {
	t := &Table{Header: append([]string(nil), header...)}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.cols = make(map[string]int, len(t.Header))
	for i, name := range t.Header {
		t.cols[name] = i
	}
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// Get returns the cell at (row, col); absent columns and short rows read
// as "" so callers can treat unknown data uniformly.
func (t *Table) Get(row int, col string) string {
	idx, ok := t.cols[col]
	if !ok || row < 0 || row >= len(t.Rows) || idx >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][idx]
}

// Set writes the cell at (row, col), adding the column to the header and
// padding rows as needed.
func (t *Table) Set(row int, col, value string) {
	if row < 0 || row >= len(t.Rows) {
		return
	}
	idx, ok := t.cols[col]
	if !ok {
		idx = len(t.Header)
		t.Header = append(t.Header, col)
		t.cols[col] = idx
	}
	for len(t.Rows[row]) <= idx {
		t.Rows[row] = append(t.Rows[row], "")
	}
	t.Rows[row][idx] = value
}

// EnsureColumns adds any missing columns to the header, in order.
func (t *Table) EnsureColumns(cols ...string) {
	for _, col := range cols {
		if _, ok := t.cols[col]; !ok {
			t.cols[col] = len(t.Header)
			t.Header = append(t.Header, col)
		}
	}
}

// Append adds a data row, padded or truncated to the header width.
func (t *Table) Append(cells []string) {
	row := make([]string, len(t.Header))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// Read loads the first sheet of an XLSX file into a Table. The first row
// is the header.
func Read(path string) (*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "sheet: open file")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("sheet: %s has no sheets", path)
	}

	sheet := f.Sheets[0]
	t := &Table{}
	for i, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		if i == 0 {
			t.Header = cells
			continue
		}
		t.Rows = append(t.Rows, cells)
	}
	t.reindex()
	return t, nil
}

// Write saves the table to an XLSX file, creating parent directories.
func Write(t *Table, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "sheet: create output dir")
	}

	f := xlsx.NewFile()
	sh, err := f.AddSheet("Sheet1")
	if err != nil {
		return eris.Wrap(err, "sheet: add sheet")
	}

	header := sh.AddRow()
	for _, name := range t.Header {
		header.AddCell().SetString(name)
	}
	for _, cells := range t.Rows {
		row := sh.AddRow()
		for i := range t.Header {
			val := ""
			if i < len(cells) {
				val = cells[i]
			}
			row.AddCell().SetString(val)
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "sheet: save file")
	}
	return nil
}

// DatedPath builds dir/prefix_YYYY-MM-DD.xlsx for the given time.
func DatedPath(dir, prefix string, t time.Time) string {
	return filepath.Join(dir, prefix+"_"+t.Format("2006-01-02")+".xlsx")
}

// LatestGenerated returns the newest dated generated-leads file in dir.
// Dated filenames sort lexicographically by date.
func LatestGenerated(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "generated_leads_????-??-??.xlsx"))
	if err != nil {
		return "", eris.Wrap(err, "sheet: glob generated files")
	}
	if len(matches) == 0 {
		return "", eris.Errorf("sheet: no generated leads files in %s", dir)
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}

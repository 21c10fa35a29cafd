// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package results

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

// DefaultIndex is the column used as the table index.
const DefaultIndex = "sample"

// Extension of results files.
const Extension = ".txt"

// MaxLineSize is the longest line Parse accepts.
const MaxLineSize = 16 * 1024 * 1024

var (
	// ErrRead is returned when the results file cannot be read.
	ErrRead = errors.New("failed to read results file")
	// ErrEmpty is returned when the results file has no header line.
	ErrEmpty = errors.New("results file is empty")
	// ErrRaggedRow is returned when a row does not have one value per column.
	ErrRaggedRow = errors.New("row does not match header")
	// ErrColumnNotFound is returned when the index column is not in the header.
	ErrColumnNotFound = errors.New("column not found")
	// ErrDuplicateColumn is returned when the header names a column twice.
	ErrDuplicateColumn = errors.New("duplicate column")
)

// FsFactory returns the filesystem used when none is supplied.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// Path returns "<dir>/<name>.txt".
func Path(dir, name string) string {
	return filepath.Join(dir, name+Extension)
}

// Table is a parsed results file.
type Table struct {
	Index   string   // Index column name, empty if no index is set
	Columns []string // Data columns, excluding the index
	Rows    []Row
}

// Row is one line of a Table.
type Row struct {
	Key    string   // Value of the index column
	Values []string // One value per Table.Columns entry
}

// Parse reads a whitespace-delimited table from r. No index is set.
func Parse(r io.Reader) (*Table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), MaxLineSize)

	t := &Table{}
	line := 0
	header := false

	for sc.Scan() {
		line++

		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		if !header {
			for i, f := range fields {
				if slices.Contains(fields[:i], f) {
					return nil, fmt.Errorf("%w: %q on line %d", ErrDuplicateColumn, f, line)
				}
			}

			t.Columns = fields
			header = true

			continue
		}

		if len(fields) != len(t.Columns) {
			return nil, fmt.Errorf("%w: line %d has %d values, expected %d", ErrRaggedRow, line, len(fields), len(t.Columns))
		}

		t.Rows = append(t.Rows, Row{Values: fields})
	}

	if err := sc.Err(); err != nil {
		return nil, errors.Join(ErrRead, err)
	}

	if !header {
		return nil, ErrEmpty
	}

	return t, nil
}

// SetIndex moves column out of Columns and uses its values as row keys.
// Setting an index on an indexed table first restores the previous index column.
func (t *Table) SetIndex(column string) error {
	t.resetIndex()

	i := slices.Index(t.Columns, column)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}

	t.Columns = slices.Delete(slices.Clone(t.Columns), i, i+1)

	for n := range t.Rows {
		r := &t.Rows[n]
		r.Key = r.Values[i]
		r.Values = slices.Delete(slices.Clone(r.Values), i, i+1)
	}

	t.Index = column

	return nil
}

func (t *Table) resetIndex() {
	if t.Index == "" {
		return
	}

	t.Columns = slices.Insert(t.Columns, 0, t.Index)

	for n := range t.Rows {
		r := &t.Rows[n]
		r.Values = slices.Insert(r.Values, 0, r.Key)
		r.Key = ""
	}

	t.Index = ""
}

// Lookup returns the row whose index value is key.
func (t *Table) Lookup(key string) (Row, bool) {
	i := slices.IndexFunc(t.Rows, func(r Row) bool { return r.Key == key })
	if i < 0 {
		return Row{}, false
	}

	return t.Rows[i], true
}

// Header returns the index column (if any) followed by the data columns.
func (t *Table) Header() []string {
	if t.Index == "" {
		return slices.Clone(t.Columns)
	}

	return slices.Concat([]string{t.Index}, t.Columns)
}

// Document returns the table for JSON output. Maps lose key order once
// marshalled, so the header and each row are arrays in file order:
//
//	{"index": "sample", "columns": ["sample", "value"], "rows": [["7d", "1.0"]]}
func (t *Table) Document() map[string]any {
	columns := make([]any, 0, len(t.Columns)+1)
	for _, c := range t.Header() {
		columns = append(columns, c)
	}

	rows := make([]any, 0, len(t.Rows))

	for _, r := range t.Rows {
		row := make([]any, 0, len(columns))
		if t.Index != "" {
			row = append(row, r.Key)
		}

		for _, v := range r.Values {
			row = append(row, v)
		}

		rows = append(rows, row)
	}

	return map[string]any{
		"index":   t.Index,
		"columns": columns,
		"rows":    rows,
	}
}

// Load reads the results file at path and indexes it by index.
// An empty index leaves the table unindexed.
func Load(fs afero.Fs, path, index string) (*Table, error) {
	if fs == nil {
		fs = FsFactory()
	}

	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Join(ErrRead, err)
	}

	defer f.Close() //nolint:errcheck

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if index == "" {
		return t, nil
	}

	if err := t.SetIndex(index); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return t, nil
}

// Remove deletes the results file at path. It reports whether a file was removed.
func Remove(fs afero.Fs, path string) (bool, error) {
	if fs == nil {
		fs = FsFactory()
	}

	ok, err := afero.Exists(fs, path)
	if err != nil {
		return false, errors.Join(ErrRead, err)
	}

	if !ok {
		return false, nil
	}

	if err := fs.Remove(path); err != nil {
		return false, fmt.Errorf("failed to remove results file %s: %w", path, err)
	}

	return true, nil
}

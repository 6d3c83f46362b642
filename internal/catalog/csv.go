package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// nameHeader is the first header cell of every dataset file. The name is
// historical — the same column holds GPU products.
const nameHeader = "CPU Name"

// WriteCSV writes the table: a header of "CPU Name" plus the sorted date
// superset, then one row per product with empty cells where no
// observation exists.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	dates := t.Dates()

	header := append([]string{nameHeader}, dates...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, r := range t.rows {
		record := make([]string, 0, len(dates)+1)
		record = append(record, r.Product)
		for _, label := range dates {
			if v, ok := r.Prices[label]; ok {
				record = append(record, strconv.FormatFloat(v, 'f', 2, 64))
			} else {
				record = append(record, "")
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row %q: %w", r.Product, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the table to a file, replacing any previous contents.
func (t *Table) SaveCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := t.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadCSV loads a table previously written by WriteCSV. Blank cells stay
// absent. A cell that is neither blank nor numeric is an error.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) == 0 || header[0] != nameHeader {
		return nil, fmt.Errorf("unexpected header %v", header)
	}
	dates := header[1:]

	t := NewTable()
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		if len(record) == 0 || record[0] == "" {
			continue
		}

		row := NewRow(record[0])
		for i, cell := range record[1:] {
			if i >= len(dates) || cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %q, column %q: %w", record[0], dates[i], err)
			}
			row.Prices[dates[i]] = v
		}
		if err := t.Append(row); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// LoadCSV reads a table from a dataset file.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}

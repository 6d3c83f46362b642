package terms

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Parse reads search terms from CSV-shaped input: the first field of
// each record is the term, blank entries are ignored.
func Parse(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var terms []string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading terms: %w", err)
		}
		if len(record) == 0 {
			continue
		}
		term := strings.TrimSpace(record[0])
		if term == "" {
			continue
		}
		terms = append(terms, term)
	}
	return terms, nil
}

// Load reads search terms from a file.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

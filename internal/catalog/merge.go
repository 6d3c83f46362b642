package catalog

// Merge concatenates per-category tables into one catalog. Row order
// follows the input order. A product name appearing in more than one
// input surfaces as a DuplicateProductError; it is never silently
// resolved. Absent cells stay absent across the merged column superset.
func Merge(tables ...*Table) (*Table, error) {
	merged := NewTable()
	for _, t := range tables {
		for _, row := range t.Rows() {
			if err := merged.Append(row); err != nil {
				return nil, err
			}
		}
	}
	return merged, nil
}

// LoadAndMerge reads category dataset files and merges them.
func LoadAndMerge(paths ...string) (*Table, error) {
	tables := make([]*Table, 0, len(paths))
	for _, p := range paths {
		t, err := LoadCSV(p)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return Merge(tables...)
}

package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// DateLabel is the column label format for calendar days. It sorts
// lexicographically in date order, which keeps the CSV header stable.
const DateLabel = "2006-01-02"

// Row holds one product's daily average prices keyed by date label.
// A missing key means no observation for that day; it is never zero.
type Row struct {
	Product string
	Prices  map[string]float64
}

// NewRow creates an empty row for a product.
func NewRow(product string) Row {
	return Row{Product: product, Prices: make(map[string]float64)}
}

// Price returns the cell for a date label. Absent cells report ok=false
// and must not be read as zero by any statistics consumer.
func (r Row) Price(label string) (float64, bool) {
	v, ok := r.Prices[label]
	return v, ok
}

// ValueOr returns the cell value, or fill when the cell is absent.
// Display-only: this is the legacy dense-grid substitution, not data.
func (r Row) ValueOr(label string, fill float64) float64 {
	if v, ok := r.Prices[label]; ok {
		return v
	}
	return fill
}

// Table is a daily price table: one row per product, one column per
// observed calendar day. Rows are unique by product name.
type Table struct {
	rows  []Row
	index map[string]int
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

// Append adds a row. Product names must be unique within a table.
func (t *Table) Append(row Row) error {
	if _, dup := t.index[row.Product]; dup {
		return &DuplicateProductError{Product: row.Product}
	}
	t.index[row.Product] = len(t.rows)
	t.rows = append(t.rows, row)
	return nil
}

// Len returns the number of product rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns the rows in insertion order.
func (t *Table) Rows() []Row {
	return t.rows
}

// Products returns the product names in insertion order.
func (t *Table) Products() []string {
	names := make([]string, len(t.rows))
	for i, r := range t.rows {
		names[i] = r.Product
	}
	return names
}

// Lookup finds a row by exact product name.
func (t *Table) Lookup(product string) (Row, bool) {
	i, ok := t.index[product]
	if !ok {
		return Row{}, false
	}
	return t.rows[i], true
}

// Match finds the first row whose product name contains name,
// case-insensitively. This mirrors the dashboard's search behavior.
func (t *Table) Match(name string) (Row, bool) {
	needle := strings.ToLower(name)
	for _, r := range t.rows {
		if strings.Contains(strings.ToLower(r.Product), needle) {
			return r, true
		}
	}
	return Row{}, false
}

// Dates returns the sorted union of all date labels across rows.
func (t *Table) Dates() []string {
	seen := make(map[string]struct{})
	for _, r := range t.rows {
		for label := range r.Prices {
			seen[label] = struct{}{}
		}
	}
	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Dense returns every row expanded over the full date superset with
// absent cells replaced by fill, in row order. This reproduces the old
// full-catalog loader's zero-fill view; it exists for display grids only
// and must never feed series synthesis or statistics.
func (t *Table) Dense(fill float64) [][]float64 {
	dates := t.Dates()
	grid := make([][]float64, len(t.rows))
	for i, r := range t.rows {
		cells := make([]float64, len(dates))
		for j, label := range dates {
			cells[j] = r.ValueOr(label, fill)
		}
		grid[i] = cells
	}
	return grid
}

// DuplicateProductError reports a product name present in more than one
// table during a merge. The source data is partitioned by category, so a
// duplicate indicates a data error rather than something to reconcile.
type DuplicateProductError struct {
	Product string
}

func (e *DuplicateProductError) Error() string {
	return fmt.Sprintf("product %q appears in more than one table", e.Product)
}

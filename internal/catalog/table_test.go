package catalog

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func rowWith(product string, cells map[string]float64) Row {
	r := NewRow(product)
	for k, v := range cells {
		r.Prices[k] = v
	}
	return r
}

func TestTableAppendDuplicate(t *testing.T) {
	tbl := NewTable()
	if err := tbl.Append(NewRow("Ryzen 5 3600")); err != nil {
		t.Fatalf("first append: %v", err)
	}

	err := tbl.Append(NewRow("Ryzen 5 3600"))
	var dup *DuplicateProductError
	if !errors.As(err, &dup) {
		t.Fatalf("duplicate append = %v, want DuplicateProductError", err)
	}
	if dup.Product != "Ryzen 5 3600" {
		t.Errorf("dup.Product = %q", dup.Product)
	}
}

func TestTableLookupAndMatch(t *testing.T) {
	tbl := NewTable()
	tbl.Append(NewRow("AMD Ryzen 7 5800X"))
	tbl.Append(NewRow("Intel Core i5-12400F"))

	if _, ok := tbl.Lookup("ryzen"); ok {
		t.Error("Lookup should be exact, matched a fragment")
	}
	if _, ok := tbl.Lookup("AMD Ryzen 7 5800X"); !ok {
		t.Error("Lookup missed exact name")
	}

	row, ok := tbl.Match("i5-12400")
	if !ok || row.Product != "Intel Core i5-12400F" {
		t.Errorf("Match(i5-12400) = %q, %v", row.Product, ok)
	}
	if row, ok := tbl.Match("RYZEN"); !ok || row.Product != "AMD Ryzen 7 5800X" {
		t.Errorf("Match should be case-insensitive, got %q, %v", row.Product, ok)
	}
	if _, ok := tbl.Match("threadripper"); ok {
		t.Error("Match found a product that is not there")
	}
}

func TestTableDatesUnion(t *testing.T) {
	tbl := NewTable()
	tbl.Append(rowWith("a", map[string]float64{"2024-12-03": 1, "2024-12-01": 2}))
	tbl.Append(rowWith("b", map[string]float64{"2024-12-02": 3, "2024-12-03": 4}))

	want := []string{"2024-12-01", "2024-12-02", "2024-12-03"}
	if got := tbl.Dates(); !reflect.DeepEqual(got, want) {
		t.Errorf("Dates() = %v, want %v", got, want)
	}
}

func TestTableDenseFill(t *testing.T) {
	tbl := NewTable()
	tbl.Append(rowWith("a", map[string]float64{"2024-12-01": 100}))
	tbl.Append(rowWith("b", map[string]float64{"2024-12-02": 200}))

	want := [][]float64{{100, 0}, {0, 200}}
	if got := tbl.Dense(0); !reflect.DeepEqual(got, want) {
		t.Errorf("Dense(0) = %v, want %v", got, want)
	}
}

func TestCSVRoundTrip(t *testing.T) {
	tbl := NewTable()
	tbl.Append(rowWith("AMD Ryzen 7 5800X", map[string]float64{
		"2024-12-01": 305,
		"2024-12-03": 310.5,
	}))
	tbl.Append(rowWith("Intel Core i5-12400F", map[string]float64{
		"2024-12-02": 150.25,
	}))

	var buf bytes.Buffer
	if err := tbl.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "CPU Name,2024-12-01,2024-12-02,2024-12-03" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "AMD Ryzen 7 5800X,305.00,,310.50" {
		t.Errorf("row 1 = %q", lines[1])
	}

	got, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	row, ok := got.Lookup("AMD Ryzen 7 5800X")
	if !ok {
		t.Fatal("row lost in round trip")
	}
	if _, ok := row.Price("2024-12-02"); ok {
		t.Error("blank cell came back as a value")
	}
	if v, ok := row.Price("2024-12-03"); !ok || v != 310.5 {
		t.Errorf("2024-12-03 = %v, %v; want 310.5", v, ok)
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"wrong header", "Product,2024-12-01\nfoo,1.00\n"},
		{"non-numeric cell", "CPU Name,2024-12-01\nfoo,abc\n"},
		{"duplicate product", "CPU Name,2024-12-01\nfoo,1.00\nfoo,2.00\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestMerge(t *testing.T) {
	cpus := NewTable()
	cpus.Append(rowWith("Ryzen 5 3600", map[string]float64{"2024-12-01": 85}))

	gpus := NewTable()
	gpus.Append(rowWith("RTX 3060", map[string]float64{"2024-12-02": 240}))

	merged, err := Merge(cpus, gpus)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	want := []string{"Ryzen 5 3600", "RTX 3060"}
	if got := merged.Products(); !reflect.DeepEqual(got, want) {
		t.Errorf("Products() = %v, want %v", got, want)
	}

	row, _ := merged.Lookup("Ryzen 5 3600")
	if _, ok := row.Price("2024-12-02"); ok {
		t.Error("merge filled an absent cell from another row's column")
	}
}

func TestMergeDuplicateAcrossTables(t *testing.T) {
	a := NewTable()
	a.Append(NewRow("RTX 3060"))
	b := NewTable()
	b.Append(NewRow("RTX 3060"))

	_, err := Merge(a, b)
	var dup *DuplicateProductError
	if !errors.As(err, &dup) {
		t.Fatalf("Merge = %v, want DuplicateProductError", err)
	}
}

func TestLoadAndMerge(t *testing.T) {
	dir := t.TempDir()

	writeFile := func(name, content string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	cpuPath := writeFile("cpus.csv", "CPU Name,2024-12-01\nRyzen 5 3600,85.00\n")
	gpuPath := writeFile("gpus.csv", "CPU Name,2024-12-02\nRTX 3060,240.00\n")

	merged, err := LoadAndMerge(cpuPath, gpuPath)
	if err != nil {
		t.Fatalf("LoadAndMerge: %v", err)
	}
	if merged.Len() != 2 {
		t.Errorf("Len() = %d, want 2", merged.Len())
	}

	want := []string{"2024-12-01", "2024-12-02"}
	if got := merged.Dates(); !reflect.DeepEqual(got, want) {
		t.Errorf("Dates() = %v, want %v", got, want)
	}
}

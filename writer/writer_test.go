package writer

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/Comba92/paginegialle-scraper/models"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain name", "results", "results.csv"},
		{"already csv", "results.csv", "results.csv"},
		{"uppercase extension", "results.CSV", "results.CSV"},
		{"empty", "", "output.csv"},
		{"other extension", "results.txt", "results.txt.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OutputPath(tt.input); got != tt.expected {
				t.Errorf("OutputPath(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	records := []models.Business{
		{Name: "Trattoria da Mario", Address: "Via Roma, 1", Phones: "055-123456", City: "firenze"},
		{Name: "Bar Sport", Address: "Corso Italia 12", Phones: "055-2", City: "prato"},
	}

	if err := WriteCSV(path, records); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	rows := readAll(t, path)
	if len(rows) != 3 {
		t.Fatalf("wrote %d rows, want header + 2 records", len(rows))
	}
	if rows[0][0] != "name" || rows[0][3] != "city" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "Trattoria da Mario" || rows[1][1] != "Via Roma, 1" {
		t.Errorf("first record = %v", rows[1])
	}
}

func TestMerge(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "a.csv"), [][]string{
		{"name", "address", "phones", "city"},
		{"Bar Sport", "Corso Italia 12", "055-2", "prato"},
		{"Trattoria da Mario", "Via Roma, 1", "055-123456", "firenze"},
	})
	writeFile(t, filepath.Join(dir, "b.csv"), [][]string{
		{"name", "address", "phones", "city"},
		{"Trattoria da Mario", "Via Roma, 1", "055-123456", "firenze"},
		{"Pizzeria Bella Napoli", "Piazza Duomo 5", "055-998877", "firenze"},
	})
	// non-CSV files are ignored
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0644); err != nil {
		t.Fatal(err)
	}

	outPath := filepath.Join(dir, "merged.csv")
	count, err := Merge(dir, outPath)
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if count != 3 {
		t.Errorf("Merge() merged %d records, want 3", count)
	}

	rows := readAll(t, outPath)
	if len(rows) != 4 {
		t.Fatalf("merged file has %d rows, want header + 3 records", len(rows))
	}
	// sorted case-insensitively by first column
	if rows[1][0] != "Bar Sport" || rows[2][0] != "Pizzeria Bella Napoli" || rows[3][0] != "Trattoria da Mario" {
		t.Errorf("merged order = [%s %s %s]", rows[1][0], rows[2][0], rows[3][0])
	}
}

func TestMergeSortWithFoldEqualColumns(t *testing.T) {
	dir := t.TempDir()

	// first columns differ only in case, so later columns must decide
	writeFile(t, filepath.Join(dir, "a.csv"), [][]string{
		{"name", "address", "phones", "city"},
		{"bar sport", "Via Zara 9", "055-1", "prato"},
		{"Bar Sport", "Corso Italia 12", "055-2", "prato"},
		{"BAR SPORT", "Piazza Duomo 5", "055-3", "firenze"},
	})

	outPath := filepath.Join(dir, "merged.csv")
	if _, err := Merge(dir, outPath); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	rows := readAll(t, outPath)
	if len(rows) != 4 {
		t.Fatalf("merged file has %d rows, want header + 3 records", len(rows))
	}
	addresses := []string{rows[1][1], rows[2][1], rows[3][1]}
	expected := []string{"Corso Italia 12", "Piazza Duomo 5", "Via Zara 9"}
	for i, want := range expected {
		if addresses[i] != want {
			t.Errorf("addresses = %v, want %v", addresses, expected)
			break
		}
	}
}

func TestMergeEmptyFolder(t *testing.T) {
	dir := t.TempDir()
	if _, err := Merge(dir, filepath.Join(dir, "merged.csv")); err == nil {
		t.Error("Merge() expected error for folder without CSV records")
	}
}

func writeFile(t *testing.T, path string, rows [][]string) {
	t.Helper()
	file, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.WriteAll(rows); err != nil {
		t.Fatal(err)
	}
}

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

// Package writer serializes scraped businesses to CSV files and merges
// previously produced CSVs into one.
package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Comba92/paginegialle-scraper/models"
)

var header = []string{"name", "address", "phones", "city"}

// OutputPath normalizes an output filename, enforcing the .csv extension
func OutputPath(name string) string {
	if name == "" {
		name = "output"
	}
	if strings.EqualFold(filepath.Ext(name), ".csv") {
		return name
	}
	return name + ".csv"
}

// WriteCSV writes businesses to a CSV file with a header row
func WriteCSV(path string, businesses []models.Business) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, b := range businesses {
		row := []string{b.Name, b.Address, b.Phones, b.City}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush output file: %w", err)
	}

	return nil
}

// Merge folds every CSV file in a folder into a single deduplicated
// file at outPath. Returns the number of merged records.
func Merge(folder, outPath string) (int, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return 0, fmt.Errorf("failed to read folder: %w", err)
	}

	seen := make(map[string]bool)
	var rows [][]string

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}

		path := filepath.Join(folder, entry.Name())
		fileRows, err := readCSVRows(path)
		if err != nil {
			return 0, err
		}

		for _, row := range fileRows {
			key := strings.Join(row, "\x1f")
			if seen[key] {
				continue
			}
			seen[key] = true
			rows = append(rows, row)
		}
	}

	if len(rows) == 0 {
		return 0, fmt.Errorf("no CSV records found in %s", folder)
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		for k := 0; k < len(a) && k < len(b); k++ {
			af, bf := strings.ToLower(a[k]), strings.ToLower(b[k])
			if af != bf {
				return af < bf
			}
		}
		return len(a) < len(b)
	})

	file, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create merged file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return 0, fmt.Errorf("failed to write merged records: %w", err)
	}

	return len(rows), nil
}

// readCSVRows reads one CSV file, skipping its header row
func readCSVRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if len(row) > 0 && strings.EqualFold(row[0], header[0]) {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

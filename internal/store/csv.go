package store

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// LoadCSVDir loads every known fleet table from <dir>/<table>.csv, runs the
// cleaning pass on each, and decodes them into a Store. Missing files are
// logged and skipped; the analyzers handle absent tables as empty datasets.
func LoadCSVDir(dir string) (*Store, error) {
	s := &Store{}
	for _, name := range TableNames() {
		path := filepath.Join(dir, name+".csv")
		t, err := readCSV(name, path)
		if err != nil {
			if os.IsNotExist(err) {
				log.Printf("Warning: %s.csv not found, skipping", name)
				continue
			}
			return nil, fmt.Errorf("loading %s: %w", name, err)
		}
		t.clean()
		if err := s.decodeInto(t); err != nil {
			return nil, err
		}
		log.Printf("Loaded %s: %d rows", name, len(t.rows))
	}
	return s, nil
}

// readCSV reads one CSV file into a raw table. Short rows are padded so the
// cleaning pass can treat every row as full-width.
func readCSV(name, path string) (*rawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(records) == 0 {
		return &rawTable{name: name}, nil
	}

	columns := records[0]
	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < len(columns) {
			padded := make([]string, len(columns))
			copy(padded, rec)
			rec = padded
		}
		rows = append(rows, rec[:len(columns)])
	}
	return &rawTable{name: name, columns: columns, rows: rows}, nil
}

package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", name, err)
	}
}

func TestLoadCSVDir(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "drivers.csv",
		"driver_id,first_name,last_name\n1,Alice,Nguyen\n2,Bob,Reyes\n")
	writeCSV(t, dir, "loads.csv",
		"load_id,customer_id,revenue,fuel_surcharge,accessorial_charges,load_date\n"+
			"1,1,1000,100,50,2024-01-05\n")

	s, err := LoadCSVDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(s.Drivers) != 2 {
		t.Errorf("expected 2 drivers, got %d", len(s.Drivers))
	}
	if s.Drivers[0].FullName() != "Alice Nguyen" {
		t.Errorf("unexpected driver name: %s", s.Drivers[0].FullName())
	}
	if len(s.Loads) != 1 {
		t.Fatalf("expected 1 load, got %d", len(s.Loads))
	}
	if got := s.Loads[0].Profit(); got != 850 {
		t.Errorf("expected profit 850, got %v", got)
	}
	if s.Loads[0].LoadDate.IsZero() {
		t.Errorf("load date should parse")
	}
	// Missing tables are skipped, not errors.
	if len(s.Trucks) != 0 {
		t.Errorf("absent trucks.csv should yield an empty table")
	}
}

func TestLoadCSVDirCleansData(t *testing.T) {
	dir := t.TempDir()
	// A denormalized header, a missing numeric value, and a duplicate row.
	writeCSV(t, dir, "loads.csv",
		"Load ID,Customer ID,Revenue,Fuel Surcharge,Accessorial Charges,Load Date\n"+
			"1,1,100,10,5,2024-01-05\n"+
			"2,1,,10,5,2024-01-06\n"+
			"3,1,300,10,5,2024-01-07\n"+
			"3,1,300,10,5,2024-01-07\n")

	s, err := LoadCSVDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Loads) != 3 {
		t.Fatalf("expected 3 loads after dedupe, got %d", len(s.Loads))
	}
	// The missing revenue is imputed to the mean of 100 and 300.
	if s.Loads[1].Revenue != 200 {
		t.Errorf("expected imputed revenue 200, got %v", s.Loads[1].Revenue)
	}
}

func TestLoadCSVDirMissingRequiredColumn(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "drivers.csv", "first_name,last_name\nAlice,Nguyen\n")

	_, err := LoadCSVDir(dir)
	if err == nil {
		t.Fatalf("expected an error for a missing required column")
	}
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("expected ErrMissingColumn, got %v", err)
	}
}

func TestLoadCSVDirShortRowsPadded(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "customers.csv", "customer_id,name\n1,Acme\n2\n")

	s, err := LoadCSVDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The short row has an empty name, which the cleaning pass drops.
	if len(s.Customers) != 1 {
		t.Fatalf("expected 1 customer, got %d", len(s.Customers))
	}
	if s.Customers[0].Name != "Acme" {
		t.Errorf("unexpected customer: %+v", s.Customers[0])
	}
}

func TestLoadCSVDirEmptyDir(t *testing.T) {
	s, err := LoadCSVDir(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.IsEmpty() {
		t.Errorf("expected an empty store")
	}
}

func TestStoreRowCount(t *testing.T) {
	s := &Store{Drivers: []Driver{{DriverID: 1}}}

	n, err := s.RowCount("drivers")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 row, got %d", n)
	}

	if _, err := s.RowCount("no_such_table"); err == nil {
		t.Errorf("expected an error for an unknown table")
	}
}

func TestDriverFullNameFallbacks(t *testing.T) {
	if got := (Driver{FirstName: "Alice"}).FullName(); got != "Alice" {
		t.Errorf("expected first name only, got %q", got)
	}
	if got := (Driver{LastName: "Reyes"}).FullName(); got != "Reyes" {
		t.Errorf("expected last name only, got %q", got)
	}
	if got := (Driver{}).FullName(); got != "Unknown Driver" {
		t.Errorf("expected placeholder, got %q", got)
	}
}

// Package store loads the fleet tables from CSV files or a SQLite database,
// runs the cleaning pass, and holds them in memory for the analyzers.
package store

import (
	"errors"
	"fmt"
)

// ErrMissingColumn indicates a required column is absent from an input table.
// It is a configuration/build-time problem, not a runtime data issue.
var ErrMissingColumn = errors.New("missing required column")

// Store holds all cleaned fleet tables for one run. A nil or empty slice means
// the table was not provided; consumers treat that as an empty dataset.
type Store struct {
	Drivers            []Driver
	Trucks             []Truck
	Customers          []Customer
	Routes             []Route
	Loads              []Load
	Trips              []Trip
	DeliveryEvents     []DeliveryEvent
	FuelPurchases      []FuelPurchase
	MaintenanceRecords []MaintenanceRecord
	SafetyIncidents    []SafetyIncident
	DriverMonthly      []DriverMonthlyMetric
	TruckUtilization   []TruckUtilizationMetric
}

// TableNames lists every table the store knows how to load, in load order.
func TableNames() []string {
	return []string{
		"drivers", "trucks", "customers", "routes", "loads", "trips",
		"fuel_purchases", "maintenance_records", "delivery_events",
		"safety_incidents", "driver_monthly_metrics", "truck_utilization_metrics",
	}
}

// RowCount returns the number of rows in the named table.
func (s *Store) RowCount(table string) (int, error) {
	switch table {
	case "drivers":
		return len(s.Drivers), nil
	case "trucks":
		return len(s.Trucks), nil
	case "customers":
		return len(s.Customers), nil
	case "routes":
		return len(s.Routes), nil
	case "loads":
		return len(s.Loads), nil
	case "trips":
		return len(s.Trips), nil
	case "fuel_purchases":
		return len(s.FuelPurchases), nil
	case "maintenance_records":
		return len(s.MaintenanceRecords), nil
	case "delivery_events":
		return len(s.DeliveryEvents), nil
	case "safety_incidents":
		return len(s.SafetyIncidents), nil
	case "driver_monthly_metrics":
		return len(s.DriverMonthly), nil
	case "truck_utilization_metrics":
		return len(s.TruckUtilization), nil
	}
	return 0, fmt.Errorf("unknown table %q", table)
}

// IsEmpty reports whether no table contains any rows.
func (s *Store) IsEmpty() bool {
	for _, name := range TableNames() {
		if n, _ := s.RowCount(name); n > 0 {
			return false
		}
	}
	return true
}

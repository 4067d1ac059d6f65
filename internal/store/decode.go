package store

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// rowReader gives typed access to a raw table's cells by column name.
// Building one fails with ErrMissingColumn if a required column is absent.
type rowReader struct {
	table *rawTable
	idx   map[string]int
}

func (t *rawTable) reader(required ...string) (*rowReader, error) {
	idx := make(map[string]int, len(t.columns))
	for i, col := range t.columns {
		idx[col] = i
	}
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("table %s: %w: %s", t.name, ErrMissingColumn, col)
		}
	}
	return &rowReader{table: t, idx: idx}, nil
}

func (r *rowReader) str(row int, col string) string {
	c, ok := r.idx[col]
	if !ok {
		return ""
	}
	return strings.TrimSpace(r.table.rows[row][c])
}

func (r *rowReader) float(row int, col string) float64 {
	v, err := strconv.ParseFloat(r.str(row, col), 64)
	if err != nil {
		return 0
	}
	return v
}

func (r *rowReader) integer(row int, col string) int {
	s := r.str(row, col)
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	// Cleaned numeric cells may carry a fractional mean.
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

func (r *rowReader) date(row int, col string) time.Time {
	return parseTime(r.str(row, col))
}

func decodeDrivers(t *rawTable) ([]Driver, error) {
	rd, err := t.reader("driver_id")
	if err != nil {
		return nil, err
	}
	out := make([]Driver, 0, len(t.rows))
	for i := range t.rows {
		out = append(out, Driver{
			DriverID:  rd.integer(i, "driver_id"),
			FirstName: rd.str(i, "first_name"),
			LastName:  rd.str(i, "last_name"),
		})
	}
	return out, nil
}

func decodeTrucks(t *rawTable) ([]Truck, error) {
	rd, err := t.reader("truck_id")
	if err != nil {
		return nil, err
	}
	out := make([]Truck, 0, len(t.rows))
	for i := range t.rows {
		out = append(out, Truck{
			TruckID:        rd.integer(i, "truck_id"),
			UnitNumber:     rd.str(i, "unit_number"),
			ModelYear:      rd.integer(i, "model_year"),
			CurrentMileage: rd.float(i, "current_mileage"),
		})
	}
	return out, nil
}

func decodeCustomers(t *rawTable) ([]Customer, error) {
	rd, err := t.reader("customer_id")
	if err != nil {
		return nil, err
	}
	out := make([]Customer, 0, len(t.rows))
	for i := range t.rows {
		out = append(out, Customer{
			CustomerID: rd.integer(i, "customer_id"),
			Name:       rd.str(i, "name"),
		})
	}
	return out, nil
}

func decodeRoutes(t *rawTable) ([]Route, error) {
	rd, err := t.reader("route_id", "origin_city", "destination_city")
	if err != nil {
		return nil, err
	}
	out := make([]Route, 0, len(t.rows))
	for i := range t.rows {
		out = append(out, Route{
			RouteID:              rd.integer(i, "route_id"),
			OriginCity:           rd.str(i, "origin_city"),
			DestinationCity:      rd.str(i, "destination_city"),
			TypicalDistanceMiles: rd.float(i, "typical_distance_miles"),
		})
	}
	return out, nil
}

func decodeLoads(t *rawTable) ([]Load, error) {
	rd, err := t.reader("load_id", "revenue", "fuel_surcharge", "accessorial_charges")
	if err != nil {
		return nil, err
	}
	out := make([]Load, 0, len(t.rows))
	for i := range t.rows {
		out = append(out, Load{
			LoadID:             rd.integer(i, "load_id"),
			CustomerID:         rd.integer(i, "customer_id"),
			Revenue:            rd.float(i, "revenue"),
			FuelSurcharge:      rd.float(i, "fuel_surcharge"),
			AccessorialCharges: rd.float(i, "accessorial_charges"),
			LoadDate:           rd.date(i, "load_date"),
		})
	}
	return out, nil
}

func decodeTrips(t *rawTable) ([]Trip, error) {
	rd, err := t.reader("trip_id", "load_id", "truck_id", "driver_id")
	if err != nil {
		return nil, err
	}
	out := make([]Trip, 0, len(t.rows))
	for i := range t.rows {
		out = append(out, Trip{
			TripID:              rd.integer(i, "trip_id"),
			LoadID:              rd.integer(i, "load_id"),
			TruckID:             rd.integer(i, "truck_id"),
			DriverID:            rd.integer(i, "driver_id"),
			RouteID:             rd.integer(i, "route_id"),
			DispatchDate:        rd.date(i, "dispatch_date"),
			ActualDistanceMiles: rd.float(i, "actual_distance_miles"),
			IdleHours:           rd.float(i, "idle_hours"),
			AverageMPG:          rd.float(i, "average_mpg"),
		})
	}
	return out, nil
}

func decodeDeliveryEvents(t *rawTable) ([]DeliveryEvent, error) {
	rd, err := t.reader("load_id", "scheduled_datetime", "actual_datetime")
	if err != nil {
		return nil, err
	}
	out := make([]DeliveryEvent, 0, len(t.rows))
	for i := range t.rows {
		out = append(out, DeliveryEvent{
			EventID:           rd.integer(i, "event_id"),
			LoadID:            rd.integer(i, "load_id"),
			TripID:            rd.integer(i, "trip_id"),
			ScheduledDatetime: rd.date(i, "scheduled_datetime"),
			ActualDatetime:    rd.date(i, "actual_datetime"),
		})
	}
	return out, nil
}

func decodeFuelPurchases(t *rawTable) ([]FuelPurchase, error) {
	rd, err := t.reader("truck_id", "total_cost")
	if err != nil {
		return nil, err
	}
	out := make([]FuelPurchase, 0, len(t.rows))
	for i := range t.rows {
		out = append(out, FuelPurchase{
			PurchaseID:     rd.integer(i, "purchase_id"),
			TruckID:        rd.integer(i, "truck_id"),
			PurchaseDate:   rd.date(i, "purchase_date"),
			Gallons:        rd.float(i, "gallons"),
			PricePerGallon: rd.float(i, "price_per_gallon"),
			TotalCost:      rd.float(i, "total_cost"),
		})
	}
	return out, nil
}

func decodeMaintenanceRecords(t *rawTable) ([]MaintenanceRecord, error) {
	rd, err := t.reader("truck_id", "total_cost")
	if err != nil {
		return nil, err
	}
	out := make([]MaintenanceRecord, 0, len(t.rows))
	for i := range t.rows {
		out = append(out, MaintenanceRecord{
			RecordID:        rd.integer(i, "record_id"),
			TruckID:         rd.integer(i, "truck_id"),
			MaintenanceDate: rd.date(i, "maintenance_date"),
			TotalCost:       rd.float(i, "total_cost"),
			DowntimeHours:   rd.float(i, "downtime_hours"),
		})
	}
	return out, nil
}

func decodeSafetyIncidents(t *rawTable) ([]SafetyIncident, error) {
	rd, err := t.reader("driver_id")
	if err != nil {
		return nil, err
	}
	out := make([]SafetyIncident, 0, len(t.rows))
	for i := range t.rows {
		out = append(out, SafetyIncident{
			IncidentID:   rd.integer(i, "incident_id"),
			DriverID:     rd.integer(i, "driver_id"),
			IncidentDate: rd.date(i, "incident_date"),
		})
	}
	return out, nil
}

func decodeDriverMonthly(t *rawTable) ([]DriverMonthlyMetric, error) {
	rd, err := t.reader("driver_id", "month")
	if err != nil {
		return nil, err
	}
	out := make([]DriverMonthlyMetric, 0, len(t.rows))
	for i := range t.rows {
		out = append(out, DriverMonthlyMetric{
			DriverID:           rd.integer(i, "driver_id"),
			Month:              rd.date(i, "month"),
			TotalRevenue:       rd.float(i, "total_revenue"),
			AverageMPG:         rd.float(i, "average_mpg"),
			AverageIdleHours:   rd.float(i, "average_idle_hours"),
			OnTimeDeliveryRate: rd.float(i, "on_time_delivery_rate"),
		})
	}
	return out, nil
}

func decodeTruckUtilization(t *rawTable) ([]TruckUtilizationMetric, error) {
	rd, err := t.reader("truck_id", "month")
	if err != nil {
		return nil, err
	}
	out := make([]TruckUtilizationMetric, 0, len(t.rows))
	for i := range t.rows {
		out = append(out, TruckUtilizationMetric{
			TruckID:         rd.integer(i, "truck_id"),
			Month:           rd.date(i, "month"),
			UtilizationRate: rd.float(i, "utilization_rate"),
			DowntimeHours:   rd.float(i, "downtime_hours"),
			AverageMPG:      rd.float(i, "average_mpg"),
		})
	}
	return out, nil
}

// decodeInto dispatches a cleaned raw table into the matching store slice.
func (s *Store) decodeInto(t *rawTable) error {
	var err error
	switch t.name {
	case "drivers":
		s.Drivers, err = decodeDrivers(t)
	case "trucks":
		s.Trucks, err = decodeTrucks(t)
	case "customers":
		s.Customers, err = decodeCustomers(t)
	case "routes":
		s.Routes, err = decodeRoutes(t)
	case "loads":
		s.Loads, err = decodeLoads(t)
	case "trips":
		s.Trips, err = decodeTrips(t)
	case "delivery_events":
		s.DeliveryEvents, err = decodeDeliveryEvents(t)
	case "fuel_purchases":
		s.FuelPurchases, err = decodeFuelPurchases(t)
	case "maintenance_records":
		s.MaintenanceRecords, err = decodeMaintenanceRecords(t)
	case "safety_incidents":
		s.SafetyIncidents, err = decodeSafetyIncidents(t)
	case "driver_monthly_metrics":
		s.DriverMonthly, err = decodeDriverMonthly(t)
	case "truck_utilization_metrics":
		s.TruckUtilization, err = decodeTruckUtilization(t)
	default:
		return fmt.Errorf("unknown table %q", t.name)
	}
	return err
}

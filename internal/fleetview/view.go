// Package fleetview builds the shared denormalized view of the fleet tables.
// It joins trips with loads, delivery events, routes, and the monthly metric
// tables exactly once, so every analyzer reads the same derived columns.
package fleetview

import (
	"log"
	"time"

	"github.com/fleetsmart/fleetsmart/internal/store"
)

// OnTimeGrace is the tolerance added to a scheduled delivery time before the
// delivery counts as late. The boundary is inclusive.
const OnTimeGrace = 30 * time.Minute

// TripRecord is one trip joined with its load, route, delivery event, and the
// matching monthly driver/truck metrics, plus the derived columns.
type TripRecord struct {
	TripID     int
	LoadID     int
	TruckID    int
	DriverID   int
	RouteID    int
	CustomerID int

	DispatchDate time.Time
	Month        string // "2006-01" key derived from the dispatch date

	Revenue            float64
	FuelSurcharge      float64
	AccessorialCharges float64
	Profit             float64

	ActualDistanceMiles float64
	// Per-mile rates are undefined when the distance is zero.
	HasPerMile     bool
	RevenuePerMile float64
	CostPerMile    float64
	ProfitPerMile  float64

	RouteName string

	HasDelivery bool
	ScheduledAt time.Time
	ActualAt    time.Time
	OnTime      bool

	HasTruckMonthly bool
	UtilizationRate float64
	DowntimeHours   float64

	HasDriverMonthly bool
	DriverIdleHours  float64
	DriverMPG        float64
}

// View is the read-only fleet view shared by all analyzers.
type View struct {
	s *store.Store

	Trips []TripRecord

	routeNames    map[int]string
	driverNames   map[int]string
	truckUnits    map[int]string
	customerNames map[int]string
	incidents     map[int]int
}

// OnTime reports whether an actual delivery time is within the grace period
// of the scheduled time. Exactly scheduled+grace still counts as on time.
func OnTime(actual, scheduled time.Time) bool {
	return !actual.After(scheduled.Add(OnTimeGrace))
}

// MonthKey derives the "2006-01" grouping key for a timestamp, or "" for the
// zero time.
func MonthKey(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01")
}

// RouteDisplayName builds the human-readable lane name.
func RouteDisplayName(origin, destination string) string {
	if origin == "" {
		origin = "Unknown"
	}
	if destination == "" {
		destination = "Unknown"
	}
	return origin + " → " + destination
}

// New builds the fleet view from a loaded store.
func New(s *store.Store) *View {
	v := &View{
		s:             s,
		routeNames:    make(map[int]string, len(s.Routes)),
		driverNames:   make(map[int]string, len(s.Drivers)),
		truckUnits:    make(map[int]string, len(s.Trucks)),
		customerNames: make(map[int]string, len(s.Customers)),
		incidents:     make(map[int]int),
	}

	for _, r := range s.Routes {
		v.routeNames[r.RouteID] = RouteDisplayName(r.OriginCity, r.DestinationCity)
	}
	for _, d := range s.Drivers {
		v.driverNames[d.DriverID] = d.FullName()
	}
	for _, t := range s.Trucks {
		v.truckUnits[t.TruckID] = t.UnitNumber
	}
	for _, c := range s.Customers {
		v.customerNames[c.CustomerID] = c.Name
	}
	for _, inc := range s.SafetyIncidents {
		v.incidents[inc.DriverID]++
	}

	loads := make(map[int]store.Load, len(s.Loads))
	for _, l := range s.Loads {
		loads[l.LoadID] = l
	}

	type eventKey struct{ loadID, tripID int }
	events := make(map[eventKey]store.DeliveryEvent, len(s.DeliveryEvents))
	for _, e := range s.DeliveryEvents {
		events[eventKey{e.LoadID, e.TripID}] = e
	}

	type monthlyKey struct {
		id    int
		month string
	}
	driverMonthly := make(map[monthlyKey]store.DriverMonthlyMetric, len(s.DriverMonthly))
	for _, m := range s.DriverMonthly {
		driverMonthly[monthlyKey{m.DriverID, MonthKey(m.Month)}] = m
	}
	truckMonthly := make(map[monthlyKey]store.TruckUtilizationMetric, len(s.TruckUtilization))
	for _, m := range s.TruckUtilization {
		truckMonthly[monthlyKey{m.TruckID, MonthKey(m.Month)}] = m
	}

	v.Trips = make([]TripRecord, 0, len(s.Trips))
	for _, trip := range s.Trips {
		load, hasLoad := loads[trip.LoadID]
		if !hasLoad {
			// A trip with no billed load carries no financial signal; the
			// original pipeline's inner join drops it too.
			continue
		}

		rec := TripRecord{
			TripID:              trip.TripID,
			LoadID:              trip.LoadID,
			TruckID:             trip.TruckID,
			DriverID:            trip.DriverID,
			RouteID:             trip.RouteID,
			CustomerID:          load.CustomerID,
			DispatchDate:        trip.DispatchDate,
			Month:               MonthKey(trip.DispatchDate),
			Revenue:             load.Revenue,
			FuelSurcharge:       load.FuelSurcharge,
			AccessorialCharges:  load.AccessorialCharges,
			Profit:              load.Profit(),
			ActualDistanceMiles: trip.ActualDistanceMiles,
			RouteName:           v.RouteName(trip.RouteID),
		}

		if trip.ActualDistanceMiles > 0 {
			rec.HasPerMile = true
			rec.RevenuePerMile = load.Revenue / trip.ActualDistanceMiles
			rec.CostPerMile = (load.FuelSurcharge + load.AccessorialCharges) / trip.ActualDistanceMiles
			rec.ProfitPerMile = rec.Profit / trip.ActualDistanceMiles
		}

		ev, ok := events[eventKey{trip.LoadID, trip.TripID}]
		if !ok {
			ev, ok = events[eventKey{trip.LoadID, 0}]
		}
		if ok && !ev.ScheduledDatetime.IsZero() && !ev.ActualDatetime.IsZero() {
			rec.HasDelivery = true
			rec.ScheduledAt = ev.ScheduledDatetime
			rec.ActualAt = ev.ActualDatetime
			rec.OnTime = OnTime(ev.ActualDatetime, ev.ScheduledDatetime)
		}

		if dm, ok := driverMonthly[monthlyKey{trip.DriverID, rec.Month}]; ok {
			rec.HasDriverMonthly = true
			rec.DriverIdleHours = dm.AverageIdleHours
			rec.DriverMPG = dm.AverageMPG
		}
		if tm, ok := truckMonthly[monthlyKey{trip.TruckID, rec.Month}]; ok {
			rec.HasTruckMonthly = true
			rec.UtilizationRate = tm.UtilizationRate
			rec.DowntimeHours = tm.DowntimeHours
		}

		v.Trips = append(v.Trips, rec)
	}

	log.Printf("Fleet view ready: %d trip records", len(v.Trips))
	return v
}

// Store exposes the underlying tables for the analyzers that aggregate
// truck-keyed or driver-keyed events directly.
func (v *View) Store() *store.Store { return v.s }

// RouteName returns the display name for a route, or "Unknown → Unknown".
func (v *View) RouteName(routeID int) string {
	if name, ok := v.routeNames[routeID]; ok {
		return name
	}
	return RouteDisplayName("", "")
}

// DriverName returns a driver's full name, or a placeholder.
func (v *View) DriverName(driverID int) string {
	if name, ok := v.driverNames[driverID]; ok {
		return name
	}
	return "Unknown Driver"
}

// TruckUnit returns a truck's unit number, or "Unknown".
func (v *View) TruckUnit(truckID int) string {
	if unit, ok := v.truckUnits[truckID]; ok && unit != "" {
		return unit
	}
	return "Unknown"
}

// CustomerName returns a customer's name, or "Unknown".
func (v *View) CustomerName(customerID int) string {
	if name, ok := v.customerNames[customerID]; ok && name != "" {
		return name
	}
	return "Unknown"
}

// IncidentCount returns the number of safety incidents recorded for a driver.
// Drivers with no incidents report zero, never missing.
func (v *View) IncidentCount(driverID int) int {
	return v.incidents[driverID]
}

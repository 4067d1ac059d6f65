package analyzer

import (
	"fmt"
	"sort"

	"github.com/fleetsmart/fleetsmart/internal/alerts"
	"github.com/fleetsmart/fleetsmart/internal/fleetview"
	"github.com/fleetsmart/fleetsmart/internal/thresholds"
)

// Dimension selects the grouping key for on-time rate breakdowns.
type Dimension string

const (
	ByRoute    Dimension = "route"
	ByDriver   Dimension = "driver"
	ByTruck    Dimension = "truck"
	ByCustomer Dimension = "customer"
	ByMonth    Dimension = "month"
)

// Operational computes delivery reliability and utilization metrics.
type Operational struct {
	view     *fleetview.View
	registry *thresholds.Registry
}

// NewOperational creates the operational analyzer.
func NewOperational(view *fleetview.View, registry *thresholds.Registry) *Operational {
	return &Operational{view: view, registry: registry}
}

// Source tags operational alerts.
func (a *Operational) Source() alerts.Source { return alerts.SourceOperations }

// GetKPIs computes the fleet-wide operational KPI set. Rates are expressed
// as percentages; averages over absent monthly metrics are omitted.
func (a *Operational) GetKPIs(filtered []fleetview.TripRecord) map[string]float64 {
	recs := records(a.view, filtered)
	kpis := make(map[string]float64)
	if len(recs) == 0 {
		return kpis
	}

	var onTime int
	var utilSum, idleSum, mpgSum, downtimeSum float64
	var utilN, idleN, mpgN, downtimeN int
	trucks := make(map[int]struct{})
	for _, r := range recs {
		if r.OnTime {
			onTime++
		}
		trucks[r.TruckID] = struct{}{}
		if r.HasTruckMonthly {
			utilSum += r.UtilizationRate
			utilN++
			downtimeSum += r.DowntimeHours
			downtimeN++
		}
		if r.HasDriverMonthly {
			idleSum += r.DriverIdleHours
			idleN++
			mpgSum += r.DriverMPG
			mpgN++
		}
	}

	kpis["on_time_rate"] = float64(onTime) / float64(len(recs)) * 100
	if utilN > 0 {
		kpis["fleet_utilization_pct"] = mean(utilSum, utilN) * 100
	}
	if idleN > 0 {
		kpis["avg_idle_hours"] = mean(idleSum, idleN)
	}
	if mpgN > 0 {
		kpis["avg_mpg"] = mean(mpgSum, mpgN)
	}
	if downtimeN > 0 {
		kpis["avg_downtime_hours"] = mean(downtimeSum, downtimeN)
	}
	if len(trucks) > 0 {
		kpis["trips_per_truck"] = float64(len(recs)) / float64(len(trucks))
	}
	return kpis
}

// GroupRate is an on-time rate aggregate for one group key.
type GroupRate struct {
	Key       string  `json:"key"`
	Trips     int     `json:"trips"`
	OnTimePct float64 `json:"on_time_pct"`
}

// GetOnTimeRates aggregates the on-time rate by the requested dimension.
// Months sort chronologically; every other dimension sorts by rate ascending
// so the weakest groups surface first. The sort is stable.
func (a *Operational) GetOnTimeRates(dim Dimension, filtered []fleetview.TripRecord) []GroupRate {
	recs := records(a.view, filtered)

	keyOf := func(r fleetview.TripRecord) string {
		switch dim {
		case ByRoute:
			return r.RouteName
		case ByDriver:
			return a.view.DriverName(r.DriverID)
		case ByTruck:
			return a.view.TruckUnit(r.TruckID)
		case ByCustomer:
			return a.view.CustomerName(r.CustomerID)
		case ByMonth:
			return r.Month
		}
		return ""
	}

	type acc struct {
		trips  int
		onTime int
	}
	groups := make(map[string]*acc)
	var order []string
	for _, r := range recs {
		key := keyOf(r)
		if key == "" {
			continue
		}
		g, ok := groups[key]
		if !ok {
			g = &acc{}
			groups[key] = g
			order = append(order, key)
		}
		g.trips++
		if r.OnTime {
			g.onTime++
		}
	}

	out := make([]GroupRate, 0, len(order))
	if dim == ByMonth {
		sort.Strings(order)
	}
	for _, key := range order {
		g := groups[key]
		out = append(out, GroupRate{
			Key:       key,
			Trips:     g.trips,
			OnTimePct: float64(g.onTime) / float64(g.trips) * 100,
		})
	}
	if dim != ByMonth {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].OnTimePct < out[j].OnTimePct
		})
	}
	return out
}

// WorstRoutesByOnTime returns the n routes with the lowest on-time rate.
func (a *Operational) WorstRoutesByOnTime(n int) []GroupRate {
	rates := a.GetOnTimeRates(ByRoute, nil)
	if len(rates) > n {
		rates = rates[:n]
	}
	return rates
}

// Alerts evaluates the operational rules: the overall on-time rate against
// the critical and warning thresholds, and every route against the route
// on-time threshold.
func (a *Operational) Alerts() ([]alerts.Alert, error) {
	critical, err := a.registry.Get(thresholds.KeyOnTimeRateCritical)
	if err != nil {
		return nil, err
	}
	warning, err := a.registry.Get(thresholds.KeyOnTimeRateWarning)
	if err != nil {
		return nil, err
	}
	routeWarning, err := a.registry.Get(thresholds.KeyRouteOnTimeRateWarning)
	if err != nil {
		return nil, err
	}

	kpis := a.GetKPIs(nil)
	rate, ok := kpis["on_time_rate"]
	if !ok {
		return nil, nil
	}

	var out []alerts.Alert
	switch {
	case rate < critical:
		out = append(out, alerts.Alert{
			Severity: alerts.SeverityCritical,
			Title:    "On-Time Delivery Rate Critical",
			Message:  fmt.Sprintf("Fleet on-time rate: %.1f%%, Target: %.0f%%+", rate, critical),
			Metric:   "Action needed!",
		})
	case rate < warning:
		out = append(out, alerts.Alert{
			Severity: alerts.SeverityWarning,
			Title:    "On-Time Delivery Rate Below Target",
			Message:  fmt.Sprintf("Fleet on-time rate: %.1f%%, Target: %.0f%%+", rate, warning),
			Metric:   "Monitor dispatch scheduling",
		})
	}

	for _, route := range a.GetOnTimeRates(ByRoute, nil) {
		if route.OnTimePct < routeWarning {
			out = append(out, alerts.Alert{
				Severity: alerts.SeverityWarning,
				Title:    "Route On-Time Rate Low",
				Message: fmt.Sprintf("%s: %.1f%% on-time over %d trips",
					route.Key, route.OnTimePct, route.Trips),
				Metric: fmt.Sprintf("Target: %.0f%%+", routeWarning),
			})
		}
	}
	return out, nil
}

package analyzer

import (
	"fmt"
	"sort"
	"time"

	"github.com/fleetsmart/fleetsmart/internal/alerts"
	"github.com/fleetsmart/fleetsmart/internal/fleetview"
	"github.com/fleetsmart/fleetsmart/internal/scoring"
	"github.com/fleetsmart/fleetsmart/internal/thresholds"
	"github.com/fleetsmart/fleetsmart/internal/utils"
)

// DefaultTopTrucks is how many trucks the cost ranking shows by default.
const DefaultTopTrucks = 5

// FleetCost aggregates fuel and maintenance spend per truck and classifies
// truck health risk.
type FleetCost struct {
	view     *fleetview.View
	registry *thresholds.Registry
	asOf     time.Time // reference date for truck age
}

// NewFleetCost creates the fleet cost analyzer with truck age measured
// against the current date.
func NewFleetCost(view *fleetview.View, registry *thresholds.Registry) *FleetCost {
	return &FleetCost{view: view, registry: registry, asOf: time.Now()}
}

// SetAsOf fixes the reference date used for truck age. Tests use this for
// deterministic classification.
func (a *FleetCost) SetAsOf(t time.Time) { a.asOf = t }

// Source tags fleet cost alerts.
func (a *FleetCost) Source() alerts.Source { return alerts.SourceFleet }

// GetKPIs computes the fuel and maintenance KPI set. Fleet mpg is total trip
// miles over total gallons purchased and is omitted when no gallons were
// recorded.
func (a *FleetCost) GetKPIs() map[string]float64 {
	s := a.view.Store()
	kpis := make(map[string]float64)

	var fuelCost, gallons, priceSum float64
	for _, f := range s.FuelPurchases {
		fuelCost += f.TotalCost
		gallons += f.Gallons
		priceSum += f.PricePerGallon
	}
	if len(s.FuelPurchases) > 0 {
		kpis["total_fuel_cost"] = fuelCost
		kpis["total_gallons"] = gallons
		kpis["avg_price_per_gallon"] = priceSum / float64(len(s.FuelPurchases))
	}

	if gallons > 0 {
		var miles float64
		for _, t := range s.Trips {
			miles += t.ActualDistanceMiles
		}
		kpis["fleet_mpg"] = miles / gallons
	}

	var maintCost, downtime float64
	for _, m := range s.MaintenanceRecords {
		maintCost += m.TotalCost
		downtime += m.DowntimeHours
	}
	if len(s.MaintenanceRecords) > 0 {
		kpis["total_maintenance_cost"] = maintCost
		kpis["maintenance_events"] = float64(len(s.MaintenanceRecords))
		kpis["avg_downtime_hours"] = downtime / float64(len(s.MaintenanceRecords))
	}

	if len(s.FuelPurchases) > 0 || len(s.MaintenanceRecords) > 0 {
		kpis["combined_cost"] = fuelCost + maintCost
	}
	return kpis
}

// TruckCost is the combined spend for one truck.
type TruckCost struct {
	TruckID         int     `json:"truck_id"`
	UnitNumber      string  `json:"unit_number"`
	FuelCost        float64 `json:"fuel_cost"`
	MaintenanceCost float64 `json:"maintenance_cost"`
	TotalCost       float64 `json:"total_cost"`
}

// truckCostIndex accumulates fuel and maintenance cost per truck in
// first-seen order so the final ranking is deterministic.
func (a *FleetCost) truckCostIndex() []TruckCost {
	s := a.view.Store()
	byTruck := make(map[int]*TruckCost)
	var order []int

	get := func(truckID int) *TruckCost {
		c, ok := byTruck[truckID]
		if !ok {
			c = &TruckCost{TruckID: truckID, UnitNumber: a.view.TruckUnit(truckID)}
			byTruck[truckID] = c
			order = append(order, truckID)
		}
		return c
	}
	for _, f := range s.FuelPurchases {
		get(f.TruckID).FuelCost += f.TotalCost
	}
	for _, m := range s.MaintenanceRecords {
		get(m.TruckID).MaintenanceCost += m.TotalCost
	}

	out := make([]TruckCost, 0, len(order))
	for _, id := range order {
		c := byTruck[id]
		c.TotalCost = c.FuelCost + c.MaintenanceCost
		out = append(out, *c)
	}
	return out
}

// GetTruckCosts ranks trucks by combined fuel plus maintenance cost,
// descending. topN caps the result (DefaultTopTrucks when topN <= 0; pass a
// value larger than the fleet to get all trucks).
func (a *FleetCost) GetTruckCosts(topN int) []TruckCost {
	if topN <= 0 {
		topN = DefaultTopTrucks
	}
	costs := a.truckCostIndex()
	sort.SliceStable(costs, func(i, j int) bool {
		return costs[i].TotalCost > costs[j].TotalCost
	})
	if len(costs) > topN {
		costs = costs[:topN]
	}
	return costs
}

// TruckRisk is one truck's health classification.
type TruckRisk struct {
	TruckID    int               `json:"truck_id"`
	UnitNumber string            `json:"unit_number"`
	Mileage    float64           `json:"mileage"`
	AgeYears   float64           `json:"age_years"`
	Risk       scoring.RiskLevel `json:"risk"`
}

// GetTruckRisks classifies every truck against the configured mileage and
// age thresholds, so reclassification is live when thresholds change.
func (a *FleetCost) GetTruckRisks() ([]TruckRisk, error) {
	mileageHigh, err := a.registry.Get(thresholds.KeyMileageHigh)
	if err != nil {
		return nil, err
	}
	ageHigh, err := a.registry.Get(thresholds.KeyTruckAgeHigh)
	if err != nil {
		return nil, err
	}

	trucks := a.view.Store().Trucks
	out := make([]TruckRisk, 0, len(trucks))
	for _, t := range trucks {
		age := float64(a.asOf.Year() - t.ModelYear)
		out = append(out, TruckRisk{
			TruckID:    t.TruckID,
			UnitNumber: t.UnitNumber,
			Mileage:    t.CurrentMileage,
			AgeYears:   age,
			Risk:       scoring.ClassifyRisk(t.CurrentMileage, age, mileageHigh, ageHigh),
		})
	}
	return out, nil
}

// GetHighRiskTrucks returns only the trucks classified High.
func (a *FleetCost) GetHighRiskTrucks() ([]TruckRisk, error) {
	risks, err := a.GetTruckRisks()
	if err != nil {
		return nil, err
	}
	var out []TruckRisk
	for _, r := range risks {
		if r.Risk == scoring.RiskHigh {
			out = append(out, r)
		}
	}
	return out, nil
}

// Alerts evaluates the fleet cost rules: fleet fuel efficiency, per-truck
// downtime and maintenance spend, and high-risk classification.
func (a *FleetCost) Alerts() ([]alerts.Alert, error) {
	mpgWarning, err := a.registry.Get(thresholds.KeyFleetMPGWarning)
	if err != nil {
		return nil, err
	}
	downtimeCritical, err := a.registry.Get(thresholds.KeyDowntimeHoursCritical)
	if err != nil {
		return nil, err
	}
	maintWarning, err := a.registry.Get(thresholds.KeyMaintenanceCostWarning)
	if err != nil {
		return nil, err
	}

	var out []alerts.Alert

	kpis := a.GetKPIs()
	if mpg, ok := kpis["fleet_mpg"]; ok && mpg < mpgWarning {
		out = append(out, alerts.Alert{
			Severity: alerts.SeverityWarning,
			Title:    "Low Fleet Fuel Efficiency",
			Message:  fmt.Sprintf("Fleet MPG: %.1f, Target: %.1f+", mpg, mpgWarning),
			Metric:   "Check idling, routing, or truck health",
		})
	}

	s := a.view.Store()
	type downtimeAcc struct {
		hours  float64
		events int
	}
	downtimeByTruck := make(map[int]*downtimeAcc)
	var truckOrder []int
	for _, m := range s.MaintenanceRecords {
		d, ok := downtimeByTruck[m.TruckID]
		if !ok {
			d = &downtimeAcc{}
			downtimeByTruck[m.TruckID] = d
			truckOrder = append(truckOrder, m.TruckID)
		}
		d.hours += m.DowntimeHours
		d.events++
	}
	for _, truckID := range truckOrder {
		d := downtimeByTruck[truckID]
		avg := d.hours / float64(d.events)
		if avg > downtimeCritical {
			out = append(out, alerts.Alert{
				Severity: alerts.SeverityCritical,
				Title:    "High Truck Downtime",
				Message: fmt.Sprintf("Truck %s averaging %.1f downtime hours per event",
					a.view.TruckUnit(truckID), avg),
				Metric: "Impacting utilization",
			})
		}
	}

	for _, c := range a.truckCostIndex() {
		if c.MaintenanceCost > maintWarning {
			out = append(out, alerts.Alert{
				Severity: alerts.SeverityWarning,
				Title:    "High Maintenance Spend",
				Message: fmt.Sprintf("Truck %s: %s in maintenance costs",
					c.UnitNumber, utils.FormatCurrency(c.MaintenanceCost)),
				Metric: "Evaluate repair vs replace",
			})
		}
	}

	highRisk, err := a.GetHighRiskTrucks()
	if err != nil {
		return nil, err
	}
	for _, r := range highRisk {
		out = append(out, alerts.Alert{
			Severity: alerts.SeverityCritical,
			Title:    "High-Risk Truck",
			Message: fmt.Sprintf("Truck %s: %s miles, %.0f years old",
				r.UnitNumber, utils.FormatNumber(r.Mileage), r.AgeYears),
			Metric: "Schedule inspection or retirement",
		})
	}
	return out, nil
}

package analyzer

import (
	"testing"
	"time"

	"github.com/fleetsmart/fleetsmart/internal/alerts"
	"github.com/fleetsmart/fleetsmart/internal/scoring"
	"github.com/fleetsmart/fleetsmart/internal/testhelpers"
	"github.com/fleetsmart/fleetsmart/internal/thresholds"
)

func newFleetCost(t *testing.T) *FleetCost {
	t.Helper()
	a := NewFleetCost(testhelpers.SampleView(), thresholds.NewRegistry())
	a.SetAsOf(testhelpers.Date(2024, time.June, 1, 0, 0))
	return a
}

func TestFleetCostGetKPIs(t *testing.T) {
	kpis := newFleetCost(t).GetKPIs()

	testhelpers.AssertFloatEqual(t, 1300, kpis["total_fuel_cost"], "total_fuel_cost")
	testhelpers.AssertFloatEqual(t, 300, kpis["total_gallons"], "total_gallons")
	testhelpers.AssertFloatEqual(t, 4.25, kpis["avg_price_per_gallon"], "avg_price_per_gallon")
	// 2900 trip miles over 300 gallons purchased
	testhelpers.AssertFloatEqual(t, 2900.0/300, kpis["fleet_mpg"], "fleet_mpg")
	testhelpers.AssertFloatEqual(t, 6000, kpis["total_maintenance_cost"], "total_maintenance_cost")
	testhelpers.AssertFloatEqual(t, 1, kpis["maintenance_events"], "maintenance_events")
	testhelpers.AssertFloatEqual(t, 20, kpis["avg_downtime_hours"], "avg_downtime_hours")
	testhelpers.AssertFloatEqual(t, 7300, kpis["combined_cost"], "combined_cost")
}

func TestFleetCostGetTruckCosts(t *testing.T) {
	costs := newFleetCost(t).GetTruckCosts(0)
	if len(costs) != 2 {
		t.Fatalf("expected 2 trucks, got %d", len(costs))
	}

	// T-200 carries the maintenance bill, so it ranks first.
	top := costs[0]
	if top.UnitNumber != "T-200" {
		t.Errorf("expected T-200 first, got %s", top.UnitNumber)
	}
	testhelpers.AssertFloatEqual(t, 900, top.FuelCost, "top fuel cost")
	testhelpers.AssertFloatEqual(t, 6000, top.MaintenanceCost, "top maintenance cost")
	testhelpers.AssertFloatEqual(t, 6900, top.TotalCost, "top total cost")

	testhelpers.AssertFloatEqual(t, 400, costs[1].TotalCost, "second total cost")
}

func TestFleetCostGetTruckCostsTopN(t *testing.T) {
	costs := newFleetCost(t).GetTruckCosts(1)
	if len(costs) != 1 {
		t.Fatalf("expected topN to cap the list, got %d", len(costs))
	}
	if costs[0].UnitNumber != "T-200" {
		t.Errorf("expected the most expensive truck, got %s", costs[0].UnitNumber)
	}
}

func TestFleetCostGetTruckRisks(t *testing.T) {
	risks, err := newFleetCost(t).GetTruckRisks()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(risks) != 2 {
		t.Fatalf("expected 2 trucks, got %d", len(risks))
	}

	byUnit := make(map[string]TruckRisk)
	for _, r := range risks {
		byUnit[r.UnitNumber] = r
	}

	// T-100: 2022 model, 120k miles.
	if byUnit["T-100"].Risk != scoring.RiskLow {
		t.Errorf("expected T-100 Low, got %s", byUnit["T-100"].Risk)
	}
	// T-200: 2012 model (12 years as of 2024) and 610k miles.
	if byUnit["T-200"].Risk != scoring.RiskHigh {
		t.Errorf("expected T-200 High, got %s", byUnit["T-200"].Risk)
	}
	testhelpers.AssertFloatEqual(t, 12, byUnit["T-200"].AgeYears, "T-200 age")
}

func TestFleetCostGetHighRiskTrucks(t *testing.T) {
	high, err := newFleetCost(t).GetHighRiskTrucks()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(high) != 1 || high[0].UnitNumber != "T-200" {
		t.Errorf("expected only T-200 as high risk, got %v", high)
	}
}

func TestFleetCostRiskRespondsToThresholds(t *testing.T) {
	registry := thresholds.NewRegistry()
	a := NewFleetCost(testhelpers.SampleView(), registry)
	a.SetAsOf(testhelpers.Date(2024, time.June, 1, 0, 0))

	// Tighten the mileage threshold so T-100 becomes Medium.
	registry.Set(thresholds.KeyMileageHigh, 100000)
	risks, err := a.GetTruckRisks()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range risks {
		if r.UnitNumber == "T-100" && r.Risk != scoring.RiskMedium {
			t.Errorf("expected T-100 Medium after tightening, got %s", r.Risk)
		}
	}
}

func TestFleetCostAlerts(t *testing.T) {
	got, err := newFleetCost(t).Alerts()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// T-200's 20h average downtime exceeds the 8h critical threshold, and the
	// truck classifies High risk. Fleet mpg and maintenance spend are fine.
	if len(got) != 2 {
		t.Fatalf("expected 2 alerts, got %d: %+v", len(got), got)
	}
	titles := make(map[string]alerts.Severity)
	for _, a := range got {
		titles[a.Title] = a.Severity
	}
	if titles["High Truck Downtime"] != alerts.SeverityCritical {
		t.Errorf("expected a critical downtime alert, got %v", titles)
	}
	if titles["High-Risk Truck"] != alerts.SeverityCritical {
		t.Errorf("expected a critical high-risk alert, got %v", titles)
	}
}

func TestFleetCostAlertsMaintenanceSpend(t *testing.T) {
	registry := thresholds.NewRegistry()
	registry.Set(thresholds.KeyMaintenanceCostWarning, 5000)
	a := NewFleetCost(testhelpers.SampleView(), registry)
	a.SetAsOf(testhelpers.Date(2024, time.June, 1, 0, 0))

	got, err := a.Alerts()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var found bool
	for _, alert := range got {
		if alert.Title == "High Maintenance Spend" {
			found = true
			if alert.Severity != alerts.SeverityWarning {
				t.Errorf("maintenance spend should be a warning, got %s", alert.Severity)
			}
		}
	}
	if !found {
		t.Errorf("expected a maintenance spend alert, got %+v", got)
	}
}

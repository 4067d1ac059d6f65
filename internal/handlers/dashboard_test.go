package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/fleetsmart/fleetsmart/internal/alerts"
	"github.com/fleetsmart/fleetsmart/internal/analyzer"
	"github.com/fleetsmart/fleetsmart/internal/testhelpers"
	"github.com/fleetsmart/fleetsmart/internal/thresholds"
)

func newTestDashboard(t *testing.T) *Dashboard {
	t.Helper()
	view := testhelpers.SampleView()
	registry := thresholds.NewRegistry()

	financial := analyzer.NewFinancial(view, registry)
	operational := analyzer.NewOperational(view, registry)
	drivers := analyzer.NewDriverPerformance(view, registry)
	fleetCost := analyzer.NewFleetCost(view, registry)
	fleetCost.SetAsOf(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))

	engine := alerts.NewEngine(registry, financial, operational, drivers, fleetCost)
	return NewDashboard(financial, operational, drivers, fleetCost, engine)
}

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	newTestDashboard(t).SetupRoutes(mux)
	return mux
}

func TestHealthEndpoint(t *testing.T) {
	var body map[string]string
	testhelpers.NewHTTPTestContext(t, http.MethodGet, "/health", nil).
		Execute(newTestMux(t)).
		AssertStatus(http.StatusOK).
		DecodeJSON(&body)

	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body)
	}
}

func TestFinancialKPIsEndpoint(t *testing.T) {
	var kpis map[string]float64
	testhelpers.NewHTTPTestContext(t, http.MethodGet, "/api/kpis/financial", nil).
		Execute(newTestMux(t)).
		AssertStatus(http.StatusOK).
		DecodeJSON(&kpis)

	if kpis["total_revenue"] != 4100 {
		t.Errorf("expected total_revenue 4100, got %v", kpis["total_revenue"])
	}
}

func TestRouteStatsEndpointMinTrips(t *testing.T) {
	var routes []analyzer.RouteStats
	testhelpers.NewHTTPTestContext(t, http.MethodGet, "/api/financial/routes?min_trips=2", nil).
		Execute(newTestMux(t)).
		AssertStatus(http.StatusOK).
		DecodeJSON(&routes)

	if len(routes) != 2 {
		t.Fatalf("expected 2 routes, got %d", len(routes))
	}
	if routes[0].RouteName != "Dallas → Memphis" {
		t.Errorf("expected the best route first, got %s", routes[0].RouteName)
	}
}

func TestOnTimeEndpointDimensionValidation(t *testing.T) {
	testhelpers.NewHTTPTestContext(t, http.MethodGet, "/api/operational/on-time?by=nonsense", nil).
		Execute(newTestMux(t)).
		AssertStatus(http.StatusBadRequest).
		AssertBodyContains("unknown dimension")

	var rates []analyzer.GroupRate
	testhelpers.NewHTTPTestContext(t, http.MethodGet, "/api/operational/on-time?by=month", nil).
		Execute(newTestMux(t)).
		AssertStatus(http.StatusOK).
		DecodeJSON(&rates)
	if len(rates) != 2 {
		t.Errorf("expected 2 months, got %d", len(rates))
	}
}

func TestLeaderboardEndpointFilters(t *testing.T) {
	var board []analyzer.DriverStanding
	testhelpers.NewHTTPTestContext(t, http.MethodGet, "/api/drivers/leaderboard?min_revenue=2000", nil).
		Execute(newTestMux(t)).
		AssertStatus(http.StatusOK).
		DecodeJSON(&board)

	if len(board) != 1 || board[0].Name != "Alice Nguyen" {
		t.Errorf("expected only Alice above 2000 revenue, got %v", board)
	}
}

func TestDriverSearchEndpointRequiresQuery(t *testing.T) {
	testhelpers.NewHTTPTestContext(t, http.MethodGet, "/api/drivers/search", nil).
		Execute(newTestMux(t)).
		AssertStatus(http.StatusBadRequest).
		AssertBodyContains("missing query parameter")

	var matches []analyzer.DriverStanding
	testhelpers.NewHTTPTestContext(t, http.MethodGet, "/api/drivers/search?q=bob", nil).
		Execute(newTestMux(t)).
		AssertStatus(http.StatusOK).
		DecodeJSON(&matches)
	if len(matches) != 1 || matches[0].Name != "Bob Reyes" {
		t.Errorf("expected Bob for query 'bob', got %v", matches)
	}
}

func TestAlertsEndpoint(t *testing.T) {
	var all []alerts.Alert
	testhelpers.NewHTTPTestContext(t, http.MethodGet, "/api/alerts", nil).
		Execute(newTestMux(t)).
		AssertStatus(http.StatusOK).
		DecodeJSON(&all)

	if len(all) == 0 {
		t.Fatalf("the fixture should produce alerts")
	}
	// Severity ordering: criticals lead the list.
	if all[0].Severity != alerts.SeverityCritical {
		t.Errorf("expected a critical first, got %s", all[0].Severity)
	}
}

func TestAlertsEndpointSourceFilter(t *testing.T) {
	var fleet []alerts.Alert
	testhelpers.NewHTTPTestContext(t, http.MethodGet, "/api/alerts?source=Fleet", nil).
		Execute(newTestMux(t)).
		AssertStatus(http.StatusOK).
		DecodeJSON(&fleet)

	for _, a := range fleet {
		if a.Source != alerts.SourceFleet {
			t.Errorf("expected only Fleet alerts, got %s", a.Source)
		}
	}
}

func TestAlertSummaryEndpoint(t *testing.T) {
	var summary alerts.Summary
	testhelpers.NewHTTPTestContext(t, http.MethodGet, "/api/alerts/summary", nil).
		Execute(newTestMux(t)).
		AssertStatus(http.StatusOK).
		DecodeJSON(&summary)

	if summary.Status != "Critical" {
		t.Errorf("the fixture has critical alerts, got status %s", summary.Status)
	}
	if summary.Counts.Total == 0 {
		t.Errorf("expected a nonzero alert count")
	}
}

func TestThresholdsEndpointGet(t *testing.T) {
	var values map[string]float64
	testhelpers.NewHTTPTestContext(t, http.MethodGet, "/api/thresholds", nil).
		Execute(newTestMux(t)).
		AssertStatus(http.StatusOK).
		DecodeJSON(&values)

	if values[thresholds.KeyOnTimeRateCritical] != 85 {
		t.Errorf("expected the default critical threshold, got %v", values)
	}
}

func TestThresholdsEndpointPut(t *testing.T) {
	mux := newTestMux(t)

	var values map[string]float64
	testhelpers.NewHTTPTestContext(t, http.MethodPut, "/api/thresholds", nil).
		WithJSONBody(map[string]interface{}{"key": thresholds.KeyIdleHoursWarning, "value": 9.0}).
		Execute(mux).
		AssertStatus(http.StatusOK).
		DecodeJSON(&values)

	if values[thresholds.KeyIdleHoursWarning] != 9 {
		t.Errorf("expected the updated threshold in the response, got %v", values)
	}
}

func TestThresholdsEndpointPutMissingKey(t *testing.T) {
	testhelpers.NewHTTPTestContext(t, http.MethodPut, "/api/thresholds", nil).
		WithJSONBody(map[string]interface{}{"value": 9.0}).
		Execute(newTestMux(t)).
		AssertStatus(http.StatusBadRequest).
		AssertBodyContains("missing threshold key")
}

func TestMethodNotAllowed(t *testing.T) {
	testhelpers.NewHTTPTestContext(t, http.MethodPost, "/api/kpis/financial", nil).
		Execute(newTestMux(t)).
		AssertStatus(http.StatusMethodNotAllowed)
}

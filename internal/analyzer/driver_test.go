package analyzer

import (
	"testing"

	"github.com/fleetsmart/fleetsmart/internal/alerts"
	"github.com/fleetsmart/fleetsmart/internal/scoring"
	"github.com/fleetsmart/fleetsmart/internal/testhelpers"
	"github.com/fleetsmart/fleetsmart/internal/thresholds"
)

func newDrivers(t *testing.T) *DriverPerformance {
	t.Helper()
	return NewDriverPerformance(testhelpers.SampleView(), thresholds.NewRegistry())
}

func TestDriverGetLeaderboard(t *testing.T) {
	board := newDrivers(t).GetLeaderboard(LeaderboardOptions{})
	if len(board) != 2 {
		t.Fatalf("expected 2 drivers, got %d", len(board))
	}

	// Alice: 3000/1000*0.5 + 7.2*4 + 1.0*40 - 2.5*3 = 62.8
	top := board[0]
	if top.Name != "Alice Nguyen" {
		t.Errorf("expected Alice Nguyen on top, got %s", top.Name)
	}
	testhelpers.AssertFloatEqual(t, 62.8, top.Score, "top score")
	testhelpers.AssertFloatEqual(t, 3000, top.Revenue, "top revenue")
	if top.Incidents != 0 {
		t.Errorf("expected 0 incidents for Alice, got %d", top.Incidents)
	}

	// Bob: 1100/1000*0.5 + 5.3*4 + 40 - 9.5*3 - 15 = 18.25
	second := board[1]
	if second.Name != "Bob Reyes" {
		t.Errorf("expected Bob Reyes second, got %s", second.Name)
	}
	testhelpers.AssertFloatEqual(t, 18.25, second.Score, "second score")
	if second.Incidents != 1 {
		t.Errorf("expected 1 incident for Bob, got %d", second.Incidents)
	}
}

func TestDriverGetLeaderboardFilters(t *testing.T) {
	a := newDrivers(t)

	board := a.GetLeaderboard(LeaderboardOptions{MinRevenue: 2000})
	if len(board) != 1 || board[0].Name != "Alice Nguyen" {
		t.Errorf("min-revenue filter should leave only Alice, got %v", board)
	}

	board = a.GetLeaderboard(LeaderboardOptions{MinOnTimeRate: 0.99})
	if len(board) != 2 {
		t.Errorf("both fixture drivers are fully on time, got %d", len(board))
	}
}

func TestDriverGetDriverDetails(t *testing.T) {
	a := newDrivers(t)

	s, ok := a.GetDriverDetails(2)
	if !ok {
		t.Fatalf("expected details for driver 2")
	}
	if s.Name != "Bob Reyes" {
		t.Errorf("expected Bob Reyes, got %s", s.Name)
	}
	if s.MonthsActive != 1 {
		t.Errorf("expected 1 active month, got %d", s.MonthsActive)
	}

	if _, ok := a.GetDriverDetails(99); ok {
		t.Errorf("expected no details for an unknown driver")
	}
}

func TestDriverSearch(t *testing.T) {
	a := newDrivers(t)

	if got := a.SearchDrivers("ali"); len(got) != 1 || got[0].Name != "Alice Nguyen" {
		t.Errorf("expected Alice for query 'ali', got %v", got)
	}
	if got := a.SearchDrivers("REYES"); len(got) != 1 || got[0].Name != "Bob Reyes" {
		t.Errorf("search should be case-insensitive, got %v", got)
	}
	if got := a.SearchDrivers("   "); got != nil {
		t.Errorf("blank query should return nothing, got %v", got)
	}
	if got := a.SearchDrivers("zzz"); len(got) != 0 {
		t.Errorf("expected no matches, got %v", got)
	}
}

func TestDriverGetKPIs(t *testing.T) {
	kpis := newDrivers(t).GetKPIs()

	testhelpers.AssertFloatEqual(t, 2050, kpis["avg_revenue"], "avg_revenue")
	testhelpers.AssertFloatEqual(t, 6.25, kpis["avg_mpg"], "avg_mpg")
	testhelpers.AssertFloatEqual(t, 6, kpis["avg_idle"], "avg_idle")
	testhelpers.AssertFloatEqual(t, 100, kpis["avg_otd"], "avg_otd")
	testhelpers.AssertFloatEqual(t, 2, kpis["total_drivers"], "total_drivers")
	testhelpers.AssertFloatEqual(t, 1, kpis["total_incidents"], "total_incidents")
}

func TestDriverGetQuadrants(t *testing.T) {
	quadrants := newDrivers(t).GetQuadrants()
	if len(quadrants) != 2 {
		t.Fatalf("expected 2 drivers, got %d", len(quadrants))
	}

	byName := make(map[string]scoring.Quadrant)
	for _, q := range quadrants {
		byName[q.Name] = q.Quadrant
	}
	// Alice sits at or above both medians, Bob below both.
	if byName["Alice Nguyen"] != scoring.QuadrantStar {
		t.Errorf("expected Alice as Star, got %s", byName["Alice Nguyen"])
	}
	if byName["Bob Reyes"] != scoring.QuadrantNeedsImprovement {
		t.Errorf("expected Bob as Needs Improvement, got %s", byName["Bob Reyes"])
	}
}

func TestDriverAlerts(t *testing.T) {
	got, err := newDrivers(t).Alerts()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Bob trips the idle and mpg rules, and his low score joins the roll-up.
	if len(got) != 3 {
		t.Fatalf("expected 3 alerts, got %d: %+v", len(got), got)
	}
	titles := make(map[string]bool)
	for _, a := range got {
		if a.Severity != alerts.SeverityWarning {
			t.Errorf("expected only warnings, got %s for %s", a.Severity, a.Title)
		}
		titles[a.Title] = true
	}
	if !titles["High Driver Idle Time"] {
		t.Errorf("missing idle time alert: %v", titles)
	}
	if !titles["Low Driver Fuel Efficiency"] {
		t.Errorf("missing fuel efficiency alert: %v", titles)
	}
	if !titles["1 Drivers with Low Performance Scores"] {
		t.Errorf("missing low performer roll-up: %v", titles)
	}
}

func TestDriverAlertsIncidentRule(t *testing.T) {
	registry := thresholds.NewRegistry()
	// Bob has one recorded incident; drop the bar below it.
	registry.Set(thresholds.KeyIncidentCountCritical, 0)
	a := NewDriverPerformance(testhelpers.SampleView(), registry)

	got, err := a.Alerts()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var found bool
	for _, alert := range got {
		if alert.Title == "Safety Concern: High Incident Count" {
			found = true
			if alert.Severity != alerts.SeverityCritical {
				t.Errorf("incident alert should be critical, got %s", alert.Severity)
			}
		}
	}
	if !found {
		t.Errorf("expected an incident alert, got %+v", got)
	}
}

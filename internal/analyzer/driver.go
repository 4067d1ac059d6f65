package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fleetsmart/fleetsmart/internal/alerts"
	"github.com/fleetsmart/fleetsmart/internal/fleetview"
	"github.com/fleetsmart/fleetsmart/internal/scoring"
	"github.com/fleetsmart/fleetsmart/internal/thresholds"
)

// lowScoreCutoff flags drivers whose composite score suggests coaching.
const lowScoreCutoff = 20

// DriverPerformance ranks drivers from the monthly metric table and the
// safety incident log.
type DriverPerformance struct {
	view     *fleetview.View
	registry *thresholds.Registry
}

// NewDriverPerformance creates the driver analyzer.
func NewDriverPerformance(view *fleetview.View, registry *thresholds.Registry) *DriverPerformance {
	return &DriverPerformance{view: view, registry: registry}
}

// Source tags driver alerts.
func (a *DriverPerformance) Source() alerts.Source { return alerts.SourceDrivers }

// DriverStanding is one driver's aggregate across all reported months.
type DriverStanding struct {
	DriverID     int     `json:"driver_id"`
	Name         string  `json:"name"`
	Revenue      float64 `json:"revenue"`
	MPG          float64 `json:"mpg"`
	OnTimeRate   float64 `json:"on_time_rate"` // 0..1 fraction
	IdleHours    float64 `json:"idle_hours"`
	Incidents    int     `json:"incidents"`
	MonthsActive int     `json:"months_active"`
	Score        float64 `json:"score"`
}

// LeaderboardOptions filters the leaderboard. Zero values disable a filter.
type LeaderboardOptions struct {
	MinRevenue    float64
	MinOnTimeRate float64 // 0..1 fraction
}

// standings aggregates the driver monthly metrics per driver: revenue is
// summed, the rate-like columns are averaged, and incidents come from the
// safety log (zero when none recorded, never missing).
func (a *DriverPerformance) standings() []DriverStanding {
	type acc struct {
		revenue, mpg, idle, onTime float64
		months                     int
	}
	byDriver := make(map[int]*acc)
	var order []int
	for _, m := range a.view.Store().DriverMonthly {
		g, ok := byDriver[m.DriverID]
		if !ok {
			g = &acc{}
			byDriver[m.DriverID] = g
			order = append(order, m.DriverID)
		}
		g.revenue += m.TotalRevenue
		g.mpg += m.AverageMPG
		g.idle += m.AverageIdleHours
		g.onTime += m.OnTimeDeliveryRate
		g.months++
	}

	out := make([]DriverStanding, 0, len(order))
	for _, id := range order {
		g := byDriver[id]
		s := DriverStanding{
			DriverID:     id,
			Name:         a.view.DriverName(id),
			Revenue:      g.revenue,
			MPG:          mean(g.mpg, g.months),
			OnTimeRate:   mean(g.onTime, g.months),
			IdleHours:    mean(g.idle, g.months),
			Incidents:    a.view.IncidentCount(id),
			MonthsActive: g.months,
		}
		s.Score = scoring.DriverScore(s.Revenue, s.MPG, s.OnTimeRate, s.IdleHours, s.Incidents)
		out = append(out, s)
	}
	return out
}

// GetLeaderboard returns drivers sorted by score descending, after applying
// the optional minimum-revenue and minimum-on-time filters. The sort is
// stable, so repeated calls over unchanged data yield identical ranking.
func (a *DriverPerformance) GetLeaderboard(opts LeaderboardOptions) []DriverStanding {
	var out []DriverStanding
	for _, s := range a.standings() {
		if opts.MinRevenue > 0 && s.Revenue < opts.MinRevenue {
			continue
		}
		if opts.MinOnTimeRate > 0 && s.OnTimeRate < opts.MinOnTimeRate {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// GetDriverDetails returns one driver's aggregate, or false when the driver
// has no monthly metrics.
func (a *DriverPerformance) GetDriverDetails(driverID int) (DriverStanding, bool) {
	for _, s := range a.standings() {
		if s.DriverID == driverID {
			return s, true
		}
	}
	return DriverStanding{}, false
}

// SearchDrivers finds drivers whose name contains the query,
// case-insensitively, ranked by score.
func (a *DriverPerformance) SearchDrivers(query string) []DriverStanding {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var out []DriverStanding
	for _, s := range a.GetLeaderboard(LeaderboardOptions{}) {
		if strings.Contains(strings.ToLower(s.Name), query) {
			out = append(out, s)
		}
	}
	return out
}

// GetKPIs computes the fleet-wide driver KPI set from the monthly rows.
func (a *DriverPerformance) GetKPIs() map[string]float64 {
	monthly := a.view.Store().DriverMonthly
	kpis := make(map[string]float64)
	if len(monthly) == 0 {
		return kpis
	}

	var revenue, mpg, idle, onTime float64
	drivers := make(map[int]struct{})
	for _, m := range monthly {
		revenue += m.TotalRevenue
		mpg += m.AverageMPG
		idle += m.AverageIdleHours
		onTime += m.OnTimeDeliveryRate
		drivers[m.DriverID] = struct{}{}
	}

	n := len(monthly)
	kpis["avg_revenue"] = revenue / float64(n)
	kpis["avg_mpg"] = mpg / float64(n)
	kpis["avg_idle"] = idle / float64(n)
	kpis["avg_otd"] = onTime / float64(n) * 100
	kpis["total_drivers"] = float64(len(drivers))

	var incidents int
	for id := range drivers {
		incidents += a.view.IncidentCount(id)
	}
	kpis["total_incidents"] = float64(incidents)
	return kpis
}

// DriverQuadrant is a driver's position in the performance matrix.
type DriverQuadrant struct {
	DriverID int              `json:"driver_id"`
	Name     string           `json:"name"`
	Revenue  float64          `json:"revenue"`
	MPG      float64          `json:"mpg"`
	Quadrant scoring.Quadrant `json:"quadrant"`
}

// GetQuadrants classifies every driver against the fleet median revenue and
// median mpg.
func (a *DriverPerformance) GetQuadrants() []DriverQuadrant {
	standings := a.standings()
	if len(standings) == 0 {
		return nil
	}

	revenues := make([]float64, len(standings))
	mpgs := make([]float64, len(standings))
	for i, s := range standings {
		revenues[i] = s.Revenue
		mpgs[i] = s.MPG
	}
	medianRevenue := scoring.Median(revenues)
	medianMPG := scoring.Median(mpgs)

	out := make([]DriverQuadrant, 0, len(standings))
	for _, s := range standings {
		out = append(out, DriverQuadrant{
			DriverID: s.DriverID,
			Name:     s.Name,
			Revenue:  s.Revenue,
			MPG:      s.MPG,
			Quadrant: scoring.ClassifyQuadrant(s.Revenue, s.MPG, medianRevenue, medianMPG),
		})
	}
	return out
}

// Alerts evaluates the per-driver rules: reliability, idle time, safety
// incidents, and fuel efficiency against the registry thresholds, plus one
// roll-up warning for drivers with a low composite score.
func (a *DriverPerformance) Alerts() ([]alerts.Alert, error) {
	otdCritical, err := a.registry.Get(thresholds.KeyOnTimeRateCritical)
	if err != nil {
		return nil, err
	}
	idleWarning, err := a.registry.Get(thresholds.KeyIdleHoursWarning)
	if err != nil {
		return nil, err
	}
	incidentCritical, err := a.registry.Get(thresholds.KeyIncidentCountCritical)
	if err != nil {
		return nil, err
	}
	mpgWarning, err := a.registry.Get(thresholds.KeyFleetMPGWarning)
	if err != nil {
		return nil, err
	}

	standings := a.standings()
	var out []alerts.Alert
	var lowPerformers []string
	for _, s := range standings {
		if s.OnTimeRate*100 < otdCritical {
			out = append(out, alerts.Alert{
				Severity: alerts.SeverityWarning,
				Title:    "Driver On-Time Rate Below Target",
				Message:  fmt.Sprintf("%s: %.1f%%, Target: %.0f%%+", s.Name, s.OnTimeRate*100, otdCritical),
				Metric:   "Action needed!",
			})
		}
		if s.IdleHours > idleWarning {
			out = append(out, alerts.Alert{
				Severity: alerts.SeverityWarning,
				Title:    "High Driver Idle Time",
				Message:  fmt.Sprintf("%s averaging %.1f idle hours", s.Name, s.IdleHours),
				Metric:   "Consider driver training",
			})
		}
		if float64(s.Incidents) > incidentCritical {
			out = append(out, alerts.Alert{
				Severity: alerts.SeverityCritical,
				Title:    "Safety Concern: High Incident Count",
				Message:  fmt.Sprintf("%s: %d safety incidents recorded", s.Name, s.Incidents),
				Metric:   "Review safety protocols",
			})
		}
		if s.MPG < mpgWarning {
			out = append(out, alerts.Alert{
				Severity: alerts.SeverityWarning,
				Title:    "Low Driver Fuel Efficiency",
				Message:  fmt.Sprintf("%s: average MPG %.1f", s.Name, s.MPG),
				Metric:   "Check driving habits",
			})
		}
		if s.Score < lowScoreCutoff {
			lowPerformers = append(lowPerformers, s.Name)
		}
	}

	if len(lowPerformers) > 0 {
		sample := lowPerformers
		if len(sample) > 2 {
			sample = sample[:2]
		}
		out = append(out, alerts.Alert{
			Severity: alerts.SeverityWarning,
			Title:    fmt.Sprintf("%d Drivers with Low Performance Scores", len(lowPerformers)),
			Message:  "Including: " + strings.Join(sample, ", "),
			Metric:   "Consider coaching",
		})
	}
	return out, nil
}

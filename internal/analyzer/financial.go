package analyzer

import (
	"fmt"
	"sort"

	"github.com/fleetsmart/fleetsmart/internal/alerts"
	"github.com/fleetsmart/fleetsmart/internal/fleetview"
	"github.com/fleetsmart/fleetsmart/internal/thresholds"
	"github.com/fleetsmart/fleetsmart/internal/utils"
)

// DefaultMinRouteTrips is the minimum trip count for a route to appear in
// route statistics. Thinner routes are statistically noisy.
const DefaultMinRouteTrips = 5

// Financial computes revenue, cost, and profitability metrics.
type Financial struct {
	view     *fleetview.View
	registry *thresholds.Registry
}

// NewFinancial creates the financial analyzer.
func NewFinancial(view *fleetview.View, registry *thresholds.Registry) *Financial {
	return &Financial{view: view, registry: registry}
}

// Source tags financial alerts.
func (a *Financial) Source() alerts.Source { return alerts.SourceFinancial }

// MonthlyFinancials is one month's revenue-vs-cost aggregate.
type MonthlyFinancials struct {
	Month                string  `json:"month"`
	TotalRevenue         float64 `json:"total_revenue"`
	TotalFuelCost        float64 `json:"total_fuel_cost"`
	TotalAccessorialCost float64 `json:"total_accessorial_cost"`
	TotalCost            float64 `json:"total_cost"`
	TotalProfit          float64 `json:"total_profit"`
	TotalLoads           int     `json:"total_loads"`
	TotalMiles           float64 `json:"total_miles"`
	ProfitMarginPct      float64 `json:"profit_margin_pct"`
	RevenuePerMile       float64 `json:"revenue_per_mile"`
	CostPerMile          float64 `json:"cost_per_mile"`
	ProfitPerMile        float64 `json:"profit_per_mile"`
}

// MonthlyStats aggregates revenue and cost per calendar month, sorted by
// month ascending. Months with zero revenue carry a zero margin rather than
// propagating an undefined division.
func (a *Financial) MonthlyStats(filtered []fleetview.TripRecord) []MonthlyFinancials {
	recs := records(a.view, filtered)

	byMonth := make(map[string]*MonthlyFinancials)
	var order []string
	for _, r := range recs {
		if r.Month == "" {
			continue
		}
		m, ok := byMonth[r.Month]
		if !ok {
			m = &MonthlyFinancials{Month: r.Month}
			byMonth[r.Month] = m
			order = append(order, r.Month)
		}
		m.TotalRevenue += r.Revenue
		m.TotalFuelCost += r.FuelSurcharge
		m.TotalAccessorialCost += r.AccessorialCharges
		m.TotalProfit += r.Profit
		m.TotalLoads++
		m.TotalMiles += r.ActualDistanceMiles
	}

	sort.Strings(order)
	out := make([]MonthlyFinancials, 0, len(order))
	for _, month := range order {
		m := byMonth[month]
		m.TotalCost = m.TotalFuelCost + m.TotalAccessorialCost
		if m.TotalRevenue > 0 {
			m.ProfitMarginPct = m.TotalProfit / m.TotalRevenue * 100
		}
		if m.TotalMiles > 0 {
			m.RevenuePerMile = m.TotalRevenue / m.TotalMiles
			m.CostPerMile = m.TotalCost / m.TotalMiles
			m.ProfitPerMile = m.TotalProfit / m.TotalMiles
		}
		out = append(out, *m)
	}
	return out
}

// RouteStats is the profitability aggregate for one route.
type RouteStats struct {
	RouteName       string  `json:"route"`
	TripCount       int     `json:"trip_count"`
	TotalRevenue    float64 `json:"total_revenue"`
	TotalProfit     float64 `json:"total_profit"`
	TotalMiles      float64 `json:"total_miles"`
	AvgDistance     float64 `json:"avg_distance"`
	FuelCost        float64 `json:"fuel_cost"`
	AccessorialCost float64 `json:"accessorial_cost"`
	ProfitMarginPct float64 `json:"profit_margin_pct"`
	ProfitPerMile   float64 `json:"profit_per_mile"`
	RevenuePerMile  float64 `json:"revenue_per_mile"`
	CostPerMile     float64 `json:"cost_per_mile"`
	Category        string  `json:"category"`
}

// profitCategory buckets a margin percentage.
func profitCategory(marginPct float64) string {
	switch {
	case marginPct > 30:
		return "Excellent"
	case marginPct > 20:
		return "Good"
	case marginPct > 10:
		return "Fair"
	case marginPct > 0:
		return "Marginal"
	default:
		return "Loss"
	}
}

// GetRouteStats aggregates profitability per route, keeps routes with at
// least minTrips trips (DefaultMinRouteTrips when minTrips <= 0), and sorts
// by margin descending. Routes with zero total revenue are excluded because
// their margin is undefined. The sort is stable so identical inputs produce
// identical output.
func (a *Financial) GetRouteStats(filtered []fleetview.TripRecord, minTrips int) []RouteStats {
	if minTrips <= 0 {
		minTrips = DefaultMinRouteTrips
	}
	recs := records(a.view, filtered)

	byRoute := make(map[string]*RouteStats)
	var order []string
	for _, r := range recs {
		s, ok := byRoute[r.RouteName]
		if !ok {
			s = &RouteStats{RouteName: r.RouteName}
			byRoute[r.RouteName] = s
			order = append(order, r.RouteName)
		}
		s.TripCount++
		s.TotalRevenue += r.Revenue
		s.TotalProfit += r.Profit
		s.TotalMiles += r.ActualDistanceMiles
		s.FuelCost += r.FuelSurcharge
		s.AccessorialCost += r.AccessorialCharges
	}

	out := make([]RouteStats, 0, len(order))
	for _, name := range order {
		s := byRoute[name]
		if s.TripCount < minTrips || s.TotalRevenue == 0 {
			continue
		}
		s.AvgDistance = s.TotalMiles / float64(s.TripCount)
		s.ProfitMarginPct = s.TotalProfit / s.TotalRevenue * 100
		if s.TotalMiles > 0 {
			s.ProfitPerMile = s.TotalProfit / s.TotalMiles
			s.RevenuePerMile = s.TotalRevenue / s.TotalMiles
			s.CostPerMile = (s.FuelCost + s.AccessorialCost) / s.TotalMiles
		}
		s.Category = profitCategory(s.ProfitMarginPct)
		out = append(out, *s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ProfitMarginPct > out[j].ProfitMarginPct
	})
	return out
}

// WorstRoutes returns the n least profitable qualifying routes, worst first.
func (a *Financial) WorstRoutes(n int) []RouteStats {
	stats := a.GetRouteStats(nil, 0)
	// stats is sorted best-first; walk from the tail.
	var out []RouteStats
	for i := len(stats) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, stats[i])
	}
	return out
}

// GetKPIs computes the overall financial KPI set. Keys whose denominator is
// zero are omitted rather than set to an invalid value.
func (a *Financial) GetKPIs(filtered []fleetview.TripRecord) map[string]float64 {
	recs := records(a.view, filtered)
	kpis := make(map[string]float64)
	if len(recs) == 0 {
		return kpis
	}

	var revenue, profit, cost, miles float64
	for _, r := range recs {
		revenue += r.Revenue
		profit += r.Profit
		cost += r.FuelSurcharge + r.AccessorialCharges
		miles += r.ActualDistanceMiles
	}

	kpis["total_revenue"] = revenue
	kpis["total_profit"] = profit
	kpis["total_loads"] = float64(len(recs))
	kpis["total_miles"] = miles
	kpis["avg_revenue_per_load"] = revenue / float64(len(recs))
	if revenue > 0 {
		kpis["avg_profit_margin"] = profit / revenue * 100
	}
	if miles > 0 {
		kpis["avg_cost_per_mile"] = cost / miles
		kpis["avg_revenue_per_mile"] = revenue / miles
	}
	return kpis
}

// Alerts evaluates the financial rules: a route losing money overall is
// critical, a route under 10% margin is a warning, and an overall margin
// under the configured threshold is a warning.
func (a *Financial) Alerts() ([]alerts.Alert, error) {
	var out []alerts.Alert

	for _, route := range a.GetRouteStats(nil, 0) {
		switch {
		case route.TotalProfit < 0:
			out = append(out, alerts.Alert{
				Severity: alerts.SeverityCritical,
				Title:    "Route Losing Money",
				Message: fmt.Sprintf("%s: %s total profit across %d trips",
					route.RouteName, utils.FormatCurrency(route.TotalProfit), route.TripCount),
				Metric: "Review pricing or drop the lane",
			})
		case route.ProfitMarginPct < 10:
			out = append(out, alerts.Alert{
				Severity: alerts.SeverityWarning,
				Title:    "Low Route Margin",
				Message: fmt.Sprintf("%s: %.1f%% margin over %d trips",
					route.RouteName, route.ProfitMarginPct, route.TripCount),
				Metric: "Target: 10%+",
			})
		}
	}

	marginWarn, err := a.registry.Get(thresholds.KeyProfitMarginWarning)
	if err != nil {
		return nil, err
	}
	kpis := a.GetKPIs(nil)
	if margin, ok := kpis["avg_profit_margin"]; ok && margin < marginWarn {
		out = append(out, alerts.Alert{
			Severity: alerts.SeverityWarning,
			Title:    "Overall Profit Margin Below Target",
			Message:  fmt.Sprintf("Fleet margin: %.1f%%, Target: %.0f%%+", margin, marginWarn),
			Metric:   "Review cost structure",
		})
	}
	return out, nil
}

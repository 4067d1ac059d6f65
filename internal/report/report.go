// Package report renders the analyzer output as plain-text dashboards for
// the CLI.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fleetsmart/fleetsmart/internal/alerts"
	"github.com/fleetsmart/fleetsmart/internal/analyzer"
	"github.com/fleetsmart/fleetsmart/internal/utils"
)

const bannerWidth = 70

// Report writes the full text dashboard to an output stream.
type Report struct {
	w           io.Writer
	financial   *analyzer.Financial
	operational *analyzer.Operational
	drivers     *analyzer.DriverPerformance
	fleetCost   *analyzer.FleetCost
	engine      *alerts.Engine
}

// New creates a report writer.
func New(
	w io.Writer,
	financial *analyzer.Financial,
	operational *analyzer.Operational,
	drivers *analyzer.DriverPerformance,
	fleetCost *analyzer.FleetCost,
	engine *alerts.Engine,
) *Report {
	return &Report{
		w:           w,
		financial:   financial,
		operational: operational,
		drivers:     drivers,
		fleetCost:   fleetCost,
		engine:      engine,
	}
}

// Run renders every dashboard section.
func (r *Report) Run() {
	r.Financial()
	r.Operational()
	r.Drivers()
	r.FleetCost()
	r.Alerts()
}

func (r *Report) banner(title string) {
	line := strings.Repeat("=", bannerWidth)
	fmt.Fprintf(r.w, "\n%s\n %s\n%s\n", line, title, line)
}

// Financial renders revenue, profitability, and route margin sections.
func (r *Report) Financial() {
	r.banner("FINANCIAL PERFORMANCE DASHBOARD")

	kpis := r.financial.GetKPIs(nil)
	if len(kpis) == 0 {
		fmt.Fprintln(r.w, " No financial data available.")
		return
	}

	fmt.Fprintf(r.w, " Total Revenue           : %s\n", utils.FormatCurrency(kpis["total_revenue"]))
	fmt.Fprintf(r.w, " Total Profit            : %s\n", utils.FormatCurrency(kpis["total_profit"]))
	fmt.Fprintf(r.w, " Average Profit Margin   : %s\n", utils.FormatPercent(kpis["avg_profit_margin"]))
	fmt.Fprintf(r.w, " Revenue per Load        : %s\n", utils.FormatCurrency(kpis["avg_revenue_per_load"]))
	fmt.Fprintf(r.w, " Total Loads             : %s\n", utils.FormatNumber(kpis["total_loads"]))
	fmt.Fprintf(r.w, " Total Miles             : %s\n", utils.FormatNumber(kpis["total_miles"]))

	routes := r.financial.GetRouteStats(nil, 0)
	if len(routes) > 0 {
		fmt.Fprintf(r.w, "\nTOP ROUTES BY MARGIN (min %d trips)\n", analyzer.DefaultMinRouteTrips)
		fmt.Fprintln(r.w, strings.Repeat("-", 60))
		for i, route := range routes {
			if i == 3 {
				break
			}
			fmt.Fprintf(r.w, " %d. %-35s %s margin (%s profit)\n",
				i+1, route.RouteName, utils.FormatPercent(route.ProfitMarginPct),
				utils.FormatCurrency(route.TotalProfit))
		}

		fmt.Fprintln(r.w, "\nWORST ROUTES BY MARGIN")
		fmt.Fprintln(r.w, strings.Repeat("-", 60))
		for i, route := range r.financial.WorstRoutes(3) {
			fmt.Fprintf(r.w, " %d. %-35s %s margin [%s]\n",
				i+1, route.RouteName, utils.FormatPercent(route.ProfitMarginPct), route.Category)
		}
	}
}

// Operational renders on-time delivery and utilization sections.
func (r *Report) Operational() {
	r.banner("OPERATIONAL EFFICIENCY DASHBOARD")

	kpis := r.operational.GetKPIs(nil)
	if len(kpis) == 0 {
		fmt.Fprintln(r.w, " No operational data available.")
		return
	}

	fmt.Fprintf(r.w, " On-Time Delivery Rate   : %s\n", utils.FormatPercent(kpis["on_time_rate"]))
	fmt.Fprintf(r.w, " Fleet Utilization Rate  : %s\n", utils.FormatPercent(kpis["fleet_utilization_pct"]))
	fmt.Fprintf(r.w, " Average Idle Hours/Trip : %.1f hours\n", kpis["avg_idle_hours"])
	fmt.Fprintf(r.w, " Fleet Average MPG       : %.1f\n", kpis["avg_mpg"])
	fmt.Fprintf(r.w, " Trips per Truck         : %.1f\n", kpis["trips_per_truck"])

	fmt.Fprintln(r.w, "\nON-TIME DELIVERY TREND")
	fmt.Fprintln(r.w, strings.Repeat("-", 50))
	trend := r.operational.GetOnTimeRates(analyzer.ByMonth, nil)
	if len(trend) > 12 {
		trend = trend[len(trend)-12:]
	}
	for _, month := range trend {
		status := "Critical"
		if month.OnTimePct >= 90 {
			status = "Good"
		} else if month.OnTimePct >= 80 {
			status = "Needs Work"
		}
		fmt.Fprintf(r.w, " %s → %5.1f%% [%s]\n", month.Key, month.OnTimePct, status)
	}

	fmt.Fprintln(r.w, "\nWORST 5 ROUTES BY ON-TIME DELIVERY")
	fmt.Fprintln(r.w, strings.Repeat("-", 60))
	for _, route := range r.operational.WorstRoutesByOnTime(5) {
		fmt.Fprintf(r.w, " %-40s → %5.1f%% on-time\n", route.Key, route.OnTimePct)
	}
}

// Drivers renders the driver leaderboard section.
func (r *Report) Drivers() {
	r.banner("DRIVER PERFORMANCE DASHBOARD")

	kpis := r.drivers.GetKPIs()
	if len(kpis) == 0 {
		fmt.Fprintln(r.w, " No driver data available.")
		return
	}

	fmt.Fprintf(r.w, " Average Monthly Revenue : %s\n", utils.FormatCurrency(kpis["avg_revenue"]))
	fmt.Fprintf(r.w, " Average MPG             : %.1f\n", kpis["avg_mpg"])
	fmt.Fprintf(r.w, " Average Idle Hours      : %.1f\n", kpis["avg_idle"])
	fmt.Fprintf(r.w, " On-Time Delivery Rate   : %s\n", utils.FormatPercent(kpis["avg_otd"]))
	fmt.Fprintf(r.w, " Total Safety Incidents  : %s\n", utils.FormatNumber(kpis["total_incidents"]))

	fmt.Fprintln(r.w, "\nTOP 5 BEST PERFORMING DRIVERS")
	fmt.Fprintln(r.w, strings.Repeat("-", 70))
	for i, s := range r.drivers.GetLeaderboard(analyzer.LeaderboardOptions{}) {
		if i == 5 {
			break
		}
		fmt.Fprintf(r.w, " %d. %-25s → Revenue: %9s | MPG: %4.1f | OTD: %5.1f%% | Incidents: %d\n",
			i+1, utils.TruncateText(s.Name, 25), utils.FormatCurrency(s.Revenue),
			s.MPG, s.OnTimeRate*100, s.Incidents)
	}
}

// FleetCost renders fuel, maintenance, and risk sections.
func (r *Report) FleetCost() {
	r.banner("FUEL & MAINTENANCE DASHBOARD")

	kpis := r.fleetCost.GetKPIs()
	if len(kpis) == 0 {
		fmt.Fprintln(r.w, " No fuel or maintenance data available.")
		return
	}

	fmt.Fprintf(r.w, " Total Fuel Cost         : %s\n", utils.FormatCurrency(kpis["total_fuel_cost"]))
	fmt.Fprintf(r.w, " Total Gallons Purchased : %s\n", utils.FormatNumber(kpis["total_gallons"]))
	fmt.Fprintf(r.w, " Avg Price per Gallon    : $%.2f\n", kpis["avg_price_per_gallon"])
	fmt.Fprintf(r.w, " Fleet Average MPG       : %.1f\n", kpis["fleet_mpg"])
	fmt.Fprintf(r.w, " Total Maintenance Cost  : %s\n", utils.FormatCurrency(kpis["total_maintenance_cost"]))
	fmt.Fprintf(r.w, " Maintenance Events      : %s\n", utils.FormatNumber(kpis["maintenance_events"]))
	fmt.Fprintf(r.w, " Avg Downtime per Event  : %.1f hours\n", kpis["avg_downtime_hours"])

	fmt.Fprintln(r.w, "\nTOP 5 MOST EXPENSIVE TRUCKS (Fuel + Maintenance)")
	fmt.Fprintln(r.w, strings.Repeat("-", 60))
	for _, c := range r.fleetCost.GetTruckCosts(5) {
		fmt.Fprintf(r.w, " Truck %-10s → %s (Fuel: %s, Maint: %s)\n",
			c.UnitNumber, utils.FormatCurrency(c.TotalCost),
			utils.FormatCurrency(c.FuelCost), utils.FormatCurrency(c.MaintenanceCost))
	}

	if highRisk, err := r.fleetCost.GetHighRiskTrucks(); err == nil && len(highRisk) > 0 {
		fmt.Fprintln(r.w, "\nHIGH-RISK TRUCKS")
		fmt.Fprintln(r.w, strings.Repeat("-", 60))
		for _, t := range highRisk {
			fmt.Fprintf(r.w, " Truck %-10s → %s miles, %.0f years old\n",
				t.UnitNumber, utils.FormatNumber(t.Mileage), t.AgeYears)
		}
	}
}

// Alerts renders the merged alert list and summary.
func (r *Report) Alerts() {
	r.banner("FLEET ALERTS")

	summary := r.engine.GetSummary()
	fmt.Fprintf(r.w, " Status: %s | %d alerts (%d critical, %d warning, %d info)\n",
		summary.Status, summary.Counts.Total, summary.Counts.Critical,
		summary.Counts.Warning, summary.Counts.Info)

	for _, a := range r.engine.GetFormattedAlerts() {
		fmt.Fprintf(r.w, " %s [%s] %s: %s\n", a.Icon, a.Source, a.Title, a.Message)
	}
	if summary.Counts.Total == 0 {
		fmt.Fprintln(r.w, " No alerts. All metrics within thresholds.")
	}
}

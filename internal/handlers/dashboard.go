// Package handlers exposes the dashboard JSON API.
package handlers

import (
	"net/http"

	"github.com/fleetsmart/fleetsmart/internal/alerts"
	"github.com/fleetsmart/fleetsmart/internal/analyzer"
	"github.com/fleetsmart/fleetsmart/internal/api"
)

// Dashboard handles the dashboard HTTP endpoints.
type Dashboard struct {
	financial   *analyzer.Financial
	operational *analyzer.Operational
	drivers     *analyzer.DriverPerformance
	fleetCost   *analyzer.FleetCost
	engine      *alerts.Engine
}

// NewDashboard creates the dashboard handler.
func NewDashboard(
	financial *analyzer.Financial,
	operational *analyzer.Operational,
	drivers *analyzer.DriverPerformance,
	fleetCost *analyzer.FleetCost,
	engine *alerts.Engine,
) *Dashboard {
	return &Dashboard{
		financial:   financial,
		operational: operational,
		drivers:     drivers,
		fleetCost:   fleetCost,
		engine:      engine,
	}
}

// SetupRoutes configures all HTTP routes
func (h *Dashboard) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.handleHealth)

	mux.HandleFunc("/api/kpis/financial", h.handleFinancialKPIs)
	mux.HandleFunc("/api/kpis/operational", h.handleOperationalKPIs)
	mux.HandleFunc("/api/kpis/drivers", h.handleDriverKPIs)
	mux.HandleFunc("/api/kpis/fleet", h.handleFleetKPIs)

	mux.HandleFunc("/api/financial/monthly", h.handleMonthly)
	mux.HandleFunc("/api/financial/routes", h.handleRouteStats)
	mux.HandleFunc("/api/operational/on-time", h.handleOnTime)
	mux.HandleFunc("/api/drivers/leaderboard", h.handleLeaderboard)
	mux.HandleFunc("/api/drivers/search", h.handleDriverSearch)
	mux.HandleFunc("/api/drivers/quadrants", h.handleQuadrants)
	mux.HandleFunc("/api/fleet/costs", h.handleTruckCosts)
	mux.HandleFunc("/api/fleet/risk", h.handleTruckRisks)

	mux.HandleFunc("/api/alerts", h.handleAlerts)
	mux.HandleFunc("/api/alerts/summary", h.handleAlertSummary)
	mux.HandleFunc("/api/alerts/count", h.handleAlertCount)
	mux.HandleFunc("/api/thresholds", h.handleThresholds)
}

func requireGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		api.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	return true
}

// handleHealth returns a simple health check response
func (h *Dashboard) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	api.RespondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "fleetsmart",
	})
}

func (h *Dashboard) handleFinancialKPIs(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	api.RespondJSON(w, http.StatusOK, h.financial.GetKPIs(nil))
}

func (h *Dashboard) handleOperationalKPIs(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	api.RespondJSON(w, http.StatusOK, h.operational.GetKPIs(nil))
}

func (h *Dashboard) handleDriverKPIs(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	api.RespondJSON(w, http.StatusOK, h.drivers.GetKPIs())
}

func (h *Dashboard) handleFleetKPIs(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	api.RespondJSON(w, http.StatusOK, h.fleetCost.GetKPIs())
}

func (h *Dashboard) handleMonthly(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	api.RespondJSON(w, http.StatusOK, h.financial.MonthlyStats(nil))
}

func (h *Dashboard) handleRouteStats(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	minTrips := api.QueryInt(r, "min_trips", 0)
	api.RespondJSON(w, http.StatusOK, h.financial.GetRouteStats(nil, minTrips))
}

func (h *Dashboard) handleOnTime(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	dim := analyzer.Dimension(r.URL.Query().Get("by"))
	switch dim {
	case "":
		dim = analyzer.ByRoute
	case analyzer.ByRoute, analyzer.ByDriver, analyzer.ByTruck, analyzer.ByCustomer, analyzer.ByMonth:
	default:
		api.RespondError(w, http.StatusBadRequest, "unknown dimension: "+string(dim))
		return
	}
	api.RespondJSON(w, http.StatusOK, h.operational.GetOnTimeRates(dim, nil))
}

func (h *Dashboard) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	opts := analyzer.LeaderboardOptions{
		MinRevenue:    api.QueryFloat(r, "min_revenue", 0),
		MinOnTimeRate: api.QueryFloat(r, "min_on_time", 0),
	}
	api.RespondJSON(w, http.StatusOK, h.drivers.GetLeaderboard(opts))
}

func (h *Dashboard) handleDriverSearch(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	query := r.URL.Query().Get("q")
	if query == "" {
		api.RespondError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}
	api.RespondJSON(w, http.StatusOK, h.drivers.SearchDrivers(query))
}

func (h *Dashboard) handleQuadrants(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	api.RespondJSON(w, http.StatusOK, h.drivers.GetQuadrants())
}

func (h *Dashboard) handleTruckCosts(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	topN := api.QueryInt(r, "top", 0)
	api.RespondJSON(w, http.StatusOK, h.fleetCost.GetTruckCosts(topN))
}

func (h *Dashboard) handleTruckRisks(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	risks, err := h.fleetCost.GetTruckRisks()
	if err != nil {
		api.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	api.RespondJSON(w, http.StatusOK, risks)
}

func (h *Dashboard) handleAlerts(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	if src := r.URL.Query().Get("source"); src != "" {
		api.RespondJSON(w, http.StatusOK, h.engine.AlertsBySource(alerts.Source(src)))
		return
	}
	if sev := r.URL.Query().Get("severity"); sev != "" {
		api.RespondJSON(w, http.StatusOK, h.engine.AlertsBySeverity(alerts.Severity(sev)))
		return
	}
	if r.URL.Query().Get("formatted") == "true" {
		api.RespondJSON(w, http.StatusOK, h.engine.GetFormattedAlerts())
		return
	}
	api.RespondJSON(w, http.StatusOK, h.engine.GetAllAlerts())
}

func (h *Dashboard) handleAlertSummary(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	api.RespondJSON(w, http.StatusOK, h.engine.GetSummary())
}

func (h *Dashboard) handleAlertCount(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	api.RespondJSON(w, http.StatusOK, h.engine.GetAlertCount())
}

// thresholdUpdate is the PUT /api/thresholds request body.
type thresholdUpdate struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

func (h *Dashboard) handleThresholds(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		api.RespondJSON(w, http.StatusOK, h.engine.Thresholds())
	case http.MethodPut:
		var update thresholdUpdate
		if err := api.DecodeJSON(r, &update); err != nil {
			api.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if update.Key == "" {
			api.RespondError(w, http.StatusBadRequest, "missing threshold key")
			return
		}
		h.engine.SetThreshold(update.Key, update.Value)
		api.RespondJSON(w, http.StatusOK, h.engine.Thresholds())
	default:
		api.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

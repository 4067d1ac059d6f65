package alerts

import (
	"log"
	"sort"
	"time"

	"github.com/fleetsmart/fleetsmart/internal/thresholds"
	"github.com/google/uuid"
)

// Evaluator is a per-domain rule set. Alerts returns the records the domain's
// rules emit for the current data and thresholds; the engine fills in the
// source tag, ID, and generation timestamp.
type Evaluator interface {
	Source() Source
	Alerts() ([]Alert, error)
}

// Engine aggregates the domain evaluators into one ranked alert list.
type Engine struct {
	registry   *thresholds.Registry
	evaluators []Evaluator
	now        func() time.Time
}

// NewEngine creates an engine over the given registry and evaluators.
func NewEngine(registry *thresholds.Registry, evaluators ...Evaluator) *Engine {
	return &Engine{
		registry:   registry,
		evaluators: evaluators,
		now:        time.Now,
	}
}

// SetClock replaces the generation-timestamp clock. Tests use this for
// deterministic output.
func (e *Engine) SetClock(now func() time.Time) { e.now = now }

// SetThreshold updates a threshold value; the change applies on the next
// evaluation call, never retroactively.
func (e *Engine) SetThreshold(key string, value float64) {
	e.registry.Set(key, value)
}

// Thresholds returns a copy of the current threshold settings.
func (e *Engine) Thresholds() map[string]float64 {
	return e.registry.All()
}

// GetAllAlerts evaluates every domain and returns the combined alerts sorted
// by severity (critical, warning, info), preserving insertion order within a
// tier. A failing domain is logged and skipped so one bad table cannot take
// down the whole summary.
func (e *Engine) GetAllAlerts() []Alert {
	now := e.now()
	var all []Alert
	for _, ev := range e.evaluators {
		domain, err := ev.Alerts()
		if err != nil {
			log.Printf("%s alerts error: %v", ev.Source(), err)
			continue
		}
		for _, a := range domain {
			a.ID = uuid.New()
			a.Source = ev.Source()
			a.Timestamp = now
			all = append(all, a)
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Severity.Rank() < all[j].Severity.Rank()
	})
	return all
}

// AlertsBySeverity returns only the alerts of one severity tier.
func (e *Engine) AlertsBySeverity(sev Severity) []Alert {
	var out []Alert
	for _, a := range e.GetAllAlerts() {
		if a.Severity == sev {
			out = append(out, a)
		}
	}
	return out
}

// AlertsBySource returns only the alerts emitted by one domain.
func (e *Engine) AlertsBySource(src Source) []Alert {
	var out []Alert
	for _, a := range e.GetAllAlerts() {
		if a.Source == src {
			out = append(out, a)
		}
	}
	return out
}

// Count holds alert totals by severity for badge display.
type Count struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Info     int `json:"info"`
}

// GetAlertCount returns the current alert totals.
func (e *Engine) GetAlertCount() Count {
	return countAlerts(e.GetAllAlerts())
}

func countAlerts(all []Alert) Count {
	c := Count{Total: len(all)}
	for _, a := range all {
		switch a.Severity {
		case SeverityCritical:
			c.Critical++
		case SeverityWarning:
			c.Warning++
		case SeverityInfo:
			c.Info++
		}
	}
	return c
}

// Summary is the dashboard roll-up of the current alerts.
type Summary struct {
	Counts         Count   `json:"counts"`
	TopCritical    []Alert `json:"top_critical"`
	NeedsAttention bool    `json:"needs_attention"`
	Status         string  `json:"status"`
}

// GetSummary evaluates once and rolls the alerts up for dashboard display.
// Status is Critical when any critical alert fired, Warning when any warning
// fired, Good otherwise.
func (e *Engine) GetSummary() Summary {
	all := e.GetAllAlerts()
	counts := countAlerts(all)

	var top []Alert
	for _, a := range all {
		if a.Severity == SeverityCritical {
			top = append(top, a)
			if len(top) == 3 {
				break
			}
		}
	}

	status := "Good"
	switch {
	case counts.Critical > 0:
		status = "Critical"
	case counts.Warning > 0:
		status = "Warning"
	}

	return Summary{
		Counts:         counts,
		TopCritical:    top,
		NeedsAttention: counts.Critical > 0 || counts.Warning > 2,
		Status:         status,
	}
}

// GetFormattedAlerts returns all alerts with display icons attached.
func (e *Engine) GetFormattedAlerts() []FormattedAlert {
	all := e.GetAllAlerts()
	out := make([]FormattedAlert, 0, len(all))
	for _, a := range all {
		out = append(out, Format(a))
	}
	return out
}

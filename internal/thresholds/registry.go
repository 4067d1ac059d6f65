// Package thresholds holds the mutable registry of numeric alert boundaries.
// The registry is the single source of truth the rule evaluators read; it is
// reset to the documented defaults at every process start.
package thresholds

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownThreshold indicates a lookup of a key nobody registered. It is a
// programming error in the calling rule, not a runtime data problem.
var ErrUnknownThreshold = errors.New("unknown threshold key")

// Threshold keys read by the rule evaluators.
const (
	KeyOnTimeRateCritical     = "on_time_rate_critical"
	KeyOnTimeRateWarning      = "on_time_rate_warning"
	KeyIdleHoursWarning       = "idle_hours_warning"
	KeyFleetMPGWarning        = "fleet_mpg_warning"
	KeyDowntimeHoursCritical  = "downtime_hours_critical"
	KeyMileageHigh            = "mileage_high"
	KeyTruckAgeHigh           = "truck_age_high"
	KeyMaintenanceCostWarning = "maintenance_cost_warning"
	KeyIncidentCountCritical  = "incident_count_critical"
	KeyProfitMarginWarning    = "profit_margin_warning"
	KeyRouteOnTimeRateWarning = "route_on_time_rate_warning"
)

// Defaults returns a fresh copy of the default threshold values.
func Defaults() map[string]float64 {
	return map[string]float64{
		KeyOnTimeRateCritical:     85,
		KeyOnTimeRateWarning:      90,
		KeyIdleHoursWarning:       5,
		KeyFleetMPGWarning:        6.0,
		KeyDowntimeHoursCritical:  8,
		KeyMileageHigh:            500000,
		KeyTruckAgeHigh:           10,
		KeyMaintenanceCostWarning: 50000,
		KeyIncidentCountCritical:  8,
		KeyProfitMarginWarning:    15,
		KeyRouteOnTimeRateWarning: 70,
	}
}

// Registry maps threshold keys to numeric values. Reads and writes are
// guarded because the HTTP layer mutates it while evaluations read it.
type Registry struct {
	mu     sync.RWMutex
	values map[string]float64
}

// NewRegistry creates a registry populated with the defaults.
func NewRegistry() *Registry {
	return &Registry{values: Defaults()}
}

// Set stores a threshold value, overwriting any previous one. No validation
// is applied; changes take effect on the next evaluation call.
func (r *Registry) Set(key string, value float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
}

// Get returns a threshold value. Unknown keys fail fast with
// ErrUnknownThreshold so misconfigured rules surface during development.
func (r *Registry) Get(key string) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownThreshold, key)
	}
	return v, nil
}

// All returns a defensive copy of the current values.
func (r *Registry) All() map[string]float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]float64, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Apply sets every entry of overrides. Used for config-file overrides at
// startup.
func (r *Registry) Apply(overrides map[string]float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range overrides {
		r.values[k] = v
	}
}

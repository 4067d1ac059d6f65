package thresholds

import (
	"errors"
	"testing"
)

func TestDefaultsCoverEveryKey(t *testing.T) {
	defaults := Defaults()
	keys := []string{
		KeyOnTimeRateCritical,
		KeyOnTimeRateWarning,
		KeyIdleHoursWarning,
		KeyFleetMPGWarning,
		KeyDowntimeHoursCritical,
		KeyMileageHigh,
		KeyTruckAgeHigh,
		KeyMaintenanceCostWarning,
		KeyIncidentCountCritical,
		KeyProfitMarginWarning,
		KeyRouteOnTimeRateWarning,
	}
	if len(defaults) != len(keys) {
		t.Errorf("expected %d defaults, got %d", len(keys), len(defaults))
	}
	for _, key := range keys {
		if _, ok := defaults[key]; !ok {
			t.Errorf("missing default for %s", key)
		}
	}
}

func TestRegistryGetDefault(t *testing.T) {
	r := NewRegistry()
	v, err := r.Get(KeyOnTimeRateCritical)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 85 {
		t.Errorf("expected default 85, got %v", v)
	}
}

func TestRegistrySetOverwrites(t *testing.T) {
	r := NewRegistry()
	r.Set(KeyIdleHoursWarning, 12)
	v, err := r.Get(KeyIdleHoursWarning)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 12 {
		t.Errorf("expected 12 after Set, got %v", v)
	}
}

func TestRegistryUnknownKey(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("no_such_threshold")
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !errors.Is(err, ErrUnknownThreshold) {
		t.Errorf("expected ErrUnknownThreshold, got %v", err)
	}
}

func TestRegistryAllIsACopy(t *testing.T) {
	r := NewRegistry()
	all := r.All()
	all[KeyOnTimeRateCritical] = 1

	v, err := r.Get(KeyOnTimeRateCritical)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 85 {
		t.Errorf("mutating the All() copy changed the registry: got %v", v)
	}
}

func TestRegistryApply(t *testing.T) {
	r := NewRegistry()
	r.Apply(map[string]float64{
		KeyFleetMPGWarning: 6.5,
		KeyMileageHigh:     450000,
	})

	if v, _ := r.Get(KeyFleetMPGWarning); v != 6.5 {
		t.Errorf("expected override 6.5, got %v", v)
	}
	if v, _ := r.Get(KeyMileageHigh); v != 450000 {
		t.Errorf("expected override 450000, got %v", v)
	}
	// Untouched keys keep their defaults.
	if v, _ := r.Get(KeyTruckAgeHigh); v != 10 {
		t.Errorf("expected untouched default 10, got %v", v)
	}
}

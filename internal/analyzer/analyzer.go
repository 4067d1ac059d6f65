// Package analyzer implements the four KPI domains over the shared fleet
// view: financial, operational, driver performance, and fleet cost. Each
// analyzer is read-only over the view; aggregate methods accept an optional
// pre-filtered record slice and fall back to the full view.
package analyzer

import "github.com/fleetsmart/fleetsmart/internal/fleetview"

// records resolves the optional pre-filtered dataset contract: a nil slice
// means "use the full prepared view".
func records(view *fleetview.View, filtered []fleetview.TripRecord) []fleetview.TripRecord {
	if filtered != nil {
		return filtered
	}
	return view.Trips
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

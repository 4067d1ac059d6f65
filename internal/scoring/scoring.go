// Package scoring holds the pure scoring and classification functions shared
// by the analyzers.
package scoring

import "sort"

// DriverScore is the composite driver performance metric. Revenue is the
// period total in dollars, onTimeRate is a 0..1 fraction, incidents is the
// recorded safety incident count (zero when none were recorded). Higher is
// better; the combination is linear with no normalization.
func DriverScore(revenue, mpg, onTimeRate, idleHours float64, incidents int) float64 {
	return revenue/1000*0.5 +
		mpg*4 +
		onTimeRate*100*0.4 -
		idleHours*3 -
		float64(incidents)*15
}

// RiskLevel is the categorical truck-health classification.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// ClassifyRisk maps a truck's mileage and age against the two thresholds.
// High requires both to be strictly above their thresholds, Medium exactly
// one. Values equal to a threshold do not trip it.
func ClassifyRisk(mileage, ageYears, mileageHigh, ageHigh float64) RiskLevel {
	overMileage := mileage > mileageHigh
	overAge := ageYears > ageHigh
	switch {
	case overMileage && overAge:
		return RiskHigh
	case overMileage || overAge:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Quadrant is a driver's position in the revenue/efficiency performance
// matrix relative to the fleet medians.
type Quadrant string

const (
	QuadrantStar             Quadrant = "Star"
	QuadrantHighEarner       Quadrant = "High Earner"
	QuadrantEfficient        Quadrant = "Efficient"
	QuadrantNeedsImprovement Quadrant = "Needs Improvement"
)

// ClassifyQuadrant places a driver in the performance matrix by comparing
// revenue and mpg against the fleet medians.
func ClassifyQuadrant(revenue, mpg, medianRevenue, medianMPG float64) Quadrant {
	highRevenue := revenue >= medianRevenue
	highMPG := mpg >= medianMPG
	switch {
	case highRevenue && highMPG:
		return QuadrantStar
	case highRevenue:
		return QuadrantHighEarner
	case highMPG:
		return QuadrantEfficient
	default:
		return QuadrantNeedsImprovement
	}
}

// Median returns the median of values, or 0 for an empty slice. The input is
// not modified.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

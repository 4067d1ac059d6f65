// Package alerts defines the alert record and the engine that aggregates the
// per-domain rule evaluators into one severity-ranked list.
package alerts

import (
	"time"

	"github.com/google/uuid"
)

// Severity is the alert severity tier.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Rank returns the sort rank of a severity: critical first, unknown last.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	}
	return 3
}

// Source identifies the domain a rule evaluator belongs to.
type Source string

const (
	SourceFinancial  Source = "Financial"
	SourceOperations Source = "Operations"
	SourceDrivers    Source = "Drivers"
	SourceFleet      Source = "Fleet"
)

// Alert is one emitted alert record. Alerts are generated fresh on every
// evaluation call and never persisted or deduplicated.
type Alert struct {
	ID        uuid.UUID `json:"id"`
	Severity  Severity  `json:"severity"`
	Source    Source    `json:"source"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Metric    string    `json:"metric,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// FormattedAlert is an alert decorated with presentation icons. Purely
// cosmetic; no logic reads it back.
type FormattedAlert struct {
	Icon       string   `json:"icon"`
	SourceIcon string   `json:"source_icon"`
	Title      string   `json:"title"`
	Message    string   `json:"message"`
	Metric     string   `json:"metric,omitempty"`
	Source     Source   `json:"source"`
	Severity   Severity `json:"severity"`
}

var severityIcons = map[Severity]string{
	SeverityCritical: "🔴",
	SeverityWarning:  "🟡",
	SeverityInfo:     "🟢",
}

var sourceIcons = map[Source]string{
	SourceFinancial:  "💰",
	SourceOperations: "⏱️",
	SourceDrivers:    "👨‍✈️",
	SourceFleet:      "⛽",
}

// Format attaches the display icons for an alert.
func Format(a Alert) FormattedAlert {
	icon, ok := severityIcons[a.Severity]
	if !ok {
		icon = "⚪"
	}
	srcIcon, ok := sourceIcons[a.Source]
	if !ok {
		srcIcon = "📊"
	}
	return FormattedAlert{
		Icon:       icon,
		SourceIcon: srcIcon,
		Title:      a.Title,
		Message:    a.Message,
		Metric:     a.Metric,
		Source:     a.Source,
		Severity:   a.Severity,
	}
}

package models

import (
	"fmt"
	"time"
)

// MetricCategory is the closed set of alertable metric categories. Each
// category carries a fixed comparison direction; direction is never
// configurable.
type MetricCategory string

// Metric category constants.
const (
	CategoryRating            MetricCategory = "rating"
	CategorySentimentNegative MetricCategory = "sentiment_negative"
	CategoryResponseRate      MetricCategory = "response_rate"
	CategoryVolume            MetricCategory = "volume"
	CategoryVolumeDrop        MetricCategory = "volume_drop"
)

// lowerIsWorse holds the fixed comparison direction per category.
var lowerIsWorse = map[MetricCategory]bool{
	CategoryRating:            true,
	CategoryResponseRate:      true,
	CategoryVolume:            true,
	CategorySentimentNegative: false,
	CategoryVolumeDrop:        false,
}

// Valid reports whether the category is a member of the closed set.
func (c MetricCategory) Valid() bool {
	_, ok := lowerIsWorse[c]
	return ok
}

// LowerIsWorse reports the category's fixed comparison direction.
func (c MetricCategory) LowerIsWorse() bool {
	return lowerIsWorse[c]
}

// ThresholdBounds are the critical and warning bounds for one category.
type ThresholdBounds struct {
	Critical float64 `json:"critical"`
	Warning  float64 `json:"warning"`
}

// PerformanceThresholds maps categories to their bounds.
type PerformanceThresholds map[MetricCategory]ThresholdBounds

// Validate rejects unknown categories and bounds inverted against the
// category's comparison direction.
func (t PerformanceThresholds) Validate() error {
	for category, bounds := range t {
		if !category.Valid() {
			return fmt.Errorf("unknown metric category %q", category)
		}
		if category.LowerIsWorse() {
			if bounds.Warning < bounds.Critical {
				return fmt.Errorf("category %q: warning (%.2f) below critical (%.2f) for lower-is-worse metric", category, bounds.Warning, bounds.Critical)
			}
		} else if bounds.Warning > bounds.Critical {
			return fmt.Errorf("category %q: warning (%.2f) above critical (%.2f) for higher-is-worse metric", category, bounds.Warning, bounds.Critical)
		}
	}
	return nil
}

// Classify maps a metric value to the severity it triggers under the given
// bounds, honoring the category's direction. Empty severity means no breach.
func (c MetricCategory) Classify(value float64, bounds ThresholdBounds) string {
	if c.LowerIsWorse() {
		switch {
		case value <= bounds.Critical:
			return SeverityCritical
		case value <= bounds.Warning:
			return SeverityHigh
		}
		return ""
	}
	switch {
	case value >= bounds.Critical:
		return SeverityCritical
	case value >= bounds.Warning:
		return SeverityHigh
	}
	return ""
}

// Alert severity constants.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// ValidSeverities is the set of allowed alert severities.
var ValidSeverities = map[string]bool{
	SeverityCritical: true,
	SeverityHigh:     true,
	SeverityMedium:   true,
	SeverityLow:      true,
}

// AnalysisAlert is a triggered, persisted notice that a metric crossed a
// threshold. Alerts are append-only: they survive until acknowledged and are
// never deleted. Acknowledged only moves false -> true.
type AnalysisAlert struct {
	ID             string         `json:"id" badgerhold:"key"`
	BusinessName   string         `json:"business_name" badgerholdIndex:"BusinessName"`
	Type           MetricCategory `json:"type"`
	Severity       string         `json:"severity"`
	Title          string         `json:"title"`
	Message        string         `json:"message"`
	Value          float64        `json:"value"`     // metric value at trigger time
	Threshold      float64        `json:"threshold"` // bound that was crossed
	TriggeredAt    time.Time      `json:"triggered_at"`
	Acknowledged   bool           `json:"acknowledged"`
	AcknowledgedAt *time.Time     `json:"acknowledged_at,omitempty"`
	EmailSent      bool           `json:"email_sent"`
}

// Notification rule kinds.
const (
	RuleKindThreshold  = "threshold"
	RuleKindTrend      = "trend"
	RuleKindComparison = "comparison"
)

// Notification action constants.
const (
	ActionEmail     = "email"
	ActionDashboard = "dashboard"
)

// NotificationRule configures which actions fire for a triggering condition.
// Rules are external configuration, read by the alert engine.
type NotificationRule struct {
	ID           string   `json:"id" badgerhold:"key"`
	BusinessName string   `json:"business_name" badgerholdIndex:"BusinessName"`
	Kind         string   `json:"kind"` // threshold, trend, comparison
	Enabled      bool     `json:"enabled"`
	Actions      []string `json:"actions"` // ordered, e.g. email, dashboard
}

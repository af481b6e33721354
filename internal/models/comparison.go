package models

import (
	"fmt"
	"time"
)

// Trend direction constants with an epsilon dead-band to avoid noise flips.
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// PeriodData is a labelled date range [Start, End) with the review subset
// whose publication timestamp falls in range.
type PeriodData struct {
	Label   string    `json:"label"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Reviews []Review  `json:"reviews"`
}

// NewPeriodData builds a PeriodData by filtering reviews into [start, end).
// Reviews without a valid timestamp are excluded.
func NewPeriodData(label string, start, end time.Time, reviews []Review) PeriodData {
	period := PeriodData{Label: label, Start: start, End: end}
	for _, r := range reviews {
		if !r.HasValidTimestamp() {
			continue
		}
		if r.PublishedAt.Before(start) || !r.PublishedAt.Before(end) {
			continue
		}
		period.Reviews = append(period.Reviews, r)
	}
	return period
}

// Validate checks the range is well-formed.
func (p PeriodData) Validate() error {
	if !p.Start.Before(p.End) {
		return fmt.Errorf("period %q: start %s is not before end %s", p.Label, p.Start.Format(time.RFC3339), p.End.Format(time.RFC3339))
	}
	return nil
}

// MetricComparison describes one scalar metric across two periods.
type MetricComparison struct {
	Current       float64 `json:"current"`
	Previous      float64 `json:"previous"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Trend         string  `json:"trend"`
}

// ThemeComparison buckets the theme sets of two periods.
type ThemeComparison struct {
	New        []string `json:"new"`
	Removed    []string `json:"removed"`
	Improving  []string `json:"improving"`
	Consistent []string `json:"consistent"`
	Declining  []string `json:"declining"`
}

// ComparisonMetrics is the full output of a period comparison. It is derived,
// recomputed per call, and never persisted.
type ComparisonMetrics struct {
	CurrentLabel      string           `json:"current_label"`
	PreviousLabel     string           `json:"previous_label"`
	ReviewCount       MetricComparison `json:"review_count"`
	AverageRating     MetricComparison `json:"average_rating"`
	ResponseRate      MetricComparison `json:"response_rate"`
	PositiveSentPct   MetricComparison `json:"positive_sentiment_pct"`
	NegativeSentPct   MetricComparison `json:"negative_sentiment_pct"`
	Themes            ThemeComparison  `json:"themes"`
	StaffMentionDelta map[string]int   `json:"staff_mention_delta"` // union of names, absent period counts as 0
}

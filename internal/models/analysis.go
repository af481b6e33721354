package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// AnalysisConfig selects the time window and feature set for one analysis
// invocation. It is supplied per call and never persisted by the engine.
type AnalysisConfig struct {
	PeriodStart      time.Time `json:"period_start,omitempty"` // zero means unbounded
	PeriodEnd        time.Time `json:"period_end,omitempty"`   // zero means unbounded; bounds are [start, end)
	IncludeStaff     bool      `json:"include_staff"`
	IncludeThemes    bool      `json:"include_themes"`
	IncludeActions   bool      `json:"include_actions"`
	ComparisonPeriod string    `json:"comparison_period,omitempty"` // previous_period, previous_year, none
	RecentMonths     int       `json:"recent_months,omitempty"`     // growth-rate window, default 3
}

// AnalysisOption mutates an AnalysisConfig during construction.
type AnalysisOption func(*AnalysisConfig)

// NewAnalysisConfig builds a config covering all time with staff and thematic
// analysis enabled, then applies the given options.
func NewAnalysisConfig(opts ...AnalysisOption) AnalysisConfig {
	cfg := AnalysisConfig{
		IncludeStaff:     true,
		IncludeThemes:    true,
		ComparisonPeriod: "previous_period",
		RecentMonths:     3,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithPeriod restricts analysis to reviews published in [start, end).
func WithPeriod(start, end time.Time) AnalysisOption {
	return func(c *AnalysisConfig) {
		c.PeriodStart = start
		c.PeriodEnd = end
	}
}

// WithStaffAnalysis toggles staff-mention analysis.
func WithStaffAnalysis(enabled bool) AnalysisOption {
	return func(c *AnalysisConfig) { c.IncludeStaff = enabled }
}

// WithThematicAnalysis toggles theme extraction and aggregation.
func WithThematicAnalysis(enabled bool) AnalysisOption {
	return func(c *AnalysisConfig) { c.IncludeThemes = enabled }
}

// WithActionItems toggles action-item generation.
func WithActionItems(enabled bool) AnalysisOption {
	return func(c *AnalysisConfig) { c.IncludeActions = enabled }
}

// WithComparisonPeriod sets the comparison-period selector.
func WithComparisonPeriod(selector string) AnalysisOption {
	return func(c *AnalysisConfig) { c.ComparisonPeriod = selector }
}

// WithRecentMonths sets the growth-rate window in months.
func WithRecentMonths(months int) AnalysisOption {
	return func(c *AnalysisConfig) {
		if months > 0 {
			c.RecentMonths = months
		}
	}
}

// Fingerprint returns a stable digest of the config, used as part of the
// summary cache key.
func (c AnalysisConfig) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "%d|%d|%t|%t|%t|%s|%d",
		c.PeriodStart.UnixNano(), c.PeriodEnd.UnixNano(),
		c.IncludeStaff, c.IncludeThemes, c.IncludeActions,
		c.ComparisonPeriod, c.RecentMonths)
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// AnalysisSummaryData is the aggregate analytics output for one business and
// window. It is recomputed per call and immutable once returned. Health is
// nil until the health scorer fills it in.
type AnalysisSummaryData struct {
	BusinessName string               `json:"business_name"`
	Performance  PerformanceMetrics   `json:"performance"`
	Ratings      RatingAnalysis       `json:"ratings"`
	Responses    ResponseAnalytics    `json:"responses"`
	Sentiment    SentimentAnalysis    `json:"sentiment"`
	Themes       *ThematicAnalysis    `json:"themes,omitempty"` // nil when thematic analysis disabled
	Staff        *StaffInsights       `json:"staff,omitempty"`  // nil when staff analysis disabled
	Operational  OperationalInsights  `json:"operational"`
	ActionItems  []ActionItem         `json:"action_items,omitempty"`
	Health       *BusinessHealthScore `json:"health,omitempty"`
	GeneratedAt  time.Time            `json:"generated_at"`
	PeriodStart  time.Time            `json:"period_start"`
	PeriodEnd    time.Time            `json:"period_end"`
}

// PerformanceMetrics holds review-volume and benchmark metrics.
type PerformanceMetrics struct {
	TotalReviews  int     `json:"total_reviews"`
	AverageRating float64 `json:"average_rating"`
	GrowthRatePct float64 `json:"growth_rate_pct"` // recent window vs equivalent prior window
	IsGrowing     bool    `json:"is_growing"`
	// RatingTrendDelta is the recent-window average rating minus the prior
	// window's, over the same windows as the growth rate.
	RatingTrendDelta float64     `json:"rating_trend_delta"`
	Benchmarks       Benchmarks  `json:"benchmarks"`
	Seasonality      Seasonality `json:"seasonality"`
}

// Benchmarks buckets the review set by rating quality.
type Benchmarks struct {
	ExcellentPct        float64 `json:"excellent_pct"`         // rating >= 4
	GoodPct             float64 `json:"good_pct"`              // rating >= 3
	NeedsImprovementPct float64 `json:"needs_improvement_pct"` // rating <= 2
}

// Seasonality describes review volume across calendar months.
type Seasonality struct {
	MonthCounts map[time.Month]int `json:"month_counts"`
	PeakMonth   time.Month         `json:"peak_month"`
	PeakYear    int                `json:"peak_year"`
	PeakCount   int                `json:"peak_count"`
	Pattern     string             `json:"pattern"` // growing, declining, seasonal, stable
}

// Seasonality pattern constants.
const (
	PatternGrowing   = "growing"
	PatternDeclining = "declining"
	PatternSeasonal  = "seasonal"
	PatternStable    = "stable"
)

// RatingAnalysis breaks the review set down by star rating.
type RatingAnalysis struct {
	Average      float64        `json:"average"`
	Distribution []RatingBucket `json:"distribution"` // index 0 = 1 star .. index 4 = 5 stars
}

// RatingBucket is one star level of the rating distribution.
type RatingBucket struct {
	Stars      int     `json:"stars"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ResponseAnalytics measures owner-response coverage and impact.
type ResponseAnalytics struct {
	ResponseRate   float64         `json:"response_rate"` // 0..100
	RespondedCount int             `json:"responded_count"`
	RateByRating   map[int]float64 `json:"rate_by_rating"`
	// EffectivenessScore estimates whether repeat reviewers rate higher after
	// receiving a response. Heuristic: same-author match only, 0..100, 50 when
	// no evidence either way.
	EffectivenessScore float64 `json:"effectiveness_score"`
}

// SentimentAnalysis tallies pre-supplied sentiment labels.
type SentimentAnalysis struct {
	Counts      map[string]int     `json:"counts"`
	Percentages map[string]float64 `json:"percentages"`
	PositivePct float64            `json:"positive_pct"`
	NegativePct float64            `json:"negative_pct"`
	NeutralPct  float64            `json:"neutral_pct"`
	MixedPct    float64            `json:"mixed_pct"`
}

// ThematicAnalysis aggregates theme tags across the review set.
type ThematicAnalysis struct {
	Themes         []ThemeStat     `json:"themes"` // ordered by mention count desc
	Trending       []string        `json:"trending,omitempty"`
	AttentionAreas []AttentionArea `json:"attention_areas,omitempty"`
}

// ThemeStat is the aggregate for one theme tag.
type ThemeStat struct {
	Name              string  `json:"name"`
	Count             int     `json:"count"`
	AverageRating     float64 `json:"average_rating"`
	DominantSentiment string  `json:"dominant_sentiment"`
	NegativeCount     int     `json:"negative_count"`
}

// AttentionArea flags a theme whose negative-mention share is material.
type AttentionArea struct {
	Theme         string  `json:"theme"`
	NegativeRatio float64 `json:"negative_ratio"` // 0..1
	Count         int     `json:"count"`
	Urgency       string  `json:"urgency"` // high, medium, low
}

// Urgency constants for attention areas.
const (
	UrgencyHigh   = "high"
	UrgencyMedium = "medium"
	UrgencyLow    = "low"
)

// StaffInsights aggregates staff-mention data across the review set.
type StaffInsights struct {
	Members []StaffMemberStat `json:"members"` // ordered by total mentions desc
}

// StaffMemberStat is the aggregate for one mentioned staff member.
type StaffMemberStat struct {
	Name             string   `json:"name"`
	TotalMentions    int      `json:"total_mentions"`
	PositiveMentions int      `json:"positive_mentions"`
	NegativeMentions int      `json:"negative_mentions"`
	AverageRating    float64  `json:"average_rating"`
	Examples         []string `json:"examples,omitempty"` // up to a few snippet excerpts
	Trend            string   `json:"trend"`              // up, down, stable: recent vs older sentiment ratio
}

// OperationalInsights holds volume-pattern and loyalty metrics.
type OperationalInsights struct {
	Language     LanguageDiversity `json:"language"`
	PeakMonth    time.Month        `json:"peak_month"`
	QuietMonth   time.Month        `json:"quiet_month"`
	PeakWeekday  time.Weekday      `json:"peak_weekday"`
	QuietWeekday time.Weekday      `json:"quiet_weekday"`
	// LoyaltyScore scales the repeat-reviewer ratio to 0..100.
	LoyaltyScore      float64 `json:"loyalty_score"`
	RepeatReviewers   int     `json:"repeat_reviewers"`
	DistinctReviewers int     `json:"distinct_reviewers"`
}

// LanguageDiversity buckets reviews by script. This is a documented
// simplification (ASCII test), not real language detection.
type LanguageDiversity struct {
	EnglishCount  int     `json:"english_count"`
	NonLatinCount int     `json:"non_latin_count"`
	NonLatinPct   float64 `json:"non_latin_pct"`
}

// ActionItem is a suggested follow-up derived from attention areas and
// response coverage.
type ActionItem struct {
	Title    string `json:"title"`
	Detail   string `json:"detail"`
	Priority string `json:"priority"` // high, medium, low
}

// BusinessHealthScore is the weighted 0-100 composite of rating, sentiment,
// and response quality.
type BusinessHealthScore struct {
	Overall          int             `json:"overall"` // clamped to [0, 100]
	Breakdown        HealthBreakdown `json:"breakdown"`
	Label            string          `json:"label"`
	RatingTrendDelta float64         `json:"rating_trend_delta"`
	ResponseRate     float64         `json:"response_rate"`
}

// HealthBreakdown holds the per-component sub-scores, each 0..100.
type HealthBreakdown struct {
	Rating    float64 `json:"rating"`
	Sentiment float64 `json:"sentiment"`
	Response  float64 `json:"response"`
}

// HealthWeights are the component weights of the overall health score.
type HealthWeights struct {
	Rating    float64 `json:"rating"`
	Sentiment float64 `json:"sentiment"`
	Response  float64 `json:"response"`
}

// Health label constants.
const (
	HealthLabelExcellent      = "Excellent"
	HealthLabelGood           = "Good"
	HealthLabelNeedsAttention = "Needs Attention"
	HealthLabelCritical       = "Critical"
)

package models

// Pattern strength classification bounds: weak < 0.4, moderate < 0.7, else strong.
const (
	PatternStrengthWeak     = "weak"
	PatternStrengthModerate = "moderate"
	PatternStrengthStrong   = "strong"
)

// BucketCount is one labelled bucket of a temporal distribution.
type BucketCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// BucketPattern is a temporal distribution with its strength classification.
// Strength is the max-share of the distribution normalized against a uniform
// spread, clamped to [0, 1].
type BucketPattern struct {
	Buckets        []BucketCount `json:"buckets"`
	Strength       float64       `json:"strength"`
	Classification string        `json:"classification"` // weak, moderate, strong
}

// TemporalPatterns groups the three bucket distributions.
type TemporalPatterns struct {
	DayOfWeek BucketPattern `json:"day_of_week"`
	TimeOfDay BucketPattern `json:"time_of_day"`
	Monthly   BucketPattern `json:"monthly"`
}

// TrendPoint is one period of a historical metric series.
type TrendPoint struct {
	Period string  `json:"period"` // YYYY-MM
	Value  float64 `json:"value"`
	Count  int     `json:"count"`
}

// ForecastPoint is a one-step-ahead projection with a residual-derived
// confidence in [0, 1].
type ForecastPoint struct {
	Value      float64 `json:"value"`
	Confidence float64 `json:"confidence"`
}

// TrendSeries is a time-ordered metric series plus an optional forecast.
type TrendSeries struct {
	Metric   string         `json:"metric"`
	Points   []TrendPoint   `json:"points"`
	Forecast *ForecastPoint `json:"forecast,omitempty"`
}

// HistoricalTrends holds the per-metric historical series.
type HistoricalTrends struct {
	Rating    TrendSeries `json:"rating"`
	Sentiment TrendSeries `json:"sentiment"` // monthly positive-share, 0..100
}

// TrendReport is the full TrendAnalyzer output.
type TrendReport struct {
	Temporal   TemporalPatterns `json:"temporal"`
	Historical HistoricalTrends `json:"historical"`
	Seasonal   Seasonality      `json:"seasonal"`
}

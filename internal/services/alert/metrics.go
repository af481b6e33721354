package alert

import (
	"fmt"

	"github.com/bobmcallan/revpulse/internal/models"
)

// metricReading is one evaluable metric extracted from a summary.
type metricReading struct {
	category models.MetricCategory
	value    float64
	title    string
	message  func(value, threshold float64) string
}

// metricValues extracts the current value for every alertable category from
// a computed summary. Volume drop is the inverted growth rate, floored at 0.
func metricValues(summary *models.AnalysisSummaryData) []metricReading {
	volumeDrop := 0.0
	if summary.Performance.GrowthRatePct < 0 {
		volumeDrop = -summary.Performance.GrowthRatePct
	}

	return []metricReading{
		{
			category: models.CategoryRating,
			value:    summary.Ratings.Average,
			title:    "Average rating below threshold",
			message: func(v, t float64) string {
				return fmt.Sprintf("Average rating is %.2f stars, at or below the %.2f threshold.", v, t)
			},
		},
		{
			category: models.CategorySentimentNegative,
			value:    summary.Sentiment.NegativePct,
			title:    "Negative sentiment above threshold",
			message: func(v, t float64) string {
				return fmt.Sprintf("Negative sentiment is %.1f%% of reviews, at or above the %.1f%% threshold.", v, t)
			},
		},
		{
			category: models.CategoryResponseRate,
			value:    summary.Responses.ResponseRate,
			title:    "Owner response rate below threshold",
			message: func(v, t float64) string {
				return fmt.Sprintf("Owner response rate is %.1f%%, at or below the %.1f%% threshold.", v, t)
			},
		},
		{
			category: models.CategoryVolume,
			value:    float64(summary.Performance.TotalReviews),
			title:    "Review volume below threshold",
			message: func(v, t float64) string {
				return fmt.Sprintf("Review volume is %.0f reviews, at or below the %.0f threshold.", v, t)
			},
		},
		{
			category: models.CategoryVolumeDrop,
			value:    volumeDrop,
			title:    "Review volume dropping",
			message: func(v, t float64) string {
				return fmt.Sprintf("Review volume dropped %.1f%% versus the prior window, at or above the %.1f%% threshold.", v, t)
			},
		},
	}
}

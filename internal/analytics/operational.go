package analytics

import (
	"time"
	"unicode"

	"github.com/bobmcallan/revpulse/internal/models"
)

// computeOperational builds language diversity, volume-pattern, and loyalty
// metrics. Language bucketing is the documented ASCII heuristic, not real
// language detection.
func computeOperational(windowed, dated []models.Review) models.OperationalInsights {
	insights := models.OperationalInsights{}
	if len(windowed) == 0 {
		return insights
	}

	for _, r := range windowed {
		if containsNonASCII(r.Text) {
			insights.Language.NonLatinCount++
		} else {
			insights.Language.EnglishCount++
		}
	}
	insights.Language.NonLatinPct = float64(insights.Language.NonLatinCount) / float64(len(windowed)) * 100

	if len(dated) > 0 {
		monthCounts := make(map[time.Month]int)
		dayCounts := make(map[time.Weekday]int)
		for _, r := range dated {
			monthCounts[r.PublishedAt.Month()]++
			dayCounts[r.PublishedAt.Weekday()]++
		}
		insights.PeakMonth, insights.QuietMonth = extremeMonths(monthCounts)
		insights.PeakWeekday, insights.QuietWeekday = extremeWeekdays(dayCounts)
	}

	byAuthor := make(map[string]int)
	for _, r := range windowed {
		if r.Author != "" {
			byAuthor[r.Author]++
		}
	}
	insights.DistinctReviewers = len(byAuthor)
	for _, count := range byAuthor {
		if count > 1 {
			insights.RepeatReviewers++
		}
	}
	if insights.DistinctReviewers > 0 {
		insights.LoyaltyScore = float64(insights.RepeatReviewers) / float64(insights.DistinctReviewers) * 100
	}

	return insights
}

func containsNonASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return true
		}
	}
	return false
}

// extremeMonths returns the busiest and quietest months among those that
// appear. Ties resolve to the earlier month for determinism.
func extremeMonths(counts map[time.Month]int) (peak, quiet time.Month) {
	peakCount, quietCount := -1, -1
	for m := time.January; m <= time.December; m++ {
		count, ok := counts[m]
		if !ok {
			continue
		}
		if count > peakCount {
			peakCount = count
			peak = m
		}
		if quietCount == -1 || count < quietCount {
			quietCount = count
			quiet = m
		}
	}
	return peak, quiet
}

func extremeWeekdays(counts map[time.Weekday]int) (peak, quiet time.Weekday) {
	peakCount, quietCount := -1, -1
	for d := time.Sunday; d <= time.Saturday; d++ {
		count, ok := counts[d]
		if !ok {
			continue
		}
		if count > peakCount {
			peakCount = count
			peak = d
		}
		if quietCount == -1 || count < quietCount {
			quietCount = count
			quiet = d
		}
	}
	return peak, quiet
}

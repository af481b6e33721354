package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/bobmcallan/revpulse/internal/models"
)

// growthEpsilonPct is the minimum growth rate treated as real growth.
const growthEpsilonPct = 2.0

// Aggregator reduces a review collection into analysis summary data.
// It is a pure computation with no shared state; one instance may be used
// concurrently for different inputs.
type Aggregator struct{}

// NewAggregator creates a new metrics aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// ComputeSummary reduces the review collection into the full summary for the
// configured window. Empty input returns a well-formed zeroed structure.
// The business-health score is not populated here; that is the scorer's job.
func (a *Aggregator) ComputeSummary(businessName string, reviews []models.Review, cfg models.AnalysisConfig) *models.AnalysisSummaryData {
	windowed, dated := selectWindow(reviews, cfg)

	summary := &models.AnalysisSummaryData{
		BusinessName: businessName,
		GeneratedAt:  time.Now(),
		PeriodStart:  cfg.PeriodStart,
		PeriodEnd:    cfg.PeriodEnd,
	}
	if summary.PeriodStart.IsZero() || summary.PeriodEnd.IsZero() {
		start, end := datedBounds(dated)
		if summary.PeriodStart.IsZero() {
			summary.PeriodStart = start
		}
		if summary.PeriodEnd.IsZero() {
			summary.PeriodEnd = end
		}
	}

	summary.Ratings = computeRatings(windowed)
	summary.Performance = a.computePerformance(windowed, dated, cfg)
	summary.Performance.AverageRating = summary.Ratings.Average
	summary.Sentiment = computeSentiment(windowed)
	summary.Responses = computeResponses(windowed)
	summary.Operational = computeOperational(windowed, dated)

	if cfg.IncludeThemes {
		summary.Themes = computeThemes(windowed, dated, cfg)
	}
	if cfg.IncludeStaff {
		summary.Staff = computeStaff(windowed)
	}
	if cfg.IncludeActions {
		summary.ActionItems = deriveActionItems(summary)
	}

	return summary
}

// selectWindow applies the configured period to the review set. Reviews with
// invalid timestamps are excluded from time-bucketed metrics (the dated
// subset) but retained for cross-sectional counts (the windowed set).
func selectWindow(reviews []models.Review, cfg models.AnalysisConfig) (windowed, dated []models.Review) {
	for _, r := range reviews {
		if !r.HasValidTimestamp() {
			windowed = append(windowed, r)
			continue
		}
		if !cfg.PeriodStart.IsZero() && r.PublishedAt.Before(cfg.PeriodStart) {
			continue
		}
		if !cfg.PeriodEnd.IsZero() && !r.PublishedAt.Before(cfg.PeriodEnd) {
			continue
		}
		windowed = append(windowed, r)
		dated = append(dated, r)
	}
	sort.Slice(dated, func(i, j int) bool { return dated[i].PublishedAt.Before(dated[j].PublishedAt) })
	return windowed, dated
}

// datedBounds returns the [earliest, latest+1ns) bounds of the dated subset.
func datedBounds(dated []models.Review) (time.Time, time.Time) {
	if len(dated) == 0 {
		return time.Time{}, time.Time{}
	}
	return dated[0].PublishedAt, dated[len(dated)-1].PublishedAt.Add(time.Nanosecond)
}

// computeRatings builds the star distribution and average. Percentages sum to
// 100 within floating rounding for any non-empty input.
func computeRatings(reviews []models.Review) models.RatingAnalysis {
	analysis := models.RatingAnalysis{
		Distribution: make([]models.RatingBucket, 5),
	}
	for i := range analysis.Distribution {
		analysis.Distribution[i].Stars = i + 1
	}

	total := 0
	sum := 0
	for _, r := range reviews {
		if r.Rating < 1 || r.Rating > 5 {
			continue
		}
		analysis.Distribution[r.Rating-1].Count++
		sum += r.Rating
		total++
	}
	if total == 0 {
		return analysis
	}

	analysis.Average = float64(sum) / float64(total)
	for i := range analysis.Distribution {
		analysis.Distribution[i].Percentage = float64(analysis.Distribution[i].Count) / float64(total) * 100
	}
	return analysis
}

// computePerformance builds volume, benchmark, growth, and seasonality
// metrics. Growth compares the most recent N months against the equivalent
// prior window, anchored at the window end (or latest review).
func (a *Aggregator) computePerformance(windowed, dated []models.Review, cfg models.AnalysisConfig) models.PerformanceMetrics {
	perf := models.PerformanceMetrics{
		TotalReviews: len(windowed),
	}

	if len(windowed) > 0 {
		rated := 0
		excellent, good, poor := 0, 0, 0
		for _, r := range windowed {
			if r.Rating < 1 || r.Rating > 5 {
				continue
			}
			rated++
			if r.Rating >= 4 {
				excellent++
			}
			if r.Rating >= 3 {
				good++
			}
			if r.Rating <= 2 {
				poor++
			}
		}
		if rated > 0 {
			perf.Benchmarks = models.Benchmarks{
				ExcellentPct:        float64(excellent) / float64(rated) * 100,
				GoodPct:             float64(good) / float64(rated) * 100,
				NeedsImprovementPct: float64(poor) / float64(rated) * 100,
			}
		}
	}

	if len(dated) == 0 {
		return perf
	}

	months := cfg.RecentMonths
	if months <= 0 {
		months = 3
	}
	anchor := cfg.PeriodEnd
	if anchor.IsZero() {
		anchor = dated[len(dated)-1].PublishedAt.Add(time.Nanosecond)
	}
	recentStart := anchor.AddDate(0, -months, 0)
	priorStart := anchor.AddDate(0, -2*months, 0)

	var recentCount, priorCount int
	var recentRatingSum, priorRatingSum int
	var recentRated, priorRated int
	for _, r := range dated {
		switch {
		case !r.PublishedAt.Before(recentStart) && r.PublishedAt.Before(anchor):
			recentCount++
			if r.Rating >= 1 && r.Rating <= 5 {
				recentRatingSum += r.Rating
				recentRated++
			}
		case !r.PublishedAt.Before(priorStart) && r.PublishedAt.Before(recentStart):
			priorCount++
			if r.Rating >= 1 && r.Rating <= 5 {
				priorRatingSum += r.Rating
				priorRated++
			}
		}
	}

	perf.GrowthRatePct = float64(recentCount-priorCount) / math.Max(float64(priorCount), 1) * 100
	perf.IsGrowing = perf.GrowthRatePct > growthEpsilonPct

	if recentRated > 0 && priorRated > 0 {
		perf.RatingTrendDelta = float64(recentRatingSum)/float64(recentRated) - float64(priorRatingSum)/float64(priorRated)
	}

	perf.Seasonality = computeSeasonality(dated)
	return perf
}

// computeSeasonality buckets review counts by calendar month across all
// years and classifies the volume pattern.
func computeSeasonality(dated []models.Review) models.Seasonality {
	seasonality := models.Seasonality{
		MonthCounts: make(map[time.Month]int),
	}
	if len(dated) == 0 {
		seasonality.Pattern = models.PatternStable
		return seasonality
	}

	perBucket := make(map[yearMonth]int)
	for _, r := range dated {
		seasonality.MonthCounts[r.PublishedAt.Month()]++
		perBucket[yearMonth{r.PublishedAt.Year(), r.PublishedAt.Month()}]++
	}

	// Peak = the (year, month) bucket with the highest count.
	buckets := make([]yearMonth, 0, len(perBucket))
	for b := range perBucket {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].year != buckets[j].year {
			return buckets[i].year < buckets[j].year
		}
		return buckets[i].month < buckets[j].month
	})
	for _, b := range buckets {
		if perBucket[b] > seasonality.PeakCount {
			seasonality.PeakCount = perBucket[b]
			seasonality.PeakMonth = b.month
			seasonality.PeakYear = b.year
		}
	}

	seasonality.Pattern = classifyVolumePattern(buckets, perBucket)
	return seasonality
}

// yearMonth identifies one calendar-month bucket.
type yearMonth struct {
	year  int
	month time.Month
}

// classifyVolumePattern inspects the sign and variance of chronological
// month-over-month deltas.
func classifyVolumePattern(ordered []yearMonth, counts map[yearMonth]int) string {
	if len(ordered) < 2 {
		return models.PatternStable
	}

	deltas := make([]float64, 0, len(ordered)-1)
	meanCount := 0.0
	for _, b := range ordered {
		meanCount += float64(counts[b])
	}
	meanCount /= float64(len(ordered))

	for i := 1; i < len(ordered); i++ {
		deltas = append(deltas, float64(counts[ordered[i]]-counts[ordered[i-1]]))
	}

	meanDelta := 0.0
	for _, d := range deltas {
		meanDelta += d
	}
	meanDelta /= float64(len(deltas))

	variance := 0.0
	for _, d := range deltas {
		variance += (d - meanDelta) * (d - meanDelta)
	}
	variance /= float64(len(deltas))

	// Thresholds are relative to the mean monthly volume so the
	// classification is scale free.
	eps := math.Max(meanCount*0.1, 0.5)
	switch {
	case meanDelta > eps:
		return models.PatternGrowing
	case meanDelta < -eps:
		return models.PatternDeclining
	case math.Sqrt(variance) > meanCount*0.75:
		return models.PatternSeasonal
	}
	return models.PatternStable
}

// deriveActionItems produces follow-ups from attention areas and response
// coverage.
func deriveActionItems(summary *models.AnalysisSummaryData) []models.ActionItem {
	var items []models.ActionItem

	if summary.Themes != nil {
		for _, area := range summary.Themes.AttentionAreas {
			if area.Urgency == models.UrgencyLow {
				continue
			}
			items = append(items, models.ActionItem{
				Title:    "Address recurring complaints about " + area.Theme,
				Detail:   "Negative mentions make up a material share of feedback on this theme.",
				Priority: area.Urgency,
			})
		}
	}

	if summary.Performance.TotalReviews > 0 && summary.Responses.ResponseRate < 40 {
		items = append(items, models.ActionItem{
			Title:    "Respond to more reviews",
			Detail:   "Less than 40% of reviews have an owner response.",
			Priority: models.UrgencyMedium,
		})
	}

	return items
}

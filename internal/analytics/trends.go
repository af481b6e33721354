package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/bobmcallan/revpulse/internal/models"
)

// forecastWindow is the number of trailing points the forecast is fit over.
const forecastWindow = 6

// minForecastPoints is the minimum series length for a forecast.
const minForecastPoints = 3

// TrendAnalyzer buckets raw reviews by day-of-week, time-of-day, and month to
// detect temporal patterns and produce simple forecasts. Pure computation.
type TrendAnalyzer struct{}

// NewTrendAnalyzer creates a new trend analyzer.
func NewTrendAnalyzer() *TrendAnalyzer {
	return &TrendAnalyzer{}
}

// AnalyzeTrends produces the temporal, historical, and seasonal report for a
// review set. Reviews without valid timestamps are ignored.
func (t *TrendAnalyzer) AnalyzeTrends(reviews []models.Review) *models.TrendReport {
	dated := make([]models.Review, 0, len(reviews))
	for _, r := range reviews {
		if r.HasValidTimestamp() {
			dated = append(dated, r)
		}
	}
	sort.Slice(dated, func(i, j int) bool { return dated[i].PublishedAt.Before(dated[j].PublishedAt) })

	return &models.TrendReport{
		Temporal: models.TemporalPatterns{
			DayOfWeek: dayOfWeekPattern(dated),
			TimeOfDay: timeOfDayPattern(dated),
			Monthly:   monthlyPattern(dated),
		},
		Historical: models.HistoricalTrends{
			Rating:    ratingSeries(dated),
			Sentiment: sentimentSeries(dated),
		},
		Seasonal: computeSeasonality(dated),
	}
}

func dayOfWeekPattern(dated []models.Review) models.BucketPattern {
	labels := []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	counts := make([]int, 7)
	for _, r := range dated {
		counts[int(r.PublishedAt.Weekday())]++
	}
	return buildPattern(labels, counts)
}

// timeOfDay buckets: morning 05-11, afternoon 12-16, evening 17-21, night 22-04.
func timeOfDayPattern(dated []models.Review) models.BucketPattern {
	labels := []string{"morning", "afternoon", "evening", "night"}
	counts := make([]int, 4)
	for _, r := range dated {
		switch hour := r.PublishedAt.Hour(); {
		case hour >= 5 && hour <= 11:
			counts[0]++
		case hour >= 12 && hour <= 16:
			counts[1]++
		case hour >= 17 && hour <= 21:
			counts[2]++
		default:
			counts[3]++
		}
	}
	return buildPattern(labels, counts)
}

func monthlyPattern(dated []models.Review) models.BucketPattern {
	labels := make([]string, 12)
	counts := make([]int, 12)
	for m := time.January; m <= time.December; m++ {
		labels[int(m)-1] = m.String()
	}
	for _, r := range dated {
		counts[int(r.PublishedAt.Month())-1]++
	}
	return buildPattern(labels, counts)
}

// buildPattern computes the strength as the max-share of the distribution
// normalized against a uniform spread, clamped to [0, 1].
func buildPattern(labels []string, counts []int) models.BucketPattern {
	pattern := models.BucketPattern{
		Buckets:        make([]models.BucketCount, len(labels)),
		Classification: models.PatternStrengthWeak,
	}
	total := 0
	maxCount := 0
	for i, c := range counts {
		pattern.Buckets[i] = models.BucketCount{Label: labels[i], Count: c}
		total += c
		if c > maxCount {
			maxCount = c
		}
	}
	if total == 0 {
		return pattern
	}

	uniform := 1.0 / float64(len(counts))
	maxShare := float64(maxCount) / float64(total)
	pattern.Strength = clamp((maxShare-uniform)/(1-uniform), 0, 1)
	pattern.Classification = classifyStrength(pattern.Strength)
	return pattern
}

func classifyStrength(strength float64) string {
	switch {
	case strength < 0.4:
		return models.PatternStrengthWeak
	case strength < 0.7:
		return models.PatternStrengthModerate
	}
	return models.PatternStrengthStrong
}

// ratingSeries builds the month-by-month average rating series with a
// one-step-ahead forecast.
func ratingSeries(dated []models.Review) models.TrendSeries {
	series := models.TrendSeries{Metric: "rating"}
	type acc struct {
		sum   int
		rated int
		count int
	}
	monthly := make(map[string]*acc)
	for _, r := range dated {
		key := r.PublishedAt.Format("2006-01")
		a, ok := monthly[key]
		if !ok {
			a = &acc{}
			monthly[key] = a
		}
		a.count++
		if r.Rating >= 1 && r.Rating <= 5 {
			a.sum += r.Rating
			a.rated++
		}
	}

	keys := sortedKeys(monthly)
	for _, key := range keys {
		a := monthly[key]
		point := models.TrendPoint{Period: key, Count: a.count}
		if a.rated > 0 {
			point.Value = float64(a.sum) / float64(a.rated)
		}
		series.Points = append(series.Points, point)
	}
	series.Forecast = forecastNext(series.Points, 1, 5)
	return series
}

// sentimentSeries builds the month-by-month positive-share series (0-100).
func sentimentSeries(dated []models.Review) models.TrendSeries {
	series := models.TrendSeries{Metric: "sentiment"}
	type acc struct {
		positive int
		count    int
	}
	monthly := make(map[string]*acc)
	for _, r := range dated {
		key := r.PublishedAt.Format("2006-01")
		a, ok := monthly[key]
		if !ok {
			a = &acc{}
			monthly[key] = a
		}
		a.count++
		if models.NormalizeSentiment(r.Sentiment) == models.SentimentPositive {
			a.positive++
		}
	}

	keys := sortedKeys(monthly)
	for _, key := range keys {
		a := monthly[key]
		series.Points = append(series.Points, models.TrendPoint{
			Period: key,
			Value:  float64(a.positive) / float64(a.count) * 100,
			Count:  a.count,
		})
	}
	series.Forecast = forecastNext(series.Points, 0, 100)
	return series
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// forecastNext fits a least-squares line over the trailing window and
// projects one step ahead. Confidence is derived from residual variance:
// lower residual means higher confidence, clamped to [0, 1]. The projected
// value is clamped to [lo, hi].
func forecastNext(points []models.TrendPoint, lo, hi float64) *models.ForecastPoint {
	if len(points) < minForecastPoints {
		return nil
	}
	window := points
	if len(window) > forecastWindow {
		window = window[len(window)-forecastWindow:]
	}

	n := float64(len(window))
	var sumX, sumY, sumXY, sumXX float64
	for i, p := range window {
		x := float64(i)
		sumX += x
		sumY += p.Value
		sumXY += x * p.Value
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if math.Abs(denom) < denominatorEpsilon {
		return nil
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	var residualSS float64
	for i, p := range window {
		fitted := intercept + slope*float64(i)
		residualSS += (p.Value - fitted) * (p.Value - fitted)
	}
	residualStd := math.Sqrt(residualSS / n)

	// Normalize residual spread against the value scale of the window.
	scale := math.Max(math.Abs(hi-lo), denominatorEpsilon)
	confidence := clamp(1-residualStd/(scale*0.25), 0, 1)

	next := intercept + slope*n
	return &models.ForecastPoint{
		Value:      clamp(next, lo, hi),
		Confidence: confidence,
	}
}

package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/bobmcallan/revpulse/internal/models"
)

// Epsilon dead-bands for trend classification.
const (
	trendEpsilonPct    = 2.0  // |changePercent| below this is stable
	trendEpsilonPoints = 2.0  // |change| below this is stable, for percentage-point metrics
	denominatorEpsilon = 1e-9 // guards division by zero
	themeShareEpsilon  = 2.0  // percentage points
	themeRatingEpsilon = 0.2  // stars
)

// periodAggregate is the scalar and set summary of one period.
type periodAggregate struct {
	count        int
	avgRating    float64
	responseRate float64
	positivePct  float64
	negativePct  float64
	themes       map[string]themePeriodStat
	staff        map[string]staffPeriodStat
}

type themePeriodStat struct {
	display   string
	sharePct  float64
	avgRating float64
}

type staffPeriodStat struct {
	display  string
	mentions int
}

// ComparePeriods runs the comparison algorithm over two disjoint periods.
// Comparing (A, B) then (B, A) yields negated change values and swapped
// new/removed theme sets.
func ComparePeriods(current, previous models.PeriodData) (*models.ComparisonMetrics, error) {
	if err := current.Validate(); err != nil {
		return nil, err
	}
	if err := previous.Validate(); err != nil {
		return nil, err
	}
	if current.Start.Before(previous.End) && previous.Start.Before(current.End) {
		return nil, fmt.Errorf("periods %q and %q overlap", current.Label, previous.Label)
	}

	cur := aggregatePeriod(current)
	prev := aggregatePeriod(previous)

	metrics := &models.ComparisonMetrics{
		CurrentLabel:    current.Label,
		PreviousLabel:   previous.Label,
		ReviewCount:     compareScalar(float64(cur.count), float64(prev.count), false),
		AverageRating:   compareScalar(cur.avgRating, prev.avgRating, false),
		ResponseRate:    compareScalar(cur.responseRate, prev.responseRate, true),
		PositiveSentPct: compareScalar(cur.positivePct, prev.positivePct, true),
		NegativeSentPct: compareScalar(cur.negativePct, prev.negativePct, true),
		Themes:          compareThemes(cur.themes, prev.themes),
	}

	metrics.StaffMentionDelta = make(map[string]int)
	for key, stat := range cur.staff {
		delta := stat.mentions
		if prevStat, ok := prev.staff[key]; ok {
			delta -= prevStat.mentions
		}
		metrics.StaffMentionDelta[stat.display] = delta
	}
	for key, stat := range prev.staff {
		if _, ok := cur.staff[key]; !ok {
			metrics.StaffMentionDelta[stat.display] = -stat.mentions
		}
	}

	return metrics, nil
}

func aggregatePeriod(period models.PeriodData) periodAggregate {
	agg := periodAggregate{
		count:  len(period.Reviews),
		themes: make(map[string]themePeriodStat),
		staff:  make(map[string]staffPeriodStat),
	}
	if agg.count == 0 {
		return agg
	}

	ratingSum, rated := 0, 0
	responded := 0
	positive, negative := 0, 0
	type themeAcc struct {
		display    string
		count      int
		ratingSum  int
		ratedCount int
	}
	themeAccs := make(map[string]*themeAcc)

	for _, r := range period.Reviews {
		if r.Rating >= 1 && r.Rating <= 5 {
			ratingSum += r.Rating
			rated++
		}
		if r.HasOwnerResponse() {
			responded++
		}
		switch models.NormalizeSentiment(r.Sentiment) {
		case models.SentimentPositive:
			positive++
		case models.SentimentNegative:
			negative++
		}
		for _, token := range Tokenize(r.Themes) {
			key := tokenKey(token)
			acc, ok := themeAccs[key]
			if !ok {
				acc = &themeAcc{display: token}
				themeAccs[key] = acc
			}
			acc.count++
			if r.Rating >= 1 && r.Rating <= 5 {
				acc.ratingSum += r.Rating
				acc.ratedCount++
			}
		}
		for _, token := range Tokenize(r.StaffMentions) {
			key := tokenKey(token)
			stat := agg.staff[key]
			stat.display = token
			stat.mentions++
			agg.staff[key] = stat
		}
	}

	if rated > 0 {
		agg.avgRating = float64(ratingSum) / float64(rated)
	}
	total := float64(agg.count)
	agg.responseRate = float64(responded) / total * 100
	agg.positivePct = float64(positive) / total * 100
	agg.negativePct = float64(negative) / total * 100

	for key, acc := range themeAccs {
		stat := themePeriodStat{
			display:  acc.display,
			sharePct: float64(acc.count) / total * 100,
		}
		if acc.ratedCount > 0 {
			stat.avgRating = float64(acc.ratingSum) / float64(acc.ratedCount)
		}
		agg.themes[key] = stat
	}
	return agg
}

// compareScalar computes change, changePercent, and the trend direction.
// Percentage-point metrics use the absolute change for the dead-band; others
// use the relative change.
func compareScalar(current, previous float64, percentagePoints bool) models.MetricComparison {
	change := current - previous
	changePercent := change / math.Max(math.Abs(previous), denominatorEpsilon) * 100

	trend := models.TrendStable
	if percentagePoints {
		if math.Abs(change) >= trendEpsilonPoints {
			trend = direction(change)
		}
	} else if math.Abs(changePercent) >= trendEpsilonPct {
		trend = direction(change)
	}

	return models.MetricComparison{
		Current:       current,
		Previous:      previous,
		Change:        change,
		ChangePercent: changePercent,
		Trend:         trend,
	}
}

func direction(change float64) string {
	if change > 0 {
		return models.TrendUp
	}
	return models.TrendDown
}

// compareThemes buckets the theme sets of the two periods. Share movement is
// the primary classifier for the intersection; average rating breaks the
// within-epsilon cases.
func compareThemes(current, previous map[string]themePeriodStat) models.ThemeComparison {
	cmp := models.ThemeComparison{
		New:        []string{},
		Removed:    []string{},
		Improving:  []string{},
		Consistent: []string{},
		Declining:  []string{},
	}

	for key, stat := range current {
		prevStat, ok := previous[key]
		if !ok {
			cmp.New = append(cmp.New, stat.display)
			continue
		}
		shareDelta := stat.sharePct - prevStat.sharePct
		ratingDelta := stat.avgRating - prevStat.avgRating
		switch {
		case shareDelta > themeShareEpsilon:
			cmp.Improving = append(cmp.Improving, stat.display)
		case shareDelta < -themeShareEpsilon:
			cmp.Declining = append(cmp.Declining, stat.display)
		case ratingDelta > themeRatingEpsilon:
			cmp.Improving = append(cmp.Improving, stat.display)
		case ratingDelta < -themeRatingEpsilon:
			cmp.Declining = append(cmp.Declining, stat.display)
		default:
			cmp.Consistent = append(cmp.Consistent, stat.display)
		}
	}
	for key, stat := range previous {
		if _, ok := current[key]; !ok {
			cmp.Removed = append(cmp.Removed, stat.display)
		}
	}

	sort.Strings(cmp.New)
	sort.Strings(cmp.Removed)
	sort.Strings(cmp.Improving)
	sort.Strings(cmp.Consistent)
	sort.Strings(cmp.Declining)
	return cmp
}

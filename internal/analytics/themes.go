package analytics

import (
	"sort"
	"time"

	"github.com/bobmcallan/revpulse/internal/models"
)

// attentionNegativeRatio is the negative-mention share above which a theme
// becomes an attention area.
const attentionNegativeRatio = 0.3

// trendingShareGainPct is the frequency-share gain (percentage points) that
// marks a theme as trending.
const trendingShareGainPct = 5.0

type themeAccumulator struct {
	display       string
	count         int
	ratingSum     int
	ratedCount    int
	sentiment     map[string]int
	negativeCount int
}

// computeThemes aggregates theme tags: frequency, per-theme average rating,
// dominant sentiment, trending themes, and attention areas.
func computeThemes(windowed, dated []models.Review, cfg models.AnalysisConfig) *models.ThematicAnalysis {
	analysis := &models.ThematicAnalysis{}
	if len(windowed) == 0 {
		return analysis
	}

	accumulators := make(map[string]*themeAccumulator)
	for _, r := range windowed {
		sentiment := models.NormalizeSentiment(r.Sentiment)
		for _, token := range Tokenize(r.Themes) {
			key := tokenKey(token)
			acc, ok := accumulators[key]
			if !ok {
				acc = &themeAccumulator{display: token, sentiment: make(map[string]int)}
				accumulators[key] = acc
			}
			acc.count++
			acc.sentiment[sentiment]++
			if sentiment == models.SentimentNegative {
				acc.negativeCount++
			}
			if r.Rating >= 1 && r.Rating <= 5 {
				acc.ratingSum += r.Rating
				acc.ratedCount++
			}
		}
	}

	for _, acc := range accumulators {
		stat := models.ThemeStat{
			Name:              acc.display,
			Count:             acc.count,
			DominantSentiment: dominantSentiment(acc.sentiment),
			NegativeCount:     acc.negativeCount,
		}
		if acc.ratedCount > 0 {
			stat.AverageRating = float64(acc.ratingSum) / float64(acc.ratedCount)
		}
		analysis.Themes = append(analysis.Themes, stat)
	}
	sort.Slice(analysis.Themes, func(i, j int) bool {
		if analysis.Themes[i].Count != analysis.Themes[j].Count {
			return analysis.Themes[i].Count > analysis.Themes[j].Count
		}
		return analysis.Themes[i].Name < analysis.Themes[j].Name
	})

	analysis.Trending = trendingThemes(dated, cfg)
	analysis.AttentionAreas = attentionAreas(analysis.Themes)
	return analysis
}

// dominantSentiment returns the most frequent label, ties resolving negative
// over positive over neutral so problem signals are not masked.
func dominantSentiment(counts map[string]int) string {
	order := []string{
		models.SentimentNegative,
		models.SentimentPositive,
		models.SentimentMixed,
		models.SentimentNeutral,
	}
	best := models.SentimentNeutral
	bestCount := -1
	for _, label := range order {
		if counts[label] > bestCount {
			bestCount = counts[label]
			best = label
		}
	}
	return best
}

// trendingThemes finds themes whose recent-window frequency share grew
// materially versus the prior window.
func trendingThemes(dated []models.Review, cfg models.AnalysisConfig) []string {
	if len(dated) == 0 {
		return nil
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

	recentCounts := make(map[string]int)
	priorCounts := make(map[string]int)
	display := make(map[string]string)
	recentTotal, priorTotal := 0, 0
	for _, r := range dated {
		var counts map[string]int
		switch {
		case !r.PublishedAt.Before(recentStart) && r.PublishedAt.Before(anchor):
			counts = recentCounts
			recentTotal++
		case !r.PublishedAt.Before(priorStart) && r.PublishedAt.Before(recentStart):
			counts = priorCounts
			priorTotal++
		default:
			continue
		}
		for _, token := range Tokenize(r.Themes) {
			key := tokenKey(token)
			counts[key]++
			if _, ok := display[key]; !ok {
				display[key] = token
			}
		}
	}
	if recentTotal == 0 {
		return nil
	}

	var trending []string
	for key, recent := range recentCounts {
		if recent < 2 {
			continue
		}
		recentShare := float64(recent) / float64(recentTotal) * 100
		priorShare := 0.0
		if priorTotal > 0 {
			priorShare = float64(priorCounts[key]) / float64(priorTotal) * 100
		}
		if recentShare-priorShare > trendingShareGainPct {
			trending = append(trending, display[key])
		}
	}
	sort.Strings(trending)
	return trending
}

// attentionAreas flags themes whose negative-mention count exceeds the fixed
// fraction of total mentions, ranked by urgency.
func attentionAreas(themes []models.ThemeStat) []models.AttentionArea {
	var areas []models.AttentionArea
	for _, theme := range themes {
		if theme.Count == 0 {
			continue
		}
		ratio := float64(theme.NegativeCount) / float64(theme.Count)
		if ratio <= attentionNegativeRatio {
			continue
		}
		areas = append(areas, models.AttentionArea{
			Theme:         theme.Name,
			NegativeRatio: ratio,
			Count:         theme.Count,
			Urgency:       classifyUrgency(ratio, theme.Count),
		})
	}
	sort.Slice(areas, func(i, j int) bool {
		ui, uj := urgencyRank(areas[i].Urgency), urgencyRank(areas[j].Urgency)
		if ui != uj {
			return ui > uj
		}
		if areas[i].Count != areas[j].Count {
			return areas[i].Count > areas[j].Count
		}
		return areas[i].Theme < areas[j].Theme
	})
	return areas
}

func classifyUrgency(negativeRatio float64, count int) string {
	switch {
	case negativeRatio >= 0.6 || (negativeRatio >= 0.4 && count >= 5):
		return models.UrgencyHigh
	case negativeRatio >= 0.4 || count >= 10:
		return models.UrgencyMedium
	}
	return models.UrgencyLow
}

func urgencyRank(urgency string) int {
	switch urgency {
	case models.UrgencyHigh:
		return 3
	case models.UrgencyMedium:
		return 2
	case models.UrgencyLow:
		return 1
	}
	return 0
}

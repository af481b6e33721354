package analytics

import (
	"sort"

	"github.com/bobmcallan/revpulse/internal/models"
)

// maxStaffExamples caps the example snippets kept per staff member.
const maxStaffExamples = 3

// maxSnippetLen truncates example snippets.
const maxSnippetLen = 120

type staffAccumulator struct {
	display    string
	mentions   []models.Review
	ratingSum  int
	ratedCount int
	positive   int
	negative   int
	examples   []string
}

// computeStaff aggregates staff-mention data. Mention sign is derived from
// the mentioning review's sentiment label.
func computeStaff(windowed []models.Review) *models.StaffInsights {
	insights := &models.StaffInsights{}
	if len(windowed) == 0 {
		return insights
	}

	accumulators := make(map[string]*staffAccumulator)
	for _, r := range windowed {
		sentiment := models.NormalizeSentiment(r.Sentiment)
		for _, token := range Tokenize(r.StaffMentions) {
			key := tokenKey(token)
			acc, ok := accumulators[key]
			if !ok {
				acc = &staffAccumulator{display: token}
				accumulators[key] = acc
			}
			acc.mentions = append(acc.mentions, r)
			switch sentiment {
			case models.SentimentPositive:
				acc.positive++
			case models.SentimentNegative:
				acc.negative++
			}
			if r.Rating >= 1 && r.Rating <= 5 {
				acc.ratingSum += r.Rating
				acc.ratedCount++
			}
			if len(acc.examples) < maxStaffExamples && r.Text != "" {
				acc.examples = append(acc.examples, snippet(r.Text))
			}
		}
	}

	for _, acc := range accumulators {
		stat := models.StaffMemberStat{
			Name:             acc.display,
			TotalMentions:    len(acc.mentions),
			PositiveMentions: acc.positive,
			NegativeMentions: acc.negative,
			Examples:         acc.examples,
			Trend:            staffTrend(acc.mentions),
		}
		if acc.ratedCount > 0 {
			stat.AverageRating = float64(acc.ratingSum) / float64(acc.ratedCount)
		}
		insights.Members = append(insights.Members, stat)
	}
	sort.Slice(insights.Members, func(i, j int) bool {
		if insights.Members[i].TotalMentions != insights.Members[j].TotalMentions {
			return insights.Members[i].TotalMentions > insights.Members[j].TotalMentions
		}
		return insights.Members[i].Name < insights.Members[j].Name
	})
	return insights
}

// staffTrend compares the positive-mention ratio of the more recent half of
// mentions against the older half.
func staffTrend(mentions []models.Review) string {
	dated := make([]models.Review, 0, len(mentions))
	for _, m := range mentions {
		if m.HasValidTimestamp() {
			dated = append(dated, m)
		}
	}
	if len(dated) < 4 {
		return models.TrendStable
	}
	sort.Slice(dated, func(i, j int) bool { return dated[i].PublishedAt.Before(dated[j].PublishedAt) })

	mid := len(dated) / 2
	older, recent := dated[:mid], dated[mid:]

	diff := positiveRatio(recent) - positiveRatio(older)
	switch {
	case diff > 0.1:
		return models.TrendUp
	case diff < -0.1:
		return models.TrendDown
	}
	return models.TrendStable
}

func positiveRatio(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	positive := 0
	for _, r := range reviews {
		if models.NormalizeSentiment(r.Sentiment) == models.SentimentPositive {
			positive++
		}
	}
	return float64(positive) / float64(len(reviews))
}

func snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= maxSnippetLen {
		return text
	}
	return string(runes[:maxSnippetLen]) + "…"
}

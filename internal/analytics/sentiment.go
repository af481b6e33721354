package analytics

import (
	"strings"

	"github.com/bobmcallan/revpulse/internal/models"
)

// computeSentiment tallies the pre-supplied sentiment labels. Reviews with an
// absent or unknown label fall into the neutral bucket.
func computeSentiment(reviews []models.Review) models.SentimentAnalysis {
	analysis := models.SentimentAnalysis{
		Counts:      make(map[string]int),
		Percentages: make(map[string]float64),
	}
	if len(reviews) == 0 {
		return analysis
	}

	for _, r := range reviews {
		analysis.Counts[models.NormalizeSentiment(r.Sentiment)]++
	}

	total := float64(len(reviews))
	for label, count := range analysis.Counts {
		analysis.Percentages[label] = float64(count) / total * 100
	}
	analysis.PositivePct = analysis.Percentages[models.SentimentPositive]
	analysis.NegativePct = analysis.Percentages[models.SentimentNegative]
	analysis.NeutralPct = analysis.Percentages[models.SentimentNeutral]
	analysis.MixedPct = analysis.Percentages[models.SentimentMixed]
	return analysis
}

var positiveWords = []string{
	"good", "great", "excellent", "love", "awesome", "fantastic",
	"friendly", "helpful", "delicious", "amazing", "perfect", "recommend",
}

var negativeWords = []string{
	"bad", "terrible", "awful", "hate", "rude", "dirty",
	"slow", "cold", "disappointing", "worst", "problem", "never again",
}

// ClassifyText assigns a sentiment label from keyword tallies. This is the
// ingestion-time fallback for reviews arriving without a pre-computed label;
// the analytics engine itself treats sentiment as supplied input.
func ClassifyText(text string) string {
	content := strings.ToLower(text)

	positiveCount := 0
	negativeCount := 0
	for _, word := range positiveWords {
		if strings.Contains(content, word) {
			positiveCount++
		}
	}
	for _, word := range negativeWords {
		if strings.Contains(content, word) {
			negativeCount++
		}
	}

	switch {
	case positiveCount > 0 && negativeCount > 0:
		return models.SentimentMixed
	case positiveCount > negativeCount:
		return models.SentimentPositive
	case negativeCount > positiveCount:
		return models.SentimentNegative
	}
	return models.SentimentNeutral
}

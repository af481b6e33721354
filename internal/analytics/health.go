package analytics

import (
	"math"

	"github.com/bobmcallan/revpulse/internal/models"
)

// negativePenaltyFactor scales the negative-sentiment penalty applied to the
// sentiment sub-score.
const negativePenaltyFactor = 0.5

// Scorer combines aggregator output into a business health score. It is a
// deterministic pure function of the summary; no side effects.
type Scorer struct {
	weights models.HealthWeights
}

// NewScorer creates a scorer with the given weights. Weights that do not sum
// to 1 are normalized; a non-positive total falls back to 0.4/0.3/0.3.
func NewScorer(weights models.HealthWeights) *Scorer {
	sum := weights.Rating + weights.Sentiment + weights.Response
	if sum <= 0 {
		weights = models.HealthWeights{Rating: 0.4, Sentiment: 0.3, Response: 0.3}
	} else if math.Abs(sum-1) > 1e-9 {
		weights.Rating /= sum
		weights.Sentiment /= sum
		weights.Response /= sum
	}
	return &Scorer{weights: weights}
}

// ScoreHealth computes the weighted 0-100 composite with its breakdown and
// qualitative label.
func (s *Scorer) ScoreHealth(summary *models.AnalysisSummaryData) *models.BusinessHealthScore {
	ratingScore := clamp((summary.Ratings.Average-1)/4*100, 0, 100)
	if summary.Performance.TotalReviews == 0 {
		ratingScore = 0
	}
	sentimentScore := clamp(summary.Sentiment.PositivePct-negativePenaltyFactor*summary.Sentiment.NegativePct, 0, 100)
	responseScore := clamp(summary.Responses.ResponseRate, 0, 100)

	weighted := s.weights.Rating*ratingScore +
		s.weights.Sentiment*sentimentScore +
		s.weights.Response*responseScore
	overall := int(clamp(math.Round(weighted), 0, 100))

	return &models.BusinessHealthScore{
		Overall: overall,
		Breakdown: models.HealthBreakdown{
			Rating:    ratingScore,
			Sentiment: sentimentScore,
			Response:  responseScore,
		},
		Label:            healthLabel(overall),
		RatingTrendDelta: summary.Performance.RatingTrendDelta,
		ResponseRate:     summary.Responses.ResponseRate,
	}
}

func healthLabel(overall int) string {
	switch {
	case overall >= 80:
		return models.HealthLabelExcellent
	case overall >= 60:
		return models.HealthLabelGood
	case overall >= 40:
		return models.HealthLabelNeedsAttention
	}
	return models.HealthLabelCritical
}

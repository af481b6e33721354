package analytics

import (
	"fmt"
	"testing"

	"github.com/bobmcallan/revpulse/internal/models"
)

func defaultWeights() models.HealthWeights {
	return models.HealthWeights{Rating: 0.4, Sentiment: 0.3, Response: 0.3}
}

func TestScoreHealthBounds(t *testing.T) {
	scorer := NewScorer(defaultWeights())

	cases := []struct {
		name    string
		summary models.AnalysisSummaryData
	}{
		{"empty", models.AnalysisSummaryData{}},
		{"perfect", models.AnalysisSummaryData{
			Performance: models.PerformanceMetrics{TotalReviews: 10},
			Ratings:     models.RatingAnalysis{Average: 5},
			Sentiment:   models.SentimentAnalysis{PositivePct: 100},
			Responses:   models.ResponseAnalytics{ResponseRate: 100},
		}},
		{"worst", models.AnalysisSummaryData{
			Performance: models.PerformanceMetrics{TotalReviews: 10},
			Ratings:     models.RatingAnalysis{Average: 1},
			Sentiment:   models.SentimentAnalysis{NegativePct: 100},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			health := scorer.ScoreHealth(&tc.summary)
			if health.Overall < 0 || health.Overall > 100 {
				t.Errorf("Overall = %d, want within [0, 100]", health.Overall)
			}
		})
	}
}

func TestScoreHealthExcellentScenario(t *testing.T) {
	// Strong business: high average, no negative sentiment, answered reviews.
	var reviews []models.Review
	for i := 0; i < 10; i++ {
		rating := 5
		if i >= 6 {
			rating = 4
		}
		r := mkReview(fmt.Sprintf("r%d", i), rating, "positive", i)
		r.OwnerResponse = "Thanks for visiting!"
		reviews = append(reviews, r)
	}

	agg := NewAggregator()
	summary := agg.ComputeSummary("cafe-luna", reviews, models.NewAnalysisConfig())
	health := NewScorer(defaultWeights()).ScoreHealth(summary)

	if health.Overall < 80 {
		t.Errorf("Overall = %d, want >= 80", health.Overall)
	}
	if health.Label != models.HealthLabelExcellent {
		t.Errorf("Label = %q, want %q", health.Label, models.HealthLabelExcellent)
	}
}

func TestScoreHealthLabels(t *testing.T) {
	cases := []struct {
		overall int
		want    string
	}{
		{100, models.HealthLabelExcellent},
		{80, models.HealthLabelExcellent},
		{79, models.HealthLabelGood},
		{60, models.HealthLabelGood},
		{59, models.HealthLabelNeedsAttention},
		{40, models.HealthLabelNeedsAttention},
		{39, models.HealthLabelCritical},
		{0, models.HealthLabelCritical},
	}
	for _, tc := range cases {
		if got := healthLabel(tc.overall); got != tc.want {
			t.Errorf("healthLabel(%d) = %q, want %q", tc.overall, got, tc.want)
		}
	}
}

func TestScoreHealthZeroReviewsRatingScore(t *testing.T) {
	scorer := NewScorer(defaultWeights())
	health := scorer.ScoreHealth(&models.AnalysisSummaryData{})

	if health.Breakdown.Rating != 0 {
		t.Errorf("rating sub-score = %f, want 0 with no reviews", health.Breakdown.Rating)
	}
	if health.Label != models.HealthLabelCritical {
		t.Errorf("Label = %q, want %q", health.Label, models.HealthLabelCritical)
	}
}

func TestScoreHealthSentimentPenalty(t *testing.T) {
	scorer := NewScorer(defaultWeights())
	summary := &models.AnalysisSummaryData{
		Performance: models.PerformanceMetrics{TotalReviews: 10},
		Ratings:     models.RatingAnalysis{Average: 3},
		Sentiment:   models.SentimentAnalysis{PositivePct: 60, NegativePct: 40},
	}
	health := scorer.ScoreHealth(summary)

	// 60 - 0.5*40 = 40
	if health.Breakdown.Sentiment != 40 {
		t.Errorf("sentiment sub-score = %f, want 40", health.Breakdown.Sentiment)
	}
}

func TestNewScorerNormalizesWeights(t *testing.T) {
	scorer := NewScorer(models.HealthWeights{Rating: 4, Sentiment: 3, Response: 3})
	summary := &models.AnalysisSummaryData{
		Performance: models.PerformanceMetrics{TotalReviews: 5},
		Ratings:     models.RatingAnalysis{Average: 5},
		Sentiment:   models.SentimentAnalysis{PositivePct: 100},
		Responses:   models.ResponseAnalytics{ResponseRate: 100},
	}
	if got := scorer.ScoreHealth(summary).Overall; got != 100 {
		t.Errorf("Overall = %d, want 100 after weight normalization", got)
	}
}

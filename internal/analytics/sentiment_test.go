package analytics

import (
	"math"
	"testing"

	"github.com/bobmcallan/revpulse/internal/models"
)

func TestComputeSentimentPercentages(t *testing.T) {
	reviews := []models.Review{
		mkReview("r1", 5, "positive", 0),
		mkReview("r2", 5, "positive", 1),
		mkReview("r3", 1, "negative", 2),
		mkReview("r4", 3, "", 3),      // absent -> neutral
		mkReview("r5", 3, "shrug", 4), // unknown -> neutral
		mkReview("r6", 3, "Mixed", 5), // case-insensitive
	}

	analysis := computeSentiment(reviews)

	sum := 0.0
	for _, pct := range analysis.Percentages {
		sum += pct
	}
	if math.Abs(sum-100) > 0.01 {
		t.Errorf("percentages sum to %f, want 100", sum)
	}
	if analysis.Counts[models.SentimentNeutral] != 2 {
		t.Errorf("neutral count = %d, want 2 (absent and unknown labels)", analysis.Counts[models.SentimentNeutral])
	}
	if analysis.Counts[models.SentimentMixed] != 1 {
		t.Errorf("mixed count = %d, want 1", analysis.Counts[models.SentimentMixed])
	}
	if math.Abs(analysis.PositivePct-100.0/3) > 0.01 {
		t.Errorf("PositivePct = %f, want %f", analysis.PositivePct, 100.0/3)
	}
}

func TestClassifyText(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"The staff were friendly and the food was delicious", models.SentimentPositive},
		{"Terrible experience, rude waiter", models.SentimentNegative},
		{"Great coffee but the service was slow", models.SentimentMixed},
		{"We came on a Tuesday", models.SentimentNeutral},
		{"", models.SentimentNeutral},
	}
	for _, tc := range cases {
		if got := ClassifyText(tc.text); got != tc.want {
			t.Errorf("ClassifyText(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

package analytics

import (
	"fmt"
	"math"
	"testing"

	"github.com/bobmcallan/revpulse/internal/models"
)

func TestComputeResponsesRate(t *testing.T) {
	reviews := []models.Review{
		mkReview("r1", 5, "positive", 0),
		mkReview("r2", 4, "positive", 1),
		mkReview("r3", 2, "negative", 2),
		mkReview("r4", 1, "negative", 3),
	}
	reviews[0].OwnerResponse = "Thank you!"
	reviews[2].OwnerResponse = "Sorry to hear that."

	analytics := computeResponses(reviews)

	if math.Abs(analytics.ResponseRate-50) > 1e-9 {
		t.Errorf("ResponseRate = %f, want 50", analytics.ResponseRate)
	}
	if analytics.RespondedCount != 2 {
		t.Errorf("RespondedCount = %d, want 2", analytics.RespondedCount)
	}
	if math.Abs(analytics.RateByRating[5]-100) > 1e-9 {
		t.Errorf("RateByRating[5] = %f, want 100", analytics.RateByRating[5])
	}
	if math.Abs(analytics.RateByRating[4]) > 1e-9 {
		t.Errorf("RateByRating[4] = %f, want 0", analytics.RateByRating[4])
	}
}

func TestResponseEffectivenessNoEvidence(t *testing.T) {
	// No repeat reviewers at all
	reviews := []models.Review{
		mkReview("r1", 5, "positive", 0),
		mkReview("r2", 3, "neutral", 1),
	}
	if got := responseEffectiveness(reviews); got != 50 {
		t.Errorf("score = %f, want 50 with no repeat reviewers", got)
	}

	if got := responseEffectiveness(nil); got != 50 {
		t.Errorf("score = %f, want 50 for empty input", got)
	}
}

func TestResponseEffectivenessPositiveSignal(t *testing.T) {
	var reviews []models.Review

	// Responded author: 2 -> 4 after a response (delta +2)
	first := mkReview("a1", 2, "negative", 0)
	first.Author = "alice"
	first.OwnerResponse = "We will do better."
	second := mkReview("a2", 4, "positive", 30)
	second.Author = "alice"
	reviews = append(reviews, first, second)

	// Unresponded author: 3 -> 3 (delta 0)
	bFirst := mkReview("b1", 3, "neutral", 0)
	bFirst.Author = "bob"
	bSecond := mkReview("b2", 3, "neutral", 30)
	bSecond.Author = "bob"
	reviews = append(reviews, bFirst, bSecond)

	got := responseEffectiveness(reviews)
	// advantage = 2 - 0 = 2 stars -> 50 + 2*12.5 = 75
	if math.Abs(got-75) > 1e-9 {
		t.Errorf("score = %f, want 75", got)
	}
}

func TestResponseEffectivenessClamped(t *testing.T) {
	var reviews []models.Review
	// Build an extreme advantage: many responded authors improving 1 -> 5
	for i := 0; i < 3; i++ {
		first := mkReview(fmt.Sprintf("f%d", i), 1, "negative", 0)
		first.Author = fmt.Sprintf("up-%d", i)
		first.OwnerResponse = "Apologies."
		second := mkReview(fmt.Sprintf("s%d", i), 5, "positive", 30)
		second.Author = first.Author
		reviews = append(reviews, first, second)
	}
	// And one unresponded author falling 5 -> 1
	first := mkReview("uf", 5, "positive", 0)
	first.Author = "down"
	second := mkReview("us", 1, "negative", 30)
	second.Author = "down"
	reviews = append(reviews, first, second)

	got := responseEffectiveness(reviews)
	if got != 100 {
		t.Errorf("score = %f, want clamped to 100", got)
	}
}

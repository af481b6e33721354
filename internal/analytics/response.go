package analytics

import (
	"sort"

	"github.com/bobmcallan/revpulse/internal/models"
)

// computeResponses measures owner-response coverage and its estimated impact
// on repeat reviewers.
func computeResponses(reviews []models.Review) models.ResponseAnalytics {
	analytics := models.ResponseAnalytics{
		RateByRating:       make(map[int]float64),
		EffectivenessScore: 50,
	}
	if len(reviews) == 0 {
		return analytics
	}

	byRatingTotal := make(map[int]int)
	byRatingResponded := make(map[int]int)
	for _, r := range reviews {
		if r.HasOwnerResponse() {
			analytics.RespondedCount++
		}
		if r.Rating >= 1 && r.Rating <= 5 {
			byRatingTotal[r.Rating]++
			if r.HasOwnerResponse() {
				byRatingResponded[r.Rating]++
			}
		}
	}

	analytics.ResponseRate = float64(analytics.RespondedCount) / float64(len(reviews)) * 100
	for stars, total := range byRatingTotal {
		analytics.RateByRating[stars] = float64(byRatingResponded[stars]) / float64(total) * 100
	}

	analytics.EffectivenessScore = responseEffectiveness(reviews)
	return analytics
}

// responseEffectiveness estimates whether ratings improve for reviewers who
// received a response versus those who did not. Heuristic: only same-author
// repeat reviews are compared; authors without a repeat review are skipped.
// 50 means no evidence either way.
func responseEffectiveness(reviews []models.Review) float64 {
	byAuthor := make(map[string][]models.Review)
	for _, r := range reviews {
		if r.Author == "" || !r.HasValidTimestamp() {
			continue
		}
		byAuthor[r.Author] = append(byAuthor[r.Author], r)
	}

	var respondedDeltas, unrespondedDeltas []float64
	for _, authored := range byAuthor {
		if len(authored) < 2 {
			continue
		}
		sort.Slice(authored, func(i, j int) bool {
			return authored[i].PublishedAt.Before(authored[j].PublishedAt)
		})
		first := authored[0]
		if first.Rating < 1 || first.Rating > 5 {
			continue
		}

		laterSum, laterCount := 0, 0
		for _, later := range authored[1:] {
			if later.Rating >= 1 && later.Rating <= 5 {
				laterSum += later.Rating
				laterCount++
			}
		}
		if laterCount == 0 {
			continue
		}
		delta := float64(laterSum)/float64(laterCount) - float64(first.Rating)

		if first.HasOwnerResponse() {
			respondedDeltas = append(respondedDeltas, delta)
		} else {
			unrespondedDeltas = append(unrespondedDeltas, delta)
		}
	}

	if len(respondedDeltas) == 0 || len(unrespondedDeltas) == 0 {
		return 50
	}

	advantage := mean(respondedDeltas) - mean(unrespondedDeltas)

	// A full 4-star advantage saturates the scale.
	score := 50 + advantage*12.5
	return clamp(score, 0, 100)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/revpulse/internal/models"
)

func comparePeriodPair(t *testing.T, currentReviews, previousReviews []models.Review) (models.PeriodData, models.PeriodData) {
	t.Helper()
	prevStart := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	prevEnd := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	curStart := prevEnd
	curEnd := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := range previousReviews {
		previousReviews[i].PublishedAt = prevStart.AddDate(0, 0, i%28).Add(time.Hour)
	}
	for i := range currentReviews {
		currentReviews[i].PublishedAt = curStart.AddDate(0, 0, i%28).Add(time.Hour)
	}

	all := append(append([]models.Review{}, previousReviews...), currentReviews...)
	current := models.NewPeriodData("current", curStart, curEnd, all)
	previous := models.NewPeriodData("previous", prevStart, prevEnd, all)
	return current, previous
}

func nReviews(prefix string, n, rating int, sentiment string) []models.Review {
	reviews := make([]models.Review, n)
	for i := range reviews {
		reviews[i] = models.Review{
			ID:           fmt.Sprintf("%s-%d", prefix, i),
			BusinessName: "cafe-luna",
			Rating:       rating,
			Sentiment:    sentiment,
		}
	}
	return reviews
}

func TestComparePeriodsVolumeGrowth(t *testing.T) {
	current, previous := comparePeriodPair(t,
		nReviews("cur", 150, 4, "positive"),
		nReviews("prev", 100, 4, "positive"),
	)

	metrics, err := ComparePeriods(current, previous)
	require.NoError(t, err)

	assert.Equal(t, 150.0, metrics.ReviewCount.Current)
	assert.Equal(t, 100.0, metrics.ReviewCount.Previous)
	assert.InDelta(t, 50.0, metrics.ReviewCount.ChangePercent, 1e-9)
	assert.Equal(t, models.TrendUp, metrics.ReviewCount.Trend)
}

func TestComparePeriodsStableWithinEpsilon(t *testing.T) {
	current, previous := comparePeriodPair(t,
		nReviews("cur", 101, 4, "positive"),
		nReviews("prev", 100, 4, "positive"),
	)

	metrics, err := ComparePeriods(current, previous)
	require.NoError(t, err)

	// 1% volume change sits inside the dead-band
	assert.Equal(t, models.TrendStable, metrics.ReviewCount.Trend)
	assert.Equal(t, models.TrendStable, metrics.AverageRating.Trend)
}

func TestComparePeriodsAntiSymmetric(t *testing.T) {
	current, previous := comparePeriodPair(t,
		nReviews("cur", 120, 5, "positive"),
		nReviews("prev", 100, 3, "neutral"),
	)

	forward, err := ComparePeriods(current, previous)
	require.NoError(t, err)
	backward, err := ComparePeriods(previous, current)
	require.NoError(t, err)

	assert.InDelta(t, -forward.ReviewCount.Change, backward.ReviewCount.Change, 1e-9)
	assert.InDelta(t, -forward.AverageRating.Change, backward.AverageRating.Change, 1e-9)
	assert.InDelta(t, -forward.PositiveSentPct.Change, backward.PositiveSentPct.Change, 1e-9)
	assert.Equal(t, models.TrendUp, forward.ReviewCount.Trend)
	assert.Equal(t, models.TrendDown, backward.ReviewCount.Trend)
}

func TestComparePeriodsThemeSets(t *testing.T) {
	currentReviews := nReviews("cur", 10, 4, "positive")
	for i := range currentReviews {
		currentReviews[i].Themes = "wifi, service"
	}
	previousReviews := nReviews("prev", 10, 4, "positive")
	for i := range previousReviews {
		previousReviews[i].Themes = "wifi"
	}

	current, previous := comparePeriodPair(t, currentReviews, previousReviews)
	metrics, err := ComparePeriods(current, previous)
	require.NoError(t, err)

	assert.Equal(t, []string{"service"}, metrics.Themes.New)
	assert.Empty(t, metrics.Themes.Removed)
	assert.Contains(t, metrics.Themes.Consistent, "wifi")

	// Swapped inputs swap the new/removed sets
	swapped, err := ComparePeriods(previous, current)
	require.NoError(t, err)
	assert.Equal(t, []string{"service"}, swapped.Themes.Removed)
	assert.Empty(t, swapped.Themes.New)
}

func TestComparePeriodsRejectsOverlap(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	current := models.NewPeriodData("current", start, start.AddDate(0, 2, 0), nil)
	previous := models.NewPeriodData("previous", start.AddDate(0, 1, 0), start.AddDate(0, 3, 0), nil)

	_, err := ComparePeriods(current, previous)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overlap")
}

func TestComparePeriodsStaffMentionDelta(t *testing.T) {
	currentReviews := nReviews("cur", 5, 4, "positive")
	for i := range currentReviews {
		currentReviews[i].StaffMentions = "Maria"
	}
	previousReviews := nReviews("prev", 3, 4, "positive")
	for i := range previousReviews {
		previousReviews[i].StaffMentions = "Maria, Jonas"
	}

	current, previous := comparePeriodPair(t, currentReviews, previousReviews)
	metrics, err := ComparePeriods(current, previous)
	require.NoError(t, err)

	assert.Equal(t, 2, metrics.StaffMentionDelta["Maria"])
	assert.Equal(t, -3, metrics.StaffMentionDelta["Jonas"])
}

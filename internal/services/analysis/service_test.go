package analysis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/revpulse/internal/common"
	"github.com/bobmcallan/revpulse/internal/interfaces"
	"github.com/bobmcallan/revpulse/internal/models"
)

// memReviewStore is an in-memory ReviewStore.
type memReviewStore struct {
	reviews map[string]models.Review
}

func newMemReviewStore() *memReviewStore {
	return &memReviewStore{reviews: make(map[string]models.Review)}
}

func (m *memReviewStore) SaveReview(_ context.Context, review *models.Review) error {
	if review.ID == "" {
		return fmt.Errorf("review ID is required")
	}
	m.reviews[review.ID] = *review
	return nil
}

func (m *memReviewStore) SaveReviews(ctx context.Context, reviews []models.Review) error {
	for i := range reviews {
		if err := m.SaveReview(ctx, &reviews[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *memReviewStore) GetReview(_ context.Context, id string) (*models.Review, error) {
	r, ok := m.reviews[id]
	if !ok {
		return nil, fmt.Errorf("review '%s': %w", id, interfaces.ErrNotFound)
	}
	return &r, nil
}

func (m *memReviewStore) GetReviews(_ context.Context, businessName string) ([]models.Review, error) {
	var out []models.Review
	for _, r := range m.reviews {
		if r.BusinessName == businessName {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memReviewStore) CountReviews(_ context.Context, businessName string) (int, error) {
	n := 0
	for _, r := range m.reviews {
		if r.BusinessName == businessName {
			n++
		}
	}
	return n, nil
}

func (m *memReviewStore) ListBusinesses(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var names []string
	for _, r := range m.reviews {
		if !seen[r.BusinessName] {
			seen[r.BusinessName] = true
			names = append(names, r.BusinessName)
		}
	}
	return names, nil
}

func (m *memReviewStore) DeleteReviews(_ context.Context, businessName string) (int, error) {
	deleted := 0
	for id, r := range m.reviews {
		if r.BusinessName == businessName {
			delete(m.reviews, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeStorage struct {
	reviews *memReviewStore
}

func (f *fakeStorage) ReviewStore() interfaces.ReviewStore { return f.reviews }
func (f *fakeStorage) AlertStore() interfaces.AlertStore   { return nil }
func (f *fakeStorage) DataPath() string                    { return "" }
func (f *fakeStorage) Close() error                        { return nil }

func newTestService() (*Service, *memReviewStore) {
	store := newMemReviewStore()
	svc := NewService(&fakeStorage{reviews: store}, models.HealthWeights{Rating: 0.4, Sentiment: 0.3, Response: 0.3}, common.NewSilentLogger())
	return svc, store
}

func seedReviews(t *testing.T, store *memReviewStore, business string, n int) {
	t.Helper()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		review := models.Review{
			ID:           fmt.Sprintf("%s-%d", business, i),
			BusinessName: business,
			Rating:       4,
			Sentiment:    models.SentimentPositive,
			PublishedAt:  base.AddDate(0, 0, i),
		}
		require.NoError(t, store.SaveReview(context.Background(), &review))
	}
}

func TestGetSummaryComputesAndScores(t *testing.T) {
	svc, store := newTestService()
	seedReviews(t, store, "Cafe Lumen", 10)

	summary, err := svc.GetSummary(context.Background(), "Cafe Lumen", nil)
	require.NoError(t, err)
	assert.Equal(t, "Cafe Lumen", summary.BusinessName)
	assert.Equal(t, 10, summary.Performance.TotalReviews)
	require.NotNil(t, summary.Health, "health score attached to summary")
	assert.Greater(t, summary.Health.Overall, 0)
}

func TestGetSummaryRequiresBusinessName(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.GetSummary(context.Background(), "", nil)
	assert.Error(t, err)
}

func TestGetSummaryCached(t *testing.T) {
	svc, store := newTestService()
	seedReviews(t, store, "Cafe Lumen", 5)
	ctx := context.Background()

	first, err := svc.GetSummary(ctx, "Cafe Lumen", nil)
	require.NoError(t, err)
	second, err := svc.GetSummary(ctx, "Cafe Lumen", nil)
	require.NoError(t, err)
	assert.Same(t, first, second, "identical inputs hit the cache")

	// A different analysis config misses.
	cfg := models.NewAnalysisConfig(models.WithRecentMonths(6))
	third, err := svc.GetSummary(ctx, "Cafe Lumen", &cfg)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}

func TestIngestInvalidatesCache(t *testing.T) {
	svc, store := newTestService()
	seedReviews(t, store, "Cafe Lumen", 5)
	ctx := context.Background()

	first, err := svc.GetSummary(ctx, "Cafe Lumen", nil)
	require.NoError(t, err)

	stored, err := svc.IngestReviews(ctx, "Cafe Lumen", []models.Review{
		{ID: "new-1", Rating: 1, Text: "terrible slow service", PublishedAt: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, stored)

	second, err := svc.GetSummary(ctx, "Cafe Lumen", nil)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, 6, second.Performance.TotalReviews)
}

func TestIngestNormalizesSentiment(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	stored, err := svc.IngestReviews(ctx, "Cafe Lumen", []models.Review{
		{ID: "r1", Rating: 5, Text: "great food, friendly staff"},
		{ID: "r2", Rating: 2, Sentiment: "Negative"},
		{ID: "r3", Rating: 3, Sentiment: "enthusiastic"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, stored)

	r1, err := store.GetReview(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, models.SentimentPositive, r1.Sentiment, "classified from text when absent")
	assert.Equal(t, "Cafe Lumen", r1.BusinessName, "business name stamped on ingest")

	r2, err := store.GetReview(ctx, "r2")
	require.NoError(t, err)
	assert.Equal(t, models.SentimentNegative, r2.Sentiment, "label case-folded")

	r3, err := store.GetReview(ctx, "r3")
	require.NoError(t, err)
	assert.Equal(t, models.SentimentNeutral, r3.Sentiment, "unknown label normalized")
}

func TestIngestSkipsReviewsWithoutID(t *testing.T) {
	svc, store := newTestService()

	stored, err := svc.IngestReviews(context.Background(), "Cafe Lumen", []models.Review{
		{Rating: 5, Text: "no id"},
		{ID: "r1", Rating: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, stored)
	assert.Len(t, store.reviews, 1)
}

func TestDeleteReviewsInvalidatesCache(t *testing.T) {
	svc, store := newTestService()
	seedReviews(t, store, "Cafe Lumen", 5)
	ctx := context.Background()

	first, err := svc.GetSummary(ctx, "Cafe Lumen", nil)
	require.NoError(t, err)
	assert.Equal(t, 5, first.Performance.TotalReviews)

	deleted, err := svc.DeleteReviews(ctx, "Cafe Lumen")
	require.NoError(t, err)
	assert.Equal(t, 5, deleted)
	assert.Empty(t, store.reviews)

	second, err := svc.GetSummary(ctx, "Cafe Lumen", nil)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, 0, second.Performance.TotalReviews)

	_, err = svc.DeleteReviews(ctx, "")
	assert.Error(t, err)
}

func TestGetHealthScore(t *testing.T) {
	svc, store := newTestService()
	seedReviews(t, store, "Cafe Lumen", 8)

	health, err := svc.GetHealthScore(context.Background(), "Cafe Lumen", nil)
	require.NoError(t, err)
	require.NotNil(t, health)
	assert.GreaterOrEqual(t, health.Overall, 0)
	assert.LessOrEqual(t, health.Overall, 100)
	assert.NotEmpty(t, health.Label)
}

func TestComparePeriodsRejectsOverlap(t *testing.T) {
	svc, store := newTestService()
	seedReviews(t, store, "Cafe Lumen", 5)

	jan := interfaces.PeriodSpec{Label: "January", Start: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)}
	overlapping := interfaces.PeriodSpec{Label: "Mid-Jan", Start: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), End: time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)}

	_, err := svc.ComparePeriods(context.Background(), "Cafe Lumen", jan, overlapping)
	assert.Error(t, err)
}

func TestGetTrendsEmptyBusiness(t *testing.T) {
	svc, _ := newTestService()

	report, err := svc.GetTrends(context.Background(), "Cafe Lumen")
	require.NoError(t, err)
	require.NotNil(t, report)
}

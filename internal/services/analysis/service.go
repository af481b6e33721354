// Package analysis provides the review analytics service
package analysis

import (
	"context"
	"fmt"

	"github.com/bobmcallan/revpulse/internal/analytics"
	"github.com/bobmcallan/revpulse/internal/common"
	"github.com/bobmcallan/revpulse/internal/interfaces"
	"github.com/bobmcallan/revpulse/internal/models"
)

// Service implements AnalysisService
type Service struct {
	storage    interfaces.StorageManager
	aggregator *analytics.Aggregator
	scorer     *analytics.Scorer
	trends     *analytics.TrendAnalyzer
	cache      *summaryCache
	logger     *common.Logger
}

// NewService creates a new analysis service
func NewService(storage interfaces.StorageManager, weights models.HealthWeights, logger *common.Logger) *Service {
	return &Service{
		storage:    storage,
		aggregator: analytics.NewAggregator(),
		scorer:     analytics.NewScorer(weights),
		trends:     analytics.NewTrendAnalyzer(),
		cache:      newSummaryCache(defaultCacheTTL),
		logger:     logger,
	}
}

// GetSummary produces the full analysis summary for a business. Results are
// memoized on (business, review set, analysis config) until reviews change.
func (s *Service) GetSummary(ctx context.Context, businessName string, cfg *models.AnalysisConfig) (*models.AnalysisSummaryData, error) {
	if businessName == "" {
		return nil, fmt.Errorf("business name is required")
	}
	if cfg == nil {
		defaults := models.NewAnalysisConfig()
		cfg = &defaults
	}

	reviews, err := s.storage.ReviewStore().GetReviews(ctx, businessName)
	if err != nil {
		return nil, fmt.Errorf("load reviews for '%s': %w", businessName, err)
	}

	key := cacheKey(businessName, reviews, cfg)
	if cached, ok := s.cache.get(key); ok {
		s.logger.Debug().Str("business", businessName).Msg("Summary cache hit")
		return cached, nil
	}

	summary := s.aggregator.ComputeSummary(businessName, reviews, *cfg)
	health := s.scorer.ScoreHealth(summary)
	summary.Health = health

	s.cache.put(key, summary)
	s.logger.Info().
		Str("business", businessName).
		Int("reviews", summary.Performance.TotalReviews).
		Int("health", health.Overall).
		Msg("Summary computed")
	return summary, nil
}

// GetHealthScore computes the composite health score for a business.
func (s *Service) GetHealthScore(ctx context.Context, businessName string, cfg *models.AnalysisConfig) (*models.BusinessHealthScore, error) {
	summary, err := s.GetSummary(ctx, businessName, cfg)
	if err != nil {
		return nil, err
	}
	return summary.Health, nil
}

// ComparePeriods compares two named time windows for a business.
func (s *Service) ComparePeriods(ctx context.Context, businessName string, current, previous interfaces.PeriodSpec) (*models.ComparisonMetrics, error) {
	if businessName == "" {
		return nil, fmt.Errorf("business name is required")
	}

	reviews, err := s.storage.ReviewStore().GetReviews(ctx, businessName)
	if err != nil {
		return nil, fmt.Errorf("load reviews for '%s': %w", businessName, err)
	}

	cur := models.NewPeriodData(current.Label, current.Start, current.End, reviews)
	prev := models.NewPeriodData(previous.Label, previous.Start, previous.End, reviews)

	metrics, err := analytics.ComparePeriods(cur, prev)
	if err != nil {
		return nil, fmt.Errorf("compare periods for '%s': %w", businessName, err)
	}
	return metrics, nil
}

// GetTrends analyzes temporal patterns and historical series for a business.
func (s *Service) GetTrends(ctx context.Context, businessName string) (*models.TrendReport, error) {
	if businessName == "" {
		return nil, fmt.Errorf("business name is required")
	}

	reviews, err := s.storage.ReviewStore().GetReviews(ctx, businessName)
	if err != nil {
		return nil, fmt.Errorf("load reviews for '%s': %w", businessName, err)
	}
	return s.trends.AnalyzeTrends(reviews), nil
}

// IngestReviews stores a batch of reviews for a business. Reviews without an
// explicit sentiment are classified from their text; unknown labels are
// normalized. Returns the number of reviews stored.
func (s *Service) IngestReviews(ctx context.Context, businessName string, reviews []models.Review) (int, error) {
	if businessName == "" {
		return 0, fmt.Errorf("business name is required")
	}

	prepared := make([]models.Review, 0, len(reviews))
	for _, r := range reviews {
		if r.ID == "" {
			s.logger.Warn().Str("business", businessName).Msg("Skipping review without ID")
			continue
		}
		r.BusinessName = businessName
		if r.Sentiment == "" {
			r.Sentiment = analytics.ClassifyText(r.Text)
		} else {
			r.Sentiment = models.NormalizeSentiment(r.Sentiment)
		}
		prepared = append(prepared, r)
	}

	if err := s.storage.ReviewStore().SaveReviews(ctx, prepared); err != nil {
		return 0, fmt.Errorf("save reviews for '%s': %w", businessName, err)
	}

	s.cache.invalidate(businessName)
	s.logger.Info().Str("business", businessName).Int("count", len(prepared)).Msg("Reviews ingested")
	return len(prepared), nil
}

// DeleteReviews removes all stored reviews for a business and drops its
// cached summaries. Returns the number of reviews deleted.
func (s *Service) DeleteReviews(ctx context.Context, businessName string) (int, error) {
	if businessName == "" {
		return 0, fmt.Errorf("business name is required")
	}

	deleted, err := s.storage.ReviewStore().DeleteReviews(ctx, businessName)
	if err != nil {
		return 0, fmt.Errorf("delete reviews for '%s': %w", businessName, err)
	}

	s.cache.invalidate(businessName)
	return deleted, nil
}

// Compile-time check
var _ interfaces.AnalysisService = (*Service)(nil)

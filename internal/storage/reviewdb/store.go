// Package reviewdb implements ReviewStore using BadgerHold.
// It persists raw business reviews keyed by review ID, indexed by business.
package reviewdb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/revpulse/internal/common"
	"github.com/bobmcallan/revpulse/internal/interfaces"
	"github.com/bobmcallan/revpulse/internal/models"
)

// Store implements interfaces.ReviewStore using BadgerHold.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore creates a new ReviewStore backed by BadgerHold.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create review db path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open review db at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("ReviewDB opened")
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) SaveReview(_ context.Context, review *models.Review) error {
	if review.ID == "" {
		return fmt.Errorf("review ID is required")
	}
	if review.BusinessName == "" {
		return fmt.Errorf("review business name is required")
	}
	if err := s.db.Upsert(review.ID, review); err != nil {
		return fmt.Errorf("failed to save review '%s': %w", review.ID, err)
	}
	return nil
}

func (s *Store) SaveReviews(ctx context.Context, reviews []models.Review) error {
	for i := range reviews {
		if err := s.SaveReview(ctx, &reviews[i]); err != nil {
			return err
		}
	}
	s.logger.Debug().Int("count", len(reviews)).Msg("Reviews saved")
	return nil
}

func (s *Store) GetReview(_ context.Context, id string) (*models.Review, error) {
	var review models.Review
	if err := s.db.Get(id, &review); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, fmt.Errorf("review '%s': %w", id, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get review '%s': %w", id, err)
	}
	return &review, nil
}

func (s *Store) GetReviews(_ context.Context, businessName string) ([]models.Review, error) {
	var reviews []models.Review
	if err := s.db.Find(&reviews, badgerhold.Where("BusinessName").Eq(businessName).Index("BusinessName")); err != nil {
		return nil, fmt.Errorf("failed to get reviews for '%s': %w", businessName, err)
	}
	return reviews, nil
}

func (s *Store) CountReviews(_ context.Context, businessName string) (int, error) {
	count, err := s.db.Count(models.Review{}, badgerhold.Where("BusinessName").Eq(businessName).Index("BusinessName"))
	if err != nil {
		return 0, fmt.Errorf("failed to count reviews for '%s': %w", businessName, err)
	}
	return int(count), nil
}

func (s *Store) ListBusinesses(_ context.Context) ([]string, error) {
	var reviews []models.Review
	if err := s.db.Find(&reviews, nil); err != nil {
		return nil, fmt.Errorf("failed to list businesses: %w", err)
	}
	seen := make(map[string]bool)
	var names []string
	for _, r := range reviews {
		if !seen[r.BusinessName] {
			seen[r.BusinessName] = true
			names = append(names, r.BusinessName)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) DeleteReviews(_ context.Context, businessName string) (int, error) {
	var reviews []models.Review
	if err := s.db.Find(&reviews, badgerhold.Where("BusinessName").Eq(businessName).Index("BusinessName")); err != nil {
		return 0, fmt.Errorf("failed to find reviews for '%s': %w", businessName, err)
	}
	deleted := 0
	for _, r := range reviews {
		if err := s.db.Delete(r.ID, models.Review{}); err != nil && err != badgerhold.ErrNotFound {
			return deleted, fmt.Errorf("failed to delete review '%s': %w", r.ID, err)
		}
		deleted++
	}
	s.logger.Info().Str("business", businessName).Int("count", deleted).Msg("Reviews deleted")
	return deleted, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

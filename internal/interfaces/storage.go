// Package interfaces defines service and storage contracts for RevPulse
package interfaces

import (
	"context"
	"errors"

	"github.com/bobmcallan/revpulse/internal/models"
)

// ErrNotFound is returned by stores when a requested record does not exist.
// Callers separate a missing record from an I/O failure with errors.Is.
var ErrNotFound = errors.New("not found")

// StorageManager coordinates all storage backends
type StorageManager interface {
	// Storage accessors
	ReviewStore() ReviewStore
	AlertStore() AlertStore

	// DataPath returns the base data directory path (e.g. /app/data).
	DataPath() string

	// Lifecycle
	Close() error
}

// ReviewStore persists raw business reviews.
type ReviewStore interface {
	// SaveReview upserts a single review by ID.
	SaveReview(ctx context.Context, review *models.Review) error

	// SaveReviews upserts a batch of reviews.
	SaveReviews(ctx context.Context, reviews []models.Review) error

	// GetReview retrieves a review by ID.
	GetReview(ctx context.Context, id string) (*models.Review, error)

	// GetReviews returns all reviews for a business.
	GetReviews(ctx context.Context, businessName string) ([]models.Review, error)

	// CountReviews returns the review count for a business.
	CountReviews(ctx context.Context, businessName string) (int, error)

	// ListBusinesses returns the distinct business names with stored reviews.
	ListBusinesses(ctx context.Context) ([]string, error)

	// DeleteReviews removes all reviews for a business. Returns the count deleted.
	DeleteReviews(ctx context.Context, businessName string) (int, error)
}

// AlertStore persists alerts and notification rules.
type AlertStore interface {
	// SaveAlert upserts an alert by ID.
	SaveAlert(ctx context.Context, alert *models.AnalysisAlert) error

	// GetAlert retrieves an alert by ID.
	GetAlert(ctx context.Context, id string) (*models.AnalysisAlert, error)

	// GetAlerts returns all alerts for a business, newest first.
	GetAlerts(ctx context.Context, businessName string) ([]models.AnalysisAlert, error)

	// GetUnacknowledged returns unacknowledged alerts for a business.
	GetUnacknowledged(ctx context.Context, businessName string) ([]models.AnalysisAlert, error)

	// Notification rules
	SaveRule(ctx context.Context, rule *models.NotificationRule) error
	GetRules(ctx context.Context, businessName string) ([]models.NotificationRule, error)
	DeleteRule(ctx context.Context, id string) error
}

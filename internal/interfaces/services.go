// Package interfaces defines service and storage contracts for RevPulse
package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/revpulse/internal/models"
)

// AnalysisService computes review analytics for a business
type AnalysisService interface {
	// GetSummary produces the full analysis summary for a business.
	GetSummary(ctx context.Context, businessName string, cfg *models.AnalysisConfig) (*models.AnalysisSummaryData, error)

	// GetHealthScore computes the composite health score for a business.
	GetHealthScore(ctx context.Context, businessName string, cfg *models.AnalysisConfig) (*models.BusinessHealthScore, error)

	// ComparePeriods compares two named time windows for a business.
	ComparePeriods(ctx context.Context, businessName string, current, previous PeriodSpec) (*models.ComparisonMetrics, error)

	// GetTrends analyzes temporal patterns and historical series for a business.
	GetTrends(ctx context.Context, businessName string) (*models.TrendReport, error)

	// IngestReviews stores a batch of reviews, normalizing sentiment where absent.
	IngestReviews(ctx context.Context, businessName string, reviews []models.Review) (int, error)

	// DeleteReviews removes all stored reviews for a business and drops any
	// cached analysis. Returns the number of reviews deleted.
	DeleteReviews(ctx context.Context, businessName string) (int, error)
}

// PeriodSpec names a half-open time window [Start, End) for comparison.
type PeriodSpec struct {
	Label string
	Start time.Time
	End   time.Time
}

// AlertService evaluates metrics against thresholds and manages alert lifecycle
type AlertService interface {
	// Evaluate checks the current metrics for a business and raises alerts
	// for any threshold breaches. Returns the newly created alerts.
	Evaluate(ctx context.Context, businessName string) ([]models.AnalysisAlert, error)

	// Acknowledge marks an alert acknowledged. Returns false when the alert
	// does not exist; acknowledging an already-acknowledged alert is a no-op.
	Acknowledge(ctx context.Context, alertID string) (bool, error)

	// GetHistory returns all alerts for a business, newest first.
	GetHistory(ctx context.Context, businessName string) ([]models.AnalysisAlert, error)

	// Notification rules
	SaveRule(ctx context.Context, rule *models.NotificationRule) error
	GetRules(ctx context.Context, businessName string) ([]models.NotificationRule, error)
	DeleteRule(ctx context.Context, id string) error
}

// Notifier delivers alert notifications to an external channel
type Notifier interface {
	// NotifyAlert sends a notification for a single alert.
	NotifyAlert(ctx context.Context, alert *models.AnalysisAlert) error
}

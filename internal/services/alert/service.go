// Package alert evaluates business metrics against configured thresholds
// and manages the alert lifecycle.
package alert

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/revpulse/internal/common"
	"github.com/bobmcallan/revpulse/internal/interfaces"
	"github.com/bobmcallan/revpulse/internal/models"
)

// Service implements AlertService
type Service struct {
	analysis   interfaces.AnalysisService
	storage    interfaces.StorageManager
	notifier   interfaces.Notifier
	thresholds models.PerformanceThresholds
	logger     *common.Logger

	// evalMu serializes Evaluate per business so concurrent runs cannot
	// both pass the dedupe check and double-raise the same alert.
	mu     sync.Mutex
	evalMu map[string]*sync.Mutex

	notifyWG sync.WaitGroup
}

// notifyTimeout bounds a single background notification dispatch.
const notifyTimeout = 30 * time.Second

// NewService creates a new alert service. Thresholds are assumed validated
// at config load.
func NewService(
	analysis interfaces.AnalysisService,
	storage interfaces.StorageManager,
	notifier interfaces.Notifier,
	thresholds models.PerformanceThresholds,
	logger *common.Logger,
) *Service {
	return &Service{
		analysis:   analysis,
		storage:    storage,
		notifier:   notifier,
		thresholds: thresholds,
		logger:     logger,
		evalMu:     make(map[string]*sync.Mutex),
	}
}

func (s *Service) businessLock(businessName string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.evalMu[businessName]
	if !ok {
		lock = &sync.Mutex{}
		s.evalMu[businessName] = lock
	}
	return lock
}

// Evaluate checks the current metrics for a business against the configured
// thresholds. An alert is raised per breached category unless an
// unacknowledged alert with the same business, type, and severity already
// exists. Returns the newly created alerts. Notifications are dispatched in
// the background after each alert is persisted; the stored alert's EmailSent
// flag is set once delivery succeeds.
func (s *Service) Evaluate(ctx context.Context, businessName string) ([]models.AnalysisAlert, error) {
	if businessName == "" {
		return nil, fmt.Errorf("business name is required")
	}

	lock := s.businessLock(businessName)
	lock.Lock()
	defer lock.Unlock()

	summary, err := s.analysis.GetSummary(ctx, businessName, nil)
	if err != nil {
		return nil, fmt.Errorf("evaluate '%s': %w", businessName, err)
	}

	open, err := s.storage.AlertStore().GetUnacknowledged(ctx, businessName)
	if err != nil {
		return nil, fmt.Errorf("load open alerts for '%s': %w", businessName, err)
	}
	openKeys := make(map[string]bool, len(open))
	for _, a := range open {
		openKeys[dedupeKey(a.Type, a.Severity)] = true
	}

	notify := s.shouldNotify(ctx, businessName)

	var created []models.AnalysisAlert
	now := time.Now().UTC()
	for _, m := range metricValues(summary) {
		bounds, ok := s.thresholds[m.category]
		if !ok {
			continue
		}
		severity := m.category.Classify(m.value, bounds)
		if severity == "" {
			continue
		}
		if openKeys[dedupeKey(m.category, severity)] {
			s.logger.Debug().
				Str("business", businessName).
				Str("type", string(m.category)).
				Str("severity", severity).
				Msg("Alert suppressed by open duplicate")
			continue
		}

		threshold := bounds.Warning
		if severity == models.SeverityCritical {
			threshold = bounds.Critical
		}
		alert := models.AnalysisAlert{
			ID:           uuid.NewString(),
			BusinessName: businessName,
			Type:         m.category,
			Severity:     severity,
			Title:        m.title,
			Message:      m.message(m.value, threshold),
			Value:        m.value,
			Threshold:    threshold,
			TriggeredAt:  now,
		}

		if err := s.storage.AlertStore().SaveAlert(ctx, &alert); err != nil {
			return created, fmt.Errorf("save alert for '%s': %w", businessName, err)
		}
		openKeys[dedupeKey(alert.Type, alert.Severity)] = true
		created = append(created, alert)

		if notify {
			s.dispatch(alert)
		}
	}

	s.logger.Info().
		Str("business", businessName).
		Int("raised", len(created)).
		Msg("Alert evaluation complete")
	return created, nil
}

// shouldNotify applies the business's notification rules. Email dispatch is
// the default when no rules exist; an enabled threshold rule gates it on the
// email action, and disabled rules suppress it.
func (s *Service) shouldNotify(ctx context.Context, businessName string) bool {
	rules, err := s.storage.AlertStore().GetRules(ctx, businessName)
	if err != nil {
		s.logger.Warn().Err(err).Str("business", businessName).Msg("Rule lookup failed, defaulting to notify")
		return true
	}

	sawThresholdRule := false
	for _, rule := range rules {
		if rule.Kind != models.RuleKindThreshold {
			continue
		}
		sawThresholdRule = true
		if !rule.Enabled {
			continue
		}
		for _, action := range rule.Actions {
			if action == models.ActionEmail {
				return true
			}
		}
	}
	return !sawThresholdRule
}

func dedupeKey(category models.MetricCategory, severity string) string {
	return string(category) + "|" + severity
}

// dispatch delivers a notification for an already-persisted alert in the
// background, so delivery latency or failure never blocks alert creation.
// On success the stored alert is reloaded and its EmailSent flag recorded.
func (s *Service) dispatch(alert models.AnalysisAlert) {
	s.notifyWG.Add(1)
	go func() {
		defer s.notifyWG.Done()
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := s.notifier.NotifyAlert(ctx, &alert); err != nil {
			s.logger.Warn().Err(err).Str("alert_id", alert.ID).Msg("Alert notification failed")
			return
		}
		stored, err := s.storage.AlertStore().GetAlert(ctx, alert.ID)
		if err != nil {
			s.logger.Warn().Err(err).Str("alert_id", alert.ID).Msg("Alert reload after notification failed")
			return
		}
		stored.EmailSent = true
		if err := s.storage.AlertStore().SaveAlert(ctx, stored); err != nil {
			s.logger.Warn().Err(err).Str("alert_id", alert.ID).Msg("Failed to record notification send")
		}
	}()
}

// WaitNotifications blocks until all in-flight notification dispatches have
// completed. Called during shutdown so pending emails are not dropped.
func (s *Service) WaitNotifications() {
	s.notifyWG.Wait()
}

// Acknowledge marks an alert acknowledged. Returns false when the alert does
// not exist; storage failures propagate as errors. Acknowledging an
// already-acknowledged alert is a no-op that preserves the original
// acknowledgement time.
func (s *Service) Acknowledge(ctx context.Context, alertID string) (bool, error) {
	alert, err := s.storage.AlertStore().GetAlert(ctx, alertID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load alert '%s': %w", alertID, err)
	}
	if alert.Acknowledged {
		return true, nil
	}

	now := time.Now().UTC()
	alert.Acknowledged = true
	alert.AcknowledgedAt = &now
	if err := s.storage.AlertStore().SaveAlert(ctx, alert); err != nil {
		return false, fmt.Errorf("acknowledge alert '%s': %w", alertID, err)
	}
	s.logger.Info().Str("alert_id", alertID).Msg("Alert acknowledged")
	return true, nil
}

// GetHistory returns all alerts for a business, newest first.
func (s *Service) GetHistory(ctx context.Context, businessName string) ([]models.AnalysisAlert, error) {
	return s.storage.AlertStore().GetAlerts(ctx, businessName)
}

// SaveRule validates and persists a notification rule.
func (s *Service) SaveRule(ctx context.Context, rule *models.NotificationRule) error {
	if rule.BusinessName == "" {
		return fmt.Errorf("rule business name is required")
	}
	switch rule.Kind {
	case models.RuleKindThreshold, models.RuleKindTrend, models.RuleKindComparison:
	default:
		return fmt.Errorf("unknown rule kind %q", rule.Kind)
	}
	for _, action := range rule.Actions {
		if action != models.ActionEmail && action != models.ActionDashboard {
			return fmt.Errorf("unknown rule action %q", action)
		}
	}
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	return s.storage.AlertStore().SaveRule(ctx, rule)
}

// GetRules returns the notification rules for a business.
func (s *Service) GetRules(ctx context.Context, businessName string) ([]models.NotificationRule, error) {
	return s.storage.AlertStore().GetRules(ctx, businessName)
}

// DeleteRule removes a notification rule. Deleting a missing rule is a no-op.
func (s *Service) DeleteRule(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("rule ID is required")
	}
	return s.storage.AlertStore().DeleteRule(ctx, id)
}

// Compile-time check
var _ interfaces.AlertService = (*Service)(nil)

// Package alertdb implements AlertStore using BadgerHold.
// It persists the append-only alert history and notification rules.
package alertdb

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

// Store implements interfaces.AlertStore using BadgerHold.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore creates a new AlertStore backed by BadgerHold.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create alert db path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open alert db at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("AlertDB opened")
	return &Store{db: db, logger: logger}, nil
}

// --- Alerts ---

func (s *Store) SaveAlert(_ context.Context, alert *models.AnalysisAlert) error {
	if alert.ID == "" {
		return fmt.Errorf("alert ID is required")
	}
	if err := s.db.Upsert(alert.ID, alert); err != nil {
		return fmt.Errorf("failed to save alert '%s': %w", alert.ID, err)
	}
	return nil
}

func (s *Store) GetAlert(_ context.Context, id string) (*models.AnalysisAlert, error) {
	var alert models.AnalysisAlert
	if err := s.db.Get(id, &alert); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, fmt.Errorf("alert '%s': %w", id, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get alert '%s': %w", id, err)
	}
	return &alert, nil
}

func (s *Store) GetAlerts(_ context.Context, businessName string) ([]models.AnalysisAlert, error) {
	var alerts []models.AnalysisAlert
	if err := s.db.Find(&alerts, badgerhold.Where("BusinessName").Eq(businessName).Index("BusinessName")); err != nil {
		return nil, fmt.Errorf("failed to get alerts for '%s': %w", businessName, err)
	}
	sort.Slice(alerts, func(i, j int) bool { return alerts[i].TriggeredAt.After(alerts[j].TriggeredAt) })
	return alerts, nil
}

func (s *Store) GetUnacknowledged(_ context.Context, businessName string) ([]models.AnalysisAlert, error) {
	var alerts []models.AnalysisAlert
	query := badgerhold.Where("BusinessName").Eq(businessName).Index("BusinessName").And("Acknowledged").Eq(false)
	if err := s.db.Find(&alerts, query); err != nil {
		return nil, fmt.Errorf("failed to get unacknowledged alerts for '%s': %w", businessName, err)
	}
	sort.Slice(alerts, func(i, j int) bool { return alerts[i].TriggeredAt.After(alerts[j].TriggeredAt) })
	return alerts, nil
}

// --- Notification rules ---

func (s *Store) SaveRule(_ context.Context, rule *models.NotificationRule) error {
	if rule.ID == "" {
		return fmt.Errorf("rule ID is required")
	}
	if err := s.db.Upsert(rule.ID, rule); err != nil {
		return fmt.Errorf("failed to save rule '%s': %w", rule.ID, err)
	}
	s.logger.Debug().Str("rule_id", rule.ID).Str("business", rule.BusinessName).Msg("Rule saved")
	return nil
}

func (s *Store) GetRules(_ context.Context, businessName string) ([]models.NotificationRule, error) {
	var rules []models.NotificationRule
	if err := s.db.Find(&rules, badgerhold.Where("BusinessName").Eq(businessName)); err != nil {
		return nil, fmt.Errorf("failed to get rules for '%s': %w", businessName, err)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	return rules, nil
}

func (s *Store) DeleteRule(_ context.Context, id string) error {
	if err := s.db.Delete(id, models.NotificationRule{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete rule '%s': %w", id, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

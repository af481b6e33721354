// Package storage provides the top-level StorageManager that coordinates
// the 2 storage areas: reviewdb and alertdb.
package storage

import (
	"fmt"

	"github.com/bobmcallan/revpulse/internal/common"
	"github.com/bobmcallan/revpulse/internal/interfaces"
	"github.com/bobmcallan/revpulse/internal/storage/alertdb"
	"github.com/bobmcallan/revpulse/internal/storage/reviewdb"
)

// Manager implements interfaces.StorageManager using 2 storage areas.
type Manager struct {
	reviews  *reviewdb.Store
	alerts   *alertdb.Store
	dataPath string
	logger   *common.Logger
}

// NewManager creates a new StorageManager with the 2 storage areas.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	reviewStore, err := reviewdb.NewStore(logger, config.Storage.Reviews.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create review store: %w", err)
	}

	alertStore, err := alertdb.NewStore(logger, config.Storage.Alerts.Path)
	if err != nil {
		reviewStore.Close()
		return nil, fmt.Errorf("failed to create alert store: %w", err)
	}

	logger.Info().
		Str("reviews", config.Storage.Reviews.Path).
		Str("alerts", config.Storage.Alerts.Path).
		Msg("Storage manager initialized (2 areas)")

	return &Manager{
		reviews:  reviewStore,
		alerts:   alertStore,
		dataPath: config.Storage.Reviews.Path,
		logger:   logger,
	}, nil
}

func (m *Manager) ReviewStore() interfaces.ReviewStore {
	return m.reviews
}

func (m *Manager) AlertStore() interfaces.AlertStore {
	return m.alerts
}

func (m *Manager) DataPath() string {
	return m.dataPath
}

func (m *Manager) Close() error {
	var firstErr error
	if err := m.reviews.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := m.alerts.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)

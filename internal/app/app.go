// Package app wires configuration, storage, and services into a runnable
// application core shared by the server binary and tests.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/revpulse/internal/common"
	"github.com/bobmcallan/revpulse/internal/interfaces"
	"github.com/bobmcallan/revpulse/internal/notify"
	"github.com/bobmcallan/revpulse/internal/services/alert"
	"github.com/bobmcallan/revpulse/internal/services/analysis"
	"github.com/bobmcallan/revpulse/internal/storage"
)

// App holds all initialized services and storage.
type App struct {
	Config          *common.Config
	Logger          *common.Logger
	Storage         interfaces.StorageManager
	AnalysisService interfaces.AnalysisService
	AlertService    interfaces.AlertService
	Notifier        interfaces.Notifier
	DefaultBusiness string
	StartupTime     time.Time

	scheduler *scheduler
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, storage, and all services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	// Load configuration - check provided path, REVPULSE_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("REVPULSE_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "revpulse.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/revpulse.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage paths to binary directory
	if config.Storage.Reviews.Path != "" && !filepath.IsAbs(config.Storage.Reviews.Path) {
		config.Storage.Reviews.Path = filepath.Join(binDir, config.Storage.Reviews.Path)
	}
	if config.Storage.Alerts.Path != "" && !filepath.IsAbs(config.Storage.Alerts.Path) {
		config.Storage.Alerts.Path = filepath.Join(binDir, config.Storage.Alerts.Path)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	var notifier interfaces.Notifier
	if config.Notify.Enabled {
		notifier = notify.NewEmailNotifier(logger, config.Notify)
	} else {
		notifier = notify.NoopNotifier{}
		logger.Info().Msg("Email notifications disabled")
	}

	analysisService := analysis.NewService(storageManager, config.HealthWeights(), logger)
	alertService := alert.NewService(analysisService, storageManager, notifier, config.PerformanceThresholds(), logger)

	a := &App{
		Config:          config,
		Logger:          logger,
		Storage:         storageManager,
		AnalysisService: analysisService,
		AlertService:    alertService,
		Notifier:        notifier,
		DefaultBusiness: config.DefaultBusiness(),
		StartupTime:     startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// StartScheduler launches the cron-based alert evaluation schedule.
func (a *App) StartScheduler() error {
	s, err := newScheduler(a.Config, a.AlertService, a.Logger)
	if err != nil {
		return err
	}
	a.scheduler = s
	a.scheduler.start()
	return nil
}

// Close releases all resources held by the App.
// Shutdown order: stop scheduler, drain pending notifications, close storage.
func (a *App) Close() {
	if a.scheduler != nil {
		a.scheduler.stop()
		a.scheduler = nil
	}
	if svc, ok := a.AlertService.(*alert.Service); ok {
		svc.WaitNotifications()
	}
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bobmcallan/revpulse/internal/common"
	"github.com/bobmcallan/revpulse/internal/interfaces"
)

// evaluateTimeout bounds one scheduled evaluation run across all businesses.
const evaluateTimeout = 5 * time.Minute

// scheduler runs alert evaluation for every configured business on a cron
// schedule.
type scheduler struct {
	cron       *cron.Cron
	businesses []string
	alerts     interfaces.AlertService
	logger     *common.Logger
}

func newScheduler(config *common.Config, alerts interfaces.AlertService, logger *common.Logger) (*scheduler, error) {
	s := &scheduler{
		cron:       cron.New(),
		businesses: config.Businesses,
		alerts:     alerts,
		logger:     logger,
	}

	schedule := config.Alerts.Schedule
	if schedule == "" {
		schedule = "0 6 * * *"
	}
	if _, err := s.cron.AddFunc(schedule, s.runEvaluation); err != nil {
		return nil, fmt.Errorf("invalid alert schedule %q: %w", schedule, err)
	}

	logger.Info().Str("schedule", schedule).Int("businesses", len(s.businesses)).Msg("Alert scheduler configured")
	return s, nil
}

func (s *scheduler) start() {
	s.cron.Start()
}

// stop halts the schedule and waits for any in-flight run.
func (s *scheduler) stop() {
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("Alert scheduler stopped")
}

func (s *scheduler) runEvaluation() {
	ctx, cancel := context.WithTimeout(context.Background(), evaluateTimeout)
	defer cancel()

	start := time.Now()
	raised := 0
	for _, business := range s.businesses {
		alerts, err := s.alerts.Evaluate(ctx, business)
		if err != nil {
			s.logger.Warn().Err(err).Str("business", business).Msg("Scheduled evaluation failed")
			continue
		}
		raised += len(alerts)
	}

	s.logger.Info().
		Int("businesses", len(s.businesses)).
		Int("raised", raised).
		Dur("elapsed", time.Since(start)).
		Msg("Scheduled evaluation complete")
}

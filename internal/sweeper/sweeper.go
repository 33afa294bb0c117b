package sweeper

import (
	"log/slog"

	"github.com/mangrovewatch/backend/internal/config"
	"github.com/mangrovewatch/backend/internal/services"
	"github.com/robfig/cron/v3"
)

// Sweeper periodically flags reports that have sat in pending past the
// configured threshold, fanning out validation_needed alerts to
// moderators.
type Sweeper struct {
	cron   *cron.Cron
	alerts *services.AlertService
	cfg    *config.Config
}

func New(alerts *services.AlertService, cfg *config.Config) *Sweeper {
	return &Sweeper{
		cron:   cron.New(),
		alerts: alerts,
		cfg:    cfg,
	}
}

// Start registers the sweep job and starts the scheduler. The schedule
// is a cron expression (or @hourly style descriptor) from config.
func (s *Sweeper) Start() error {
	_, err := s.cron.AddFunc(s.cfg.ValidationSweepSchedule, s.runOnce)
	if err != nil {
		return err
	}
	s.cron.Start()
	slog.Info("validation sweeper started",
		"schedule", s.cfg.ValidationSweepSchedule,
		"threshold", s.cfg.ValidationSweepThreshold)
	return nil
}

func (s *Sweeper) runOnce() {
	created, err := s.alerts.SweepPendingValidation(s.cfg.ValidationSweepThreshold)
	if err != nil {
		slog.Error("validation sweep failed", "error", err)
		return
	}
	if created > 0 {
		slog.Info("validation sweep completed", "alerts_created", created)
	}
}

// Stop halts the scheduler, waiting for a running sweep to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

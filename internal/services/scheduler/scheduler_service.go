package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/common"
	"github.com/ternarybob/rogo/internal/interfaces"
)

// Service runs the periodic maintenance jobs, currently just the session
// retention sweep. A zero retention TTL disables the sweep entirely.
type Service struct {
	cron     *cron.Cron
	sessions interfaces.SessionService
	config   *common.SessionsConfig
	logger   arbor.ILogger
}

// NewService creates the scheduler
func NewService(sessions interfaces.SessionService, config *common.SessionsConfig, logger arbor.ILogger) *Service {
	return &Service{
		cron:     cron.New(),
		sessions: sessions,
		config:   config,
		logger:   logger,
	}
}

// Start registers and launches the scheduled jobs
func (s *Service) Start() error {
	ttl := s.config.TTL()
	if ttl <= 0 {
		s.logger.Info().Msg("Session retention disabled, scheduler idle")
		return nil
	}

	spec := fmt.Sprintf("@every %s", s.config.Interval())
	if _, err := s.cron.AddFunc(spec, s.sweep); err != nil {
		return fmt.Errorf("failed to schedule retention sweep: %w", err)
	}

	s.cron.Start()

	s.logger.Info().
		Str("interval", s.config.Interval().String()).
		Str("ttl", ttl.String()).
		Msg("Retention sweep scheduled")

	return nil
}

// Stop halts the scheduler and waits for a running job to finish
func (s *Service) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Service) sweep() {
	removed, err := s.sessions.Sweep(s.config.TTL())
	if err != nil {
		s.logger.Warn().Err(err).Msg("Retention sweep failed")
		return
	}
	if removed > 0 {
		s.logger.Info().Int("removed", removed).Msg("Retention sweep completed")
	}
}

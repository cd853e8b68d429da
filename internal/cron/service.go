// Package cron schedules recurring maintenance jobs.
package cron

import (
	"context"
	"fmt"
	"log/slog"

	robfigcron "github.com/robfig/cron/v3"
)

// Service wraps a robfig cron scheduler with logging around each job.
type Service struct {
	cron   *robfigcron.Cron
	logger *slog.Logger
}

// NewService creates an empty scheduler. Specs use the six-field form with
// a seconds column, plus the @every shorthand.
func NewService(logger *slog.Logger) *Service {
	return &Service{
		cron:   robfigcron.New(robfigcron.WithSeconds()),
		logger: logger.With("component", "cron"),
	}
}

// Add registers fn to run on spec. The name is only used for logging.
func (s *Service) Add(spec, name string, fn func(ctx context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.logger.Debug("running scheduled job", "job", name)
		if err := fn(context.Background()); err != nil {
			s.logger.Warn("scheduled job failed", "job", name, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", spec, name, err)
	}
	s.logger.Info("scheduled job", "job", name, "spec", spec)
	return nil
}

// Start runs the scheduler until ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	s.cron.Start()
	<-ctx.Done()
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	return ctx.Err()
}

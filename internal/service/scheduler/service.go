package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sandevgo/aimee/internal/config"
	"github.com/sandevgo/aimee/pkg/log"
)

// Service wires the scheduler's sweeps to calendar triggers.
type Service struct {
	cron  *cron.Cron
	sched *Scheduler
}

func NewService(ctx context.Context, sched *Scheduler, cfg *config.AppConfig) (*Service, error) {
	s := &Service{
		cron:  cron.New(),
		sched: sched,
	}

	jobs := []struct {
		spec string
		kind SweepKind
	}{
		{cfg.MorningCron, SweepMorning},
		{cfg.EveningCron, SweepEvening},
		{cfg.BirthdayCron, SweepDates},
	}

	for _, job := range jobs {
		kind := job.kind
		if _, err := s.cron.AddFunc(job.spec, func() {
			s.sched.Sweep(ctx, kind)
		}); err != nil {
			return nil, fmt.Errorf("schedule %s sweep (%q): %w", kind, job.spec, err)
		}
	}

	return s, nil
}

func (s *Service) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting proactive scheduler")
	s.cron.Start()
	<-ctx.Done()
	return nil
}

func (s *Service) Shutdown(ctx context.Context) error {
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
	case <-ctx.Done():
	}
	return nil
}

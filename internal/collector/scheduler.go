package collector

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/atomic"

	"github.com/sa03134/soomgo-competitor-tracker/internal/collector/interfaces"
	"github.com/sa03134/soomgo-competitor-tracker/internal/models"
	"github.com/sa03134/soomgo-competitor-tracker/internal/providers"
	"github.com/sa03134/soomgo-competitor-tracker/internal/services"
	"github.com/sa03134/soomgo-competitor-tracker/internal/structures"
)

// Scheduler walks the configured entities one at a time. It is the only
// writer of history files.
type Scheduler struct {
	entities []structures.EntityConfig
	pacing   time.Duration
	schedule cron.Schedule
	service  services.CollectorServiceInterface
	clock    providers.ClockProviderInterface
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface

	running  atomic.Bool
	passes   atomic.Int64
	lastPass atomic.Time
	nextPass atomic.Time
}

func NewScheduler(
	conf *structures.Config,
	service services.CollectorServiceInterface,
	clock providers.ClockProviderInterface,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
) (interfaces.SchedulerInterface, error) {
	schedule, err := NewSchedule(conf.Scheduler, clock.Location())
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		entities: conf.Entities,
		pacing:   conf.Scheduler.Pacing,
		schedule: schedule,
		service:  service,
		clock:    clock,
		logger:   logger,
		metrics:  metrics,
	}, nil
}

// RunOnce collects every entity in configuration order with the pacing delay
// between them. Once ctx is cancelled no further entity is started and the
// rest are reported as skipped.
func (s *Scheduler) RunOnce(ctx context.Context) *models.PassReport {
	report := &models.PassReport{StartedAt: s.clock.Now()}
	s.logger.Infof(providers.TypeScheduler, "Pass started for %d entities", len(s.entities))

	for i, entity := range s.entities {
		if i > 0 && sleep(ctx, s.pacing) != nil {
			break
		}
		if ctx.Err() != nil {
			break
		}
		report.Entities = append(report.Entities, s.service.Collect(ctx, entity))
	}
	for _, entity := range s.entities[len(report.Entities):] {
		report.Entities = append(report.Entities, models.EntityReport{
			EntityID: entity.ID,
			Outcome:  models.OutcomeSkipped,
			Err:      ctx.Err(),
		})
	}

	report.FinishedAt = s.clock.Now()
	s.passes.Inc()
	s.lastPass.Store(report.FinishedAt)
	s.metrics.ObservePassDuration(report.Duration())
	s.logger.Infof(providers.TypeScheduler, "Pass finished in %s: %d stored, %d empty, %d fetch failed, %d failed, %d skipped",
		report.Duration().Round(time.Millisecond),
		report.Count(models.OutcomeStored),
		report.Count(models.OutcomeEmpty),
		report.Count(models.OutcomeFetchFailed),
		report.Count(models.OutcomeFailed),
		report.Count(models.OutcomeSkipped))
	return report
}

// Run starts a pass immediately and then one per schedule boundary. It
// returns nil once ctx is cancelled; cancellation is observed between
// entities and while waiting, never inside a merge.
func (s *Scheduler) Run(ctx context.Context) error {
	s.running.Store(true)
	defer s.running.Store(false)

	for {
		start := s.clock.Now()
		s.RunOnce(ctx)
		if ctx.Err() != nil {
			s.logger.Infof(providers.TypeScheduler, "Scheduler stopped")
			return nil
		}

		next := s.schedule.Next(start)
		s.nextPass.Store(next)
		wait := next.Sub(s.clock.Now())
		if wait < 0 {
			wait = 0
		}
		s.logger.Infof(providers.TypeScheduler, "Next pass at %s", next.Format(time.RFC3339))

		if sleep(ctx, wait) != nil {
			s.logger.Infof(providers.TypeScheduler, "Scheduler stopped")
			return nil
		}
	}
}

func (s *Scheduler) Status() interfaces.Status {
	return interfaces.Status{
		Running:    s.running.Load(),
		Passes:     s.passes.Load(),
		LastPassAt: s.lastPass.Load(),
		NextPassAt: s.nextPass.Load(),
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

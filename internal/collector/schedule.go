package collector

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sa03134/soomgo-competitor-tracker/internal/structures"
)

// everySchedule fires a fixed interval after the previous pass started.
// cron.Every truncates to whole seconds, which the tests and sub-second
// intervals cannot use.
type everySchedule struct {
	interval time.Duration
}

func (s everySchedule) Next(t time.Time) time.Time {
	return t.Add(s.interval)
}

// zonedSchedule evaluates a cron expression in a fixed zone. Expressions
// carrying their own CRON_TZ keep it.
type zonedSchedule struct {
	cron.Schedule
	loc *time.Location
}

func (s zonedSchedule) Next(t time.Time) time.Time {
	return s.Schedule.Next(t.In(s.loc))
}

// NewSchedule returns the pass schedule: the cron expression when one is set,
// otherwise the plain interval. Cron expressions are read in loc.
func NewSchedule(conf structures.SchedulerConfig, loc *time.Location) (cron.Schedule, error) {
	if conf.Cron != "" {
		schedule, err := cron.ParseStandard(conf.Cron)
		if err != nil {
			return nil, fmt.Errorf("parse cron %q: %w", conf.Cron, err)
		}
		if loc == nil {
			return schedule, nil
		}
		return zonedSchedule{Schedule: schedule, loc: loc}, nil
	}
	if conf.Interval <= 0 {
		return nil, errors.New("scheduler interval must be positive")
	}
	return everySchedule{interval: conf.Interval}, nil
}

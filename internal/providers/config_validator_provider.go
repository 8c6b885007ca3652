package providers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gookit/validate"
	"github.com/robfig/cron/v3"

	"github.com/sa03134/soomgo-competitor-tracker/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (v *CnfValidator) Validate() error {
	vd := validate.Struct(v.conf)
	if !vd.Validate() {
		return vd.Errors
	}

	if len(v.conf.Entities) == 0 {
		return errors.New("no entities configured")
	}
	seen := make(map[string]struct{}, len(v.conf.Entities))
	for i := range v.conf.Entities {
		entity := &v.conf.Entities[i]
		ev := validate.Struct(entity)
		if !ev.Validate() {
			return fmt.Errorf("entities[%d]: %w", i, ev.Errors)
		}
		if _, dup := seen[entity.ID]; dup {
			return fmt.Errorf("entities[%d]: duplicate id %q", i, entity.ID)
		}
		seen[entity.ID] = struct{}{}
	}

	if _, err := time.LoadLocation(v.conf.Timezone); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	if v.conf.Scheduler.Cron != "" {
		if _, err := cron.ParseStandard(v.conf.Scheduler.Cron); err != nil {
			return fmt.Errorf("scheduler.cron: %w", err)
		}
	}
	return nil
}

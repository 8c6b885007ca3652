package interfaces

import (
	"context"
	"time"

	"github.com/sa03134/soomgo-competitor-tracker/internal/models"
)

type SchedulerInterface interface {
	// RunOnce performs one sequential pass over every configured entity.
	RunOnce(ctx context.Context) *models.PassReport
	// Run repeats passes on the configured schedule until ctx is cancelled.
	Run(ctx context.Context) error
	Status() Status
}

// Status is a point-in-time view of the scheduler for the health endpoint.
type Status struct {
	Running    bool
	Passes     int64
	LastPassAt time.Time
	NextPassAt time.Time
}

package providers

import (
	"time"

	"github.com/sa03134/soomgo-competitor-tracker/internal/structures"
)

// ClockProviderInterface yields wall-clock time in the configured zone, which
// decides calendar date and minute keys of the history.
type ClockProviderInterface interface {
	Now() time.Time
	Location() *time.Location
}

type ClockProvider struct {
	location *time.Location
}

func NewClockProvider(conf *structures.Config) ClockProviderInterface {
	return &ClockProvider{location: conf.Location()}
}

func (c *ClockProvider) Now() time.Time {
	return time.Now().In(c.location)
}

func (c *ClockProvider) Location() *time.Location {
	return c.location
}

package models

import "time"

type Outcome string

const (
	OutcomeStored      Outcome = "stored"
	OutcomeEmpty       Outcome = "empty"
	OutcomeFetchFailed Outcome = "fetch_failed"
	OutcomeFailed      Outcome = "failed"
	OutcomeSkipped     Outcome = "skipped"
)

// EntityReport is what one pass did for one entity.
type EntityReport struct {
	EntityID string
	Outcome  Outcome
	Result   *ExtractionResult
	Err      error
}

// PassReport summarises one sequential pass over the configured entities, in
// configuration order.
type PassReport struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Entities   []EntityReport
}

func (r *PassReport) Count(o Outcome) int {
	n := 0
	for _, e := range r.Entities {
		if e.Outcome == o {
			n++
		}
	}
	return n
}

func (r *PassReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

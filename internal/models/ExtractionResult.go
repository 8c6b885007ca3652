package models

import (
	"strconv"
	"time"
)

type Metric string

const (
	MetricHirings Metric = "hirings"
	MetricReviews Metric = "reviews"
	MetricRating  Metric = "rating"
)

// ExtractionResult is one observation of an entity. Zero counts and a nil
// Rating mean "unknown"; a miss never produces an error.
type ExtractionResult struct {
	Hirings     int
	Reviews     int
	Rating      *float64
	CollectedAt time.Time
	// Strategies maps each metric to the name of the strategy that produced
	// it. Metrics whose chain missed are absent.
	Strategies map[Metric]string
}

// IsEmpty reports whether no metric carries a usable value, in which case
// the observation must not overwrite stored history.
func (r *ExtractionResult) IsEmpty() bool {
	if r == nil {
		return true
	}
	return r.Hirings == 0 && r.Reviews == 0 && (r.Rating == nil || *r.Rating == 0)
}

func (r *ExtractionResult) Strategy(m Metric) string {
	if r == nil || r.Strategies == nil {
		return ""
	}
	return r.Strategies[m]
}

func Float(v float64) *float64 {
	return &v
}

// RatingText renders the rating for logs and tables, "-" when unknown.
func (r *ExtractionResult) RatingText() string {
	if r == nil || r.Rating == nil {
		return "-"
	}
	return strconv.FormatFloat(*r.Rating, 'f', -1, 64)
}

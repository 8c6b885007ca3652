package models

import (
	"time"

	json "github.com/goccy/go-json"
)

const (
	DateLayout = "2006-01-02"
	HourLayout = "15:04"
)

type HourlyPoint struct {
	Hirings int `json:"hirings"`
	Reviews int `json:"reviews"`
}

// DailyRecord is the per-day rollup: the latest values of the day plus one
// point per observed minute.
type DailyRecord struct {
	Hirings     int                     `json:"hirings"`
	Reviews     int                     `json:"reviews"`
	Rating      *float64                `json:"rating,omitempty"`
	LastUpdated time.Time               `json:"lastUpdated"`
	Hourly      map[string]*HourlyPoint `json:"hourly"`

	// zone-less legacy timestamp, resolved by EntityHistory.LocalizeLegacy
	legacyTimestamp string
}

// UnmarshalJSON accepts records written by the first collectors, which used
// "timestamp" instead of "lastUpdated" and had no hourly ledger.
func (d *DailyRecord) UnmarshalJSON(data []byte) error {
	type plain DailyRecord
	aux := struct {
		*plain
		Timestamp string `json:"timestamp"`
	}{plain: (*plain)(d)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if d.LastUpdated.IsZero() && aux.Timestamp != "" {
		var zoneless bool
		d.LastUpdated, zoneless = parseLegacyTimestamp(aux.Timestamp, time.UTC)
		if zoneless {
			d.legacyTimestamp = aux.Timestamp
		}
	}
	if d.Hourly == nil {
		d.Hourly = make(map[string]*HourlyPoint)
	}
	return nil
}

// Python isoformat() omits the zone and may carry microseconds. Zone-less
// values are wall-clock time in loc; the second result reports that case.
func parseLegacyTimestamp(s string, loc *time.Location) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, false
	}
	for _, layout := range []string{"2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func newDailyRecord(result *ExtractionResult, hourKey string, now time.Time) *DailyRecord {
	record := &DailyRecord{Hourly: make(map[string]*HourlyPoint)}
	record.apply(result, hourKey, now)
	return record
}

func (d *DailyRecord) apply(result *ExtractionResult, hourKey string, now time.Time) {
	d.Hirings = result.Hirings
	d.Reviews = result.Reviews
	d.Rating = nil
	if result.Rating != nil {
		d.Rating = Float(*result.Rating)
	}
	d.LastUpdated = now
	d.legacyTimestamp = ""
	if d.Hourly == nil {
		d.Hourly = make(map[string]*HourlyPoint)
	}
	d.Hourly[hourKey] = &HourlyPoint{Hirings: result.Hirings, Reviews: result.Reviews}
}

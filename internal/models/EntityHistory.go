package models

import (
	"sort"
	"time"
)

// EntityHistory maps a calendar date (YYYY-MM-DD) to that day's rollup.
type EntityHistory map[string]*DailyRecord

// Merge folds one observation into the history. The day's top-level values
// are replaced by the observation; the minute entry is set or overwritten,
// so repeating a merge within the same minute is idempotent.
func (h EntityHistory) Merge(result *ExtractionResult, now time.Time) {
	dateKey := now.Format(DateLayout)
	hourKey := now.Format(HourLayout)

	record, ok := h[dateKey]
	if !ok || record == nil {
		h[dateKey] = newDailyRecord(result, hourKey, now)
		return
	}
	record.apply(result, hourKey, now)
}

// Dates returns the date keys in ascending order.
func (h EntityHistory) Dates() []string {
	dates := make([]string, 0, len(h))
	for d := range h {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// Expired returns the records dated strictly before the retention window
// ending at now. A non-positive retention keeps everything.
func (h EntityHistory) Expired(now time.Time, retentionDays int) EntityHistory {
	expired := make(EntityHistory)
	if retentionDays <= 0 {
		return expired
	}
	cutoff := now.AddDate(0, 0, -(retentionDays - 1)).Format(DateLayout)
	for date, record := range h {
		if date < cutoff {
			expired[date] = record
		}
	}
	return expired
}

// Remove deletes every date present in other.
func (h EntityHistory) Remove(other EntityHistory) {
	for date := range other {
		delete(h, date)
	}
}

// Absorb copies every record of other into h, overwriting equal dates.
func (h EntityHistory) Absorb(other EntityHistory) {
	for date, record := range other {
		h[date] = record
	}
}

// LocalizeLegacy reads zone-less legacy timestamps as wall-clock time in loc.
// The first collectors wrote them in the machine's local zone.
func (h EntityHistory) LocalizeLegacy(loc *time.Location) {
	for _, record := range h {
		if record == nil || record.legacyTimestamp == "" {
			continue
		}
		record.LastUpdated, _ = parseLegacyTimestamp(record.legacyTimestamp, loc)
		record.legacyTimestamp = ""
	}
}

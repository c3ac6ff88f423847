// Package calweek buckets dates into ISO-8601 calendar weeks.
package calweek

import (
	"fmt"
	"time"
)

// Week is one ISO calendar week. Start is the Monday at 00:00 UTC and End
// the following Sunday at 00:00 UTC.
type Week struct {
	Start  time.Time
	End    time.Time
	Year   int
	Number int
}

// Key returns the canonical bucket key for the week, e.g. "2026-W07".
func (w Week) Key() string {
	return fmt.Sprintf("%04d-W%02d", w.Year, w.Number)
}

// Contains reports whether t falls inside the week (Monday through Sunday).
func (w Week) Contains(t time.Time) bool {
	day := t.UTC().Truncate(24 * time.Hour)
	return !day.Before(w.Start) && !day.After(w.End)
}

// FromDate returns the ISO week containing t.
func FromDate(t time.Time) Week {
	t = t.UTC()
	// time.Weekday has Sunday = 0; shift so Monday = 0.
	offset := (int(t.Weekday()) + 6) % 7
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, -offset)
	year, number := start.ISOWeek()
	return Week{
		Start:  start,
		End:    start.AddDate(0, 0, 6),
		Year:   year,
		Number: number,
	}
}

// Range enumerates every ISO week overlapping [start, end], in order.
// An inverted range yields nil.
func Range(start, end time.Time) []Week {
	if end.Before(start) {
		return nil
	}
	var weeks []Week
	w := FromDate(start)
	last := FromDate(end)
	for {
		weeks = append(weeks, w)
		if w.Start.Equal(last.Start) {
			return weeks
		}
		w = FromDate(w.Start.AddDate(0, 0, 7))
	}
}

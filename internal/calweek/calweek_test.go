package calweek

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromDate_MidWeek(t *testing.T) {
	// Thursday 2026-02-12 belongs to the week starting Monday 2026-02-09.
	w := FromDate(time.Date(2026, 2, 12, 15, 30, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), w.End)
	assert.Equal(t, 2026, w.Year)
	assert.Equal(t, 7, w.Number)
	assert.Equal(t, "2026-W07", w.Key())
}

func TestFromDate_MondayIsItsOwnStart(t *testing.T) {
	w := FromDate(time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC), w.Start)
}

func TestFromDate_SundayBelongsToPrecedingMonday(t *testing.T) {
	w := FromDate(time.Date(2026, 2, 15, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC), w.Start)
}

func TestFromDate_ISOYearBoundary(t *testing.T) {
	// 2027-01-01 is a Friday in ISO week 53 of 2026.
	w := FromDate(time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 2026, w.Year)
	assert.Equal(t, 53, w.Number)
}

func TestRange_SpansWeeks(t *testing.T) {
	weeks := Range(
		time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	)
	assert.Len(t, weeks, 3)
	assert.Equal(t, "2026-W07", weeks[0].Key())
	assert.Equal(t, "2026-W09", weeks[2].Key())
}

func TestRange_SingleDay(t *testing.T) {
	d := time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC)
	weeks := Range(d, d)
	assert.Len(t, weeks, 1)
}

func TestRange_Inverted(t *testing.T) {
	weeks := Range(
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	)
	assert.Empty(t, weeks)
}

func TestContains(t *testing.T) {
	w := FromDate(time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC))
	assert.True(t, w.Contains(time.Date(2026, 2, 15, 10, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2026, 2, 8, 0, 0, 0, 0, time.UTC)))
}

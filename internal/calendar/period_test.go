package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ymd(y int, m time.Month, d int) Date { return Date{Year: y, Month: m, Day: d} }

func TestParsePeriod(t *testing.T) {
	for in, want := range map[string]Period{"week": PeriodWeek, " Month ": PeriodMonth, "YEAR": PeriodYear} {
		p, err := ParsePeriod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, p)
	}

	_, err := ParsePeriod("day")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestPeriodWindow_Week(t *testing.T) {
	w := PeriodWeek.Window(ymd(2026, time.January, 14))
	assert.Equal(t, ymd(2026, time.January, 8), w.Start)
	assert.Equal(t, ymd(2026, time.January, 15), w.End)
	require.Len(t, w.Buckets, 7)
	assert.Equal(t, ymd(2026, time.January, 14), w.Buckets[6])
	assert.Equal(t, "7 jours : 2026-01-08 → 2026-01-14", w.Label())
}

func TestPeriodWindow_Month(t *testing.T) {
	// 14 January 2026 is a Wednesday: its week starts on Monday the 12th
	w := PeriodMonth.Window(ymd(2026, time.January, 14))
	assert.Equal(t, ymd(2025, time.December, 22), w.Start)
	assert.Equal(t, ymd(2026, time.January, 19), w.End)
	assert.Equal(t, []Date{
		ymd(2025, time.December, 22), ymd(2025, time.December, 29),
		ymd(2026, time.January, 5), ymd(2026, time.January, 12),
	}, w.Buckets)
	assert.Equal(t, "4 semaines : 2025-12-22 → 2026-01-18", w.Label())
}

func TestPeriodWindow_Year(t *testing.T) {
	w := PeriodYear.Window(ymd(2026, time.January, 14))
	assert.Equal(t, ymd(2025, time.February, 1), w.Start)
	assert.Equal(t, ymd(2026, time.February, 1), w.End)
	require.Len(t, w.Buckets, 12)
	assert.Equal(t, ymd(2026, time.January, 1), w.Buckets[11])
	assert.Equal(t, "12 mois : 2025-02 → 2026-01", w.Label())
}

func TestWindowBucket(t *testing.T) {
	w := PeriodMonth.Window(ymd(2026, time.January, 14))

	i, ok := w.Bucket(ymd(2026, time.January, 1))
	require.True(t, ok)
	assert.Equal(t, 1, i)

	i, ok = w.Bucket(ymd(2026, time.January, 18))
	require.True(t, ok)
	assert.Equal(t, 3, i)

	_, ok = w.Bucket(ymd(2026, time.January, 19))
	assert.False(t, ok, "end is exclusive")
	_, ok = w.Bucket(ymd(2025, time.December, 21))
	assert.False(t, ok)
}

func TestPeriodShift(t *testing.T) {
	anchor := ymd(2026, time.January, 14)
	assert.Equal(t, ymd(2026, time.January, 7), PeriodWeek.Shift(anchor, -1))
	assert.Equal(t, ymd(2026, time.February, 11), PeriodMonth.Shift(anchor, 1))
	assert.Equal(t, ymd(2025, time.January, 14), PeriodYear.Shift(anchor, -1))
}

func TestWeekStartAndAddMonths(t *testing.T) {
	assert.Equal(t, ymd(2026, time.January, 12), WeekStart(ymd(2026, time.January, 18)), "Sunday belongs to the previous Monday")
	assert.Equal(t, ymd(2026, time.January, 12), WeekStart(ymd(2026, time.January, 12)))

	assert.Equal(t, ymd(2026, time.February, 28), ymd(2026, time.January, 31).AddMonths(1))
	assert.Equal(t, ymd(2025, time.December, 31), ymd(2026, time.January, 31).AddMonths(-1))
}

package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidPeriod is returned for an unknown dashboard period
var ErrInvalidPeriod = errors.New("period must be week, month or year")

// Period is the span of a dashboard window
type Period string

const (
	PeriodWeek  Period = "week"  // rolling 7 days ending on the anchor
	PeriodMonth Period = "month" // 4 full weeks, Monday first, ending with the anchor's week
	PeriodYear  Period = "year"  // 12 months ending with the anchor's month
)

// Periods lists the periods in display order
var Periods = []Period{PeriodWeek, PeriodMonth, PeriodYear}

// ParsePeriod parses a period name, case-insensitive
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PeriodWeek, PeriodMonth, PeriodYear:
		return p, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrInvalidPeriod)
}

// Label returns the French display name of the period
func (p Period) Label() string {
	switch p {
	case PeriodMonth:
		return "4 semaines"
	case PeriodYear:
		return "12 mois"
	default:
		return "7 jours"
	}
}

// Window is a dashboard period resolved around an anchor day. End is
// exclusive. Buckets holds the first day of each chart bucket: days for a
// week, Mondays for a month, first days of month for a year.
type Window struct {
	Period  Period
	Start   Date
	End     Date
	Buckets []Date
}

// Window resolves p around anchor
func (p Period) Window(anchor Date) Window {
	w := Window{Period: p}
	switch p {
	case PeriodMonth:
		monday := WeekStart(anchor)
		w.Start = monday.AddDays(-21)
		w.End = monday.AddDays(7)
		for i := 0; i < 4; i++ {
			w.Buckets = append(w.Buckets, w.Start.AddDays(7*i))
		}
	case PeriodYear:
		first := Date{Year: anchor.Year, Month: anchor.Month, Day: 1}
		w.Start = first.AddMonths(-11)
		w.End = first.AddMonths(1)
		for i := 0; i < 12; i++ {
			w.Buckets = append(w.Buckets, w.Start.AddMonths(i))
		}
	default:
		w.Period = PeriodWeek
		w.Start = anchor.AddDays(-6)
		w.End = anchor.AddDays(1)
		for i := 0; i < 7; i++ {
			w.Buckets = append(w.Buckets, w.Start.AddDays(i))
		}
	}
	return w
}

// Shift moves anchor by n periods
func (p Period) Shift(anchor Date, n int) Date {
	switch p {
	case PeriodMonth:
		return anchor.AddDays(28 * n)
	case PeriodYear:
		return DateOf(anchor.Time().AddDate(0, 12*n, 0))
	default:
		return anchor.AddDays(7 * n)
	}
}

// Contains reports whether d falls inside the window
func (w Window) Contains(d Date) bool {
	return d.Compare(w.Start) >= 0 && d.Compare(w.End) < 0
}

// Last returns the last day inside the window
func (w Window) Last() Date {
	return w.End.AddDays(-1)
}

// Bucket returns the index of the bucket holding d
func (w Window) Bucket(d Date) (int, bool) {
	if !w.Contains(d) {
		return 0, false
	}
	for i := len(w.Buckets) - 1; i >= 0; i-- {
		if d.Compare(w.Buckets[i]) >= 0 {
			return i, true
		}
	}
	return 0, false
}

// Label describes the window, e.g. "7 jours : 2026-01-09 → 2026-01-15"
func (w Window) Label() string {
	if w.Period == PeriodYear {
		last := w.Last()
		return fmt.Sprintf("%s : %04d-%02d → %04d-%02d", w.Period.Label(),
			w.Start.Year, int(w.Start.Month), last.Year, int(last.Month))
	}
	return fmt.Sprintf("%s : %s → %s", w.Period.Label(), w.Start, w.Last())
}

// WeekStart returns the Monday of d's week
func WeekStart(d Date) Date {
	offset := (int(d.Time().Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

// AddMonths moves d by n months, clamping the day to the target month
func (d Date) AddMonths(n int) Date {
	first := time.Date(d.Year, d.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	day := min(d.Day, DaysInMonth(first.Year(), first.Month()))
	return Date{Year: first.Year(), Month: first.Month(), Day: day}
}

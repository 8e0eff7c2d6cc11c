// Package calendar merges activities, trainings and competitions onto a
// month day-grid and builds the hover content of each event.
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fitdash/internal/analysis"
)

// ErrInvalidDate is returned for an event date that is not a calendar day
var ErrInvalidDate = errors.New("invalid calendar date")

// Kind tags the three event variants
type Kind int

const (
	KindActivity Kind = iota
	KindTraining
	KindCompetition
)

// Label returns the French display label of the kind
func (k Kind) Label() string {
	switch k {
	case KindActivity:
		return "Activité"
	case KindTraining:
		return "Entraînement"
	case KindCompetition:
		return "Compétition"
	default:
		return "Événement"
	}
}

func (k Kind) String() string {
	switch k {
	case KindActivity:
		return "activity"
	case KindTraining:
		return "training"
	case KindCompetition:
		return "competition"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Date is a civil calendar day with no time zone
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate reads the day part of an ISO date or local timestamp
// ("2026-01-15", "2026-01-15 07:30:00" or "2026-01-15T07:30:00")
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " T"); i >= 0 {
		s = s[:i]
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, fmt.Errorf("%q: %w", s, ErrInvalidDate)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar day of t in t's location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// IsZero reports whether d is the zero date
func (d Date) IsZero() bool {
	return d == Date{}
}

// Time returns midnight UTC of d
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Compare returns -1, 0 or +1 as d is before, equal to or after o
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(int(d.Month) - int(o.Month))
	default:
		return sign(d.Day - o.Day)
	}
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// String returns the ISO form, 2026-01-15
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Display returns the French form, 15/01/2026
func (d Date) Display() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, int(d.Month), d.Year)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

// Event is one calendar entry of any kind. Optional fields are nil when
// the source did not provide them.
type Event struct {
	Kind Kind
	ID   string
	Name string
	// Date is the ISO calendar date as provided by the source. It is
	// parsed during aggregation so malformed dates become warnings.
	Date  string
	Sport analysis.SportType

	DistanceMeters *float64
	LocationName   *string
	Description    *string

	// activities only
	DurationSeconds float64

	// trainings only, set by Reconcile
	LinkedActivityID   string
	LinkedActivityName string
}

// Day parses the event date
func (e Event) Day() (Date, error) {
	return ParseDate(e.Date)
}

package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidMonth is returned for a month outside 1..12
var ErrInvalidMonth = errors.New("month must be between 1 and 12")

// DaysPerWeek is the width of the month grid
const DaysPerWeek = 7

// DayCell is one real day of the month with its events, ordered
// activities, then trainings, then competitions
type DayCell struct {
	Day    int
	Date   Date
	Events []Event
}

// Cell is one slot of the Monday-first week layout. Blank cells pad the
// first and last week and never carry events.
type Cell struct {
	Blank bool
	DayCell
}

// Warning reports an event skipped during aggregation
type Warning struct {
	Kind   Kind
	ID     string
	Name   string
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s %q (%s): %s", w.Kind, w.Name, w.ID, w.Reason)
}

// Grid is the aggregated month
type Grid struct {
	Year     int
	Month    time.Month
	Days     []DayCell // Days[i].Day == i+1
	Warnings []Warning
}

// Aggregate places each event on the day of the month matching its date.
// Dates are compared as plain calendar days. Events outside the month are
// ignored; events with malformed dates are skipped and reported. The input
// slices are not modified.
func Aggregate(year int, month time.Month, activities, trainings, competitions []Event) (Grid, error) {
	if month < time.January || month > time.December {
		return Grid{}, fmt.Errorf("%d: %w", int(month), ErrInvalidMonth)
	}

	n := DaysInMonth(year, month)
	grid := Grid{
		Year:  year,
		Month: month,
		Days:  make([]DayCell, n),
	}
	for i := range grid.Days {
		grid.Days[i] = DayCell{
			Day:  i + 1,
			Date: Date{Year: year, Month: month, Day: i + 1},
		}
	}

	// group by day up front, one pass per list keeps the kind order
	streams := []struct {
		kind   Kind
		events []Event
	}{
		{KindActivity, activities},
		{KindTraining, trainings},
		{KindCompetition, competitions},
	}
	for _, s := range streams {
		for _, e := range s.events {
			e.Kind = s.kind
			d, err := e.Day()
			if err != nil {
				grid.Warnings = append(grid.Warnings, Warning{
					Kind:   e.Kind,
					ID:     e.ID,
					Name:   e.Name,
					Reason: err.Error(),
				})
				continue
			}
			if d.Year != year || d.Month != month {
				continue
			}
			cell := &grid.Days[d.Day-1]
			cell.Events = append(cell.Events, e)
		}
	}

	return grid, nil
}

// DaysInMonth returns the number of days of month in year
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// LeadingBlanks returns the number of blank cells before day 1 in a
// Monday-first week
func (g Grid) LeadingBlanks() int {
	first := time.Date(g.Year, g.Month, 1, 0, 0, 0, 0, time.UTC)
	return (int(first.Weekday()) + 6) % 7
}

// Day returns the cell of day d (1-based)
func (g Grid) Day(d int) (DayCell, bool) {
	if d < 1 || d > len(g.Days) {
		return DayCell{}, false
	}
	return g.Days[d-1], true
}

// EventCount returns the number of events placed in the month
func (g Grid) EventCount() int {
	total := 0
	for _, c := range g.Days {
		total += len(c.Events)
	}
	return total
}

// Weeks lays the month out in Monday-first rows of seven cells, padding
// the first and last row with blank cells
func (g Grid) Weeks() [][]Cell {
	lead := g.LeadingBlanks()
	total := lead + len(g.Days)
	if rem := total % DaysPerWeek; rem != 0 {
		total += DaysPerWeek - rem
	}

	cells := make([]Cell, total)
	for i := range cells {
		day := i - lead
		if day < 0 || day >= len(g.Days) {
			cells[i] = Cell{Blank: true}
			continue
		}
		cells[i] = Cell{DayCell: g.Days[day]}
	}

	weeks := make([][]Cell, 0, total/DaysPerWeek)
	for i := 0; i < total; i += DaysPerWeek {
		weeks = append(weeks, cells[i:i+DaysPerWeek])
	}
	return weeks
}

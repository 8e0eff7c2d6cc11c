package service

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"fitdash/internal/calendar"
	"fitdash/internal/store"
)

// MonthView is everything the calendar screen shows for one month
type MonthView struct {
	Grid      calendar.Grid
	CoachMode bool
	Upcoming  []calendar.Event
}

// Month loads, reconciles and aggregates the owner's events of a month.
// Upcoming lists the next trainings and competitions from today on.
func (q *QueryService) Month(owner, viewer string, year int, month time.Month, today calendar.Date) (*MonthView, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%d: %w", int(month), calendar.ErrInvalidMonth)
	}
	first := calendar.Date{Year: year, Month: month, Day: 1}
	last := calendar.Date{Year: year, Month: month, Day: calendar.DaysInMonth(year, month)}
	from, to := first.String(), last.String()

	acts, err := q.store.ListActivities(owner, from, to)
	if err != nil {
		return nil, fmt.Errorf("loading activities: %w", err)
	}
	trainings, err := q.store.ListTrainings(owner, from, to)
	if err != nil {
		return nil, fmt.Errorf("loading trainings: %w", err)
	}
	comps, err := q.store.ListCompetitions(owner, from, to)
	if err != nil {
		return nil, fmt.Errorf("loading competitions: %w", err)
	}

	activityEvents, trainingEvents := calendar.Reconcile(activityEvents(acts), plannedEvents(calendar.KindTraining, trainings))
	competitionEvents := plannedEvents(calendar.KindCompetition, comps)

	grid, err := calendar.Aggregate(year, month, activityEvents, trainingEvents, competitionEvents)
	if err != nil {
		return nil, err
	}
	for _, w := range grid.Warnings {
		log.Warnf("calendar %d-%02d: %s", year, month, w)
	}

	upcoming, err := q.Upcoming(owner, today, UpcomingEventsLimit)
	if err != nil {
		return nil, err
	}

	return &MonthView{
		Grid:      grid,
		CoachMode: calendar.CoachMode(viewer, owner),
		Upcoming:  upcoming,
	}, nil
}

// Upcoming returns the owner's next n trainings and competitions dated
// from on or after
func (q *QueryService) Upcoming(owner string, from calendar.Date, n int) ([]calendar.Event, error) {
	horizon := from.AddDays(366).String()
	trainings, err := q.store.ListTrainings(owner, from.String(), horizon)
	if err != nil {
		return nil, fmt.Errorf("loading trainings: %w", err)
	}
	comps, err := q.store.ListCompetitions(owner, from.String(), horizon)
	if err != nil {
		return nil, fmt.Errorf("loading competitions: %w", err)
	}
	return calendar.Upcoming(from, n,
		plannedEvents(calendar.KindTraining, trainings),
		plannedEvents(calendar.KindCompetition, comps),
	), nil
}

func activityEvents(acts []store.Activity) []calendar.Event {
	events := make([]calendar.Event, len(acts))
	for i, a := range acts {
		events[i] = calendar.Event{
			Kind:            calendar.KindActivity,
			ID:              a.ID,
			Name:            a.Name,
			Date:            a.Date(),
			Sport:           sportOf(a.Sport),
			DistanceMeters:  a.DistanceMeters,
			LocationName:    a.LocationName,
			Description:     a.Description,
			DurationSeconds: a.DurationSeconds,
		}
	}
	return events
}

// plannedEvents converts stored trainings or competitions. An empty sport
// stays empty so Reconcile infers it from the name.
func plannedEvents(kind calendar.Kind, planned []store.PlannedEvent) []calendar.Event {
	events := make([]calendar.Event, len(planned))
	for i, p := range planned {
		e := calendar.Event{
			Kind:           kind,
			ID:             p.ID,
			Name:           p.Name,
			Date:           p.Date,
			DistanceMeters: p.DistanceMeters,
			LocationName:   p.LocationName,
			Description:    p.Description,
		}
		if p.Sport != "" {
			e.Sport = sportOf(p.Sport)
		}
		events[i] = e
	}
	return events
}

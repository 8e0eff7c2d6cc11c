package calendar

import (
	"sort"

	"fitdash/internal/analysis"
)

type sportDay struct {
	date  Date
	sport analysis.SportType
}

// Reconcile prepares activities and trainings for display:
//   - activities with an ID already seen are dropped
//   - a training without a sport gets one inferred from its name
//   - a training is linked to the longest activity of the same day and sport
//   - an activity is hidden when a training exists for its day and sport
//
// Events of sport "other" are never linked or hidden. New slices are
// returned; the inputs are left untouched.
func Reconcile(activities, trainings []Event) ([]Event, []Event) {
	seen := make(map[string]bool, len(activities))
	unique := make([]Event, 0, len(activities))
	for _, a := range activities {
		if a.ID != "" {
			if seen[a.ID] {
				continue
			}
			seen[a.ID] = true
		}
		unique = append(unique, a)
	}

	longest := make(map[sportDay]int)
	for i, a := range unique {
		d, err := a.Day()
		if err != nil || a.Sport == analysis.SportOther || a.Sport == "" {
			continue
		}
		key := sportDay{d, a.Sport}
		if j, ok := longest[key]; !ok || a.DurationSeconds > unique[j].DurationSeconds {
			longest[key] = i
		}
	}

	planned := make(map[sportDay]bool)
	linked := make([]Event, 0, len(trainings))
	for _, t := range trainings {
		if t.Sport == "" || t.Sport == analysis.SportOther {
			t.Sport = analysis.InferSport(t.Name)
		}
		d, err := t.Day()
		if err == nil && t.Sport != analysis.SportOther {
			key := sportDay{d, t.Sport}
			planned[key] = true
			if j, ok := longest[key]; ok {
				t.LinkedActivityID = unique[j].ID
				t.LinkedActivityName = unique[j].Name
			}
		}
		linked = append(linked, t)
	}

	visible := make([]Event, 0, len(unique))
	for _, a := range unique {
		if d, err := a.Day(); err == nil && planned[sportDay{d, a.Sport}] {
			continue
		}
		visible = append(visible, a)
	}
	return visible, linked
}

// Upcoming returns at most n events dated on or after from, earliest
// first. Events of the same day keep their input order. Events with
// malformed dates are ignored.
func Upcoming(from Date, n int, events ...[]Event) []Event {
	type dated struct {
		date  Date
		event Event
	}

	var all []dated
	for _, list := range events {
		for _, e := range list {
			d, err := e.Day()
			if err != nil || d.Compare(from) < 0 {
				continue
			}
			all = append(all, dated{d, e})
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].date.Compare(all[j].date) < 0
	})

	if n >= 0 && len(all) > n {
		all = all[:n]
	}
	out := make([]Event, len(all))
	for i, d := range all {
		out[i] = d.event
	}
	return out
}

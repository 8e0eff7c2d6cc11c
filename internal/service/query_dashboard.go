package service

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/multierr"

	"fitdash/internal/analysis"
	"fitdash/internal/calendar"
	"fitdash/internal/chart"
	"fitdash/internal/store"
)

// Totals sums a set of activities
type Totals struct {
	Sport      analysis.SportType // empty for all sports
	Count      int
	DistanceKm float64
	Duration   time.Duration
}

func (t *Totals) add(a *store.Activity) {
	t.Count++
	t.Duration += seconds(a.DurationSeconds)
	if a.DistanceMeters != nil {
		t.DistanceKm += *a.DistanceMeters / MetersPerKm
	}
}

// Bucket is one point of the dashboard charts
type Bucket struct {
	Start      calendar.Date
	Hours      float64
	DistanceKm float64
}

// ZoneLoad is the time and distance spent in one heart rate zone
type ZoneLoad struct {
	Duration   time.Duration
	DistanceKm float64
}

// Dashboard summarises the owner's training over a period window
type Dashboard struct {
	Window calendar.Window
	Sport  analysis.SportType // chart filter, empty for all sports

	// Totals and BySport cover every sport whatever the filter
	Totals  Totals
	BySport []Totals

	// Buckets follow Window.Buckets, empty ones included
	Buckets []Bucket

	Zones         *analysis.ZoneBoundaries
	ZonesInferred bool // derived from the highest max HR seen in activities
	ZoneLoad      [analysis.ZoneCount]ZoneLoad
}

// HasZoneLoad reports whether any time was attributed to a zone
func (d *Dashboard) HasZoneLoad() bool {
	for _, z := range d.ZoneLoad {
		if z.Duration > 0 {
			return true
		}
	}
	return false
}

// Dashboard loads the owner's activities of the period around anchor. An
// empty sport charts every sport. A zone error is returned alongside a
// dashboard without zone load.
func (q *QueryService) Dashboard(owner string, period calendar.Period, anchor calendar.Date, sport analysis.SportType) (*Dashboard, error) {
	if sport != "" && !sport.IsValid() {
		return nil, fmt.Errorf("unknown sport %q", sport)
	}
	w := period.Window(anchor)
	acts, err := q.store.ListActivities(owner, w.Start.String(), w.Last().String())
	if err != nil {
		return nil, fmt.Errorf("loading activities: %w", err)
	}

	d := &Dashboard{Window: w, Sport: sport, Buckets: make([]Bucket, len(w.Buckets))}
	for i, start := range w.Buckets {
		d.Buckets[i].Start = start
	}

	bySport := map[analysis.SportType]*Totals{}
	for i := range acts {
		a := &acts[i]
		s := analysis.SportType(a.Sport)
		d.Totals.add(a)
		t, ok := bySport[s]
		if !ok {
			t = &Totals{Sport: s}
			bySport[s] = t
		}
		t.add(a)

		if sport != "" && s != sport {
			continue
		}
		if b, ok := w.Bucket(calendar.DateOf(a.StartTime)); ok {
			d.Buckets[b].Hours += a.DurationSeconds / SecondsPerHour
			if a.DistanceMeters != nil {
				d.Buckets[b].DistanceKm += *a.DistanceMeters / MetersPerKm
			}
		}
	}
	for _, t := range bySport {
		d.BySport = append(d.BySport, *t)
	}
	sort.Slice(d.BySport, func(i, j int) bool {
		if d.BySport[i].Duration != d.BySport[j].Duration {
			return d.BySport[i].Duration > d.BySport[j].Duration
		}
		return d.BySport[i].Sport < d.BySport[j].Sport
	})

	zones, inferred, err := q.dashboardZones(owner)
	if err != nil {
		return d, err
	}
	if zones == nil {
		return d, nil
	}
	d.Zones, d.ZonesInferred = zones, inferred

	var errs error
	for i := range acts {
		load, err := q.zoneLoad(&acts[i], *zones)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		for z := range load {
			d.ZoneLoad[z].Duration += load[z].Duration
			d.ZoneLoad[z].DistanceKm += load[z].DistanceKm
		}
	}
	return d, errs
}

// dashboardZones returns the owner's zones, or zones derived from the
// highest max HR of their activities when none are configured
func (q *QueryService) dashboardZones(owner string) (*analysis.ZoneBoundaries, bool, error) {
	zones, err := q.Zones(owner)
	if err != nil || zones != nil {
		return zones, false, err
	}
	maxHR, ok, err := q.store.MaxHeartrate(owner)
	if err != nil {
		return nil, false, fmt.Errorf("loading max heart rate: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	z := analysis.ZonesFromMaxHR(maxHR)
	return &z, true, nil
}

// zoneLoad splits one activity over the zones. With heart rate samples the
// time between samples goes to their zones and the distance follows the time
// share. Without samples the whole activity goes to the zone of its average
// heart rate, Z1 when unknown.
func (q *QueryService) zoneLoad(a *store.Activity, zones analysis.ZoneBoundaries) ([analysis.ZoneCount]ZoneLoad, error) {
	var load [analysis.ZoneCount]ZoneLoad
	dist := 0.0
	if a.DistanceMeters != nil {
		dist = *a.DistanceMeters / MetersPerKm
	}

	samples, err := q.store.GetSamples(a.ID, string(chart.MetricHeartRate))
	if err != nil {
		return load, fmt.Errorf("loading heart rate of %s: %w", a.ID, err)
	}
	times := make([]time.Time, len(samples))
	values := make([]float64, len(samples))
	for i, s := range samples {
		times[i], values[i] = s.Timestamp, s.Value
	}
	durations := analysis.DurationInZones(times, values, zones, analysis.MaxSampleGap)

	var total time.Duration
	for _, dur := range durations {
		total += dur
	}
	if total > 0 {
		for z, dur := range durations {
			load[z].Duration = dur
			load[z].DistanceKm = dist * float64(dur) / float64(total)
		}
		return load, nil
	}

	zone := analysis.Zone(1)
	if a.AverageHeartrate != nil {
		zone = zones.Classify(*a.AverageHeartrate)
	}
	load[zone-1] = ZoneLoad{Duration: seconds(a.DurationSeconds), DistanceKm: dist}
	return load, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

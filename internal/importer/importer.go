// Package importer loads JSON exports into the store.
package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"fitdash/internal/analysis"
	"fitdash/internal/calendar"
	"fitdash/internal/chart"
	"fitdash/internal/store"
)

// Result counts what an import stored
type Result struct {
	Activities   int
	Samples      int
	Trainings    int
	Competitions int
	Zones        bool
	HealthStats  int
	Skipped      int
}

func (r Result) String() string {
	return fmt.Sprintf("%d activities (%d samples), %d trainings, %d competitions, zones: %t, %d health values, skipped: %d",
		r.Activities, r.Samples, r.Trainings, r.Competitions, r.Zones, r.HealthStats, r.Skipped)
}

// Importer writes exported items for one owner
type Importer struct {
	store *store.Store
	owner string
}

func New(s *store.Store, owner string) *Importer {
	return &Importer{store: s, owner: strings.TrimSpace(owner)}
}

// ImportDir imports every known export file found in dir. Missing files
// are skipped. A broken file does not stop the others; all file errors
// are returned combined.
func (im *Importer) ImportDir(dir string) (*Result, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("import dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("import dir %s is not a directory", dir)
	}

	res := &Result{}
	var errs error

	steps := []struct {
		file string
		fn   func(data []byte, res *Result) error
	}{
		{ActivitiesFile, im.importActivities},
		{TrainingsFile, im.importTrainings},
		{CompetitionsFile, im.importCompetitions},
		{ZonesFile, im.importZones},
		{HealthFile, im.importHealth},
	}
	for _, step := range steps {
		path := filepath.Join(dir, step.file)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			log.Debugf("import: %s not found, skipping", path)
			continue
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("reading %s: %w", step.file, err))
			continue
		}
		if err := step.fn(data, res); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("importing %s: %w", step.file, err))
		}
	}

	if err := im.store.SetImportState(store.StateLastImport, time.Now().UTC().Format(time.RFC3339)); err != nil {
		errs = multierr.Append(errs, err)
	}
	if err := im.store.SetImportState(store.StateLastImportDir, dir); err != nil {
		errs = multierr.Append(errs, err)
	}

	log.Infof("import from %s: %s", dir, res)
	return res, errs
}

func (im *Importer) importActivities(data []byte, res *Result) error {
	var items []activityJSON
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("parsing: %w", err)
	}

	for _, item := range items {
		a, err := im.activity(item)
		if err != nil {
			log.Warnf("import: skipping activity %q: %s", item.ActivityID, err)
			res.Skipped++
			continue
		}
		if err := im.store.UpsertActivity(a); err != nil {
			return fmt.Errorf("storing activity %s: %w", a.ID, err)
		}
		res.Activities++

		if len(item.Samples) == 0 {
			continue
		}
		samples := make([]store.Sample, 0, len(item.Samples))
		for _, s := range item.Samples {
			ts, err := parseTime(s.Time)
			if err != nil || s.Metric == "" {
				res.Skipped++
				continue
			}
			samples = append(samples, store.Sample{Metric: s.Metric, Timestamp: ts, Value: s.Value})
		}
		if err := im.store.SaveSamples(a.ID, samples); err != nil {
			return fmt.Errorf("storing samples of %s: %w", a.ID, err)
		}
		res.Samples += len(samples)
	}
	return nil
}

func (im *Importer) activity(item activityJSON) (*store.Activity, error) {
	if item.ActivityID == "" {
		return nil, errors.New("missing activityId")
	}
	start := item.StartTimeLocal
	if start == "" {
		start = item.StartTimeGMT
	}
	st, err := parseTime(start)
	if err != nil {
		return nil, err
	}
	name := item.ActivityName
	if name == "" {
		name = item.Name
	}

	return &store.Activity{
		ID:               string(item.ActivityID),
		Owner:            im.owner,
		Name:             name,
		Sport:            string(analysis.CanonicalSport(item.ActivityType.TypeKey)),
		StartTime:        st,
		DurationSeconds:  item.Duration,
		DistanceMeters:   item.Distance,
		AverageHeartrate: item.AverageHR,
		MaxHeartrate:     item.MaxHR,
		LocationName:     item.LocationName,
		Description:      item.Description,
	}, nil
}

func (im *Importer) importTrainings(data []byte, res *Result) error {
	var items []trainingJSON
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("parsing: %w", err)
	}

	for _, item := range items {
		if !im.belongs(item.UserID) {
			continue
		}
		title := firstNonEmpty(item.Title, item.Name, "Entraînement")
		id := firstNonEmpty(string(item.ID), string(item.TrainingID))
		if id == "" {
			id = stableID("training", title, item.Date)
		}
		km := item.DistanceKm
		if km == nil {
			km = item.Distance
		}

		e := &store.PlannedEvent{
			ID:             id,
			Owner:          im.owner,
			Name:           title,
			Sport:          sportKey(firstNonEmpty(item.Sport, item.SportKey)),
			Date:           strings.TrimSpace(item.Date),
			DistanceMeters: kmToMeters(km),
			LocationName:   item.Location,
			Description:    item.Description,
		}
		if err := im.store.UpsertTraining(e); err != nil {
			return fmt.Errorf("storing training %s: %w", id, err)
		}
		res.Trainings++
	}
	return nil
}

func (im *Importer) importCompetitions(data []byte, res *Result) error {
	var items []competitionJSON
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("parsing: %w", err)
	}

	for _, item := range items {
		if !im.belongs(item.UserID) {
			continue
		}
		name := firstNonEmpty(item.Name, "Compétition")
		id := string(item.ID)
		if id == "" {
			loc := ""
			if item.Location != nil {
				loc = *item.Location
			}
			id = stableID("competition", name, item.Date, loc)
		}

		e := &store.PlannedEvent{
			ID:             id,
			Owner:          im.owner,
			Name:           name,
			Sport:          sportKey(item.Sport),
			Date:           strings.TrimSpace(item.Date),
			DistanceMeters: kmToMeters(item.Distance),
			LocationName:   item.Location,
			Description:    item.Description,
		}
		if err := im.store.UpsertCompetition(e); err != nil {
			return fmt.Errorf("storing competition %s: %w", id, err)
		}
		res.Competitions++
	}
	return nil
}

func (im *Importer) importZones(data []byte, res *Result) error {
	var z zonesJSON
	if err := json.Unmarshal(data, &z); err != nil {
		return fmt.Errorf("parsing: %w", err)
	}
	if len(z.Zones) != analysis.ZoneCount {
		return fmt.Errorf("expected %d zone bounds, got %d", analysis.ZoneCount, len(z.Zones))
	}

	var zones analysis.ZoneBoundaries
	copy(zones[:], z.Zones)
	if err := zones.Validate(); err != nil {
		return err
	}
	if err := im.store.SaveZones(im.owner, zones); err != nil {
		return err
	}
	res.Zones = true
	return nil
}

func (im *Importer) importHealth(data []byte, res *Result) error {
	var days []healthJSON
	if err := json.Unmarshal(data, &days); err != nil {
		return fmt.Errorf("parsing: %w", err)
	}

	var stats []store.HealthStat
	for _, d := range days {
		date, err := calendar.ParseDate(firstNonEmpty(d.Date, d.CalendarDate))
		if err != nil {
			log.Warnf("import: skipping health day %q: %s", d.Date, err)
			res.Skipped++
			continue
		}
		values := []struct {
			metric chart.MetricKind
			v      *float64
			scale  float64
		}{
			{chart.MetricRestingHR, d.RestingHeartRate, 1},
			{chart.MetricSteps, d.TotalSteps, 1},
			{chart.MetricBodyBattery, d.BodyBattery, 1},
			{chart.MetricStress, d.TotalStressDuration, 1 / 60.0},
			{chart.MetricSpO2, d.AverageSpo2, 1},
			{chart.MetricRespiration, d.AvgRespiration, 1},
			{chart.MetricCaloriesTotal, d.TotalKilocalories, 1},
			{chart.MetricCaloriesActive, d.ActiveKilocalories, 1},
		}
		for _, v := range values {
			if v.v == nil {
				continue
			}
			stats = append(stats, store.HealthStat{
				Owner:  im.owner,
				Date:   date.String(),
				Metric: string(v.metric),
				Value:  *v.v * v.scale,
			})
		}
	}

	if err := im.store.SaveHealthStats(stats); err != nil {
		return fmt.Errorf("storing health stats: %w", err)
	}
	res.HealthStats += len(stats)
	return nil
}

// belongs reports whether an item without owner or owned by im.owner
// should be imported
func (im *Importer) belongs(userID string) bool {
	uid := strings.TrimSpace(userID)
	return uid == "" || strings.EqualFold(uid, im.owner)
}

// sportKey canonicalises a sport, keeping empty for "let the calendar infer"
func sportKey(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || s == string(analysis.SportOther) {
		return ""
	}
	sport, err := analysis.ParseSport(s)
	if err != nil {
		sport = analysis.CanonicalSport(s)
	}
	if sport == analysis.SportOther {
		return ""
	}
	return string(sport)
}

func kmToMeters(km *float64) *float64 {
	if km == nil {
		return nil
	}
	m := *km * 1000
	return &m
}

func stableID(parts ...string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(strings.Join(parts, "|")))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

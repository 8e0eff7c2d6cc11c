package service

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"fitdash/internal/analysis"
	"fitdash/internal/chart"
	"fitdash/internal/config"
	"fitdash/internal/store"
)

// QueryService provides read-only queries for the TUI and the CLI
type QueryService struct {
	store  *store.Store
	charts *chart.Cache
	cfg    *config.Config
}

// NewQueryService creates a new query service. A nil cache gets a default
// one sized from cfg.
func NewQueryService(s *store.Store, charts *chart.Cache, cfg *config.Config) *QueryService {
	if cfg == nil {
		def := config.DefaultConfig()
		cfg = &def
	}
	if charts == nil {
		charts = chart.NewCache(chart.NewBuilder(nil), cfg.Cache.SizeMB, cfg.Cache.TTLSeconds)
	}
	return &QueryService{store: s, charts: charts, cfg: cfg}
}

// Owner returns the configured data owner
func (q *QueryService) Owner() string {
	return q.cfg.Identity.Owner
}

// Viewer returns the configured viewer, the owner when unset
func (q *QueryService) Viewer() string {
	if q.cfg.Identity.Viewer == "" {
		return q.cfg.Identity.Owner
	}
	return q.cfg.Identity.Viewer
}

// Charts returns the chart cache
func (q *QueryService) Charts() *chart.Cache {
	return q.charts
}

// Zones returns the owner's imported zones, falling back to the ones
// derived from the config. Nil means no zones are known.
func (q *QueryService) Zones(owner string) (*analysis.ZoneBoundaries, error) {
	z, err := q.store.GetZones(owner)
	if err == nil {
		return &z, nil
	}
	if !errors.Is(err, store.ErrNoZones) {
		return nil, fmt.Errorf("loading zones: %w", err)
	}
	return q.cfg.ZoneBoundaries()
}

// ActivityCharts holds the per-metric charts of one activity
type ActivityCharts struct {
	Activity store.Activity
	Sport    analysis.SportType
	Charts   []*chart.Spec

	// sample counts per zone of the heart rate chart, set when zones are known
	TimeInZones    [analysis.ZoneCount]int
	HasTimeInZones bool
}

// ActivityCharts builds one chart per recorded metric that applies to the
// activity's sport, in the sport's display order. Each chart is built
// independently: failed charts are left out and their errors returned
// combined alongside the charts that did build.
func (q *QueryService) ActivityCharts(activityID string) (*ActivityCharts, error) {
	a, err := q.store.GetActivity(activityID)
	if err != nil {
		return nil, err
	}
	sport := sportOf(a.Sport)

	// a zone error only costs the heart rate chart
	zones, zonesErr := q.Zones(a.Owner)

	recorded, err := q.store.ListSampleMetrics(a.ID)
	if err != nil {
		return nil, fmt.Errorf("listing metrics of %s: %w", a.ID, err)
	}
	has := make(map[string]bool, len(recorded))
	for _, m := range recorded {
		has[m] = true
	}

	out := &ActivityCharts{Activity: *a, Sport: sport}
	var errs error
	for _, metric := range chart.MetricsForSport(sport) {
		if !has[string(metric)] {
			continue
		}
		if metric == chart.MetricHeartRate && zonesErr != nil {
			errs = multierr.Append(errs, fmt.Errorf("building %s chart: %w", metric, zonesErr))
			continue
		}
		spec, err := q.activityChart(a.ID, metric, sport, zones)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		out.Charts = append(out.Charts, spec)
		if spec.ZoneColored {
			out.TimeInZones = analysis.TimeInZones(spec.Values(), *zones)
			out.HasTimeInZones = true
		}
	}
	return out, errs
}

func (q *QueryService) activityChart(
	activityID string,
	metric chart.MetricKind,
	sport analysis.SportType,
	zones *analysis.ZoneBoundaries,
) (*chart.Spec, error) {
	rows, err := q.store.GetSamples(activityID, string(metric))
	if err != nil {
		return nil, fmt.Errorf("loading %s samples: %w", metric, err)
	}
	samples := make([]chart.Sample, len(rows))
	for i, r := range rows {
		samples[i] = chart.Sample{Timestamp: r.Timestamp, Metric: metric, Value: r.Value}
	}

	spec, err := q.charts.Build(chart.Request{
		Samples: samples,
		Metric:  metric,
		Sport:   sport,
		Zones:   zones,
	})
	if err != nil {
		return nil, err
	}
	for _, w := range spec.Warnings {
		log.Debugf("activity %s %s chart: %s", activityID, metric, w)
	}
	return spec, nil
}

// sportOf parses a stored sport, unknown values are "other"
func sportOf(s string) analysis.SportType {
	sport, err := analysis.ParseSport(s)
	if err != nil {
		return analysis.SportOther
	}
	return sport
}

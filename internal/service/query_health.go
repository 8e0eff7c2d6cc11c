package service

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"fitdash/internal/analysis"
	"fitdash/internal/calendar"
	"fitdash/internal/chart"
)

// ErrNotHealthMetric is returned when a health chart is asked for an
// activity metric
var ErrNotHealthMetric = errors.New("not a daily health metric")

// HealthChart charts one daily health value over the last four years up to
// today, with a rolling mean band
func (q *QueryService) HealthChart(owner string, metric chart.MetricKind, today calendar.Date) (*chart.Spec, error) {
	if !metric.IsHealth() {
		return nil, fmt.Errorf("%w: %s", ErrNotHealthMetric, metric)
	}
	from := today.AddDays(-HealthLookbackDays)
	stats, err := q.store.ListHealthStats(owner, string(metric), from.String(), today.String())
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", metric, err)
	}

	samples := make([]chart.Sample, 0, len(stats))
	for _, h := range stats {
		d, err := calendar.ParseDate(h.Date)
		if err != nil {
			return nil, err
		}
		samples = append(samples, chart.Sample{Timestamp: d.Time(), Metric: metric, Value: h.Value})
	}

	info, _ := metric.Info()
	return q.charts.Build(chart.Request{
		Samples:       samples,
		Metric:        metric,
		Sport:         analysis.SportOther,
		Title:         fmt.Sprintf("%s (4 dernières années)", info.Title),
		Rolling:       true,
		RollingWindow: q.cfg.Display.HealthRollingWindow,
	})
}

// HealthCharts builds the chart of every health metric that has data.
// Failed charts are left out and their errors returned combined.
func (q *QueryService) HealthCharts(owner string, today calendar.Date) ([]*chart.Spec, error) {
	var specs []*chart.Spec
	var errs error
	for _, metric := range chart.HealthMetrics() {
		spec, err := q.HealthChart(owner, metric, today)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("building %s chart: %w", metric, err))
			continue
		}
		if len(spec.Points) == 0 {
			continue
		}
		specs = append(specs, spec)
	}
	return specs, errs
}

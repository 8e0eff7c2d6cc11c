package service

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"fitdash/internal/analysis"
	"fitdash/internal/chart"
	"fitdash/internal/store"
)

// ErrNoSummary is returned when a metric has no per-activity summary
var ErrNoSummary = errors.New("metric has no activity summary")

// trendMetrics are the metrics summarised per activity, in display order
var trendMetrics = []chart.MetricKind{
	chart.MetricDistance,
	chart.MetricDuration,
	chart.MetricPacePerKm,
	chart.MetricPacePer100m,
	chart.MetricHeartRate,
	chart.MetricSpeed,
}

// TrendChart charts one summary value per activity of the owner's most
// recent activities of a sport, with a rolling mean band
func (q *QueryService) TrendChart(owner string, sport analysis.SportType, metric chart.MetricKind) (*chart.Spec, error) {
	if err := chart.CheckSupported(metric, sport); err != nil {
		return nil, err
	}
	activities, err := q.store.ListActivitiesBySport(owner, string(sport), TrendActivitiesLimit)
	if err != nil {
		return nil, fmt.Errorf("loading %s activities: %w", sport, err)
	}
	return q.trendChart(activities, sport, metric)
}

// TrendCharts builds every trend chart that applies to sport. Failed charts
// are left out and their errors returned combined.
func (q *QueryService) TrendCharts(owner string, sport analysis.SportType) ([]*chart.Spec, error) {
	activities, err := q.store.ListActivitiesBySport(owner, string(sport), TrendActivitiesLimit)
	if err != nil {
		return nil, fmt.Errorf("loading %s activities: %w", sport, err)
	}

	var specs []*chart.Spec
	var errs error
	for _, metric := range trendMetrics {
		if chart.CheckSupported(metric, sport) != nil {
			continue
		}
		spec, err := q.trendChart(activities, sport, metric)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		specs = append(specs, spec)
	}
	return specs, errs
}

func (q *QueryService) trendChart(activities []store.Activity, sport analysis.SportType, metric chart.MetricKind) (*chart.Spec, error) {
	samples := make([]chart.Sample, 0, len(activities))
	for i := range activities {
		v, ok, err := SummaryValue(&activities[i], metric)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		samples = append(samples, chart.Sample{
			Timestamp: activities[i].StartTime,
			Metric:    metric,
			Value:     v,
		})
	}

	info, _ := metric.Info()
	return q.charts.Build(chart.Request{
		Samples:       samples,
		Metric:        metric,
		Sport:         sport,
		Title:         fmt.Sprintf("%s - %s", info.Title, sport.Label()),
		Rolling:       true,
		RollingWindow: q.cfg.Display.RollingWindow,
	})
}

// SummaryValue returns the value of metric summarising a whole activity.
// ok is false when the activity lacks the data (no distance, no HR).
func SummaryValue(a *store.Activity, metric chart.MetricKind) (v float64, ok bool, err error) {
	dist := 0.0
	if a.DistanceMeters != nil {
		dist = *a.DistanceMeters
	}

	switch metric {
	case chart.MetricDistance:
		return dist / MetersPerKm, a.DistanceMeters != nil, nil
	case chart.MetricDuration:
		return a.DurationSeconds / SecondsPerMinute, a.DurationSeconds > 0, nil
	case chart.MetricPacePerKm:
		if dist < MinDistanceForPace || a.DurationSeconds <= 0 {
			return 0, false, nil
		}
		return (a.DurationSeconds / SecondsPerMinute) / (dist / MetersPerKm), true, nil
	case chart.MetricPacePer100m:
		if dist < MinDistanceForPace || a.DurationSeconds <= 0 {
			return 0, false, nil
		}
		return (a.DurationSeconds / SecondsPerMinute) / (dist / 100), true, nil
	case chart.MetricSpeed:
		if dist < MinDistanceForPace || a.DurationSeconds <= 0 {
			return 0, false, nil
		}
		return (dist / MetersPerKm) / (a.DurationSeconds / SecondsPerHour), true, nil
	case chart.MetricHeartRate:
		if a.AverageHeartrate == nil {
			return 0, false, nil
		}
		return *a.AverageHeartrate, true, nil
	}
	return 0, false, fmt.Errorf("%w: %s", ErrNoSummary, metric)
}

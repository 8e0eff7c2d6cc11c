package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitdash/internal/analysis"
	"fitdash/internal/calendar"
	"fitdash/internal/chart"
	"fitdash/internal/config"
	"fitdash/internal/store"
)

var dashboardAnchor = calendar.Date{Year: 2026, Month: time.January, Day: 15}

// heartRateEvery returns heart rate samples step apart
func heartRateEvery(step time.Duration, values ...float64) []store.Sample {
	t0 := time.Date(2026, 1, 15, 7, 30, 0, 0, time.UTC)
	samples := make([]store.Sample, len(values))
	for i, v := range values {
		samples[i] = store.Sample{Metric: "heart_rate", Timestamp: t0.Add(time.Duration(i) * step), Value: v}
	}
	return samples
}

func seedDashboard(t *testing.T, s *store.Store) {
	t.Helper()
	addActivity(t, s, "1", "running", "2026-01-15 07:30:00", 1800, 5000, nil)
	saveSamples(t, s, "1", heartRateEvery(10*time.Second, 110, 110, 150, 150, 150))
	addActivity(t, s, "2", "cycling", "2026-01-12 18:00:00", 3600, 30000, ptr(170.0))
	addActivity(t, s, "3", "running", "2026-01-01 08:00:00", 1200, 4000, nil)
}

func TestDashboard_Week(t *testing.T) {
	q, s := newTestService(t)
	require.NoError(t, s.SaveZones("alice", analysis.ZoneBoundaries{120, 140, 160, 180, 200}))
	seedDashboard(t, s)

	d, err := q.Dashboard("alice", calendar.PeriodWeek, dashboardAnchor, "")
	require.NoError(t, err)

	assert.Equal(t, 2, d.Totals.Count, "the 1 January run is outside the window")
	assert.InDelta(t, 35.0, d.Totals.DistanceKm, 1e-9)
	assert.Equal(t, 90*time.Minute, d.Totals.Duration)

	require.Len(t, d.BySport, 2)
	assert.Equal(t, analysis.SportCycling, d.BySport[0].Sport)
	assert.Equal(t, analysis.SportRunning, d.BySport[1].Sport)

	require.Len(t, d.Buckets, 7)
	assert.Equal(t, calendar.Date{Year: 2026, Month: time.January, Day: 12}, d.Buckets[3].Start)
	assert.InDelta(t, 1.0, d.Buckets[3].Hours, 1e-9)
	assert.InDelta(t, 0.5, d.Buckets[6].Hours, 1e-9)
	assert.Zero(t, d.Buckets[0].Hours)

	require.NotNil(t, d.Zones)
	assert.False(t, d.ZonesInferred)
	assert.True(t, d.HasZoneLoad())
	// samples 10 s apart: 10 s in Z1, 30 s in Z3, the distance split by time
	assert.Equal(t, 10*time.Second, d.ZoneLoad[0].Duration)
	assert.InDelta(t, 1.25, d.ZoneLoad[0].DistanceKm, 1e-9)
	assert.Equal(t, 30*time.Second, d.ZoneLoad[2].Duration)
	assert.InDelta(t, 3.75, d.ZoneLoad[2].DistanceKm, 1e-9)
	// no samples: the whole ride goes to the zone of its average heart rate
	assert.Equal(t, time.Hour, d.ZoneLoad[3].Duration)
	assert.InDelta(t, 30.0, d.ZoneLoad[3].DistanceKm, 1e-9)
}

func TestDashboard_SportFilterOnlyCharts(t *testing.T) {
	q, s := newTestService(t)
	seedDashboard(t, s)

	d, err := q.Dashboard("alice", calendar.PeriodWeek, dashboardAnchor, analysis.SportRunning)
	require.NoError(t, err)

	assert.Equal(t, 2, d.Totals.Count)
	assert.Zero(t, d.Buckets[3].Hours, "the ride is filtered out of the charts")
	assert.InDelta(t, 5.0, d.Buckets[6].DistanceKm, 1e-9)

	_, err = q.Dashboard("alice", calendar.PeriodWeek, dashboardAnchor, "curling")
	assert.Error(t, err)
}

func TestDashboard_MonthBuckets(t *testing.T) {
	q, s := newTestService(t)
	seedDashboard(t, s)

	d, err := q.Dashboard("alice", calendar.PeriodMonth, dashboardAnchor, "")
	require.NoError(t, err)
	assert.Equal(t, 3, d.Totals.Count)
	require.Len(t, d.Buckets, 4)
	// weeks of 22 and 29 December, 5 and 12 January
	assert.InDelta(t, 4.0, d.Buckets[1].DistanceKm, 1e-9)
	assert.InDelta(t, 35.0, d.Buckets[3].DistanceKm, 1e-9)
}

func TestDashboard_InferredZones(t *testing.T) {
	s := store.NewTestStore(t)
	q := NewQueryService(s, nil, &config.Config{})

	start, err := time.Parse(store.LocalTimeLayout, "2026-01-14 07:30:00")
	require.NoError(t, err)
	require.NoError(t, s.UpsertActivity(&store.Activity{
		ID: "1", Owner: "alice", Sport: "running", StartTime: start,
		DurationSeconds: 600, AverageHeartrate: ptr(160.0), MaxHeartrate: ptr(190.0),
	}))

	d, err := q.Dashboard("alice", calendar.PeriodWeek, dashboardAnchor, "")
	require.NoError(t, err)
	require.NotNil(t, d.Zones)
	assert.True(t, d.ZonesInferred)
	assert.Equal(t, analysis.ZonesFromMaxHR(190), *d.Zones)
	assert.Equal(t, 10*time.Minute, d.ZoneLoad[3].Duration, "160 bpm is Z4 of a 190 max")
}

func TestDashboard_NoZones(t *testing.T) {
	s := store.NewTestStore(t)
	q := NewQueryService(s, nil, &config.Config{})
	addActivity(t, s, "1", "running", "2026-01-15 07:30:00", 1800, 5000, nil)

	d, err := q.Dashboard("alice", calendar.PeriodWeek, dashboardAnchor, "")
	require.NoError(t, err)
	assert.Nil(t, d.Zones)
	assert.False(t, d.HasZoneLoad())
	assert.Equal(t, 1, d.Totals.Count)
}

func TestDashboard_ZoneErrorKeepsTotals(t *testing.T) {
	s := store.NewTestStore(t)
	cfg := config.DefaultConfig()
	cfg.Athlete.Zones = []float64{200, 180, 160, 140, 120}
	q := NewQueryService(s, nil, &cfg)
	addActivity(t, s, "1", "running", "2026-01-15 07:30:00", 1800, 5000, nil)

	d, err := q.Dashboard("alice", calendar.PeriodWeek, dashboardAnchor, "")
	assert.ErrorIs(t, err, analysis.ErrZonesNotAscending)
	require.NotNil(t, d)
	assert.Equal(t, 1, d.Totals.Count)
	assert.False(t, d.HasZoneLoad())
}

func TestHealthChart(t *testing.T) {
	q, s := newTestService(t)
	require.NoError(t, s.SaveHealthStats([]store.HealthStat{
		{Owner: "alice", Date: "2020-01-01", Metric: "steps", Value: 500},
		{Owner: "alice", Date: "2026-01-10", Metric: "steps", Value: 9000},
		{Owner: "alice", Date: "2026-01-12", Metric: "steps", Value: 11000},
		{Owner: "alice", Date: "2026-01-12", Metric: "resting_heart_rate", Value: 48},
	}))

	spec, err := q.HealthChart("alice", chart.MetricSteps, dashboardAnchor)
	require.NoError(t, err)
	assert.Equal(t, analysis.SportOther, spec.Sport)
	assert.Contains(t, spec.Title, "Pas")
	require.Len(t, spec.Points, 2, "2020 is older than four years")
	assert.Equal(t, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), spec.Points[0].Time)
	require.Len(t, spec.Rolling, 2)
	assert.InDelta(t, 10000.0, spec.Rolling[1].Mean, 1e-9)

	_, err = q.HealthChart("alice", chart.MetricPower, dashboardAnchor)
	assert.ErrorIs(t, err, ErrNotHealthMetric)
}

func TestHealthCharts_SkipsMetricsWithoutData(t *testing.T) {
	q, s := newTestService(t)
	require.NoError(t, s.SaveHealthStats([]store.HealthStat{
		{Owner: "alice", Date: "2026-01-12", Metric: "steps", Value: 11000},
		{Owner: "alice", Date: "2026-01-12", Metric: "resting_heart_rate", Value: 48},
	}))

	specs, err := q.HealthCharts("alice", dashboardAnchor)
	require.NoError(t, err)
	require.Len(t, specs, 2)
	// display order
	assert.Equal(t, chart.MetricRestingHR, specs[0].Metric)
	assert.Equal(t, chart.MetricSteps, specs[1].Metric)
}

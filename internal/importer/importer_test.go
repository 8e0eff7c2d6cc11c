package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitdash/internal/analysis"
	"fitdash/internal/chart"
	"fitdash/internal/store"
)

const activitiesExport = `[
  {
    "activityId": 1001,
    "activityName": "Footing",
    "startTimeLocal": "2026-01-15 07:30:00",
    "activityType": {"typeKey": "trail_running"},
    "duration": 1800.5,
    "distance": 5230.0,
    "averageHR": 142,
    "maxHR": 171,
    "samples": [
      {"time": "2026-01-15T06:30:00Z", "metric": "heart_rate", "value": 120},
      {"time": "2026-01-15T06:31:00Z", "metric": "heart_rate", "value": 140},
      {"time": "not a time", "metric": "heart_rate", "value": 150}
    ]
  },
  {
    "activityId": "abc",
    "name": "Piscine",
    "startTimeGMT": "2026-01-16T18:00:00Z",
    "activityType": {"typeKey": "lap_swimming"},
    "duration": 2400
  },
  {
    "activityName": "No id",
    "startTimeLocal": "2026-01-17 07:30:00"
  }
]`

const trainingsExport = `[
  {"id": "t1", "title": "Course au seuil", "date": "2026-01-15", "distance_km": 10},
  {"training_id": 7, "name": "Vélo", "date": "2026-01-18", "sport_key": "road_biking", "distance": 40},
  {"title": "Sans id", "date": "2026-01-19", "sport": "other"},
  {"id": "t9", "title": "Someone else", "date": "2026-01-19", "user_id": "bob"}
]`

const competitionsExport = `[
  {"name": "10 km de Paris", "date": "2026-01-20", "location": "Paris", "distance": 10, "sport": "running", "user_id": "ALICE"}
]`

const healthExport = `[
  {"date": "2026-01-14", "restingHeartRate": 48, "totalSteps": 10400, "totalStressDuration": 3600, "averageSpo2": null},
  {"calendarDate": "2026-01-15", "restingHeartRate": 50, "avgWakingRespirationValue": 14.5},
  {"date": "hier", "totalSteps": 100}
]`

func writeExport(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0600))
}

func TestImportDir(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, ActivitiesFile, activitiesExport)
	writeExport(t, dir, TrainingsFile, trainingsExport)
	writeExport(t, dir, CompetitionsFile, competitionsExport)
	writeExport(t, dir, ZonesFile, `{"zones": [120, 140, 160, 180, 200]}`)

	s := store.NewTestStore(t)
	res, err := New(s, "alice").ImportDir(dir)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Activities)
	assert.Equal(t, 2, res.Samples)
	assert.Equal(t, 3, res.Trainings)
	assert.Equal(t, 1, res.Competitions)
	assert.True(t, res.Zones)
	assert.Equal(t, 2, res.Skipped, "one activity without id, one sample with a bad time")

	a, err := s.GetActivity("1001")
	require.NoError(t, err)
	assert.Equal(t, "running", a.Sport)
	assert.Equal(t, "alice", a.Owner)
	require.NotNil(t, a.DistanceMeters)
	assert.Equal(t, 5230.0, *a.DistanceMeters)
	require.NotNil(t, a.MaxHeartrate)
	assert.Equal(t, 171.0, *a.MaxHeartrate)

	swim, err := s.GetActivity("abc")
	require.NoError(t, err)
	assert.Equal(t, "swimming", swim.Sport)
	assert.Equal(t, "Piscine", swim.Name)

	trainings, err := s.ListTrainings("alice", "2026-01-01", "2026-01-31")
	require.NoError(t, err)
	require.Len(t, trainings, 3)
	assert.Equal(t, "", trainings[0].Sport, "no sport, left for inference")
	require.NotNil(t, trainings[0].DistanceMeters)
	assert.Equal(t, 10000.0, *trainings[0].DistanceMeters)
	assert.Equal(t, "7", trainings[1].ID)
	assert.Equal(t, "cycling", trainings[1].Sport)
	assert.Len(t, trainings[2].ID, 16, "generated stable id")

	comps, err := s.ListCompetitions("alice", "2026-01-01", "2026-01-31")
	require.NoError(t, err)
	require.Len(t, comps, 1)
	assert.Equal(t, "running", comps[0].Sport)

	zones, err := s.GetZones("alice")
	require.NoError(t, err)
	assert.Equal(t, analysis.ZoneBoundaries{120, 140, 160, 180, 200}, zones)

	last, err := s.GetImportState(store.StateLastImportDir)
	require.NoError(t, err)
	assert.Equal(t, dir, last)
}

func TestImportDir_Health(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, HealthFile, healthExport)

	s := store.NewTestStore(t)
	res, err := New(s, "alice").ImportDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 5, res.HealthStats, "null and missing values are left out")
	assert.Equal(t, 1, res.Skipped, "one day without a valid date")

	resting, err := s.ListHealthStats("alice", string(chart.MetricRestingHR), "2026-01-01", "2026-01-31")
	require.NoError(t, err)
	require.Len(t, resting, 2)
	assert.Equal(t, "2026-01-14", resting[0].Date)
	assert.Equal(t, 50.0, resting[1].Value)

	stress, err := s.ListHealthStats("alice", string(chart.MetricStress), "2026-01-01", "2026-01-31")
	require.NoError(t, err)
	require.Len(t, stress, 1)
	assert.Equal(t, 60.0, stress[0].Value, "stress is stored in minutes")

	spo2, err := s.ListHealthStats("alice", string(chart.MetricSpO2), "2026-01-01", "2026-01-31")
	require.NoError(t, err)
	assert.Empty(t, spo2)

	// a re-import updates values in place
	_, err = New(s, "alice").ImportDir(dir)
	require.NoError(t, err)
	resting, err = s.ListHealthStats("alice", string(chart.MetricRestingHR), "2026-01-01", "2026-01-31")
	require.NoError(t, err)
	assert.Len(t, resting, 2)
}

func TestImportDir_Idempotent(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, TrainingsFile, trainingsExport)
	writeExport(t, dir, CompetitionsFile, competitionsExport)

	s := store.NewTestStore(t)
	im := New(s, "alice")
	_, err := im.ImportDir(dir)
	require.NoError(t, err)
	_, err = im.ImportDir(dir)
	require.NoError(t, err)

	trainings, err := s.ListTrainings("alice", "2026-01-01", "2026-01-31")
	require.NoError(t, err)
	assert.Len(t, trainings, 3)
	comps, err := s.ListCompetitions("alice", "2026-01-01", "2026-01-31")
	require.NoError(t, err)
	assert.Len(t, comps, 1)
}

func TestImportDir_BrokenFilesAreCombined(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, ActivitiesFile, `{not json`)
	writeExport(t, dir, ZonesFile, `{"zones": [200, 180, 160, 140, 120]}`)
	writeExport(t, dir, CompetitionsFile, competitionsExport)

	s := store.NewTestStore(t)
	res, err := New(s, "alice").ImportDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ActivitiesFile)
	assert.ErrorIs(t, err, analysis.ErrZonesNotAscending)

	// the valid file was still imported
	assert.Equal(t, 1, res.Competitions)
	assert.False(t, res.Zones)
}

func TestImportDir_NotADirectory(t *testing.T) {
	_, err := New(store.NewTestStore(t), "alice").ImportDir(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestSportKey(t *testing.T) {
	assert.Equal(t, "", sportKey(""))
	assert.Equal(t, "", sportKey("other"))
	assert.Equal(t, "strength", sportKey("strength_training"))
	assert.Equal(t, "cycling", sportKey("mountain_biking"))
	assert.Equal(t, "", sportKey("yoga"))
}

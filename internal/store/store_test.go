package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"fitdash/internal/analysis"
)

func ptr[T any](v T) *T { return &v }

func testActivity(id, owner, sport, start string, duration float64) *Activity {
	st, _ := time.Parse(LocalTimeLayout, start)
	return &Activity{
		ID:              id,
		Owner:           owner,
		Name:            "Activity " + id,
		Sport:           sport,
		StartTime:       st,
		DurationSeconds: duration,
		DistanceMeters:  ptr(5000.0),
	}
}

func TestActivities(t *testing.T) {
	s := NewTestStore(t)

	acts := []*Activity{
		testActivity("3", "alice", "running", "2026-01-20 18:00:00", 3600),
		testActivity("1", "alice", "running", "2026-01-15 07:30:00", 1800),
		testActivity("2", "alice", "cycling", "2026-01-15 12:00:00", 5400),
		testActivity("4", "alice", "running", "2026-02-01 09:00:00", 2400),
		testActivity("5", "bob", "running", "2026-01-15 08:00:00", 1200),
	}
	for _, a := range acts {
		if err := s.UpsertActivity(a); err != nil {
			t.Fatalf("UpsertActivity(%s) error: %v", a.ID, err)
		}
	}

	got, err := s.ListActivities("alice", "2026-01-01", "2026-01-31")
	if err != nil {
		t.Fatalf("ListActivities error: %v", err)
	}
	wantIDs := []string{"1", "2", "3"}
	if len(got) != len(wantIDs) {
		t.Fatalf("ListActivities returned %d activities, want %d", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("activity[%d].ID = %s, want %s", i, got[i].ID, id)
		}
	}
	if got[0].DistanceMeters == nil || *got[0].DistanceMeters != 5000 {
		t.Errorf("DistanceMeters = %v, want 5000", got[0].DistanceMeters)
	}
	if got[0].LocationName != nil {
		t.Errorf("LocationName = %v, want nil", *got[0].LocationName)
	}
	if got[0].Date() != "2026-01-15" {
		t.Errorf("Date() = %s, want 2026-01-15", got[0].Date())
	}

	// update in place
	updated := testActivity("1", "alice", "running", "2026-01-15 07:30:00", 1900)
	updated.Name = "Footing"
	if err := s.UpsertActivity(updated); err != nil {
		t.Fatal(err)
	}
	a, err := s.GetActivity("1")
	if err != nil {
		t.Fatalf("GetActivity error: %v", err)
	}
	if a.Name != "Footing" || a.DurationSeconds != 1900 {
		t.Errorf("GetActivity = %+v, want updated values", a)
	}

	count, err := s.CountActivities("alice")
	if err != nil {
		t.Fatal(err)
	}
	if count != 4 {
		t.Errorf("CountActivities = %d, want 4", count)
	}
}

func TestGetActivity_NotFound(t *testing.T) {
	s := NewTestStore(t)
	if _, err := s.GetActivity("nope"); !errors.Is(err, ErrActivityNotFound) {
		t.Errorf("expected ErrActivityNotFound, got %v", err)
	}
}

func TestListActivitiesBySport(t *testing.T) {
	s := NewTestStore(t)
	for i, start := range []string{
		"2026-01-01 08:00:00",
		"2026-01-05 08:00:00",
		"2026-01-09 08:00:00",
		"2026-01-12 08:00:00",
	} {
		a := testActivity(string(rune('a'+i)), "alice", "running", start, 1800)
		if err := s.UpsertActivity(a); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.ListActivitiesBySport("alice", "running", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d activities, want 3", len(got))
	}
	// latest three, oldest first
	if got[0].ID != "b" || got[2].ID != "d" {
		t.Errorf("got IDs %s..%s, want b..d", got[0].ID, got[2].ID)
	}
}

func TestSamples(t *testing.T) {
	s := NewTestStore(t)
	if err := s.UpsertActivity(testActivity("1", "alice", "running", "2026-01-15 07:30:00", 1800)); err != nil {
		t.Fatal(err)
	}

	t0 := time.Date(2026, 1, 15, 6, 30, 0, 0, time.UTC)
	samples := []Sample{
		{Metric: "heart_rate", Timestamp: t0.Add(time.Minute), Value: 140},
		{Metric: "heart_rate", Timestamp: t0, Value: 120},
		{Metric: "pace_per_km", Timestamp: t0, Value: 5.5},
	}
	if err := s.SaveSamples("1", samples); err != nil {
		t.Fatalf("SaveSamples error: %v", err)
	}

	hr, err := s.GetSamples("1", "heart_rate")
	if err != nil {
		t.Fatal(err)
	}
	if len(hr) != 2 {
		t.Fatalf("got %d heart rate samples, want 2", len(hr))
	}
	if hr[0].Value != 120 || !hr[0].Timestamp.Equal(t0) {
		t.Errorf("first sample = %+v, want 120 at %v", hr[0], t0)
	}

	metrics, err := s.ListSampleMetrics("1")
	if err != nil {
		t.Fatal(err)
	}
	if len(metrics) != 2 || metrics[0] != "heart_rate" || metrics[1] != "pace_per_km" {
		t.Errorf("ListSampleMetrics = %v", metrics)
	}

	// saving again replaces
	if err := s.SaveSamples("1", samples[:1]); err != nil {
		t.Fatal(err)
	}
	hr, _ = s.GetSamples("1", "heart_rate")
	if len(hr) != 1 {
		t.Errorf("got %d samples after replace, want 1", len(hr))
	}
	metrics, _ = s.ListSampleMetrics("1")
	if len(metrics) != 1 || metrics[0] != "heart_rate" {
		t.Errorf("metrics after replace = %v, want [heart_rate]", metrics)
	}

	// samples need an existing activity
	if err := s.SaveSamples("missing", samples); err == nil {
		t.Error("expected foreign key error for unknown activity")
	}
}

func TestMaxHeartrate(t *testing.T) {
	s := NewTestStore(t)

	if _, ok, err := s.MaxHeartrate("alice"); err != nil || ok {
		t.Fatalf("MaxHeartrate on empty store = ok %v, err %v", ok, err)
	}

	a1 := testActivity("1", "alice", "running", "2026-01-15 07:30:00", 1800)
	a1.MaxHeartrate = ptr(181.0)
	a2 := testActivity("2", "alice", "cycling", "2026-01-16 07:30:00", 3600)
	a2.MaxHeartrate = ptr(176.0)
	a3 := testActivity("3", "bob", "running", "2026-01-16 07:30:00", 1800)
	a3.MaxHeartrate = ptr(199.0)
	for _, a := range []*Activity{a1, a2, a3, testActivity("4", "alice", "running", "2026-01-17 07:30:00", 1800)} {
		if err := s.UpsertActivity(a); err != nil {
			t.Fatal(err)
		}
	}

	hr, ok, err := s.MaxHeartrate("alice")
	if err != nil || !ok || hr != 181 {
		t.Errorf("MaxHeartrate = %v, %v, %v; want 181, true, nil", hr, ok, err)
	}

	got, err := s.GetActivity("1")
	if err != nil {
		t.Fatal(err)
	}
	if got.MaxHeartrate == nil || *got.MaxHeartrate != 181 {
		t.Errorf("GetActivity MaxHeartrate = %v, want 181", got.MaxHeartrate)
	}
}

func TestHealthStats(t *testing.T) {
	s := NewTestStore(t)

	stats := []HealthStat{
		{Owner: "alice", Date: "2026-01-02", Metric: "steps", Value: 9000},
		{Owner: "alice", Date: "2026-01-01", Metric: "steps", Value: 12000},
		{Owner: "alice", Date: "2026-01-01", Metric: "resting_heart_rate", Value: 48},
		{Owner: "bob", Date: "2026-01-01", Metric: "steps", Value: 3000},
		{Owner: "alice", Date: "2026-02-01", Metric: "steps", Value: 7000},
	}
	if err := s.SaveHealthStats(stats); err != nil {
		t.Fatalf("SaveHealthStats error: %v", err)
	}

	got, err := s.ListHealthStats("alice", "steps", "2026-01-01", "2026-01-31")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Date != "2026-01-01" || got[1].Value != 9000 {
		t.Errorf("ListHealthStats = %+v", got)
	}

	// saving the same day again updates the value
	if err := s.SaveHealthStats([]HealthStat{{Owner: "alice", Date: "2026-01-02", Metric: "steps", Value: 9500}}); err != nil {
		t.Fatal(err)
	}
	got, _ = s.ListHealthStats("alice", "steps", "2026-01-02", "2026-01-02")
	if len(got) != 1 || got[0].Value != 9500 {
		t.Errorf("after update = %+v, want one value 9500", got)
	}
}

func TestPlannedEvents(t *testing.T) {
	s := NewTestStore(t)

	trainings := []PlannedEvent{
		{ID: "t2", Owner: "alice", Name: "Seuil", Sport: "running", Date: "2026-01-15"},
		{ID: "t1", Owner: "alice", Name: "Natation", Date: "2026-01-15", DistanceMeters: ptr(2000.0)},
		{ID: "t3", Owner: "alice", Name: "Plus tard", Date: "2026-02-02"},
	}
	for i := range trainings {
		if err := s.UpsertTraining(&trainings[i]); err != nil {
			t.Fatalf("UpsertTraining error: %v", err)
		}
	}
	comp := PlannedEvent{ID: "c1", Owner: "alice", Name: "10 km", Date: "2026-01-20", LocationName: ptr("Paris")}
	if err := s.UpsertCompetition(&comp); err != nil {
		t.Fatal(err)
	}

	got, err := s.ListTrainings("alice", "2026-01-01", "2026-01-31")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "t2" || got[1].ID != "t1" {
		t.Fatalf("ListTrainings = %+v, want t2 then t1", got)
	}
	if got[1].DistanceMeters == nil || *got[1].DistanceMeters != 2000 {
		t.Errorf("DistanceMeters = %v, want 2000", got[1].DistanceMeters)
	}

	comps, err := s.ListCompetitions("alice", "2026-01-01", "2026-01-31")
	if err != nil {
		t.Fatal(err)
	}
	if len(comps) != 1 || comps[0].LocationName == nil || *comps[0].LocationName != "Paris" {
		t.Errorf("ListCompetitions = %+v", comps)
	}

	none, err := s.ListCompetitions("bob", "2026-01-01", "2026-01-31")
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("bob should have no competitions, got %d", len(none))
	}
}

func TestZones(t *testing.T) {
	s := NewTestStore(t)

	if _, err := s.GetZones("alice"); !errors.Is(err, ErrNoZones) {
		t.Fatalf("expected ErrNoZones, got %v", err)
	}

	want := analysis.ZoneBoundaries{120, 140, 160, 180, 200}
	if err := s.SaveZones("alice", want); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetZones("alice")
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("GetZones = %v, want %v", got, want)
	}

	want[4] = 195
	if err := s.SaveZones("alice", want); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetZones("alice")
	if got.MaxHR() != 195 {
		t.Errorf("MaxHR after update = %v, want 195", got.MaxHR())
	}
}

func TestImportState(t *testing.T) {
	s := NewTestStore(t)

	v, err := s.GetImportState(StateLastImport)
	if err != nil || v != "" {
		t.Fatalf("GetImportState on empty store = %q, %v", v, err)
	}
	if err := s.SetImportState(StateLastImport, "2026-01-15T10:00:00Z"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetImportState(StateLastImport, "2026-01-16T10:00:00Z"); err != nil {
		t.Fatal(err)
	}
	v, _ = s.GetImportState(StateLastImport)
	if v != "2026-01-16T10:00:00Z" {
		t.Errorf("GetImportState = %q", v)
	}
}

func TestOpen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer s.Close()

	if err := s.UpsertActivity(testActivity("1", "alice", "running", "2026-01-15 07:30:00", 60)); err != nil {
		t.Fatal(err)
	}
}

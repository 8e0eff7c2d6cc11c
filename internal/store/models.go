package store

import "time"

// LocalTimeLayout is how activity start times are stored, local wall clock
// without zone like the export files
const LocalTimeLayout = "2006-01-02 15:04:05"

// DateLayout is how calendar days are stored
const DateLayout = "2006-01-02"

// Activity represents a recorded activity summary
type Activity struct {
	ID               string    `db:"id"`
	Owner            string    `db:"owner"`
	Name             string    `db:"name"`
	Sport            string    `db:"sport"`
	StartTime        time.Time `db:"start_time"` // local wall clock
	DurationSeconds  float64   `db:"duration_seconds"`
	DistanceMeters   *float64  `db:"distance_meters"`   // nullable
	AverageHeartrate *float64  `db:"average_heartrate"` // nullable
	MaxHeartrate     *float64  `db:"max_heartrate"`     // nullable
	LocationName     *string   `db:"location_name"`     // nullable
	Description      *string   `db:"description"`       // nullable
}

// Date returns the calendar day of the activity
func (a *Activity) Date() string {
	return a.StartTime.Format(DateLayout)
}

// Sample is one time series value of an activity
type Sample struct {
	ActivityID string    `db:"activity_id"`
	Metric     string    `db:"metric"`
	Timestamp  time.Time `db:"ts"`
	Value      float64   `db:"value"`
}

// PlannedEvent is a training or a competition
type PlannedEvent struct {
	ID             string   `db:"id"`
	Owner          string   `db:"owner"`
	Name           string   `db:"name"`
	Sport          string   `db:"sport"`
	Date           string   `db:"date"` // YYYY-MM-DD
	DistanceMeters *float64 `db:"distance_meters"`
	LocationName   *string  `db:"location_name"`
	Description    *string  `db:"description"`
}

// HealthStat is one daily wellness value, such as resting heart rate or steps
type HealthStat struct {
	Owner  string  `db:"owner"`
	Date   string  `db:"date"` // YYYY-MM-DD
	Metric string  `db:"metric"`
	Value  float64 `db:"value"`
}

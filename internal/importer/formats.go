package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Export file names inside an import directory
const (
	ActivitiesFile   = "activities.json"
	TrainingsFile    = "trainings.json"
	CompetitionsFile = "competitions.json"
	ZonesFile        = "zones.json"
	HealthFile       = "health.json"
)

// flexID accepts numeric and string identifiers
type flexID string

func (id *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = flexID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a number or a string: %w", err)
	}
	*id = flexID(n.String())
	return nil
}

type activityJSON struct {
	ActivityID     flexID   `json:"activityId"`
	ActivityName   string   `json:"activityName"`
	Name           string   `json:"name"`
	StartTimeLocal string   `json:"startTimeLocal"`
	StartTimeGMT   string   `json:"startTimeGMT"`
	Duration       float64  `json:"duration"`
	Distance       *float64 `json:"distance"` // meters
	AverageHR      *float64 `json:"averageHR"`
	MaxHR          *float64 `json:"maxHR"`
	LocationName   *string  `json:"locationName"`
	Description    *string  `json:"description"`
	ActivityType   struct {
		TypeKey string `json:"typeKey"`
	} `json:"activityType"`
	Samples []sampleJSON `json:"samples"`
}

type sampleJSON struct {
	Time   string  `json:"time"`
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
}

type trainingJSON struct {
	ID          flexID   `json:"id"`
	TrainingID  flexID   `json:"training_id"`
	Title       string   `json:"title"`
	Name        string   `json:"name"`
	Date        string   `json:"date"`
	Sport       string   `json:"sport"`
	SportKey    string   `json:"sport_key"`
	DistanceKm  *float64 `json:"distance_km"`
	Distance    *float64 `json:"distance"` // km, older exports
	Location    *string  `json:"location"`
	Description *string  `json:"description"`
	UserID      string   `json:"user_id"`
}

type competitionJSON struct {
	ID          flexID   `json:"id"`
	Name        string   `json:"name"`
	Date        string   `json:"date"`
	Location    *string  `json:"location"`
	Sport       string   `json:"sport"`
	Distance    *float64 `json:"distance"` // km
	Description *string  `json:"description"`
	UserID      string   `json:"user_id"`
}

type zonesJSON struct {
	Zones []float64 `json:"zones"`
}

// healthJSON is one day of wellness statistics. Absent values stay nil.
type healthJSON struct {
	Date                string   `json:"date"`
	CalendarDate        string   `json:"calendarDate"`
	RestingHeartRate    *float64 `json:"restingHeartRate"`
	TotalSteps          *float64 `json:"totalSteps"`
	BodyBattery         *float64 `json:"bodyBatteryMostRecentValue"`
	TotalStressDuration *float64 `json:"totalStressDuration"` // seconds
	AverageSpo2         *float64 `json:"averageSpo2"`
	AvgRespiration      *float64 `json:"avgWakingRespirationValue"`
	TotalKilocalories   *float64 `json:"totalKilocalories"`
	ActiveKilocalories  *float64 `json:"activeKilocalories"`
}

// timeLayouts are tried in order for activity and sample times
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

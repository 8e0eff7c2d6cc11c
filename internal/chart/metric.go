package chart

import (
	"errors"
	"fmt"

	"fitdash/internal/analysis"
)

// ErrUnknownMetric is returned for a metric identifier the engine does not know
var ErrUnknownMetric = errors.New("unknown metric")

// ErrUnsupportedMetric is returned when a metric does not apply to a sport
var ErrUnsupportedMetric = errors.New("metric not supported for sport")

// MetricKind identifies what a sample measures
type MetricKind string

const (
	MetricHeartRate   MetricKind = "heart_rate"
	MetricPacePerKm   MetricKind = "pace_per_km"
	MetricPacePer100m MetricKind = "pace_per_100m"
	MetricCadence     MetricKind = "cadence"
	MetricPower       MetricKind = "power"
	MetricSpeed       MetricKind = "speed"
	MetricDistance    MetricKind = "distance"
	MetricDuration    MetricKind = "duration"
	MetricSwolf       MetricKind = "swolf"
	MetricStrokes     MetricKind = "strokes"

	// Daily health metrics, independent of any sport
	MetricRestingHR      MetricKind = "resting_heart_rate"
	MetricSteps          MetricKind = "steps"
	MetricBodyBattery    MetricKind = "body_battery"
	MetricStress         MetricKind = "stress_duration"
	MetricSpO2           MetricKind = "spo2"
	MetricRespiration    MetricKind = "respiration"
	MetricCaloriesTotal  MetricKind = "calories_total"
	MetricCaloriesActive MetricKind = "calories_active"
)

// Default series colors
const (
	ColorAccent = "#4CC9F0"
	ColorSwim   = "#FF4D8D"
)

// MetricInfo is the fixed display convention of a metric
type MetricInfo struct {
	Title    string // chart title, French like the rest of the UI
	Unit     string // axis label
	Decimals int    // decimals for non-pace labels
	Pace     bool   // value is decimal minutes, displayed as M:SS
	Color    string // default series color
	Health   bool   // daily health value, charted for any sport
}

var metricInfo = map[MetricKind]MetricInfo{
	MetricHeartRate:   {Title: "Fréquence cardiaque", Unit: "BPM", Decimals: 0, Color: ColorAccent},
	MetricPacePerKm:   {Title: "Allure", Unit: "Allure (min/km)", Pace: true, Color: ColorAccent},
	MetricPacePer100m: {Title: "Allure moyenne", Unit: "Allure (min/100m)", Pace: true, Color: ColorAccent},
	MetricCadence:     {Title: "Cadence", Unit: "Pas/min", Decimals: 0, Color: ColorAccent},
	MetricPower:       {Title: "Puissance", Unit: "Watts", Decimals: 0, Color: ColorAccent},
	MetricSpeed:       {Title: "Vitesse", Unit: "Vitesse (km/h)", Decimals: 1, Color: ColorAccent},
	MetricDistance:    {Title: "Distance", Unit: "Distance (km)", Decimals: 1, Color: ColorAccent},
	MetricDuration:    {Title: "Durée", Unit: "Durée (min)", Decimals: 0, Color: ColorAccent},
	MetricSwolf:       {Title: "SWOLF moyen (50m)", Unit: "SWOLF (50m)", Decimals: 0, Color: ColorSwim},
	MetricStrokes:     {Title: "Mouvements par 50m", Unit: "Coups/50m", Decimals: 0, Color: ColorSwim},

	MetricRestingHR:      {Title: "FC au repos", Unit: "BPM", Decimals: 0, Color: ColorAccent, Health: true},
	MetricSteps:          {Title: "Pas", Unit: "Pas", Decimals: 0, Color: ColorAccent, Health: true},
	MetricBodyBattery:    {Title: "Body Battery", Unit: "Body Battery", Decimals: 0, Color: ColorAccent, Health: true},
	MetricStress:         {Title: "Stress total", Unit: "Durée (min)", Decimals: 0, Color: ColorAccent, Health: true},
	MetricSpO2:           {Title: "SpO2 moyenne", Unit: "SpO2 (%)", Decimals: 0, Color: ColorAccent, Health: true},
	MetricRespiration:    {Title: "Respiration moyenne", Unit: "Resp./min", Decimals: 1, Color: ColorAccent, Health: true},
	MetricCaloriesTotal:  {Title: "Calories totales", Unit: "kcal", Decimals: 0, Color: ColorAccent, Health: true},
	MetricCaloriesActive: {Title: "Calories actives", Unit: "kcal", Decimals: 0, Color: ColorAccent, Health: true},
}

// healthMetrics lists the daily health metrics in display order
var healthMetrics = []MetricKind{
	MetricBodyBattery, MetricCaloriesTotal, MetricCaloriesActive, MetricRestingHR,
	MetricRespiration, MetricSpO2, MetricSteps, MetricStress,
}

// sportMetrics lists the metrics charted for each sport, in display order
var sportMetrics = map[analysis.SportType][]MetricKind{
	analysis.SportRunning: {
		MetricDistance, MetricDuration, MetricPacePerKm, MetricHeartRate,
		MetricCadence, MetricPower, MetricSpeed,
	},
	analysis.SportCycling: {
		MetricDistance, MetricDuration, MetricHeartRate,
		MetricCadence, MetricPower, MetricSpeed,
	},
	analysis.SportSwimming: {
		MetricDistance, MetricDuration, MetricPacePer100m, MetricHeartRate,
		MetricSwolf, MetricCadence, MetricStrokes,
	},
	analysis.SportStrength: {MetricDuration, MetricHeartRate},
	analysis.SportOther:    {MetricDistance, MetricDuration, MetricHeartRate, MetricSpeed},
}

func (m MetricKind) String() string {
	return string(m)
}

// Info returns the display convention of m
func (m MetricKind) Info() (MetricInfo, error) {
	info, ok := metricInfo[m]
	if !ok {
		return MetricInfo{}, fmt.Errorf("%q: %w", string(m), ErrUnknownMetric)
	}
	return info, nil
}

// IsPace reports whether m is a pace metric (decimal minutes)
func (m MetricKind) IsPace() bool {
	return metricInfo[m].Pace
}

// ParseMetric parses a metric identifier
func ParseMetric(s string) (MetricKind, error) {
	m := MetricKind(s)
	if _, err := m.Info(); err != nil {
		return "", err
	}
	return m, nil
}

// MetricsForSport returns the metrics charted for sport
func MetricsForSport(sport analysis.SportType) []MetricKind {
	metrics := sportMetrics[sport]
	out := make([]MetricKind, len(metrics))
	copy(out, metrics)
	return out
}

// HealthMetrics returns the daily health metrics in display order
func HealthMetrics() []MetricKind {
	out := make([]MetricKind, len(healthMetrics))
	copy(out, healthMetrics)
	return out
}

// IsHealth reports whether m is a daily health metric
func (m MetricKind) IsHealth() bool {
	return metricInfo[m].Health
}

// CheckSupported returns a configuration error when metric is unknown or
// does not apply to sport. Health metrics apply to every sport.
func CheckSupported(metric MetricKind, sport analysis.SportType) error {
	info, err := metric.Info()
	if err != nil {
		return err
	}
	if !sport.IsValid() {
		return fmt.Errorf("unknown sport %q", string(sport))
	}
	if info.Health {
		return nil
	}
	for _, m := range sportMetrics[sport] {
		if m == metric {
			return nil
		}
	}
	return fmt.Errorf("%s for %s: %w", metric, sport, ErrUnsupportedMetric)
}

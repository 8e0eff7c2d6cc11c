package chart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPace(t *testing.T) {
	tests := []struct {
		minutes float64
		want    string
	}{
		{5.5, "5:30"},
		{0, "0:00"},
		{4.25, "4:15"},
		{3.0, "3:00"},
		{5.999, "6:00"},
		{12.0 + 5.0/60, "12:05"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := FormatPace(tt.minutes)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatPace_Rejects(t *testing.T) {
	for _, v := range []float64{-0.5, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := FormatPace(v)
		assert.ErrorIs(t, err, ErrInvalidPace, "value %v", v)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		metric MetricKind
		want   string
	}{
		{"heart rate integer", 142.6, MetricHeartRate, "143"},
		{"cadence integer", 88, MetricCadence, "88"},
		{"speed one decimal", 27.44, MetricSpeed, "27.4"},
		{"distance one decimal", 10.05, MetricDistance, "10.1"},
		{"pace", 5.5, MetricPacePerKm, "5:30"},
		{"swim pace", 1.75, MetricPacePer100m, "1:45"},
		{"no negative zero", -0.2, MetricPower, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.value, tt.metric)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_Errors(t *testing.T) {
	_, err := Format(math.NaN(), MetricHeartRate)
	assert.ErrorIs(t, err, ErrNonFinite)

	_, err = Format(-1, MetricPacePerKm)
	assert.ErrorIs(t, err, ErrInvalidPace)

	_, err = Format(1, MetricKind("altitude"))
	assert.ErrorIs(t, err, ErrUnknownMetric)
}

func TestPaceTicks_RunningAxis(t *testing.T) {
	ticks := PaceTicks(3.0, 7.0, 15)
	require.Len(t, ticks, 17)

	assert.Equal(t, Tick{Value: 3.0, Label: "3:00"}, ticks[0])
	assert.Equal(t, Tick{Value: 3.25, Label: "3:15"}, ticks[1])
	assert.Equal(t, "3:30", ticks[2].Label)
	assert.Equal(t, Tick{Value: 7.0, Label: "7:00"}, ticks[16])

	for i := 1; i < len(ticks); i++ {
		gap := math.Round((ticks[i].Value - ticks[i-1].Value) * 60)
		assert.Equal(t, 15.0, gap)
	}
}

func TestPaceTicks_UnalignedBounds(t *testing.T) {
	// 4:10 .. 4:50 keeps only the 15 s boundaries inside
	ticks := PaceTicks(4+10.0/60, 4+50.0/60, 15)
	labels := make([]string, len(ticks))
	for i, tk := range ticks {
		labels[i] = tk.Label
	}
	assert.Equal(t, []string{"4:15", "4:30", "4:45"}, labels)
}

func TestPaceTicks_DefaultStep(t *testing.T) {
	assert.Len(t, PaceTicks(1, 2, 0), 5)
}

func TestNiceTicks(t *testing.T) {
	ticks, err := NiceTicks(0, 200, MetricCadence)
	require.NoError(t, err)

	labels := make([]string, len(ticks))
	for i, tk := range ticks {
		labels[i] = tk.Label
	}
	assert.Equal(t, []string{"0", "50", "100", "150", "200"}, labels)

	ticks, err = NiceTicks(249, 251, MetricPower)
	require.NoError(t, err)
	assert.Equal(t, 249.0, ticks[0].Value)
	assert.Equal(t, 251.0, ticks[len(ticks)-1].Value)

	ticks, err = NiceTicks(5, 5, MetricPower)
	require.NoError(t, err)
	assert.Len(t, ticks, 1)
}

func TestNiceTicks_HugeSpan(t *testing.T) {
	// max - min overflows float64
	ticks, err := NiceTicks(-1e308, 1e308, MetricPower)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(ticks), 3)
	assert.LessOrEqual(t, len(ticks), 6)

	prev := math.Inf(-1)
	for _, tk := range ticks {
		assert.False(t, math.IsInf(tk.Value, 0))
		assert.GreaterOrEqual(t, tk.Value, -1e308)
		assert.LessOrEqual(t, tk.Value, 1e308)
		assert.Greater(t, tk.Value, prev)
		prev = tk.Value
	}
}

func TestTicks_DispatchesOnMetric(t *testing.T) {
	ticks, err := Ticks(Axis{Min: 3, Max: 7, TickIntervalSeconds: 15}, MetricPacePerKm)
	require.NoError(t, err)
	assert.Len(t, ticks, 17)

	ticks, err = Ticks(Axis{Min: 0, Max: 1}, MetricSpeed)
	require.NoError(t, err)
	assert.Equal(t, "0.0", ticks[0].Label)
	assert.Equal(t, "1.0", ticks[len(ticks)-1].Label)
}

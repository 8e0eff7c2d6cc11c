package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// ZoneCount is the number of heart rate zones
const ZoneCount = 5

// ErrZonesNotAscending is returned when zone boundaries are not strictly increasing
var ErrZonesNotAscending = errors.New("zone boundaries must be strictly ascending")

// ErrInvalidZoneBound is returned when a boundary is zero, negative or not finite
var ErrInvalidZoneBound = errors.New("zone boundary must be a positive finite number")

// MaxHRThresholds defines the upper bound percentage of max HR for each zone
var MaxHRThresholds = [ZoneCount]float64{0.6, 0.7, 0.8, 0.9, 1.0}

// ThresholdHRThresholds defines the upper bound percentage of LTHR for zones 1-4.
// Zone 5 always ends at max HR.
var ThresholdHRThresholds = [ZoneCount - 1]float64{0.75, 0.85, 0.95, 1.0}

// Zone is a heart rate zone index, 1 (easiest) to 5 (hardest).
// The zero value means "unclassified".
type Zone int

// String returns "Z1".."Z5", or "-" for an unclassified zone
func (z Zone) String() string {
	if z < 1 || z > ZoneCount {
		return "-"
	}
	return fmt.Sprintf("Z%d", int(z))
}

// Name returns the descriptive zone name
func (z Zone) Name() string {
	switch z {
	case 1:
		return "Recovery"
	case 2:
		return "Endurance"
	case 3:
		return "Tempo"
	case 4:
		return "Threshold"
	case 5:
		return "VO2max"
	default:
		return "Unclassified"
	}
}

// ZoneBoundaries holds the upper bound (bpm) of each zone, Z1 first.
// The Z5 bound is the athlete's max heart rate.
type ZoneBoundaries [ZoneCount]float64

// ZonesFromMaxHR derives boundaries as percentages of max HR
func ZonesFromMaxHR(maxHR float64) ZoneBoundaries {
	var b ZoneBoundaries
	for i, pct := range MaxHRThresholds {
		b[i] = math.Round(maxHR * pct)
	}
	return b
}

// ZonesFromThreshold derives boundaries from lactate threshold HR.
// Zone 5 covers everything above LTHR up to max HR.
func ZonesFromThreshold(thresholdHR, maxHR float64) ZoneBoundaries {
	var b ZoneBoundaries
	for i, pct := range ThresholdHRThresholds {
		b[i] = math.Round(thresholdHR * pct)
	}
	b[ZoneCount-1] = maxHR
	return b
}

// Validate checks that every bound is positive and strictly greater than the previous one
func (b ZoneBoundaries) Validate() error {
	for i, v := range b {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("Z%d bound %v: %w", i+1, v, ErrInvalidZoneBound)
		}
		if i > 0 && v <= b[i-1] {
			return fmt.Errorf("Z%d bound %v <= Z%d bound %v: %w", i+1, v, i, b[i-1], ErrZonesNotAscending)
		}
	}
	return nil
}

// MaxHR returns the Z5 upper bound
func (b ZoneBoundaries) MaxHR() float64 {
	return b[ZoneCount-1]
}

// Classify returns the smallest zone whose upper bound is >= value.
// Values above the Z5 bound clamp to Z5. Boundaries are assumed valid.
func (b ZoneBoundaries) Classify(value float64) Zone {
	i := sort.Search(ZoneCount, func(i int) bool { return value <= b[i] })
	if i == ZoneCount {
		return ZoneCount
	}
	return Zone(i + 1)
}

// Classify validates the boundaries and classifies a single value
func Classify(value float64, b ZoneBoundaries) (Zone, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}
	return b.Classify(value), nil
}

// ClassifyAll validates the boundaries once and classifies every value
func ClassifyAll(values []float64, b ZoneBoundaries) ([]Zone, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	zones := make([]Zone, len(values))
	for i, v := range values {
		zones[i] = b.Classify(v)
	}
	return zones, nil
}

// TimeInZones returns the number of samples that fall in each zone
func TimeInZones(values []float64, b ZoneBoundaries) [ZoneCount]int {
	var counts [ZoneCount]int
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		counts[b.Classify(v)-1]++
	}
	return counts
}

// MaxSampleGap is the longest gap between two heart rate samples still
// counted as time in a zone. Longer gaps are pauses.
const MaxSampleGap = 30 * time.Second

// DurationInZones sums the time between consecutive samples into the zone
// of the later sample. Gaps that are not positive or exceed maxGap are
// skipped, as are non-finite values. times and values must be parallel.
func DurationInZones(times []time.Time, values []float64, b ZoneBoundaries, maxGap time.Duration) [ZoneCount]time.Duration {
	var out [ZoneCount]time.Duration
	n := min(len(times), len(values))
	for i := 1; i < n; i++ {
		gap := times[i].Sub(times[i-1])
		if gap <= 0 || gap > maxGap {
			continue
		}
		v := values[i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[b.Classify(v)-1] += gap
	}
	return out
}

package chart

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	// ErrInvalidPace is returned for negative or non-finite pace values
	ErrInvalidPace = errors.New("pace must be a non-negative finite number")
	// ErrNonFinite is returned when a value is NaN or infinite
	ErrNonFinite = errors.New("value is not finite")
)

// defaultTickCount is the number of intervals aimed for on non-pace axes
const defaultTickCount = 5

// roundLimit bounds the values whose float noise is rounded away
const roundLimit = 1e15

// maxTicks guards tick loops against absurd spans
const maxTicks = 1000

// Tick is one axis gridline
type Tick struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// Format renders value with the display convention of metric
func Format(value float64, metric MetricKind) (string, error) {
	info, err := metric.Info()
	if err != nil {
		return "", err
	}
	if info.Pace {
		return FormatPace(value)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "", fmt.Errorf("formatting %s: %w", metric, ErrNonFinite)
	}
	s := strconv.FormatFloat(value, 'f', info.Decimals, 64)
	if s == "-0" || s == "-0.0" {
		s = s[1:]
	}
	return s, nil
}

// FormatPace renders decimal minutes as M:SS, rounded to the nearest second
func FormatPace(minutes float64) (string, error) {
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) || minutes < 0 {
		return "", fmt.Errorf("pace %v: %w", minutes, ErrInvalidPace)
	}
	return formatSeconds(int(math.Round(minutes * 60))), nil
}

func formatSeconds(total int) string {
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// PaceTicks returns a tick on every stepSeconds boundary between min and max
// (decimal minutes), endpoints included when they fall on a boundary.
// Values are computed in whole seconds so labels never drift.
func PaceTicks(min, max float64, stepSeconds int) []Tick {
	if stepSeconds <= 0 {
		stepSeconds = PaceTickSeconds
	}
	lo := int(math.Ceil(min*60 - 1e-6))
	hi := int(math.Floor(max*60 + 1e-6))
	if lo < 0 {
		lo = 0
	}

	start := lo
	if rem := lo % stepSeconds; rem != 0 {
		start += stepSeconds - rem
	}

	var ticks []Tick
	for s := start; s <= hi && len(ticks) < maxTicks; s += stepSeconds {
		ticks = append(ticks, Tick{
			Value: float64(s) / 60,
			Label: formatSeconds(s),
		})
	}
	return ticks
}

// NiceTicks returns ticks at a 1, 2 or 5 x 10^k step covering [min, max]
func NiceTicks(min, max float64, metric MetricKind) ([]Tick, error) {
	if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
		return nil, ErrNonFinite
	}
	if max <= min {
		label, err := Format(min, metric)
		if err != nil {
			return nil, err
		}
		return []Tick{{Value: min, Label: label}}, nil
	}

	raw := (max - min) / defaultTickCount
	if math.IsInf(raw, 0) {
		// the width overflowed, its half does not
		raw = (max/2 - min/2) / defaultTickCount * 2
	}
	step := niceStep(raw)
	first := math.Ceil(min / step)

	var ticks []Tick
	for i := 0; i < maxTicks; i++ {
		v := (first + float64(i)) * step
		if v > max+step*1e-9 {
			break
		}
		if math.Abs(v) < roundLimit {
			v = math.Round(v*1e9) / 1e9
		}
		label, err := Format(v, metric)
		if err != nil {
			return nil, err
		}
		ticks = append(ticks, Tick{Value: v, Label: label})
	}
	return ticks, nil
}

func niceStep(raw float64) float64 {
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch norm := raw / mag; {
	case norm <= 1:
		return mag
	case norm <= 2:
		return 2 * mag
	case norm <= 5:
		return 5 * mag
	default:
		return 10 * mag
	}
}

// Ticks generates the gridlines of a resolved axis
func Ticks(axis Axis, metric MetricKind) ([]Tick, error) {
	if metric.IsPace() {
		return PaceTicks(axis.Min, axis.Max, axis.TickIntervalSeconds), nil
	}
	return NiceTicks(axis.Min, axis.Max, metric)
}

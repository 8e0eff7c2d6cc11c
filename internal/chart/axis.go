package chart

import (
	"errors"
	"fmt"
	"math"

	"fitdash/internal/analysis"
)

// ErrInvalidAxis is returned when two fixed bounds leave no room for data
var ErrInvalidAxis = errors.New("axis min must be below axis max")

// MinSpan is the smallest distance kept between auto axis bounds
const MinSpan = 1.0

// PaceTickSeconds is the gridline spacing of pace axes
const PaceTickSeconds = 15

// BoundKind says how an axis bound is determined
type BoundKind int

const (
	BoundUnset   BoundKind = iota // inherit from the policy table
	BoundAuto                     // computed from the samples
	BoundFixed                    // Bound.Value
	BoundZoneMax                  // Z5 upper bound, auto when no zones are known
)

// Bound is one end of an axis policy
type Bound struct {
	Kind  BoundKind `json:"kind"`
	Value float64   `json:"value,omitempty"`
}

// Auto returns a bound computed from the data
func Auto() Bound { return Bound{Kind: BoundAuto} }

// Fixed returns a bound pinned to v
func Fixed(v float64) Bound { return Bound{Kind: BoundFixed, Value: v} }

// ZoneMax returns a bound pinned to the athlete's max heart rate
func ZoneMax() Bound { return Bound{Kind: BoundZoneMax} }

// AxisPolicy is the rule for one chart's value axis. Unset fields of an
// override fall back to the table entry.
type AxisPolicy struct {
	Min                 Bound `json:"min"`
	Max                 Bound `json:"max"`
	TickIntervalSeconds int   `json:"tickIntervalSeconds,omitempty"`
}

// Axis is a resolved value axis
type Axis struct {
	Min                 float64 `json:"min"`
	Max                 float64 `json:"max"`
	TickIntervalSeconds int     `json:"tickIntervalSeconds,omitempty"`
}

type policyKey struct {
	metric MetricKind
	sport  analysis.SportType // empty matches any sport
}

type span struct {
	min, max float64
}

// emptySpans is used for auto bounds when there is no finite sample
var emptySpans = map[MetricKind]span{
	MetricHeartRate:   {40, 200},
	MetricPacePerKm:   {0, 10},
	MetricPacePer100m: {0, 10},
	MetricCadence:     {0, 200},
	MetricRestingHR:   {30, 100},
	MetricSpO2:        {80, 100},
}

var defaultEmptySpan = span{0, 1}

// Resolver resolves axis policies from a table of per-metric, per-sport defaults
type Resolver struct {
	table map[policyKey]AxisPolicy
}

// NewResolver creates a resolver with the default policy table
func NewResolver() *Resolver {
	return &Resolver{
		table: map[policyKey]AxisPolicy{
			{MetricPacePerKm, analysis.SportRunning}: {
				Min: Fixed(3.0), Max: Fixed(7.0), TickIntervalSeconds: PaceTickSeconds,
			},
			{MetricPacePer100m, analysis.SportSwimming}: {
				Min: Fixed(1.0), Max: Fixed(3.0), TickIntervalSeconds: PaceTickSeconds,
			},
			{MetricPacePerKm, ""}:   {Min: Auto(), Max: Auto(), TickIntervalSeconds: PaceTickSeconds},
			{MetricPacePer100m, ""}: {Min: Auto(), Max: Auto(), TickIntervalSeconds: PaceTickSeconds},
			{MetricCadence, ""}:     {Min: Fixed(0), Max: Fixed(200)},
			{MetricHeartRate, ""}:   {Min: Auto(), Max: ZoneMax()},
		},
	}
}

// SetPolicy replaces the table entry for metric and sport.
// An empty sport sets the default for every sport.
func (r *Resolver) SetPolicy(metric MetricKind, sport analysis.SportType, p AxisPolicy) {
	r.table[policyKey{metric, sport}] = p
}

// Policy returns the effective policy: the table entry for (metric, sport),
// else the metric's any-sport entry, else auto/auto, with every set field of
// override applied on top
func (r *Resolver) Policy(metric MetricKind, sport analysis.SportType, override AxisPolicy) AxisPolicy {
	p, ok := r.table[policyKey{metric, sport}]
	if !ok {
		p, ok = r.table[policyKey{metric, ""}]
	}
	if !ok {
		p = AxisPolicy{Min: Auto(), Max: Auto()}
	}

	if override.Min.Kind != BoundUnset {
		p.Min = override.Min
	}
	if override.Max.Kind != BoundUnset {
		p.Max = override.Max
	}
	if override.TickIntervalSeconds > 0 {
		p.TickIntervalSeconds = override.TickIntervalSeconds
	}

	if p.Min.Kind == BoundUnset {
		p.Min = Auto()
	}
	if p.Max.Kind == BoundUnset {
		p.Max = Auto()
	}
	return p
}

// Resolve turns the effective policy into concrete bounds using values for
// the auto ends. Non-finite values are ignored. The result never contains
// NaN or Inf and always has Min < Max.
func (r *Resolver) Resolve(
	metric MetricKind,
	sport analysis.SportType,
	values []float64,
	zones *analysis.ZoneBoundaries,
	override AxisPolicy,
) (Axis, error) {
	if _, err := metric.Info(); err != nil {
		return Axis{}, err
	}
	if zones != nil {
		if err := zones.Validate(); err != nil {
			return Axis{}, fmt.Errorf("resolving %s axis: %w", metric, err)
		}
	}

	p := r.Policy(metric, sport, override)
	if err := checkFixed(p.Min); err != nil {
		return Axis{}, err
	}
	if err := checkFixed(p.Max); err != nil {
		return Axis{}, err
	}

	lo, hi, hasData := finiteRange(values)
	empty, ok := emptySpans[metric]
	if !ok {
		empty = defaultEmptySpan
	}

	minV, minAuto := resolveBound(p.Min, zones)
	maxV, maxAuto := resolveBound(p.Max, zones)

	switch {
	case minAuto && hasData:
		minV = math.Floor(lo)
	case minAuto:
		minV = empty.min
	}
	switch {
	case maxAuto && hasData:
		maxV = math.Ceil(hi)
	case maxAuto:
		maxV = empty.max
	}

	if minV >= maxV {
		switch {
		case minAuto && maxAuto:
			// single observed value
			minV -= MinSpan
			maxV += MinSpan
		case minAuto:
			minV = maxV - MinSpan
		case maxAuto:
			maxV = minV + MinSpan
		default:
			return Axis{}, fmt.Errorf("%s axis [%v, %v]: %w", metric, minV, maxV, ErrInvalidAxis)
		}
	}

	return Axis{
		Min:                 minV,
		Max:                 maxV,
		TickIntervalSeconds: p.TickIntervalSeconds,
	}, nil
}

// resolveBound returns the bound value, or auto=true when it depends on data
func resolveBound(b Bound, zones *analysis.ZoneBoundaries) (float64, bool) {
	switch b.Kind {
	case BoundFixed:
		return b.Value, false
	case BoundZoneMax:
		if zones != nil {
			return zones.MaxHR(), false
		}
		return 0, true
	default:
		return 0, true
	}
}

func checkFixed(b Bound) error {
	if b.Kind == BoundFixed && (math.IsNaN(b.Value) || math.IsInf(b.Value, 0)) {
		return fmt.Errorf("fixed bound %v: %w", b.Value, ErrInvalidAxis)
	}
	return nil
}

// finiteRange returns the min and max of the finite values
func finiteRange(values []float64) (lo, hi float64, ok bool) {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if !ok {
			lo, hi, ok = v, v, true
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, ok
}

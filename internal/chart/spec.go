package chart

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"fitdash/internal/analysis"
)

// Sample is one measurement of a time series
type Sample struct {
	Timestamp time.Time  `json:"timestamp"`
	Metric    MetricKind `json:"metric"`
	Value     float64    `json:"value"`
}

// Request is the input of one chart build
type Request struct {
	Samples  []Sample
	Metric   MetricKind
	Sport    analysis.SportType
	Zones    *analysis.ZoneBoundaries // optional
	Override AxisPolicy               // set bounds win over the policy table
	Title    string                   // defaults to the metric title

	// Rolling adds a rolling mean with a 95% band over RollingWindow points
	Rolling       bool
	RollingWindow int
}

// Point is one plotted sample
type Point struct {
	Time  time.Time     `json:"time"`
	Value float64       `json:"value"`
	Label string        `json:"label"`
	Zone  analysis.Zone `json:"zone,omitempty"`
	Color string        `json:"color,omitempty"`
}

// BandPoint is one rolling mean value with its confidence band
type BandPoint struct {
	Time  time.Time `json:"time"`
	Mean  float64   `json:"mean"`
	Lower float64   `json:"lower"`
	Upper float64   `json:"upper"`
}

// Warning describes a sample that was skipped
type Warning struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

func (w Warning) String() string {
	return fmt.Sprintf("sample %d: %s", w.Index, w.Reason)
}

// Spec is a fully resolved, renderer-agnostic chart.
// It is never modified after Build returns it.
type Spec struct {
	Title       string             `json:"title"`
	Metric      MetricKind         `json:"metric"`
	Sport       analysis.SportType `json:"sport"`
	Unit        string             `json:"unit"`
	YAxis       Axis               `json:"yAxis"`
	Ticks       []Tick             `json:"ticks"`
	Points      []Point            `json:"points"`
	Color       string             `json:"color"`
	ZoneColored bool               `json:"zoneColored"`
	Rolling     []BandPoint        `json:"rolling,omitempty"`
	Warnings    []Warning          `json:"warnings,omitempty"`
}

// Values returns the plotted values in order
func (s *Spec) Values() []float64 {
	values := make([]float64, len(s.Points))
	for i, p := range s.Points {
		values[i] = p.Value
	}
	return values
}

// JSON encodes the spec. Equal specs encode to identical bytes.
func (s *Spec) JSON() ([]byte, error) {
	return json.Marshal(s)
}

// Builder composes zone classification, axis resolution and label
// formatting into chart specs
type Builder struct {
	resolver *Resolver
}

// NewBuilder creates a builder. A nil resolver uses the default policy table.
func NewBuilder(resolver *Resolver) *Builder {
	if resolver == nil {
		resolver = NewResolver()
	}
	return &Builder{resolver: resolver}
}

// Resolver returns the axis resolver used by the builder
func (b *Builder) Resolver() *Resolver {
	return b.resolver
}

// Build produces the chart spec for req. Unsupported metric/sport pairs and
// invalid zones fail the whole build; bad samples are skipped and reported
// in Spec.Warnings.
func (b *Builder) Build(req Request) (*Spec, error) {
	if err := CheckSupported(req.Metric, req.Sport); err != nil {
		return nil, fmt.Errorf("building chart: %w", err)
	}
	if req.Zones != nil {
		if err := req.Zones.Validate(); err != nil {
			return nil, fmt.Errorf("building %s chart: %w", req.Metric, err)
		}
	}
	info, _ := req.Metric.Info()

	zoneColored := req.Metric == MetricHeartRate && req.Zones != nil
	color := info.Color
	if req.Metric == MetricHeartRate && req.Zones == nil {
		color = UncategorizedColor
	}

	var warnings []Warning
	points := make([]Point, 0, len(req.Samples))
	values := make([]float64, 0, len(req.Samples))
	for i, s := range req.Samples {
		if reason := rejectReason(s, req.Metric, info); reason != "" {
			warnings = append(warnings, Warning{Index: i, Reason: reason})
			continue
		}
		label, err := Format(s.Value, req.Metric)
		if err != nil {
			warnings = append(warnings, Warning{Index: i, Reason: err.Error()})
			continue
		}

		p := Point{Time: s.Timestamp, Value: s.Value, Label: label}
		if zoneColored {
			p.Zone = req.Zones.Classify(s.Value)
			p.Color = ZoneColor(p.Zone)
		}
		points = append(points, p)
		values = append(values, s.Value)
	}

	axis, err := b.resolver.Resolve(req.Metric, req.Sport, values, req.Zones, req.Override)
	if err != nil {
		return nil, fmt.Errorf("building %s chart: %w", req.Metric, err)
	}
	ticks, err := Ticks(axis, req.Metric)
	if err != nil {
		return nil, fmt.Errorf("building %s ticks: %w", req.Metric, err)
	}

	title := req.Title
	if title == "" {
		title = info.Title
	}

	spec := &Spec{
		Title:       title,
		Metric:      req.Metric,
		Sport:       req.Sport,
		Unit:        info.Unit,
		YAxis:       axis,
		Ticks:       ticks,
		Points:      points,
		Color:       color,
		ZoneColored: zoneColored,
		Warnings:    warnings,
	}
	if req.Rolling && len(points) > 0 {
		window := req.RollingWindow
		if window <= 0 {
			window = analysis.DefaultRollingWindow
		}
		for i, rp := range analysis.RollingStats(values, window) {
			spec.Rolling = append(spec.Rolling, BandPoint{
				Time:  points[i].Time,
				Mean:  rp.Mean,
				Lower: rp.Lower(),
				Upper: rp.Upper(),
			})
		}
	}
	return spec, nil
}

func rejectReason(s Sample, metric MetricKind, info MetricInfo) string {
	switch {
	case s.Metric != metric:
		return fmt.Sprintf("metric %s in a %s series", s.Metric, metric)
	case math.IsNaN(s.Value) || math.IsInf(s.Value, 0):
		return "non-finite value"
	case info.Pace && s.Value < 0:
		return "negative pace"
	}
	return ""
}

package chart

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"fitdash/internal/analysis"
)

// paceFormatterJS mirrors FormatPace for axis labels in the browser
const paceFormatterJS = `function (v) {
	var s = Math.round(v * 60);
	return Math.floor(s / 60) + ':' + ('0' + (s % 60)).slice(-2);
}`

const timeLayout = "2006-01-02 15:04"

// DefaultTheme is the echarts theme used when none is configured
const DefaultTheme = "macarons"

// NewLineChart converts a spec into a go-echarts line chart. Heart rate
// series with zones get one series per zone so each point keeps its zone
// color. An empty theme uses DefaultTheme.
func NewLineChart(spec *Spec, theme string) *charts.Line {
	if theme == "" {
		theme = DefaultTheme
	}
	line := charts.NewLine()

	yAxis := opts.YAxis{
		Name:         spec.Unit,
		NameLocation: "middle",
		NameGap:      50,
		Min:          spec.YAxis.Min,
		Max:          spec.YAxis.Max,
	}
	if spec.Metric.IsPace() {
		yAxis.AxisLabel = &opts.AxisLabel{Formatter: opts.FuncOpts(paceFormatterJS)}
		// faster pace on top
		yAxis.Inverse = opts.Bool(true)
		if step := paceInterval(spec.YAxis); step > 0 {
			// pins one gridline per tick boundary
			yAxis.MinInterval = step
			yAxis.MaxInterval = step
			yAxis.SplitLine = &opts.SplitLine{Show: opts.Bool(true)}
		}
	}

	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: theme}),
		charts.WithTitleOpts(opts.Title{
			Title:    spec.Title,
			Subtitle: subtitle(spec),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{
				Rotate: 45,
			},
		}),
		charts.WithYAxisOpts(yAxis),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:   opts.Bool(spec.ZoneColored || len(spec.Rolling) > 0),
			Bottom: "bottom",
		}),
	)

	xAxis := make([]string, len(spec.Points))
	for i, p := range spec.Points {
		xAxis[i] = p.Time.Format(timeLayout)
	}
	line.SetXAxis(xAxis)

	if spec.ZoneColored {
		addZoneSeries(line, spec)
	} else {
		line.AddSeries(spec.Title, pointItems(spec.Points),
			charts.WithLineStyleOpts(opts.LineStyle{Color: spec.Color}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: spec.Color}),
		)
	}

	if len(spec.Rolling) > 0 {
		addRollingSeries(line, spec)
	}

	return line
}

func addZoneSeries(line *charts.Line, spec *Spec) {
	// gray trace connecting all points, zone colored markers on top
	line.AddSeries(spec.Title, pointItems(spec.Points),
		charts.WithLineStyleOpts(opts.LineStyle{Color: UncategorizedColor, Opacity: 0.4}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: UncategorizedColor}),
	)

	for z := analysis.Zone(1); z <= analysis.ZoneCount; z++ {
		items := make([]opts.LineData, len(spec.Points))
		for i, p := range spec.Points {
			if p.Zone == z {
				items[i] = opts.LineData{Value: p.Value}
			} else {
				items[i] = opts.LineData{Value: "-"}
			}
		}
		color := ZoneColor(z)
		line.AddSeries(fmt.Sprintf("%s %s", z, z.Name()), items,
			charts.WithLineStyleOpts(opts.LineStyle{Color: color, Width: 0}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
		)
	}
}

func addRollingSeries(line *charts.Line, spec *Spec) {
	mean := make([]opts.LineData, len(spec.Rolling))
	lower := make([]opts.LineData, len(spec.Rolling))
	upper := make([]opts.LineData, len(spec.Rolling))
	for i, b := range spec.Rolling {
		mean[i] = opts.LineData{Value: b.Mean}
		lower[i] = opts.LineData{Value: b.Lower}
		upper[i] = opts.LineData{Value: b.Upper}
	}

	line.AddSeries("Moyenne mobile", mean,
		charts.WithLineStyleOpts(opts.LineStyle{Color: ColorSwim, Width: 2}),
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(false)}),
	)
	for _, band := range []struct {
		name  string
		items []opts.LineData
	}{
		{"IC 95% bas", lower},
		{"IC 95% haut", upper},
	} {
		line.AddSeries(band.name, band.items,
			charts.WithLineStyleOpts(opts.LineStyle{Color: ColorSwim, Type: "dashed", Opacity: 0.5}),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		)
	}
}

// HealthLabel is the subtitle of health charts
const HealthLabel = "Santé"

func subtitle(spec *Spec) string {
	if spec.Metric.IsHealth() {
		return HealthLabel
	}
	return spec.Sport.Label()
}

// paceInterval returns the tick interval of a pace axis in minutes
func paceInterval(axis Axis) float64 {
	if axis.TickIntervalSeconds <= 0 {
		return 0
	}
	return float64(axis.TickIntervalSeconds) / 60
}

func pointItems(points []Point) []opts.LineData {
	items := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		items = append(items, opts.LineData{Value: p.Value})
	}
	return items
}

// RenderHTML writes spec as a standalone HTML page
func RenderHTML(w io.Writer, spec *Spec, theme string) error {
	return NewLineChart(spec, theme).Render(w)
}

// WriteHTML renders spec into the file at path
func WriteHTML(path string, spec *Spec, theme string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()

	if err := RenderHTML(f, spec, theme); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

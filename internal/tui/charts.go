package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"go.uber.org/multierr"

	"fitdash/internal/analysis"
	"fitdash/internal/calendar"
	"fitdash/internal/chart"
	"fitdash/internal/service"
)

// chartSports are the sports cycled through on the trends screen
var chartSports = []analysis.SportType{
	analysis.SportRunning,
	analysis.SportCycling,
	analysis.SportSwimming,
	analysis.SportStrength,
}

const (
	plotHeight   = 10
	maxPlotWidth = 90
	zoneBarWidth = 30
	chromeLines  = 3 // footer below the viewport
)

// ChartsModel shows either the trend charts of a sport, the daily health
// charts or the charts of one activity, in a scrollable viewport
type ChartsModel struct {
	queryService *service.QueryService
	today        calendar.Date
	sportIdx     int    // len(chartSports) selects the health charts
	activityID   string // empty for trends

	specs    []*chart.Spec
	activity *service.ActivityCharts
	errs     []error

	viewport viewport.Model
	loading  bool
	err      error
	width    int
	height   int
	ready    bool
}

// NewChartsModel creates the trends screen
func NewChartsModel(qs *service.QueryService, today calendar.Date, width, height int) ChartsModel {
	m := ChartsModel{
		queryService: qs,
		today:        today,
		loading:      true,
		width:        width,
		height:       height,
	}
	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-chromeLines)
		m.ready = true
	}
	return m
}

// WithActivity switches the screen to the charts of one activity
func (m ChartsModel) WithActivity(id string) ChartsModel {
	m.activityID = id
	m.loading = true
	return m
}

// Init initializes the charts screen
func (m ChartsModel) Init() tea.Cmd {
	return m.loadCharts
}

type chartsLoadedMsg struct {
	activityID string
	sport      analysis.SportType
	health     bool
	specs      []*chart.Spec
	activity   *service.ActivityCharts
	err        error
}

// health reports whether the health charts are selected
func (m ChartsModel) health() bool {
	return m.sportIdx == len(chartSports)
}

// sport returns the selected sport, empty for the health charts
func (m ChartsModel) sport() analysis.SportType {
	if m.health() {
		return ""
	}
	return chartSports[m.sportIdx]
}

func (m ChartsModel) loadCharts() tea.Msg {
	if m.activityID != "" {
		res, err := m.queryService.ActivityCharts(m.activityID)
		msg := chartsLoadedMsg{activityID: m.activityID, activity: res, err: err}
		if res != nil {
			msg.specs = res.Charts
		}
		return msg
	}
	if m.health() {
		specs, err := m.queryService.HealthCharts(m.queryService.Owner(), m.today)
		return chartsLoadedMsg{health: true, specs: specs, err: err}
	}
	specs, err := m.queryService.TrendCharts(m.queryService.Owner(), m.sport())
	return chartsLoadedMsg{sport: m.sport(), specs: specs, err: err}
}

// Update handles messages
func (m ChartsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case chartsLoadedMsg:
		if msg.activityID != m.activityID || (msg.activityID == "" && (msg.sport != m.sport() || msg.health != m.health())) {
			return m, nil
		}
		m.loading = false
		m.specs = msg.specs
		m.activity = msg.activity
		m.err, m.errs = nil, nil
		if len(msg.specs) == 0 && msg.activity == nil {
			// nothing built at all
			m.err = msg.err
		} else {
			// partial results: keep the charts, list what failed
			m.errs = multierr.Errors(msg.err)
		}
		if m.ready {
			m.viewport.SetContent(m.renderContent())
			m.viewport.GotoTop()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-chromeLines)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - chromeLines
		}
		if !m.loading {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			return m.switchSport(1)
		case "shift+tab":
			return m.switchSport(-1)
		case "a":
			if m.activityID != "" {
				m.activityID = ""
				m.loading = true
				return m, m.loadCharts
			}
		case "r":
			m.loading = true
			return m, m.loadCharts
		}
	}

	// Handle viewport scrolling
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m ChartsModel) switchSport(delta int) (tea.Model, tea.Cmd) {
	n := len(chartSports) + 1
	m.sportIdx = ((m.sportIdx+delta)%n + n) % n
	m.activityID = ""
	m.loading = true
	return m, m.loadCharts
}

// View renders the charts screen
func (m ChartsModel) View() string {
	if m.loading {
		return "\n  Chargement des graphiques..."
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Erreur : %v", m.err))
	}
	if !m.ready {
		return "\n  Initialisation..."
	}

	help := "tab : sport suivant / santé  j/k : défiler  r : rafraîchir"
	if m.activityID != "" {
		help = "a : tendances  j/k : défiler  r : rafraîchir"
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), statusStyle.Render("  "+help))
}

func (m ChartsModel) renderContent() string {
	var sections []string

	switch {
	case m.activity != nil:
		sections = append(sections, m.renderActivitySummary())
	case m.health():
		sections = append(sections, titleStyle.Render(chart.HealthLabel))
	default:
		sections = append(sections, titleStyle.Render("Tendances : "+m.sport().Label()))
	}

	if len(m.specs) == 0 && m.health() && m.activity == nil {
		sections = append(sections, helpDescStyle.Render("Aucune donnée de santé."))
	} else if len(m.specs) == 0 {
		sections = append(sections, helpDescStyle.Render("Aucune donnée pour ce sport."))
	}
	for _, spec := range m.specs {
		sections = append(sections, renderSpec(spec, m.plotWidth()))
	}
	if m.activity != nil && m.activity.HasTimeInZones {
		sections = append(sections, renderTimeInZones(m.activity.TimeInZones))
	}
	for _, err := range m.errs {
		sections = append(sections, errorStyle.Render("Graphique indisponible : "+err.Error()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ChartsModel) plotWidth() int {
	w := m.width - 20
	if w > maxPlotWidth {
		w = maxPlotWidth
	}
	if w < 10 {
		w = 10
	}
	return w
}

func (m ChartsModel) renderActivitySummary() string {
	a := m.activity.Activity
	title := cardTitleStyle.Render(a.Name)

	lines := []string{
		RenderMetric("Sport", m.activity.Sport.Label()),
		RenderMetric("Date", a.StartTime.Format("02/01/2006 15:04")),
		RenderMetric("Durée", formatDuration(int(a.DurationSeconds))),
	}
	if a.DistanceMeters != nil {
		lines = append(lines, RenderMetric("Distance", fmt.Sprintf("%.2f km", *a.DistanceMeters/1000)))
	}
	if a.AverageHeartrate != nil {
		lines = append(lines, RenderMetric("FC moyenne", fmt.Sprintf("%.0f bpm", *a.AverageHeartrate)))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

// renderSpec plots a chart spec with asciigraph inside a card. The rolling
// band, when present, is drawn as two extra series.
func renderSpec(spec *chart.Spec, width int) string {
	title := cardTitleStyle.Render(spec.Title)
	values := spec.Values()
	if len(values) == 0 {
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, helpDescStyle.Render("Aucune donnée")))
	}

	info, _ := spec.Metric.Info()
	options := []asciigraph.Option{
		asciigraph.Height(plotHeight),
		asciigraph.Width(width),
		asciigraph.Precision(uint(plotPrecision(info))),
		asciigraph.LowerBound(spec.YAxis.Min),
		asciigraph.UpperBound(spec.YAxis.Max),
		asciigraph.Caption(spec.Unit),
	}

	var graph string
	if len(spec.Rolling) > 0 {
		lower := make([]float64, len(spec.Rolling))
		upper := make([]float64, len(spec.Rolling))
		for i, b := range spec.Rolling {
			lower[i], upper[i] = b.Lower, b.Upper
		}
		options = append(options, asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Gray, asciigraph.Gray))
		graph = asciigraph.PlotMany([][]float64{values, lower, upper}, options...)
	} else {
		options = append(options, asciigraph.SeriesColors(asciigraph.Cyan))
		graph = asciigraph.Plot(values, options...)
	}

	sections := []string{title, graph, renderTickLine(spec)}
	if n := len(spec.Warnings); n > 0 {
		sections = append(sections, warningStyle.Render(fmt.Sprintf("%d point(s) ignoré(s)", n)))
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// plotPrecision is the number of decimals of the axis labels; pace axes
// need two to tell seconds apart
func plotPrecision(info chart.MetricInfo) int {
	if info.Pace {
		return 2
	}
	return info.Decimals
}

// renderTickLine lists the formatted ticks of the axis, thinned to at most
// seven labels
func renderTickLine(spec *chart.Spec) string {
	if len(spec.Ticks) == 0 {
		return ""
	}
	step := int(math.Ceil(float64(len(spec.Ticks)) / 7))
	var labels []string
	for i := 0; i < len(spec.Ticks); i += step {
		labels = append(labels, spec.Ticks[i].Label)
	}
	if last := spec.Ticks[len(spec.Ticks)-1].Label; labels[len(labels)-1] != last {
		labels = append(labels, last)
	}
	return helpDescStyle.Render("Graduations : " + strings.Join(labels, " · "))
}

// renderTimeInZones draws one bar per heart rate zone in the zone color
func renderTimeInZones(counts [analysis.ZoneCount]int) string {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return ""
	}

	lines := []string{cardTitleStyle.Render("Temps par zone")}
	for i, c := range counts {
		z := analysis.Zone(i + 1)
		pct := float64(c) / float64(total)
		color := lipgloss.Color(chart.ZoneColor(z))
		label := lipgloss.NewStyle().Foreground(color).Width(14).Render(fmt.Sprintf("%s %s", z, z.Name()))
		lines = append(lines, fmt.Sprintf("%s %s %3.0f%%", label, RenderProgressBar(pct, zoneBarWidth, color), pct*100))
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

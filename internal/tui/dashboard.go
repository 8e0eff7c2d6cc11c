package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"fitdash/internal/analysis"
	"fitdash/internal/calendar"
	"fitdash/internal/chart"
	"fitdash/internal/service"
)

// DashboardModel summarises a week, four weeks or twelve months of training
type DashboardModel struct {
	queryService *service.QueryService
	today        calendar.Date
	period       calendar.Period
	anchor       calendar.Date
	sportIdx     int // 0 for every sport, else chartSports[sportIdx-1]

	dash    *service.Dashboard
	err     error // zone errors come with a dashboard
	loading bool
	width   int
	height  int
}

// NewDashboardModel creates the dashboard anchored on today
func NewDashboardModel(qs *service.QueryService, today calendar.Date) DashboardModel {
	return DashboardModel{
		queryService: qs,
		today:        today,
		period:       calendar.PeriodWeek,
		anchor:       today,
		loading:      true,
	}
}

type dashboardLoadedMsg struct {
	period calendar.Period
	anchor calendar.Date
	sport  analysis.SportType
	dash   *service.Dashboard
	err    error
}

// Init loads the current window
func (m DashboardModel) Init() tea.Cmd {
	return m.load
}

func (m DashboardModel) sport() analysis.SportType {
	if m.sportIdx == 0 {
		return ""
	}
	return chartSports[m.sportIdx-1]
}

func (m DashboardModel) load() tea.Msg {
	d, err := m.queryService.Dashboard(m.queryService.Owner(), m.period, m.anchor, m.sport())
	return dashboardLoadedMsg{period: m.period, anchor: m.anchor, sport: m.sport(), dash: d, err: err}
}

// Update handles messages
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		if msg.period != m.period || msg.anchor != m.anchor || msg.sport != m.sport() {
			return m, nil
		}
		m.loading = false
		m.dash, m.err = msg.dash, msg.err

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "w":
			return m.reload(calendar.PeriodWeek, m.anchor)
		case "m":
			return m.reload(calendar.PeriodMonth, m.anchor)
		case "y":
			return m.reload(calendar.PeriodYear, m.anchor)
		case "left":
			return m.reload(m.period, m.period.Shift(m.anchor, -1))
		case "right":
			return m.reload(m.period, m.period.Shift(m.anchor, 1))
		case "t":
			return m.reload(m.period, m.today)
		case "tab":
			m.sportIdx = (m.sportIdx + 1) % (len(chartSports) + 1)
			return m.reload(m.period, m.anchor)
		case "r":
			return m.reload(m.period, m.anchor)
		}
	}
	return m, nil
}

func (m DashboardModel) reload(period calendar.Period, anchor calendar.Date) (tea.Model, tea.Cmd) {
	m.period, m.anchor = period, anchor
	m.loading = true
	return m, m.load
}

// View renders the dashboard
func (m DashboardModel) View() string {
	if m.loading {
		return "\n  Chargement du tableau de bord..."
	}
	if m.dash == nil {
		return errorStyle.Render(fmt.Sprintf("\n  Erreur : %v", m.err))
	}

	d := m.dash
	filter := "Tous les sports"
	if d.Sport != "" {
		filter = d.Sport.Label()
	}
	sections := []string{
		titleStyle.Render("Tableau de bord : " + d.Window.Label()),
		helpDescStyle.Render("Graphiques : " + filter),
		lipgloss.JoinHorizontal(lipgloss.Top, renderTotals(d), " ", renderBySport(d.BySport)),
	}
	if d.Totals.Count == 0 {
		sections = append(sections, helpDescStyle.Render("Aucune activité sur la période."))
	} else {
		width := min(max(m.width-20, 10), maxPlotWidth)
		sections = append(sections,
			renderBuckets(d, "Durée (h)", width, func(b service.Bucket) float64 { return b.Hours }),
			renderBuckets(d, "Distance (km)", width, func(b service.Bucket) float64 { return b.DistanceKm }),
		)
	}
	sections = append(sections, renderZoneLoad(d))
	if m.err != nil {
		sections = append(sections, errorStyle.Render("Zones indisponibles : "+m.err.Error()))
	}
	sections = append(sections, statusStyle.Render("  w/m/y : période  ← / → : précédente / suivante  tab : sport  t : aujourd'hui"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderTotals(d *service.Dashboard) string {
	lines := []string{
		cardTitleStyle.Render("Total"),
		RenderMetric("Séances", fmt.Sprintf("%d", d.Totals.Count)),
		RenderMetric("Distance", fmt.Sprintf("%.1f km", d.Totals.DistanceKm)),
		RenderMetric("Durée", formatDuration(int(d.Totals.Duration/time.Second))),
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func renderBySport(rows []service.Totals) string {
	lines := []string{cardTitleStyle.Render("Par sport")}
	if len(rows) == 0 {
		lines = append(lines, helpDescStyle.Render("-"))
	}
	for _, t := range rows {
		lines = append(lines, RenderMetric(t.Sport.Label(), fmt.Sprintf("%d · %.1f km · %s",
			t.Count, t.DistanceKm, formatDuration(int(t.Duration/time.Second)))))
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderBuckets plots one value per bucket, empty buckets at zero
func renderBuckets(d *service.Dashboard, caption string, width int, value func(service.Bucket) float64) string {
	values := make([]float64, len(d.Buckets))
	labels := make([]string, len(d.Buckets))
	for i, b := range d.Buckets {
		values[i] = value(b)
		labels[i] = bucketLabel(d.Window.Period, b.Start)
	}
	graph := asciigraph.Plot(values,
		asciigraph.Height(plotHeight/2),
		asciigraph.Width(width),
		asciigraph.Precision(1),
		asciigraph.LowerBound(0),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciigraph.Cyan),
	)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		graph, helpDescStyle.Render(strings.Join(labels, " · "))))
}

func bucketLabel(p calendar.Period, d calendar.Date) string {
	switch p {
	case calendar.PeriodYear:
		return fmt.Sprintf("%02d/%02d", int(d.Month), d.Year%100)
	case calendar.PeriodMonth:
		return "sem. " + d.Time().Format("02/01")
	default:
		return d.Time().Format("02/01")
	}
}

// renderZoneLoad draws the share of time spent in each zone
func renderZoneLoad(d *service.Dashboard) string {
	lines := []string{cardTitleStyle.Render("Charge par zone")}
	switch {
	case d.Zones == nil:
		lines = append(lines, helpDescStyle.Render("Aucune zone cardiaque connue"))
	case !d.HasZoneLoad():
		lines = append(lines, helpDescStyle.Render("Aucune donnée cardiaque sur la période"))
	default:
		var total time.Duration
		for _, z := range d.ZoneLoad {
			total += z.Duration
		}
		for i, z := range d.ZoneLoad {
			zone := analysis.Zone(i + 1)
			pct := float64(z.Duration) / float64(total)
			color := lipgloss.Color(chart.ZoneColor(zone))
			label := lipgloss.NewStyle().Foreground(color).Width(14).Render(fmt.Sprintf("%s %s", zone, zone.Name()))
			lines = append(lines, fmt.Sprintf("%s %s %3.0f%%  %s  %.1f km", label,
				RenderProgressBar(pct, zoneBarWidth, color), pct*100,
				formatDuration(int(z.Duration/time.Second)), z.DistanceKm))
		}
	}
	if d.ZonesInferred {
		lines = append(lines, warningStyle.Render(fmt.Sprintf("Zones estimées depuis la FC max observée (%.0f bpm)", d.Zones.MaxHR())))
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"

	"fitdash/internal/calendar"
	"fitdash/internal/service"
)

// Screen identifiers
type Screen int

const (
	ScreenCalendar Screen = iota
	ScreenCharts
	ScreenDashboard
	ScreenHelp
)

// footerLines is reserved below the screen content for the status line
const footerLines = 2

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	// Screen models
	calendar  CalendarModel
	charts    ChartsModel
	dashboard DashboardModel
	help      HelpModel

	// Services
	queryService *service.QueryService

	// Window dimensions
	width  int
	height int

	// Status message
	status string
}

// NewApp creates a new App with all dependencies
func NewApp(queryService *service.QueryService, today calendar.Date) *App {
	zones, err := queryService.Zones(queryService.Owner())
	if err != nil {
		log.Warnf("help legend without zones: %s", err)
	}

	a := &App{
		screen:       ScreenCalendar,
		queryService: queryService,
		calendar:     NewCalendarModel(queryService, today),
		charts:       NewChartsModel(queryService, today, 0, 0),
		dashboard:    NewDashboardModel(queryService, today),
		help:         NewHelpModel(zones),
	}
	if zones == nil {
		a.status = "Aucune zone cardiaque configurée"
	}
	return a
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	return a.calendar.Init()
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return a, tea.Quit
		case "1":
			a.screen = ScreenCalendar
			return a, nil
		case "2":
			if a.screen != ScreenCharts {
				a.screen = ScreenCharts
				return a, a.charts.Init()
			}
		case "3":
			if a.screen != ScreenDashboard {
				a.screen = ScreenDashboard
				return a, a.dashboard.Init()
			}
		case "?":
			if a.screen != ScreenHelp {
				a.prevScreen = a.screen
			}
			a.screen = ScreenHelp
			return a, nil
		case "esc":
			if a.screen == ScreenHelp {
				a.screen = a.prevScreen
				return a, nil
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// screens get the size left below the header and above the footer
		content := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - a.contentTop() - footerLines}
		var cmds []tea.Cmd
		var m tea.Model
		var cmd tea.Cmd
		m, cmd = a.calendar.Update(content)
		a.calendar = m.(CalendarModel)
		cmds = append(cmds, cmd)
		m, cmd = a.charts.Update(content)
		a.charts = m.(ChartsModel)
		cmds = append(cmds, cmd)
		m, _ = a.dashboard.Update(content)
		a.dashboard = m.(DashboardModel)
		return a, tea.Batch(cmds...)

	case tea.MouseMsg:
		// screens work in content coordinates
		msg.Y -= a.contentTop()
		if a.screen == ScreenCalendar {
			m, cmd := a.calendar.Update(msg)
			a.calendar = m.(CalendarModel)
			return a, cmd
		}
		if a.screen == ScreenCharts {
			m, cmd := a.charts.Update(msg)
			a.charts = m.(ChartsModel)
			return a, cmd
		}
		return a, nil

	case openActivityMsg:
		a.screen = ScreenCharts
		a.charts = a.charts.WithActivity(msg.id)
		return a, a.charts.Init()

	case monthLoadedMsg:
		m, cmd := a.calendar.Update(msg)
		a.calendar = m.(CalendarModel)
		return a, cmd

	case dashboardLoadedMsg:
		if msg.err != nil {
			log.Warnf("dashboard: %s", msg.err)
		}
		m, cmd := a.dashboard.Update(msg)
		a.dashboard = m.(DashboardModel)
		return a, cmd

	case chartsLoadedMsg:
		if msg.err != nil {
			log.Warnf("charts: %s", msg.err)
		}
		m, cmd := a.charts.Update(msg)
		a.charts = m.(ChartsModel)
		return a, cmd
	}

	// Delegate to current screen
	var cmd tea.Cmd
	switch a.screen {
	case ScreenCalendar:
		var m tea.Model
		m, cmd = a.calendar.Update(msg)
		a.calendar = m.(CalendarModel)
	case ScreenCharts:
		var m tea.Model
		m, cmd = a.charts.Update(msg)
		a.charts = m.(ChartsModel)
	case ScreenDashboard:
		var m tea.Model
		m, cmd = a.dashboard.Update(msg)
		a.dashboard = m.(DashboardModel)
	case ScreenHelp:
		var m tea.Model
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}

	return a, cmd
}

// View renders the app
func (a *App) View() string {
	header := a.renderHeader()
	nav := a.renderNav()

	var content string
	switch a.screen {
	case ScreenCalendar:
		content = a.calendar.View()
	case ScreenCharts:
		content = a.charts.View()
	case ScreenDashboard:
		content = a.dashboard.View()
	case ScreenHelp:
		content = a.help.View()
	}

	footer := a.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, nav, content, footer)
}

// contentTop returns the first row below the header and the navigation
func (a *App) contentTop() int {
	return lipgloss.Height(a.renderHeader()) + lipgloss.Height(a.renderNav())
}

func (a *App) renderHeader() string {
	return headerStyle.Render("fitdash")
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Calendrier", ScreenCalendar},
		{"2", "Graphiques", ScreenCharts},
		{"3", "Tableau de bord", ScreenDashboard},
		{"?", "Aide", ScreenHelp},
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}

		label := "[" + item.key + "] " + item.label
		if a.screen == item.screen {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	nav += "  " + navInactiveStyle.Render("[q] Quitter")

	return navStyle.Render(nav)
}

func (a *App) renderFooter() string {
	if a.status != "" {
		return statusStyle.Render(a.status)
	}
	return ""
}

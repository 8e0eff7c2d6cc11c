package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"fitdash/internal/calendar"
	"fitdash/internal/service"
)

// Month grid geometry, in terminal cells
const (
	cellWidth  = 16
	cellHeight = 4 // day number, event lines, spacer
	eventLines = cellHeight - 2
)

var monthNames = [...]string{
	"Janvier", "Février", "Mars", "Avril", "Mai", "Juin",
	"Juillet", "Août", "Septembre", "Octobre", "Novembre", "Décembre",
}

var weekdayNames = [calendar.DaysPerWeek]string{"Lun", "Mar", "Mer", "Jeu", "Ven", "Sam", "Dim"}

// CalendarModel is the month calendar screen model
type CalendarModel struct {
	queryService *service.QueryService
	year         int
	month        time.Month
	today        calendar.Date
	selected     int // selected day of month, 1-based
	view         *service.MonthView
	overlay      calendar.Overlay
	tipIndex     int // event of the selected day shown by the keyboard tooltip, -1 for none
	loading      bool
	err          error
	width        int
	height       int
}

// NewCalendarModel creates a calendar showing the month of today
func NewCalendarModel(qs *service.QueryService, today calendar.Date) CalendarModel {
	return CalendarModel{
		queryService: qs,
		year:         today.Year,
		month:        today.Month,
		today:        today,
		selected:     today.Day,
		tipIndex:     -1,
		loading:      true,
	}
}

// Init initializes the calendar
func (m CalendarModel) Init() tea.Cmd {
	return m.loadMonth
}

type monthLoadedMsg struct {
	year  int
	month time.Month
	view  *service.MonthView
	err   error
}

// openActivityMsg asks the app to chart one activity
type openActivityMsg struct {
	id string
}

func (m CalendarModel) loadMonth() tea.Msg {
	qs := m.queryService
	view, err := qs.Month(qs.Owner(), qs.Viewer(), m.year, m.month, m.today)
	return monthLoadedMsg{year: m.year, month: m.month, view: view, err: err}
}

// Update handles messages
func (m CalendarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case monthLoadedMsg:
		if msg.year != m.year || msg.month != m.month {
			// the user moved on before this month loaded
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		m.view = msg.view
		m.overlay = m.overlay.Hide()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.overlay = m.overlay.Hide()

	case tea.KeyMsg:
		switch msg.String() {
		case "left", "p":
			return m.shiftMonth(-1)
		case "right", "n":
			return m.shiftMonth(1)
		case "t":
			m.year, m.month, m.selected = m.today.Year, m.today.Month, m.today.Day
			return m.reload()
		case "h":
			m.moveSelection(-1)
		case "l":
			m.moveSelection(1)
		case "k", "up":
			m.moveSelection(-calendar.DaysPerWeek)
		case "j", "down":
			m.moveSelection(calendar.DaysPerWeek)
		case "enter":
			m.toggleSelectedTooltip()
		case "o":
			if id, ok := m.selectedActivity(); ok {
				return m, openActivity(id)
			}
		case "r":
			return m.reload()
		case "esc":
			m.overlay = m.overlay.Hide()
		}

	case tea.MouseMsg:
		e, ok := m.eventAt(msg.X, msg.Y)
		switch {
		case !ok:
			m.overlay = m.overlay.Hide()
		case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft &&
			e.Kind == calendar.KindActivity:
			return m, openActivity(e.ID)
		default:
			m.overlay = calendar.Show(e, msg.X, msg.Y, m.width, m.height)
			m.tipIndex = -1
		}
	}
	return m, nil
}

func openActivity(id string) tea.Cmd {
	return func() tea.Msg { return openActivityMsg{id: id} }
}

func (m CalendarModel) shiftMonth(n int) (tea.Model, tea.Cmd) {
	t := time.Date(m.year, m.month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	m.year, m.month = t.Year(), t.Month()
	if days := calendar.DaysInMonth(m.year, m.month); m.selected > days {
		m.selected = days
	}
	return m.reload()
}

func (m CalendarModel) reload() (tea.Model, tea.Cmd) {
	m.loading = true
	m.overlay = m.overlay.Hide()
	return m, m.loadMonth
}

func (m *CalendarModel) moveSelection(delta int) {
	days := calendar.DaysInMonth(m.year, m.month)
	d := m.selected + delta
	if d < 1 || d > days {
		return
	}
	m.selected = d
	m.overlay = m.overlay.Hide()
}

// toggleSelectedTooltip shows the tooltip of the selected day's next event
// next to the day cell, cycling through the day's events
func (m *CalendarModel) toggleSelectedTooltip() {
	if m.view == nil {
		return
	}
	cell, ok := m.view.Grid.Day(m.selected)
	if !ok || len(cell.Events) == 0 {
		m.overlay = m.overlay.Hide()
		return
	}

	next := 0
	if m.overlay.Visible && m.tipIndex >= 0 {
		next = m.tipIndex + 1
		if next >= len(cell.Events) {
			m.overlay = m.overlay.Hide()
			m.tipIndex = -1
			return
		}
	}

	x, y := m.cellOrigin(m.selected)
	m.overlay = calendar.Show(cell.Events[next], x+cellWidth-1, y, m.width, m.height)
	m.tipIndex = next
}

// selectedActivity returns the first activity of the selected day, or the
// activity linked to its first training
func (m CalendarModel) selectedActivity() (string, bool) {
	if m.view == nil {
		return "", false
	}
	cell, ok := m.view.Grid.Day(m.selected)
	if !ok {
		return "", false
	}
	for _, e := range cell.Events {
		switch {
		case e.Kind == calendar.KindActivity:
			return e.ID, true
		case e.Kind == calendar.KindTraining && e.LinkedActivityID != "":
			return e.LinkedActivityID, true
		}
	}
	return "", false
}

// gridTop returns the row of the first week line
func (m CalendarModel) gridTop() int {
	return lipgloss.Height(m.renderHeading())
}

// cellOrigin returns the top-left position of the cell of day d
func (m CalendarModel) cellOrigin(d int) (x, y int) {
	idx := m.leadingBlanks() + d - 1
	return (idx % calendar.DaysPerWeek) * cellWidth, m.gridTop() + (idx/calendar.DaysPerWeek)*cellHeight
}

func (m CalendarModel) leadingBlanks() int {
	if m.view != nil {
		return m.view.Grid.LeadingBlanks()
	}
	return calendar.Grid{Year: m.year, Month: m.month}.LeadingBlanks()
}

// eventAt returns the event drawn at screen-content position (x, y)
func (m CalendarModel) eventAt(x, y int) (calendar.Event, bool) {
	if m.view == nil || x < 0 || x >= calendar.DaysPerWeek*cellWidth {
		return calendar.Event{}, false
	}
	top := m.gridTop()
	if y < top {
		return calendar.Event{}, false
	}
	week, line := (y-top)/cellHeight, (y-top)%cellHeight
	if line < 1 || line > eventLines {
		return calendar.Event{}, false
	}

	weeks := m.view.Grid.Weeks()
	if week >= len(weeks) {
		return calendar.Event{}, false
	}
	cell := weeks[week][x/cellWidth]
	if cell.Blank {
		return calendar.Event{}, false
	}
	shown, _ := visibleEvents(cell.Events)
	if line-1 >= len(shown) {
		return calendar.Event{}, false
	}
	return shown[line-1], true
}

// visibleEvents returns the events that fit in a cell and how many are left
// out; the last line turns into a "+N" marker when they do not all fit
func visibleEvents(events []calendar.Event) ([]calendar.Event, int) {
	if len(events) <= eventLines {
		return events, 0
	}
	return events[:eventLines-1], len(events) - (eventLines - 1)
}

// View renders the calendar
func (m CalendarModel) View() string {
	if m.loading && m.view == nil {
		return "\n  Chargement du calendrier..."
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Erreur : %v", m.err))
	}
	if m.view == nil {
		return "\n  Aucune donnée. Lancez 'fitdash import <dossier>'."
	}

	sections := []string{m.renderHeading(), m.renderGrid()}
	if up := m.renderUpcoming(); up != "" {
		sections = append(sections, up)
	}
	if n := len(m.view.Grid.Warnings); n > 0 {
		sections = append(sections, warningStyle.Render(fmt.Sprintf("%d événement(s) ignoré(s), voir le journal", n)))
	}
	sections = append(sections, statusStyle.Render("←/→ : mois  h/j/k/l : jour  entrée : détails  o : graphiques  t : aujourd'hui"))

	out := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.overlay.Visible {
		out = placeOverlay(m.overlay.X, m.overlay.Y, renderTooltip(m.overlay.Tip), out)
	}
	return out
}

func (m CalendarModel) renderHeading() string {
	lines := []string{fmt.Sprintf("%s %d", monthNames[m.month-1], m.year)}
	if m.view != nil && m.view.CoachMode {
		lines = append(lines, coachBannerStyle.Render("Mode coach : données de "+m.queryService.Owner()))
	}
	title := titleStyle.Render(strings.Join(lines, "\n"))

	var days strings.Builder
	for _, d := range weekdayNames {
		days.WriteString(weekdayStyle.Width(cellWidth).Render(d))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, days.String())
}

func (m CalendarModel) renderGrid() string {
	var rows []string
	for _, week := range m.view.Grid.Weeks() {
		lines := make([]strings.Builder, cellHeight)
		for _, cell := range week {
			for i, text := range m.cellLines(cell) {
				lines[i].WriteString(text)
			}
		}
		for i := range lines {
			rows = append(rows, lines[i].String())
		}
	}
	return strings.Join(rows, "\n")
}

// cellLines renders one cell as cellHeight lines of cellWidth columns
func (m CalendarModel) cellLines(cell calendar.Cell) []string {
	blank := strings.Repeat(" ", cellWidth)
	out := make([]string, cellHeight)
	for i := range out {
		out[i] = blank
	}
	if cell.Blank {
		return out
	}

	numStyle := dayNumberStyle
	switch {
	case cell.Day == m.selected:
		numStyle = selectedDayStyle
	case cell.Date == m.today:
		numStyle = todayStyle
	}
	out[0] = fit(numStyle.Render(fmt.Sprintf("%2d", cell.Day)), cellWidth)

	shown, more := visibleEvents(cell.Events)
	for i, e := range shown {
		out[i+1] = fit(kindStyle(e.Kind).Render(truncateName(eventMarker(e)+e.Name, cellWidth-1)), cellWidth)
	}
	if more > 0 {
		out[len(shown)+1] = fit(helpDescStyle.Render(fmt.Sprintf("+%d autres", more)), cellWidth)
	}
	return out
}

func eventMarker(e calendar.Event) string {
	switch {
	case e.Kind == calendar.KindCompetition:
		return "★ "
	case e.Kind == calendar.KindTraining && e.LinkedActivityID != "":
		return "✓ "
	case e.Kind == calendar.KindTraining:
		return "○ "
	default:
		return "• "
	}
}

// fit pads a styled string to width cells
func fit(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func (m CalendarModel) renderUpcoming() string {
	if len(m.view.Upcoming) == 0 {
		return ""
	}
	lines := []string{cardTitleStyle.Render("À venir")}
	for _, e := range m.view.Upcoming {
		date := e.Date
		if d, err := e.Day(); err == nil {
			date = d.Display()
		}
		lines = append(lines, fmt.Sprintf("%s  %s  %s",
			date,
			kindStyle(e.Kind).Render(fmt.Sprintf("%-13s", e.Kind.Label())),
			truncateName(e.Name, 40),
		))
	}
	return "\n" + strings.Join(lines, "\n")
}

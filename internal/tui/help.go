package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"fitdash/internal/analysis"
	"fitdash/internal/chart"
)

// HelpModel is the help screen model
type HelpModel struct {
	zones *analysis.ZoneBoundaries
}

// NewHelpModel creates a new help model. zones may be nil.
func NewHelpModel(zones *analysis.ZoneBoundaries) HelpModel {
	return HelpModel{zones: zones}
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the help screen
func (m HelpModel) View() string {
	var sections []string

	sections = append(sections, cardTitleStyle.Render("Raccourcis clavier"))

	sections = append(sections, m.renderSection("Navigation", []keyHelp{
		{"1", "Calendrier"},
		{"2", "Graphiques"},
		{"3", "Tableau de bord"},
		{"?", "Aide (cet écran)"},
		{"q", "Quitter"},
		{"esc", "Retour / fermer l'aide"},
	}))

	sections = append(sections, m.renderSection("Calendrier", []keyHelp{
		{"← / →", "Mois précédent / suivant"},
		{"h / l", "Jour précédent / suivant"},
		{"k / j", "Semaine précédente / suivante"},
		{"entrée", "Détails des événements du jour"},
		{"o", "Graphiques de l'activité du jour"},
		{"t", "Revenir à aujourd'hui"},
		{"souris", "Survol : détails, clic : graphiques"},
	}))

	sections = append(sections, m.renderSection("Graphiques", []keyHelp{
		{"tab", "Sport suivant, puis santé"},
		{"a", "Revenir aux tendances"},
		{"j / k", "Défiler"},
		{"r", "Rafraîchir"},
	}))

	sections = append(sections, m.renderSection("Tableau de bord", []keyHelp{
		{"w / m / y", "7 jours / 4 semaines / 12 mois"},
		{"← / →", "Période précédente / suivante"},
		{"tab", "Filtrer les graphiques par sport"},
		{"t", "Revenir à aujourd'hui"},
	}))

	sections = append(sections, m.renderLegend())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

type keyHelp struct {
	key  string
	desc string
}

func (m HelpModel) renderSection(title string, keys []keyHelp) string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render(title))

	for _, k := range keys {
		lines = append(lines, "  "+RenderKeyHelp(k.key, k.desc))
	}

	return strings.Join(lines, "\n")
}

// renderLegend explains the calendar markers and the zone colors
func (m HelpModel) renderLegend() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render("Légende"))
	lines = append(lines,
		"  "+activityStyle.Render("• Activité"),
		"  "+trainingStyle.Render("○ Entraînement prévu")+"  "+trainingStyle.Render("✓ réalisé"),
		"  "+competitionStyle.Render("★ Compétition"),
		"",
	)

	for i := 1; i <= analysis.ZoneCount; i++ {
		z := analysis.Zone(i)
		bound := ""
		if m.zones != nil {
			bound = fmt.Sprintf(" ≤ %.0f bpm", m.zones[i-1])
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(chart.ZoneColor(z)))
		lines = append(lines, "  "+style.Render(fmt.Sprintf("█ %s %s%s", z, z.Name(), bound)))
	}
	if m.zones == nil {
		muted := lipgloss.NewStyle().Foreground(lipgloss.Color(chart.UncategorizedColor))
		lines = append(lines, "  "+muted.Render("Aucune zone configurée : fréquence cardiaque en gris"))
	}

	return strings.Join(lines, "\n")
}

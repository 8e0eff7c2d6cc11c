package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"fitdash/internal/calendar"
)

// renderTooltip draws the tooltip box of an overlay
func renderTooltip(tip calendar.Tooltip) string {
	lines := tip.Lines()
	lines[0] = tooltipKindStyle.Render(lines[0])
	return tooltipStyle.Render(strings.Join(lines, "\n"))
}

// placeOverlay draws fg over bg with its top-left corner at column x,
// row y. Styled bg lines are cut on cell boundaries; rows missing from bg
// are added.
func placeOverlay(x, y int, fg, bg string) string {
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	bgLines := strings.Split(bg, "\n")
	for i, fl := range strings.Split(fg, "\n") {
		row := y + i
		for row >= len(bgLines) {
			bgLines = append(bgLines, "")
		}
		line := bgLines[row]
		if w := ansi.StringWidth(line); w < x {
			line += strings.Repeat(" ", x-w)
		}
		left := ansi.Truncate(line, x, "")
		right := ansi.TruncateLeft(line, x+ansi.StringWidth(fl), "")
		bgLines[row] = left + fl + right
	}
	return strings.Join(bgLines, "\n")
}

package calendar

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// Placeholder is shown for missing tooltip fields
const Placeholder = "Non renseigné"

// Tooltip is the hover content of one event
type Tooltip struct {
	Kind        string
	Name        string
	Date        string
	Distance    string
	Location    string
	Description string
}

// NewTooltip builds the display block of e. Missing distance, location and
// description show Placeholder; a missing distance is never shown as zero.
func NewTooltip(e Event) Tooltip {
	tip := Tooltip{
		Kind:        e.Kind.Label(),
		Name:        orPlaceholder(e.Name),
		Date:        Placeholder,
		Distance:    Placeholder,
		Location:    Placeholder,
		Description: Placeholder,
	}

	if d, err := e.Day(); err == nil {
		tip.Date = d.Display()
	}
	if e.DistanceMeters != nil {
		m := *e.DistanceMeters
		if !math.IsNaN(m) && !math.IsInf(m, 0) && m >= 0 {
			tip.Distance = fmt.Sprintf("%.2f km", m/1000)
		}
	}
	if e.LocationName != nil {
		tip.Location = orPlaceholder(*e.LocationName)
	}
	if e.Description != nil {
		tip.Description = orPlaceholder(*e.Description)
	}
	return tip
}

func orPlaceholder(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return Placeholder
	}
	return s
}

// Lines returns the tooltip rows, kind label first
func (t Tooltip) Lines() []string {
	return []string{
		t.Kind,
		t.Name,
		"Date : " + t.Date,
		"Distance : " + t.Distance,
		"Lieu : " + t.Location,
		"Description : " + t.Description,
	}
}

// Size returns the width and height of the tooltip box including a
// one-cell border and one column of horizontal padding on each side
func (t Tooltip) Size() (width, height int) {
	lines := t.Lines()
	for _, l := range lines {
		if n := utf8.RuneCountInString(l); n > width {
			width = n
		}
	}
	return width + 4, len(lines) + 2
}

// Overlay is the positioned tooltip of the hovered event. The zero value
// is hidden.
type Overlay struct {
	Visible bool
	X, Y    int
	Tip     Tooltip
	EventID string
}

// pointerOffset keeps the box from covering the pointer
const pointerOffset = 2

// Show places the tooltip of e next to the pointer at (x, y), flipping and
// clamping so the box stays inside a screen of the given size
func Show(e Event, x, y, screenWidth, screenHeight int) Overlay {
	tip := NewTooltip(e)
	w, h := tip.Size()

	ox := x + pointerOffset
	if ox+w > screenWidth {
		ox = x - pointerOffset - w
	}
	oy := y + 1
	if oy+h > screenHeight {
		oy = screenHeight - h
	}

	return Overlay{
		Visible: true,
		X:       clamp(ox, 0, screenWidth-w),
		Y:       clamp(oy, 0, screenHeight-h),
		Tip:     tip,
		EventID: e.ID,
	}
}

// Hide returns the hidden overlay. Nothing from the previous hover is kept.
func (Overlay) Hide() Overlay {
	return Overlay{}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CoachMode reports whether viewer is looking at someone else's data.
// Identities compare trimmed and case-insensitive; an empty viewer is the
// owner.
func CoachMode(viewer, owner string) bool {
	viewer = strings.TrimSpace(viewer)
	owner = strings.TrimSpace(owner)
	if viewer == "" || owner == "" {
		return false
	}
	return !strings.EqualFold(viewer, owner)
}

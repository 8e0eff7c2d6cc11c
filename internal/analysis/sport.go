package analysis

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SportType is the canonical sport of an activity or planned training
type SportType string

const (
	SportRunning  SportType = "running"
	SportCycling  SportType = "cycling"
	SportSwimming SportType = "swimming"
	SportStrength SportType = "strength"
	SportOther    SportType = "other"
)

// Sports lists every sport in display order
var Sports = []SportType{SportSwimming, SportCycling, SportRunning, SportStrength, SportOther}

func (s SportType) String() string {
	return string(s)
}

// IsValid reports whether s is one of the known sports
func (s SportType) IsValid() bool {
	switch s {
	case SportRunning, SportCycling, SportSwimming, SportStrength, SportOther:
		return true
	default:
		return false
	}
}

// Label returns the French display name of the sport
func (s SportType) Label() string {
	switch s {
	case SportRunning:
		return "Course à pied"
	case SportCycling:
		return "Vélo"
	case SportSwimming:
		return "Natation"
	case SportStrength:
		return "Musculation"
	default:
		return "Autre"
	}
}

// Title returns the sport key title-cased, e.g. "Running"
func (s SportType) Title() string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(s), "_", " "))
}

// ParseSport parses a canonical sport key
func ParseSport(s string) (SportType, error) {
	sport := SportType(strings.ToLower(strings.TrimSpace(s)))
	if sport == "strength_training" {
		sport = SportStrength
	}
	if !sport.IsValid() {
		return "", fmt.Errorf("unknown sport %q", s)
	}
	return sport, nil
}

var providerTypeKeys = map[string]SportType{
	"running":             SportRunning,
	"treadmill_running":   SportRunning,
	"trail_running":       SportRunning,
	"track_running":       SportRunning,
	"virtual_running":     SportRunning,
	"indoor_running":      SportRunning,
	"cycling":             SportCycling,
	"road_biking":         SportCycling,
	"mountain_biking":     SportCycling,
	"gravel_cycling":      SportCycling,
	"indoor_cycling":      SportCycling,
	"virtual_cycling":     SportCycling,
	"e_bike_fitness":      SportCycling,
	"e_bike_mountain":     SportCycling,
	"swimming":            SportSwimming,
	"lap_swimming":        SportSwimming,
	"pool_swimming":       SportSwimming,
	"open_water_swimming": SportSwimming,
	"strength_training":   SportStrength,
	"strength":            SportStrength,
}

// CanonicalSport maps a provider activity type key (e.g. "trail_running")
// to a SportType. Unknown keys map to SportOther.
func CanonicalSport(typeKey string) SportType {
	if s, ok := providerTypeKeys[strings.ToLower(strings.TrimSpace(typeKey))]; ok {
		return s
	}
	return SportOther
}

// titleKeywords is checked in order; the first match wins
var titleKeywords = []struct {
	sport    SportType
	keywords []string
}{
	{SportCycling, []string{"velo", "cycling", "bike"}},
	{SportSwimming, []string{"nat", "swim", "piscine"}},
	{SportStrength, []string{"muscu", "strength"}},
	{SportRunning, []string{"course", "running", "tapis", "footing"}},
}

// InferSport guesses the sport of a planned training from its title,
// ignoring case and accents ("Vélo" matches "velo")
func InferSport(title string) SportType {
	folded := foldText(title)
	for _, tk := range titleKeywords {
		for _, kw := range tk.keywords {
			if strings.Contains(folded, kw) {
				return tk.sport
			}
		}
	}
	return SportOther
}

// foldText lowercases s and strips combining marks
func foldText(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

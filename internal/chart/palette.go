package chart

import "fitdash/internal/analysis"

// ZonePalette holds one color per heart rate zone, Z1 lightest and coolest,
// Z5 most saturated and warmest
var ZonePalette = [analysis.ZoneCount]string{
	"#93C5FD", // Z1 - light blue (recovery)
	"#10B981", // Z2 - green (endurance)
	"#F59E0B", // Z3 - amber (tempo)
	"#F97316", // Z4 - orange (threshold)
	"#DC2626", // Z5 - red (VO2max)
}

// UncategorizedColor is used for heart rate points when no zones are known
const UncategorizedColor = "#6B7280"

// ZoneColor returns the palette color of z, or UncategorizedColor when z is
// not a valid zone
func ZoneColor(z analysis.Zone) string {
	if z < 1 || int(z) > analysis.ZoneCount {
		return UncategorizedColor
	}
	return ZonePalette[z-1]
}

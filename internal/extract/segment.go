package extract

import "strings"

const (
	// HigherLevelsMarker opens the higher-level slot scaling paragraph.
	HigherLevelsMarker = "Usando um Espaço de Magia de Círculo Superior."

	// CantripUpgradeMarker opens the cantrip scaling paragraph.
	CantripUpgradeMarker = "Aprimoramento de Truque."
)

// splitDescription cuts a description body at the scaling markers. The
// description is everything before the first marker found; each trailing
// segment starts with its own marker and runs to the next marker or the end.
func splitDescription(body string) (description string, atHigherLevels, cantripUpgrade *string) {
	higher := strings.Index(body, HigherLevelsMarker)
	cantrip := strings.Index(body, CantripUpgradeMarker)

	end := len(body)
	if higher >= 0 && higher < end {
		end = higher
	}
	if cantrip >= 0 && cantrip < end {
		end = cantrip
	}
	description = strings.TrimSpace(body[:end])

	if higher >= 0 {
		atHigherLevels = segment(body, higher, cantrip)
	}
	if cantrip >= 0 {
		cantripUpgrade = segment(body, cantrip, higher)
	}
	return description, atHigherLevels, cantripUpgrade
}

// segment returns body[start:] cut at other when other lies after start.
func segment(body string, start, other int) *string {
	end := len(body)
	if other > start {
		end = other
	}
	s := strings.TrimSpace(body[start:end])
	return &s
}

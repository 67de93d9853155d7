// Package spell defines the spell record shared by the extractor and the validator,
// along with the closed vocabularies, id slugs and the canonical name ordering.
package spell

import "strings"

const (
	// RitualMarker flags a ritual spell when present in the casting time.
	RitualMarker = "Ritual"

	// ConcentrationMarker flags a concentration spell when present in the duration.
	ConcentrationMarker = "Concentração"

	// MaxLevel is the highest spell level kept in the dataset.
	MaxLevel = 2
)

// Spell is a single entry of the generated dataset. Field order matches the
// serialized order of the dataset file.
type Spell struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Level          int     `json:"level"`
	School         School  `json:"school"`
	Classes        []Class `json:"classes"`
	CastingTime    string  `json:"castingTime"`
	Range          string  `json:"range"`
	Components     string  `json:"components"`
	Duration       string  `json:"duration"`
	Ritual         bool    `json:"ritual"`
	Concentration  bool    `json:"concentration"`
	Description    string  `json:"description"`
	AtHigherLevels *string `json:"atHigherLevels"`
	CantripUpgrade *string `json:"cantripUpgrade"`
}

// Fields holds everything needed to build a Spell except the values that are
// always derived (id, flags).
type Fields struct {
	Name           string
	Level          int
	School         School
	Classes        []Class
	CastingTime    string
	Range          string
	Components     string
	Duration       string
	Description    string
	AtHigherLevels *string
	CantripUpgrade *string
}

// New builds a Spell with the given id. Classes are normalized and the ritual
// and concentration flags are derived from their text fields.
func New(id string, f Fields) Spell {
	s := Spell{
		ID:             id,
		Name:           f.Name,
		Level:          f.Level,
		School:         f.School,
		Classes:        SortClasses(f.Classes),
		CastingTime:    f.CastingTime,
		Range:          f.Range,
		Components:     f.Components,
		Duration:       f.Duration,
		Description:    f.Description,
		AtHigherLevels: f.AtHigherLevels,
		CantripUpgrade: f.CantripUpgrade,
	}
	s.DeriveFlags()
	return s
}

// DeriveFlags recomputes Ritual and Concentration from CastingTime and Duration.
func (s *Spell) DeriveFlags() {
	s.Ritual = IsRitual(s.CastingTime)
	s.Concentration = IsConcentration(s.Duration)
}

// IsRitual reports whether a casting time carries the ritual marker.
func IsRitual(castingTime string) bool {
	return strings.Contains(castingTime, RitualMarker)
}

// IsConcentration reports whether a duration carries the concentration marker.
func IsConcentration(duration string) bool {
	return strings.Contains(duration, ConcentrationMarker)
}

// ValidLevel reports whether level is within the dataset's range.
func ValidLevel(level int) bool {
	return level >= 0 && level <= MaxLevel
}

// LevelCounts tallies spells per level.
func LevelCounts(spells []Spell) map[int]int {
	counts := make(map[int]int)
	for _, s := range spells {
		counts[s.Level]++
	}
	return counts
}

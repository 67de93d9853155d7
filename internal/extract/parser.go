package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jackzampolin/spellbook/internal/spell"
)

// Field labels of the fixed-shape record header.
const (
	LabelCastingTime = "Tempo de Conjuração:"
	LabelRange       = "Alcance:"
	LabelComponents  = "Componentes:"
	LabelDuration    = "Duração:"
)

// windowSize is the number of lines a record header spans: name, metadata,
// casting time, range, components, duration and the first description line.
const windowSize = 7

// metadataRe recognizes "Truque de <school> (<classes>)" and
// "<n>º Círculo, <school> (<classes>)". Any circle matches so that spells
// outside the kept levels still end the previous record's description.
var metadataRe = regexp.MustCompile(`^(?:Truque de ([^(]+)|(\d+)º Círculo, ([^(]+))\s*\(([^)]+)\)\s*$`)

// SkipReason says why the parser advanced past a candidate line.
type SkipReason string

const (
	SkipNoMetadata    SkipReason = "no-metadata"
	SkipNoCastingTime SkipReason = "no-casting-time"
	SkipOutOfScope    SkipReason = "out-of-scope-level"
)

// SkippedLine is a candidate name line the parser stepped over.
type SkippedLine struct {
	Line   int        `json:"line" yaml:"line"` // 1-based paragraph number in the document
	Text   string     `json:"text" yaml:"text"`
	Reason SkipReason `json:"reason" yaml:"reason"`
}

// Stats describes one parse.
type Stats struct {
	Lines         int                `json:"lines" yaml:"lines"`
	SectionFound  bool               `json:"section_found" yaml:"section_found"`
	SectionStart  int                `json:"section_start" yaml:"section_start"`
	Records       int                `json:"records" yaml:"records"`
	Skipped       map[SkipReason]int `json:"skipped" yaml:"skipped"`
	SkippedSample []SkippedLine      `json:"skipped_sample,omitempty" yaml:"skipped_sample,omitempty"`
}

// TotalSkipped sums the skip counters.
func (s Stats) TotalSkipped() int {
	total := 0
	for _, n := range s.Skipped {
		total += n
	}
	return total
}

// metadata is a parsed metadata line.
type metadata struct {
	level   int
	school  spell.School
	classes []spell.Class
}

// parseMetadata parses a metadata line; ok is false when the line is not one.
func parseMetadata(line string) (metadata, bool) {
	m := metadataRe.FindStringSubmatch(line)
	if m == nil {
		return metadata{}, false
	}

	var md metadata
	if m[2] == "" {
		md.school = spell.School(strings.TrimSpace(m[1]))
	} else {
		level, err := strconv.Atoi(m[2])
		if err != nil {
			return metadata{}, false
		}
		md.level = level
		md.school = spell.School(strings.TrimSpace(m[3]))
	}

	for _, c := range strings.Split(m[4], ",") {
		if c = strings.TrimSpace(c); c != "" {
			md.classes = append(md.classes, spell.Class(c))
		}
	}
	return md, true
}

// isMetadata reports whether line marks the second line of a record.
func isMetadata(line string) bool {
	return metadataRe.MatchString(line)
}

// labeled returns the value after label when line starts with it.
func labeled(line, label string) string {
	if !strings.HasPrefix(line, label) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(line, label))
}

// parser is the cursor state of one scan.
type parser struct {
	lines      []string
	offset     int
	sampleSize int
	ids        *spell.IDAllocator
	stats      Stats
}

// Parse scans section lines for spell records. Lines that cannot start a
// record are stepped over one at a time and counted in the returned stats.
// Records come back in document order; ids are allocated in that order.
func Parse(sec Section, sampleSize int) ([]spell.Spell, Stats) {
	p := &parser{
		lines:      sec.Lines,
		offset:     sec.Offset,
		sampleSize: sampleSize,
		ids:        spell.NewIDAllocator(),
		stats: Stats{
			Lines:        len(sec.Lines),
			SectionFound: sec.Found,
			SectionStart: sec.Offset,
			Skipped:      make(map[SkipReason]int),
		},
	}
	return p.run(), p.stats
}

func (p *parser) run() []spell.Spell {
	var spells []spell.Spell
	i := 0
	for i+windowSize <= len(p.lines) {
		s, next, reason := p.record(i)
		if reason != "" {
			p.skip(i, reason)
			i++
			continue
		}
		spells = append(spells, s)
		i = next
	}
	p.stats.Records = len(spells)
	return spells
}

// record tries to read a record starting at line i. It returns the record and
// the index of the line that starts the following record, or a skip reason.
func (p *parser) record(i int) (spell.Spell, int, SkipReason) {
	lines := p.lines

	md, ok := parseMetadata(lines[i+1])
	if !ok {
		return spell.Spell{}, 0, SkipNoMetadata
	}
	if !strings.HasPrefix(lines[i+2], LabelCastingTime) {
		return spell.Spell{}, 0, SkipNoCastingTime
	}
	if !spell.ValidLevel(md.level) {
		return spell.Spell{}, 0, SkipOutOfScope
	}

	name := lines[i]
	castingTime := labeled(lines[i+2], LabelCastingTime)
	rng := labeled(lines[i+3], LabelRange)
	components := labeled(lines[i+4], LabelComponents)
	duration := labeled(lines[i+5], LabelDuration)

	// The description runs until the line after the current one is a
	// metadata line: the current line is then the next record's name.
	j := i + 6
	var body []string
	for j < len(lines) {
		if j+1 < len(lines) && isMetadata(lines[j+1]) {
			break
		}
		body = append(body, lines[j])
		j++
	}

	description, higher, cantrip := splitDescription(strings.Join(body, "\n"))

	s := spell.New(p.ids.Allocate(name), spell.Fields{
		Name:           name,
		Level:          md.level,
		School:         md.school,
		Classes:        md.classes,
		CastingTime:    castingTime,
		Range:          rng,
		Components:     components,
		Duration:       duration,
		Description:    description,
		AtHigherLevels: higher,
		CantripUpgrade: cantrip,
	})
	return s, j, ""
}

func (p *parser) skip(i int, reason SkipReason) {
	p.stats.Skipped[reason]++
	if len(p.stats.SkippedSample) < p.sampleSize {
		p.stats.SkippedSample = append(p.stats.SkippedSample, SkippedLine{
			Line:   p.offset + i + 1,
			Text:   p.lines[i],
			Reason: reason,
		})
	}
}

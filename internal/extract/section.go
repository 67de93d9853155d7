package extract

import (
	"fmt"
	"regexp"
)

// DefaultSectionPattern matches the heading of the spells chapter.
const DefaultSectionPattern = `(?i)^capítulo\s+7\b.*magias`

// Section is the part of the document the record parser scans.
type Section struct {
	Lines []string
	// Offset is the index of Lines[0] in the full document.
	Offset int
	// Found is false when no heading matched and Lines is the whole document.
	Found bool
}

// CompileSectionPattern compiles a chapter-heading pattern, falling back to
// DefaultSectionPattern when pattern is empty.
func CompileSectionPattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		pattern = DefaultSectionPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid section pattern %q: %w", pattern, err)
	}
	return re, nil
}

// LocateSection drops every line before the first heading match. Without a
// match the whole document is returned.
func LocateSection(lines []string, heading *regexp.Regexp) Section {
	for i, line := range lines {
		if heading.MatchString(line) {
			return Section{Lines: lines[i:], Offset: i, Found: true}
		}
	}
	return Section{Lines: lines}
}

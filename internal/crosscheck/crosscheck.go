// Package crosscheck compares the extracted spell names with names collected
// from independent sources (the spells PDF, a canonical name list). It is a
// diagnostic: nothing here can fail an extraction run.
package crosscheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jackzampolin/spellbook/internal/spell"
	"github.com/jackzampolin/spellbook/internal/svcctx"
)

// DefaultMaxNameLength is the rune count at or above which a line is not
// considered a spell name.
const DefaultMaxNameLength = 80

// ErrUnavailable is returned when a secondary source cannot be read.
var ErrUnavailable = errors.New("secondary source unavailable")

var (
	metadataLineRe = regexp.MustCompile(`^(?:Truque de|\d+º Círculo,)`)
	nameLineRe     = regexp.MustCompile(`^[A-ZÁÀÂÃÉÊÍÓÔÕÚÇ].{2,}$`)
)

// Config lists the secondary sources of one run. Empty paths are skipped.
type Config struct {
	PDFPath       string
	CanonPath     string
	MaxNameLength int
}

// Sources returns the sources configured in cfg.
func (cfg Config) Sources() []Source {
	var sources []Source
	if cfg.PDFPath != "" {
		sources = append(sources, PDFSource{Path: cfg.PDFPath, MaxNameLength: cfg.MaxNameLength})
	}
	if cfg.CanonPath != "" {
		sources = append(sources, CanonSource{Path: cfg.CanonPath})
	}
	return sources
}

// Source yields candidate spell names from an independent document.
type Source interface {
	// Label names the source in reports and logs.
	Label() string
	// Names returns the candidate names; ErrUnavailable when the source
	// cannot be read.
	Names(ctx context.Context) ([]string, error)
}

// Report is the symmetric difference between extracted and secondary names.
type Report struct {
	Source  string   `json:"source" yaml:"source"`
	Checked int      `json:"checked" yaml:"checked"`
	Missing []string `json:"missing" yaml:"missing"` // in the source, not extracted
	Extra   []string `json:"extra" yaml:"extra"`     // extracted, not in the source
}

// OK reports whether both sides agree.
func (r Report) OK() bool {
	return len(r.Missing) == 0 && len(r.Extra) == 0
}

// CandidateNames filters text lines down to likely spell names: lines that
// are not metadata lines, start with an upper-case letter, have no colon and
// are shorter than maxLen runes. Duplicates are dropped; order is kept.
func CandidateNames(text string, maxLen int) []string {
	if maxLen <= 0 {
		maxLen = DefaultMaxNameLength
	}

	seen := make(map[string]bool)
	var names []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || metadataLineRe.MatchString(line) {
			continue
		}
		if !nameLineRe.MatchString(line) || strings.Contains(line, ":") {
			continue
		}
		if utf8.RuneCountInString(line) >= maxLen || seen[line] {
			continue
		}
		seen[line] = true
		names = append(names, line)
	}
	return names
}

// Compare computes the set differences between primary (extracted) and
// secondary names. Both lists come back in dataset order.
func Compare(source string, primary, secondary []string) Report {
	inPrimary := toSet(primary)
	inSecondary := toSet(secondary)

	report := Report{Source: source, Checked: len(inSecondary), Missing: []string{}, Extra: []string{}}
	for name := range inSecondary {
		if !inPrimary[name] {
			report.Missing = append(report.Missing, name)
		}
	}
	for name := range inPrimary {
		if !inSecondary[name] {
			report.Extra = append(report.Extra, name)
		}
	}
	report.Missing = spell.SortStrings(report.Missing)
	report.Extra = spell.SortStrings(report.Extra)
	return report
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// Check compares primary names against every source. Unreadable sources are
// logged as warnings and left out of the result.
func Check(ctx context.Context, sources []Source, primary []string) Reports {
	logger := svcctx.LoggerFrom(ctx)

	var reports Reports
	for _, src := range sources {
		names, err := src.Names(ctx)
		if err != nil {
			logger.Warn("cross-validation unavailable", "source", src.Label(), "error", err)
			continue
		}
		r := Compare(src.Label(), primary, names)
		logger.Info("cross-validation",
			"source", r.Source,
			"checked", r.Checked,
			"missing", len(r.Missing),
			"extra", len(r.Extra),
		)
		reports = append(reports, r)
	}
	return reports
}

// Run checks primary names against the sources configured in cfg.
func Run(ctx context.Context, cfg Config, primary []string) Reports {
	return Check(ctx, cfg.Sources(), primary)
}

// WriteText renders the report for terminal output.
func (r Report) WriteText(w io.Writer) error {
	if r.OK() {
		_, err := fmt.Fprintf(w, "Cross-check (%s): %d names, all match\n", r.Source, r.Checked)
		return err
	}
	if _, err := fmt.Fprintf(w, "Cross-check (%s): %d names, %d missing, %d extra\n",
		r.Source, r.Checked, len(r.Missing), len(r.Extra)); err != nil {
		return err
	}
	for _, n := range r.Missing {
		if _, err := fmt.Fprintf(w, "  missing: %s\n", n); err != nil {
			return err
		}
	}
	for _, n := range r.Extra {
		if _, err := fmt.Fprintf(w, "  extra:   %s\n", n); err != nil {
			return err
		}
	}
	return nil
}

// Reports is the result of checking against several sources.
type Reports []Report

// WriteText renders every report.
func (rs Reports) WriteText(w io.Writer) error {
	if len(rs) == 0 {
		_, err := fmt.Fprintln(w, "Cross-check: no secondary source available")
		return err
	}
	for _, r := range rs {
		if err := r.WriteText(w); err != nil {
			return err
		}
	}
	return nil
}

// Package extract turns the spells chapter of the rulebook into spell records.
//
// The rulebook is read as a flat list of paragraph lines. A record is a fixed
// window of lines (name, metadata, casting time, range, components, duration)
// followed by description lines up to the next record. Lines that do not fit
// the window are stepped over one at a time, which keeps the parser tolerant
// of headers, footers and decorative paragraphs between records.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jackzampolin/spellbook/internal/crosscheck"
	"github.com/jackzampolin/spellbook/internal/dataset"
	"github.com/jackzampolin/spellbook/internal/docx"
	"github.com/jackzampolin/spellbook/internal/spell"
	"github.com/jackzampolin/spellbook/internal/svcctx"
)

var (
	// ErrSourceNotFound is returned when the rulebook document does not exist.
	ErrSourceNotFound = errors.New("source document not found")

	// ErrNoSpells is returned when a scan yields no records.
	ErrNoSpells = errors.New("no spells (levels 0-2) extracted")
)

// Config holds everything one extraction run needs.
type Config struct {
	SourcePath     string // rulebook .docx (required)
	OutputPath     string // dataset file to (over)write
	SectionPattern string // chapter heading regexp; DefaultSectionPattern when empty
	SkipSample     int    // skipped lines kept for diagnostics

	// CrossCheck configures the optional secondary sources.
	CrossCheck crosscheck.Config
}

// Result is the outcome of a successful run.
type Result struct {
	Spells      []spell.Spell      `json:"-" yaml:"-"`
	Stats       Stats              `json:"stats" yaml:"stats"`
	LevelCounts map[int]int        `json:"level_counts" yaml:"level_counts"`
	CrossChecks crosscheck.Reports `json:"cross_checks,omitempty" yaml:"cross_checks,omitempty"`
	OutputPath  string             `json:"output_path" yaml:"output_path"`
}

// WriteText renders the run summary for terminal output.
func (r *Result) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Extracted %d spells | levels: 0=%d 1=%d 2=%d\n",
		len(r.Spells), r.LevelCounts[0], r.LevelCounts[1], r.LevelCounts[2]); err != nil {
		return err
	}
	if err := r.CrossChecks.WriteText(w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Wrote %s\n", r.OutputPath)
	return err
}

// Extract parses normalized document lines into a sorted spell list.
func Extract(lines []string, cfg Config) ([]spell.Spell, Stats, error) {
	heading, err := CompileSectionPattern(cfg.SectionPattern)
	if err != nil {
		return nil, Stats{}, err
	}

	spells, stats := Parse(LocateSection(lines, heading), cfg.SkipSample)
	if len(spells) == 0 {
		return nil, stats, ErrNoSpells
	}

	spell.SortByName(spells)
	return spells, stats, nil
}

// Run reads the rulebook, extracts the spells, cross-checks them against the
// configured secondary sources and writes the dataset.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	logger := svcctx.LoggerFrom(ctx)

	if _, err := os.Stat(cfg.SourcePath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, cfg.SourcePath)
		}
		return nil, fmt.Errorf("failed to stat source document: %w", err)
	}

	lines, err := docx.ReadLines(cfg.SourcePath)
	if err != nil {
		return nil, err
	}
	logger.Debug("read source document", "path", cfg.SourcePath, "lines", len(lines))

	spells, stats, err := Extract(lines, cfg)
	logStats(ctx, stats)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Spells:      spells,
		Stats:       stats,
		LevelCounts: spell.LevelCounts(spells),
		OutputPath:  cfg.OutputPath,
	}
	logger.Info("extracted spells",
		"spells", len(spells),
		"level_0", result.LevelCounts[0],
		"level_1", result.LevelCounts[1],
		"level_2", result.LevelCounts[2],
	)
	warnUnknownVocabulary(ctx, spells)

	result.CrossChecks = crosscheck.Run(ctx, cfg.CrossCheck, names(spells))

	if err := dataset.Write(cfg.OutputPath, spells); err != nil {
		return nil, err
	}
	logger.Info("dataset written", "path", cfg.OutputPath)

	return result, nil
}

func logStats(ctx context.Context, stats Stats) {
	logger := svcctx.LoggerFrom(ctx)
	if !stats.SectionFound {
		logger.Debug("spells chapter heading not found, scanning whole document")
	}
	for _, s := range stats.SkippedSample {
		logger.Debug("skipped line", "line", s.Line, "reason", s.Reason, "text", s.Text)
	}
	logger.Info("scan complete",
		"lines", stats.Lines,
		"section_start", stats.SectionStart,
		"records", stats.Records,
		"skipped", stats.TotalSkipped(),
		"skipped_no_casting_time", stats.Skipped[SkipNoCastingTime],
		"skipped_out_of_scope", stats.Skipped[SkipOutOfScope],
	)
}

// warnUnknownVocabulary flags vocabulary drift early; the validator rejects
// these records later.
func warnUnknownVocabulary(ctx context.Context, spells []spell.Spell) {
	logger := svcctx.LoggerFrom(ctx)
	for _, s := range spells {
		if !s.School.Valid() {
			logger.Warn("unknown school", "id", s.ID, "school", s.School)
		}
		for _, c := range s.Classes {
			if !c.Valid() {
				logger.Warn("unknown class", "id", s.ID, "class", c)
			}
		}
	}
}

func names(spells []spell.Spell) []string {
	out := make([]string, len(spells))
	for i, s := range spells {
		out[i] = s.Name
	}
	return out
}

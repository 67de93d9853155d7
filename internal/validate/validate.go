// Package validate checks a generated spell dataset. It reads the file as
// plain JSON so that records with wrongly typed fields are reported instead
// of rejected wholesale, and it collects every violation rather than
// stopping at the first.
package validate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/jackzampolin/spellbook/internal/dataset"
	"github.com/jackzampolin/spellbook/internal/svcctx"
)

var (
	// ErrDatasetNotFound is returned when the dataset file does not exist.
	ErrDatasetNotFound = errors.New("dataset not found")

	// ErrInvalidDataset is returned when a dataset has violations.
	ErrInvalidDataset = errors.New("dataset has validation errors")
)

// Config holds the validator inputs.
type Config struct {
	DatasetPath string
}

// Violation is one broken rule. Index is the 1-based record position, or 0
// for dataset-wide violations.
type Violation struct {
	Index   int    `json:"index" yaml:"index"`
	ID      string `json:"id,omitempty" yaml:"id,omitempty"`
	Field   string `json:"field,omitempty" yaml:"field,omitempty"`
	Message string `json:"message" yaml:"message"`
}

func (v Violation) String() string {
	if v.Index == 0 {
		return v.Message
	}
	id := v.ID
	if id == "" {
		id = "<no-id>"
	}
	return fmt.Sprintf("#%d [%s]: %s", v.Index, id, v.Message)
}

// Report is the outcome of validating one dataset.
type Report struct {
	Total       int         `json:"total" yaml:"total"`
	LevelCounts map[int]int `json:"level_counts" yaml:"level_counts"`
	Violations  []Violation `json:"violations" yaml:"violations"`
}

// OK reports whether the dataset has no violations.
func (r *Report) OK() bool {
	return len(r.Violations) == 0
}

// Err returns ErrInvalidDataset (with the violation count) when the report
// has violations.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	return fmt.Errorf("%w: %d violation(s)", ErrInvalidDataset, len(r.Violations))
}

// WriteText renders the report for terminal output. The level summary is
// always printed first.
func (r *Report) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Count by level: 0=%d 1=%d 2=%d\n",
		r.LevelCounts[0], r.LevelCounts[1], r.LevelCounts[2]); err != nil {
		return err
	}
	if r.OK() {
		_, err := fmt.Fprintf(w, "\nvalidate OK (%d spells)\n", r.Total)
		return err
	}
	if _, err := fmt.Fprintln(w, "\nValidation errors:"); err != nil {
		return err
	}
	for _, v := range r.Violations {
		if _, err := fmt.Fprintf(w, "- %s\n", v); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks a decoded dataset: first its shape against the schema,
// then every record against the rule set.
func Validate(doc any) (*Report, error) {
	shape, err := checkShape(doc)
	if err != nil {
		return nil, err
	}

	records, _ := doc.([]any)
	report := &Report{
		Total:       len(records),
		LevelCounts: levelCounts(records),
		Violations:  append(shape, checkRules(records)...),
	}
	if report.Violations == nil {
		report.Violations = []Violation{}
	}
	return report, nil
}

// Run loads and validates the dataset at cfg.DatasetPath.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	logger := svcctx.LoggerFrom(ctx)

	doc, err := dataset.LoadRaw(cfg.DatasetPath)
	if err != nil {
		if errors.Is(err, dataset.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, cfg.DatasetPath)
		}
		return nil, err
	}

	report, err := Validate(doc)
	if err != nil {
		return nil, err
	}
	logger.Info("validated dataset",
		"path", cfg.DatasetPath,
		"spells", report.Total,
		"violations", len(report.Violations),
	)
	return report, nil
}

// levelCounts counts records per integral level.
func levelCounts(records []any) map[int]int {
	counts := map[int]int{0: 0, 1: 0, 2: 0}
	for _, r := range records {
		if level, ok := intField(r, "level"); ok {
			counts[level]++
		}
	}
	return counts
}

// recordID returns the record's id when it is a string.
func recordID(r any) string {
	id, _ := stringField(r, "id")
	return id
}

// stringField returns a string value; ok is false when the key is absent or
// not a string.
func stringField(r any, key string) (string, bool) {
	m, ok := r.(map[string]any)
	if !ok {
		return "", false
	}
	s, ok := m[key].(string)
	return s, ok
}

func boolField(r any, key string) (bool, bool) {
	m, ok := r.(map[string]any)
	if !ok {
		return false, false
	}
	b, ok := m[key].(bool)
	return b, ok
}

// intField returns an integral numeric value.
func intField(r any, key string) (int, bool) {
	m, ok := r.(map[string]any)
	if !ok {
		return 0, false
	}
	f, ok := m[key].(float64)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

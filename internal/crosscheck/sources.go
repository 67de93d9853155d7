package crosscheck

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jackzampolin/spellbook/internal/pdftext"
)

// PDFSource reads candidate names from the text of a PDF.
type PDFSource struct {
	Path          string
	MaxNameLength int
}

// Label implements Source.
func (s PDFSource) Label() string {
	return "pdf"
}

// Names implements Source.
func (s PDFSource) Names(ctx context.Context) ([]string, error) {
	if _, err := os.Stat(s.Path); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, s.Path, err)
	}
	text, err := pdftext.ReadText(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return CandidateNames(text, s.MaxNameLength), nil
}

// CanonEntry is one line of a canonical spell list.
type CanonEntry struct {
	Name string `yaml:"name"`
	Page int    `yaml:"page,omitempty"`
}

// CanonSource reads a curated list of spell names: a YAML or JSON array of
// {name, page} entries.
type CanonSource struct {
	Path string
}

// Label implements Source.
func (s CanonSource) Label() string {
	return "canon"
}

// Names implements Source.
func (s CanonSource) Names(ctx context.Context) ([]string, error) {
	entries, err := LoadCanon(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Name != "" {
			names = append(names, e.Name)
		}
	}
	return names, nil
}

// LoadCanon reads a canonical name list.
func LoadCanon(path string) ([]CanonEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read canon list: %w", err)
	}
	var entries []CanonEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse canon list %s: %w", path, err)
	}
	return entries, nil
}

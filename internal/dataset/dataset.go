// Package dataset reads and writes the spell dataset file: a UTF-8 JSON array
// indented with two spaces and terminated by a newline.
package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jackzampolin/spellbook/internal/spell"
)

// ErrNotFound is returned when the dataset file does not exist.
var ErrNotFound = errors.New("dataset not found")

// Encode renders spells in the dataset file format.
func Encode(spells []spell.Spell) ([]byte, error) {
	if spells == nil {
		spells = []spell.Spell{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(spells); err != nil {
		return nil, fmt.Errorf("failed to encode dataset: %w", err)
	}
	return buf.Bytes(), nil
}

// Write replaces the dataset at path. The file is written next to its
// destination and renamed into place, so readers never see a partial file.
func Write(path string, spells []spell.Spell) error {
	data, err := Encode(spells)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close dataset: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("failed to set dataset permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move dataset into place: %w", err)
	}
	return nil
}

// Load reads a dataset into typed records.
func Load(path string) ([]spell.Spell, error) {
	data, err := read(path)
	if err != nil {
		return nil, err
	}
	var spells []spell.Spell
	if err := json.Unmarshal(data, &spells); err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", path, err)
	}
	return spells, nil
}

// LoadRaw reads a dataset without imposing the record types, so that records
// with wrongly typed fields can still be inspected.
func LoadRaw(path string) (any, error) {
	data, err := read(path)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", path, err)
	}
	return doc, nil
}

func read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	return data, nil
}

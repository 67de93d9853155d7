package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the spellbook home directory.
	DefaultDirName = ".spellbook"

	// ExportsDirName is the subdirectory for generated exports.
	ExportsDirName = "exports"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"

	// SQLiteFileName is the default export database name.
	SQLiteFileName = "spells.db"
)

// Dir represents the spellbook home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.spellbook).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// ExportsDir returns the directory for exported files.
func (d *Dir) ExportsDir() string {
	return filepath.Join(d.path, ExportsDirName)
}

// SQLitePath returns the default path of the SQLite export.
func (d *Dir) SQLitePath() string {
	return filepath.Join(d.ExportsDir(), SQLiteFileName)
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	// Create exports directory (this also creates the parent)
	if err := os.MkdirAll(d.ExportsDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create exports directory: %w", err)
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}

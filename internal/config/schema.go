package config

import "time"

// Config holds spellbook configuration.
// Stored at: {home}/config.yaml
type Config struct {
	Paths      PathsCfg      `mapstructure:"paths" yaml:"paths"`
	Extract    ExtractCfg    `mapstructure:"extract" yaml:"extract"`
	CrossCheck CrossCheckCfg `mapstructure:"crosscheck" yaml:"crosscheck"`
	Watch      WatchCfg      `mapstructure:"watch" yaml:"watch"`
}

// PathsCfg locates the input documents and the generated artifacts.
type PathsCfg struct {
	Docx    string `mapstructure:"docx" yaml:"docx"`       // Rulebook (primary source)
	PDF     string `mapstructure:"pdf" yaml:"pdf"`         // Spells chapter PDF (cross-check)
	Canon   string `mapstructure:"canon" yaml:"canon"`     // Curated name list (cross-check)
	Dataset string `mapstructure:"dataset" yaml:"dataset"` // Generated JSON dataset
	SQLite  string `mapstructure:"sqlite" yaml:"sqlite"`   // Export database; empty means {home}/exports/spells.db
}

// ExtractCfg tunes the extractor.
type ExtractCfg struct {
	SectionPattern string `mapstructure:"section_pattern" yaml:"section_pattern"`
	SkipSample     int    `mapstructure:"skip_sample" yaml:"skip_sample"` // Skipped lines kept for debug logging
}

// CrossCheckCfg tunes candidate name detection.
type CrossCheckCfg struct {
	MaxNameLength int `mapstructure:"max_name_length" yaml:"max_name_length"`
}

// WatchCfg tunes watch mode.
type WatchCfg struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"-"`
	Attempts uint          `mapstructure:"attempts" yaml:"-"`
	Delay    time.Duration `mapstructure:"delay" yaml:"-"`
}

// MarshalYAML writes durations in their string form so the file reads back
// through viper unchanged.
func (w WatchCfg) MarshalYAML() (interface{}, error) {
	return struct {
		Debounce string `yaml:"debounce"`
		Attempts uint   `yaml:"attempts"`
		Delay    string `yaml:"delay"`
	}{
		Debounce: w.Debounce.String(),
		Attempts: w.Attempts,
		Delay:    w.Delay.String(),
	}, nil
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsCfg{
			Docx:    "D&D 5.5 - Livro do Jogador (2024) 5.1.docx",
			PDF:     "7-Magias.pdf",
			Dataset: "src/data/spells.generated.json",
		},
		Extract: ExtractCfg{
			SectionPattern: `(?i)^capítulo\s+7\b.*magias`,
			SkipSample:     20,
		},
		CrossCheck: CrossCheckCfg{
			MaxNameLength: 80,
		},
		Watch: WatchCfg{
			Debounce: 500 * time.Millisecond,
			Attempts: 5,
			Delay:    time.Second,
		},
	}
}

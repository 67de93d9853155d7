package main

import (
	"github.com/jackzampolin/spellbook/internal/config"
	"github.com/jackzampolin/spellbook/internal/crosscheck"
	"github.com/jackzampolin/spellbook/internal/extract"
	"github.com/jackzampolin/spellbook/internal/home"
	"github.com/jackzampolin/spellbook/internal/validate"
	"github.com/jackzampolin/spellbook/internal/watch"
)

// pathOverrides are per-invocation flag values; empty fields keep the
// configured paths.
type pathOverrides struct {
	docx    string
	pdf     string
	canon   string
	dataset string
	sqlite  string
}

func (o pathOverrides) apply(p config.PathsCfg) config.PathsCfg {
	if o.docx != "" {
		p.Docx = o.docx
	}
	if o.pdf != "" {
		p.PDF = o.pdf
	}
	if o.canon != "" {
		p.Canon = o.canon
	}
	if o.dataset != "" {
		p.Dataset = o.dataset
	}
	if o.sqlite != "" {
		p.SQLite = o.sqlite
	}
	return p
}

func crosscheckConfig(cfg *config.Config, o pathOverrides) crosscheck.Config {
	paths := o.apply(cfg.Paths)
	return crosscheck.Config{
		PDFPath:       paths.PDF,
		CanonPath:     paths.Canon,
		MaxNameLength: cfg.CrossCheck.MaxNameLength,
	}
}

func extractConfig(cfg *config.Config, o pathOverrides) extract.Config {
	paths := o.apply(cfg.Paths)
	return extract.Config{
		SourcePath:     paths.Docx,
		OutputPath:     paths.Dataset,
		SectionPattern: cfg.Extract.SectionPattern,
		SkipSample:     cfg.Extract.SkipSample,
		CrossCheck:     crosscheckConfig(cfg, o),
	}
}

func validateConfig(cfg *config.Config, o pathOverrides) validate.Config {
	return validate.Config{DatasetPath: o.apply(cfg.Paths).Dataset}
}

func watchConfig(cfg *config.Config, o pathOverrides) watch.Config {
	return watch.Config{
		Path:     o.apply(cfg.Paths).Docx,
		Debounce: cfg.Watch.Debounce,
		Attempts: cfg.Watch.Attempts,
		Delay:    cfg.Watch.Delay,
	}
}

// sqlitePath resolves the export database, defaulting into the home dir.
func sqlitePath(cfg *config.Config, o pathOverrides, h *home.Dir) string {
	if p := o.apply(cfg.Paths).SQLite; p != "" {
		return p
	}
	return h.SQLitePath()
}

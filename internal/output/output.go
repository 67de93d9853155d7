// Package output renders command results as human-readable text, JSON or
// YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Format defines the output format for CLI commands.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// DefaultFormat is the default output format.
var DefaultFormat Format = FormatText

// globalFormat is set by the root command's --format flag.
var globalFormat Format = DefaultFormat

// TextWriter is implemented by results with a human-readable rendering.
type TextWriter interface {
	WriteText(w io.Writer) error
}

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return DefaultFormat, nil
	default:
		return "", fmt.Errorf("unknown output format: %s (want text, json or yaml)", s)
	}
}

// SetFormat sets the global output format.
func SetFormat(f Format) {
	globalFormat = f
}

// GetFormat returns the current global output format.
func GetFormat() Format {
	return globalFormat
}

// IsStructured reports whether the global format is JSON or YAML.
func IsStructured() bool {
	return globalFormat == FormatJSON || globalFormat == FormatYAML
}

// Output writes data to stdout in the configured format.
func Output(data any) error {
	return To(os.Stdout, globalFormat, data)
}

// To writes data to the given writer in the specified format. In text
// format, values implementing TextWriter render themselves; anything else
// is printed with fmt.
func To(w io.Writer, format Format, data any) error {
	switch format {
	case FormatText:
		if tw, ok := data.(TextWriter); ok {
			return tw.WriteText(w)
		}
		_, err := fmt.Fprintln(w, data)
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

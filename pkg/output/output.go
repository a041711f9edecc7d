// Package output writes command results as human text, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Format selects how a result is written.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates s as a Format. An empty string is FormatText.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

// Printer writes results in one Format.
type Printer struct {
	w      io.Writer
	format Format
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer, format Format) *Printer {
	return &Printer{w: w, format: format}
}

// Format returns the printer's format.
func (p *Printer) Format() Format {
	return p.format
}

// Print writes v. For FormatText it calls text instead, which owns the
// human layout.
func (p *Printer) Print(v any, text func(w io.Writer) error) error {
	switch p.format {
	case FormatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		return text(p.w)
	}
}

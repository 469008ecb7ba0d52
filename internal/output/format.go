// Package output prints command results as a table, JSON or YAML.
package output

import (
	"fmt"
	"io"
	"strings"
)

// Format is an output format of the non-interactive commands.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat parses a --output value. An empty value is a table.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "table", "":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid output format: %q (valid: table, json, yaml)", s)
	}
}

// Print writes data to w in format. Tables need a TableRenderer; other data
// falls back to JSON.
func Print(w io.Writer, format Format, data any) error {
	switch format {
	case FormatTable:
		if renderer, ok := data.(TableRenderer); ok {
			return PrintTable(w, renderer)
		}
		return PrintJSON(w, data)
	case FormatJSON:
		return PrintJSON(w, data)
	case FormatYAML:
		return PrintYAML(w, data)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

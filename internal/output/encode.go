package output

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Format selects how results are written.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a format name. Empty means table.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want table, json or yaml)", s)
	}
}

// Structured reports whether f is a machine-readable format.
func (f Format) Structured() bool {
	return f == FormatJSON || f == FormatYAML
}

// Encode writes v as JSON or YAML. Table output is rendered by the
// caller and is rejected here.
func (p *Printer) Encode(f Format, v any) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("format %q cannot encode values", f)
	}
}

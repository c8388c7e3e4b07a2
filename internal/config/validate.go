package config

import (
	"fmt"
	"slices"
	"strings"
)

// Valid enum values for configuration fields.
var (
	ValidSortModes  = []string{"path", "status", "branch", "health"}
	ValidFormats    = []string{"table", "json", "yaml"}
	ValidThemeNames = []string{"default", "nord", "gruvbox", "catppuccin", "none"}
	ValidThemeModes = []string{"auto", "light", "dark"}
)

// ValidateSort validates a sort mode against ValidSortModes.
// Exported for use in CLI flag validation.
func ValidateSort(mode string) error {
	return validateEnum(mode, "sort", ValidSortModes)
}

// ValidateFormat validates an output format against ValidFormats.
func ValidateFormat(format string) error {
	return validateEnum(format, "format", ValidFormats)
}

// validateEnum checks that value (if non-empty) is one of the allowed values.
// Returns a formatted error mentioning the field name and allowed options.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

// validatePatterns rejects ignore patterns that match nothing useful
// once the leading ! and the / markers are stripped. Every other
// character, including ? and [, is matched literally.
func validatePatterns(patterns []string, field string) error {
	for i, pat := range patterns {
		p := strings.TrimSpace(pat)
		if strings.HasPrefix(p, "#") {
			continue
		}
		if strings.Trim(strings.TrimPrefix(p, "!"), "/") == "" {
			return fmt.Errorf("invalid %s[%d] %q: empty pattern", field, i, pat)
		}
	}
	return nil
}

// validateDirNames checks that ignore_dirs holds plain directory names.
func validateDirNames(names []string, field string) error {
	for i, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || strings.ContainsAny(n, `/\`) {
			return fmt.Errorf("invalid %s[%d] %q: must be a directory name", field, i, names[i])
		}
	}
	return nil
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}

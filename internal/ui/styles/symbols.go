package styles

import (
	"github.com/charmbracelet/x/ansi"
)

// Symbols holds the icon set used for repository state.
type Symbols struct {
	Clean    string
	Dirty    string
	Ahead    string
	Behind   string
	Detached string
	Stash    string
}

// Default symbols (plain unicode)
var defaultSymbols = Symbols{
	Clean:    "✓",
	Dirty:    "●",
	Ahead:    "↑",
	Behind:   "↓",
	Detached: "⚠",
	Stash:    "≡",
}

// Nerd font symbols
var nerdfontSymbols = Symbols{
	Clean:    "\uf00c", // nf-fa-check
	Dirty:    "\uf111", // nf-fa-circle
	Ahead:    "\uf062", // nf-fa-arrow_up
	Behind:   "\uf063", // nf-fa-arrow_down
	Detached: "\uf071", // nf-fa-warning
	Stash:    "\uf187", // nf-fa-archive
}

var useNerdfont bool

var currentSymbols = defaultSymbols

// SetNerdfont enables or disables nerd font symbols
func SetNerdfont(enabled bool) {
	useNerdfont = enabled
	if enabled {
		currentSymbols = nerdfontSymbols
	} else {
		currentSymbols = defaultSymbols
	}
}

// NerdfontEnabled returns whether nerd font symbols are enabled
func NerdfontEnabled() bool {
	return useNerdfont
}

// CurrentSymbols returns the current symbol set
func CurrentSymbols() Symbols {
	return currentSymbols
}

// FormatState returns the colored clean/dirty marker.
func FormatState(clean bool) string {
	if clean {
		return SuccessStyle.Render(currentSymbols.Clean + " clean")
	}
	return WarningStyle.Render(currentSymbols.Dirty + " dirty")
}

// FormatPath renders text as an OSC 8 hyperlink to the local directory
// path. Terminals without hyperlink support show just the text.
func FormatPath(path, text string) string {
	if path == "" {
		return text
	}
	return ansi.SetHyperlink("file://"+path) + text + ansi.ResetHyperlink()
}

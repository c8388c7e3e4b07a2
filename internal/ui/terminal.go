package ui

import (
	"os"

	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether f is a terminal, including Cygwin and
// MSYS pseudo terminals.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// IsInteractive reports whether prompts can be shown: stdin and stderr
// must both be terminals.
func IsInteractive() bool {
	return IsTerminal(os.Stdin) && IsTerminal(os.Stderr)
}

// ShowProgress reports whether spinners and progress bars should be
// drawn on stderr.
func ShowProgress() bool {
	return IsTerminal(os.Stderr) && os.Getenv("TERM") != "dumb"
}

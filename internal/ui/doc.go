// Package ui holds terminal detection shared by the UI subpackages.
//
// Rendering lives in the subpackages:
//
//   - static: status tables, summaries and suggestion lists
//   - progress: spinner and progress bar on stderr
//   - prompt: confirm, select and text input prompts
//   - styles: themes, colors and symbols
//
// Interactive components are only used when [IsInteractive] reports a
// terminal; otherwise commands fall back to plain output or flags.
package ui

// Package prompt provides simple interactive prompts.
//
// Prompts render on stderr so stdout stays usable for piping. Callers
// check for an interactive terminal first (see ui.IsInteractive).
//
// Available prompts:
//   - [Confirm], [ConfirmDanger]: Yes/No confirmation prompt
//   - [TextInput]: Single-line text input
//   - [Select]: Single selection from a list
package prompt

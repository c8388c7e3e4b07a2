// Package cmd provides helpers for executing external commands with
// context support and informative errors.
//
// Failures carry the command's trimmed stderr instead of the bare exit
// status, and every invocation is reported to the context logger, which
// prints it in verbose mode:
//
//	out, err := cmd.OutputContext(ctx, repoPath, "git", "status", "--porcelain")
//	if err != nil {
//	    return fmt.Errorf("read status: %w", err) // err holds git's stderr
//	}
package cmd

package main

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/raphi011/nexus/internal/config"
	"github.com/raphi011/nexus/internal/health"
	"github.com/raphi011/nexus/internal/log"
	"github.com/raphi011/nexus/internal/output"
	"github.com/raphi011/nexus/internal/status"
	"github.com/raphi011/nexus/internal/suggest"
	"github.com/raphi011/nexus/internal/ui/static"
)

func newSuggestCmd() *cobra.Command {
	var (
		depth   int
		limit   int
		format  string
		copyCmd bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:     "suggest [path]",
		Short:   "Suggest fixes for repositories that need attention",
		Aliases: []string{"doctor"},
		GroupID: GroupCore,
		Args:    cobra.MaximumNArgs(1),
		Long: `Suggest fixes for every repository with issues.

Repositories are listed worst health first. Suggestions within a
repository are ordered by priority: critical, high, medium, low.
Use 'nexus fix' to apply one.`,
		Example: `  nexus suggest               # Suggestions below the current directory
  nexus suggest ~/code -n 1   # Only the top suggestion per repository
  nexus suggest --copy        # Copy the most urgent command to the clipboard`,
		ValidArgsFunction: completeDirs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			out := output.FromContext(ctx)

			root, err := resolveRoot(args, cfg)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("depth") && depth <= 0 {
				return fmt.Errorf("--depth must be greater than 0 (got %d)", depth)
			}
			if depth <= 0 {
				depth = cfg.ScanDepth
			}
			if format == "" {
				format = cfg.Display.DefaultFormat
			}
			outFormat, err := output.ParseFormat(format)
			if err != nil {
				return err
			}

			opts := scanOptions{
				root:   root,
				depth:  depth,
				status: status.Options{Verbose: true},
				cache:  cfg.Cache.Enabled && !noCache,
			}
			statuses, err := collectStatuses(ctx, cfg, opts)
			if err != nil {
				return err
			}
			health.Sort(statuses)

			var withIssues []status.RepoStatus
			for _, s := range statuses {
				if len(suggest.Generate(s)) > 0 {
					withIssues = append(withIssues, s)
				}
			}

			if outFormat.Structured() {
				return out.Encode(outFormat, buildReport(root, withIssues, true))
			}

			if len(statuses) == 0 {
				out.Printf("No git repositories found in %s\n", root)
				return nil
			}
			if len(withIssues) == 0 {
				out.Printf("All %d repositories are healthy\n", len(statuses))
				return nil
			}

			for i, s := range withIssues {
				if i > 0 {
					out.Println()
				}
				out.Print(static.RenderSuggestions(s, suggest.Generate(s), root, limit))
			}

			if copyCmd {
				top, s, ok := topSuggestion(withIssues)
				if !ok {
					return nil
				}
				line := fmt.Sprintf("cd %q && %s", s.Path, top.Command())
				if err := clipboard.WriteAll(line); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				log.FromContext(ctx).Printf("Copied to clipboard: %s\n", line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&depth, "depth", "d", 0, "Directory levels searched for repositories (default from config)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum suggestions per repository (0 = all)")
	cmd.Flags().StringVar(&format, "format", "", "Output format: table, json or yaml (default from config)")
	cmd.Flags().BoolVarP(&copyCmd, "copy", "c", false, "Copy the most urgent command to the clipboard")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Analyze every repository, ignoring the status cache")

	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

// topSuggestion returns the most urgent suggestion across statuses. Ties
// go to the earlier status, so callers pass them worst health first.
func topSuggestion(statuses []status.RepoStatus) (suggest.Suggestion, status.RepoStatus, bool) {
	var (
		best     suggest.Suggestion
		bestRepo status.RepoStatus
		found    bool
	)
	for _, s := range statuses {
		sgs := suggest.Generate(s)
		if len(sgs) == 0 {
			continue
		}
		if !found || sgs[0].Priority > best.Priority {
			best, bestRepo, found = sgs[0], s, true
		}
	}
	return best, bestRepo, found
}

package main

import (
	"github.com/spf13/cobra"
)

// scanFlags are shared by the root command and scan.
type scanFlags struct {
	depth         int
	verboseStatus bool
	hooks         bool
	filter        string
	sort          string
	format        string
	json          bool
	suggest       bool
	noCache       bool
}

func addScanFlags(cmd *cobra.Command, f *scanFlags) {
	cmd.Flags().IntVarP(&f.depth, "depth", "d", 0, "Directory levels searched for repositories (default from config)")
	cmd.Flags().BoolVarP(&f.verboseStatus, "verbose-status", "V", false, "Show stash count, file counts and last commit")
	cmd.Flags().BoolVar(&f.hooks, "hooks", false, "Show installed git hooks")
	cmd.Flags().StringVarP(&f.filter, "filter", "f", "", "Only show repositories that are clean, dirty, ahead or behind")
	cmd.Flags().StringVarP(&f.sort, "sort", "s", "", "Sort by path, status, branch or health (default from config)")
	cmd.Flags().StringVar(&f.format, "format", "", "Output format: table, json or yaml (default from config)")
	cmd.Flags().BoolVarP(&f.json, "json", "j", false, "Shorthand for --format json")
	cmd.Flags().BoolVar(&f.suggest, "suggest", false, "Show suggestions for repositories with issues")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "Analyze every repository, ignoring the status cache")

	cmd.MarkFlagsMutuallyExclusive("json", "format")

	_ = cmd.RegisterFlagCompletionFunc("filter", completeFilters)
	_ = cmd.RegisterFlagCompletionFunc("sort", completeSorts)
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
}

func newScanCmd() *cobra.Command {
	var f scanFlags

	cmd := &cobra.Command{
		Use:     "scan [path]",
		Short:   "Show the status of every repository below a directory",
		Aliases: []string{"ls", "status"},
		GroupID: GroupCore,
		Args:    cobra.MaximumNArgs(1),
		Long: `Scan a directory tree for git repositories and show their status.

Without a path the configured root is scanned, or the current directory
when none is configured. Each repository gets a health score between 0
and 100 based on uncommitted changes, upstream sync and branch state.`,
		Example: `  nexus scan                  # Scan the current directory
  nexus scan ~/code -d 2      # Scan two levels below ~/code
  nexus scan -f dirty         # Only repositories with changes
  nexus scan -s health -V     # Worst health first, with details
  nexus scan --suggest        # Include fix suggestions
  nexus scan --format yaml    # Machine-readable output`,
		ValidArgsFunction: completeDirs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScanCmd(cmd, args, &f)
		},
	}

	addScanFlags(cmd, &f)

	return cmd
}

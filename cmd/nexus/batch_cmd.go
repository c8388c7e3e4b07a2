package main

import (
	"github.com/spf13/cobra"
)

type batchFlags struct {
	arg     string
	filter  string
	all     bool
	dryRun  bool
	yes     bool
	format  string
	noCache bool
}

func newBatchCmd() *cobra.Command {
	var f batchFlags

	cmd := &cobra.Command{
		Use:     "batch <action> [path]",
		Short:   "Apply one action to many repositories in parallel",
		GroupID: GroupFix,
		Args:    cobra.RangeArgs(1, 2),
		Long: `Apply the same action to every matching repository below a directory.

Actions: stage, commit, stash, pull, push, branch, discard, pop, sync.

By default only repositories the action makes sense for are targeted:
dirty ones for stage, commit, stash and discard, those behind their
upstream for pull and those ahead for push. Use --filter to choose a
different set or --all to target every repository.

A failure in one repository never stops the others. The command exits
non-zero when any repository failed.`,
		Example: `  nexus batch pull ~/code                  # Fast-forward everything behind
  nexus batch stash --arg "before upgrade"  # Stash all dirty repositories
  nexus batch commit --arg wip -n           # Show what would be committed
  nexus batch discard -f dirty --yes        # Discard without asking`,
		ValidArgsFunction: completeBatchArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args, f)
		},
	}

	cmd.Flags().StringVar(&f.arg, "arg", "", "Commit message, stash message or branch name for the action")
	cmd.Flags().StringVarP(&f.filter, "filter", "f", "", "Target clean, dirty, ahead or behind repositories")
	cmd.Flags().BoolVar(&f.all, "all", false, "Target every repository")
	cmd.Flags().BoolVarP(&f.dryRun, "dry-run", "n", false, "Show what would be done without changing anything")
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "Do not ask for confirmation")
	cmd.Flags().StringVar(&f.format, "format", "", "Output format: table, json or yaml (default from config)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "Analyze every repository, ignoring the status cache")

	cmd.MarkFlagsMutuallyExclusive("filter", "all")

	_ = cmd.RegisterFlagCompletionFunc("filter", completeFilters)
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

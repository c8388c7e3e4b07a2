package main

import (
	"github.com/spf13/cobra"
)

type fixFlags struct {
	root   string
	pick   int
	action string
	arg    string
	dryRun bool
	yes    bool
}

func newFixCmd() *cobra.Command {
	var f fixFlags

	cmd := &cobra.Command{
		Use:     "fix [repo]",
		Short:   "Apply a suggested fix to one repository",
		GroupID: GroupFix,
		Args:    cobra.MaximumNArgs(1),
		Long: `Apply a fix to a single repository.

The repository is matched by path, relative path or directory name below
the scan root, falling back to fuzzy matching. Without an argument the
repository containing the current directory is used.

Without --pick or --action the suggestions are shown for selection.
Discarding changes cannot be undone and asks for confirmation unless
--yes is given.`,
		Example: `  nexus fix                       # Choose a fix for the current repository
  nexus fix api --pick 1          # Apply the top suggestion for "api"
  nexus fix api -a pull           # Pull without looking at suggestions
  nexus fix api -a commit --arg "save work"
  nexus fix api -a discard -n     # Show what discarding would do`,
		ValidArgsFunction: completeRepos,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) > 0 {
				query = args[0]
			}
			return runFix(cmd.Context(), query, f)
		},
	}

	cmd.Flags().StringVarP(&f.root, "root", "C", "", "Directory to search for the repository (default from config)")
	cmd.Flags().IntVarP(&f.pick, "pick", "p", 0, "Apply suggestion number N without prompting")
	cmd.Flags().StringVarP(&f.action, "action", "a", "", "Apply this action instead of a suggestion")
	cmd.Flags().StringVar(&f.arg, "arg", "", "Commit message, stash message or branch name for the action")
	cmd.Flags().BoolVarP(&f.dryRun, "dry-run", "n", false, "Show what would be done without changing anything")
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "Do not ask for confirmation")

	cmd.MarkFlagsMutuallyExclusive("pick", "action")

	_ = cmd.RegisterFlagCompletionFunc("action", completeActions)
	_ = cmd.MarkFlagDirname("root")

	return cmd
}

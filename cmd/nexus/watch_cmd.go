package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/raphi011/nexus/internal/config"
	"github.com/raphi011/nexus/internal/log"
	"github.com/raphi011/nexus/internal/output"
	"github.com/raphi011/nexus/internal/status"
	"github.com/raphi011/nexus/internal/ui"
	"github.com/raphi011/nexus/internal/watch"
)

func newWatchCmd() *cobra.Command {
	var (
		f        scanFlags
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:     "watch [path]",
		Short:   "Keep the status table up to date as repositories change",
		GroupID: GroupUtility,
		Args:    cobra.MaximumNArgs(1),
		Long: `Show the status table and refresh it whenever a repository changes.

Changes are detected on the git metadata (HEAD, index, refs), so commits,
checkouts, fetches and staging trigger a refresh. Edits to files that are
not staged yet do not. Press Ctrl+C to stop.`,
		Example: `  nexus watch ~/code          # Watch all repositories below ~/code
  nexus watch -s health -V    # Worst health first, with details`,
		ValidArgsFunction: completeDirs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)

			opts, err := resolveScanOptions(cmd, args, &f, cfg)
			if err != nil {
				return err
			}
			opts.format = output.FormatTable
			return runWatch(ctx, cfg, opts, debounce)
		},
	}

	cmd.Flags().IntVarP(&f.depth, "depth", "d", 0, "Directory levels searched for repositories (default from config)")
	cmd.Flags().BoolVarP(&f.verboseStatus, "verbose-status", "V", false, "Show stash count, file counts and last commit")
	cmd.Flags().BoolVar(&f.hooks, "hooks", false, "Show installed git hooks")
	cmd.Flags().StringVarP(&f.filter, "filter", "f", "", "Only show repositories that are clean, dirty, ahead or behind")
	cmd.Flags().StringVarP(&f.sort, "sort", "s", "", "Sort by path, status, branch or health (default from config)")
	cmd.Flags().BoolVar(&f.suggest, "suggest", false, "Show suggestions for repositories with issues")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Wait this long after the last change before refreshing")

	_ = cmd.RegisterFlagCompletionFunc("filter", completeFilters)
	_ = cmd.RegisterFlagCompletionFunc("sort", completeSorts)

	return cmd
}

func runWatch(ctx context.Context, cfg *config.Config, opts scanOptions, debounce time.Duration) error {
	l := log.FromContext(ctx)
	out := output.FromContext(ctx)

	paths, err := discoverRepos(ctx, cfg, opts)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		out.Printf("No git repositories found in %s\n", opts.root)
		return nil
	}

	analyzer := status.NewAnalyzer(cfg.Workers)
	current := make(map[string]status.RepoStatus, len(paths))
	for _, st := range analyzer.AnalyzeAll(ctx, paths, opts.status) {
		current[st.Path] = st
	}

	redraw := ui.IsTerminal(os.Stdout)
	render := func(note string) {
		statuses := make([]status.RepoStatus, 0, len(current))
		for _, st := range current {
			statuses = append(statuses, st)
		}
		statuses = opts.filter.Apply(statuses)
		sortStatuses(statuses, opts.sort)

		if redraw {
			out.Print(ansi.EraseEntireScreen + ansi.CursorHomePosition)
		}
		out.Printf("%s  %s\n\n", note, time.Now().Format(time.TimeOnly))
		if len(statuses) == 0 {
			out.Printf("No repositories match filter %q\n", opts.filter)
			return
		}
		renderScan(out, opts, statuses)
	}

	w, err := watch.New(ctx, paths, debounce)
	if err != nil {
		return err
	}
	defer w.Close()

	render(fmt.Sprintf("Watching %d repositories in %s", w.Len(), opts.root))

	err = w.Run(ctx, func(ctx context.Context, changed []string) {
		l.Debug("repositories changed", "count", len(changed))
		for _, p := range changed {
			st, ok := analyzer.Analyze(ctx, p, opts.status)
			if !ok {
				delete(current, p)
				continue
			}
			current[p] = *st
		}
		render(fmt.Sprintf("Watching %d repositories in %s (%d changed)", w.Len(), opts.root, len(changed)))
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

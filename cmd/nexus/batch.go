package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/raphi011/nexus/internal/action"
	"github.com/raphi011/nexus/internal/config"
	"github.com/raphi011/nexus/internal/output"
	"github.com/raphi011/nexus/internal/resolve"
	"github.com/raphi011/nexus/internal/status"
	"github.com/raphi011/nexus/internal/ui"
	"github.com/raphi011/nexus/internal/ui/progress"
	"github.com/raphi011/nexus/internal/ui/static"
)

// BatchReport is the structured batch output.
type BatchReport struct {
	Action    string                `json:"action" yaml:"action"`
	DryRun    bool                  `json:"dry_run" yaml:"dry_run"`
	Succeeded int                   `json:"succeeded" yaml:"succeeded"`
	Failed    int                   `json:"failed" yaml:"failed"`
	Results   []resolve.BatchResult `json:"results" yaml:"results"`
}

func runBatch(cmd *cobra.Command, args []string, f batchFlags) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	out := output.FromContext(ctx)

	a, err := parseAction(args[0], f.arg)
	if errors.Is(err, errAborted) {
		return nil
	}
	if err != nil {
		return err
	}

	root, err := resolveRoot(args[1:], cfg)
	if err != nil {
		return err
	}

	filter := defaultBatchFilter(a)
	switch {
	case f.all:
		filter = status.FilterAll
	case f.filter != "":
		if filter, err = parseFilter(f.filter); err != nil {
			return err
		}
	}

	format := f.format
	if format == "" {
		format = cfg.Display.DefaultFormat
	}
	outFormat, err := output.ParseFormat(format)
	if err != nil {
		return err
	}

	statuses, err := collectStatuses(ctx, cfg, scanOptions{
		root:  root,
		depth: cfg.ScanDepth,
		cache: cfg.Cache.Enabled && !f.noCache,
	})
	if err != nil {
		return err
	}
	targets := filter.Apply(statuses)

	if len(targets) == 0 {
		if outFormat.Structured() {
			return out.Encode(outFormat, BatchReport{Action: action.Describe(a), DryRun: f.dryRun, Results: []resolve.BatchResult{}})
		}
		out.Printf("No repositories to %s in %s\n", args[0], root)
		return nil
	}

	paths := make([]string, len(targets))
	names := make([]string, len(targets))
	for i, t := range targets {
		paths[i] = t.Path
		names[i] = static.DisplayName(t.Path, root)
	}

	if err := confirmDestructive(a, names, f.dryRun, f.yes); err != nil {
		if errors.Is(err, errAborted) {
			out.Println("Aborted")
			return nil
		}
		return err
	}

	var bar *progress.ProgressBar
	if ui.ShowProgress() && !outFormat.Structured() {
		bar = progress.NewProgressBar(len(paths), action.Describe(a))
		bar.Start()
	}

	logAction(ctx, a, len(paths), f.dryRun)
	results := applySteps(ctx, resolve.New(cfg.Workers), paths, steps(a), f.dryRun, func(res resolve.BatchResult) {
		if bar != nil {
			bar.Increment(static.DisplayName(res.RepoPath, root))
		}
	})
	if bar != nil {
		bar.Stop()
	}
	if !f.dryRun {
		forgetCached(ctx, cfg, paths...)
	}
	failed := resolve.Failures(results)

	if outFormat.Structured() {
		if err := out.Encode(outFormat, BatchReport{
			Action:    action.Describe(a),
			DryRun:    f.dryRun,
			Succeeded: len(results) - failed,
			Failed:    failed,
			Results:   results,
		}); err != nil {
			return err
		}
	} else {
		plain := make([]action.Result, len(results))
		for i, res := range results {
			plain[i] = res.Result
		}
		out.Print(static.RenderResults(names, plain))
	}

	if failed > 0 {
		return exitError{code: 1}
	}
	return nil
}

// applySteps applies steps to every path, one step at a time across all
// paths. A path drops out at its first failure. The results hold the last
// step applied to each path, in path order; done sees each of them once.
func applySteps(ctx context.Context, r *resolve.Resolver, paths []string, steps []action.Action, dryRun bool, done func(resolve.BatchResult)) []resolve.BatchResult {
	final := make(map[string]resolve.BatchResult, len(paths))
	remaining := paths
	for i, step := range steps {
		last := i == len(steps)-1
		r.Progress = func(res resolve.BatchResult) {
			if done != nil && (last || !res.Success) {
				done(res)
			}
		}

		var next []string
		for _, res := range r.ApplyAll(ctx, remaining, step, dryRun) {
			final[res.RepoPath] = res
			if res.Success {
				next = append(next, res.RepoPath)
			}
		}
		remaining = next
	}

	results := make([]resolve.BatchResult, len(paths))
	for i, p := range paths {
		results[i] = final[p]
	}
	return results
}

// defaultBatchFilter targets the repositories an action applies to.
func defaultBatchFilter(a action.Action) status.Filter {
	switch a.(type) {
	case action.StageAll, action.CommitWip, action.Stash, action.DiscardChanges:
		return status.FilterDirty
	case action.Pull:
		return status.FilterBehind
	case action.Push:
		return status.FilterAhead
	default:
		return status.FilterAll
	}
}

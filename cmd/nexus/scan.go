package main

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphi011/nexus/internal/cache"
	"github.com/raphi011/nexus/internal/config"
	"github.com/raphi011/nexus/internal/discovery"
	"github.com/raphi011/nexus/internal/health"
	"github.com/raphi011/nexus/internal/log"
	"github.com/raphi011/nexus/internal/output"
	"github.com/raphi011/nexus/internal/status"
	"github.com/raphi011/nexus/internal/suggest"
	"github.com/raphi011/nexus/internal/ui"
	"github.com/raphi011/nexus/internal/ui/progress"
	"github.com/raphi011/nexus/internal/ui/static"
)

// scanOptions is scanFlags with config defaults applied and validated.
type scanOptions struct {
	root    string
	depth   int
	status  status.Options
	filter  status.Filter
	sort    string
	format  output.Format
	suggest bool
	cache   bool
}

// ScanReport is the structured scan output.
type ScanReport struct {
	Root          string          `json:"root" yaml:"root"`
	Summary       suggest.Summary `json:"summary" yaml:"summary"`
	AverageHealth *health.Score   `json:"average_health,omitempty" yaml:"average_health,omitempty"`
	Repositories  []RepoReport    `json:"repositories" yaml:"repositories"`
}

// RepoReport is one repository in a ScanReport.
type RepoReport struct {
	status.RepoStatus `yaml:",inline"`

	Health      health.Score       `json:"health" yaml:"health"`
	Suggestions []SuggestionReport `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

// SuggestionReport adds the equivalent git command to a suggestion.
type SuggestionReport struct {
	suggest.Suggestion `yaml:",inline"`

	Command string `json:"command" yaml:"command"`
}

func runScanCmd(cmd *cobra.Command, args []string, f *scanFlags) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)

	opts, err := resolveScanOptions(cmd, args, f, cfg)
	if err != nil {
		return err
	}

	statuses, err := collectStatuses(ctx, cfg, opts)
	if err != nil {
		return err
	}
	found := len(statuses)

	statuses = opts.filter.Apply(statuses)
	sortStatuses(statuses, opts.sort)

	out := output.FromContext(ctx)
	if opts.format.Structured() {
		return out.Encode(opts.format, buildReport(opts.root, statuses, opts.suggest))
	}

	switch {
	case found == 0:
		out.Printf("No git repositories found in %s\n", opts.root)
		return nil
	case len(statuses) == 0:
		out.Printf("No repositories match filter %q (%d scanned)\n", opts.filter, found)
		return nil
	}
	renderScan(out, opts, statuses)
	return nil
}

func resolveScanOptions(cmd *cobra.Command, args []string, f *scanFlags, cfg *config.Config) (scanOptions, error) {
	flags := cmd.Flags()

	root, err := resolveRoot(args, cfg)
	if err != nil {
		return scanOptions{}, err
	}

	opts := scanOptions{
		root:  root,
		depth: cfg.ScanDepth,
		status: status.Options{
			Verbose: cfg.Display.DefaultVerbose,
			Hooks:   cfg.Display.ShowHooks,
		},
		sort:    cfg.Display.DefaultSort,
		suggest: f.suggest,
		cache:   cfg.Cache.Enabled && !f.noCache,
	}
	if flags.Changed("depth") {
		if f.depth <= 0 {
			return scanOptions{}, fmt.Errorf("--depth must be greater than 0 (got %d)", f.depth)
		}
		opts.depth = f.depth
	}
	if flags.Changed("verbose-status") {
		opts.status.Verbose = f.verboseStatus
	}
	if flags.Changed("hooks") {
		opts.status.Hooks = f.hooks
	}
	if f.sort != "" {
		if err := config.ValidateSort(f.sort); err != nil {
			return scanOptions{}, err
		}
		opts.sort = f.sort
	}

	if opts.filter, err = parseFilter(f.filter); err != nil {
		return scanOptions{}, err
	}

	format := cfg.Display.DefaultFormat
	switch {
	case f.json:
		format = string(output.FormatJSON)
	case f.format != "":
		format = f.format
	}
	if opts.format, err = output.ParseFormat(format); err != nil {
		return scanOptions{}, err
	}

	return opts, nil
}

// resolveRoot returns the absolute scan root: the path argument, else the
// configured root, else the working directory.
func resolveRoot(args []string, cfg *config.Config) (string, error) {
	root := cfg.RootDir()
	if len(args) > 0 && args[0] != "" {
		root = args[0]
	}
	if !filepath.IsAbs(root) {
		root = filepath.Join(workDir, root)
	}
	return filepath.Clean(root), nil
}

// parseFilter accepts "", "all" or one of status.Filters.
func parseFilter(s string) (status.Filter, error) {
	if s == "" || s == "all" {
		return status.FilterAll, nil
	}
	if f := status.Filter(strings.ToLower(s)); slices.Contains(status.Filters, f) {
		return f, nil
	}
	names := make([]string, len(status.Filters))
	for i, f := range status.Filters {
		names[i] = string(f)
	}
	return "", fmt.Errorf("invalid filter %q: must be one of %s", s, strings.Join(names, ", "))
}

func sortStatuses(statuses []status.RepoStatus, key string) {
	if key == "health" {
		health.Sort(statuses)
		return
	}
	status.Sort(statuses, status.SortKey(key))
}

// discoverRepos finds the repositories below opts.root.
func discoverRepos(ctx context.Context, cfg *config.Config, opts scanOptions) ([]string, error) {
	paths, err := discovery.Discover(ctx, opts.root, opts.depth, cfg.IgnoreRules())
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", opts.root, err)
	}
	log.FromContext(ctx).Debug("discovered repositories", "root", opts.root, "count", len(paths))
	return paths, nil
}

// collectStatuses discovers and analyzes the repositories below
// opts.root, showing a spinner on interactive terminals.
func collectStatuses(ctx context.Context, cfg *config.Config, opts scanOptions) ([]status.RepoStatus, error) {
	var sp *progress.Spinner
	if ui.ShowProgress() {
		sp = progress.NewSpinner("Scanning " + opts.root + "...")
		sp.Start()
		defer sp.Stop()
	}

	paths, err := discoverRepos(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}
	if sp != nil {
		sp.UpdateMessage(fmt.Sprintf("Analyzing %d repositories...", len(paths)))
	}
	return analyzeRepos(ctx, cfg, paths, opts.status, opts.cache), nil
}

// analyzeRepos analyzes paths, going through the status cache when
// useCache is set. Cache problems fall back to a full analysis.
func analyzeRepos(ctx context.Context, cfg *config.Config, paths []string, opts status.Options, useCache bool) []status.RepoStatus {
	l := log.FromContext(ctx)
	analyzer := status.NewAnalyzer(cfg.Workers)

	if !useCache {
		return analyzer.AnalyzeAll(ctx, paths, opts)
	}

	path, err := cache.Path()
	if err != nil {
		l.Warn("status cache unavailable: %v", err)
		return analyzer.AnalyzeAll(ctx, paths, opts)
	}
	store, unlock, err := cache.LoadWithLock(path)
	if err != nil {
		l.Warn("status cache unavailable: %v", err)
		return analyzer.AnalyzeAll(ctx, paths, opts)
	}
	defer unlock()

	maxAge := cfg.Cache.MaxAgeDuration()
	statuses := store.Analyze(ctx, analyzer, paths, opts, maxAge)
	store.Prune(maxAge, time.Now())
	if err := store.Save(); err != nil {
		l.Warn("failed to save status cache: %v", err)
	}
	return statuses
}

// forgetCached drops cached statuses after repositories were modified.
func forgetCached(ctx context.Context, cfg *config.Config, paths ...string) {
	if !cfg.Cache.Enabled || len(paths) == 0 {
		return
	}
	path, err := cache.Path()
	if err != nil {
		return
	}
	store, unlock, err := cache.LoadWithLock(path)
	if err != nil {
		log.FromContext(ctx).Debug("status cache unavailable", "err", err)
		return
	}
	defer unlock()

	for _, p := range paths {
		store.Forget(p)
	}
	if err := store.Save(); err != nil {
		log.FromContext(ctx).Warn("failed to save status cache: %v", err)
	}
}

func buildReport(root string, statuses []status.RepoStatus, withSuggestions bool) ScanReport {
	report := ScanReport{
		Root:         root,
		Summary:      suggest.Summarize(statuses),
		Repositories: make([]RepoReport, 0, len(statuses)),
	}
	if avg, ok := health.Average(statuses); ok {
		report.AverageHealth = &avg
	}
	for _, s := range statuses {
		r := RepoReport{RepoStatus: s, Health: health.Calculate(s)}
		if withSuggestions {
			for _, sg := range suggest.Generate(s) {
				r.Suggestions = append(r.Suggestions, SuggestionReport{Suggestion: sg, Command: sg.Command()})
			}
		}
		report.Repositories = append(report.Repositories, r)
	}
	return report
}

func renderScan(out *output.Printer, opts scanOptions, statuses []status.RepoStatus) {
	out.Print(static.RenderStatusTable(statuses, static.TableOptions{
		Root:    opts.root,
		Verbose: opts.status.Verbose,
		Hooks:   opts.status.Hooks,
		Now:     time.Now(),
	}))
	out.Println()

	avg, _ := health.Average(statuses)
	out.Print(static.RenderSummary(suggest.Summarize(statuses), avg))

	if !opts.suggest {
		return
	}
	for _, s := range statuses {
		if block := static.RenderSuggestions(s, suggest.Generate(s), opts.root, 0); block != "" {
			out.Println()
			out.Print(block)
		}
	}
}

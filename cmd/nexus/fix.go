package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/raphi011/nexus/internal/action"
	"github.com/raphi011/nexus/internal/config"
	"github.com/raphi011/nexus/internal/health"
	"github.com/raphi011/nexus/internal/log"
	"github.com/raphi011/nexus/internal/match"
	"github.com/raphi011/nexus/internal/output"
	"github.com/raphi011/nexus/internal/resolve"
	"github.com/raphi011/nexus/internal/status"
	"github.com/raphi011/nexus/internal/suggest"
	"github.com/raphi011/nexus/internal/ui"
	"github.com/raphi011/nexus/internal/ui/prompt"
	"github.com/raphi011/nexus/internal/ui/static"
)

// errAborted is returned when the user cancels a prompt.
var errAborted = errors.New("aborted")

func runFix(ctx context.Context, query string, f fixFlags) error {
	cfg := config.FromContext(ctx)
	out := output.FromContext(ctx)

	var args []string
	if f.root != "" {
		args = []string{f.root}
	}
	root, err := resolveRoot(args, cfg)
	if err != nil {
		return err
	}

	path, err := findRepo(ctx, cfg, root, query)
	if errors.Is(err, errAborted) {
		return nil
	}
	if err != nil {
		return err
	}
	name := static.DisplayName(path, root)

	st, ok := status.NewAnalyzer(cfg.Workers).Analyze(ctx, path, status.Options{Verbose: true})
	if !ok {
		return fmt.Errorf("%s: not a readable git repository", path)
	}

	a, err := chooseAction(*st, name, f)
	if errors.Is(err, errAborted) {
		return nil
	}
	if err != nil {
		return err
	}
	if a == nil {
		out.Printf("%s is healthy (%d/100), nothing to fix\n", name, health.Calculate(*st).Total)
		return nil
	}

	if err := confirmDestructive(a, []string{name}, f.dryRun, f.yes); err != nil {
		if errors.Is(err, errAborted) {
			out.Println("Aborted")
			return nil
		}
		return err
	}

	logAction(ctx, a, 1, f.dryRun)
	r := resolve.New(cfg.Workers)
	var res action.Result
	for _, step := range steps(a) {
		res = r.Apply(ctx, path, step, f.dryRun)
		out.Print(static.RenderResult(name, res))
		if !res.Success {
			break
		}
	}
	if !f.dryRun {
		forgetCached(ctx, cfg, path)
	}
	if !res.Success {
		return exitError{code: 1}
	}
	return nil
}

// steps expands a into the actions applied in order. A commit from the
// command line stages every change first, untracked files included.
func steps(a action.Action) []action.Action {
	if _, ok := a.(action.CommitWip); ok {
		return []action.Action{action.StageAll{}, a}
	}
	return []action.Action{a}
}

// findRepo resolves query to a repository below root. An empty query
// means the repository containing the working directory.
func findRepo(ctx context.Context, cfg *config.Config, root, query string) (string, error) {
	paths, err := discoverRepos(ctx, cfg, scanOptions{root: root, depth: cfg.ScanDepth})
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", fmt.Errorf("no git repositories found in %s", root)
	}

	if query == "" {
		if p, ok := enclosingRepo(workDir, paths); ok {
			return p, nil
		}
	}

	candidates := match.Repos(query, paths, root)
	if len(candidates) == 0 {
		return "", fmt.Errorf("no repository matches %q", query)
	}
	if query != "" && match.Unique(candidates) {
		return candidates[0].Path, nil
	}

	if !ui.IsInteractive() {
		if query == "" {
			return "", errors.New("not inside a repository: pass a repository name")
		}
		return "", fmt.Errorf("%q matches %d repositories: %s", query, len(candidates), candidateList(candidates, 5))
	}

	options := make([]prompt.Option, len(candidates))
	for i, c := range candidates {
		options[i] = prompt.Option{Title: c.Rel, Description: c.Path}
	}
	res, err := prompt.Select("Select a repository", options)
	if err != nil {
		return "", err
	}
	if res.Cancelled {
		return "", errAborted
	}
	return candidates[res.Index].Path, nil
}

// enclosingRepo returns the deepest repository in paths containing dir.
func enclosingRepo(dir string, paths []string) (string, bool) {
	best := ""
	for _, p := range paths {
		rel, err := filepath.Rel(p, dir)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if len(p) > len(best) {
			best = p
		}
	}
	return best, best != ""
}

func candidateList(candidates []match.Candidate, limit int) string {
	names := make([]string, 0, limit)
	for i, c := range candidates {
		if i == limit {
			names = append(names, fmt.Sprintf("and %d more", len(candidates)-limit))
			break
		}
		names = append(names, c.Rel)
	}
	return strings.Join(names, ", ")
}

// chooseAction picks the action to apply from the flags, or from the
// repository's suggestions. A nil action means there is nothing to fix.
func chooseAction(st status.RepoStatus, name string, f fixFlags) (action.Action, error) {
	if f.action != "" {
		return parseAction(f.action, f.arg)
	}

	suggestions := suggest.Generate(st)
	if len(suggestions) == 0 {
		return nil, nil
	}

	var picked suggest.Suggestion
	switch {
	case f.pick != 0:
		if f.pick < 1 || f.pick > len(suggestions) {
			return nil, fmt.Errorf("--pick must be between 1 and %d", len(suggestions))
		}
		picked = suggestions[f.pick-1]
	case ui.IsInteractive():
		options := make([]prompt.Option, len(suggestions))
		for i, sg := range suggestions {
			options[i] = prompt.Option{
				Title:       fmt.Sprintf("[%s] %s", sg.Priority, sg.Title),
				Description: sg.Command(),
			}
		}
		res, err := prompt.Select("Fix "+name, options)
		if err != nil {
			return nil, err
		}
		if res.Cancelled {
			return nil, errAborted
		}
		picked = suggestions[res.Index]
	default:
		return nil, fmt.Errorf("%s has %d suggestions: choose one with --pick (see 'nexus suggest')", name, len(suggestions))
	}

	return withArg(picked.Action, f.arg)
}

// parseAction is action.Parse that asks for a missing commit message on
// interactive terminals.
func parseAction(name, arg string) (action.Action, error) {
	if arg == "" && isCommitAction(name) {
		msg, err := commitMessage(suggest.WipCommitMessage)
		if err != nil {
			return nil, err
		}
		arg = msg
	}
	return action.Parse(name, arg)
}

func isCommitAction(name string) bool {
	a, err := action.Parse(name, "x")
	if err != nil {
		return false
	}
	_, ok := a.(action.CommitWip)
	return ok
}

// withArg overrides the message or branch name of a suggested action.
// Without arg a suggested commit asks for its message on interactive
// terminals.
func withArg(a action.Action, arg string) (action.Action, error) {
	switch a := a.(type) {
	case action.CommitWip:
		if strings.TrimSpace(arg) == "" {
			msg, err := commitMessage(a.Message)
			if err != nil {
				return nil, err
			}
			arg = msg
		}
		return action.CommitWip{Message: arg}, nil
	case action.Stash:
		if arg != "" {
			return action.Stash{Message: arg}, nil
		}
	case action.CreateBranch:
		if arg != "" {
			return action.CreateBranch{Name: arg}, nil
		}
	}
	return a, nil
}

// commitMessage prompts for a commit message, or returns def when the
// terminal is not interactive. A cleared prompt also yields def.
func commitMessage(def string) (string, error) {
	if !ui.IsInteractive() {
		return def, nil
	}
	res, err := prompt.TextInput("Commit message:", def)
	if err != nil {
		return "", err
	}
	if res.Cancelled {
		return "", errAborted
	}
	return orDefault(res.Value, def), nil
}

// orDefault returns value trimmed, or def when value is blank.
func orDefault(value, def string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return def
}

// confirmDestructive asks before a destructive action touches names.
// Dry runs and --yes skip the prompt; without a terminal --yes is required.
func confirmDestructive(a action.Action, names []string, dryRun, yes bool) error {
	if !action.IsDestructive(a) || dryRun || yes {
		return nil
	}
	if !ui.IsInteractive() {
		return fmt.Errorf("%s cannot be undone: pass --yes to confirm", strings.ToLower(action.Describe(a)))
	}

	target := names[0]
	if len(names) > 1 {
		target = fmt.Sprintf("%d repositories", len(names))
	}
	res, err := prompt.ConfirmDanger(fmt.Sprintf("%s in %s?", action.Describe(a), target))
	if err != nil {
		return err
	}
	if res.Cancelled || !res.Confirmed {
		return errAborted
	}
	return nil
}

// logAction records the chosen action in verbose mode.
func logAction(ctx context.Context, a action.Action, count int, dryRun bool) {
	log.FromContext(ctx).Debug("applying", "action", action.Describe(a), "repositories", count, "dry_run", dryRun)
}

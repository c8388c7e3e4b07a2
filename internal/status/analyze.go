package status

import (
	"cmp"
	"context"
	"errors"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/raphi011/nexus/internal/discovery"
	"github.com/raphi011/nexus/internal/git"
	"github.com/raphi011/nexus/internal/ignore"
	"github.com/raphi011/nexus/internal/log"
)

// maxWorkers bounds the default pool size.
const maxWorkers = 16

// Options selects the optional parts of the analysis.
type Options struct {
	// Verbose fills RepoStatus.Details.
	Verbose bool
	// Hooks fills RepoStatus.Hooks.
	Hooks bool
}

// Analyzer computes repository statuses.
type Analyzer struct {
	Backend git.Opener
	// Workers bounds concurrent analyses; <= 0 uses DefaultWorkers.
	Workers int
}

// NewAnalyzer returns an analyzer backed by the git CLI.
func NewAnalyzer(workers int) *Analyzer {
	return &Analyzer{Backend: git.CLI{}, Workers: workers}
}

// DefaultWorkers returns the number of CPUs, capped at 16.
func DefaultWorkers() int {
	return min(runtime.NumCPU(), maxWorkers)
}

// Analyze returns the status of the repository at path. The boolean is
// false when the path cannot be opened or read as a repository; callers
// drop such paths silently.
func (a *Analyzer) Analyze(ctx context.Context, path string, opts Options) (*RepoStatus, bool) {
	l := log.FromContext(ctx)

	repo, err := a.Backend.Open(ctx, path)
	if err != nil {
		l.Debug("skipping repository", "path", path, "err", err)
		return nil, false
	}

	changes, err := repo.Status(ctx, true)
	if err != nil {
		l.Debug("skipping repository", "path", path, "err", err)
		return nil, false
	}

	st := &RepoStatus{
		Path:    repo.Path(),
		IsClean: len(changes) == 0,
	}

	head, err := repo.Head(ctx)
	if err != nil {
		l.Debug("HEAD unresolved", "path", path, "err", err)
	} else {
		branch := BranchLabel(head)
		st.Branch = &branch
		if head.Kind == git.HeadBranch {
			st.Ahead, st.Behind = divergence(ctx, repo)
		}
	}

	if opts.Verbose {
		st.Details = details(ctx, repo, changes)
	}
	if opts.Hooks {
		st.Hooks = hooks(ctx, repo)
	}
	return st, true
}

func divergence(ctx context.Context, repo git.Repository) (int, int) {
	ahead, behind, err := repo.Divergence(ctx)
	if err != nil {
		if !errors.Is(err, git.ErrNoUpstream) {
			log.FromContext(ctx).Debug("divergence unavailable", "path", repo.Path(), "err", err)
		}
		return 0, 0
	}
	return ahead, behind
}

func details(ctx context.Context, repo git.Repository, changes []git.FileChange) *Details {
	d := &Details{}
	for _, c := range changes {
		switch {
		case c.Untracked():
			d.UntrackedCount++
		case c.Tracked():
			d.ModifiedCount++
		}
	}

	if n, err := repo.StashCount(ctx); err == nil {
		d.StashCount = n
	}
	if c, err := repo.LastCommit(ctx); err == nil {
		d.LastCommit = &CommitInfo{
			Hash:      c.ShortHash(),
			Author:    c.Author,
			Message:   c.Message,
			Timestamp: c.Time,
		}
	}
	return d
}

func hooks(ctx context.Context, repo git.Repository) []string {
	present := []string{}
	for _, name := range git.HookNames {
		if repo.HookPresent(ctx, name) {
			present = append(present, name)
		}
	}
	return present
}

// AnalyzeAll analyzes paths concurrently. Paths that cannot be analyzed
// are dropped; the rest are returned sorted by path.
func (a *Analyzer) AnalyzeAll(ctx context.Context, paths []string, opts Options) []RepoStatus {
	results := make([]*RepoStatus, len(paths))

	workers := a.Workers
	if workers <= 0 {
		workers = DefaultWorkers()
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, p := range paths {
		g.Go(func() error {
			if st, ok := a.Analyze(ctx, p, opts); ok {
				results[i] = st
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	statuses := make([]RepoStatus, 0, len(paths))
	for _, st := range results {
		if st != nil {
			statuses = append(statuses, *st)
		}
	}
	slices.SortFunc(statuses, func(x, y RepoStatus) int {
		return cmp.Compare(x.Path, y.Path)
	})
	return statuses
}

// Scan discovers the repositories under root and analyzes them.
func (a *Analyzer) Scan(ctx context.Context, root string, depth int, rules ignore.Rules, opts Options) ([]RepoStatus, error) {
	paths, err := discovery.Discover(ctx, root, depth, rules)
	if err != nil {
		return nil, err
	}
	log.FromContext(ctx).Debug("discovered repositories", "root", root, "count", len(paths))
	return a.AnalyzeAll(ctx, paths, opts), nil
}

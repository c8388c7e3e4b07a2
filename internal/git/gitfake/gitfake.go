// Package gitfake provides an in-memory [git.Opener] for tests.
package gitfake

import (
	"context"
	"fmt"
	"sync"

	"github.com/raphi011/nexus/internal/git"
)

// Opener hands out the registered repositories by path. Unknown paths
// fail with [git.ErrNotRepository].
type Opener struct {
	mu    sync.Mutex
	repos map[string]*Repo
	opens map[string]int
}

// NewOpener registers repos under their Path.
func NewOpener(repos ...*Repo) *Opener {
	o := &Opener{repos: map[string]*Repo{}, opens: map[string]int{}}
	for _, r := range repos {
		o.repos[r.RepoPath] = r
	}
	return o
}

// Open returns the registered repository.
func (o *Opener) Open(_ context.Context, path string) (git.Repository, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.opens[path]++
	r, ok := o.repos[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, git.ErrNotRepository)
	}
	return r, nil
}

// Opens returns how often path was opened.
func (o *Opener) Opens(path string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.opens[path]
}

// Repo is a scripted repository. Query fields are returned as-is; a
// non-nil error field makes the matching call fail. Mutations are
// recorded in Calls and update the state where it matters to callers.
type Repo struct {
	mu sync.Mutex

	RepoPath string

	HeadState git.Head
	HeadErr   error
	Changes   []git.FileChange
	StatusErr error

	UpstreamName  string
	AheadCount    int
	BehindCount   int
	DivergenceErr error
	Stashes       int
	Last          *git.Commit
	HookSet       map[string]bool

	Fetch    git.FetchOutcome
	FetchErr error

	// MutationErr makes every mutation fail.
	MutationErr error

	Calls []string
}

func (r *Repo) record(call string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, call)
	return r.MutationErr
}

// Mutations returns the recorded mutation calls.
func (r *Repo) Mutations() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.Calls...)
}

func (r *Repo) Path() string { return r.RepoPath }

func (r *Repo) Head(context.Context) (git.Head, error) {
	return r.HeadState, r.HeadErr
}

func (r *Repo) Status(_ context.Context, includeUntracked bool) ([]git.FileChange, error) {
	if r.StatusErr != nil {
		return nil, r.StatusErr
	}
	if includeUntracked {
		return r.Changes, nil
	}
	var tracked []git.FileChange
	for _, c := range r.Changes {
		if !c.Untracked() {
			tracked = append(tracked, c)
		}
	}
	return tracked, nil
}

func (r *Repo) Upstream(context.Context) (string, error) {
	if r.UpstreamName == "" {
		return "", git.ErrNoUpstream
	}
	return r.UpstreamName, nil
}

func (r *Repo) Divergence(ctx context.Context) (int, int, error) {
	if r.DivergenceErr != nil {
		return 0, 0, r.DivergenceErr
	}
	switch r.HeadState.Kind {
	case git.HeadDetached:
		return 0, 0, git.ErrNotOnBranch
	case git.HeadUnborn:
		return 0, 0, git.ErrUnbornBranch
	}
	if _, err := r.Upstream(ctx); err != nil {
		return 0, 0, err
	}
	return r.AheadCount, r.BehindCount, nil
}

func (r *Repo) StashCount(context.Context) (int, error) { return r.Stashes, nil }

func (r *Repo) LastCommit(context.Context) (git.Commit, error) {
	if r.Last == nil {
		return git.Commit{}, fmt.Errorf("no commits")
	}
	return *r.Last, nil
}

func (r *Repo) HookPresent(_ context.Context, name string) bool { return r.HookSet[name] }

func (r *Repo) StageAll(context.Context) error { return r.record("stage-all") }

func (r *Repo) Commit(_ context.Context, message string) (string, error) {
	if err := r.record("commit " + message); err != nil {
		return "", err
	}
	return "0123456789abcdef0123456789abcdef01234567", nil
}

func (r *Repo) StashSave(_ context.Context, message string) (string, error) {
	if err := r.record("stash " + message); err != nil {
		return "", err
	}
	if len(r.Changes) == 0 {
		return "", git.ErrNothingToStash
	}
	r.Stashes++
	return "fedcba9876543210fedcba9876543210fedcba98", nil
}

func (r *Repo) StashPop(context.Context) error {
	if err := r.record("stash-pop"); err != nil {
		return err
	}
	if r.Stashes == 0 {
		return fmt.Errorf("no stash entries found")
	}
	r.Stashes--
	return nil
}

func (r *Repo) FetchFastForward(ctx context.Context) (git.FetchOutcome, error) {
	if err := r.record("fetch"); err != nil {
		return 0, err
	}
	if r.FetchErr != nil {
		return 0, r.FetchErr
	}
	return r.Fetch, nil
}

func (r *Repo) CreateBranch(_ context.Context, name string) error {
	return r.record("create-branch " + name)
}

func (r *Repo) HardResetAndClean(context.Context) error {
	return r.record("reset-clean")
}

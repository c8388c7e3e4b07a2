package git

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors reported by [Repository] implementations.
var (
	ErrNotRepository  = errors.New("not a git repository")
	ErrNotOnBranch    = errors.New("HEAD is not on a branch")
	ErrNoUpstream     = errors.New("no upstream branch configured")
	ErrUnbornBranch   = errors.New("branch has no commits yet")
	ErrNothingToStash = errors.New("no local changes to stash")
)

// Opener opens repositories. Every call returns an independent handle.
type Opener interface {
	Open(ctx context.Context, path string) (Repository, error)
}

// Repository is an opened repository. A handle is not meant to be shared
// between goroutines.
type Repository interface {
	Path() string

	Head(ctx context.Context) (Head, error)
	Status(ctx context.Context, includeUntracked bool) ([]FileChange, error)
	Upstream(ctx context.Context) (string, error)
	Divergence(ctx context.Context) (ahead, behind int, err error)
	StashCount(ctx context.Context) (int, error)
	LastCommit(ctx context.Context) (Commit, error)
	HookPresent(ctx context.Context, name string) bool

	StageAll(ctx context.Context) error
	Commit(ctx context.Context, message string) (string, error)
	StashSave(ctx context.Context, message string) (string, error)
	StashPop(ctx context.Context) error
	FetchFastForward(ctx context.Context) (FetchOutcome, error)
	CreateBranch(ctx context.Context, name string) error
	HardResetAndClean(ctx context.Context) error
}

// HeadKind classifies what HEAD points to.
type HeadKind int

const (
	HeadBranch HeadKind = iota
	HeadDetached
	HeadUnborn
)

// Head describes HEAD. Branch is set for HeadBranch and HeadUnborn,
// Hash for HeadBranch and HeadDetached.
type Head struct {
	Kind   HeadKind
	Branch string
	Hash   string
}

// ShortHash returns the first 7 characters of the commit hash.
func (h Head) ShortHash() string {
	return shortHash(h.Hash)
}

// FileChange is one entry of `git status --porcelain`: X is the index
// state and Y the working tree state.
type FileChange struct {
	Path string
	X    byte
	Y    byte
}

// Untracked reports a new file that is not staged.
func (c FileChange) Untracked() bool {
	return c.X == '?' && c.Y == '?'
}

// Tracked reports any change to a tracked (or staged) path: modified,
// added, deleted, renamed, copied, type changed or unmerged, in the index
// or the working tree.
func (c FileChange) Tracked() bool {
	if c.Untracked() || (c.X == '!' && c.Y == '!') {
		return false
	}
	return c.X != ' ' || c.Y != ' '
}

// Commit summarizes a commit.
type Commit struct {
	Hash    string
	Author  string
	Message string
	Time    time.Time
}

// ShortHash returns the first 7 characters of the commit hash.
func (c Commit) ShortHash() string {
	return shortHash(c.Hash)
}

// FetchOutcome is the result of [Repository.FetchFastForward].
type FetchOutcome int

const (
	FetchUpToDate FetchOutcome = iota
	FetchApplied
	FetchNeedsMerge
)

func (o FetchOutcome) String() string {
	switch o {
	case FetchUpToDate:
		return "up to date"
	case FetchApplied:
		return "fast-forwarded"
	case FetchNeedsMerge:
		return "needs merge"
	}
	return "unknown"
}

// HookNames lists the hooks reported by status analysis, in display order.
var HookNames = []string{
	"pre-commit",
	"pre-push",
	"post-commit",
	"post-merge",
	"prepare-commit-msg",
	"commit-msg",
}

func shortHash(hash string) string {
	return hash[:min(7, len(hash))]
}

package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/raphi011/nexus/internal/action"
	"github.com/raphi011/nexus/internal/git"
	"github.com/raphi011/nexus/internal/log"
)

// Messages shared by pull, push and sync.
const (
	msgUpToDate   = "Already up to date"
	msgNoUpstream = "No upstream branch configured"
	msgPushManual = "Push requires authentication - please use 'git push' manually"
)

// Resolver applies actions through a git backend.
type Resolver struct {
	Backend git.Opener
	// Workers bounds concurrent batch work; <= 0 uses DefaultWorkers.
	Workers int
	// Progress, if set, receives every batch result as it completes.
	// Calls are serialized.
	Progress func(BatchResult)
}

// New returns a resolver backed by the git CLI.
func New(workers int) *Resolver {
	return &Resolver{Backend: git.CLI{}, Workers: workers}
}

// Apply applies a to the repository at path. In dry-run mode the
// repository is opened but never modified.
func (r *Resolver) Apply(ctx context.Context, path string, a action.Action, dryRun bool) (res action.Result) {
	defer func() {
		if p := recover(); p != nil {
			res = action.FailedWith(action.Describe(a)+" failed", fmt.Sprint(p))
		}
	}()

	repo, err := r.Backend.Open(ctx, path)
	if err != nil {
		return action.FailedWith("Repository unavailable: "+path, err.Error())
	}

	if dryRun {
		return action.SucceededWith(
			"Would execute: "+action.Describe(a),
			"Command: "+action.GitCommand(a),
		)
	}

	log.FromContext(ctx).Debug("applying action", "path", path, "action", action.Describe(a))
	return dispatch(ctx, repo, a)
}

func dispatch(ctx context.Context, repo git.Repository, a action.Action) action.Result {
	switch a := a.(type) {
	case action.StageAll:
		if err := repo.StageAll(ctx); err != nil {
			return failure(a, err)
		}
		return action.Succeeded("Staged all changes")

	case action.CommitWip:
		hash, err := repo.Commit(ctx, a.Message)
		if err != nil {
			return failure(a, err)
		}
		return action.SucceededWith("Created commit: "+a.Message, "Commit: "+short(hash))

	case action.Stash:
		id, err := repo.StashSave(ctx, a.StashMessage())
		if errors.Is(err, git.ErrNothingToStash) {
			return action.Failed("No local changes to stash")
		}
		if err != nil {
			return failure(a, err)
		}
		return action.SucceededWith("Stashed changes", "Stash: "+short(id))

	case action.Pull:
		return pull(ctx, repo)

	case action.Push:
		return push(ctx, repo)

	case action.CreateBranch:
		if err := repo.CreateBranch(ctx, a.Name); err != nil {
			return failure(a, err)
		}
		return action.Succeeded(fmt.Sprintf("Created and switched to branch '%s'", a.Name))

	case action.DiscardChanges:
		if err := repo.HardResetAndClean(ctx); err != nil {
			return failure(a, err)
		}
		return action.SucceededWith("Discarded all changes", "This action cannot be undone!")

	case action.StashPop:
		if err := repo.StashPop(ctx); err != nil {
			return failure(a, err)
		}
		return action.Succeeded("Popped stash")

	case action.Sync:
		return syncRemote(ctx, repo)

	default:
		return action.Failed(fmt.Sprintf("Unsupported action %T", a))
	}
}

// pull fetches and fast-forwards. Diverged branches are not merged.
func pull(ctx context.Context, repo git.Repository) action.Result {
	outcome, err := repo.FetchFastForward(ctx)
	switch {
	case errors.Is(err, git.ErrNotOnBranch):
		return action.Failed("Cannot pull: not on a branch")
	case errors.Is(err, git.ErrUnbornBranch):
		return action.Failed("Cannot pull: branch has no commits")
	case errors.Is(err, git.ErrNoUpstream):
		return action.Failed(msgNoUpstream)
	case err != nil:
		return failure(action.Pull{}, err)
	}

	switch outcome {
	case git.FetchUpToDate:
		return action.Succeeded(msgUpToDate)
	case git.FetchApplied:
		return action.Succeeded("Pulled and fast-forwarded")
	default:
		return action.Failed("Cannot pull: merge required (not implemented)")
	}
}

// push never pushes. It validates the branch and upstream so the user
// gets the most useful message, then asks for a manual push.
func push(ctx context.Context, repo git.Repository) action.Result {
	head, err := repo.Head(ctx)
	if err != nil {
		return failure(action.Push{}, err)
	}
	if head.Kind != git.HeadBranch {
		return action.Failed("Cannot push: not on a branch")
	}
	if _, err := repo.Upstream(ctx); err != nil {
		return action.Failed(msgNoUpstream)
	}
	return action.Failed(msgPushManual)
}

// syncRemote pulls and leaves the push to the user. A failed pull is
// returned as is; a successful one reports success with a reminder.
func syncRemote(ctx context.Context, repo git.Repository) action.Result {
	pulled := pull(ctx, repo)
	if !pulled.Success {
		return pulled
	}
	return action.SucceededWith("Pulled changes", "Push requires manual authentication")
}

func failure(a action.Action, err error) action.Result {
	return action.FailedWith(action.Describe(a)+" failed", err.Error())
}

func short(hash string) string {
	return hash[:min(7, len(hash))]
}

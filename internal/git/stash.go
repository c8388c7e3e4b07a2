package git

import (
	"context"
	"fmt"
	"strings"
)

// StashSave stashes all uncommitted changes, untracked files included,
// and returns the stash commit hash. A clean tree yields [ErrNothingToStash].
func (r *Repo) StashSave(ctx context.Context, message string) (string, error) {
	before, err := r.StashCount(ctx)
	if err != nil {
		return "", err
	}

	args := append(r.identityArgs(ctx), "stash", "push", "--include-untracked", "--quiet", "-m", message)
	if err := runGit(ctx, r.path, args...); err != nil {
		return "", fmt.Errorf("stash changes: %w", err)
	}

	after, err := r.StashCount(ctx)
	if err != nil {
		return "", err
	}
	if after == before {
		return "", ErrNothingToStash
	}

	hash, err := lineGit(ctx, r.path, "rev-parse", "stash@{0}")
	if err != nil {
		return "", fmt.Errorf("read stash: %w", err)
	}
	return hash, nil
}

// StashPop applies and removes the most recent stash entry.
func (r *Repo) StashPop(ctx context.Context) error {
	if err := runGit(ctx, r.path, "stash", "pop", "--quiet"); err != nil {
		return fmt.Errorf("pop stash: %w", err)
	}
	return nil
}

// StashCount returns the number of stash entries.
func (r *Repo) StashCount(ctx context.Context) (int, error) {
	out, err := lineGit(ctx, r.path, "stash", "list", "--format=%gd")
	if err != nil {
		return 0, fmt.Errorf("list stashes: %w", err)
	}
	if out == "" {
		return 0, nil
	}
	return len(strings.Split(out, "\n")), nil
}

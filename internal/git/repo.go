package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// fallbackName and fallbackEmail are used for commits and stashes in
// repositories without a configured identity.
const (
	fallbackName  = "nexus"
	fallbackEmail = "nexus@localhost"
)

// CLI opens repositories backed by the git command line.
type CLI struct{}

// Open opens the repository whose work tree root is path. Paths without a
// .git entry, or whose .git entry git does not accept, fail with
// [ErrNotRepository].
func (CLI) Open(ctx context.Context, path string) (Repository, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := os.Stat(filepath.Join(abs, DotGit)); err != nil {
		return nil, fmt.Errorf("open %s: %w", abs, ErrNotRepository)
	}
	if err := runGit(ctx, abs, "rev-parse", "--git-dir"); err != nil {
		return nil, fmt.Errorf("open %s: %w: %v", abs, ErrNotRepository, err)
	}
	return &Repo{path: abs}, nil
}

// Repo is a [Repository] backed by the git CLI.
type Repo struct {
	path     string
	hooksDir string
}

// Path returns the absolute work tree root.
func (r *Repo) Path() string {
	return r.path
}

// Head resolves HEAD to a branch, a detached commit or an unborn branch.
func (r *Repo) Head(ctx context.Context) (Head, error) {
	ref, refErr := lineGit(ctx, r.path, "symbolic-ref", "-q", "HEAD")
	hash, hashErr := lineGit(ctx, r.path, "rev-parse", "-q", "--verify", "HEAD^{commit}")

	if refErr == nil && ref != "" {
		branch := strings.TrimPrefix(ref, "refs/heads/")
		if hashErr != nil {
			return Head{Kind: HeadUnborn, Branch: branch}, nil
		}
		return Head{Kind: HeadBranch, Branch: branch, Hash: hash}, nil
	}
	if hashErr != nil {
		return Head{}, fmt.Errorf("resolve HEAD: %w", hashErr)
	}
	return Head{Kind: HeadDetached, Hash: hash}, nil
}

// Status returns the porcelain status entries. Untracked directories are
// reported once, like `git status`. The index is never rewritten, so
// reading status does not wake up watchers of the git directory.
func (r *Repo) Status(ctx context.Context, includeUntracked bool) ([]FileChange, error) {
	untracked := "--untracked-files=no"
	if includeUntracked {
		untracked = "--untracked-files=normal"
	}
	out, err := outputGit(ctx, r.path, "--no-optional-locks", "status", "--porcelain=v1", "-z", untracked)
	if err != nil {
		return nil, fmt.Errorf("read status: %w", err)
	}
	return parsePorcelain(out), nil
}

// parsePorcelain parses `git status --porcelain=v1 -z` output. Renames
// and copies carry their source path as an extra NUL-terminated field.
func parsePorcelain(out []byte) []FileChange {
	var changes []FileChange
	fields := bytes.Split(out, []byte{0})
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		if len(f) < 4 {
			continue
		}
		c := FileChange{X: f[0], Y: f[1], Path: string(f[3:])}
		if c.X == 'R' || c.X == 'C' {
			i++
		}
		changes = append(changes, c)
	}
	return changes
}

// Upstream returns the short name of the current branch's upstream,
// e.g. "origin/main".
func (r *Repo) Upstream(ctx context.Context) (string, error) {
	up, err := lineGit(ctx, r.path, "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{upstream}")
	if err != nil || up == "" {
		return "", ErrNoUpstream
	}
	return up, nil
}

// Divergence counts commits on HEAD not in the upstream (ahead) and the
// reverse (behind).
func (r *Repo) Divergence(ctx context.Context) (int, int, error) {
	head, err := r.Head(ctx)
	if err != nil {
		return 0, 0, err
	}
	switch head.Kind {
	case HeadDetached:
		return 0, 0, ErrNotOnBranch
	case HeadUnborn:
		return 0, 0, ErrUnbornBranch
	}
	if _, err := r.Upstream(ctx); err != nil {
		return 0, 0, err
	}
	return r.aheadBehind(ctx)
}

func (r *Repo) aheadBehind(ctx context.Context) (int, int, error) {
	out, err := lineGit(ctx, r.path, "rev-list", "--left-right", "--count", "HEAD...@{upstream}")
	if err != nil {
		return 0, 0, fmt.Errorf("count divergence: %w", err)
	}
	fields := strings.Fields(out)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("unexpected rev-list output %q", out)
	}
	ahead, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("parse ahead count: %w", err)
	}
	behind, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("parse behind count: %w", err)
	}
	return ahead, behind, nil
}

// LastCommit returns the commit HEAD points to.
func (r *Repo) LastCommit(ctx context.Context) (Commit, error) {
	out, err := lineGit(ctx, r.path, "log", "-1", "--format=%H%x00%an%x00%ct%x00%s")
	if err != nil {
		return Commit{}, fmt.Errorf("read last commit: %w", err)
	}
	parts := strings.SplitN(out, "\x00", 4)
	if len(parts) != 4 {
		return Commit{}, fmt.Errorf("unexpected log output %q", out)
	}
	ts, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Commit{}, fmt.Errorf("parse commit timestamp: %w", err)
	}
	return Commit{
		Hash:    parts[0],
		Author:  parts[1],
		Time:    time.Unix(ts, 0),
		Message: parts[3],
	}, nil
}

// HookPresent reports whether the named hook exists and is executable.
// Hooks are looked up where git runs them from, so core.hooksPath is
// honored. On Windows presence is enough.
func (r *Repo) HookPresent(ctx context.Context, name string) bool {
	if r.hooksDir == "" {
		dir, err := lineGit(ctx, r.path, "rev-parse", "--git-path", "hooks")
		if err != nil {
			return false
		}
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(r.path, dir)
		}
		r.hooksDir = dir
	}
	return hookExecutable(filepath.Join(r.hooksDir, name))
}

func hookExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}

// StageAll stages every change, including untracked files and deletions.
func (r *Repo) StageAll(ctx context.Context) error {
	if err := runGit(ctx, r.path, "add", "--all"); err != nil {
		return fmt.Errorf("stage changes: %w", err)
	}
	return nil
}

// Commit commits the index on top of HEAD and returns the new commit hash.
// An index matching HEAD yields an empty commit. Commit hooks are not run.
func (r *Repo) Commit(ctx context.Context, message string) (string, error) {
	args := append(r.identityArgs(ctx), "commit", "--no-verify", "--allow-empty", "--quiet", "-m", message)
	if err := runGit(ctx, r.path, args...); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	hash, err := lineGit(ctx, r.path, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("read new commit: %w", err)
	}
	return hash, nil
}

// CreateBranch creates a branch at HEAD and switches to it.
func (r *Repo) CreateBranch(ctx context.Context, name string) error {
	if err := runGit(ctx, r.path, "checkout", "--quiet", "-b", name); err != nil {
		return fmt.Errorf("create branch %s: %w", name, err)
	}
	return nil
}

// HardResetAndClean resets index and work tree to HEAD and removes
// untracked files and directories. Ignored files are kept.
func (r *Repo) HardResetAndClean(ctx context.Context) error {
	if err := runGit(ctx, r.path, "reset", "--hard", "--quiet", "HEAD"); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	if err := runGit(ctx, r.path, "clean", "-f", "-d", "--quiet"); err != nil {
		return fmt.Errorf("clean: %w", err)
	}
	return nil
}

// FetchFastForward fetches the upstream's remote and fast-forwards the
// current branch. Diverged branches are left alone and reported as
// [FetchNeedsMerge].
func (r *Repo) FetchFastForward(ctx context.Context) (FetchOutcome, error) {
	head, err := r.Head(ctx)
	if err != nil {
		return 0, err
	}
	switch head.Kind {
	case HeadDetached:
		return 0, ErrNotOnBranch
	case HeadUnborn:
		return 0, ErrUnbornBranch
	}
	if _, err := r.Upstream(ctx); err != nil {
		return 0, err
	}

	remote, _ := lineGit(ctx, r.path, "config", "--get", "branch."+head.Branch+".remote")
	if remote != "" && remote != "." {
		if err := runGit(ctx, r.path, "fetch", "--quiet", remote); err != nil {
			return 0, fmt.Errorf("fetch %s: %w", remote, err)
		}
	}

	ahead, behind, err := r.aheadBehind(ctx)
	if err != nil {
		return 0, err
	}
	if behind == 0 {
		return FetchUpToDate, nil
	}
	if ahead > 0 {
		return FetchNeedsMerge, nil
	}
	if err := runGit(ctx, r.path, "merge", "--ff-only", "--quiet", "@{upstream}"); err != nil {
		return 0, fmt.Errorf("fast-forward: %w", err)
	}
	return FetchApplied, nil
}

// identityArgs returns -c overrides for user.name/user.email when the
// repository has no identity configured.
func (r *Repo) identityArgs(ctx context.Context) []string {
	var args []string
	if name, _ := lineGit(ctx, r.path, "config", "--get", "user.name"); name == "" {
		args = append(args, "-c", "user.name="+fallbackName)
	}
	if email, _ := lineGit(ctx, r.path, "config", "--get", "user.email"); email == "" {
		args = append(args, "-c", "user.email="+fallbackEmail)
	}
	return args
}

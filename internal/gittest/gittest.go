// Package gittest creates throwaway git repositories for tests.
package gittest

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/raphi011/nexus/internal/cmd"
)

// RequireGit skips the test when git is not in PATH.
func RequireGit(t testing.TB) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

// TempDir creates a temp directory and resolves macOS symlinks.
func TempDir(t testing.TB) string {
	t.Helper()
	tmpDir := t.TempDir()
	resolved, err := filepath.EvalSymlinks(tmpDir)
	if err != nil {
		t.Fatalf("failed to resolve symlinks for %s: %v", tmpDir, err)
	}
	return resolved
}

// Run runs git in dir and fails the test on error.
func Run(t testing.TB, dir string, args ...string) {
	t.Helper()
	if err := cmd.RunContext(context.Background(), dir, "git", args...); err != nil {
		t.Fatalf("git %v in %s: %v", args, dir, err)
	}
}

// Output runs git in dir and returns stdout.
func Output(t testing.TB, dir string, args ...string) string {
	t.Helper()
	out, err := cmd.OutputContext(context.Background(), dir, "git", args...)
	if err != nil {
		t.Fatalf("git %v in %s: %v", args, dir, err)
	}
	return string(out)
}

// Configure sets a user identity and disables commit signing.
func Configure(t testing.TB, repoPath string) {
	t.Helper()
	for _, args := range [][]string{
		{"config", "user.email", "test@test.com"},
		{"config", "user.name", "Test User"},
		{"config", "commit.gpgsign", "false"},
	} {
		Run(t, repoPath, args...)
	}
}

// WriteFile writes content to name inside dir, creating parent directories.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// CommitFile writes a file, stages it and commits it.
func CommitFile(t testing.TB, repoPath, name, content, message string) {
	t.Helper()
	WriteFile(t, repoPath, name, content)
	Run(t, repoPath, "add", name)
	Run(t, repoPath, "commit", "-q", "-m", message)
}

// Init creates an empty repository on branch main at dir/name, without
// any commits.
func Init(t testing.TB, dir, name string) string {
	t.Helper()
	RequireGit(t)
	repoPath := filepath.Join(dir, name)
	Run(t, "", "init", "-q", "-b", "main", repoPath)
	Configure(t, repoPath)
	return repoPath
}

// Repo creates a repository on branch main with one commit and returns
// its resolved path.
func Repo(t testing.TB) string {
	t.Helper()
	repoPath := Init(t, TempDir(t), "test-repo")
	CommitFile(t, repoPath, "README.md", "# test\n", "Initial commit")
	return repoPath
}

// RepoWithOrigin creates a bare origin and a clone of it with one pushed
// commit; main tracks origin/main. Returns (repoPath, originPath).
func RepoWithOrigin(t testing.TB) (string, string) {
	t.Helper()
	RequireGit(t)
	tmpDir := TempDir(t)

	originPath := filepath.Join(tmpDir, "origin.git")
	repoPath := filepath.Join(tmpDir, "repo")

	// -b main keeps the default branch consistent across git versions.
	Run(t, "", "init", "-q", "--bare", "-b", "main", originPath)
	Run(t, "", "clone", "-q", originPath, repoPath)
	Run(t, repoPath, "symbolic-ref", "HEAD", "refs/heads/main")
	Configure(t, repoPath)

	CommitFile(t, repoPath, "README.md", "# test\n", "Initial commit")
	Run(t, repoPath, "push", "-q", "-u", "origin", "HEAD")

	return repoPath, originPath
}

// PushFromClone clones origin into a fresh directory, commits a file
// there and pushes it, moving origin ahead of existing clones.
func PushFromClone(t testing.TB, originPath, name, content string) {
	t.Helper()
	other := filepath.Join(TempDir(t), "other")
	Run(t, "", "clone", "-q", originPath, other)
	Configure(t, other)
	CommitFile(t, other, name, content, "Remote change "+name)
	Run(t, other, "push", "-q", "origin", "HEAD")
}

package git

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DotGit is the name of the entry marking a repository root.
const DotGit = ".git"

// GitDir returns the git directory of the work tree at repoPath,
// following the "gitdir:" file used by linked worktrees and submodules.
// It only reads the filesystem and does not run git.
func GitDir(repoPath string) (string, error) {
	dotGit := filepath.Join(repoPath, DotGit)
	info, err := os.Stat(dotGit)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", dotGit, err)
	}
	if info.IsDir() {
		return dotGit, nil
	}

	data, err := os.ReadFile(dotGit)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", dotGit, err)
	}
	dir, ok := strings.CutPrefix(strings.TrimSpace(string(data)), "gitdir:")
	if !ok {
		return "", fmt.Errorf("%s: not a gitdir file", dotGit)
	}
	dir = strings.TrimSpace(dir)
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(repoPath, dir)
	}
	return filepath.Clean(dir), nil
}

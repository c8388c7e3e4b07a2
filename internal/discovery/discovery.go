// Package discovery finds git repositories below a directory.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/raphi011/nexus/internal/ignore"
	"github.com/raphi011/nexus/internal/log"
)

// DefaultDepth is the default number of directory levels searched below the root.
const DefaultDepth = 3

// ErrInvalidDepth is returned for a non-positive depth.
var ErrInvalidDepth = errors.New("depth must be a positive integer")

// Discover returns the absolute paths of all repository roots (directories
// with a .git entry) at most maxDepth levels below root, the root itself
// included. Ignored directories are not descended into and .git is never
// entered. Each repository appears once; the result is sorted by path.
//
// An inaccessible root is returned as an error, unreadable directories
// below it are skipped.
func Discover(ctx context.Context, root string, maxDepth int, rules ignore.Rules) ([]string, error) {
	if maxDepth < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidDepth, maxDepth)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root %s is not a directory", abs)
	}

	l := log.FromContext(ctx)
	repos := make(map[string]struct{})

	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == abs {
				return walkErr
			}
			l.Debug("skipping unreadable path", "path", path, "error", walkErr)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == abs {
			return nil
		}

		if d.Name() == ignore.GitDir {
			repos[filepath.Dir(path)] = struct{}{}
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}

		rel := filepath.ToSlash(strings.TrimPrefix(path, abs+string(filepath.Separator)))
		if rules.ShouldIgnoreEntry(d.Name(), rel, true) {
			l.Debug("pruned ignored directory", "path", rel)
			return fs.SkipDir
		}
		if strings.Count(rel, "/")+1 >= maxDepth {
			return fs.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", abs, err)
	}

	return slices.Sorted(maps.Keys(repos)), nil
}

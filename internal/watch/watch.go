// Package watch reports repositories whose git state changed.
//
// fsnotify watches are not recursive, so each repository contributes
// its git directory plus the ref directories that change on commit,
// fetch and stash. Working tree edits are not observed until git itself
// touches the index. Events are debounced so that one git command, which
// usually writes several files, produces one notification.
package watch

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/raphi011/nexus/internal/git"
	"github.com/raphi011/nexus/internal/log"
)

// DefaultDebounce is the quiet period after the last event before
// changed repositories are reported.
const DefaultDebounce = 500 * time.Millisecond

// watchedSubdirs are watched in addition to the git directory itself.
var watchedSubdirs = []string{
	"refs",
	filepath.Join("refs", "heads"),
	filepath.Join("refs", "remotes"),
	"logs",
}

// Watcher watches the git directories of a fixed set of repositories.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	// gitDirs maps a watched git directory to its repository root.
	gitDirs map[string]string
}

// New starts watching repos. Repositories whose git directory cannot be
// resolved or watched are skipped with a warning.
func New(ctx context.Context, repos []string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		fs:       fw,
		debounce: debounce,
		gitDirs:  make(map[string]string, len(repos)),
	}

	l := log.FromContext(ctx)
	for _, repo := range repos {
		if err := w.add(repo); err != nil {
			l.Warn("not watching %s: %v", repo, err)
		}
	}
	if len(w.gitDirs) == 0 && len(repos) > 0 {
		_ = fw.Close()
		return nil, fmt.Errorf("no repository could be watched")
	}
	return w, nil
}

func (w *Watcher) add(repo string) error {
	gitDir, err := git.GitDir(repo)
	if err != nil {
		return err
	}
	if err := w.fs.Add(gitDir); err != nil {
		return err
	}
	for _, sub := range watchedSubdirs {
		dir := filepath.Join(gitDir, sub)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		if err := w.fs.Add(dir); err != nil {
			return err
		}
	}
	w.gitDirs[gitDir] = repo
	return nil
}

// Len returns the number of watched repositories.
func (w *Watcher) Len() int {
	return len(w.gitDirs)
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Run delivers the sorted paths of changed repositories to onChange
// until ctx is cancelled. onChange runs on the Run goroutine; events
// arriving meanwhile are collected for the next notification.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context, repos []string)) error {
	l := log.FromContext(ctx)
	pending := make(map[string]struct{})

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			repo, ok := w.repoFor(ev.Name)
			if !ok {
				continue
			}
			l.Debug("git change", "repo", repo, "file", ev.Name, "op", ev.Op)
			pending[repo] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			l.Warn("watch: %v", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := slices.Sorted(maps.Keys(pending))
			clear(pending)
			onChange(ctx, changed)
		}
	}
}

// repoFor maps an event path to the repository owning it.
func (w *Watcher) repoFor(name string) (string, bool) {
	dir := filepath.Dir(name)
	for {
		if repo, ok := w.gitDirs[dir]; ok {
			return repo, true
		}
		parent := filepath.Dir(dir)
		if parent == dir || !strings.Contains(dir, string(filepath.Separator)) {
			return "", false
		}
		dir = parent
	}
}

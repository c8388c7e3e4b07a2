package cache

import (
	"cmp"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/raphi011/nexus/internal/git"
	"github.com/raphi011/nexus/internal/log"
	"github.com/raphi011/nexus/internal/status"
	"github.com/raphi011/nexus/internal/storage"
)

// DefaultMaxAge is used when no maximum age is configured.
const DefaultMaxAge = 30 * time.Second

const (
	fileName     = "status-cache.json"
	lockFileName = "status-cache.lock"
	version      = 1
)

// Entry is one cached status.
type Entry struct {
	Fingerprint string            `json:"fingerprint"`
	Verbose     bool              `json:"verbose"`
	Hooks       bool              `json:"hooks"`
	SavedAt     time.Time         `json:"saved_at"`
	Status      status.RepoStatus `json:"status"`
}

// Store holds cached statuses keyed by repository path.
type Store struct {
	Version int               `json:"version"`
	Entries map[string]*Entry `json:"entries"`

	path string
}

// Path returns the default cache file path.
func Path() (string, error) {
	dir, err := storage.CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

func lockPath(path string) string {
	return filepath.Join(filepath.Dir(path), lockFileName)
}

// Load reads the cache at path. A missing, corrupt or outdated file
// yields an empty store.
func Load(path string) (*Store, error) {
	s := &Store{Version: version, Entries: map[string]*Entry{}, path: path}

	var loaded Store
	if err := storage.LoadJSON(path, &loaded); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return nil, fmt.Errorf("read cache: %w", err)
		}
		// corrupt: start fresh
		return s, nil
	}
	if loaded.Version != version || loaded.Entries == nil {
		return s, nil
	}
	loaded.path = path
	return &loaded, nil
}

// LoadWithLock acquires the cache lock and loads the cache.
// Caller must defer unlock() if err == nil.
func LoadWithLock(path string) (*Store, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create cache dir: %w", err)
	}
	lock := NewFileLock(lockPath(path))
	if err := lock.Lock(); err != nil {
		return nil, nil, fmt.Errorf("failed to acquire lock: %w", err)
	}

	s, err := Load(path)
	if err != nil {
		_ = lock.Unlock()
		return nil, nil, err
	}
	return s, func() { _ = lock.Unlock() }, nil
}

// Save writes the store atomically.
func (s *Store) Save() error {
	if err := storage.SaveJSON(s.path, s); err != nil {
		return fmt.Errorf("save cache: %w", err)
	}
	return nil
}

// Get returns the cached status for path if fingerprint matches, the
// entry was built with opts and it is not older than maxAge.
func (s *Store) Get(path, fingerprint string, opts status.Options, maxAge time.Duration, now time.Time) (status.RepoStatus, bool) {
	e, ok := s.Entries[path]
	if !ok || e.Fingerprint != fingerprint || e.Verbose != opts.Verbose || e.Hooks != opts.Hooks {
		return status.RepoStatus{}, false
	}
	if now.Sub(e.SavedAt) > maxAge {
		return status.RepoStatus{}, false
	}
	return e.Status, true
}

// Put stores st under its path.
func (s *Store) Put(st status.RepoStatus, fingerprint string, opts status.Options, now time.Time) {
	s.Entries[st.Path] = &Entry{
		Fingerprint: fingerprint,
		Verbose:     opts.Verbose,
		Hooks:       opts.Hooks,
		SavedAt:     now,
		Status:      st,
	}
}

// Forget drops the entry for path. Resolution actions call it so the
// next scan re-reads the repository.
func (s *Store) Forget(path string) {
	delete(s.Entries, path)
}

// Prune drops entries older than maxAge.
func (s *Store) Prune(maxAge time.Duration, now time.Time) int {
	n := 0
	for p, e := range s.Entries {
		if now.Sub(e.SavedAt) > maxAge {
			delete(s.Entries, p)
			n++
		}
	}
	return n
}

// Fingerprint summarizes the on-disk state of the repository at
// repoPath. It changes whenever HEAD moves, the index is rewritten, a
// stash is pushed or popped, or a fetch happens.
func Fingerprint(repoPath string) (string, error) {
	gitDir, err := git.GitDir(repoPath)
	if err != nil {
		return "", err
	}

	h := sha256.New()
	head, err := os.ReadFile(filepath.Join(gitDir, "HEAD"))
	if err != nil {
		return "", fmt.Errorf("read HEAD: %w", err)
	}
	h.Write(head)

	for _, name := range []string{"index", "refs/stash", "FETCH_HEAD", "packed-refs"} {
		info, err := os.Stat(filepath.Join(gitDir, filepath.FromSlash(name)))
		if err != nil {
			fmt.Fprintf(h, "%s:-\n", name)
			continue
		}
		fmt.Fprintf(h, "%s:%d:%d\n", name, info.Size(), info.ModTime().UnixNano())
	}

	// loose ref of the checked out branch
	if ref, ok := strings.CutPrefix(strings.TrimSpace(string(head)), "ref: "); ok {
		if data, err := os.ReadFile(filepath.Join(gitDir, filepath.FromSlash(ref))); err == nil {
			h.Write(data)
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Analyze returns statuses for paths, serving fresh entries from the
// store and analyzing the rest with a. New results are written back to
// the store; the caller saves it. Results are sorted by path.
func (s *Store) Analyze(ctx context.Context, a *status.Analyzer, paths []string, opts status.Options, maxAge time.Duration) []status.RepoStatus {
	l := log.FromContext(ctx)
	now := time.Now()

	var out []status.RepoStatus
	var misses []string
	fingerprints := make(map[string]string, len(paths))

	for _, p := range paths {
		fp, err := Fingerprint(p)
		if err != nil {
			l.Debug("fingerprint failed", "path", p, "err", err)
			misses = append(misses, p)
			continue
		}
		fingerprints[p] = fp
		if st, ok := s.Get(p, fp, opts, maxAge, now); ok {
			out = append(out, st)
			continue
		}
		misses = append(misses, p)
	}
	l.Debug("status cache", "hits", len(out), "misses", len(misses))

	for _, st := range a.AnalyzeAll(ctx, misses, opts) {
		if fp, ok := fingerprints[st.Path]; ok {
			s.Put(st, fp, opts, now)
		}
		out = append(out, st)
	}

	slices.SortFunc(out, func(x, y status.RepoStatus) int {
		return cmp.Compare(x.Path, y.Path)
	})
	return out
}

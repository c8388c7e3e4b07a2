package ignore

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// GitDir is the directory name that is always ignored.
const GitDir = ".git"

// Rules is an ordered set of ignore patterns plus a set of directory
// names that are pruned by exact name.
type Rules struct {
	patterns []string
	dirs     []string
}

// New creates rules from patterns. Blank patterns and comments are dropped.
func New(patterns ...string) Rules {
	return Rules{}.With(patterns...)
}

// Defaults returns rules for common build and dependency directories.
func Defaults() Rules {
	return New(DefaultPatterns()...)
}

// DefaultPatterns lists the built-in ignore patterns.
func DefaultPatterns() []string {
	return []string{
		"node_modules",
		"target",
		"venv",
		".venv",
		"__pycache__",
		"build",
		"dist",
		".build",
		".next",
		"vendor",
		".gradle",
		".idea",
		".vscode",
		"*.pyc",
		"*.class",
		"*.o",
		".DS_Store",
	}
}

// With returns a copy of r with patterns appended. r is not modified.
func (r Rules) With(patterns ...string) Rules {
	out := make([]string, 0, len(r.patterns)+len(patterns))
	out = append(out, r.patterns...)
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		out = append(out, p)
	}
	return Rules{patterns: out, dirs: r.dirs}
}

// WithDirs returns a copy of r that also ignores directories whose base
// name equals one of names. Unlike patterns, names never match a path
// segment suffix or a nested path.
func (r Rules) WithDirs(names ...string) Rules {
	dirs := append([]string(nil), r.dirs...)
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			dirs = append(dirs, n)
		}
	}
	return Rules{patterns: r.patterns, dirs: dirs}
}

// Dirs returns a copy of the exact directory names.
func (r Rules) Dirs() []string {
	return append([]string(nil), r.dirs...)
}

// Patterns returns a copy of the patterns in evaluation order.
func (r Rules) Patterns() []string {
	return append([]string(nil), r.patterns...)
}

// Len returns the number of patterns.
func (r Rules) Len() int {
	return len(r.patterns)
}

// LoadFile reads patterns from a gitignore-style file.
// A missing or unreadable file yields empty rules.
func LoadFile(path string) Rules {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}
	}

	var patterns []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		patterns = append(patterns, sc.Text())
	}
	return New(patterns...)
}

// FromRepo reads the .gitignore at the root of repoPath.
func FromRepo(repoPath string) Rules {
	return LoadFile(filepath.Join(repoPath, ".gitignore"))
}

// ShouldIgnore reports whether path (relative to the scan root, slash
// separated) is excluded. The last matching pattern wins.
func (r Rules) ShouldIgnore(path string, isDir bool) bool {
	return r.match(path, isDir, false)
}

func (r Rules) match(path string, isDir, ignored bool) bool {
	path = filepath.ToSlash(path)

	for _, pattern := range r.patterns {
		negate := strings.HasPrefix(pattern, "!")
		if negate {
			pattern = pattern[1:]
		}
		if matchPattern(path, pattern, isDir) {
			ignored = !negate
		}
	}
	return ignored
}

// ShouldIgnoreEntry is ShouldIgnore for a directory walk entry.
// Directories named .git are always ignored. A directory whose name is
// one of the exact names starts out ignored; a later negated pattern can
// still re-include it.
func (r Rules) ShouldIgnoreEntry(name, path string, isDir bool) bool {
	if isDir && name == GitDir {
		return true
	}
	return r.match(path, isDir, isDir && slices.Contains(r.dirs, name))
}

func matchPattern(path, pattern string, isDir bool) bool {
	switch {
	case pattern == "":
		return false
	case strings.HasSuffix(pattern, "/"):
		if !isDir {
			return false
		}
		return simpleMatch(path, strings.TrimSuffix(pattern, "/"))
	case strings.HasPrefix(pattern, "/"):
		return strings.HasPrefix(path, pattern[1:])
	case strings.Contains(pattern, "/"):
		return strings.Contains(path, pattern)
	default:
		return simpleMatch(path, pattern)
	}
}

func simpleMatch(path, pattern string) bool {
	if strings.Contains(pattern, "**") {
		if parts := strings.Split(pattern, "**"); len(parts) == 2 {
			return strings.Contains(path, parts[0]) && strings.HasSuffix(path, parts[1])
		}
	}

	if strings.Contains(pattern, "*") {
		return globMatch(path, pattern)
	}

	return path == pattern ||
		strings.Contains(path, "/"+pattern) ||
		strings.HasSuffix(path, pattern)
}

// globMatch matches * against any run of characters: the first segment
// is anchored at the start, the last at the end, and the ones in between
// must appear in order.
func globMatch(path, pattern string) bool {
	segments := strings.Split(pattern, "*")
	last := len(segments) - 1

	pos := 0
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		switch {
		case i == 0:
			if !strings.HasPrefix(path[pos:], seg) {
				return false
			}
			pos += len(seg)
		case i == last:
			return len(path)-len(seg) >= pos && strings.HasSuffix(path, seg)
		default:
			idx := strings.Index(path[pos:], seg)
			if idx < 0 {
				return false
			}
			pos += idx + len(seg)
		}
	}
	return true
}

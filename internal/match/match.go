// Package match resolves a user query to discovered repositories.
//
// A query naming a repository exactly (absolute path, path relative to
// the scan root, or directory name) selects only the exact matches.
// Otherwise repositories are ranked by fuzzy match against their path
// relative to the scan root.
package match

import (
	"path/filepath"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Candidate is a repository matching a query.
type Candidate struct {
	Path string
	// Rel is the path relative to the scan root, slash separated.
	Rel   string
	Exact bool
	Score int
	// Indexes are the matched character positions in Rel.
	Indexes []int
}

type relSource []string

func (s relSource) String(i int) string { return s[i] }
func (s relSource) Len() int            { return len(s) }

// Repos returns the repositories in paths matching query, best first.
// An empty query matches every path in the given order.
func Repos(query string, paths []string, root string) []Candidate {
	rels := make([]string, len(paths))
	for i, p := range paths {
		rels[i] = relPath(p, root)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		out := make([]Candidate, len(paths))
		for i := range paths {
			out[i] = Candidate{Path: paths[i], Rel: rels[i]}
		}
		return out
	}

	if exact := exactMatches(query, paths, rels); len(exact) > 0 {
		return exact
	}

	matches := fuzzy.FindFrom(query, relSource(rels))
	out := make([]Candidate, len(matches))
	for i, m := range matches {
		out[i] = Candidate{
			Path:    paths[m.Index],
			Rel:     m.Str,
			Score:   m.Score,
			Indexes: m.MatchedIndexes,
		}
	}
	return out
}

func exactMatches(query string, paths, rels []string) []Candidate {
	cleaned := filepath.ToSlash(filepath.Clean(query))
	abs, absErr := filepath.Abs(query)

	var out []Candidate
	for i, p := range paths {
		switch {
		case absErr == nil && abs == p,
			rels[i] == cleaned,
			filepath.Base(p) == query:
			out = append(out, Candidate{Path: p, Rel: rels[i], Exact: true})
		}
	}
	return out
}

func relPath(path, root string) string {
	if root != "" {
		if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(path)
}

// Unique reports whether candidates has exactly one best match: a single
// entry, or a fuzzy result whose top score beats the runner-up.
func Unique(candidates []Candidate) bool {
	switch len(candidates) {
	case 0:
		return false
	case 1:
		return true
	}
	if candidates[0].Exact {
		return false
	}
	return candidates[0].Score > candidates[1].Score
}

package status

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/raphi011/nexus/internal/git"
)

const (
	detachedPrefix = "detached@"
	unbornSuffix   = " (no commits)"
)

// RepoStatus is the status snapshot of one repository.
type RepoStatus struct {
	Path    string  `json:"path" yaml:"path"`
	Branch  *string `json:"branch" yaml:"branch"`
	IsClean bool    `json:"is_clean" yaml:"is_clean"`
	Ahead   int     `json:"ahead" yaml:"ahead"`
	Behind  int     `json:"behind" yaml:"behind"`

	// Details is set only for verbose analysis.
	Details *Details `json:"details,omitempty" yaml:"details,omitempty"`
	// Hooks is non-nil only when hook detection was requested.
	Hooks []string `json:"hooks,omitempty" yaml:"hooks,omitempty"`
}

// Details groups the verbose-only fields. They are filled together or
// not at all.
type Details struct {
	StashCount     int `json:"stash_count" yaml:"stash_count"`
	ModifiedCount  int `json:"modified_count" yaml:"modified_count"`
	UntrackedCount int `json:"untracked_count" yaml:"untracked_count"`
	// LastCommit is nil for repositories without commits.
	LastCommit *CommitInfo `json:"last_commit" yaml:"last_commit"`
}

// CommitInfo describes the commit HEAD points to.
type CommitInfo struct {
	Hash      string    `json:"hash" yaml:"hash"`
	Author    string    `json:"author" yaml:"author"`
	Message   string    `json:"message" yaml:"message"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// BranchLabel renders HEAD the way RepoStatus.Branch stores it: the
// branch name, "detached@<hash>" or "<name> (no commits)".
func BranchLabel(h git.Head) string {
	switch h.Kind {
	case git.HeadDetached:
		return detachedPrefix + h.ShortHash()
	case git.HeadUnborn:
		return h.Branch + unbornSuffix
	default:
		return h.Branch
	}
}

// Name returns the repository directory name.
func (s RepoStatus) Name() string {
	return filepath.Base(s.Path)
}

// BranchName returns the branch label, or "" if HEAD could not be resolved.
func (s RepoStatus) BranchName() string {
	if s.Branch == nil {
		return ""
	}
	return *s.Branch
}

// IsDetached reports a detached HEAD.
func (s RepoStatus) IsDetached() bool {
	return strings.HasPrefix(s.BranchName(), detachedPrefix)
}

// DetachedHash returns the short hash of a detached HEAD, or "".
func (s RepoStatus) DetachedHash() string {
	if !s.IsDetached() {
		return ""
	}
	return strings.TrimPrefix(s.BranchName(), detachedPrefix)
}

// IsUnborn reports a branch without commits.
func (s RepoStatus) IsUnborn() bool {
	return strings.HasSuffix(s.BranchName(), unbornSuffix)
}

// ChangedFiles returns modified plus untracked files. Without Details the
// count is unknown and 0 is returned.
func (s RepoStatus) ChangedFiles() int {
	if s.Details == nil {
		return 0
	}
	return s.Details.ModifiedCount + s.Details.UntrackedCount
}

// Filter selects repositories by state.
type Filter string

const (
	FilterAll    Filter = ""
	FilterClean  Filter = "clean"
	FilterDirty  Filter = "dirty"
	FilterAhead  Filter = "ahead"
	FilterBehind Filter = "behind"
)

// Filters lists the accepted filter names.
var Filters = []Filter{FilterClean, FilterDirty, FilterAhead, FilterBehind}

// Match reports whether s passes the filter.
func (f Filter) Match(s RepoStatus) bool {
	switch f {
	case FilterClean:
		return s.IsClean
	case FilterDirty:
		return !s.IsClean
	case FilterAhead:
		return s.Ahead > 0
	case FilterBehind:
		return s.Behind > 0
	default:
		return true
	}
}

// Apply returns the statuses matching f, keeping order.
func (f Filter) Apply(statuses []RepoStatus) []RepoStatus {
	if f == FilterAll {
		return statuses
	}
	var out []RepoStatus
	for _, s := range statuses {
		if f.Match(s) {
			out = append(out, s)
		}
	}
	return out
}

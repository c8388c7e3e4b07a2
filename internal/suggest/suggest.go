// Package suggest derives remediation suggestions from repository status.
//
// Rules are evaluated independently and every applicable suggestion is
// emitted; the result is sorted by descending priority with ties kept in
// rule order. A clean, synced repository on a named branch without
// stashes gets no suggestions.
package suggest

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/raphi011/nexus/internal/action"
	"github.com/raphi011/nexus/internal/status"
)

// Messages used by generated actions.
const (
	WipCommitMessage   = "WIP: Auto-commit by nexus"
	BeforePullMessage  = "Before pull"
	detachedBranchBase = "from-detached-"
)

// Priority orders suggestions; higher is more urgent.
type Priority int

const (
	Low Priority = iota
	Medium
	High
	Critical
)

func (p Priority) String() string {
	switch p {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	case Critical:
		return "critical"
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

// MarshalText encodes the priority by name for JSON and YAML output.
func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Suggestion is a proposed action for one repository.
type Suggestion struct {
	Title       string        `json:"title" yaml:"title"`
	Description string        `json:"description" yaml:"description"`
	Action      action.Action `json:"-" yaml:"-"`
	Priority    Priority      `json:"priority" yaml:"priority"`
	Reason      string        `json:"reason" yaml:"reason"`
}

// Command returns the git command equivalent to the suggested action.
func (s Suggestion) Command() string {
	return action.GitCommand(s.Action)
}

// Generate returns the suggestions for s, most urgent first.
func Generate(s status.RepoStatus) []Suggestion {
	var out []Suggestion

	if !s.IsClean {
		out = append(out, dirty(s)...)
	}
	if s.Ahead > 0 {
		out = append(out, Suggestion{
			Title:       fmt.Sprintf("Push %d commit(s) to remote", s.Ahead),
			Description: "Your local branch has unpushed commits",
			Action:      action.Push{},
			Priority:    Medium,
			Reason:      "Share your work with the team",
		})
	}
	if s.Behind > 0 {
		out = append(out, behind(s)...)
	}
	if s.IsDetached() {
		hash := s.DetachedHash()
		out = append(out, Suggestion{
			Title:       "Create branch from detached HEAD",
			Description: "Currently at commit " + hash,
			Action:      action.CreateBranch{Name: detachedBranchBase + hash},
			Priority:    Critical,
			Reason:      "Commits may be lost when switching branches",
		})
	}
	if s.Details != nil && s.Details.StashCount > 0 {
		out = append(out, Suggestion{
			Title:       fmt.Sprintf("Pop stash (you have %d)", s.Details.StashCount),
			Description: "Restore previously stashed changes",
			Action:      action.StashPop{},
			Priority:    Low,
			Reason:      "Don't forget about stashed work",
		})
	}

	slices.SortStableFunc(out, func(a, b Suggestion) int {
		return cmp.Compare(b.Priority, a.Priority)
	})
	return out
}

func dirty(s status.RepoStatus) []Suggestion {
	description := "You have uncommitted changes"
	if d := s.Details; d != nil {
		description = fmt.Sprintf("You have %d modified and %d untracked file(s)", d.ModifiedCount, d.UntrackedCount)
	}
	return []Suggestion{
		{
			Title:       "Commit your changes",
			Description: description,
			Action:      action.CommitWip{Message: WipCommitMessage},
			Priority:    High,
			Reason:      "Uncommitted changes can be lost",
		},
		{
			Title:       "Stash your changes",
			Description: "Save changes for later without committing",
			Action:      action.Stash{Message: action.DefaultStashMessage},
			Priority:    Medium,
			Reason:      "Clean working directory temporarily",
		},
		{
			Title:       "Discard changes (destructive)",
			Description: "Permanently remove all uncommitted changes",
			Action:      action.DiscardChanges{},
			Priority:    Low,
			Reason:      "Use only if changes are not needed",
		},
	}
}

func behind(s status.RepoStatus) []Suggestion {
	var out []Suggestion
	if s.IsClean {
		out = append(out, Suggestion{
			Title:       fmt.Sprintf("Pull %d commit(s) from remote", s.Behind),
			Description: "Your local branch is behind the remote",
			Action:      action.Pull{},
			Priority:    High,
			Reason:      "Stay up to date with team changes",
		})
	} else {
		out = append(out, Suggestion{
			Title:       "Stash changes before pulling",
			Description: fmt.Sprintf("You're %d commit(s) behind but have uncommitted changes", s.Behind),
			Action:      action.Stash{Message: BeforePullMessage},
			Priority:    High,
			Reason:      "Avoid merge conflicts",
		})
	}

	if s.Ahead > 0 {
		out = append(out, Suggestion{
			Title:       "Sync with remote",
			Description: fmt.Sprintf("Diverged: %d ahead, %d behind", s.Ahead, s.Behind),
			Action:      action.Sync{},
			Priority:    Critical,
			Reason:      "Branches have diverged",
		})
	}
	return out
}

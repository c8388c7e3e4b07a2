// Package action defines the remediation actions nexus can apply to a
// repository and the result of applying one.
//
// [Action] is a closed set: every variant is a struct in this package and
// consumers dispatch with a type switch. [IsDestructive] is true only for
// [DiscardChanges]; callers must confirm it with the user before applying.
package action

import (
	"fmt"
	"strings"
)

// DefaultStashMessage is used when a Stash action carries no message.
const DefaultStashMessage = "nexus auto-stash"

// Action is a remediation intent.
type Action interface {
	isAction()
}

type (
	// StageAll stages every change, untracked files included.
	StageAll struct{}
	// CommitWip commits the index with Message.
	CommitWip struct{ Message string }
	// Stash stashes all changes including untracked files. An empty
	// Message uses DefaultStashMessage.
	Stash struct{ Message string }
	// Pull fetches the upstream and fast-forwards.
	Pull struct{}
	// Push is never performed by nexus; it reports how to push manually.
	Push struct{}
	// CreateBranch creates Name at HEAD and switches to it.
	CreateBranch struct{ Name string }
	// DiscardChanges hard-resets to HEAD and removes untracked files.
	DiscardChanges struct{}
	// StashPop pops the most recent stash.
	StashPop struct{}
	// Sync pulls, then pushes.
	Sync struct{}
)

func (StageAll) isAction()       {}
func (CommitWip) isAction()      {}
func (Stash) isAction()          {}
func (Pull) isAction()           {}
func (Push) isAction()           {}
func (CreateBranch) isAction()   {}
func (DiscardChanges) isAction() {}
func (StashPop) isAction()       {}
func (Sync) isAction()           {}

// IsDestructive reports whether a cannot be undone through git.
func IsDestructive(a Action) bool {
	_, ok := a.(DiscardChanges)
	return ok
}

// StashMessage returns the message a Stash action records.
func (s Stash) StashMessage() string {
	if s.Message == "" {
		return DefaultStashMessage
	}
	return s.Message
}

// Describe returns a human-readable description of a.
func Describe(a Action) string {
	switch a := a.(type) {
	case StageAll:
		return "Stage all changes"
	case CommitWip:
		return "Create commit: " + a.Message
	case Stash:
		if a.Message == "" {
			return "Stash changes"
		}
		return "Stash changes: " + a.Message
	case Pull:
		return "Pull latest changes from remote"
	case Push:
		return "Push local commits to remote"
	case CreateBranch:
		return "Create branch: " + a.Name
	case DiscardChanges:
		return "Discard all uncommitted changes (DESTRUCTIVE)"
	case StashPop:
		return "Pop most recent stash"
	case Sync:
		return "Sync with remote (pull + push)"
	default:
		return fmt.Sprintf("unknown action %T", a)
	}
}

// GitCommand returns the git command line equivalent to a.
func GitCommand(a Action) string {
	switch a := a.(type) {
	case StageAll:
		return "git add -A"
	case CommitWip:
		return fmt.Sprintf("git commit -m %q", a.Message)
	case Stash:
		if a.Message == "" {
			return "git stash push -u"
		}
		return fmt.Sprintf("git stash push -u -m %q", a.Message)
	case Pull:
		return "git pull --ff-only"
	case Push:
		return "git push"
	case CreateBranch:
		return "git checkout -b " + a.Name
	case DiscardChanges:
		return "git reset --hard && git clean -fd"
	case StashPop:
		return "git stash pop"
	case Sync:
		return "git pull --ff-only && git push"
	default:
		return ""
	}
}

// Names lists the action names accepted by [Parse].
var Names = []string{"stage", "commit", "stash", "pull", "push", "branch", "discard", "pop", "sync"}

// Parse builds an action from its command-line name. arg is the commit
// message, stash message or branch name; commit and branch require it.
func Parse(name, arg string) (Action, error) {
	switch strings.ToLower(name) {
	case "stage", "stage-all", "add":
		return StageAll{}, nil
	case "commit", "commit-wip":
		if arg == "" {
			return nil, fmt.Errorf("action %q requires a message", name)
		}
		return CommitWip{Message: arg}, nil
	case "stash":
		return Stash{Message: arg}, nil
	case "pull":
		return Pull{}, nil
	case "push":
		return Push{}, nil
	case "branch", "create-branch":
		if arg == "" {
			return nil, fmt.Errorf("action %q requires a branch name", name)
		}
		return CreateBranch{Name: arg}, nil
	case "discard", "discard-changes":
		return DiscardChanges{}, nil
	case "pop", "stash-pop":
		return StashPop{}, nil
	case "sync":
		return Sync{}, nil
	}
	return nil, fmt.Errorf("unknown action %q (valid: %s)", name, strings.Join(Names, ", "))
}

package status

import (
	"cmp"
	"slices"
)

// SortKey orders statuses for display.
type SortKey string

const (
	SortPath   SortKey = "path"
	SortStatus SortKey = "status"
	SortBranch SortKey = "branch"
)

// Sort orders statuses in place. Dirty repositories sort before clean
// ones for SortStatus; unresolved branches sort first for SortBranch.
// Ties keep path order. Unknown keys sort by path.
func Sort(statuses []RepoStatus, key SortKey) {
	slices.SortStableFunc(statuses, func(a, b RepoStatus) int {
		switch key {
		case SortStatus:
			if c := compareBool(a.IsClean, b.IsClean); c != 0 {
				return c
			}
		case SortBranch:
			if c := cmp.Compare(a.BranchName(), b.BranchName()); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.Path, b.Path)
	})
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

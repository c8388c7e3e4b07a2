// Package health scores repository statuses from 0 to 100.
//
// A score has three parts: cleanliness (up to 40), sync with the upstream
// (up to 40) and branch state (up to 20). Scoring is a pure function of a
// [status.RepoStatus] and safe for concurrent use.
package health

import (
	"cmp"
	"slices"

	"github.com/raphi011/nexus/internal/status"
)

// Maximum sub-scores.
const (
	MaxCleanliness = 40
	MaxSync        = 40
	MaxBranch      = 20
)

// Lower bounds of the score bands reported by Label.
const (
	ExcellentThreshold = 90
	GoodThreshold      = 70
	FairThreshold      = 50
	PoorThreshold      = 30
)

// Score is a repository health score. Total is the sum of the parts,
// except for averages where every field is floored independently.
type Score struct {
	Total       int `json:"total" yaml:"total"`
	Cleanliness int `json:"cleanliness" yaml:"cleanliness"`
	Sync        int `json:"sync" yaml:"sync"`
	Branch      int `json:"branch" yaml:"branch"`
}

// Calculate scores a single repository.
func Calculate(s status.RepoStatus) Score {
	sc := Score{
		Cleanliness: cleanlinessScore(s),
		Sync:        syncScore(s.Ahead, s.Behind),
		Branch:      branchScore(s),
	}
	sc.Total = sc.Cleanliness + sc.Sync + sc.Branch
	return sc
}

// cleanlinessScore steps down with the number of changed files. Without the
// verbose details a dirty repository has no known count and keeps full
// points.
func cleanlinessScore(s status.RepoStatus) int {
	if s.IsClean {
		return MaxCleanliness
	}
	switch n := s.ChangedFiles(); {
	case n == 0:
		return 40
	case n <= 5:
		return 30
	case n <= 15:
		return 20
	case n <= 30:
		return 10
	default:
		return 5
	}
}

func syncScore(ahead, behind int) int {
	switch n := ahead + behind; {
	case n == 0:
		return MaxSync
	case n <= 3:
		return 30
	case n <= 10:
		return 20
	case n <= 20:
		return 10
	default:
		return 5
	}
}

func branchScore(s status.RepoStatus) int {
	switch {
	case s.Branch == nil, s.IsDetached():
		return 5
	case s.IsUnborn():
		return 10
	default:
		return MaxBranch
	}
}

// Average averages the scores of statuses. Each field is floor-divided on
// its own, so Total may differ from the sum of the averaged parts. The
// boolean is false for an empty input.
func Average(statuses []status.RepoStatus) (Score, bool) {
	if len(statuses) == 0 {
		return Score{}, false
	}
	var sum Score
	for _, s := range statuses {
		sc := Calculate(s)
		sum.Total += sc.Total
		sum.Cleanliness += sc.Cleanliness
		sum.Sync += sc.Sync
		sum.Branch += sc.Branch
	}
	n := len(statuses)
	return Score{
		Total:       sum.Total / n,
		Cleanliness: sum.Cleanliness / n,
		Sync:        sum.Sync / n,
		Branch:      sum.Branch / n,
	}, true
}

// Label names the score band.
func (s Score) Label() string {
	switch {
	case s.Total >= ExcellentThreshold:
		return "Excellent"
	case s.Total >= GoodThreshold:
		return "Good"
	case s.Total >= FairThreshold:
		return "Fair"
	case s.Total >= PoorThreshold:
		return "Poor"
	default:
		return "Critical"
	}
}

// Sort orders statuses by ascending total score, so the repositories
// needing the most attention come first. Ties keep path order.
func Sort(statuses []status.RepoStatus) {
	scores := make(map[string]int, len(statuses))
	for _, s := range statuses {
		scores[s.Path] = Calculate(s).Total
	}
	slices.SortStableFunc(statuses, func(a, b status.RepoStatus) int {
		if c := cmp.Compare(scores[a.Path], scores[b.Path]); c != 0 {
			return c
		}
		return cmp.Compare(a.Path, b.Path)
	})
}

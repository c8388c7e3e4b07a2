package suggest

import "github.com/raphi011/nexus/internal/status"

// Summary counts issues across a workspace.
type Summary struct {
	Total         int `json:"total" yaml:"total"`
	Clean         int `json:"clean" yaml:"clean"`
	Dirty         int `json:"dirty" yaml:"dirty"`
	Ahead         int `json:"ahead" yaml:"ahead"`
	Behind        int `json:"behind" yaml:"behind"`
	Detached      int `json:"detached" yaml:"detached"`
	WithStashes   int `json:"with_stashes" yaml:"with_stashes"`
	TotalUnpushed int `json:"total_unpushed" yaml:"total_unpushed"`
	TotalUnpulled int `json:"total_unpulled" yaml:"total_unpulled"`
}

// Summarize counts the issues in statuses. Stashes are only known for
// verbose statuses.
func Summarize(statuses []status.RepoStatus) Summary {
	sum := Summary{Total: len(statuses)}
	for _, s := range statuses {
		if s.IsClean {
			sum.Clean++
		} else {
			sum.Dirty++
		}
		if s.Ahead > 0 {
			sum.Ahead++
			sum.TotalUnpushed += s.Ahead
		}
		if s.Behind > 0 {
			sum.Behind++
			sum.TotalUnpulled += s.Behind
		}
		if s.IsDetached() {
			sum.Detached++
		}
		if s.Details != nil && s.Details.StashCount > 0 {
			sum.WithStashes++
		}
	}
	return sum
}

// HasIssues reports whether any repository needs attention.
func (s Summary) HasIssues() bool {
	return s.Dirty > 0 || s.Ahead > 0 || s.Behind > 0 || s.Detached > 0
}

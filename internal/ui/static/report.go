package static

import (
	"fmt"
	"strings"

	"github.com/raphi011/nexus/internal/action"
	"github.com/raphi011/nexus/internal/health"
	"github.com/raphi011/nexus/internal/status"
	"github.com/raphi011/nexus/internal/suggest"
	"github.com/raphi011/nexus/internal/ui/styles"
)

// RenderSummary renders workspace totals and the average health score.
func RenderSummary(sum suggest.Summary, avg health.Score) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %d repositories: %s, %s\n",
		styles.Bold.Render("Summary:"),
		sum.Total,
		styles.SuccessStyle.Render(fmt.Sprintf("%d clean", sum.Clean)),
		dirtyCount(sum.Dirty),
	)
	if sum.Ahead > 0 {
		fmt.Fprintf(&b, "  %d ahead of upstream (%d unpushed commits)\n", sum.Ahead, sum.TotalUnpushed)
	}
	if sum.Behind > 0 {
		fmt.Fprintf(&b, "  %d behind upstream (%d unpulled commits)\n", sum.Behind, sum.TotalUnpulled)
	}
	if sum.Detached > 0 {
		fmt.Fprintf(&b, "  %d with detached HEAD\n", sum.Detached)
	}
	if sum.WithStashes > 0 {
		fmt.Fprintf(&b, "  %d with stashed changes\n", sum.WithStashes)
	}
	if sum.Total > 0 {
		fmt.Fprintf(&b, "  Average health: %s (%s)\n",
			styles.HealthStyle(avg.Total).Render(fmt.Sprintf("%d/100", avg.Total)),
			avg.Label(),
		)
	}
	return b.String()
}

func dirtyCount(n int) string {
	text := fmt.Sprintf("%d dirty", n)
	if n == 0 {
		return styles.MutedStyle.Render(text)
	}
	return styles.WarningStyle.Render(text)
}

// RenderSuggestions renders the numbered suggestions for one repository.
// limit <= 0 shows all of them.
func RenderSuggestions(s status.RepoStatus, suggestions []suggest.Suggestion, root string, limit int) string {
	if len(suggestions) == 0 {
		return ""
	}
	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}

	var b strings.Builder
	score := health.Calculate(s)
	fmt.Fprintf(&b, "%s %s\n",
		styles.Bold.Render(styles.FormatPath(s.Path, DisplayName(s.Path, root))),
		styles.HealthStyle(score.Total).Render(fmt.Sprintf("[%d]", score.Total)),
	)
	for i, sg := range suggestions {
		fmt.Fprintf(&b, "  %d. %s %s\n", i+1,
			styles.PriorityStyle(sg.Priority).Render(fmt.Sprintf("[%s]", sg.Priority)),
			sg.Title,
		)
		fmt.Fprintf(&b, "     %s\n", sg.Description)
		if cmd := sg.Command(); cmd != "" {
			fmt.Fprintf(&b, "     %s\n", styles.InfoStyle.Render("$ "+cmd))
		}
	}
	return b.String()
}

// RenderResult renders a single action result line with optional details.
func RenderResult(name string, r action.Result) string {
	var b strings.Builder
	mark := styles.SuccessStyle.Render(styles.CurrentSymbols().Clean)
	if !r.Success {
		mark = styles.ErrorStyle.Render("✗")
	}
	if name != "" {
		fmt.Fprintf(&b, "%s %s: %s\n", mark, name, r.Message)
	} else {
		fmt.Fprintf(&b, "%s %s\n", mark, r.Message)
	}
	if r.Details != "" {
		fmt.Fprintf(&b, "  %s\n", styles.MutedStyle.Render(r.Details))
	}
	return b.String()
}

// RenderResults renders per-repository results followed by a count line.
func RenderResults(names []string, results []action.Result) string {
	var b strings.Builder
	failed := 0
	for i, r := range results {
		b.WriteString(RenderResult(names[i], r))
		if !r.Success {
			failed++
		}
	}
	fmt.Fprintf(&b, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	return b.String()
}

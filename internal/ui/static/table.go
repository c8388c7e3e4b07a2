// Package static provides non-interactive terminal output components.
//
// This package renders tables, summaries and suggestion lists that do
// not require user interaction. Callers pass the rendered strings to
// an output.Printer.
package static

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/raphi011/nexus/internal/health"
	"github.com/raphi011/nexus/internal/status"
	"github.com/raphi011/nexus/internal/ui/styles"
)

// RenderTable creates a formatted table with proper column alignment.
// Headers and rows are rendered using lipgloss/table which automatically
// calculates column widths based on content. No borders are rendered.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(styles.Primary).PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2)
		})

	return t.String() + "\n"
}

// TableOptions selects the optional status table columns.
type TableOptions struct {
	// Root is the scan root; repository names are shown relative to it.
	Root    string
	Verbose bool
	Hooks   bool
	Now     time.Time
}

// StatusHeaders returns the column headers matching StatusRow.
func StatusHeaders(opts TableOptions) []string {
	headers := []string{"REPO", "BRANCH", "STATUS", "SYNC", "HEALTH"}
	if opts.Verbose {
		headers = append(headers, "STASH", "MODIFIED", "UNTRACKED", "LAST COMMIT")
	}
	if opts.Hooks {
		headers = append(headers, "HOOKS")
	}
	return headers
}

// StatusRow renders one repository as table cells.
func StatusRow(s status.RepoStatus, opts TableOptions) []string {
	score := health.Calculate(s)

	row := []string{
		styles.FormatPath(s.Path, DisplayName(s.Path, opts.Root)),
		formatBranch(s),
		styles.FormatState(s.IsClean),
		formatSync(s.Ahead, s.Behind),
		styles.HealthStyle(score.Total).Render(strconv.Itoa(score.Total)),
	}

	if opts.Verbose {
		if d := s.Details; d != nil {
			row = append(row,
				countCell(d.StashCount),
				countCell(d.ModifiedCount),
				countCell(d.UntrackedCount),
				formatCommit(d.LastCommit, opts.Now),
			)
		} else {
			row = append(row, "", "", "", "")
		}
	}
	if opts.Hooks {
		hooks := "-"
		if len(s.Hooks) > 0 {
			hooks = strings.Join(s.Hooks, ",")
		}
		row = append(row, hooks)
	}
	return row
}

// RenderStatusTable renders all statuses in the given order.
func RenderStatusTable(statuses []status.RepoStatus, opts TableOptions) string {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	rows := make([][]string, len(statuses))
	for i, s := range statuses {
		rows[i] = StatusRow(s, opts)
	}
	return RenderTable(StatusHeaders(opts), rows)
}

// DisplayName returns path relative to root, or its base name when it
// lies outside root.
func DisplayName(path, root string) string {
	if root != "" {
		if rel, err := filepath.Rel(root, path); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			if rel == "." {
				return filepath.Base(path)
			}
			return filepath.ToSlash(rel)
		}
	}
	return filepath.Base(path)
}

func formatBranch(s status.RepoStatus) string {
	switch {
	case s.Branch == nil:
		return styles.MutedStyle.Render("?")
	case s.IsDetached():
		return styles.WarningStyle.Render(styles.CurrentSymbols().Detached + " " + s.BranchName())
	case s.IsUnborn():
		return styles.MutedStyle.Render(s.BranchName())
	default:
		return s.BranchName()
	}
}

func formatSync(ahead, behind int) string {
	sym := styles.CurrentSymbols()
	var parts []string
	if ahead > 0 {
		parts = append(parts, styles.WarningStyle.Render(fmt.Sprintf("%s%d", sym.Ahead, ahead)))
	}
	if behind > 0 {
		parts = append(parts, styles.WarningStyle.Render(fmt.Sprintf("%s%d", sym.Behind, behind)))
	}
	if len(parts) == 0 {
		return styles.MutedStyle.Render("-")
	}
	return strings.Join(parts, " ")
}

func countCell(n int) string {
	if n == 0 {
		return styles.MutedStyle.Render("0")
	}
	return strconv.Itoa(n)
}

func formatCommit(c *status.CommitInfo, now time.Time) string {
	if c == nil {
		return styles.MutedStyle.Render("-")
	}
	const maxMessage = 40
	msg := c.Message
	if r := []rune(msg); len(r) > maxMessage {
		msg = string(r[:maxMessage-3]) + "..."
	}
	return fmt.Sprintf("%s %s (%s)", styles.MutedStyle.Render(shortHash(c.Hash)), msg, FormatAge(c.Timestamp, now))
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}

// FormatAge renders the time between t and now the way git log
// --date=relative does, e.g. "3 hours ago".
func FormatAge(t, now time.Time) string {
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute")
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour")
	case d < 30*24*time.Hour:
		return plural(int(d/(24*time.Hour)), "day")
	case d < 365*24*time.Hour:
		return plural(int(d/(30*24*time.Hour)), "month")
	default:
		return plural(int(d/(365*24*time.Hour)), "year")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

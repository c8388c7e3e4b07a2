package main

import (
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/raphi011/nexus/internal/action"
	"github.com/raphi011/nexus/internal/config"
	"github.com/raphi011/nexus/internal/status"
	"github.com/raphi011/nexus/internal/suggest"
)

func ptr(s string) *string { return &s }

func paths(statuses []status.RepoStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = s.Path
	}
	return out
}

func TestParseFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    status.Filter
		wantErr bool
	}{
		{"", status.FilterAll, false},
		{"all", status.FilterAll, false},
		{"dirty", status.FilterDirty, false},
		{"Behind", status.FilterBehind, false},
		{"stale", "", true},
	}
	for _, tt := range tests {
		got, err := parseFilter(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseFilter(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseFilter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	_, err := parseFilter("stale")
	if err == nil || !strings.Contains(err.Error(), "clean, dirty, ahead, behind") {
		t.Errorf("error should list the filters, got %v", err)
	}
}

func TestSortStatuses(t *testing.T) {
	t.Parallel()

	statuses := []status.RepoStatus{
		{Path: "/a", Branch: ptr("main"), IsClean: true},
		{Path: "/b", Branch: ptr("main"), IsClean: false},
		{Path: "/c", Branch: ptr("detached@abc1234"), IsClean: true, Behind: 3},
	}

	byHealth := slices.Clone(statuses)
	sortStatuses(byHealth, "health")
	// without details a dirty repository keeps full cleanliness
	if got := paths(byHealth); !slices.Equal(got, []string{"/c", "/a", "/b"}) {
		t.Errorf("health order = %v", got)
	}

	byStatus := slices.Clone(statuses)
	sortStatuses(byStatus, "status")
	if got := paths(byStatus); !slices.Equal(got, []string{"/b", "/a", "/c"}) {
		t.Errorf("status order = %v", got)
	}
}

func TestResolveRoot(t *testing.T) {
	old := workDir
	workDir = "/work"
	t.Cleanup(func() { workDir = old })

	tests := []struct {
		name string
		args []string
		root string
		want string
	}{
		{"working directory", nil, "", "/work"},
		{"configured root", nil, "/src", "/src"},
		{"absolute argument", []string{"/other/"}, "/src", "/other"},
		{"relative argument", []string{"code/.."}, "/src", "/work"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := config.Default()
			c.Root = tt.root
			got, err := resolveRoot(tt.args, &c)
			if err != nil {
				t.Fatal(err)
			}
			if got != filepath.FromSlash(tt.want) {
				t.Errorf("resolveRoot(%v) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestBuildReport(t *testing.T) {
	t.Parallel()

	statuses := []status.RepoStatus{
		{Path: "/src/clean", Branch: ptr("main"), IsClean: true},
		{Path: "/src/dirty", Branch: ptr("main"), Ahead: 2},
	}

	report := buildReport("/src", statuses, true)
	if report.Root != "/src" || report.Summary.Total != 2 || report.Summary.Dirty != 1 {
		t.Errorf("report header = %q %+v", report.Root, report.Summary)
	}
	if report.AverageHealth == nil {
		t.Fatal("AverageHealth not set")
	}
	if len(report.Repositories) != 2 {
		t.Fatalf("got %d repositories, want 2", len(report.Repositories))
	}
	if r := report.Repositories[0]; r.Health.Total != 100 || len(r.Suggestions) != 0 {
		t.Errorf("clean repo = %+v", r)
	}
	dirty := report.Repositories[1]
	if len(dirty.Suggestions) == 0 {
		t.Fatal("dirty repo has no suggestions")
	}
	for _, sg := range dirty.Suggestions {
		if sg.Command == "" {
			t.Errorf("suggestion %q has no command", sg.Title)
		}
	}

	empty := buildReport("/src", nil, false)
	if empty.AverageHealth != nil || empty.Repositories == nil {
		t.Errorf("empty report = %+v, want no average and an empty list", empty)
	}
}

func TestTopSuggestion(t *testing.T) {
	t.Parallel()

	if _, _, ok := topSuggestion([]status.RepoStatus{{Path: "/ok", Branch: ptr("main"), IsClean: true}}); ok {
		t.Error("healthy repositories should have no top suggestion")
	}

	statuses := []status.RepoStatus{
		{Path: "/ahead", Branch: ptr("main"), IsClean: true, Ahead: 1},
		{Path: "/detached", Branch: ptr("detached@abc1234"), IsClean: true},
	}
	sg, repo, ok := topSuggestion(statuses)
	if !ok {
		t.Fatal("expected a suggestion")
	}
	if repo.Path != "/detached" || sg.Priority != suggest.Critical {
		t.Errorf("top = %s %s, want critical for /detached", repo.Path, sg.Priority)
	}
	if _, ok := sg.Action.(action.CreateBranch); !ok {
		t.Errorf("top action = %T, want CreateBranch", sg.Action)
	}
}

func TestPrefixed(t *testing.T) {
	t.Parallel()

	got := prefixed([]string{"pull", "push", "pop", "stash"}, "pu")
	if !slices.Equal(got, []string{"pull", "push"}) {
		t.Errorf("prefixed = %v", got)
	}
	if got := prefixed([]string{"a"}, "z"); got != nil {
		t.Errorf("prefixed without match = %v, want nil", got)
	}
}

func TestVersionString(t *testing.T) {
	t.Parallel()

	if got := versionString(); !strings.HasPrefix(got, "nexus dev (none, unknown, go") {
		t.Errorf("versionString() = %q", got)
	}
}

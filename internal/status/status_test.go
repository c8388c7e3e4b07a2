package status

import (
	"slices"
	"testing"

	"github.com/raphi011/nexus/internal/git"
)

func TestBranchLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		head git.Head
		want string
	}{
		{git.Head{Kind: git.HeadBranch, Branch: "feature/x", Hash: "abc"}, "feature/x"},
		{git.Head{Kind: git.HeadDetached, Hash: "89abcdef0123"}, "detached@89abcde"},
		{git.Head{Kind: git.HeadUnborn, Branch: "main"}, "main (no commits)"},
	}

	for _, tt := range tests {
		if got := BranchLabel(tt.head); got != tt.want {
			t.Errorf("BranchLabel(%+v) = %q, want %q", tt.head, got, tt.want)
		}
	}
}

func TestRepoStatus_BranchState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		branch       *string
		wantDetached bool
		wantUnborn   bool
		wantHash     string
	}{
		{"named", ptr("main"), false, false, ""},
		{"detached", ptr("detached@89abcde"), true, false, "89abcde"},
		{"unborn", ptr("main (no commits)"), false, true, ""},
		{"unknown", nil, false, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := RepoStatus{Path: "/src/app", Branch: tt.branch}
			if s.IsDetached() != tt.wantDetached {
				t.Errorf("IsDetached() = %v", s.IsDetached())
			}
			if s.IsUnborn() != tt.wantUnborn {
				t.Errorf("IsUnborn() = %v", s.IsUnborn())
			}
			if s.DetachedHash() != tt.wantHash {
				t.Errorf("DetachedHash() = %q, want %q", s.DetachedHash(), tt.wantHash)
			}
			if s.Name() != "app" {
				t.Errorf("Name() = %q, want app", s.Name())
			}
		})
	}
}

func TestFilter(t *testing.T) {
	t.Parallel()

	statuses := []RepoStatus{
		{Path: "/a", IsClean: true},
		{Path: "/b", IsClean: false, Ahead: 1},
		{Path: "/c", IsClean: true, Behind: 2},
		{Path: "/d", IsClean: false, Ahead: 1, Behind: 1},
	}

	tests := []struct {
		filter Filter
		want   []string
	}{
		{FilterAll, []string{"/a", "/b", "/c", "/d"}},
		{FilterClean, []string{"/a", "/c"}},
		{FilterDirty, []string{"/b", "/d"}},
		{FilterAhead, []string{"/b", "/d"}},
		{FilterBehind, []string{"/c", "/d"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			t.Parallel()
			var got []string
			for _, s := range tt.filter.Apply(statuses) {
				got = append(got, s.Path)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Apply() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSort(t *testing.T) {
	t.Parallel()

	base := []RepoStatus{
		{Path: "/c", IsClean: true, Branch: ptr("main")},
		{Path: "/a", IsClean: true, Branch: ptr("develop")},
		{Path: "/b", IsClean: false, Branch: ptr("main")},
		{Path: "/d", IsClean: false},
	}

	tests := []struct {
		key  SortKey
		want []string
	}{
		{SortPath, []string{"/a", "/b", "/c", "/d"}},
		{SortStatus, []string{"/b", "/d", "/a", "/c"}},
		{SortBranch, []string{"/d", "/a", "/b", "/c"}},
		{"bogus", []string{"/a", "/b", "/c", "/d"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			t.Parallel()
			statuses := slices.Clone(base)
			Sort(statuses, tt.key)
			var got []string
			for _, s := range statuses {
				got = append(got, s.Path)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Sort(%s) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

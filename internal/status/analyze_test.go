package status

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/raphi011/nexus/internal/git"
	"github.com/raphi011/nexus/internal/git/gitfake"
)

func branchHead(name string) git.Head {
	return git.Head{Kind: git.HeadBranch, Branch: name, Hash: "abcdef0123456789abcdef0123456789abcdef01"}
}

func TestAnalyze_Branch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		head       git.Head
		headErr    error
		wantBranch *string
	}{
		{"named", branchHead("main"), nil, ptr("main")},
		{"detached", git.Head{Kind: git.HeadDetached, Hash: "1234567890abcdef"}, nil, ptr("detached@1234567")},
		{"unborn", git.Head{Kind: git.HeadUnborn, Branch: "main"}, nil, ptr("main (no commits)")},
		{"unresolvable", git.Head{}, errors.New("bad HEAD"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := &gitfake.Repo{RepoPath: "/src/a", HeadState: tt.head, HeadErr: tt.headErr}
			a := &Analyzer{Backend: gitfake.NewOpener(repo)}

			st, ok := a.Analyze(context.Background(), "/src/a", Options{})
			if !ok {
				t.Fatal("Analyze() returned absent")
			}
			if (st.Branch == nil) != (tt.wantBranch == nil) {
				t.Fatalf("Branch = %v, want %v", st.Branch, tt.wantBranch)
			}
			if tt.wantBranch != nil && *st.Branch != *tt.wantBranch {
				t.Errorf("Branch = %q, want %q", *st.Branch, *tt.wantBranch)
			}
		})
	}
}

func TestAnalyze_Divergence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		head       git.Head
		headErr    error
		upstream   string
		divErr     error
		wantAhead  int
		wantBehind int
	}{
		{"tracking branch", branchHead("main"), nil, "origin/main", nil, 2, 3},
		{"no upstream", branchHead("main"), nil, "", nil, 0, 0},
		{"detached", git.Head{Kind: git.HeadDetached, Hash: "1234567890"}, nil, "origin/main", nil, 0, 0},
		{"unborn", git.Head{Kind: git.HeadUnborn, Branch: "main"}, nil, "origin/main", nil, 0, 0},
		{"unresolvable HEAD", branchHead("main"), errors.New("bad HEAD"), "origin/main", nil, 0, 0},
		{"backend failure", branchHead("main"), nil, "origin/main", errors.New("rev-list failed"), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := &gitfake.Repo{
				RepoPath:      "/src/a",
				HeadState:     tt.head,
				HeadErr:       tt.headErr,
				UpstreamName:  tt.upstream,
				AheadCount:    2,
				BehindCount:   3,
				DivergenceErr: tt.divErr,
			}
			a := &Analyzer{Backend: gitfake.NewOpener(repo)}

			st, ok := a.Analyze(context.Background(), "/src/a", Options{})
			if !ok {
				t.Fatal("Analyze() returned absent")
			}
			if tt.headErr != nil && st.Branch != nil {
				t.Errorf("Branch = %q, want nil for unresolvable HEAD", *st.Branch)
			}
			if st.Ahead != tt.wantAhead || st.Behind != tt.wantBehind {
				t.Errorf("Ahead/Behind = %d/%d, want %d/%d", st.Ahead, st.Behind, tt.wantAhead, tt.wantBehind)
			}
		})
	}
}

func TestAnalyze_Absent(t *testing.T) {
	t.Parallel()

	broken := &gitfake.Repo{RepoPath: "/src/broken", StatusErr: errors.New("index corrupt")}
	a := &Analyzer{Backend: gitfake.NewOpener(broken)}

	for _, path := range []string{"/src/missing", "/src/broken"} {
		if st, ok := a.Analyze(context.Background(), path, Options{Verbose: true}); ok || st != nil {
			t.Errorf("Analyze(%s) = %+v, %v; want absent", path, st, ok)
		}
	}
}

func TestAnalyze_VerboseGroup(t *testing.T) {
	t.Parallel()

	when := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	newRepo := func() *gitfake.Repo {
		return &gitfake.Repo{
			RepoPath:  "/src/a",
			HeadState: branchHead("main"),
			Changes: []git.FileChange{
				{Path: "a.go", X: ' ', Y: 'M'},
				{Path: "b.go", X: 'A', Y: ' '},
				{Path: "c.go", X: 'R', Y: ' '},
				{Path: "tmp/", X: '?', Y: '?'},
			},
			Stashes: 2,
			Last:    &git.Commit{Hash: "0123456789abcdef", Author: "Ana", Message: "Fix parser", Time: when},
		}
	}

	t.Run("not verbose leaves group absent", func(t *testing.T) {
		t.Parallel()
		a := &Analyzer{Backend: gitfake.NewOpener(newRepo())}
		st, _ := a.Analyze(context.Background(), "/src/a", Options{})
		if st.Details != nil {
			t.Errorf("Details = %+v, want nil", st.Details)
		}
		if st.IsClean {
			t.Error("IsClean = true for a dirty repository")
		}
	})

	t.Run("verbose fills whole group", func(t *testing.T) {
		t.Parallel()
		a := &Analyzer{Backend: gitfake.NewOpener(newRepo())}
		st, _ := a.Analyze(context.Background(), "/src/a", Options{Verbose: true})
		want := Details{
			StashCount:     2,
			ModifiedCount:  3,
			UntrackedCount: 1,
			LastCommit:     &CommitInfo{Hash: "0123456", Author: "Ana", Message: "Fix parser", Timestamp: when},
		}
		if st.Details == nil {
			t.Fatal("Details = nil, want group")
		}
		got := *st.Details
		if got.StashCount != want.StashCount || got.ModifiedCount != want.ModifiedCount || got.UntrackedCount != want.UntrackedCount {
			t.Errorf("Details counts = %+v, want %+v", got, want)
		}
		if got.LastCommit == nil || *got.LastCommit != *want.LastCommit {
			t.Errorf("LastCommit = %+v, want %+v", got.LastCommit, want.LastCommit)
		}
	})

	t.Run("verbose without commits", func(t *testing.T) {
		t.Parallel()
		repo := newRepo()
		repo.Last = nil
		a := &Analyzer{Backend: gitfake.NewOpener(repo)}
		st, _ := a.Analyze(context.Background(), "/src/a", Options{Verbose: true})
		if st.Details == nil || st.Details.LastCommit != nil {
			t.Errorf("Details = %+v, want group without last commit", st.Details)
		}
	})
}

func TestAnalyze_CleanRepository(t *testing.T) {
	t.Parallel()

	repo := &gitfake.Repo{RepoPath: "/src/a", HeadState: branchHead("main")}
	a := &Analyzer{Backend: gitfake.NewOpener(repo)}

	st, _ := a.Analyze(context.Background(), "/src/a", Options{Verbose: true})
	if !st.IsClean {
		t.Error("IsClean = false, want true")
	}
	if st.Details.ModifiedCount != 0 || st.Details.UntrackedCount != 0 {
		t.Errorf("Details = %+v, want zero counts", st.Details)
	}
}

func TestAnalyze_Hooks(t *testing.T) {
	t.Parallel()

	repo := &gitfake.Repo{
		RepoPath:  "/src/a",
		HeadState: branchHead("main"),
		HookSet:   map[string]bool{"pre-push": true, "pre-commit": true, "unknown": true},
	}
	a := &Analyzer{Backend: gitfake.NewOpener(repo)}

	st, _ := a.Analyze(context.Background(), "/src/a", Options{})
	if st.Hooks != nil {
		t.Errorf("Hooks = %v without detection, want nil", st.Hooks)
	}

	st, _ = a.Analyze(context.Background(), "/src/a", Options{Hooks: true})
	if want := []string{"pre-commit", "pre-push"}; !slices.Equal(st.Hooks, want) {
		t.Errorf("Hooks = %v, want %v", st.Hooks, want)
	}

	repo.HookSet = nil
	st, _ = a.Analyze(context.Background(), "/src/a", Options{Hooks: true})
	if st.Hooks == nil || len(st.Hooks) != 0 {
		t.Errorf("Hooks = %#v, want empty non-nil", st.Hooks)
	}
}

func TestAnalyzeAll(t *testing.T) {
	t.Parallel()

	var repos []*gitfake.Repo
	var paths []string
	for i := 9; i >= 0; i-- {
		p := fmt.Sprintf("/src/repo-%d", i)
		repos = append(repos, &gitfake.Repo{RepoPath: p, HeadState: branchHead("main")})
		paths = append(paths, p)
	}
	paths = append(paths, "/src/vanished")
	opener := gitfake.NewOpener(repos...)

	a := &Analyzer{Backend: opener, Workers: 3}
	got := a.AnalyzeAll(context.Background(), paths, Options{Verbose: true})

	if len(got) != 10 {
		t.Fatalf("AnalyzeAll() returned %d statuses, want 10", len(got))
	}
	for i, st := range got {
		if want := fmt.Sprintf("/src/repo-%d", i); st.Path != want {
			t.Errorf("got[%d].Path = %s, want %s", i, st.Path, want)
		}
		if st.Details == nil {
			t.Errorf("got[%d].Details = nil", i)
		}
	}
	for _, p := range paths {
		if n := opener.Opens(p); n != 1 {
			t.Errorf("%s opened %d times, want 1", p, n)
		}
	}
}

func TestAnalyzeAll_Empty(t *testing.T) {
	t.Parallel()

	a := &Analyzer{Backend: gitfake.NewOpener()}
	if got := a.AnalyzeAll(context.Background(), nil, Options{}); len(got) != 0 {
		t.Errorf("AnalyzeAll(nil) = %v, want empty", got)
	}
}

func ptr(s string) *string { return &s }

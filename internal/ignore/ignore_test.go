package ignore

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestShouldIgnore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		patterns []string
		path     string
		isDir    bool
		want     bool
	}{
		{"segment exact", []string{"node_modules"}, "node_modules", true, true},
		{"segment nested", []string{"node_modules"}, "src/node_modules", true, true},
		{"segment no partial", []string{"node_modules"}, "src/modules", true, false},
		{"glob suffix", []string{"*.log"}, "error.log", false, true},
		{"glob suffix nested", []string{"*.log"}, "logs/debug.log", false, true},
		{"glob no match", []string{"*.log"}, "logfile.txt", false, false},
		{"glob prefix", []string{"tmp*"}, "tmp-cache", true, true},
		{"glob prefix anchored", []string{"tmp*"}, "src/tmp-cache", true, false},
		{"glob interior in order", []string{"a*b*c"}, "a-x-b-y-c", false, true},
		{"glob interior out of order", []string{"a*b*c"}, "a-c-b", false, false},
		{"dir only on dir", []string{"build/"}, "build", true, true},
		{"dir only on file", []string{"build/"}, "build.txt", false, false},
		{"dir only never files", []string{"build/"}, "build", false, false},
		{"anchored", []string{"/vendor"}, "vendor/pkg", true, true},
		{"anchored not nested", []string{"/vendor"}, "src/vendor", true, false},
		{"slash substring", []string{"docs/generated"}, "site/docs/generated/api", true, true},
		{"double star", []string{"logs**.log"}, "app/logs/2024/out.log", false, true},
		{"double star wrong suffix", []string{"logs**.log"}, "app/logs/out.txt", false, false},
		{"question mark literal", []string{"file?.log"}, "file?.log", false, true},
		{"question mark not a glob", []string{"file?.log"}, "file1.log", false, false},
		{"bracket literal", []string{"data["}, "data[", false, true},
		{"no patterns", nil, "anything", true, false},
		{"negation after match", []string{"*.log", "!important.log"}, "important.log", false, false},
		{"negation keeps others", []string{"*.log", "!important.log"}, "error.log", false, true},
		{"later positive wins", []string{"!keep", "keep"}, "keep", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := New(tt.patterns...)
			if got := r.ShouldIgnore(tt.path, tt.isDir); got != tt.want {
				t.Errorf("ShouldIgnore(%q, %v) with %v = %v, want %v", tt.path, tt.isDir, tt.patterns, got, tt.want)
			}
		})
	}
}

func TestShouldIgnoreEntry_GitDir(t *testing.T) {
	t.Parallel()

	r := New("!.git")
	if !r.ShouldIgnoreEntry(".git", "project/.git", true) {
		t.Error(".git directory must always be ignored")
	}
	if r.ShouldIgnoreEntry(".git", "worktree/.git", false) {
		t.Error(".git file is not a directory and should fall through to the rules")
	}
}

func TestShouldIgnoreEntry_Dirs(t *testing.T) {
	t.Parallel()

	r := New("!build").WithDirs("dist", " ", "build")
	tests := []struct {
		name  string
		path  string
		isDir bool
		want  bool
	}{
		{"dist", "dist", true, true},
		{"dist", "web/dist", true, true},
		{"app-dist", "app-dist", true, false},
		{"distro", "tools/distro", true, false},
		{"dist", "dist", false, false},
		// a negated pattern evaluated after the name still re-includes
		{"build", "build", true, false},
	}
	for _, tt := range tests {
		if got := r.ShouldIgnoreEntry(tt.name, tt.path, tt.isDir); got != tt.want {
			t.Errorf("ShouldIgnoreEntry(%q, %q, %v) = %v, want %v", tt.name, tt.path, tt.isDir, got, tt.want)
		}
	}
	if got := r.Dirs(); !slices.Equal(got, []string{"dist", "build"}) {
		t.Errorf("Dirs() = %v, want [dist build]", got)
	}
	if r.ShouldIgnore("dist", true) {
		t.Error("ShouldIgnore only evaluates patterns, not directory names")
	}
}

func TestWith_DoesNotMutate(t *testing.T) {
	t.Parallel()

	base := New("target")
	extended := base.With("dist", "", "# comment", "  out  ")

	if base.Len() != 1 {
		t.Errorf("base.Len() = %d, want 1", base.Len())
	}
	want := []string{"target", "dist", "out"}
	if got := extended.Patterns(); !slices.Equal(got, want) {
		t.Errorf("Patterns() = %v, want %v", got, want)
	}
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	d := Defaults()
	for _, p := range []string{"node_modules", "target", "vendor"} {
		if !slices.Contains(d.Patterns(), p) {
			t.Errorf("default patterns missing %q", p)
		}
	}
	if !d.ShouldIgnore("web/node_modules", true) {
		t.Error("defaults should ignore nested node_modules")
	}
}

func TestFromRepo(t *testing.T) {
	t.Parallel()

	t.Run("reads gitignore", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		content := "# build output\n\n*.tmp\ncoverage/\n!keep.tmp\n"
		if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		r := FromRepo(dir)
		want := []string{"*.tmp", "coverage/", "!keep.tmp"}
		if got := r.Patterns(); !slices.Equal(got, want) {
			t.Errorf("Patterns() = %v, want %v", got, want)
		}
		if r.ShouldIgnore("keep.tmp", false) {
			t.Error("keep.tmp should be re-included")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		if r := FromRepo(t.TempDir()); r.Len() != 0 {
			t.Errorf("Len() = %d, want 0", r.Len())
		}
	})
}

package config

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/raphi011/nexus/internal/discovery"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if cfg.ScanDepth != DefaultScanDepth {
		t.Errorf("ScanDepth = %d, want %d", cfg.ScanDepth, DefaultScanDepth)
	}
	if !slices.Equal(cfg.IgnoreDirs, DefaultIgnoreDirs) {
		t.Errorf("IgnoreDirs = %v, want %v", cfg.IgnoreDirs, DefaultIgnoreDirs)
	}
	if cfg.Cache.MaxAgeDuration() != DefaultMaxAge {
		t.Errorf("MaxAgeDuration() = %v, want %v", cfg.Cache.MaxAgeDuration(), DefaultMaxAge)
	}
	if cfg.Display.DefaultSort != "path" || cfg.Display.DefaultFormat != "table" {
		t.Errorf("Display = %+v, want path/table defaults", cfg.Display)
	}

	// Default must hand out independent slices.
	cfg.IgnoreDirs[0] = "changed"
	if DefaultIgnoreDirs[0] == "changed" {
		t.Error("Default() shares IgnoreDirs with DefaultIgnoreDirs")
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, cfg Config)
		wantErr string
	}{
		{
			name: "full config",
			content: `
scan_depth = 5
root = "/src"
ignore_dirs = ["tmp"]
ignore_patterns = ["*.log", "!keep.log"]
workers = 4

[display]
default_verbose = true
show_hooks = true
default_sort = "health"
default_format = "json"

[cache]
enabled = true
max_age = "2m"
`,
			check: func(t *testing.T, cfg Config) {
				if cfg.ScanDepth != 5 || cfg.Root != "/src" || cfg.Workers != 4 {
					t.Errorf("top-level fields = %d %q %d", cfg.ScanDepth, cfg.Root, cfg.Workers)
				}
				if !slices.Equal(cfg.IgnoreDirs, []string{"tmp"}) {
					t.Errorf("IgnoreDirs = %v, want [tmp]", cfg.IgnoreDirs)
				}
				if !cfg.Display.DefaultVerbose || !cfg.Display.ShowHooks {
					t.Errorf("Display = %+v", cfg.Display)
				}
				if cfg.Display.DefaultSort != "health" || cfg.Display.DefaultFormat != "json" {
					t.Errorf("Display = %+v", cfg.Display)
				}
				if !cfg.Cache.Enabled || cfg.Cache.MaxAgeDuration() != 2*time.Minute {
					t.Errorf("Cache = %+v (max age %v)", cfg.Cache, cfg.Cache.MaxAgeDuration())
				}
			},
		},
		{
			name:    "partial config keeps defaults",
			content: "workers = 2\n",
			check: func(t *testing.T, cfg Config) {
				if cfg.ScanDepth != DefaultScanDepth {
					t.Errorf("ScanDepth = %d, want default", cfg.ScanDepth)
				}
				if !slices.Equal(cfg.IgnoreDirs, DefaultIgnoreDirs) {
					t.Errorf("IgnoreDirs = %v, want defaults", cfg.IgnoreDirs)
				}
				if cfg.Cache.MaxAgeDuration() != DefaultMaxAge {
					t.Errorf("MaxAgeDuration() = %v, want default", cfg.Cache.MaxAgeDuration())
				}
			},
		},
		{name: "zero depth", content: "scan_depth = 0\n", wantErr: "scan_depth"},
		{name: "negative workers", content: "workers = -1\n", wantErr: "workers"},
		{name: "relative root", content: "root = \"code\"\n", wantErr: "root"},
		{name: "bad sort", content: "[display]\ndefault_sort = \"size\"\n", wantErr: "display.default_sort"},
		{name: "bad format", content: "[display]\ndefault_format = \"xml\"\n", wantErr: "display.default_format"},
		{name: "bad max age", content: "[cache]\nmax_age = \"soon\"\n", wantErr: "cache.max_age"},
		{name: "non-positive max age", content: "[cache]\nmax_age = \"0s\"\n", wantErr: "cache.max_age"},
		{name: "empty pattern", content: "ignore_patterns = [\"*.log\", \"!\"]\n", wantErr: "ignore_patterns[1]"},
		{name: "root pattern", content: "ignore_patterns = [\"/\"]\n", wantErr: "ignore_patterns[0]"},
		{name: "nested dir name", content: "ignore_dirs = [\"a/b\"]\n", wantErr: "ignore_dirs[0]"},
		{name: "blank dir name", content: "ignore_dirs = [\" \"]\n", wantErr: "ignore_dirs[0]"},
		{name: "invalid toml", content: "scan_depth = \n", wantErr: "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeConfig(t, t.TempDir(), "config.toml", tt.content)

			cfg, err := LoadFile(path)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("LoadFile() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadFile() error = %v", err)
			}
			if cfg.Source != path {
				t.Errorf("Source = %q, want %q", cfg.Source, path)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoadSearchOrder(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	work := t.TempDir()

	cfg, err := Load(work)
	if err != nil {
		t.Fatalf("Load() with no files error = %v", err)
	}
	if cfg.Source != "" || cfg.ScanDepth != DefaultScanDepth {
		t.Errorf("Load() with no files = %+v, want defaults", cfg)
	}

	writeConfig(t, home, ".nexus.toml", "scan_depth = 7\n")
	if cfg, _ = Load(work); cfg.ScanDepth != 7 {
		t.Errorf("~/.nexus.toml not used: ScanDepth = %d", cfg.ScanDepth)
	}

	writeConfig(t, home, filepath.Join(".config", "nexus", "config.toml"), "scan_depth = 6\n")
	if cfg, _ = Load(work); cfg.ScanDepth != 6 {
		t.Errorf("~/.config/nexus/config.toml not preferred: ScanDepth = %d", cfg.ScanDepth)
	}

	local := writeConfig(t, work, ".nexus.toml", "scan_depth = 2\n")
	cfg, err = Load(work)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ScanDepth != 2 || cfg.Source != local {
		t.Errorf("./.nexus.toml not preferred: ScanDepth = %d, Source = %q", cfg.ScanDepth, cfg.Source)
	}

	writeConfig(t, work, ".nexus.toml", "scan_depth = -3\n")
	if _, err := Load(work); err == nil {
		t.Error("Load() with invalid local file should fail")
	}
}

func TestInitAt(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nexus", "config.toml")
	if err := InitAt(path, false); err != nil {
		t.Fatalf("InitAt() error = %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	want := Default()
	want.Source = path
	if cfg.ScanDepth != want.ScanDepth || !slices.Equal(cfg.IgnoreDirs, want.IgnoreDirs) ||
		cfg.Display != want.Display || cfg.Cache.MaxAgeDuration() != want.Cache.MaxAgeDuration() {
		t.Errorf("generated config = %+v, want defaults", cfg)
	}

	if err := InitAt(path, false); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("InitAt() on existing file error = %v, want already exists", err)
	}
	if err := InitAt(path, true); err != nil {
		t.Errorf("InitAt(force) error = %v", err)
	}
}

func TestDefaultConfigIsValidTOML(t *testing.T) {
	t.Parallel()

	var raw map[string]any
	if _, err := toml.Decode(defaultConfig, &raw); err != nil {
		t.Fatalf("defaultConfig is not valid TOML: %v", err)
	}
	for _, key := range []string{"scan_depth", "ignore_dirs", "workers", "display", "cache"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("defaultConfig missing %q", key)
		}
	}
}

func TestIgnoreRules(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.IgnoreDirs = []string{"generated"}
	cfg.IgnorePatterns = []string{"*.tmp", "scratch/"}
	rules := cfg.IgnoreRules()

	tests := []struct {
		name  string
		path  string
		isDir bool
		want  bool
	}{
		{"generated", "app/generated", true, true},
		{"notes.tmp", "app/notes.tmp", false, true},
		{"scratch", "scratch", true, true},
		// a configured ignore_dirs replaces the defaults
		{"node_modules", "web/node_modules", true, false},
		// names are compared exactly
		{"generated-docs", "app/generated-docs", true, false},
		{"cmd", "app/cmd", true, false},
	}
	for _, tt := range tests {
		if got := rules.ShouldIgnoreEntry(tt.name, tt.path, tt.isDir); got != tt.want {
			t.Errorf("ShouldIgnoreEntry(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestIgnoreRules_CustomDirsReplaceDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeConfig(t, dir, "config.toml", "ignore_dirs = [\"custom_dir\"]\n")
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	root := filepath.Join(dir, "src")
	for _, repo := range []string{"go/buildkit", "tools/distro", "app-dist", "work/vendor", "build", "plain", "custom_dir/hidden"} {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(repo), ".git"), 0755); err != nil {
			t.Fatal(err)
		}
	}

	got, err := discovery.Discover(context.Background(), root, 3, cfg.IgnoreRules())
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	var rel []string
	for _, p := range got {
		r, _ := filepath.Rel(root, p)
		rel = append(rel, filepath.ToSlash(r))
	}
	want := []string{"app-dist", "build", "go/buildkit", "plain", "tools/distro", "work/vendor"}
	if !slices.Equal(rel, want) {
		t.Errorf("Discover() = %v, want %v", rel, want)
	}
}

func TestRootDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		root string
		want string
	}{
		{"", "."},
		{"/src", "/src"},
		{"~", home},
		{"~/code", filepath.Join(home, "code")},
	}
	for _, tt := range tests {
		cfg := Config{Root: tt.root}
		if got := cfg.RootDir(); got != tt.want {
			t.Errorf("RootDir(%q) = %q, want %q", tt.root, got, tt.want)
		}
	}
}

func TestValidatePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		wantErr bool
	}{
		{"", false},
		{"~", false},
		{"~/code", false},
		{"/abs/path", false},
		{".", true},
		{"../x", true},
		{"code", true},
	}
	for _, tt := range tests {
		err := ValidatePath(tt.path, "root")
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}

func TestValidateEnum(t *testing.T) {
	t.Parallel()

	if err := ValidateSort("health"); err != nil {
		t.Errorf("ValidateSort(health) = %v", err)
	}
	if err := ValidateFormat(""); err != nil {
		t.Errorf("ValidateFormat(\"\") = %v", err)
	}
	err := ValidateFormat("xml")
	if err == nil {
		t.Fatal("ValidateFormat(xml) should fail")
	}
	want := `invalid format "xml": must be "table", "json", or "yaml"`
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestValidatePatterns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		wantErr bool
	}{
		{"data[", false},
		{"file?.log", false},
		{"*.log", false},
		{"!keep", false},
		{"scratch/", false},
		{"# comment", false},
		{"", true},
		{"!", true},
		{"/", true},
		{"!/", true},
	}
	for _, tt := range tests {
		err := validatePatterns([]string{tt.pattern}, "ignore_patterns")
		if (err != nil) != tt.wantErr {
			t.Errorf("validatePatterns(%q) error = %v, wantErr %v", tt.pattern, err, tt.wantErr)
		}
	}
}

func TestFormatOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		opts []string
		want string
	}{
		{[]string{"a"}, `"a"`},
		{[]string{"a", "b"}, `"a" or "b"`},
		{[]string{"a", "b", "c"}, `"a", "b", or "c"`},
	}
	for _, tt := range tests {
		if got := formatOptions(tt.opts); got != tt.want {
			t.Errorf("formatOptions(%v) = %q, want %q", tt.opts, got, tt.want)
		}
	}
}

func TestWithConfig_FromContext(t *testing.T) {
	t.Parallel()

	if cfg := FromContext(context.Background()); cfg.ScanDepth != DefaultScanDepth {
		t.Errorf("FromContext(empty) = %+v, want defaults", cfg)
	}

	cfg := Default()
	cfg.Workers = 9
	if got := FromContext(WithConfig(context.Background(), &cfg)); got != &cfg {
		t.Error("FromContext did not return the stored config")
	}
}

//go:build integration

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/raphi011/nexus/internal/gittest"
	"github.com/raphi011/nexus/internal/health"
	"github.com/raphi011/nexus/internal/suggest"
)

func TestScan_Table(t *testing.T) {
	root, _, _ := setupWorkspace(t)

	out, err := runCommand(t, root, testConfig(), newScanCmd(), root)
	if err != nil {
		t.Fatalf("nexus scan failed: %v", err)
	}

	for _, want := range []string{"REPO", "alpha", "beta", "main", "2 repositories", "1 clean", "1 dirty", "Average health"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestScan_FilterAndSuggest(t *testing.T) {
	root, _, _ := setupWorkspace(t)

	out, err := runCommand(t, root, testConfig(), newScanCmd(), root, "-f", "dirty", "--suggest")
	if err != nil {
		t.Fatalf("nexus scan failed: %v", err)
	}
	if strings.Contains(out, "alpha") {
		t.Errorf("clean repository shown with -f dirty:\n%s", out)
	}
	for _, want := range []string{"beta", "[high] Commit your changes", "$ git commit -m"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = runCommand(t, root, testConfig(), newScanCmd(), root, "-f", "behind")
	if err != nil {
		t.Fatalf("nexus scan failed: %v", err)
	}
	if !strings.Contains(out, `No repositories match filter "behind" (2 scanned)`) {
		t.Errorf("unexpected output for empty filter result:\n%s", out)
	}
}

func TestScan_JSON(t *testing.T) {
	root, alpha, beta := setupWorkspace(t)

	out, err := runCommand(t, root, testConfig(), newScanCmd(), root, "--json", "-V", "-s", "health")
	if err != nil {
		t.Fatalf("nexus scan --json failed: %v", err)
	}

	var report struct {
		Root          string          `json:"root"`
		Summary       suggest.Summary `json:"summary"`
		AverageHealth *health.Score   `json:"average_health"`
		Repositories  []struct {
			Path    string       `json:"path"`
			IsClean bool         `json:"is_clean"`
			Health  health.Score `json:"health"`
			Details *struct {
				ModifiedCount int `json:"modified_count"`
			} `json:"details"`
		} `json:"repositories"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}

	if report.Root != root || report.Summary.Total != 2 || report.AverageHealth == nil {
		t.Errorf("report header = %q %+v %v", report.Root, report.Summary, report.AverageHealth)
	}
	if len(report.Repositories) != 2 {
		t.Fatalf("got %d repositories, want 2", len(report.Repositories))
	}
	// lowest health first
	first, second := report.Repositories[0], report.Repositories[1]
	if first.Path != beta || second.Path != alpha {
		t.Errorf("order = %s, %s, want beta then alpha", first.Path, second.Path)
	}
	if first.IsClean || first.Details == nil || first.Details.ModifiedCount != 1 {
		t.Errorf("beta = %+v, want one modified file", first)
	}
	if second.Health.Total != 100 {
		t.Errorf("alpha health = %d, want 100", second.Health.Total)
	}
}

func TestScan_YAML(t *testing.T) {
	root, _, _ := setupWorkspace(t)

	out, err := runCommand(t, root, testConfig(), newScanCmd(), root, "--format", "yaml")
	if err != nil {
		t.Fatalf("nexus scan --format yaml failed: %v", err)
	}

	var report struct {
		Repositories []struct {
			Path    string `yaml:"path"`
			IsClean bool   `yaml:"is_clean"`
		} `yaml:"repositories"`
	}
	if err := yaml.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, out)
	}
	if len(report.Repositories) != 2 || report.Repositories[0].Path == "" {
		t.Errorf("repositories = %+v", report.Repositories)
	}
}

func TestScan_NoRepositories(t *testing.T) {
	gittest.RequireGit(t)
	root := gittest.TempDir(t)

	out, err := runCommand(t, root, testConfig(), newScanCmd(), root)
	if err != nil {
		t.Fatalf("nexus scan failed: %v", err)
	}
	if !strings.Contains(out, "No git repositories found in "+root) {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestScan_DepthAndIgnore(t *testing.T) {
	root, _, _ := setupWorkspace(t)
	group := filepath.Join(root, "group")
	if err := os.MkdirAll(group, 0o755); err != nil {
		t.Fatal(err)
	}
	nested := gittest.Init(t, group, "gamma")
	gittest.CommitFile(t, nested, "README.md", "# gamma\n", "Initial commit")
	ignored := gittest.Init(t, filepath.Join(root, "node_modules"), "dep")
	gittest.CommitFile(t, ignored, "README.md", "# dep\n", "Initial commit")

	// the .git entry of group/gamma sits three levels below root
	out, err := runCommand(t, root, testConfig(), newScanCmd(), root, "-d", "2")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "gamma") || !strings.Contains(out, "alpha") {
		t.Errorf("depth 2 should find alpha but not group/gamma:\n%s", out)
	}

	out, err = runCommand(t, root, testConfig(), newScanCmd(), root, "-d", "3")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "group/gamma") {
		t.Errorf("depth 3 should find group/gamma:\n%s", out)
	}
	if strings.Contains(out, "node_modules") {
		t.Errorf("node_modules should be ignored:\n%s", out)
	}
}

func TestScan_InvalidFlags(t *testing.T) {
	root, _, _ := setupWorkspace(t)

	tests := []struct {
		args    []string
		wantErr string
	}{
		{[]string{"-s", "size"}, `invalid sort "size"`},
		{[]string{"--format", "xml"}, "xml"},
		{[]string{"-f", "stale"}, `invalid filter "stale"`},
		{[]string{"-d", "0"}, "--depth must be greater than 0"},
	}
	for _, tt := range tests {
		_, err := runCommand(t, root, testConfig(), newScanCmd(), append([]string{root}, tt.args...)...)
		if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("scan %v error = %v, want containing %q", tt.args, err, tt.wantErr)
		}
	}
}

//go:build integration

package main

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/raphi011/nexus/internal/config"
	"github.com/raphi011/nexus/internal/gittest"
	"github.com/raphi011/nexus/internal/output"
)

// runCommand executes cmd with args against cfg and returns stdout with
// styling removed. Commands run from dir, which becomes workDir.
func runCommand(t *testing.T, dir string, cfg *config.Config, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	old := workDir
	workDir = dir
	t.Cleanup(func() { workDir = old })

	var buf bytes.Buffer
	ctx := output.WithPrinter(context.Background(), &buf)
	ctx = config.WithConfig(ctx, cfg)

	cmd.SetArgs(args)
	cmd.SetOut(&buf)
	cmd.SetErr(io.Discard)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.ExecuteContext(ctx)
	return ansi.Strip(buf.String()), err
}

// testConfig returns defaults with the status cache off.
func testConfig() *config.Config {
	c := config.Default()
	c.Cache.Enabled = false
	return &c
}

// setupWorkspace creates a root with a clean repository "alpha" and a
// repository "beta" with an uncommitted change.
func setupWorkspace(t *testing.T) (root, alpha, beta string) {
	t.Helper()
	gittest.RequireGit(t)

	root = gittest.TempDir(t)
	alpha = gittest.Init(t, root, "alpha")
	gittest.CommitFile(t, alpha, "README.md", "# alpha\n", "Initial commit")

	beta = gittest.Init(t, root, "beta")
	gittest.CommitFile(t, beta, "README.md", "# beta\n", "Initial commit")
	gittest.WriteFile(t, beta, "README.md", "# beta changed\n")

	return root, alpha, beta
}

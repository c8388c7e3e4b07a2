package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raphi011/nexus/internal/config"
	"github.com/raphi011/nexus/internal/git"
	"github.com/raphi011/nexus/internal/log"
	"github.com/raphi011/nexus/internal/output"
	"github.com/raphi011/nexus/internal/ui/styles"
)

var (
	// Global flags
	verbose bool
	quiet   bool

	// Shared state injected into commands
	cfg     *config.Config
	workDir string
)

// Command group IDs for organizing help output
const (
	GroupCore    = "core"
	GroupFix     = "fix"
	GroupUtility = "utility"
	GroupConfig  = "config"
)

// exitError ends the process with code without printing anything more;
// the command already reported what went wrong.
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

var rootFlags scanFlags

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nexus [path]",
	Short: "Scan a directory tree for git repositories and report their health",
	Long: `nexus finds every git repository below a directory and shows branch,
working tree and upstream state for all of them at once.

It scores each repository's health, suggests fixes for common problems
and can apply them one repository at a time or in batches.

Running nexus without a subcommand is the same as 'nexus scan'.`,
	Args:                       cobra.MaximumNArgs(1),
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Flags are parsed by now, so the logger can honor -v and -q
		logger := log.New(os.Stderr, verbose, quiet)
		cmd.SetContext(log.WithLogger(cmd.Context(), logger))

		// Skip git check for completion, help and config commands
		switch cmd.Name() {
		case "completion", "__complete", "help", "version":
			return nil
		}
		if cmd.HasParent() && cmd.Parent().Name() == "config" {
			return nil
		}
		return git.CheckGit()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScanCmd(cmd, args, &rootFlags)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	var err error
	workDir, err = os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "nexus: failed to get working directory: %v\n", err)
		os.Exit(1)
	}

	loadedCfg, err := config.Load(workDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	cfg = &loadedCfg
	styles.Init(cfg.Display)

	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Add output printer (stdout for primary data)
	ctx = output.WithPrinter(ctx, output.NewColorWriter(os.Stdout))
	ctx = config.WithConfig(ctx, cfg)
	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		var exit exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'nexus -h' for help")
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show external commands being executed")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	addScanFlags(rootCmd, &rootFlags)

	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupCore, Title: "Core Commands:"},
		&cobra.Group{ID: GroupFix, Title: "Fix Commands:"},
		&cobra.Group{ID: GroupUtility, Title: "Utility Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Core commands
	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newSuggestCmd())

	// Fix commands
	rootCmd.AddCommand(newFixCmd())
	rootCmd.AddCommand(newBatchCmd())

	// Utility commands
	rootCmd.AddCommand(newWatchCmd())

	// Config commands
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newVersionCmd())
}

package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/raphi011/nexus/internal/config"
	"github.com/raphi011/nexus/internal/log"
	"github.com/raphi011/nexus/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage nexus configuration.

The first file found is used:
  ./.nexus.toml
  ~/.config/nexus/config.toml
  ~/.nexus.toml`,
		Example: `  nexus config init       # Create ~/.config/nexus/config.toml
  nexus config show       # Show effective config
  nexus config path       # Show which file is in use`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force  bool
		stdout bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default config file",
		Args:  cobra.NoArgs,
		Example: `  nexus config init        # Create global config
  nexus config init -f     # Overwrite existing config
  nexus config init -s     # Print config to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if stdout {
				output.FromContext(ctx).Print(config.DefaultFileContent())
				return nil
			}
			path, err := config.Init(force)
			if err != nil {
				return err
			}
			log.FromContext(ctx).Printf("Created config file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print config to stdout")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := config.FromContext(ctx)
			out := output.FromContext(ctx)

			if c.Source != "" {
				out.Printf("# %s\n", c.Source)
			} else {
				out.Println("# defaults (no config file found)")
			}
			if err := toml.NewEncoder(out.Writer()).Encode(c); err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the config file in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := config.FromContext(ctx)
			out := output.FromContext(ctx)

			if c.Source != "" {
				out.Println(c.Source)
				return nil
			}
			log.FromContext(ctx).Printf("No config file found, searched:\n")
			for _, p := range config.SearchPaths(workDir) {
				out.Println(p)
			}
			return nil
		},
	}
}

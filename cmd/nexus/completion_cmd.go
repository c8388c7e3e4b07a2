package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/raphi011/nexus/internal/output"
)

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "completion <shell>",
		Short:     "Generate completion script",
		GroupID:   GroupConfig,
		Long:      `Generate shell completion script.`,
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.ExactArgs(1),
		Example: `  # Fish
  nexus completion fish > ~/.config/fish/completions/nexus.fish

  # Bash
  nexus completion bash > ~/.local/share/bash-completion/completions/nexus

  # Zsh
  nexus completion zsh > ~/.zfunc/_nexus
  # Then add ~/.zfunc to fpath in .zshrc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Print version information",
		GroupID: GroupUtility,
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			output.FromContext(cmd.Context()).Println(versionString())
		},
	}
}

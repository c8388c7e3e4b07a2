package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/nexus/internal/action"
	"github.com/raphi011/nexus/internal/config"
	"github.com/raphi011/nexus/internal/discovery"
	"github.com/raphi011/nexus/internal/status"
	"github.com/raphi011/nexus/internal/ui/static"
)

// completeDirs completes directory arguments.
func completeDirs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveFilterDirs
}

// completeRepos completes repository names below the scan root.
func completeRepos(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	c := cfg
	if c == nil {
		d := config.Default()
		c = &d
	}
	var rootArgs []string
	if root, _ := cmd.Flags().GetString("root"); root != "" {
		rootArgs = []string{root}
	}
	root, err := resolveRoot(rootArgs, c)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	paths, err := discovery.Discover(context.Background(), root, c.ScanDepth, c.IgnoreRules())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var matches []string
	for _, p := range paths {
		if name := static.DisplayName(p, root); strings.HasPrefix(name, toComplete) {
			matches = append(matches, name)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}

// completeActions completes action names.
func completeActions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return prefixed(action.Names, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeBatchArgs completes the action, then the directory.
func completeBatchArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return completeActions(cmd, args, toComplete)
	case 1:
		return nil, cobra.ShellCompDirectiveFilterDirs
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func completeFilters(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	names := make([]string, len(status.Filters))
	for i, f := range status.Filters {
		names[i] = string(f)
	}
	return prefixed(names, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func completeSorts(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return prefixed(config.ValidSortModes, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return prefixed(config.ValidFormats, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func prefixed(values []string, prefix string) []string {
	var out []string
	for _, v := range values {
		if strings.HasPrefix(v, prefix) {
			out = append(out, v)
		}
	}
	return out
}

package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	// Bare invocation runs the full sync; the flags mirror the sync
	// subcommand so migrated crontab entries keep working.
	rootOpts := &syncOptions{}
	rootCmd := &cobra.Command{
		Use:           "extrasync",
		Short:         "Keep a Plex collection in sync with items that have local extras",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(ctx, cmd, rootOpts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Configuration file path")
	rootCmd.SetGlobalNormalizationFunc(normalizeFlagName)
	registerSyncFlags(rootCmd, rootOpts)

	rootCmd.AddCommand(newSyncCommand(ctx))
	rootCmd.AddCommand(newSectionsCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}

// normalizeFlagName accepts the underscore spellings the original tool used.
func normalizeFlagName(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

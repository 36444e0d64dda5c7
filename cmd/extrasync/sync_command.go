package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"extrasync/internal/config"
	"extrasync/internal/library"
	"extrasync/internal/prompt"
	"extrasync/internal/runlock"
	"extrasync/internal/services"
	"extrasync/internal/services/plex"
	"extrasync/internal/workflow"
)

// syncOptions holds the flag values shared by `extrasync sync` and the bare
// root invocation, which runs the same sync.
type syncOptions struct {
	host       string
	token      string
	section    string
	collection string
	noDelete   bool
}

func registerSyncFlags(cmd *cobra.Command, opts *syncOptions) {
	cmd.Flags().StringVarP(&opts.host, "host", "p", "", "Plex host")
	cmd.Flags().StringVarP(&opts.token, "token", "t", "", "Your Plex token")
	cmd.Flags().StringVarP(&opts.section, "section", "s", "", "Library section to scan")
	cmd.Flags().StringVarP(&opts.collection, "collection", "c", "", "Collection name")
	cmd.Flags().BoolVarP(&opts.noDelete, "no-delete", "n", false, "Keep collection items that have no local extras")
}

func newSyncCommand(ctx *commandContext) *cobra.Command {
	opts := &syncOptions{}
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Scan a library section and converge the extras collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(ctx, cmd, opts)
		},
	}
	registerSyncFlags(cmd, opts)
	return cmd
}

func runSync(ctx *commandContext, cmd *cobra.Command, opts *syncOptions) error {
	cfg, path, exists, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("no config file found at %s; run `extrasync config init` to create one", path)
	}

	logger, err := ctx.newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	overrides := config.Overrides{
		Host:       opts.host,
		Token:      opts.token,
		Section:    opts.section,
		Collection: opts.collection,
	}
	if cmd.Flags().Changed("no-delete") {
		overrides.NoDelete = &opts.noDelete
	}

	prompter := prompt.ForStdin()
	settings, err := config.Resolve(cfg, overrides, prompter, logger)
	if err != nil {
		return err
	}

	stateDir, err := config.StateDir()
	if err != nil {
		return err
	}
	lock := runlock.New(stateDir)
	if err := lock.Acquire(); err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	client := plex.NewClient(settings.Host, settings.Token, nil)
	interactive := isatty.IsTerminal(os.Stdout.Fd())
	runner := workflow.New(settings, client, prompter, cmd.OutOrStdout(), interactive, logger)

	result, err := runner.Run(cmd.Context())
	if err != nil {
		out := cmd.OutOrStdout()
		switch {
		case errors.Is(err, services.ErrCanceled):
			fmt.Fprintln(out, "Canceled.")
			return nil
		case errors.Is(err, library.ErrNoItems):
			fmt.Fprintln(out, "The selected section has no items to scan.")
			return nil
		default:
			return err
		}
	}

	renderReport(cmd.OutOrStdout(), result)
	if len(result.Summary.Failed) > 0 {
		return fmt.Errorf("%d collection update(s) failed", len(result.Summary.Failed))
	}
	return nil
}

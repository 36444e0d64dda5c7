package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"extrasync/internal/config"
	"extrasync/internal/services/plex"
)

func newSectionsCommand(ctx *commandContext) *cobra.Command {
	var host string
	var token string

	cmd := &cobra.Command{
		Use:   "sections",
		Short: "List the server's movie and show library sections",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			settings, err := config.Resolve(cfg, config.Overrides{Host: host, Token: token}, nil, logger)
			if err != nil {
				return err
			}

			client := plex.NewClient(settings.Host, settings.Token, nil)
			if err := client.TestConnection(cmd.Context()); err != nil {
				return err
			}
			sections, err := client.Sections(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(sections))
			for _, section := range sections {
				if !section.IsScannable() {
					continue
				}
				rows = append(rows, []string{strconv.Itoa(section.ID), section.Title, section.Type})
			}
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No movie or show sections found.")
				return nil
			}
			fmt.Fprintln(out, renderTable([]string{"ID", "Title", "Type"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&host, "host", "p", "", "Plex host")
	cmd.Flags().StringVarP(&token, "token", "t", "", "Your Plex token")

	return cmd
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/pnptools/internal/app"
)

func newServeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the site, the catalog API and the submission endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(cmd.Context(), c.cfg, c.log)
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}
}

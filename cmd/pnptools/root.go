package main

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/pnptools/internal/config"
	"github.com/MrSnakeDoc/pnptools/internal/logger"
	"github.com/MrSnakeDoc/pnptools/internal/sources/policy"
	"github.com/MrSnakeDoc/pnptools/internal/version"
)

// cli carries what every subcommand needs once the root has loaded the
// environment.
type cli struct {
	cfg *config.Config
	log logger.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "pnptools",
		Short:         "Print-and-play board game resource directory",
		Long:          "Serve, query and submit to the PnP resource catalog.",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			c.cfg = config.Load()
			c.log = logger.New(c.cfg.LogLevel, c.cfg.PrettyLog)
		},
	}

	root.AddCommand(
		newServeCmd(c),
		newQueryCmd(c),
		newSubmitCmd(c),
		newCheckCmd(c),
	)
	return root
}

// policy loads the category table and submission rules from the
// configured policy file.
func (c *cli) policy() (*policy.Policy, error) {
	return policy.Load(c.cfg.PolicyFile, c.cfg.SiteEdition)
}

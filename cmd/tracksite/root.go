package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-tracksite/internal/config"
	"github.com/goliatone/go-tracksite/internal/logging"
)

// app carries what PersistentPreRunE resolved to the subcommands.
type app struct {
	configFile string
	logLevel   string

	cfg    *config.Config
	logger *logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "tracksite",
		Short: "Logistics tracking site",
		Long: `tracksite serves a small logistics website whose tracking page looks up a
shipment by identifier and renders its status, route legs and passenger
details. The same lookup is available from the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.logger.Sync()
		},
	}

	root.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "config file (default is ./tracksite.yaml when present)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")

	root.AddCommand(newServeCmd(a), newLookupCmd(a))
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	v, err := config.New(a.configFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		v.Set("logging.level", a.logLevel)
	}
	// Subcommand flags bound to config keys win over file and env values.
	if err := bindFlags(cmd, v); err != nil {
		return err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/moble/SphericalFunctions/internal/config"
	"github.com/moble/SphericalFunctions/internal/logging"
)

// app holds the state shared by all commands of one invocation.
type app struct {
	configPath string
	overrides  config.Overrides

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "spherical",
		Short: "Spin-weighted spherical harmonics, Wigner D-matrices and rotating frames",
		Long: `Evaluate spin-weighted spherical harmonics and Wigner D-matrices,
synthesize mode sets on Gauss-Legendre sphere grids, and integrate angular
velocity samples into rotating frames.

Tabular input and output use CSV.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to config file (YAML)")
	flags.BoolVar(&a.overrides.Debug, "debug", false, "Enable debug logging")
	flags.StringVar(&a.overrides.LogFile, "log-file", "", "Also log to this file, rotated")
	flags.StringVar(&a.overrides.Method, "method", "", "D-matrix method: recursion or binomial-sum")

	rootCmd.AddCommand(
		a.newSWSHCmd(),
		a.newWignerCmd(),
		a.newGridCmd(),
		a.newFrameCmd(),
		a.newConfigCmd(),
	)
	return rootCmd
}

// setup loads the configuration and builds the logger before any command.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath, a.overrides)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	a.logger.Debug("configuration loaded",
		zap.String("command", cmd.Name()),
		zap.String("method", cfg.Wigner.Method),
		zap.String("log_file", cfg.Logging.LogFile))
	return nil
}

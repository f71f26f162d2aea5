package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"checkit-dashboard/internal/config"
	"checkit-dashboard/pkg/logger"
)

type commandOptions struct {
	ConfigFile string
	Verbose    bool
	JSONOutput bool
}

func newRootCmd() *cobra.Command {
	opts := &commandOptions{}

	cmd := &cobra.Command{
		Use:           "dashboard",
		Short:         "Checkit operations dashboard",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return configureLogging(opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(loadConfig(opts))
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "Path to the navigation file (overrides NAV_CONFIG_FILE)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().BoolVar(&opts.JSONOutput, "json", false, "Output in JSON format")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newNavCmd(opts))

	return cmd
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig(opts *commandOptions) *config.Config {
	cfg := config.New()
	if opts.ConfigFile != "" {
		cfg.SetNavConfigFile(opts.ConfigFile)
	}
	return cfg
}

func configureLogging(opts *commandOptions) error {
	cfg := config.New()

	format := cfg.LogFormat
	if opts.JSONOutput {
		format = "json"
	}
	if err := logger.Configure(cfg.LogLevel, format, cfg.LogFile); err != nil {
		return err
	}
	if opts.Verbose {
		logger.Logger.SetLevel(logrus.DebugLevel)
	}
	return nil
}

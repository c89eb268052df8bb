package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lockstat/config"
	"lockstat/protocol"
)

var (
	configPath string
	debugFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "lockctl",
	Short: "Keypad lock and temperature monitor tooling",
	Long: `lockctl drives the keypad lock controller from a workstation.

Commands:
  sim      run the controller against simulated hardware in the terminal
  monitor  decode the bus tap stream from a running board
  config   print the effective configuration

Configuration is read from --config when the file exists; otherwise the
reference board defaults are used.`,
	Version:      protocol.Version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "lockstat.yaml", "Configuration file")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable controller debug output")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if debugFlag {
		cfg.Debug = true
	}
	return cfg, nil
}

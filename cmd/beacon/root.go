package main

import (
	"fmt"
	"os"

	"beacon/internal/config"
	"beacon/internal/logger"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "beacon",
	Short: "Beacon cluster assistant",
	Long:  `Beacon is an interactive chat assistant for Kubernetes and OpenShift clusters.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cmd)
		if err != nil {
			return err
		}

		logger.Setup(cfg.Server.LogLevel)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.beacon/config.yaml)")
	rootCmd.PersistentFlags().String("server.log_level", config.DefaultServerLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("server.base_url", config.DefaultServerBaseURL, "assistant service base URL")
	rootCmd.PersistentFlags().String("resources.manifest_dir", "", "directory of cluster manifests to attach from")
}

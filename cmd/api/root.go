package main

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Windi-Fikriyansyah/workly_be/internal/config"
	"github.com/Windi-Fikriyansyah/workly_be/internal/logger"
)

const app = "workly"

var rootCmd = &cobra.Command{
	Use:          app,
	Short:        "workly is the job marketplace API",
	SilenceUsage: true,
	// serve is the default
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	if err := viper.BindPFlag("LOG_DEBUG", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		log.Fatalf("binding debug flag: %v", err)
	}
	if err := viper.BindPFlag("LOG_JSON", rootCmd.PersistentFlags().Lookup("json")); err != nil {
		log.Fatalf("binding json flag: %v", err)
	}
}

// bootstrap loads config and builds the logger every command needs.
func bootstrap() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, err
	}

	lg, err := logger.New(cfg.LogJSON, cfg.LogDebug)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, lg, nil
}

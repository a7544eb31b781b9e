package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"metricly/internal/pkg/logger"
	"metricly/internal/platform/config"
	"metricly/internal/platform/database"
)

func main() {
	direction := pflag.String("direction", "up", "Migration direction: up or down")
	configPath := pflag.String("config", "configs/config.yaml", "Path to config file")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Logging, cfg.App.Debug)

	if err := database.Migrate(cfg.Database, *direction); err != nil {
		log.Fatal().Err(err).Str("direction", *direction).Msg("migration failed")
	}

	log.Info().Str("direction", *direction).Msg("migration completed successfully")
}

// Command migrate aplica las migraciones SQL embebidas y termina.
package main

import (
	"os"

	"github.com/jhoicas/Portal-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Portal-api/pkg/config"
	"github.com/jhoicas/Portal-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	log.Info().Msg("aplicando migraciones")
	version, err := postgres.Migrate(cfg.DB.ConnectionString())
	if err != nil {
		log.Error().Err(err).Msg("migraciones")
		os.Exit(1)
	}
	log.Info().Uint("version", version).Msg("migraciones completas")
}

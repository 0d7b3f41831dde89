// Package providers contains dependency injection providers for relprep.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/relprep/relprep/internal/config"
	"github.com/relprep/relprep/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	level := logger.ParseLevel(cfg.Logger.Level)
	log := logger.New(logger.Config{
		Format:    cfg.Logger.Format,
		Level:     level,
		AddSource: cfg.Logger.Level == "debug",
	})

	log.Info("Starting relprep",
		"log_level", cfg.Logger.Level,
		"data_dir", cfg.Data.Dir,
		"library_root", cfg.Library.Root,
		"watch", cfg.Library.Watch,
	)

	return log, nil
}

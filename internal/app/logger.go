// Package app provides logger initialization.
package app

import (
	"github.com/guttosm/binpack-service/config"
	"github.com/guttosm/binpack-service/internal/logger"
	"github.com/rs/zerolog/log"
)

// InitializeLogger configures the global JSON logger.
func InitializeLogger(cfg config.LogConfig) {
	level := cfg.Level
	if level == "" {
		level = "info"
	}
	logger.Init(level, cfg.Pretty)
	log.Debug().Str("level", level).Bool("pretty", cfg.Pretty).Msg("Logger initialized")
}

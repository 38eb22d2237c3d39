package main

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"library-backend/internal/config"
	"library-backend/pkg/logger"
)

func main() {
	// ========================================
	// LOAD CONFIGURATION
	// ========================================
	// .env is optional; the process environment wins.
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Invalid configuration")
	}

	logger.Init(cfg.App.Environment)

	// ========================================
	// SET GIN MODE
	// ========================================
	switch cfg.App.Environment {
	case config.EnvProduction:
		gin.SetMode(gin.ReleaseMode)
	case config.EnvTest:
		gin.SetMode(gin.TestMode)
	}

	log.Info().Str("env", cfg.App.Environment).Msg("🌍 Environment")

	Serve(cfg)
}

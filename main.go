package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"finance/cmd"
	"finance/internal/config"
	"finance/internal/logger"
)

func main() {
	// A missing .env is normal; the environment may already be set
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: Could not load configuration, using defaults: %v", err)
		cfg = config.Default()
	}

	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	log := logger.WithComponent("main")
	log.Debug().
		Str("currency", cfg.CurrencyCode).
		Str("timezone", cfg.Location().String()).
		Msg("Starting Finance CLI")

	cmd.SetConfig(cfg)
	cmd.Execute()
}

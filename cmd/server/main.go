package main

import (
	"net/http"
	"os"

	"github.com/Knacksterslab/byte-runner-backend/internal/api"
	"github.com/Knacksterslab/byte-runner-backend/internal/config"
	"github.com/Knacksterslab/byte-runner-backend/internal/database"
	"github.com/Knacksterslab/byte-runner-backend/internal/handler"
	"github.com/Knacksterslab/byte-runner-backend/internal/logger"
	"github.com/Knacksterslab/byte-runner-backend/internal/middleware"
	"github.com/Knacksterslab/byte-runner-backend/internal/services"
	"github.com/robfig/cron/v3"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Could not load config: %v", err)
		os.Exit(1)
	}

	// Connect to PostgreSQL
	db, err := database.ConnectPostgres(cfg)
	if err != nil {
		logger.Error("Database connection failed: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	middleware.Init(cfg)

	// Wire services and handlers
	registry := services.NewRegistry(db, cfg)
	handler.Init(registry)

	// Scheduled jobs: contest reconciliation every 5 minutes, hourly
	// challenge settlement on the hour
	c := cron.New()
	if _, err := c.AddFunc("*/5 * * * *", registry.ContestCron.Run); err != nil {
		logger.Error("Could not schedule contest reconciliation: %v", err)
		os.Exit(1)
	}
	if _, err := c.AddFunc("0 * * * *", registry.Hourly.ProcessHourly); err != nil {
		logger.Error("Could not schedule hourly settlement: %v", err)
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()
	logger.Cron("Scheduled jobs started")

	// Initialize routes
	router := api.SetupRouter(cfg)

	// Wrap router with CORS middleware
	corsHandler := middleware.CORSMiddleware(cfg, router)

	// Start server
	logger.Success("Server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, corsHandler); err != nil {
		logger.Error("Server failed: %v", err)
		os.Exit(1)
	}
}

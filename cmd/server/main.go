package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pulsefeed/backend/internal/router"
	"github.com/pulsefeed/backend/internal/realtime"
	"github.com/pulsefeed/backend/pkg/config"
	"github.com/pulsefeed/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer config.CloseDB(db)

	// Connect the realtime relay
	relay, err := realtime.NewNatsRelay(realtime.NatsConfig{
		URL:           cfg.NatsURL,
		MaxReconnects: 10,
		ReconnectWait: 2 * time.Second,
	})
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer relay.Close()

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db, relay)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}

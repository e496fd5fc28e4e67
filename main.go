package main

import (
	"context"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"aynext-storefront/app"
	"aynext-storefront/config"
)

func main() {
	// Load .env file in development (ignores error if file doesn't exist)
	config.LoadEnvFile(".env")

	cfg := config.Load()
	cfg.ConfigureLogging()

	// Initialize application
	handler, err := app.Initialize(context.Background(), cfg)
	if err != nil {
		log.Fatal(err)
	}

	// Listen on 0.0.0.0 to accept connections from all interfaces (required for Docker)
	addr := "0.0.0.0:" + cfg.Port
	log.Printf("Server starting on %s", addr)
	log.Printf("Customizer endpoint: POST http://localhost:%s/customizer/open", cfg.Port)

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"civia/internal"
	"civia/internal/config"
	"civia/internal/container"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewDefaultLogger()
	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}

	server, err := appContainer.UIServer()
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("🚀 Starting CivIA dashboard on port %s (backend %s)", appConfig.Server.Port, appConfig.Backend.BaseURL)
	if err := server.Run(ctx, appContainer.UIAddr()); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
	log.Println("CivIA dashboard stopped")
}

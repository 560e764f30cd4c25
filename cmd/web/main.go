package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/azrova/azrovadash/internal/config"
	"github.com/azrova/azrovadash/internal/db"
	"github.com/azrova/azrovadash/internal/http"
	"github.com/azrova/azrovadash/internal/panel"
	"github.com/azrova/azrovadash/internal/repository"
	"github.com/azrova/azrovadash/internal/resources"
	"github.com/azrova/azrovadash/internal/service"
)

func main() {
	log.Println("Starting AzrovaDash...")

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize database
	pool, err := db.NewPool(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.RunMigrations(migrateCtx, cfg.Database.DSN()); err != nil {
		cancelMigrate()
		log.Fatalf("Failed to run migrations: %v", err)
	}
	cancelMigrate()

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool)

	// Initialize the panel client and resource config store
	panelClient := panel.NewClient(cfg.Panel.BaseURL, cfg.Panel.ApplicationKey, cfg.Panel.ClientKey)
	store := resources.NewStore(cfg.App.ConfigDir)

	// Initialize services
	accountService := service.NewAccountService(userRepo, panelClient)
	serverService := service.NewServerService(panelClient, store)

	// Initialize HTTP server
	handler := http.NewHandler(cfg, accountService, serverService, store)
	server, err := http.NewServer(cfg, handler)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	// Start server in goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		log.Printf("Server starting on %s", addr)
		if err := server.Run(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	log.Println("Server exited")
}

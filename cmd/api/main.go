package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wenwu/saas-platform/storefront-service/internal/client"
	"github.com/wenwu/saas-platform/storefront-service/internal/config"
	"github.com/wenwu/saas-platform/storefront-service/internal/http"
	"github.com/wenwu/saas-platform/storefront-service/internal/service"
	"github.com/wenwu/saas-platform/storefront-service/internal/store"
)

func main() {
	log.Println("Starting Storefront Service...")

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize the persistence backend
	var kv store.Store
	switch cfg.Storage.Backend {
	case config.StoragePostgres:
		pool, err := store.NewPGPool(cfg.Database.DSN())
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer pool.Close()

		pg, err := store.NewPGStore(context.Background(), pool, cfg.Database.Schema)
		if err != nil {
			log.Fatalf("Failed to initialize kv store: %v", err)
		}
		kv = pg
	default:
		fs, err := store.NewFileStore(cfg.Storage.DataDir)
		if err != nil {
			log.Fatalf("Failed to initialize data dir: %v", err)
		}
		kv = fs
	}

	// Initialize the provisioner client
	provisioner := client.NewProvisionerClient(
		cfg.Provisioner.BaseURL,
		time.Duration(cfg.Provisioner.TimeoutSeconds)*time.Second,
	)

	// Initialize services
	accounts := service.NewAccountService(kv, provisioner)
	billing := service.NewBillingService(accounts)

	// Reconcile a restored session with the provisioner before serving
	accounts.ResumeSession(context.Background())

	// Initialize HTTP server
	server := http.NewServer(cfg, accounts, billing, provisioner)

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

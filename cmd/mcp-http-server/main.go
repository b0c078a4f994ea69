package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"cf-dns-manager/external_resource/cloudflare"
	"cf-dns-manager/internal/handler/mcphttp"
	"cf-dns-manager/internal/repository"
	"cf-dns-manager/internal/usecase"
	"cf-dns-manager/pkg/config"
	"cf-dns-manager/pkg/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize storage
	configStorage := storage.NewJSONStorage(cfg.DataDir)

	// Initialize Cloudflare client
	var cfClient cloudflare.Client
	if cfg.CloudflareBaseURL != "" {
		cfClient, err = cloudflare.NewClientWithBaseURL(cfg.CloudflareAPIToken, cfg.CloudflareBaseURL)
	} else {
		cfClient, err = cloudflare.NewClient(cfg.CloudflareAPIToken)
	}
	if err != nil {
		log.Fatalf("Failed to create Cloudflare client: %v", err)
	}

	// Initialize repositories and usecase
	zoneRepo := repository.NewZoneRepository(cfClient)
	dnsRepo := repository.NewDNSRepository(cfClient)
	dnsUsecase := usecase.NewDNSUsecase(zoneRepo, dnsRepo, configStorage)

	// Start the MCP HTTP server
	server := mcphttp.NewServer(dnsUsecase, configStorage, configStorage, loadAPIKeys())
	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start MCP HTTP server: %v", err)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	log.Println("MCP HTTP server is running. Press Ctrl+C to stop.")
	<-sigChan

	log.Println("Shutting down...")
	if err := server.Stop(); err != nil {
		log.Printf("Error stopping MCP HTTP server: %v", err)
	}
}

// loadAPIKeys loads MCP API keys from the environment
func loadAPIKeys() []string {
	keys := []string{}
	if key := os.Getenv("MCP_API_KEY"); key != "" {
		keys = append(keys, key)
	}
	if keysStr := os.Getenv("MCP_API_KEYS"); keysStr != "" {
		for _, key := range strings.Split(keysStr, ",") {
			key = strings.TrimSpace(key)
			if key != "" {
				keys = append(keys, key)
			}
		}
	}
	return keys
}

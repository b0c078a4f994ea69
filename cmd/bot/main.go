package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"cf-dns-manager/external_resource/cloudflare"
	"cf-dns-manager/internal/handler"
	"cf-dns-manager/internal/handler/mcphttp"
	"cf-dns-manager/internal/handler/telegram"
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
	if err := cfg.RequireTelegram(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize storage
	configStorage := storage.NewJSONStorage(cfg.DataDir)

	// Merge environment allowed users into the stored config
	storageConfig, err := configStorage.Load()
	if err != nil {
		log.Fatalf("Failed to load storage config: %v", err)
	}
	if len(cfg.AllowedUsers) > 0 {
		storageConfig.AllowedUsers = cfg.AllowedUsers
		if err := configStorage.Save(storageConfig); err != nil {
			log.Printf("Warning: failed to save config: %v", err)
		}
	}

	// Initialize Cloudflare client
	cfClient, err := newCloudflareClient(cfg)
	if err != nil {
		log.Fatalf("Failed to create Cloudflare client: %v", err)
	}

	// Initialize repositories and usecase
	zoneRepo := repository.NewZoneRepository(cfClient)
	dnsRepo := repository.NewDNSRepository(cfClient)
	dnsUsecase := usecase.NewDNSUsecase(zoneRepo, dnsRepo, configStorage)

	// Test Cloudflare connection
	zones, err := dnsUsecase.ListZones(context.Background())
	if err != nil {
		log.Fatalf("Failed to connect to Cloudflare: %v", err)
	}
	log.Printf("Connected to Cloudflare. Found %d zones.", len(zones))

	// Create MCP HTTP server controller
	mcpServer := mcphttp.NewServer(dnsUsecase, configStorage, configStorage, loadAPIKeys())

	// Initialize Telegram bot handler
	var botHandler handler.BotHandler = telegram.NewBot(dnsUsecase, cfg.TelegramBotToken, storageConfig.AllowedUsers)

	go func() {
		log.Println("Starting Telegram bot...")
		if err := botHandler.Start(); err != nil {
			log.Fatalf("Bot error: %v", err)
		}
	}()

	if enabled, err := configStorage.GetMCPHTTPEnabled(); err == nil && enabled {
		go func() {
			if err := mcpServer.Start(); err != nil {
				log.Printf("[MCP HTTP] Failed to start: %v", err)
			}
		}()
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	log.Println("Bot and MCP HTTP server are running. Press Ctrl+C to stop.")
	<-sigChan

	log.Println("Shutting down...")

	if mcpServer.IsRunning() {
		if err := mcpServer.Stop(); err != nil {
			log.Printf("Error stopping MCP HTTP server: %v", err)
		}
	}

	if err := botHandler.Stop(); err != nil {
		log.Printf("Error stopping bot: %v", err)
	}

	log.Println("Bot stopped.")
}

// newCloudflareClient builds the API client, honoring a base URL override
func newCloudflareClient(cfg *config.Config) (cloudflare.Client, error) {
	if cfg.CloudflareBaseURL != "" {
		return cloudflare.NewClientWithBaseURL(cfg.CloudflareAPIToken, cfg.CloudflareBaseURL)
	}
	return cloudflare.NewClient(cfg.CloudflareAPIToken)
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

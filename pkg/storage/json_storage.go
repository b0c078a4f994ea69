package storage

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// jsonStorage implements CombinedStorage using a JSON file
type jsonStorage struct {
	filePath string
	mu       sync.RWMutex
}

// NewJSONStorage creates a new JSON storage
func NewJSONStorage(dataDir string) CombinedStorage {
	return &jsonStorage{
		filePath: filepath.Join(dataDir, "config.json"),
	}
}

// Load loads configuration from the JSON file
func (s *jsonStorage) Load() (*Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Return default config if file doesn't exist
	if _, err := os.Stat(s.filePath); os.IsNotExist(err) {
		return s.defaultConfig(), nil
	}

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// Save saves configuration to the JSON file
func (s *jsonStorage) Save(cfg *Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(s.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// defaultConfig returns default configuration
func (s *jsonStorage) defaultConfig() *Config {
	return &Config{
		AllowedUsers:   []int64{},
		DefaultTTL:     300,
		DefaultProxied: false,
		MCPAPIKeys:     []string{},
		MCPHTTPPort:    "8875",
		MCPHTTPEnabled: true,
	}
}

// GetAPIKeys returns all stored API keys
func (s *jsonStorage) GetAPIKeys() ([]string, error) {
	cfg, err := s.Load()
	if err != nil {
		return nil, err
	}
	return cfg.MCPAPIKeys, nil
}

// AddAPIKey adds a new API key
func (s *jsonStorage) AddAPIKey(key string) error {
	cfg, err := s.Load()
	if err != nil {
		return err
	}

	for _, k := range cfg.MCPAPIKeys {
		if subtle.ConstantTimeCompare([]byte(k), []byte(key)) == 1 {
			return fmt.Errorf("API key already exists")
		}
	}

	cfg.MCPAPIKeys = append(cfg.MCPAPIKeys, key)
	return s.Save(cfg)
}

// RemoveAPIKey removes an API key
func (s *jsonStorage) RemoveAPIKey(key string) error {
	cfg, err := s.Load()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(cfg.MCPAPIKeys))
	for _, k := range cfg.MCPAPIKeys {
		if subtle.ConstantTimeCompare([]byte(k), []byte(key)) != 1 {
			keys = append(keys, k)
		}
	}

	cfg.MCPAPIKeys = keys
	return s.Save(cfg)
}

// IsValidAPIKey checks whether the given key is stored
func (s *jsonStorage) IsValidAPIKey(key string) bool {
	keys, err := s.GetAPIKeys()
	if err != nil {
		return false
	}

	for _, k := range keys {
		if subtle.ConstantTimeCompare([]byte(k), []byte(key)) == 1 {
			return true
		}
	}
	return false
}

// GetMCPHTTPPort returns the configured MCP HTTP port
func (s *jsonStorage) GetMCPHTTPPort() (string, error) {
	cfg, err := s.Load()
	if err != nil {
		return "", err
	}
	return cfg.MCPHTTPPort, nil
}

// SetMCPHTTPPort sets the MCP HTTP port
func (s *jsonStorage) SetMCPHTTPPort(port string) error {
	cfg, err := s.Load()
	if err != nil {
		return err
	}

	cfg.MCPHTTPPort = port
	return s.Save(cfg)
}

// GetMCPHTTPEnabled returns whether the MCP HTTP server is enabled
func (s *jsonStorage) GetMCPHTTPEnabled() (bool, error) {
	cfg, err := s.Load()
	if err != nil {
		return false, err
	}
	return cfg.MCPHTTPEnabled, nil
}

// SetMCPHTTPEnabled sets whether the MCP HTTP server is enabled
func (s *jsonStorage) SetMCPHTTPEnabled(enabled bool) error {
	cfg, err := s.Load()
	if err != nil {
		return err
	}

	cfg.MCPHTTPEnabled = enabled
	return s.Save(cfg)
}

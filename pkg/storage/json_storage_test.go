package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	s := NewJSONStorage(t.TempDir())

	cfg, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.DefaultTTL)
	assert.False(t, cfg.DefaultProxied)
	assert.Equal(t, "8875", cfg.MCPHTTPPort)
	assert.True(t, cfg.MCPHTTPEnabled)
	assert.Empty(t, cfg.AllowedUsers)
	assert.Empty(t, cfg.MCPAPIKeys)
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	s := NewJSONStorage(dir)

	cfg := &Config{
		AllowedUsers:   []int64{12345},
		DefaultTTL:     600,
		DefaultProxied: true,
		MCPAPIKeys:     []string{"key-1"},
		MCPHTTPPort:    "9000",
		MCPHTTPEnabled: false,
	}
	require.NoError(t, s.Save(cfg))

	// The file lands where a fresh storage over the same dir can read it.
	_, err := os.Stat(filepath.Join(dir, "config.json"))
	require.NoError(t, err)

	loaded, err := NewJSONStorage(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0644))

	_, err := NewJSONStorage(dir).Load()
	assert.Error(t, err)
}

func TestAPIKeys(t *testing.T) {
	s := NewJSONStorage(t.TempDir())

	assert.False(t, s.IsValidAPIKey("key-1"))

	require.NoError(t, s.AddAPIKey("key-1"))
	require.NoError(t, s.AddAPIKey("key-2"))
	assert.True(t, s.IsValidAPIKey("key-1"))
	assert.True(t, s.IsValidAPIKey("key-2"))

	keys, err := s.GetAPIKeys()
	require.NoError(t, err)
	assert.Equal(t, []string{"key-1", "key-2"}, keys)

	// Duplicates are rejected.
	assert.Error(t, s.AddAPIKey("key-1"))

	require.NoError(t, s.RemoveAPIKey("key-1"))
	assert.False(t, s.IsValidAPIKey("key-1"))
	assert.True(t, s.IsValidAPIKey("key-2"))
}

func TestMCPHTTPSettings(t *testing.T) {
	s := NewJSONStorage(t.TempDir())

	port, err := s.GetMCPHTTPPort()
	require.NoError(t, err)
	assert.Equal(t, "8875", port)

	require.NoError(t, s.SetMCPHTTPPort("9999"))
	port, err = s.GetMCPHTTPPort()
	require.NoError(t, err)
	assert.Equal(t, "9999", port)

	enabled, err := s.GetMCPHTTPEnabled()
	require.NoError(t, err)
	assert.True(t, enabled)

	require.NoError(t, s.SetMCPHTTPEnabled(false))
	enabled, err = s.GetMCPHTTPEnabled()
	require.NoError(t, err)
	assert.False(t, enabled)
}

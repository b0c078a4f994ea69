package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("CLOUDFLARE_API_TOKEN", "cf-token")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tg-token")
	t.Setenv("TELEGRAM_ALLOWED_USERS", "123, 456")
	t.Setenv("DATA_DIR", "/tmp/data")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "cf-token", cfg.CloudflareAPIToken)
	assert.Equal(t, "tg-token", cfg.TelegramBotToken)
	assert.Equal(t, []int64{123, 456}, cfg.AllowedUsers)
	assert.Equal(t, "/tmp/data", cfg.DataDir)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CLOUDFLARE_API_TOKEN", "cf-token")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_ALLOWED_USERS", "")
	t.Setenv("DATA_DIR", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Empty(t, cfg.AllowedUsers)
}

func TestLoad_MissingCloudflareToken(t *testing.T) {
	t.Setenv("CLOUDFLARE_API_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CLOUDFLARE_API_TOKEN")
}

func TestLoad_BadUserID(t *testing.T) {
	t.Setenv("CLOUDFLARE_API_TOKEN", "cf-token")
	t.Setenv("TELEGRAM_ALLOWED_USERS", "123,nope")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_ALLOWED_USERS")
}

func TestRequireTelegram(t *testing.T) {
	cfg := &Config{CloudflareAPIToken: "cf-token"}
	assert.Error(t, cfg.RequireTelegram())

	cfg.TelegramBotToken = "tg-token"
	assert.NoError(t, cfg.RequireTelegram())
}

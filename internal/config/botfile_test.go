package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minefind/minefind/internal/models"
)

func writeBotFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadBotFile_MissingFile(t *testing.T) {
	_, err := LoadBotFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config.example.json")
}

func TestLoadBotFile_MissingToken(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"absent", `{"servers": []}`},
		{"empty", `{"discord_token": "", "servers": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBotFile(writeBotFile(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "discord_token")
		})
	}
}

func TestLoadBotFile_ServerFiltering(t *testing.T) {
	path := writeBotFile(t, `{
		"discord_token": "token",
		"servers": [
			{"name": "A", "address": "a.example"},
			{"name": "", "address": "b.example"},
			{"name": "C"},
			{"address": "d.example"},
			"not an object",
			{"name": "E", "address": "e.example"}
		]
	}`)

	cfg, err := LoadBotFile(path)
	require.NoError(t, err)

	assert.Equal(t, []models.ServerTarget{
		{Name: "A", Address: "a.example"},
		{Name: "E", Address: "e.example"},
	}, cfg.Servers)
}

func TestLoadBotFile_Defaults(t *testing.T) {
	cfg, err := LoadBotFile(writeBotFile(t, `{"discord_token": "token"}`))
	require.NoError(t, err)

	assert.Equal(t, DefaultRequestTimeoutSeconds, cfg.RequestTimeoutSeconds)
	assert.Equal(t, DefaultMaxConcurrency, cfg.MaxConcurrency)
	assert.Empty(t, cfg.Servers)
}

func TestLoadBotFile_MaxConcurrencyCoercion(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"valid", `{"discord_token": "t", "max_concurrency": 3}`, 3},
		{"absent keeps default", `{"discord_token": "t"}`, DefaultMaxConcurrency},
		{"zero", `{"discord_token": "t", "max_concurrency": 0}`, 1},
		{"negative", `{"discord_token": "t", "max_concurrency": -5}`, 1},
		{"float", `{"discord_token": "t", "max_concurrency": 4.5}`, 1},
		{"string", `{"discord_token": "t", "max_concurrency": "many"}`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadBotFile(writeBotFile(t, tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.MaxConcurrency)
		})
	}
}

func TestLoadBotFile_RequestTimeout(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"valid", `{"discord_token": "t", "request_timeout_seconds": 5}`, 5},
		{"zero falls back", `{"discord_token": "t", "request_timeout_seconds": 0}`, DefaultRequestTimeoutSeconds},
		{"non-integer falls back", `{"discord_token": "t", "request_timeout_seconds": "fast"}`, DefaultRequestTimeoutSeconds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadBotFile(writeBotFile(t, tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.RequestTimeoutSeconds)
		})
	}
}

func TestLoadBotFile_InvalidJSON(t *testing.T) {
	_, err := LoadBotFile(writeBotFile(t, `{not json`))
	assert.Error(t, err)
}

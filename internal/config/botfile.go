package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/minefind/minefind/internal/models"
)

// Defaults applied when the bot file omits or mangles the optional fields.
const (
	DefaultRequestTimeoutSeconds = 10
	DefaultMaxConcurrency        = 8
)

// BotFile is the bot configuration loaded once at startup from the JSON file
// selected by --config / MINEFIND_CONFIG.
type BotFile struct {
	// betteralign:ignore

	Token                 string                `json:"discord_token"`
	Servers               []models.ServerTarget `json:"servers"`
	RequestTimeoutSeconds int                   `json:"request_timeout_seconds"`
	MaxConcurrency        int                   `json:"max_concurrency"`
}

// RequestTimeout returns the per-probe timeout as a duration.
func (b *BotFile) RequestTimeout() time.Duration {
	return time.Duration(b.RequestTimeoutSeconds) * time.Second
}

// rawBotFile keeps the optional numeric fields as raw JSON so that a
// non-integer value degrades to the default instead of failing the load.
type rawBotFile struct {
	Token          string            `json:"discord_token"`
	Servers        []json.RawMessage `json:"servers"`
	RequestTimeout json.RawMessage   `json:"request_timeout_seconds"`
	MaxConcurrency json.RawMessage   `json:"max_concurrency"`
}

// LoadBotFile reads and validates the bot JSON configuration.
// A missing file and a missing token are both fatal configuration errors.
func LoadBotFile(path string) (*BotFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf(
				"configuration file not found: %s (copy config.example.json to %s and fill in your values)",
				path, path)
		}
		return nil, fmt.Errorf("read configuration file %s: %w", path, err)
	}

	var raw rawBotFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse configuration file %s: %w", path, err)
	}

	if raw.Token == "" {
		return nil, fmt.Errorf("field 'discord_token' is missing or empty in %s", path)
	}

	cfg := &BotFile{
		Token:                 raw.Token,
		Servers:               parseServers(raw.Servers),
		RequestTimeoutSeconds: intOrDefault(raw.RequestTimeout, DefaultRequestTimeoutSeconds),
		MaxConcurrency:        DefaultMaxConcurrency,
	}

	if cfg.RequestTimeoutSeconds < 1 {
		cfg.RequestTimeoutSeconds = DefaultRequestTimeoutSeconds
	}

	// A supplied but non-integer or sub-1 value degrades to 1, an absent
	// field keeps the default.
	if len(raw.MaxConcurrency) > 0 {
		cfg.MaxConcurrency = intOrDefault(raw.MaxConcurrency, 1)
		if cfg.MaxConcurrency < 1 {
			cfg.MaxConcurrency = 1
		}
	}

	return cfg, nil
}

// parseServers decodes the server list, silently dropping entries that are not
// objects or that miss either the name or the address.
func parseServers(raw []json.RawMessage) []models.ServerTarget {
	servers := make([]models.ServerTarget, 0, len(raw))
	for _, entry := range raw {
		var target models.ServerTarget
		if err := json.Unmarshal(entry, &target); err != nil {
			continue
		}
		if target.Name == "" || target.Address == "" {
			continue
		}
		servers = append(servers, target)
	}

	return servers
}

// intOrDefault decodes an optional integer field, falling back to def when the
// field is absent or not an integer.
func intOrDefault(raw json.RawMessage, def int) int {
	if len(raw) == 0 {
		return def
	}

	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return def
	}

	return n
}

// Package config handles the parsing and validation of application configuration
// from command-line arguments, environment variables, and the bot JSON file.
package config

import (
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/minefind/minefind/internal/logger"
	"github.com/minefind/minefind/internal/vars"
)

// Config represents the complete application flags configuration.
type Config struct {
	// betteralign:ignore

	Bot       Bot           `group:"Bot Options" env-namespace:"MINEFIND"`
	Storage   Storage       `group:"Storage Options" namespace:"db" env-namespace:"MINEFIND_DB"`
	GeoIP     GeoIP         `group:"GeoIP Options" namespace:"geoip" env-namespace:"MINEFIND_GEOIP"`
	RateLimit RateLimit     `group:"Rate Limit Options" namespace:"rate-limit" env-namespace:"MINEFIND_RATE_LIMIT"`
	Logger    logger.Config `group:"Logger Options" namespace:"log" env-namespace:"MINEFIND_LOG"`

	Version bool `short:"v" long:"version" description:"Print version and build info"`
}

// Bot holds Discord bot configuration.
type Bot struct {
	// betteralign:ignore

	ConfigPath    string   `short:"c" long:"config" env:"CONFIG" description:"Path to bot JSON configuration file" default:"config.json"`
	AllowedGuilds []string `short:"g" long:"allowed-guild" env:"ALLOWED_GUILDS" description:"List of guild IDs allowed to use commands (empty allows all)" env-delim:","`
}

// Storage holds database configuration and maintenance flags.
type Storage struct {
	// betteralign:ignore

	Path     string        `short:"d" long:"path" env:"PATH" description:"Path to SQLite lookup audit database" default:"minefind.db"`
	PruneAge time.Duration `long:"prune-age" description:"Delete audit records older than this duration and exit" optional:"true" optional-value:"720h"`
	Stats    bool          `long:"stats" description:"Print lookup audit totals and exit"`
}

// GeoIP holds MaxMind GeoIP configuration.
type GeoIP struct {
	// betteralign:ignore

	Path     string        `long:"path" env:"PATH" description:"Path to MMDB file" default:"minefind.mmdb"`
	URL      string        `long:"url" env:"URL" description:"URL to download MMDB" default:"https://git.io/GeoLite2-Country.mmdb"`
	Interval time.Duration `long:"interval" env:"INTERVAL" description:"Update interval check" default:"24h"`
}

// RateLimit holds per-user command rate limiting configuration.
type RateLimit struct {
	// betteralign:ignore

	FindCount  int           `long:"find-count" env:"FIND_COUNT" description:"Per-user limit: /find invocations per window" default:"4"`
	FindWindow time.Duration `long:"find-window" env:"FIND_WINDOW" description:"Per-user limit: window duration" default:"1m"`
}

// Parse reads the configuration from flags and environment variables.
// It terminates the application if the flags are invalid or if the help flag is invoked.
func Parse() *Config {
	var cfg Config
	parser := flags.NewParser(&cfg, flags.Default)
	parser.NamespaceDelimiter = "-"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}

	if cfg.Version {
		vars.Print()
		os.Exit(0)
	}

	return &cfg
}

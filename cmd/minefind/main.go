// main is the entry point of the Minefind bot.
// It initializes the configuration, logger, audit database, GeoIP provider,
// and the Discord session, then waits for a termination signal.
package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/minefind/minefind/internal/bot"
	"github.com/minefind/minefind/internal/config"
	"github.com/minefind/minefind/internal/finder"
	"github.com/minefind/minefind/internal/geoip"
	"github.com/minefind/minefind/internal/logger"
	"github.com/minefind/minefind/internal/maintenance"
	"github.com/minefind/minefind/internal/mcsrv"
	"github.com/minefind/minefind/internal/mojang"
	"github.com/minefind/minefind/internal/storage"
)

func main() {
	cfg := config.Parse()

	logger.Setup(cfg.Logger)
	log.Info().Msg("Starting minefind bot...")

	// Bot configuration file
	botFile, err := config.LoadBotFile(cfg.Bot.ConfigPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load bot configuration")
	}
	if len(botFile.Servers) == 0 {
		log.Warn().Msg("No servers configured, /find will answer with an empty result")
	}

	// Database
	store, err := storage.New(cfg.Storage.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database")
		}
	}()

	// Database maintenance
	if maintenance.Run(cfg, store) {
		return
	}

	// GeoIP Update
	log.Info().Msg("Checking GeoIP database...")
	if err := geoip.EnsureDB(cfg.GeoIP.Path, cfg.GeoIP.URL, cfg.GeoIP.Interval); err != nil {
		log.Error().Err(err).Msg("Failed to download GeoIP database")
	}

	geoProvider, err := geoip.Open(cfg.GeoIP.Path)
	if err != nil {
		log.Error().Err(err).Msg("Failed to open GeoIP database, country annotation disabled")
		geoProvider = nil
	} else {
		defer func() {
			if err := geoProvider.Close(); err != nil {
				log.Error().Err(err).Msg("Error closing GeoIP provider")
			}
		}()
	}

	// Lookup core: one shared HTTP client for the directory and all probes
	httpClient := &http.Client{Timeout: botFile.RequestTimeout()}
	resolver := mojang.NewClient(httpClient)
	find := finder.New(mcsrv.NewClient(httpClient), botFile.Servers, botFile.RequestTimeout(), botFile.MaxConcurrency)

	// Discord session
	discordBot, err := bot.New(botFile, cfg, resolver, find, store, geoProvider)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}
	if err := discordBot.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start bot")
	}

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down bot...")

	if err := discordBot.Stop(); err != nil {
		log.Error().Err(err).Msg("Error closing Discord session")
	}

	log.Info().Msg("Bot exited")
}

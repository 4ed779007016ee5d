// Package maintenance provides flag-driven one-shot tasks over the lookup
// audit database.
package maintenance

import (
	"github.com/rs/zerolog/log"

	"github.com/minefind/minefind/internal/config"
	"github.com/minefind/minefind/internal/storage"
)

// recentListLimit caps the audit records printed by the stats task.
const recentListLimit = 20

// Run checks if any maintenance flags are set and executes the corresponding task.
// Returns true if a maintenance task was executed (indicating the program should exit).
func Run(cfg *config.Config, store *storage.Repository) bool {
	if cfg.Storage.PruneAge > 0 {
		log.Info().Dur("age", cfg.Storage.PruneAge).Msg("Pruning old audit records...")

		count, err := store.PruneOlderThan(cfg.Storage.PruneAge)
		if err != nil {
			log.Error().Err(err).Msg("Failed to prune audit records")
		} else {
			log.Info().Int64("deleted", count).Msg("Prune finished")
		}

		return true
	}

	if cfg.Storage.Stats {
		total, matched, err := store.Stats()
		if err != nil {
			log.Error().Err(err).Msg("Failed to read audit stats")
			return true
		}

		log.Info().
			Int64("lookups", total).
			Int64("matched", matched).
			Msg("Lookup audit totals")

		records, err := store.RecentLookups(recentListLimit)
		if err != nil {
			log.Error().Err(err).Msg("Failed to read recent lookups")
			return true
		}

		for _, rec := range records {
			log.Info().
				Time("at", rec.CreatedAt).
				Str("requester", rec.Requester).
				Str("query", rec.Query).
				Str("outcome", rec.Outcome).
				Int("matches", rec.Matches).
				Int64("duration_ms", rec.Duration).
				Msg("Lookup")
		}

		return true
	}

	return false
}

// Package models defines the data structures shared between configuration,
// the lookup core, and the audit storage.
package models

import "time"

// ServerTarget is one configured Minecraft server to probe.
// Targets are created at configuration load and immutable afterwards.
type ServerTarget struct {
	// Name is the display label shown to users.
	Name string `json:"name"`

	// Address is the host (and optional port) passed to the status API.
	Address string `json:"address"`
}

// LookupRecord is one audited /find invocation stored in the database.
type LookupRecord struct {
	CreatedAt time.Time `json:"created_at"`
	Requester string    `json:"requester"`
	GuildID   string    `json:"guild_id"`
	Query     string    `json:"query"`
	Outcome   string    `json:"outcome"`
	Matches   int       `json:"matches"`
	Duration  int64     `json:"duration_ms"`
}

// Lookup outcomes recorded in the audit log.
const (
	OutcomeMatched      = "matched"
	OutcomeNoMatch      = "no_match"
	OutcomeNotFound     = "not_found"
	OutcomeDirectoryErr = "directory_error"
)

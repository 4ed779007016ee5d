package bot

import (
	"github.com/bwmarrin/discordgo"

	"github.com/minefind/minefind/internal/finder"
	"github.com/minefind/minefind/internal/geoip"
	"github.com/minefind/minefind/internal/mojang"
	"github.com/minefind/minefind/internal/storage"
)

// Bot holds the dependencies and runtime state required to serve the
// /find and /servers slash commands.
type Bot struct {
	// session is the Discord gateway connection.
	session *discordgo.Session

	// resolver turns raw user input into a PlayerIdentity.
	resolver *mojang.Client

	// finder fans out status probes over the configured servers.
	finder *finder.Finder

	// storage is the lookup audit log. It can be nil when auditing is
	// disabled; the lookup path never reads from it.
	storage *storage.Repository

	// geoip annotates server addresses with country codes.
	// It can be nil if the GeoIP database is not initialized.
	geoip *geoip.Provider

	// allowedGuilds is a set of hashed guild IDs (using xxhash) permitted to
	// use the commands. An empty set allows every guild.
	allowedGuilds map[uint64]struct{}

	// limiter applies the per-user hard rate limit on /find.
	limiter *userLimiter

	// shutdown stops the limiter GC goroutine.
	shutdown chan struct{}
}

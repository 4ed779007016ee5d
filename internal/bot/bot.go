// Package bot implements the Discord presentation layer on top of the lookup
// core. It registers the slash commands and renders their structured results;
// all lookup logic lives in the resolver and finder packages.
package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog/log"

	"github.com/minefind/minefind/internal/config"
	"github.com/minefind/minefind/internal/finder"
	"github.com/minefind/minefind/internal/geoip"
	"github.com/minefind/minefind/internal/mojang"
	"github.com/minefind/minefind/internal/storage"
)

// commands registered with Discord on startup.
var commands = []*discordgo.ApplicationCommand{
	{
		Name:        "find",
		Description: "Find which configured servers a player is currently online on",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "player",
				Description: "Minecraft name or UUID to locate on the configured servers",
				Required:    true,
			},
		},
	},
	{
		Name:        "servers",
		Description: "List the configured servers",
	},
}

// New creates a Bot wired to the given lookup core and optional providers.
func New(botFile *config.BotFile, cfg *config.Config, resolver *mojang.Client,
	find *finder.Finder, store *storage.Repository, geo *geoip.Provider) (*Bot, error) {

	session, err := discordgo.New("Bot " + botFile.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds

	guildMap := make(map[uint64]struct{})
	for _, guild := range cfg.Bot.AllowedGuilds {
		guildMap[xxhash.Sum64String(guild)] = struct{}{}
	}

	return &Bot{
		session:       session,
		resolver:      resolver,
		finder:        find,
		storage:       store,
		geoip:         geo,
		allowedGuilds: guildMap,
		limiter:       newUserLimiter(cfg.RateLimit.FindCount, cfg.RateLimit.FindWindow),
		shutdown:      make(chan struct{}),
	}, nil
}

// Start opens the gateway connection and registers the slash commands.
func (b *Bot) Start() error {
	b.session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		log.Info().
			Str("user", r.User.Username).
			Str("id", r.User.ID).
			Msg("Bot connected")
	})
	b.session.AddHandler(b.handleInteraction)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}

	for _, cmd := range commands {
		if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", cmd); err != nil {
			_ = b.session.Close()
			return fmt.Errorf("register command %s: %w", cmd.Name, err)
		}
	}

	go b.limiter.gc(b.shutdown)

	return nil
}

// Stop closes the gateway connection and stops background routines.
func (b *Bot) Stop() error {
	close(b.shutdown)
	return b.session.Close()
}

// handleInteraction dispatches slash command invocations.
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	if !b.guildAllowed(i.GuildID) {
		log.Debug().Str("guild", i.GuildID).Msg("Command from guild outside whitelist")
		b.respondEphemeral(s, i, "This bot is not available in this server.")
		return
	}

	switch i.ApplicationCommandData().Name {
	case "find":
		b.handleFind(s, i)
	case "servers":
		b.handleServers(s, i)
	}
}

// guildAllowed checks the interaction's guild against the whitelist.
// An empty whitelist allows everything, including direct messages.
func (b *Bot) guildAllowed(guildID string) bool {
	if len(b.allowedGuilds) == 0 {
		return true
	}

	_, allowed := b.allowedGuilds[xxhash.Sum64String(guildID)]
	return allowed
}

// interactionUser returns the invoking user for guild and DM interactions.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}

	return i.User
}

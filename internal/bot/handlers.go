package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/minefind/minefind/internal/models"
	"github.com/minefind/minefind/internal/mojang"
)

// Embed colors.
const (
	colorFound   = 0x2ECC71
	colorServers = 0x3498DB
)

// handleFind runs the full lookup for one /find invocation and renders the
// outcome. Every per-invocation failure ends in a user-visible message; none
// may escape to the gateway event loop.
func (b *Bot) handleFind(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	query := i.ApplicationCommandData().Options[0].StringValue()

	if !b.limiter.Allow(user.ID) {
		b.respondEphemeral(s, i, "You are sending commands too fast. Try again in a moment.")
		return
	}

	if len(b.finder.Targets()) == 0 {
		b.respondEphemeral(s, i, "No servers configured yet. Update the bot configuration file.")
		return
	}

	// The fan-out can take up to the per-request timeout, acknowledge first
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		log.Error().Err(err).Msg("Failed to defer interaction")
		return
	}

	start := time.Now()
	ctx := context.Background()

	identity, err := b.resolver.Resolve(ctx, query)
	if err != nil {
		switch {
		case errors.Is(err, mojang.ErrPlayerNotFound):
			b.recordLookup(user.ID, i.GuildID, query, models.OutcomeNotFound, 0, start)
			b.followupEphemeral(s, i, fmt.Sprintf("Player `%s` was not found in the Mojang directory.", query))
		default:
			log.Warn().Err(err).Str("query", query).Msg("Directory lookup failed")
			b.recordLookup(user.ID, i.GuildID, query, models.OutcomeDirectoryErr, 0, start)
			b.followupEphemeral(s, i, "The player directory is currently unreachable. Try again later.")
		}

		return
	}

	matches := b.finder.Find(ctx, identity)
	if len(matches) == 0 {
		b.recordLookup(user.ID, i.GuildID, query, models.OutcomeNoMatch, 0, start)
		b.followupEphemeral(s, i, "No configured server reports that player online.")
		return
	}

	b.recordLookup(user.ID, i.GuildID, query, models.OutcomeMatched, len(matches), start)

	embed := buildMatchEmbed(matches, b.countryAnnotations(ctx, matches))
	if _, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
	}); err != nil {
		log.Error().Err(err).Msg("Failed to send follow-up message")
	}
}

// handleServers lists the configured servers in an ephemeral embed.
func (b *Bot) handleServers(s *discordgo.Session, i *discordgo.InteractionCreate) {
	targets := b.finder.Targets()
	if len(targets) == 0 {
		b.respondEphemeral(s, i, "No servers configured yet. Update the bot configuration file.")
		return
	}

	embed := buildServersEmbed(targets, b.countryAnnotations(context.Background(), targets))
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	}); err != nil {
		log.Error().Err(err).Msg("Failed to respond to interaction")
	}
}

// buildMatchEmbed renders the servers a player was found on.
// countries is keyed by server address and may be sparse.
func buildMatchEmbed(matches []models.ServerTarget, countries map[string]string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "Player found",
		Description: "The player is online on the servers below:",
		Color:       colorFound,
	}
	for _, server := range matches {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  server.Name,
			Value: fieldValue(server.Address, countries[server.Address]),
		})
	}

	return embed
}

// buildServersEmbed renders the full configured server list.
func buildServersEmbed(targets []models.ServerTarget, countries map[string]string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Configured servers",
		Color: colorServers,
	}
	for _, server := range targets {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  server.Name,
			Value: fieldValue(server.Address, countries[server.Address]),
		})
	}

	return embed
}

// fieldValue renders one server line, with the country code when known.
func fieldValue(address, country string) string {
	if country == "" {
		return fmt.Sprintf("Address: `%s`", address)
	}

	return fmt.Sprintf("Address: `%s` (%s)", address, country)
}

// countryAnnotations resolves country codes for the given targets.
// Returns an empty map when GeoIP is disabled.
func (b *Bot) countryAnnotations(ctx context.Context, targets []models.ServerTarget) map[string]string {
	countries := make(map[string]string, len(targets))
	if b.geoip == nil {
		return countries
	}

	for _, target := range targets {
		if code := b.geoip.CountryForAddress(ctx, target.Address); code != "" {
			countries[target.Address] = code
		}
	}

	return countries
}

// recordLookup appends the invocation to the audit log, if enabled.
func (b *Bot) recordLookup(requester, guildID, query, outcome string, matches int, start time.Time) {
	if b.storage == nil {
		return
	}

	rec := models.LookupRecord{
		CreatedAt: time.Now().UTC(),
		Requester: requester,
		GuildID:   guildID,
		Query:     query,
		Outcome:   outcome,
		Matches:   matches,
		Duration:  time.Since(start).Milliseconds(),
	}
	if err := b.storage.RecordLookup(rec); err != nil {
		log.Error().Err(err).Msg("Failed to record lookup in audit log")
	}
}

// respondEphemeral sends the initial interaction response as an ephemeral message.
func (b *Bot) respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, msg string) {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: msg,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}); err != nil {
		log.Error().Err(err).Msg("Failed to respond to interaction")
	}
}

// followupEphemeral sends an ephemeral follow-up after a deferred response.
func (b *Bot) followupEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, msg string) {
	if _, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: msg,
		Flags:   discordgo.MessageFlagsEphemeral,
	}); err != nil {
		log.Error().Err(err).Msg("Failed to send follow-up message")
	}
}

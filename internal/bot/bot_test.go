package bot

import (
	"testing"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minefind/minefind/internal/models"
)

func TestGuildAllowed(t *testing.T) {
	open := &Bot{allowedGuilds: map[uint64]struct{}{}}
	assert.True(t, open.guildAllowed("any-guild"))
	assert.True(t, open.guildAllowed(""))

	restricted := &Bot{allowedGuilds: map[uint64]struct{}{
		xxhash.Sum64String("guild-1"): {},
	}}
	assert.True(t, restricted.guildAllowed("guild-1"))
	assert.False(t, restricted.guildAllowed("guild-2"))
	assert.False(t, restricted.guildAllowed(""))
}

func TestUserLimiter(t *testing.T) {
	limiter := newUserLimiter(2, time.Minute)

	assert.True(t, limiter.Allow("user-1"))
	assert.True(t, limiter.Allow("user-1"))
	assert.False(t, limiter.Allow("user-1"), "burst exhausted within the window")

	// Other users have their own budget
	assert.True(t, limiter.Allow("user-2"))
}

func TestUserLimiter_InvalidConfig(t *testing.T) {
	limiter := newUserLimiter(0, 0)
	assert.True(t, limiter.Allow("user-1"), "coerced config must still allow the first call")
}

func TestBuildMatchEmbed(t *testing.T) {
	matches := []models.ServerTarget{
		{Name: "Survival", Address: "survival.example"},
		{Name: "Creative", Address: "creative.example"},
	}
	countries := map[string]string{"survival.example": "DE"}

	embed := buildMatchEmbed(matches, countries)

	assert.Equal(t, "Player found", embed.Title)
	assert.Equal(t, colorFound, embed.Color)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "Survival", embed.Fields[0].Name)
	assert.Equal(t, "Address: `survival.example` (DE)", embed.Fields[0].Value)
	assert.Equal(t, "Address: `creative.example`", embed.Fields[1].Value)
}

func TestBuildServersEmbed(t *testing.T) {
	targets := []models.ServerTarget{{Name: "A", Address: "a.example"}}

	embed := buildServersEmbed(targets, map[string]string{})

	assert.Equal(t, "Configured servers", embed.Title)
	assert.Equal(t, colorServers, embed.Color)
	require.Len(t, embed.Fields, 1)
	assert.Equal(t, "Address: `a.example`", embed.Fields[0].Value)
}

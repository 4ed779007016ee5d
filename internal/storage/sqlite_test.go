package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minefind/minefind/internal/models"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func record(at time.Time, outcome string) models.LookupRecord {
	return models.LookupRecord{
		CreatedAt: at,
		Requester: "user-1",
		GuildID:   "guild-1",
		Query:     "Steve",
		Outcome:   outcome,
		Matches:   1,
		Duration:  120,
	}
}

func TestRecordAndRecentLookups(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Now().UTC()

	require.NoError(t, repo.RecordLookup(record(now.Add(-2*time.Hour), models.OutcomeNoMatch)))
	require.NoError(t, repo.RecordLookup(record(now, models.OutcomeMatched)))

	records, err := repo.RecentLookups(10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first
	assert.Equal(t, models.OutcomeMatched, records[0].Outcome)
	assert.Equal(t, models.OutcomeNoMatch, records[1].Outcome)
	assert.Equal(t, "user-1", records[0].Requester)
	assert.Equal(t, "Steve", records[0].Query)
}

func TestRecentLookups_Limit(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Now().UTC()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.RecordLookup(record(now.Add(time.Duration(i)*time.Minute), models.OutcomeNoMatch)))
	}

	records, err := repo.RecentLookups(3)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestStats(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Now().UTC()

	require.NoError(t, repo.RecordLookup(record(now, models.OutcomeMatched)))
	require.NoError(t, repo.RecordLookup(record(now, models.OutcomeMatched)))
	require.NoError(t, repo.RecordLookup(record(now, models.OutcomeNoMatch)))
	require.NoError(t, repo.RecordLookup(record(now, models.OutcomeNotFound)))

	total, matched, err := repo.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Equal(t, int64(2), matched)
}

func TestStats_EmptyDatabase(t *testing.T) {
	repo := newTestRepo(t)

	total, matched, err := repo.Stats()
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Zero(t, matched)
}

func TestPruneOlderThan(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Now().UTC()

	require.NoError(t, repo.RecordLookup(record(now.Add(-48*time.Hour), models.OutcomeMatched)))
	require.NoError(t, repo.RecordLookup(record(now.Add(-36*time.Hour), models.OutcomeNoMatch)))
	require.NoError(t, repo.RecordLookup(record(now, models.OutcomeMatched)))

	deleted, err := repo.PruneOlderThan(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	records, err := repo.RecentLookups(10)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

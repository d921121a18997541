package services

import (
	"testing"
	"time"

	model "github.com/Knacksterslab/byte-runner-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankEntries_BestPerUser(t *testing.T) {
	now := time.Now()
	entries := []model.LeaderboardEntry{
		{UserID: "a", Username: "alice", Score: 80, Distance: 40, CreatedAt: now},
		{UserID: "a", Username: "alice", Score: 100, Distance: 50, CreatedAt: now},
		{UserID: "b", Username: "bob", Score: 90, Distance: 60, CreatedAt: now},
	}

	ranked := RankEntries(entries)
	require.Len(t, ranked, 2)

	assert.Equal(t, "a", ranked[0].UserID)
	assert.Equal(t, 100, ranked[0].Score)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, "b", ranked[1].UserID)
	assert.Equal(t, 2, ranked[1].Rank)
}

func TestRankEntries_DistanceBreaksTie(t *testing.T) {
	entries := []model.LeaderboardEntry{
		{UserID: "a", Username: "alice", Score: 100, Distance: 50},
		{UserID: "b", Username: "bob", Score: 100, Distance: 60},
	}

	ranked := RankEntries(entries)
	require.Len(t, ranked, 2)

	assert.Equal(t, "b", ranked[0].UserID)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, "a", ranked[1].UserID)
	assert.Equal(t, 2, ranked[1].Rank)
}

func TestRankEntries_TieOnUserBestPrefersDistance(t *testing.T) {
	// à score égal pour un même joueur, l'entrée à la plus grande
	// distance est retenue
	entries := []model.LeaderboardEntry{
		{UserID: "a", Score: 100, Distance: 40},
		{UserID: "a", Score: 100, Distance: 70},
	}

	ranked := RankEntries(entries)
	require.Len(t, ranked, 1)
	assert.Equal(t, 70, ranked[0].Distance)
}

func TestRankEntries_Empty(t *testing.T) {
	assert.Empty(t, RankEntries(nil))
}

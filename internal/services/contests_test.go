package services

import (
	"context"
	"testing"
	"time"

	model "github.com/Knacksterslab/byte-runner-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	assert.Equal(t, "spring-sprint-2026", generateSlug("Spring Sprint 2026"))
	assert.Equal(t, "djvu", generateSlug("Déjàvu"))
	assert.Equal(t, "a-b", generateSlug("  a -- b  "))
	assert.Equal(t, "weekly-cup", generateSlug("Weekly Cup!"))
}

func TestPrizeForRank_ExactMatch(t *testing.T) {
	pool := map[string]string{
		"1":    "$100",
		"2":    "$50",
		"4-10": "$5",
	}

	assert.Equal(t, "$100", PrizeForRank(1, pool))
	assert.Equal(t, "$50", PrizeForRank(2, pool))
}

func TestPrizeForRank_Range(t *testing.T) {
	pool := map[string]string{
		"1":    "$100",
		"4-10": "$5",
	}

	assert.Equal(t, "$5", PrizeForRank(4, pool))
	assert.Equal(t, "$5", PrizeForRank(6, pool))
	assert.Equal(t, "$5", PrizeForRank(10, pool))
}

func TestPrizeForRank_NoPrize(t *testing.T) {
	pool := map[string]string{
		"1":    "$100",
		"4-10": "$5",
	}

	assert.Equal(t, "", PrizeForRank(3, pool))
	assert.Equal(t, "", PrizeForRank(11, pool))
	assert.Equal(t, "", PrizeForRank(1, nil))
}

func TestPrizeForRank_MalformedKeyIgnored(t *testing.T) {
	pool := map[string]string{
		"top": "$1",
		"a-b": "$2",
		"5-":  "$3",
		"2":   "$10",
	}

	assert.Equal(t, "$10", PrizeForRank(2, pool))
	assert.Equal(t, "", PrizeForRank(5, pool))
}

func TestParseRankRange(t *testing.T) {
	start, end, ok := parseRankRange("4-10")
	assert.True(t, ok)
	assert.Equal(t, 4, start)
	assert.Equal(t, 10, end)

	_, _, ok = parseRankRange("7")
	assert.False(t, ok)

	_, _, ok = parseRankRange("a-b")
	assert.False(t, ok)
}

func TestEnterContest_RejectsPastEndDate(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	svc := &ContestService{now: func() time.Time { return now }}

	contest := &model.Contest{
		ID:      "c1",
		Status:  model.ContestStatusActive,
		EndDate: now.Add(-time.Minute),
	}

	_, err := svc.EnterContest(context.Background(), contest, "u1", "r1", 100, 50)
	assert.ErrorIs(t, err, ErrContestClosed)
}

func TestEnterContest_RejectsEndedStatus(t *testing.T) {
	// un concours déjà réglé refuse les entrées même si sa date de fin
	// n'est pas encore passée
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	svc := &ContestService{now: func() time.Time { return now }}

	contest := &model.Contest{
		ID:      "c1",
		Status:  model.ContestStatusEnded,
		EndDate: now.Add(time.Hour),
	}

	_, err := svc.EnterContest(context.Background(), contest, "u1", "r1", 100, 50)
	assert.ErrorIs(t, err, ErrContestClosed)
}

package services

import (
	"context"
	"testing"
	"time"

	model "github.com/Knacksterslab/byte-runner-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFraudStore struct {
	user          *model.User
	runCount      int
	winsToday     int
	flags         []model.FraudFlag
	insertedFlags []string
}

func (f *fakeFraudStore) UserByID(ctx context.Context, id string) (*model.User, error) {
	return f.user, nil
}

func (f *fakeFraudStore) CountRuns(ctx context.Context, userID string) (int, error) {
	return f.runCount, nil
}

func (f *fakeFraudStore) CountWinsSince(ctx context.Context, userID string, since time.Time) (int, error) {
	return f.winsToday, nil
}

func (f *fakeFraudStore) FlagsSince(ctx context.Context, userID string, since time.Time) ([]model.FraudFlag, error) {
	return f.flags, nil
}

func (f *fakeFraudStore) InsertFlag(ctx context.Context, userID, flagType string, severity int, referenceID *string, metadata map[string]interface{}) error {
	f.insertedFlags = append(f.insertedFlags, flagType)
	return nil
}

func (f *fakeFraudStore) RecentFlags(ctx context.Context, userID string, limit int) ([]model.FraudFlag, error) {
	return f.flags, nil
}

func fraudServiceAt(store *fakeFraudStore, now time.Time) *FraudService {
	return &FraudService{store: store, now: func() time.Time { return now }}
}

func TestIsEligibleForPrize_NewAccount(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &fakeFraudStore{
		user:     &model.User{ID: "u1", CreatedAt: now.Add(-23*time.Hour - 59*time.Minute)},
		runCount: 10,
	}
	svc := fraudServiceAt(store, now)

	result, err := svc.IsEligibleForPrize(context.Background(), "u1")
	require.NoError(t, err)

	assert.False(t, result.Eligible)
	assert.Contains(t, result.Flags, model.FlagTypeNewAccount)
	assert.Equal(t, 2, result.FraudScore)
	assert.Contains(t, store.insertedFlags, model.FlagTypeNewAccount)
}

func TestIsEligibleForPrize_AccountExactly24hOld(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &fakeFraudStore{
		user:     &model.User{ID: "u1", CreatedAt: now.Add(-24 * time.Hour)},
		runCount: 10,
	}
	svc := fraudServiceAt(store, now)

	result, err := svc.IsEligibleForPrize(context.Background(), "u1")
	require.NoError(t, err)

	assert.True(t, result.Eligible)
	assert.Empty(t, store.insertedFlags)
}

func TestIsEligibleForPrize_InsufficientRuns(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &fakeFraudStore{
		user:     &model.User{ID: "u1", CreatedAt: now.Add(-48 * time.Hour)},
		runCount: 4,
	}
	svc := fraudServiceAt(store, now)

	result, err := svc.IsEligibleForPrize(context.Background(), "u1")
	require.NoError(t, err)

	assert.False(t, result.Eligible)
	assert.Contains(t, result.Flags, model.FlagTypeInsufficientRuns)
	assert.Equal(t, 1, result.FraudScore)
	// pas de signalement persisté pour ce contrôle
	assert.Empty(t, store.insertedFlags)
}

func TestIsEligibleForPrize_DailyWinCap(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &fakeFraudStore{
		user:      &model.User{ID: "u1", CreatedAt: now.Add(-48 * time.Hour)},
		runCount:  20,
		winsToday: 3,
	}
	svc := fraudServiceAt(store, now)

	result, err := svc.IsEligibleForPrize(context.Background(), "u1")
	require.NoError(t, err)

	assert.False(t, result.Eligible)
	assert.Contains(t, result.Flags, model.FlagTypeMultipleWins)
	assert.Equal(t, 3, result.FraudScore)
	assert.Contains(t, store.insertedFlags, model.FlagTypeMultipleWins)
}

func TestIsEligibleForPrize_FraudScoreCeiling(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &fakeFraudStore{
		user:     &model.User{ID: "u1", CreatedAt: now.Add(-48 * time.Hour)},
		runCount: 20,
		flags: []model.FraudFlag{
			{FlagType: model.FlagTypeMultipleWins, Severity: 3, CreatedAt: now.Add(-24 * time.Hour)},
			{FlagType: model.FlagTypeMultipleWins, Severity: 3, CreatedAt: now.Add(-48 * time.Hour)},
		},
	}
	svc := fraudServiceAt(store, now)

	result, err := svc.IsEligibleForPrize(context.Background(), "u1")
	require.NoError(t, err)

	assert.False(t, result.Eligible)
	assert.Equal(t, 6, result.FraudScore)
}

func TestIsEligibleForPrize_CleanUser(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &fakeFraudStore{
		user:     &model.User{ID: "u1", CreatedAt: now.Add(-72 * time.Hour)},
		runCount: 50,
	}
	svc := fraudServiceAt(store, now)

	result, err := svc.IsEligibleForPrize(context.Background(), "u1")
	require.NoError(t, err)

	assert.True(t, result.Eligible)
	assert.Equal(t, 0, result.FraudScore)
	assert.Empty(t, result.Flags)
}

func TestIsEligibleForPrize_UserNotFound(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := fraudServiceAt(&fakeFraudStore{}, now)

	result, err := svc.IsEligibleForPrize(context.Background(), "missing")
	require.NoError(t, err)

	assert.False(t, result.Eligible)
	assert.Equal(t, 10, result.FraudScore)
	assert.Equal(t, []string{model.FlagTypeUserNotFound}, result.Flags)
}

func TestFraudScore_WindowBoundaries(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	flags := []model.FraudFlag{
		// pile 7 jours : compte encore
		{Severity: 2, CreatedAt: now.Add(-7 * 24 * time.Hour)},
		// une seconde au-delà : ignoré
		{Severity: 3, CreatedAt: now.Add(-7*24*time.Hour - time.Second)},
		// dans la fenêtre
		{Severity: 1, CreatedAt: now.Add(-6*24*time.Hour - 23*time.Hour)},
	}

	assert.Equal(t, 3, FraudScore(flags, now))
}

func TestFraudScore_Empty(t *testing.T) {
	assert.Equal(t, 0, FraudScore(nil, time.Now()))
}

func TestCanWithdraw_NeverWithdrew(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &fakeFraudStore{user: &model.User{ID: "u1", CreatedAt: now.Add(-72 * time.Hour)}}
	svc := fraudServiceAt(store, now)

	result, err := svc.CanWithdraw(context.Background(), "u1")
	require.NoError(t, err)

	assert.True(t, result.Eligible)
}

func TestCanWithdraw_CooldownActive(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	last := now.Add(-6*24*time.Hour - 23*time.Hour)
	store := &fakeFraudStore{user: &model.User{ID: "u1", LastWithdrawalAt: &last}}
	svc := fraudServiceAt(store, now)

	result, err := svc.CanWithdraw(context.Background(), "u1")
	require.NoError(t, err)

	assert.False(t, result.Eligible)
	assert.Contains(t, result.Flags, model.FlagTypeRapidWithdrawal)
	assert.Contains(t, store.insertedFlags, model.FlagTypeRapidWithdrawal)
}

func TestCanWithdraw_CooldownExpired(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	last := now.Add(-7 * 24 * time.Hour)
	store := &fakeFraudStore{user: &model.User{ID: "u1", LastWithdrawalAt: &last}}
	svc := fraudServiceAt(store, now)

	result, err := svc.CanWithdraw(context.Background(), "u1")
	require.NoError(t, err)

	assert.True(t, result.Eligible)
	assert.Empty(t, store.insertedFlags)
}

package services

import (
	"context"
	"testing"
	"time"

	model "github.com/Knacksterslab/byte-runner-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runServiceAt(now time.Time) *RunService {
	return &RunService{
		secret:               []byte("test-secret"),
		ttl:                  time.Hour,
		maxScorePerSecond:    500,
		maxDistancePerSecond: 200,
		now:                  func() time.Time { return now },
	}
}

func TestRunToken_RoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := runServiceAt(now)

	token, err := svc.StartRun("u1")
	require.NoError(t, err)

	startedAt, err := svc.parseRunToken(token, "u1")
	require.NoError(t, err)
	assert.Equal(t, now.UnixMilli(), startedAt.UnixMilli())
}

func TestRunToken_WrongUser(t *testing.T) {
	svc := runServiceAt(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	token, err := svc.StartRun("u1")
	require.NoError(t, err)

	_, err = svc.parseRunToken(token, "u2")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRunToken_WrongSecret(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	issuer := runServiceAt(now)
	verifier := runServiceAt(now)
	verifier.secret = []byte("other-secret")

	token, err := issuer.StartRun("u1")
	require.NoError(t, err)

	_, err = verifier.parseRunToken(token, "u1")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRunToken_Expired(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := runServiceAt(now)

	token, err := svc.StartRun("u1")
	require.NoError(t, err)

	svc.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = svc.parseRunToken(token, "u1")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestEffectiveDurationMs(t *testing.T) {
	// le temps serveur est un plancher
	assert.Equal(t, int64(10000), effectiveDurationMs(3000, 10000))
	// une durée déclarée plus longue est prise telle quelle
	assert.Equal(t, int64(12000), effectiveDurationMs(12000, 10000))
	// horloge serveur aberrante
	assert.Equal(t, int64(5000), effectiveDurationMs(5000, -100))
	assert.Equal(t, int64(0), effectiveDurationMs(0, -100))
}

func TestDurationSeconds(t *testing.T) {
	assert.Equal(t, 1, durationSeconds(0))
	assert.Equal(t, 1, durationSeconds(1))
	assert.Equal(t, 1, durationSeconds(1000))
	assert.Equal(t, 2, durationSeconds(1001))
	assert.Equal(t, 10, durationSeconds(9500))
}

func TestFinishRun_ScoreRateExceeded(t *testing.T) {
	start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := runServiceAt(start)

	token, err := svc.StartRun("u1")
	require.NoError(t, err)

	// 10 secondes écoulées côté serveur : 5000 points maximum
	svc.now = func() time.Time { return start.Add(10 * time.Second) }
	user := model.User{ID: "u1", Username: "runner"}

	_, err = svc.FinishRun(context.Background(), &user, model.FinishRunRequest{
		RunToken:   token,
		Score:      5001,
		Distance:   100,
		DurationMs: 10000,
	})
	assert.ErrorIs(t, err, ErrRateExceeded)
}

func TestFinishRun_DistanceRateExceeded(t *testing.T) {
	start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := runServiceAt(start)

	token, err := svc.StartRun("u1")
	require.NoError(t, err)

	svc.now = func() time.Time { return start.Add(10 * time.Second) }
	user := model.User{ID: "u1", Username: "runner"}

	_, err = svc.FinishRun(context.Background(), &user, model.FinishRunRequest{
		RunToken:   token,
		Score:      100,
		Distance:   2001,
		DurationMs: 10000,
	})
	assert.ErrorIs(t, err, ErrRateExceeded)
}

func TestFinishRun_ShortClaimedDurationDoesNotBypassCheck(t *testing.T) {
	start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := runServiceAt(start)

	token, err := svc.StartRun("u1")
	require.NoError(t, err)

	// une partie d'une seconde ne peut pas rapporter 5000 points, même
	// si le client déclare la durée lui-même
	svc.now = func() time.Time { return start.Add(time.Second) }
	user := model.User{ID: "u1", Username: "runner"}

	_, err = svc.FinishRun(context.Background(), &user, model.FinishRunRequest{
		RunToken:   token,
		Score:      5000,
		Distance:   100,
		DurationMs: 1000,
	})
	assert.ErrorIs(t, err, ErrRateExceeded)
}

func TestFinishRun_UsernameRequired(t *testing.T) {
	start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := runServiceAt(start)

	token, err := svc.StartRun("u1")
	require.NoError(t, err)

	svc.now = func() time.Time { return start.Add(10 * time.Second) }
	user := model.User{ID: "u1"}

	_, err = svc.FinishRun(context.Background(), &user, model.FinishRunRequest{
		RunToken:   token,
		Score:      100,
		Distance:   50,
		DurationMs: 10000,
	})
	assert.ErrorIs(t, err, ErrUsernameRequired)
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	model "github.com/Knacksterslab/byte-runner-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHourlyStore struct {
	challenges map[time.Time]*model.HourlyChallenge
	topRun     *model.Run
	endedWith  map[string]*model.Run
	paid       map[string]bool
	nextID     int
}

func newFakeHourlyStore() *fakeHourlyStore {
	return &fakeHourlyStore{
		challenges: map[time.Time]*model.HourlyChallenge{},
		endedWith:  map[string]*model.Run{},
		paid:       map[string]bool{},
	}
}

func (f *fakeHourlyStore) ChallengeByHour(ctx context.Context, hour time.Time) (*model.HourlyChallenge, error) {
	return f.challenges[hour], nil
}

func (f *fakeHourlyStore) CreateChallenge(ctx context.Context, hour time.Time) (*model.HourlyChallenge, error) {
	f.nextID++
	ch := &model.HourlyChallenge{
		ID:            string(rune('a' + f.nextID)),
		ChallengeHour: hour,
		Status:        model.HourlyStatusActive,
	}
	f.challenges[hour] = ch
	return ch, nil
}

func (f *fakeHourlyStore) TopRunBetween(ctx context.Context, start, end time.Time) (*model.Run, error) {
	return f.topRun, nil
}

func (f *fakeHourlyStore) MarkChallengeEnded(ctx context.Context, id string, winner *model.Run, endedAt time.Time) error {
	f.endedWith[id] = winner
	for _, ch := range f.challenges {
		if ch.ID == id {
			ch.Status = model.HourlyStatusEnded
		}
	}
	return nil
}

func (f *fakeHourlyStore) MarkChallengePaid(ctx context.Context, id string) error {
	f.paid[id] = true
	for _, ch := range f.challenges {
		if ch.ID == id {
			ch.Status = model.HourlyStatusPaid
		}
	}
	return nil
}

func (f *fakeHourlyStore) BestRunsBetween(ctx context.Context, start, end time.Time) ([]model.LeaderboardEntry, error) {
	return nil, nil
}

func (f *fakeHourlyStore) UserRunsBetween(ctx context.Context, userID string, start, end time.Time) ([]model.HourlyEntry, error) {
	return nil, nil
}

func (f *fakeHourlyStore) RecentChallenges(ctx context.Context, limit int) ([]model.HourlyChallenge, error) {
	return nil, nil
}

type fakePrizeGate struct {
	eligible bool
	reason   string
}

func (f *fakePrizeGate) IsEligibleForPrize(ctx context.Context, userID string) (*model.EligibilityResult, error) {
	return &model.EligibilityResult{Eligible: f.eligible, Reason: f.reason}, nil
}

type fakeHourlyLedger struct {
	credits []int64
	err     error
}

func (f *fakeHourlyLedger) AddBalance(ctx context.Context, userID string, amountCents int64, txType string, referenceID *string, description string) error {
	if f.err != nil {
		return f.err
	}
	f.credits = append(f.credits, amountCents)
	return nil
}

func hourlyServiceAt(store *fakeHourlyStore, gate *fakePrizeGate, ledger *fakeHourlyLedger, now time.Time) *HourlyChallengeService {
	return &HourlyChallengeService{
		store:       store,
		fraud:       gate,
		ledger:      ledger,
		rewardCents: 100,
		now:         func() time.Time { return now },
	}
}

func TestProcessHourly_EligibleWinnerIsPaid(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 0, 5, 0, time.UTC)
	prevHour := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)

	store := newFakeHourlyStore()
	store.topRun = &model.Run{ID: "r1", UserID: "u1", Score: 420, Distance: 180}
	ledger := &fakeHourlyLedger{}
	svc := hourlyServiceAt(store, &fakePrizeGate{eligible: true}, ledger, now)

	svc.ProcessHourly()

	ch := store.challenges[prevHour]
	require.NotNil(t, ch)
	assert.Equal(t, model.HourlyStatusPaid, ch.Status)
	assert.Equal(t, []int64{100}, ledger.credits)

	winner := store.endedWith[ch.ID]
	require.NotNil(t, winner)
	assert.Equal(t, "u1", winner.UserID)

	// l'heure courante est préparée
	assert.NotNil(t, store.challenges[now.Truncate(time.Hour)])
}

func TestProcessHourly_PaidChallengeIsNeverReprocessed(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 0, 5, 0, time.UTC)
	prevHour := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)

	store := newFakeHourlyStore()
	store.challenges[prevHour] = &model.HourlyChallenge{ID: "done", ChallengeHour: prevHour, Status: model.HourlyStatusPaid}
	store.topRun = &model.Run{ID: "r1", UserID: "u1", Score: 420}
	ledger := &fakeHourlyLedger{}
	svc := hourlyServiceAt(store, &fakePrizeGate{eligible: true}, ledger, now)

	svc.ProcessHourly()

	assert.Empty(t, ledger.credits)
	assert.Empty(t, store.endedWith)
}

func TestProcessHourly_NoRunsEndsWithoutWinner(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 0, 5, 0, time.UTC)
	prevHour := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)

	store := newFakeHourlyStore()
	ledger := &fakeHourlyLedger{}
	svc := hourlyServiceAt(store, &fakePrizeGate{eligible: true}, ledger, now)

	svc.ProcessHourly()

	ch := store.challenges[prevHour]
	require.NotNil(t, ch)
	assert.Equal(t, model.HourlyStatusEnded, ch.Status)

	winner, recorded := store.endedWith[ch.ID]
	assert.True(t, recorded)
	assert.Nil(t, winner)
	assert.Empty(t, ledger.credits)
}

func TestProcessHourly_IneligibleWinnerGetsNoPayout(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 0, 5, 0, time.UTC)
	prevHour := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)

	store := newFakeHourlyStore()
	store.topRun = &model.Run{ID: "r1", UserID: "u1", Score: 420}
	ledger := &fakeHourlyLedger{}
	svc := hourlyServiceAt(store, &fakePrizeGate{eligible: false, reason: "account too new"}, ledger, now)

	svc.ProcessHourly()

	ch := store.challenges[prevHour]
	require.NotNil(t, ch)
	assert.Equal(t, model.HourlyStatusEnded, ch.Status)

	// le gagnant est enregistré mais pas payé
	winner := store.endedWith[ch.ID]
	require.NotNil(t, winner)
	assert.Equal(t, "u1", winner.UserID)
	assert.Empty(t, ledger.credits)
	assert.False(t, store.paid[ch.ID])
}

func TestProcessHourly_PayoutFailureLeavesChallengeEnded(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 0, 5, 0, time.UTC)
	prevHour := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)

	store := newFakeHourlyStore()
	store.topRun = &model.Run{ID: "r1", UserID: "u1", Score: 420}
	ledger := &fakeHourlyLedger{err: errors.New("ledger unavailable")}
	svc := hourlyServiceAt(store, &fakePrizeGate{eligible: true}, ledger, now)

	svc.ProcessHourly()

	ch := store.challenges[prevHour]
	require.NotNil(t, ch)
	// reste "ended" : le paiement sera retenté au prochain passage
	assert.Equal(t, model.HourlyStatusEnded, ch.Status)
	assert.False(t, store.paid[ch.ID])
}

func TestCurrentChallenge_GetOrCreate(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	hour := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

	store := newFakeHourlyStore()
	svc := hourlyServiceAt(store, &fakePrizeGate{eligible: true}, &fakeHourlyLedger{}, now)

	first, err := svc.CurrentChallenge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, hour, first.ChallengeHour)

	second, err := svc.CurrentChallenge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

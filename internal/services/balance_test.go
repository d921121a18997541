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

type fakeWithdrawGate struct {
	eligible bool
	reason   string
}

func (f *fakeWithdrawGate) CanWithdraw(ctx context.Context, userID string) (*model.EligibilityResult, error) {
	return &model.EligibilityResult{Eligible: f.eligible, Reason: f.reason}, nil
}

type fakeLedgerEntry struct {
	userID string
	amount int64
}

// fakeLedger est un grand livre en mémoire ; il sert à la fois de store et
// de transaction, avec restauration de l'état si fn échoue
type fakeLedger struct {
	balances     map[string]int64
	transactions []fakeLedgerEntry
	withdrawals  []model.Withdrawal
	txErr        error
}

func (f *fakeLedger) InTx(ctx context.Context, fn func(ledgerTx) error) error {
	balances := make(map[string]int64, len(f.balances))
	for k, v := range f.balances {
		balances[k] = v
	}
	transactions := append([]fakeLedgerEntry(nil), f.transactions...)
	withdrawals := append([]model.Withdrawal(nil), f.withdrawals...)

	if err := fn(f); err != nil {
		f.balances = balances
		f.transactions = transactions
		f.withdrawals = withdrawals
		return err
	}
	return nil
}

func (f *fakeLedger) BalanceForUpdate(ctx context.Context, userID string) (int64, error) {
	balance, ok := f.balances[userID]
	if !ok {
		return 0, ErrNotFound
	}
	return balance, nil
}

func (f *fakeLedger) ApplyToBalance(ctx context.Context, userID string, deltaCents int64) error {
	f.balances[userID] += deltaCents
	return nil
}

func (f *fakeLedger) DebitForWithdrawal(ctx context.Context, userID string, amountCents int64) error {
	f.balances[userID] -= amountCents
	return nil
}

func (f *fakeLedger) InsertTransaction(ctx context.Context, userID string, amountCents int64, txType string, referenceID *string, description string) error {
	if f.txErr != nil {
		return f.txErr
	}
	f.transactions = append(f.transactions, fakeLedgerEntry{userID: userID, amount: amountCents})
	return nil
}

func (f *fakeLedger) InsertWithdrawal(ctx context.Context, userID string, req model.SubmitWithdrawalRequest) (*model.Withdrawal, error) {
	w := model.Withdrawal{
		UserID:        userID,
		AmountCents:   req.AmountCents,
		PaymentMethod: req.PaymentMethod,
		Status:        model.WithdrawalStatusPending,
		CreatedAt:     time.Now(),
	}
	f.withdrawals = append(f.withdrawals, w)
	return &w, nil
}

func (f *fakeLedger) sumTransactions(userID string) int64 {
	var sum int64
	for _, tx := range f.transactions {
		if tx.userID == userID {
			sum += tx.amount
		}
	}
	return sum
}

func ledgerBalanceService(ledger *fakeLedger, gate *fakeWithdrawGate) *BalanceService {
	return &BalanceService{
		ledger:             ledger,
		fraud:              gate,
		minWithdrawalCents: 1000,
		now:                time.Now,
	}
}

func TestSubmitWithdrawal_BelowMinimum(t *testing.T) {
	svc := &BalanceService{
		fraud:              &fakeWithdrawGate{eligible: true},
		minWithdrawalCents: 1000,
		now:                time.Now,
	}

	_, err := svc.SubmitWithdrawal(context.Background(), "u1", model.SubmitWithdrawalRequest{
		AmountCents:   999,
		PaymentMethod: "paypal",
	})
	assert.ErrorIs(t, err, ErrBelowMinimum)
}

func TestSubmitWithdrawal_ExactMinimumPassesAmountCheck(t *testing.T) {
	// la demande au montant minimum franchit le contrôle de montant et
	// bute sur le garde-fou de vélocité, pas sur le minimum
	svc := &BalanceService{
		fraud:              &fakeWithdrawGate{eligible: false, reason: "wait 3 more days"},
		minWithdrawalCents: 1000,
		now:                time.Now,
	}

	_, err := svc.SubmitWithdrawal(context.Background(), "u1", model.SubmitWithdrawalRequest{
		AmountCents:   1000,
		PaymentMethod: "paypal",
	})
	assert.ErrorIs(t, err, ErrNotEligible)
	assert.NotErrorIs(t, err, ErrBelowMinimum)
}

func TestSubmitWithdrawal_CooldownBlocks(t *testing.T) {
	svc := &BalanceService{
		fraud:              &fakeWithdrawGate{eligible: false, reason: "You can only withdraw once per week. Please wait 2 more days."},
		minWithdrawalCents: 1000,
		now:                time.Now,
	}

	_, err := svc.SubmitWithdrawal(context.Background(), "u1", model.SubmitWithdrawalRequest{
		AmountCents:   5000,
		PaymentMethod: "paypal",
	})
	assert.ErrorIs(t, err, ErrNotEligible)
	assert.Contains(t, err.Error(), "once per week")
}

func TestLedger_BalanceEqualsSignedTransactionSum(t *testing.T) {
	// après un gain puis un retrait, le solde vaut exactement la somme
	// signée des transactions enregistrées
	ledger := &fakeLedger{balances: map[string]int64{"u1": 0}}
	svc := ledgerBalanceService(ledger, &fakeWithdrawGate{eligible: true})

	ref := "challenge-1"
	err := svc.AddBalance(context.Background(), "u1", 2500,
		model.TransactionTypeHourlyWin, &ref, "Hourly challenge win")
	require.NoError(t, err)

	withdrawal, err := svc.SubmitWithdrawal(context.Background(), "u1", model.SubmitWithdrawalRequest{
		AmountCents:   1000,
		PaymentMethod: "paypal",
	})
	require.NoError(t, err)
	assert.Equal(t, model.WithdrawalStatusPending, withdrawal.Status)

	assert.Equal(t, int64(1500), ledger.balances["u1"])
	assert.Equal(t, ledger.balances["u1"], ledger.sumTransactions("u1"))
	assert.Len(t, ledger.transactions, 2)
	assert.Len(t, ledger.withdrawals, 1)
}

func TestSubmitWithdrawal_InsufficientBalanceLeavesLedgerUntouched(t *testing.T) {
	ledger := &fakeLedger{balances: map[string]int64{"u1": 0}}
	svc := ledgerBalanceService(ledger, &fakeWithdrawGate{eligible: true})

	err := svc.AddBalance(context.Background(), "u1", 500,
		model.TransactionTypeHourlyWin, nil, "Hourly challenge win")
	require.NoError(t, err)

	_, err = svc.SubmitWithdrawal(context.Background(), "u1", model.SubmitWithdrawalRequest{
		AmountCents:   1000,
		PaymentMethod: "paypal",
	})
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// rien n'a bougé : ni débit, ni transaction négative, ni ligne de retrait
	assert.Equal(t, int64(500), ledger.balances["u1"])
	assert.Equal(t, ledger.balances["u1"], ledger.sumTransactions("u1"))
	assert.Len(t, ledger.transactions, 1)
	assert.Empty(t, ledger.withdrawals)
}

func TestAddBalance_RollsBackCreditWhenTransactionWriteFails(t *testing.T) {
	ledger := &fakeLedger{
		balances: map[string]int64{"u1": 0},
		txErr:    errors.New("insert failed"),
	}
	svc := ledgerBalanceService(ledger, &fakeWithdrawGate{eligible: true})

	err := svc.AddBalance(context.Background(), "u1", 100,
		model.TransactionTypeHourlyWin, nil, "Hourly challenge win")
	assert.Error(t, err)

	// le crédit est annulé avec la transaction : le solde reste cohérent
	assert.Equal(t, int64(0), ledger.balances["u1"])
	assert.Empty(t, ledger.transactions)
}

func TestAddBalance_UnknownUser(t *testing.T) {
	ledger := &fakeLedger{balances: map[string]int64{}}
	svc := ledgerBalanceService(ledger, &fakeWithdrawGate{eligible: true})

	err := svc.AddBalance(context.Background(), "ghost", 100,
		model.TransactionTypeHourlyWin, nil, "Hourly challenge win")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, ledger.transactions)
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Knacksterslab/byte-runner-backend/internal/config"
	model "github.com/Knacksterslab/byte-runner-backend/internal/models"
	"github.com/Knacksterslab/byte-runner-backend/internal/scanner"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type withdrawGate interface {
	CanWithdraw(ctx context.Context, userID string) (*model.EligibilityResult, error)
}

// ledgerTx regroupe les écritures comptables exécutées dans une même
// transaction SQL : solde et lignes du grand livre bougent ensemble ou
// pas du tout
type ledgerTx interface {
	BalanceForUpdate(ctx context.Context, userID string) (int64, error)
	ApplyToBalance(ctx context.Context, userID string, deltaCents int64) error
	DebitForWithdrawal(ctx context.Context, userID string, amountCents int64) error
	InsertTransaction(ctx context.Context, userID string, amountCents int64, txType string, referenceID *string, description string) error
	InsertWithdrawal(ctx context.Context, userID string, req model.SubmitWithdrawalRequest) (*model.Withdrawal, error)
}

// ledgerStore exécute fn dans une transaction : commit si fn réussit,
// rollback sinon
type ledgerStore interface {
	InTx(ctx context.Context, fn func(ledgerTx) error) error
}

const withdrawalColumns = `id, user_id, amount_cents, payment_method, contact_info,
	status, reviewed_at, reviewed_by, notes, created_at`

// BalanceService applique les mutations de solde de façon atomique : le solde
// d'un joueur est toujours égal à la somme signée de ses transactions. Toute
// mutation verrouille la ligne utilisateur (FOR UPDATE) pour sérialiser les
// écritures concurrentes gain/retrait.
type BalanceService struct {
	db                 *pgxpool.Pool
	ledger             ledgerStore
	fraud              withdrawGate
	minWithdrawalCents int64
	now                func() time.Time
}

func NewBalanceService(db *pgxpool.Pool, fraud *FraudService, cfg *config.Config) *BalanceService {
	return &BalanceService{
		db:                 db,
		ledger:             &ledgerPGStore{db: db},
		fraud:              fraud,
		minWithdrawalCents: cfg.MinWithdrawalCents,
		now:                time.Now,
	}
}

// AddBalance crédite (ou débite) le solde et ajoute la transaction
// correspondante dans la même transaction SQL : aucun observateur ne peut
// voir l'une sans l'autre
func (s *BalanceService) AddBalance(ctx context.Context, userID string, amountCents int64, txType string, referenceID *string, description string) error {
	return s.ledger.InTx(ctx, func(tx ledgerTx) error {
		if _, err := tx.BalanceForUpdate(ctx, userID); err != nil {
			return err
		}
		if err := tx.ApplyToBalance(ctx, userID, amountCents); err != nil {
			return err
		}
		return tx.InsertTransaction(ctx, userID, amountCents, txType, referenceID, description)
	})
}

// SubmitWithdrawal débite le solde et crée la demande de retrait en pending.
// Débit, transaction négative, ligne de retrait et horodatage de vélocité
// sont commités ensemble : pas de rollback compensatoire.
func (s *BalanceService) SubmitWithdrawal(ctx context.Context, userID string, req model.SubmitWithdrawalRequest) (*model.Withdrawal, error) {
	if req.AmountCents < s.minWithdrawalCents {
		return nil, fmt.Errorf("%w: minimum withdrawal is $%.2f", ErrBelowMinimum, float64(s.minWithdrawalCents)/100)
	}

	eligibility, err := s.fraud.CanWithdraw(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !eligibility.Eligible {
		reason := eligibility.Reason
		if reason == "" {
			reason = "You are not eligible to withdraw at this time."
		}
		return nil, fmt.Errorf("%w: %s", ErrNotEligible, reason)
	}

	var withdrawal *model.Withdrawal
	err = s.ledger.InTx(ctx, func(tx ledgerTx) error {
		balance, err := tx.BalanceForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if balance < req.AmountCents {
			return fmt.Errorf("%w: you have $%.2f, but requested $%.2f",
				ErrInsufficientBalance, float64(balance)/100, float64(req.AmountCents)/100)
		}

		if err := tx.DebitForWithdrawal(ctx, userID, req.AmountCents); err != nil {
			return err
		}
		if err := tx.InsertTransaction(ctx, userID, -req.AmountCents, model.TransactionTypeWithdrawal,
			nil, fmt.Sprintf("Withdrawal request - %s", req.PaymentMethod)); err != nil {
			return err
		}

		withdrawal, err = tx.InsertWithdrawal(ctx, userID, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	return withdrawal, nil
}

// ledgerPGStore est l'implémentation Postgres du grand livre
type ledgerPGStore struct {
	db *pgxpool.Pool
}

func (s *ledgerPGStore) InTx(ctx context.Context, fn func(ledgerTx) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLedgerWrite, err)
	}
	defer tx.Rollback(ctx)

	if err := fn(ledgerPGTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrLedgerWrite, err)
	}
	return nil
}

type ledgerPGTx struct {
	tx pgx.Tx
}

func (l ledgerPGTx) BalanceForUpdate(ctx context.Context, userID string) (int64, error) {
	var balance int64
	err := l.tx.QueryRow(ctx,
		`SELECT balance_cents FROM users WHERE id = $1 FOR UPDATE`, userID,
	).Scan(&balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("%w: %v", ErrLedgerWrite, err)
	}
	return balance, nil
}

func (l ledgerPGTx) ApplyToBalance(ctx context.Context, userID string, deltaCents int64) error {
	_, err := l.tx.Exec(ctx,
		`UPDATE users SET balance_cents = balance_cents + $1 WHERE id = $2`,
		deltaCents, userID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLedgerWrite, err)
	}
	return nil
}

// DebitForWithdrawal combine le débit et l'horodatage de vélocité dans le
// même UPDATE
func (l ledgerPGTx) DebitForWithdrawal(ctx context.Context, userID string, amountCents int64) error {
	_, err := l.tx.Exec(ctx,
		`UPDATE users SET balance_cents = balance_cents - $1, last_withdrawal_at = NOW() WHERE id = $2`,
		amountCents, userID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLedgerWrite, err)
	}
	return nil
}

func (l ledgerPGTx) InsertTransaction(ctx context.Context, userID string, amountCents int64, txType string, referenceID *string, description string) error {
	_, err := l.tx.Exec(ctx, `
		INSERT INTO balance_transactions(user_id, amount_cents, type, reference_id, description)
		VALUES($1, $2, $3, $4, $5)`,
		userID, amountCents, txType, referenceID, description)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLedgerWrite, err)
	}
	return nil
}

func (l ledgerPGTx) InsertWithdrawal(ctx context.Context, userID string, req model.SubmitWithdrawalRequest) (*model.Withdrawal, error) {
	var contactJSON interface{}
	if req.ContactInfo != nil {
		b, err := json.Marshal(req.ContactInfo)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLedgerWrite, err)
		}
		contactJSON = string(b)
	}

	row := l.tx.QueryRow(ctx, `
		INSERT INTO withdrawals(user_id, amount_cents, payment_method, contact_info, status)
		VALUES($1, $2, $3, $4::jsonb, $5)
		RETURNING `+withdrawalColumns,
		userID, req.AmountCents, req.PaymentMethod, contactJSON, model.WithdrawalStatusPending)

	withdrawal, err := scanner.ScanWithdrawal(row)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLedgerWrite, err)
	}
	return withdrawal, nil
}

// GetUserBalance agrège les vues dérivées : solde, retraits en attente,
// gains cumulés et transactions récentes, toujours recalculés
func (s *BalanceService) GetUserBalance(ctx context.Context, userID string) (*model.BalanceInfo, error) {
	info := &model.BalanceInfo{RecentTransactions: []model.BalanceTransaction{}}

	err := s.db.QueryRow(ctx,
		`SELECT balance_cents FROM users WHERE id = $1`, userID,
	).Scan(&info.BalanceCents)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	err = s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM withdrawals
		WHERE user_id = $1 AND status IN ($2, $3)`,
		userID, model.WithdrawalStatusPending, model.WithdrawalStatusApproved,
	).Scan(&info.PendingWithdrawalsCents)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM balance_transactions
		WHERE user_id = $1 AND amount_cents > 0`, userID,
	).Scan(&info.TotalEarnedCents)
	if err != nil {
		return nil, err
	}

	transactions, err := s.Transactions(ctx, userID, 10, 0)
	if err != nil {
		return nil, err
	}
	info.RecentTransactions = transactions

	return info, nil
}

func (s *BalanceService) Transactions(ctx context.Context, userID string, limit, offset int) ([]model.BalanceTransaction, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, amount_cents, type, reference_id, description, created_at
		FROM balance_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []model.BalanceTransaction{}
	for rows.Next() {
		tx, err := scanner.ScanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *tx)
	}
	return transactions, rows.Err()
}

func (s *BalanceService) UserWithdrawals(ctx context.Context, userID string) ([]model.Withdrawal, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+withdrawalColumns+`
		FROM withdrawals
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectWithdrawals(rows)
}

// AllWithdrawals liste les retraits, filtrable par statut (admin)
func (s *BalanceService) AllWithdrawals(ctx context.Context, status string) ([]model.Withdrawal, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectWithdrawals(rows)
}

// UpdateWithdrawalStatus est une mise à jour de statut pure : le solde a déjà
// été ajusté lors de la soumission et n'est jamais retouché ici
func (s *BalanceService) UpdateWithdrawalStatus(ctx context.Context, withdrawalID, status, reviewedBy string, notes *string) (*model.Withdrawal, error) {
	switch status {
	case model.WithdrawalStatusPending, model.WithdrawalStatusApproved,
		model.WithdrawalStatusRejected, model.WithdrawalStatusPaid:
	default:
		return nil, fmt.Errorf("invalid withdrawal status: %s", status)
	}

	row := s.db.QueryRow(ctx, `
		UPDATE withdrawals
		SET status = $2, reviewed_at = NOW(), reviewed_by = $3, notes = $4
		WHERE id = $1
		RETURNING `+withdrawalColumns,
		withdrawalID, status, reviewedBy, notes)

	withdrawal, err := scanner.ScanWithdrawal(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return withdrawal, nil
}

func collectWithdrawals(rows pgx.Rows) ([]model.Withdrawal, error) {
	withdrawals := []model.Withdrawal{}
	for rows.Next() {
		w, err := scanner.ScanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, *w)
	}
	return withdrawals, rows.Err()
}

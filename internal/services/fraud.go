package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/Knacksterslab/byte-runner-backend/internal/logger"
	model "github.com/Knacksterslab/byte-runner-backend/internal/models"
	"github.com/Knacksterslab/byte-runner-backend/internal/scanner"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Règles anti-fraude : seuils et sévérités
const (
	minAccountAge      = 24 * time.Hour
	minRunsForPrize    = 5
	maxDailyWins       = 3
	fraudScoreCeiling  = 6
	fraudWindow        = 7 * 24 * time.Hour
	withdrawalCooldown = 7 * 24 * time.Hour

	severityNewAccount       = 2
	severityInsufficientRuns = 1
	severityMultipleWins     = 3
	severityRapidWithdrawal  = 2
)

type fraudStore interface {
	UserByID(ctx context.Context, id string) (*model.User, error)
	CountRuns(ctx context.Context, userID string) (int, error)
	CountWinsSince(ctx context.Context, userID string, since time.Time) (int, error)
	FlagsSince(ctx context.Context, userID string, since time.Time) ([]model.FraudFlag, error)
	InsertFlag(ctx context.Context, userID, flagType string, severity int, referenceID *string, metadata map[string]interface{}) error
	RecentFlags(ctx context.Context, userID string, limit int) ([]model.FraudFlag, error)
}

// FraudService évalue l'éligibilité aux gains et aux retraits à partir d'une
// fenêtre glissante de 7 jours de signalements. Un contrôle raté écrit un
// signalement, ce qui aggrave les scores futurs.
type FraudService struct {
	store fraudStore
	now   func() time.Time
}

func NewFraudService(db *pgxpool.Pool) *FraudService {
	return &FraudService{
		store: &fraudPGStore{db: db},
		now:   time.Now,
	}
}

// FraudScore calcule la somme des sévérités des signalements de la fenêtre
// glissante : un signalement vieux de 7 jours exactement compte encore, un
// signalement plus ancien ne compte plus
func FraudScore(flags []model.FraudFlag, now time.Time) int {
	cutoff := now.Add(-fraudWindow)
	score := 0
	for _, f := range flags {
		if !f.CreatedAt.Before(cutoff) {
			score += f.Severity
		}
	}
	return score
}

// IsEligibleForPrize applique les règles dans l'ordre, en s'arrêtant à la
// première qui échoue :
//  1. compte âgé d'au moins 24h
//  2. au moins 5 parties jouées
//  3. au plus 3 victoires horaires par jour
//  4. score de fraude des 7 derniers jours sous le plafond
func (s *FraudService) IsEligibleForPrize(ctx context.Context, userID string) (*model.EligibilityResult, error) {
	now := s.now()
	flags := []string{}
	fraudScore := 0

	user, err := s.store.UserByID(ctx, userID)
	if err != nil || user == nil {
		return &model.EligibilityResult{
			Eligible:   false,
			Reason:     "User not found",
			FraudScore: 10,
			Flags:      []string{model.FlagTypeUserNotFound},
		}, nil
	}

	// 1. Âge du compte
	accountAge := now.Sub(user.CreatedAt)
	if accountAge < minAccountAge {
		flags = append(flags, model.FlagTypeNewAccount)
		fraudScore += severityNewAccount

		s.writeFlag(ctx, userID, model.FlagTypeNewAccount, severityNewAccount, nil, map[string]interface{}{
			"accountAgeHours": math.Round(accountAge.Hours()*10) / 10,
		})

		return &model.EligibilityResult{
			Eligible:   false,
			Reason:     fmt.Sprintf("Account must be at least 24 hours old. Your account is %d hours old.", int(math.Round(accountAge.Hours()))),
			FraudScore: fraudScore,
			Flags:      flags,
		}, nil
	}

	// 2. Activité minimale
	totalRuns, err := s.store.CountRuns(ctx, userID)
	if err != nil || totalRuns < minRunsForPrize {
		flags = append(flags, model.FlagTypeInsufficientRuns)
		fraudScore += severityInsufficientRuns

		return &model.EligibilityResult{
			Eligible:   false,
			Reason:     fmt.Sprintf("You must complete at least %d games to be eligible. You have %d games.", minRunsForPrize, totalRuns),
			FraudScore: fraudScore,
			Flags:      flags,
		}, nil
	}

	// 3. Plafond de victoires quotidiennes (minuit heure serveur)
	year, month, day := now.Date()
	todayStart := time.Date(year, month, day, 0, 0, 0, 0, now.Location())

	winsToday, err := s.store.CountWinsSince(ctx, userID, todayStart)
	if err != nil {
		logger.Error("Error checking daily wins for %s: %v", userID, err)
	}

	if winsToday >= maxDailyWins {
		flags = append(flags, model.FlagTypeMultipleWins)
		fraudScore += severityMultipleWins

		s.writeFlag(ctx, userID, model.FlagTypeMultipleWins, severityMultipleWins, nil, map[string]interface{}{
			"winsToday": winsToday,
			"date":      todayStart.Format(time.RFC3339),
		})

		return &model.EligibilityResult{
			Eligible:   false,
			Reason:     fmt.Sprintf("Maximum %d wins per day reached. You've won %d times today. Try again tomorrow!", maxDailyWins, winsToday),
			FraudScore: fraudScore,
			Flags:      flags,
		}, nil
	}

	// 4. Signalements accumulés sur 7 jours
	recentFlags, err := s.store.FlagsSince(ctx, userID, now.Add(-fraudWindow))
	if err != nil {
		logger.Error("Error checking fraud flags for %s: %v", userID, err)
	}

	recentScore := FraudScore(recentFlags, now)
	fraudScore += recentScore
	for _, f := range recentFlags {
		flags = append(flags, f.FlagType)
	}

	if fraudScore >= fraudScoreCeiling {
		logger.Warning("User %s failed fraud check with score %d", userID, fraudScore)

		return &model.EligibilityResult{
			Eligible:   false,
			Reason:     "Your account has been flagged for suspicious activity. Please contact support.",
			FraudScore: fraudScore,
			Flags:      flags,
		}, nil
	}

	return &model.EligibilityResult{
		Eligible:   true,
		FraudScore: fraudScore,
		Flags:      flags,
	}, nil
}

// CanWithdraw vérifie la vélocité des retraits : un seul retrait par période
// de 7 jours, borne incluse (7 jours pile révolus = éligible)
func (s *FraudService) CanWithdraw(ctx context.Context, userID string) (*model.EligibilityResult, error) {
	now := s.now()

	user, err := s.store.UserByID(ctx, userID)
	if err != nil || user == nil {
		return &model.EligibilityResult{
			Eligible:   false,
			Reason:     "User not found",
			FraudScore: 10,
			Flags:      []string{model.FlagTypeUserNotFound},
		}, nil
	}

	if user.LastWithdrawalAt != nil {
		elapsed := now.Sub(*user.LastWithdrawalAt)
		if elapsed < withdrawalCooldown {
			daysSince := elapsed.Hours() / 24
			daysRemaining := int(math.Ceil(7 - daysSince))

			s.writeFlag(ctx, userID, model.FlagTypeRapidWithdrawal, severityRapidWithdrawal, nil, map[string]interface{}{
				"daysSinceLastWithdrawal": math.Round(daysSince*10) / 10,
			})

			plural := ""
			if daysRemaining > 1 {
				plural = "s"
			}
			return &model.EligibilityResult{
				Eligible:   false,
				Reason:     fmt.Sprintf("You can only withdraw once per week. Please wait %d more day%s.", daysRemaining, plural),
				FraudScore: severityRapidWithdrawal,
				Flags:      []string{model.FlagTypeRapidWithdrawal},
			}, nil
		}
	}

	return &model.EligibilityResult{Eligible: true, Flags: []string{}}, nil
}

// writeFlag enregistre un signalement ; un échec d'écriture est loggé mais ne
// bloque pas la décision d'éligibilité en cours
func (s *FraudService) writeFlag(ctx context.Context, userID, flagType string, severity int, referenceID *string, metadata map[string]interface{}) {
	if err := s.store.InsertFlag(ctx, userID, flagType, severity, referenceID, metadata); err != nil {
		logger.Error("Error creating fraud flag %s for %s: %v", flagType, userID, err)
	}
}

// UserFlags retourne les signalements d'un joueur (admin)
func (s *FraudService) UserFlags(ctx context.Context, userID string, limit int) ([]model.FraudFlag, error) {
	return s.store.RecentFlags(ctx, userID, limit)
}

// Score recalcule le score de fraude courant d'un joueur (admin)
func (s *FraudService) Score(ctx context.Context, userID string) (int, error) {
	flags, err := s.store.FlagsSince(ctx, userID, s.now().Add(-fraudWindow))
	if err != nil {
		return 0, err
	}
	return FraudScore(flags, s.now()), nil
}

// fraudPGStore est l'implémentation Postgres du magasin anti-fraude
type fraudPGStore struct {
	db *pgxpool.Pool
}

func (p *fraudPGStore) UserByID(ctx context.Context, id string) (*model.User, error) {
	row := p.db.QueryRow(ctx, `
		SELECT id, subject_id, email, username, balance_cents,
		       continue_tokens, featured_badge, last_withdrawal_at, created_at
		FROM users
		WHERE id = $1`, id)

	user, err := scanner.ScanUser(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return user, err
}

func (p *fraudPGStore) CountRuns(ctx context.Context, userID string) (int, error) {
	var count int
	err := p.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM runs WHERE user_id = $1`, userID,
	).Scan(&count)
	return count, err
}

func (p *fraudPGStore) CountWinsSince(ctx context.Context, userID string, since time.Time) (int, error) {
	var count int
	err := p.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM balance_transactions
		WHERE user_id = $1 AND type = $2 AND created_at >= $3`,
		userID, model.TransactionTypeHourlyWin, since,
	).Scan(&count)
	return count, err
}

func (p *fraudPGStore) FlagsSince(ctx context.Context, userID string, since time.Time) ([]model.FraudFlag, error) {
	rows, err := p.db.Query(ctx, `
		SELECT id, user_id, flag_type, severity, reference_id, metadata, created_at
		FROM fraud_flags
		WHERE user_id = $1 AND created_at >= $2
		ORDER BY created_at DESC`, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectFlags(rows)
}

func (p *fraudPGStore) InsertFlag(ctx context.Context, userID, flagType string, severity int, referenceID *string, metadata map[string]interface{}) error {
	var metadataJSON interface{}
	if metadata != nil {
		b, err := json.Marshal(metadata)
		if err != nil {
			return err
		}
		metadataJSON = string(b)
	}

	_, err := p.db.Exec(ctx, `
		INSERT INTO fraud_flags(user_id, flag_type, severity, reference_id, metadata)
		VALUES($1, $2, $3, $4, $5::jsonb)`,
		userID, flagType, severity, referenceID, metadataJSON)
	return err
}

func (p *fraudPGStore) RecentFlags(ctx context.Context, userID string, limit int) ([]model.FraudFlag, error) {
	rows, err := p.db.Query(ctx, `
		SELECT id, user_id, flag_type, severity, reference_id, metadata, created_at
		FROM fraud_flags
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectFlags(rows)
}

func collectFlags(rows pgx.Rows) ([]model.FraudFlag, error) {
	var flags []model.FraudFlag
	for rows.Next() {
		flag, err := scanner.ScanFraudFlag(rows)
		if err != nil {
			return nil, err
		}
		flags = append(flags, *flag)
	}
	return flags, rows.Err()
}

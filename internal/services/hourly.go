package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Knacksterslab/byte-runner-backend/internal/config"
	"github.com/Knacksterslab/byte-runner-backend/internal/logger"
	model "github.com/Knacksterslab/byte-runner-backend/internal/models"
	"github.com/Knacksterslab/byte-runner-backend/internal/scanner"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type hourlyStore interface {
	ChallengeByHour(ctx context.Context, hour time.Time) (*model.HourlyChallenge, error)
	CreateChallenge(ctx context.Context, hour time.Time) (*model.HourlyChallenge, error)
	TopRunBetween(ctx context.Context, start, end time.Time) (*model.Run, error)
	MarkChallengeEnded(ctx context.Context, id string, winner *model.Run, endedAt time.Time) error
	MarkChallengePaid(ctx context.Context, id string) error
	BestRunsBetween(ctx context.Context, start, end time.Time) ([]model.LeaderboardEntry, error)
	UserRunsBetween(ctx context.Context, userID string, start, end time.Time) ([]model.HourlyEntry, error)
	RecentChallenges(ctx context.Context, limit int) ([]model.HourlyChallenge, error)
}

type prizeGate interface {
	IsEligibleForPrize(ctx context.Context, userID string) (*model.EligibilityResult, error)
}

type prizeLedger interface {
	AddBalance(ctx context.Context, userID string, amountCents int64, txType string, referenceID *string, description string) error
}

// HourlyChallengeService gère le défi du meilleur run de chaque heure
type HourlyChallengeService struct {
	store       hourlyStore
	fraud       prizeGate
	ledger      prizeLedger
	rewardCents int64
	now         func() time.Time
}

func NewHourlyChallengeService(db *pgxpool.Pool, fraud *FraudService, ledger *BalanceService, cfg *config.Config) *HourlyChallengeService {
	return &HourlyChallengeService{
		store:       &hourlyPGStore{db: db},
		fraud:       fraud,
		ledger:      ledger,
		rewardCents: int64(cfg.HourlyRewardCents),
		now:         time.Now,
	}
}

// ProcessHourly clôture le défi de l'heure précédente et prépare celui
// de l'heure courante. Appelé à chaque heure pile, mais sûr à rejouer :
// un défi déjà payé n'est jamais retraité.
func (s *HourlyChallengeService) ProcessHourly() {
	ctx := context.Background()
	now := s.now()
	prevHour := now.Add(-time.Hour).Truncate(time.Hour)

	challenge, err := s.store.ChallengeByHour(ctx, prevHour)
	if err != nil {
		logger.Error("Hourly challenge: lookup for %s failed: %v", prevHour.Format(time.RFC3339), err)
		return
	}
	if challenge != nil && challenge.Status == model.HourlyStatusPaid {
		return
	}

	if challenge == nil {
		challenge, err = s.store.CreateChallenge(ctx, prevHour)
		if err != nil {
			logger.Error("Hourly challenge: could not create row for %s: %v", prevHour.Format(time.RFC3339), err)
			return
		}
	}

	if err := s.settleChallenge(ctx, challenge, prevHour); err != nil {
		logger.Error("Hourly challenge: settlement for %s failed: %v", prevHour.Format(time.RFC3339), err)
		return
	}

	s.ensureCurrentChallenge(ctx, now)
}

func (s *HourlyChallengeService) settleChallenge(ctx context.Context, challenge *model.HourlyChallenge, hour time.Time) error {
	winner, err := s.store.TopRunBetween(ctx, hour, hour.Add(time.Hour))
	if err != nil {
		return fmt.Errorf("top run lookup: %w", err)
	}

	if winner == nil {
		if err := s.store.MarkChallengeEnded(ctx, challenge.ID, nil, s.now()); err != nil {
			return err
		}
		logger.Cron("Hourly challenge %s ended with no runs", hour.Format("15:04"))
		return nil
	}

	eligibility, err := s.fraud.IsEligibleForPrize(ctx, winner.UserID)
	if err != nil {
		return fmt.Errorf("eligibility check: %w", err)
	}

	if err := s.store.MarkChallengeEnded(ctx, challenge.ID, winner, s.now()); err != nil {
		return err
	}

	if !eligibility.Eligible {
		logger.Warning("Hourly challenge %s: winner %s not eligible (%s), no payout",
			hour.Format("15:04"), winner.UserID, eligibility.Reason)
		return nil
	}

	// Paiement en dernier : si le crédit échoue, le défi reste "ended"
	// et sera repayé au prochain passage
	if err := s.ledger.AddBalance(ctx, winner.UserID, s.rewardCents,
		model.TransactionTypeHourlyWin, &challenge.ID, "Hourly challenge win"); err != nil {
		return fmt.Errorf("payout: %w", err)
	}

	if err := s.store.MarkChallengePaid(ctx, challenge.ID); err != nil {
		return err
	}

	logger.Cron("Hourly challenge %s won by %s (score %d), %d cents paid",
		hour.Format("15:04"), winner.UserID, winner.Score, s.rewardCents)
	return nil
}

func (s *HourlyChallengeService) ensureCurrentChallenge(ctx context.Context, now time.Time) {
	currentHour := now.Truncate(time.Hour)
	existing, err := s.store.ChallengeByHour(ctx, currentHour)
	if err != nil {
		logger.Error("Hourly challenge: lookup for current hour failed: %v", err)
		return
	}
	if existing != nil {
		return
	}
	if _, err := s.store.CreateChallenge(ctx, currentHour); err != nil {
		logger.Error("Hourly challenge: could not create current hour row: %v", err)
	}
}

// CurrentChallenge retourne le défi de l'heure en cours, en le créant
// s'il n'existe pas encore
func (s *HourlyChallengeService) CurrentChallenge(ctx context.Context) (*model.HourlyChallenge, error) {
	currentHour := s.now().Truncate(time.Hour)
	challenge, err := s.store.ChallengeByHour(ctx, currentHour)
	if err != nil {
		return nil, err
	}
	if challenge != nil {
		return challenge, nil
	}
	return s.store.CreateChallenge(ctx, currentHour)
}

// Leaderboard classe les meilleurs runs de l'heure en cours
func (s *HourlyChallengeService) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	currentHour := s.now().Truncate(time.Hour)
	entries, err := s.store.BestRunsBetween(ctx, currentHour, currentHour.Add(time.Hour))
	if err != nil {
		return nil, err
	}

	ranked := RankEntries(entries)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func (s *HourlyChallengeService) UserEntries(ctx context.Context, userID string) ([]model.HourlyEntry, error) {
	currentHour := s.now().Truncate(time.Hour)
	return s.store.UserRunsBetween(ctx, userID, currentHour, currentHour.Add(time.Hour))
}

func (s *HourlyChallengeService) RecentChallenges(ctx context.Context, limit int) ([]model.HourlyChallenge, error) {
	return s.store.RecentChallenges(ctx, limit)
}

// hourlyPGStore est l'accès Postgres du service horaire

type hourlyPGStore struct {
	db *pgxpool.Pool
}

const hourlyColumns = `id, challenge_hour, status, winner_user_id, winner_run_id,
	winner_score, winner_distance, ended_at, created_at`

func (p *hourlyPGStore) ChallengeByHour(ctx context.Context, hour time.Time) (*model.HourlyChallenge, error) {
	row := p.db.QueryRow(ctx,
		`SELECT `+hourlyColumns+` FROM hourly_challenges WHERE challenge_hour = $1`, hour)

	challenge, err := scanner.ScanHourlyChallenge(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return challenge, err
}

func (p *hourlyPGStore) CreateChallenge(ctx context.Context, hour time.Time) (*model.HourlyChallenge, error) {
	row := p.db.QueryRow(ctx, `
		INSERT INTO hourly_challenges(challenge_hour, status)
		VALUES($1, $2)
		ON CONFLICT (challenge_hour) DO UPDATE SET challenge_hour = EXCLUDED.challenge_hour
		RETURNING `+hourlyColumns,
		hour, model.HourlyStatusActive)

	return scanner.ScanHourlyChallenge(row)
}

func (p *hourlyPGStore) TopRunBetween(ctx context.Context, start, end time.Time) (*model.Run, error) {
	row := p.db.QueryRow(ctx, `
		SELECT id, user_id, score, distance, duration_ms, client_version, created_at
		FROM runs
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY score DESC, distance DESC, created_at ASC
		LIMIT 1`, start, end)

	run, err := scanner.ScanRun(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return run, err
}

func (p *hourlyPGStore) MarkChallengeEnded(ctx context.Context, id string, winner *model.Run, endedAt time.Time) error {
	if winner == nil {
		_, err := p.db.Exec(ctx, `
			UPDATE hourly_challenges
			SET status = $2, ended_at = $3
			WHERE id = $1`,
			id, model.HourlyStatusEnded, endedAt)
		return err
	}

	_, err := p.db.Exec(ctx, `
		UPDATE hourly_challenges
		SET status = $2, winner_user_id = $3, winner_run_id = $4,
			winner_score = $5, winner_distance = $6, ended_at = $7
		WHERE id = $1`,
		id, model.HourlyStatusEnded, winner.UserID, winner.ID,
		winner.Score, winner.Distance, endedAt)
	return err
}

func (p *hourlyPGStore) MarkChallengePaid(ctx context.Context, id string) error {
	_, err := p.db.Exec(ctx,
		`UPDATE hourly_challenges SET status = $2 WHERE id = $1`,
		id, model.HourlyStatusPaid)
	return err
}

func (p *hourlyPGStore) BestRunsBetween(ctx context.Context, start, end time.Time) ([]model.LeaderboardEntry, error) {
	rows, err := p.db.Query(ctx, `
		SELECT r.user_id, COALESCE(u.username, 'Unknown'), r.score, r.distance, r.created_at
		FROM runs r
		JOIN users u ON u.id = r.user_id
		WHERE r.created_at >= $1 AND r.created_at < $2
		ORDER BY r.score DESC, r.distance DESC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.Score, &e.Distance, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (p *hourlyPGStore) UserRunsBetween(ctx context.Context, userID string, start, end time.Time) ([]model.HourlyEntry, error) {
	rows, err := p.db.Query(ctx, `
		SELECT id, score, distance, created_at
		FROM runs
		WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY score DESC, distance DESC`, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.HourlyEntry{}
	for rows.Next() {
		var e model.HourlyEntry
		if err := rows.Scan(&e.RunID, &e.Score, &e.Distance, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (p *hourlyPGStore) RecentChallenges(ctx context.Context, limit int) ([]model.HourlyChallenge, error) {
	rows, err := p.db.Query(ctx, `
		SELECT `+hourlyColumns+`
		FROM hourly_challenges
		ORDER BY challenge_hour DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	challenges := []model.HourlyChallenge{}
	for rows.Next() {
		c, err := scanner.ScanHourlyChallenge(rows)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, *c)
	}
	return challenges, rows.Err()
}

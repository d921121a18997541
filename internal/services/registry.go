package services

import (
	"github.com/Knacksterslab/byte-runner-backend/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Registry regroupe tous les services câblés, construit une seule fois
// au démarrage
type Registry struct {
	Users       *UserService
	Runs        *RunService
	Fraud       *FraudService
	Balance     *BalanceService
	Contests    *ContestService
	Claims      *PrizeClaimService
	Hourly      *HourlyChallengeService
	Leaderboard *LeaderboardService
	Shares      *ShareService
	Badges      *BadgeService
	ContestCron *ContestCron
}

func NewRegistry(db *pgxpool.Pool, cfg *config.Config) *Registry {
	fraud := NewFraudService(db)
	balance := NewBalanceService(db, fraud, cfg)
	contests := NewContestService(db)
	claims := NewPrizeClaimService(db)

	return &Registry{
		Users:       NewUserService(db),
		Runs:        NewRunService(db, contests, cfg),
		Fraud:       fraud,
		Balance:     balance,
		Contests:    contests,
		Claims:      claims,
		Hourly:      NewHourlyChallengeService(db, fraud, balance, cfg),
		Leaderboard: NewLeaderboardService(db, cfg),
		Shares:      NewShareService(db),
		Badges:      NewBadgeService(db),
		ContestCron: NewContestCron(contests, claims),
	}
}

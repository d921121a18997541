package services

import (
	"context"
	"fmt"

	"github.com/Knacksterslab/byte-runner-backend/internal/logger"
	model "github.com/Knacksterslab/byte-runner-backend/internal/models"
)

const settlementLeaderboardSize = 500

type contestReconStore interface {
	ContestsToStart(ctx context.Context) ([]model.Contest, error)
	ExpiredActiveContests(ctx context.Context) ([]model.Contest, error)
	EndedContests(ctx context.Context) ([]model.Contest, error)
	SetContestStatus(ctx context.Context, id, status string) error
	Leaderboard(ctx context.Context, contestID string, limit int) ([]model.LeaderboardEntry, error)
}

type claimWriter interface {
	ClaimForContestUser(ctx context.Context, contestID, userID string) (*model.PrizeClaim, error)
	CreateClaim(ctx context.Context, contestID, userID string, rank int, prize string) (*model.PrizeClaim, error)
}

// ContestCron fait avancer les concours d'un statut au suivant et distribue
// les réclamations de prix quand un concours se termine
type ContestCron struct {
	contests contestReconStore
	claims   claimWriter
}

func NewContestCron(contests *ContestService, claims *PrizeClaimService) *ContestCron {
	return &ContestCron{contests: contests, claims: claims}
}

// Run exécute un passage complet de réconciliation. Chaque concours est
// traité indépendamment : une erreur sur l'un n'empêche pas les autres.
func (c *ContestCron) Run() {
	ctx := context.Background()
	c.startUpcoming(ctx)
	c.finishExpired(ctx)
	c.recoverEnded(ctx)
}

func (c *ContestCron) startUpcoming(ctx context.Context) {
	contests, err := c.contests.ContestsToStart(ctx)
	if err != nil {
		logger.Error("Contest reconciliation: could not list contests to start: %v", err)
		return
	}

	for _, contest := range contests {
		if err := c.contests.SetContestStatus(ctx, contest.ID, model.ContestStatusActive); err != nil {
			logger.Error("Contest reconciliation: could not activate %s: %v", contest.Slug, err)
			continue
		}
		logger.Cron("Contest %s is now active", contest.Slug)
	}
}

func (c *ContestCron) finishExpired(ctx context.Context) {
	contests, err := c.contests.ExpiredActiveContests(ctx)
	if err != nil {
		logger.Error("Contest reconciliation: could not list expired contests: %v", err)
		return
	}

	for _, contest := range contests {
		// Le règlement a lieu AVANT le changement de statut : si la
		// distribution échoue, le concours reste actif et sera retenté
		// au prochain passage
		if err := c.settle(ctx, &contest); err != nil {
			logger.Error("Contest reconciliation: settlement of %s failed: %v", contest.Slug, err)
			continue
		}
		if err := c.contests.SetContestStatus(ctx, contest.ID, model.ContestStatusEnded); err != nil {
			logger.Error("Contest reconciliation: could not end %s: %v", contest.Slug, err)
			continue
		}
		logger.Cron("Contest %s has ended, prize claims created", contest.Slug)
	}
}

// recoverEnded repasse sur les concours déjà terminés pour combler les
// réclamations manquantes après un arrêt en milieu de règlement
func (c *ContestCron) recoverEnded(ctx context.Context) {
	contests, err := c.contests.EndedContests(ctx)
	if err != nil {
		logger.Error("Contest reconciliation: could not list ended contests: %v", err)
		return
	}

	for _, contest := range contests {
		if err := c.settle(ctx, &contest); err != nil {
			logger.Error("Contest reconciliation: recovery of %s failed: %v", contest.Slug, err)
		}
	}
}

// settle crée une réclamation pour chaque rang doté du classement final.
// Idempotent : un joueur qui a déjà une réclamation pour ce concours n'en
// reçoit pas de seconde.
func (c *ContestCron) settle(ctx context.Context, contest *model.Contest) error {
	if len(contest.PrizePool) == 0 {
		return nil
	}

	ranked, err := c.contests.Leaderboard(ctx, contest.ID, settlementLeaderboardSize)
	if err != nil {
		return fmt.Errorf("leaderboard for %s: %w", contest.Slug, err)
	}
	if len(ranked) == 0 {
		return nil
	}

	for _, entry := range ranked {
		prize := PrizeForRank(entry.Rank, contest.PrizePool)
		if prize == "" {
			continue
		}

		existing, err := c.claims.ClaimForContestUser(ctx, contest.ID, entry.UserID)
		if err != nil {
			logger.Error("Contest reconciliation: claim lookup failed for user %s in %s: %v",
				entry.UserID, contest.Slug, err)
			continue
		}
		if existing != nil {
			continue
		}

		if _, err := c.claims.CreateClaim(ctx, contest.ID, entry.UserID, entry.Rank, prize); err != nil {
			logger.Error("Contest reconciliation: could not create claim for user %s in %s: %v",
				entry.UserID, contest.Slug, err)
			continue
		}
		logger.Cron("Prize claim created: %s rank %d in %s (%s)",
			entry.Username, entry.Rank, contest.Slug, prize)
	}

	return nil
}

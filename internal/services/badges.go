package services

import (
	"context"

	"github.com/Knacksterslab/byte-runner-backend/internal/logger"
	model "github.com/Knacksterslab/byte-runner-backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const badgeColumns = `id, name, description, emoji, category, tier,
	requirement_type, requirement_value, created_at`

// Seuils des badges, du nom vers le nombre requis
var shareBadges = []badgeThreshold{
	{"advocate", 1},
	{"promoter", 5},
	{"influencer", 15},
	{"ambassador", 50},
}

var runBadges = []badgeThreshold{
	{"newbie", 1},
	{"regular", 10},
	{"veteran", 50},
	{"legend", 100},
}

type badgeThreshold struct {
	name  string
	count int
}

type BadgeService struct {
	db *pgxpool.Pool
}

func NewBadgeService(db *pgxpool.Pool) *BadgeService {
	return &BadgeService{db: db}
}

func (s *BadgeService) AllBadges(ctx context.Context) ([]model.Badge, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+badgeColumns+` FROM badges ORDER BY category, requirement_value`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBadges(rows)
}

func (s *BadgeService) UserBadges(ctx context.Context, userID string) ([]model.UserBadge, error) {
	rows, err := s.db.Query(ctx, `
		SELECT ub.id, ub.user_id, ub.badge_id, ub.earned_at,
			b.id, b.name, b.description, b.emoji, b.category, b.tier,
			b.requirement_type, b.requirement_value, b.created_at
		FROM user_badges ub
		JOIN badges b ON b.id = ub.badge_id
		WHERE ub.user_id = $1
		ORDER BY ub.earned_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	userBadges := []model.UserBadge{}
	for rows.Next() {
		var ub model.UserBadge
		var b model.Badge
		err := rows.Scan(&ub.ID, &ub.UserID, &ub.BadgeID, &ub.EarnedAt,
			&b.ID, &b.Name, &b.Description, &b.Emoji, &b.Category, &b.Tier,
			&b.RequirementType, &b.RequirementValue, &b.CreatedAt)
		if err != nil {
			return nil, err
		}
		ub.Badge = &b
		userBadges = append(userBadges, ub)
	}
	return userBadges, rows.Err()
}

// AwardBadge attribue un badge par son nom, sans doublon
func (s *BadgeService) AwardBadge(ctx context.Context, userID, badgeName string) (*model.UserBadge, error) {
	var badgeID string
	err := s.db.QueryRow(ctx,
		`SELECT id FROM badges WHERE name = $1`, badgeName,
	).Scan(&badgeID)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var exists bool
	err = s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM user_badges WHERE user_id = $1 AND badge_id = $2)`,
		userID, badgeID,
	).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}

	var ub model.UserBadge
	err = s.db.QueryRow(ctx, `
		INSERT INTO user_badges(user_id, badge_id)
		VALUES($1, $2)
		RETURNING id, user_id, badge_id, earned_at`,
		userID, badgeID,
	).Scan(&ub.ID, &ub.UserID, &ub.BadgeID, &ub.EarnedAt)
	if err != nil {
		return nil, err
	}

	return &ub, nil
}

// CheckAndAward regarde les compteurs de runs et de partages du joueur et
// attribue les badges dont les seuils sont atteints. Best-effort : les
// erreurs sont loguées, jamais remontées au gameplay.
func (s *BadgeService) CheckAndAward(ctx context.Context, userID string) []model.UserBadge {
	awarded := []model.UserBadge{}

	var runCount, shareCount int
	if err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM runs WHERE user_id = $1`, userID,
	).Scan(&runCount); err != nil {
		logger.Error("Badge check: run count for %s failed: %v", userID, err)
		return awarded
	}
	if err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM shares WHERE user_id = $1`, userID,
	).Scan(&shareCount); err != nil {
		logger.Error("Badge check: share count for %s failed: %v", userID, err)
		return awarded
	}

	for _, t := range runBadges {
		if runCount < t.count {
			continue
		}
		ub, err := s.AwardBadge(ctx, userID, t.name)
		if err != nil {
			logger.Error("Badge check: could not award %s to %s: %v", t.name, userID, err)
			continue
		}
		if ub != nil {
			awarded = append(awarded, *ub)
		}
	}

	for _, t := range shareBadges {
		if shareCount < t.count {
			continue
		}
		ub, err := s.AwardBadge(ctx, userID, t.name)
		if err != nil {
			logger.Error("Badge check: could not award %s to %s: %v", t.name, userID, err)
			continue
		}
		if ub != nil {
			awarded = append(awarded, *ub)
		}
	}

	return awarded
}

// SetFeaturedBadge choisit le badge affiché sur les classements, nil pour
// ne plus en afficher
func (s *BadgeService) SetFeaturedBadge(ctx context.Context, userID string, badgeName *string) error {
	if badgeName != nil {
		var owned bool
		err := s.db.QueryRow(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM user_badges ub
				JOIN badges b ON b.id = ub.badge_id
				WHERE ub.user_id = $1 AND b.name = $2)`,
			userID, *badgeName,
		).Scan(&owned)
		if err != nil {
			return err
		}
		if !owned {
			return ErrNotFound
		}
	}

	tag, err := s.db.Exec(ctx,
		`UPDATE users SET featured_badge = $2 WHERE id = $1`,
		userID, badgeName)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collectBadges(rows pgx.Rows) ([]model.Badge, error) {
	badges := []model.Badge{}
	for rows.Next() {
		var b model.Badge
		err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.Emoji, &b.Category,
			&b.Tier, &b.RequirementType, &b.RequirementValue, &b.CreatedAt)
		if err != nil {
			return nil, err
		}
		badges = append(badges, b)
	}
	return badges, rows.Err()
}

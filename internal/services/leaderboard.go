package services

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/Knacksterslab/byte-runner-backend/internal/config"
	model "github.com/Knacksterslab/byte-runner-backend/internal/models"
	"github.com/Knacksterslab/byte-runner-backend/internal/utils"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RankEntries déduplique un classement : une seule entrée par joueur (sa
// meilleure au score, distance en départage), tri score décroissant puis
// distance décroissante, rangs denses à partir de 1. L'ordre d'entrée n'a
// pas d'importance.
func RankEntries(entries []model.LeaderboardEntry) []model.LeaderboardEntry {
	best := make(map[string]model.LeaderboardEntry)
	for _, e := range entries {
		key := e.UserID
		if key == "" {
			key = e.Username
		}
		existing, ok := best[key]
		if !ok || e.Score > existing.Score ||
			(e.Score == existing.Score && e.Distance > existing.Distance) {
			best[key] = e
		}
	}

	ranked := make([]model.LeaderboardEntry, 0, len(best))
	for _, e := range best {
		ranked = append(ranked, e)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Distance > ranked[j].Distance
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	return ranked
}

// LeaderboardService sert le classement public : meilleure run par joueur
// dans la fenêtre glissante configurée (24h par défaut)
type LeaderboardService struct {
	db          *pgxpool.Pool
	windowHours int
	now         func() time.Time
}

func NewLeaderboardService(db *pgxpool.Pool, cfg *config.Config) *LeaderboardService {
	return &LeaderboardService{
		db:          db,
		windowHours: cfg.LeaderboardWindowHours,
		now:         time.Now,
	}
}

func (s *LeaderboardService) Current(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	since := s.now().Add(-time.Duration(s.windowHours) * time.Hour)

	rows, err := s.db.Query(ctx, `
		SELECT r.user_id, COALESCE(u.username, 'Unknown'), r.score, r.distance, r.created_at, b.emoji
		FROM runs r
		JOIN users u ON u.id = r.user_id
		LEFT JOIN badges b ON b.name = u.featured_badge
		WHERE r.created_at >= $1
		ORDER BY r.score DESC, r.distance DESC`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		var emoji sql.NullString
		if err := rows.Scan(&e.UserID, &e.Username, &e.Score, &e.Distance, &e.CreatedAt, &emoji); err != nil {
			return nil, err
		}
		e.BadgeEmoji = utils.NullStringToPointer(emoji)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ranked := RankEntries(entries)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked, nil
}

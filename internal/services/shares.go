package services

import (
	"context"

	model "github.com/Knacksterslab/byte-runner-backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ShareService struct {
	db *pgxpool.Pool
}

func NewShareService(db *pgxpool.Pool) *ShareService {
	return &ShareService{db: db}
}

// RecordShare enregistre un partage et crédite un jeton de reprise
func (s *ShareService) RecordShare(ctx context.Context, userID string, req model.RecordShareRequest) (*model.Share, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var share model.Share
	err = tx.QueryRow(ctx, `
		INSERT INTO shares(user_id, run_id, score, platform)
		VALUES($1, $2, $3, $4)
		RETURNING id, user_id, run_id, score, platform, created_at`,
		userID, req.RunID, req.Score, req.Platform,
	).Scan(&share.ID, &share.UserID, &share.RunID,
		&share.Score, &share.Platform, &share.CreatedAt)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE users SET continue_tokens = continue_tokens + 1 WHERE id = $1`,
		userID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &share, nil
}

func (s *ShareService) CountShares(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM shares WHERE user_id = $1`, userID,
	).Scan(&count)
	return count, err
}

func (s *ShareService) UserShares(ctx context.Context, userID string, limit int) ([]model.Share, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, run_id, score, platform, created_at
		FROM shares
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shares := []model.Share{}
	for rows.Next() {
		var sh model.Share
		if err := rows.Scan(&sh.ID, &sh.UserID, &sh.RunID,
			&sh.Score, &sh.Platform, &sh.CreatedAt); err != nil {
			return nil, err
		}
		shares = append(shares, sh)
	}
	return shares, rows.Err()
}

// ShareStats agrège les partages par plateforme
func (s *ShareService) ShareStats(ctx context.Context, userID string) (map[string]int, error) {
	rows, err := s.db.Query(ctx, `
		SELECT platform, COUNT(*)
		FROM shares
		WHERE user_id = $1
		GROUP BY platform`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := map[string]int{}
	for rows.Next() {
		var platform string
		var count int
		if err := rows.Scan(&platform, &count); err != nil {
			return nil, err
		}
		stats[platform] = count
	}
	return stats, rows.Err()
}

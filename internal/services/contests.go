package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	model "github.com/Knacksterslab/byte-runner-backend/internal/models"
	"github.com/Knacksterslab/byte-runner-backend/internal/scanner"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const contestColumns = `id, name, slug, description, start_date, end_date,
	contest_timezone, status, prize_pool, rules, max_entries_per_user,
	created_at, updated_at`

const defaultMaxEntriesPerUser = 999

type ContestService struct {
	db  *pgxpool.Pool
	now func() time.Time
}

func NewContestService(db *pgxpool.Pool) *ContestService {
	return &ContestService{db: db, now: time.Now}
}

// ActiveContests retourne les concours ouverts aux inscriptions (actifs ou à
// venir, pas encore terminés)
func (s *ContestService) ActiveContests(ctx context.Context) ([]model.Contest, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+contestColumns+`
		FROM contests
		WHERE status IN ($1, $2) AND end_date >= NOW()
		ORDER BY start_date DESC`,
		model.ContestStatusActive, model.ContestStatusUpcoming)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectContests(rows)
}

func (s *ContestService) AllContests(ctx context.Context, status string) ([]model.Contest, error) {
	query := `SELECT ` + contestColumns + ` FROM contests`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY start_date DESC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectContests(rows)
}

func (s *ContestService) ContestByID(ctx context.Context, id string) (*model.Contest, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+contestColumns+` FROM contests WHERE id = $1`, id)

	contest, err := scanner.ScanContest(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return contest, err
}

func (s *ContestService) ContestBySlug(ctx context.Context, slug string) (*model.Contest, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+contestColumns+` FROM contests WHERE slug = $1`, slug)

	contest, err := scanner.ScanContest(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return contest, err
}

func (s *ContestService) ContestByIDOrSlug(ctx context.Context, idOrSlug string) (*model.Contest, error) {
	if _, err := uuid.Parse(idOrSlug); err == nil {
		return s.ContestByID(ctx, idOrSlug)
	}
	return s.ContestBySlug(ctx, idOrSlug)
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9\s-]`)
var slugSpaces = regexp.MustCompile(`\s+`)
var slugDashes = regexp.MustCompile(`-+`)

func generateSlug(name string) string {
	slug := strings.ToLower(name)
	slug = slugCleaner.ReplaceAllString(slug, "")
	slug = slugSpaces.ReplaceAllString(slug, "-")
	slug = slugDashes.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func (s *ContestService) CreateContest(ctx context.Context, req model.CreateContestRequest) (*model.Contest, error) {
	slug := req.Slug
	if slug == "" {
		slug = generateSlug(req.Name)
	}
	timezone := req.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	status := req.Status
	if status == "" {
		status = model.ContestStatusUpcoming
	}
	maxEntries := req.MaxEntriesPerUser
	if maxEntries == 0 {
		maxEntries = defaultMaxEntriesPerUser
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO contests(name, slug, description, start_date, end_date,
			contest_timezone, status, prize_pool, rules, max_entries_per_user)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9::jsonb, $10)
		RETURNING `+contestColumns,
		req.Name, slug, req.Description, req.StartDate, req.EndDate,
		timezone, status, jsonOrNil(req.PrizePool), jsonOrNil(req.Rules), maxEntries)

	return scanner.ScanContest(row)
}

func (s *ContestService) UpdateContest(ctx context.Context, id string, req model.UpdateContestRequest) (*model.Contest, error) {
	contest, err := s.ContestByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		contest.Name = *req.Name
	}
	if req.Slug != nil {
		contest.Slug = *req.Slug
	}
	if req.Description != nil {
		contest.Description = req.Description
	}
	if req.StartDate != nil {
		contest.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		contest.EndDate = *req.EndDate
	}
	if req.Timezone != nil {
		contest.Timezone = *req.Timezone
	}
	if req.Status != nil {
		contest.Status = *req.Status
	}
	if req.PrizePool != nil {
		contest.PrizePool = req.PrizePool
	}
	if req.Rules != nil {
		contest.Rules = req.Rules
	}
	if req.MaxEntriesPerUser != nil {
		contest.MaxEntriesPerUser = *req.MaxEntriesPerUser
	}

	row := s.db.QueryRow(ctx, `
		UPDATE contests
		SET name = $2, slug = $3, description = $4, start_date = $5,
			end_date = $6, contest_timezone = $7, status = $8,
			prize_pool = $9::jsonb, rules = $10::jsonb,
			max_entries_per_user = $11, updated_at = NOW()
		WHERE id = $1
		RETURNING `+contestColumns,
		id, contest.Name, contest.Slug, contest.Description, contest.StartDate,
		contest.EndDate, contest.Timezone, contest.Status,
		jsonOrNil(contest.PrizePool), jsonOrNil(contest.Rules),
		contest.MaxEntriesPerUser)

	updated, err := scanner.ScanContest(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return updated, err
}

func (s *ContestService) DeleteContest(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM contests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetContestStatus change uniquement le statut (utilisé par la réconciliation)
func (s *ContestService) SetContestStatus(ctx context.Context, id, status string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE contests SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// EnterContest inscrit un run dans un concours. La contrainte d'unicité
// (contest_id, run_id) empêche d'inscrire deux fois le même run.
func (s *ContestService) EnterContest(ctx context.Context, contest *model.Contest, userID, runID string, score, distance int) (*model.ContestEntry, error) {
	now := s.now()
	if now.After(contest.EndDate) {
		return nil, fmt.Errorf("%w: contest has ended", ErrContestClosed)
	}
	if contest.Status != model.ContestStatusActive && contest.Status != model.ContestStatusUpcoming {
		return nil, ErrContestClosed
	}

	if contest.MaxEntriesPerUser > 0 {
		var entryCount int
		err := s.db.QueryRow(ctx,
			`SELECT COUNT(*) FROM contest_entries WHERE contest_id = $1 AND user_id = $2`,
			contest.ID, userID,
		).Scan(&entryCount)
		if err != nil {
			return nil, err
		}
		if entryCount >= contest.MaxEntriesPerUser {
			return nil, ErrEntryLimit
		}
	}

	var entry model.ContestEntry
	err := s.db.QueryRow(ctx, `
		INSERT INTO contest_entries(contest_id, user_id, run_id, score, distance)
		VALUES($1, $2, $3, $4, $5)
		RETURNING id, contest_id, user_id, run_id, score, distance, created_at`,
		contest.ID, userID, runID, score, distance,
	).Scan(&entry.ID, &entry.ContestID, &entry.UserID, &entry.RunID,
		&entry.Score, &entry.Distance, &entry.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: this run is already entered in the contest", ErrDuplicateEntry)
		}
		return nil, err
	}

	return &entry, nil
}

// Leaderboard calcule le classement final d'un concours : meilleure entrée
// par joueur, score décroissant, distance en départage
func (s *ContestService) Leaderboard(ctx context.Context, contestID string, limit int) ([]model.LeaderboardEntry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT ce.user_id, COALESCE(u.username, 'Unknown'), ce.score, ce.distance, ce.created_at
		FROM contest_entries ce
		JOIN users u ON u.id = ce.user_id
		WHERE ce.contest_id = $1
		ORDER BY ce.score DESC, ce.distance DESC`, contestID)
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
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ranked := RankEntries(entries)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked, nil
}

func (s *ContestService) UserEntries(ctx context.Context, contestID, userID string) ([]model.ContestEntry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, contest_id, user_id, run_id, score, distance, created_at
		FROM contest_entries
		WHERE contest_id = $1 AND user_id = $2
		ORDER BY score DESC, distance DESC`, contestID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.ContestEntry{}
	for rows.Next() {
		var e model.ContestEntry
		if err := rows.Scan(&e.ID, &e.ContestID, &e.UserID, &e.RunID,
			&e.Score, &e.Distance, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// UserRank retourne le rang d'un joueur dans un concours, nil s'il n'a
// aucune entrée
func (s *ContestService) UserRank(ctx context.Context, contestID, userID string) (*int, error) {
	ranked, err := s.Leaderboard(ctx, contestID, settlementLeaderboardSize)
	if err != nil {
		return nil, err
	}

	for _, e := range ranked {
		if e.UserID == userID {
			rank := e.Rank
			return &rank, nil
		}
	}
	return nil, nil
}

// PrizeForRank cherche le prix d'un rang : correspondance exacte d'abord,
// puis les plages inclusives du type "4-10"
func PrizeForRank(rank int, prizePool map[string]string) string {
	if prizePool == nil {
		return ""
	}

	if prize, ok := prizePool[strconv.Itoa(rank)]; ok {
		return prize
	}

	for key, prize := range prizePool {
		start, end, ok := parseRankRange(key)
		if ok && rank >= start && rank <= end {
			return prize
		}
	}

	return ""
}

func parseRankRange(key string) (int, int, bool) {
	parts := strings.SplitN(key, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	start, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	end, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return start, end, true
}

// Requêtes de la réconciliation périodique

func (s *ContestService) ContestsToStart(ctx context.Context) ([]model.Contest, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+contestColumns+`
		FROM contests
		WHERE status = $1 AND start_date <= NOW()`,
		model.ContestStatusUpcoming)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectContests(rows)
}

func (s *ContestService) ExpiredActiveContests(ctx context.Context) ([]model.Contest, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+contestColumns+`
		FROM contests
		WHERE status = $1 AND end_date < NOW()`,
		model.ContestStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectContests(rows)
}

func (s *ContestService) EndedContests(ctx context.Context) ([]model.Contest, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+contestColumns+`
		FROM contests
		WHERE status = $1`,
		model.ContestStatusEnded)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectContests(rows)
}

func collectContests(rows pgx.Rows) ([]model.Contest, error) {
	contests := []model.Contest{}
	for rows.Next() {
		c, err := scanner.ScanContest(rows)
		if err != nil {
			return nil, err
		}
		contests = append(contests, *c)
	}
	return contests, rows.Err()
}

func jsonOrNil(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]string:
		if val == nil {
			return nil
		}
	case map[string]interface{}:
		if val == nil {
			return nil
		}
	case nil:
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return string(b)
}

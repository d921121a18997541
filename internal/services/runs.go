package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Knacksterslab/byte-runner-backend/internal/config"
	"github.com/Knacksterslab/byte-runner-backend/internal/logger"
	model "github.com/Knacksterslab/byte-runner-backend/internal/models"
	"github.com/Knacksterslab/byte-runner-backend/internal/scanner"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// runTokenClaims est le contenu signé d'un token de run : le joueur et
// l'horodatage serveur du départ
type runTokenClaims struct {
	StartedAt int64 `json:"startedAt"`
	jwt.RegisteredClaims
}

type RunService struct {
	db                   *pgxpool.Pool
	contests             *ContestService
	secret               []byte
	ttl                  time.Duration
	maxScorePerSecond    int
	maxDistancePerSecond int
	now                  func() time.Time
}

func NewRunService(db *pgxpool.Pool, contests *ContestService, cfg *config.Config) *RunService {
	return &RunService{
		db:                   db,
		contests:             contests,
		secret:               []byte(cfg.RunTokenSecret),
		ttl:                  time.Duration(cfg.RunTokenTTLSeconds) * time.Second,
		maxScorePerSecond:    cfg.MaxScorePerSecond,
		maxDistancePerSecond: cfg.MaxDistancePerSecond,
		now:                  time.Now,
	}
}

// StartRun émet un token signé et borné dans le temps pour une partie
func (s *RunService) StartRun(userID string) (string, error) {
	now := s.now()
	claims := runTokenClaims{
		StartedAt: now.UnixMilli(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// parseRunToken vérifie la signature et que le token appartient bien au joueur
func (s *RunService) parseRunToken(tokenString, userID string) (time.Time, error) {
	claims := &runTokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return time.Time{}, ErrInvalidToken
	}

	if claims.Subject != userID {
		return time.Time{}, ErrInvalidToken
	}

	return time.UnixMilli(claims.StartedAt), nil
}

// effectiveDurationMs retourne la durée effective : le temps mesuré côté
// serveur est un plancher, un client ne peut pas prétendre avoir joué plus
// longtemps que le temps réellement écoulé
func effectiveDurationMs(claimedMs, serverMs int64) int64 {
	if serverMs < 0 {
		serverMs = 0
	}
	if claimedMs > serverMs {
		return claimedMs
	}
	return serverMs
}

// durationSeconds arrondit au supérieur, avec un plancher d'une seconde
func durationSeconds(durationMs int64) int {
	secs := int((durationMs + 999) / 1000)
	if secs < 1 {
		secs = 1
	}
	return secs
}

// FinishRun valide le token et la plausibilité physique du score, enregistre
// le run puis l'inscrit automatiquement dans les concours ouverts
func (s *RunService) FinishRun(ctx context.Context, user *model.User, req model.FinishRunRequest) (*model.RunResult, error) {
	startedAt, err := s.parseRunToken(req.RunToken, user.ID)
	if err != nil {
		return nil, err
	}

	serverMs := s.now().Sub(startedAt).Milliseconds()
	durationMs := effectiveDurationMs(req.DurationMs, serverMs)
	seconds := durationSeconds(durationMs)

	if req.Score > s.maxScorePerSecond*seconds {
		return nil, fmt.Errorf("%w: score exceeds maximum allowed rate", ErrRateExceeded)
	}
	if req.Distance > s.maxDistancePerSecond*seconds {
		return nil, fmt.Errorf("%w: distance exceeds maximum allowed rate", ErrRateExceeded)
	}

	if user.Username == "" {
		return nil, ErrUsernameRequired
	}

	run := model.Run{
		UserID:        user.ID,
		Score:         req.Score,
		Distance:      req.Distance,
		DurationMs:    durationMs,
		ClientVersion: req.ClientVersion,
	}

	var clientVersion interface{}
	if req.ClientVersion != "" {
		clientVersion = req.ClientVersion
	}

	err = s.db.QueryRow(ctx, `
		INSERT INTO runs(user_id, score, distance, duration_ms, client_version)
		VALUES($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		user.ID, req.Score, req.Distance, durationMs, clientVersion,
	).Scan(&run.ID, &run.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to submit run: %w", err)
	}

	return &model.RunResult{
		Run:             run,
		EnteredContests: s.autoEnterContests(ctx, user.ID, &run),
	}, nil
}

// RunByIDForUser charge un run en vérifiant qu'il appartient bien au joueur.
// Un run d'un autre joueur est indiscernable d'un run inexistant.
func (s *RunService) RunByIDForUser(ctx context.Context, runID, userID string) (*model.Run, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, score, distance, duration_ms, client_version, created_at
		FROM runs
		WHERE id = $1 AND user_id = $2`, runID, userID)

	run, err := scanner.ScanRun(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return run, err
}

// autoEnterContests inscrit le run dans tous les concours ouverts ; chaque
// échec individuel (run déjà inscrit, concours clos entre-temps) est avalé
// et ne fait pas échouer la soumission du run
func (s *RunService) autoEnterContests(ctx context.Context, userID string, run *model.Run) []string {
	entered := []string{}

	contests, err := s.contests.ActiveContests(ctx)
	if err != nil {
		logger.Warning("Failed to fetch active contests for auto-entry: %v", err)
		return entered
	}

	for i := range contests {
		contest := &contests[i]
		if _, err := s.contests.EnterContest(ctx, contest, userID, run.ID, run.Score, run.Distance); err != nil {
			logger.Info("Skipped contest %s for run %s: %v", contest.ID, run.ID, err)
			continue
		}
		entered = append(entered, contest.Name)
	}

	return entered
}

// UserStats retourne les statistiques d'un joueur : meilleur run, nombre de
// parties et rang dans la fenêtre glissante de 24h
func (s *RunService) UserStats(ctx context.Context, userID string) (*model.RunStats, error) {
	stats := &model.RunStats{}

	err := s.db.QueryRow(ctx, `
		SELECT COALESCE(MAX(score), 0),
		       COALESCE(MAX(distance), 0),
		       COUNT(*)
		FROM runs
		WHERE user_id = $1`, userID,
	).Scan(&stats.BestScore, &stats.BestDistance, &stats.TotalRuns)
	if err != nil {
		return nil, err
	}

	since := s.now().Add(-24 * time.Hour)
	rows, err := s.db.Query(ctx, `
		SELECT r.user_id, COALESCE(u.username, 'Unknown'), r.score, r.distance, r.created_at
		FROM runs r
		JOIN users u ON u.id = r.user_id
		WHERE r.created_at >= $1
		ORDER BY r.score DESC, r.distance DESC`, since)
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

	for _, e := range RankEntries(entries) {
		if e.UserID == userID {
			rank := e.Rank
			stats.Rank = &rank
			break
		}
	}

	return stats, nil
}

package services

import (
	"context"
	"strings"

	model "github.com/Knacksterslab/byte-runner-backend/internal/models"
	"github.com/Knacksterslab/byte-runner-backend/internal/scanner"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, subject_id, email, username, balance_cents,
	continue_tokens, featured_badge, last_withdrawal_at, created_at`

type UserService struct {
	db *pgxpool.Pool
}

func NewUserService(db *pgxpool.Pool) *UserService {
	return &UserService{db: db}
}

// GetOrCreateBySubject retrouve le compte lié à l'identité du fournisseur
// d'authentification, en le créant au premier passage
func (s *UserService) GetOrCreateBySubject(ctx context.Context, subjectID, email string) (*model.User, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE subject_id = $1`, subjectID)

	user, err := scanner.ScanUser(row)
	if err == nil {
		if email != "" && user.Email != email {
			_, err = s.db.Exec(ctx,
				`UPDATE users SET email = $2 WHERE id = $1`, user.ID, email)
			if err != nil {
				return nil, err
			}
			user.Email = email
		}
		return user, nil
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}

	row = s.db.QueryRow(ctx, `
		INSERT INTO users(subject_id, email)
		VALUES($1, $2)
		RETURNING `+userColumns,
		subjectID, email)

	return scanner.ScanUser(row)
}

func (s *UserService) UserByID(ctx context.Context, id string) (*model.User, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	user, err := scanner.ScanUser(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return user, err
}

// SetUsername définit le pseudo public, unique sans tenir compte de la casse
func (s *UserService) SetUsername(ctx context.Context, userID, username string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}

	var taken bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username ILIKE $1 AND id <> $2)`,
		username, userID,
	).Scan(&taken)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	row := s.db.QueryRow(ctx, `
		UPDATE users SET username = $2 WHERE id = $1
		RETURNING `+userColumns,
		userID, username)

	user, err := scanner.ScanUser(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return user, err
}

// SpendContinueToken décrémente un jeton de reprise, sans passer sous zéro
func (s *UserService) SpendContinueToken(ctx context.Context, userID string) (*model.User, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE users SET continue_tokens = continue_tokens - 1
		WHERE id = $1 AND continue_tokens > 0
		RETURNING `+userColumns,
		userID)

	user, err := scanner.ScanUser(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return user, err
}

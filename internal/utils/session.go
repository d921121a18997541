package utils

import (
	"context"
	"time"

	"github.com/Knacksterslab/byte-runner-backend/internal/database"
	model "github.com/Knacksterslab/byte-runner-backend/internal/models"
	"github.com/google/uuid"
)

// Durée de validité d'une session
const SessionDuration = 24 * time.Hour

// CreateSession génère un token de session pour un utilisateur
func CreateSession(ctx context.Context, userID string) (*model.Session, error) {
	token := uuid.New().String()
	expiresAt := time.Now().Add(SessionDuration)

	var session model.Session
	err := database.DB.QueryRow(ctx, `
		INSERT INTO sessions(user_id, token, is_active, expires_at)
		VALUES($1, $2, true, $3)
		RETURNING id, user_id, token, is_active, created_at, expires_at`,
		userID, token, expiresAt,
	).Scan(&session.ID, &session.UserID, &session.Token,
		&session.IsActive, &session.CreatedAt, &session.ExpiresAt)
	if err != nil {
		return nil, err
	}

	return &session, nil
}

// InvalidateSession désactive une session (déconnexion)
func InvalidateSession(ctx context.Context, token string) error {
	_, err := database.DB.Exec(ctx,
		`UPDATE sessions SET is_active = false WHERE token = $1`, token)
	return err
}

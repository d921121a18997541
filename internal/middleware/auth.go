package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Knacksterslab/byte-runner-backend/internal/config"
	"github.com/Knacksterslab/byte-runner-backend/internal/database"
	model "github.com/Knacksterslab/byte-runner-backend/internal/models"
	"github.com/Knacksterslab/byte-runner-backend/internal/scanner"
	"github.com/Knacksterslab/byte-runner-backend/internal/utils"
	"github.com/jackc/pgx/v5"
)

// Context keys
type contextKey string

const (
	userContextKey  = contextKey("user")
	tokenContextKey = contextKey("token")
)

var adminEmails []string

// Init mémorise la liste des emails administrateurs
func Init(cfg *config.Config) {
	adminEmails = cfg.AdminEmails
}

// AuthMiddleware valide le token de session et injecte l'utilisateur dans le contexte
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" {
			utils.ErrorSimple(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		user, err := validateTokenAndGetUser(r.Context(), token)
		if err != nil {
			utils.ErrorSimple(w, http.StatusUnauthorized, fmt.Sprintf("invalid token: %v", err))
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, *user)
		ctx = context.WithValue(ctx, tokenContextKey, token)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// validateTokenAndGetUser valide le token et retourne l'utilisateur associé
func validateTokenAndGetUser(ctx context.Context, token string) (*model.User, error) {
	row := database.DB.QueryRow(ctx, `
	SELECT
		u.id, u.subject_id, u.email, u.username, u.balance_cents,
		u.continue_tokens, u.featured_badge, u.last_withdrawal_at, u.created_at
	FROM users u
	JOIN sessions s ON u.id = s.user_id
	WHERE s.token = $1
		AND s.is_active = true
		AND s.expires_at > NOW()`, token)

	user, err := scanner.ScanUser(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("token not found or expired")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return user, nil
}

// GetUserFromContext récupère l'utilisateur depuis le contexte de la requête
func GetUserFromContext(r *http.Request) (model.User, error) {
	user, ok := r.Context().Value(userContextKey).(model.User)
	if !ok {
		return model.User{}, fmt.Errorf("user not found in context")
	}
	return user, nil
}

// IsAdmin vérifie si l'utilisateur courant figure dans la liste des admins
func IsAdmin(r *http.Request) bool {
	user, err := GetUserFromContext(r)
	if err != nil || user.Email == "" {
		return false
	}
	for _, email := range adminEmails {
		if strings.EqualFold(email, user.Email) {
			return true
		}
	}
	return false
}

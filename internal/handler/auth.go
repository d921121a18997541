package handler

import (
	"net/http"
	"strings"
	"time"

	model "github.com/Knacksterslab/byte-runner-backend/internal/models"
	"github.com/Knacksterslab/byte-runner-backend/internal/utils"
)

type SessionRequest struct {
	SubjectID string `json:"subjectId"`
	Email     string `json:"email,omitempty"`
}

type SessionResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      *model.User `json:"user"`
}

// CreateSession échange l'identité vérifiée par le fournisseur d'auth
// contre un token de session
func CreateSession(w http.ResponseWriter, r *http.Request) {
	var req SessionRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}
	req.SubjectID = strings.TrimSpace(req.SubjectID)
	if req.SubjectID == "" {
		utils.ErrorSimple(w, http.StatusBadRequest, "subjectId is required")
		return
	}

	ctx := r.Context()
	user, err := svc.Users.GetOrCreateBySubject(ctx, req.SubjectID, req.Email)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Could not resolve user", err)
		return
	}

	session, err := utils.CreateSession(ctx, user.ID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Could not create session", err)
		return
	}

	utils.Success(w, SessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      user,
	})
}

// Logout désactive la session courante
func Logout(w http.ResponseWriter, r *http.Request) {
	token, err := utils.GetToken(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "Missing token", err)
		return
	}
	token = strings.TrimPrefix(token, "Bearer ")

	if err := utils.InvalidateSession(r.Context(), token); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Could not invalidate session", err)
		return
	}

	utils.Message(w, "logged out")
}

package handler

import (
	"errors"
	"net/http"

	"github.com/Knacksterslab/byte-runner-backend/internal/middleware"
	"github.com/Knacksterslab/byte-runner-backend/internal/services"
	"github.com/Knacksterslab/byte-runner-backend/internal/utils"
)

// Me retourne le profil du joueur connecté
func Me(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	utils.Success(w, user)
}

type SetUsernameRequest struct {
	Username string `json:"username"`
}

// SetUsername définit le pseudo public, requis avant tout enregistrement
// de run
func SetUsername(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req SetUsernameRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}

	updated, err := svc.Users.SetUsername(r.Context(), user.ID, req.Username)
	if err != nil {
		serviceError(w, err, "Could not set username")
		return
	}

	utils.Success(w, updated)
}

// SpendContinueToken consomme un jeton de reprise de partie
func SpendContinueToken(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	updated, err := svc.Users.SpendContinueToken(r.Context(), user.ID)
	if errors.Is(err, services.ErrNotFound) {
		utils.ErrorSimple(w, http.StatusBadRequest, "No continue tokens available")
		return
	}
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Could not spend continue token", err)
		return
	}

	utils.Success(w, updated)
}

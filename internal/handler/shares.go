package handler

import (
	"net/http"

	"github.com/Knacksterslab/byte-runner-backend/internal/middleware"
	model "github.com/Knacksterslab/byte-runner-backend/internal/models"
	"github.com/Knacksterslab/byte-runner-backend/internal/utils"
)

// RecordShare enregistre un partage social et crédite un jeton de reprise
func RecordShare(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req model.RecordShareRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}
	if req.Platform == "" {
		utils.ErrorSimple(w, http.StatusBadRequest, "platform is required")
		return
	}

	share, err := svc.Shares.RecordShare(r.Context(), user.ID, req)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Could not record share", err)
		return
	}

	svc.Badges.CheckAndAward(r.Context(), user.ID)

	utils.Success(w, share)
}

// MyShareStats agrège les partages du joueur par plateforme
func MyShareStats(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	stats, err := svc.Shares.ShareStats(r.Context(), user.ID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Could not load share stats", err)
		return
	}

	utils.Success(w, stats)
}

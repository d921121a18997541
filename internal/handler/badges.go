package handler

import (
	"net/http"

	"github.com/Knacksterslab/byte-runner-backend/internal/middleware"
	"github.com/Knacksterslab/byte-runner-backend/internal/utils"
)

func AllBadges(w http.ResponseWriter, r *http.Request) {
	badges, err := svc.Badges.AllBadges(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Could not load badges", err)
		return
	}

	utils.Success(w, badges)
}

func MyBadges(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	badges, err := svc.Badges.UserBadges(r.Context(), user.ID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Could not load badges", err)
		return
	}

	utils.Success(w, badges)
}

type SetFeaturedBadgeRequest struct {
	BadgeName *string `json:"badgeName"`
}

// SetFeaturedBadge choisit le badge affiché à côté du pseudo sur les
// classements
func SetFeaturedBadge(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req SetFeaturedBadgeRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}

	if err := svc.Badges.SetFeaturedBadge(r.Context(), user.ID, req.BadgeName); err != nil {
		serviceError(w, err, "Could not set featured badge")
		return
	}

	utils.Message(w, "featured badge updated")
}

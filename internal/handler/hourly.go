package handler

import (
	"net/http"

	"github.com/Knacksterslab/byte-runner-backend/internal/middleware"
	"github.com/Knacksterslab/byte-runner-backend/internal/utils"
)

// CurrentHourlyChallenge retourne le défi de l'heure en cours
func CurrentHourlyChallenge(w http.ResponseWriter, r *http.Request) {
	challenge, err := svc.Hourly.CurrentChallenge(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Could not load hourly challenge", err)
		return
	}

	utils.Success(w, challenge)
}

// HourlyLeaderboard classe les meilleurs runs de l'heure en cours
func HourlyLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := utils.QueryInt(r, "limit", 20)
	ranked, err := svc.Hourly.Leaderboard(r.Context(), limit)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Could not load hourly leaderboard", err)
		return
	}

	utils.Success(w, ranked)
}

// MyHourlyEntries liste les runs du joueur connecté pour l'heure en cours
func MyHourlyEntries(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	entries, err := svc.Hourly.UserEntries(r.Context(), user.ID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Could not load hourly entries", err)
		return
	}

	utils.Success(w, entries)
}

// RecentHourlyChallenges liste les derniers défis horaires et leurs gagnants
func RecentHourlyChallenges(w http.ResponseWriter, r *http.Request) {
	limit := utils.QueryInt(r, "limit", 24)
	challenges, err := svc.Hourly.RecentChallenges(r.Context(), limit)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Could not load hourly challenges", err)
		return
	}

	utils.Success(w, challenges)
}

// TriggerHourlySettlement force la clôture de l'heure précédente (admin)
func TriggerHourlySettlement(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "Admin access required")
		return
	}

	svc.Hourly.ProcessHourly()
	utils.Message(w, "hourly settlement executed")
}

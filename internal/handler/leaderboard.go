package handler

import (
	"net/http"

	"github.com/Knacksterslab/byte-runner-backend/internal/utils"
)

// GlobalLeaderboard retourne le classement glissant des dernières 24 heures
func GlobalLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := utils.QueryInt(r, "limit", 50)
	ranked, err := svc.Leaderboard.Current(r.Context(), limit)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Could not load leaderboard", err)
		return
	}

	utils.Success(w, ranked)
}

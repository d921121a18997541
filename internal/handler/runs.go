package handler

import (
	"net/http"

	"github.com/Knacksterslab/byte-runner-backend/internal/middleware"
	model "github.com/Knacksterslab/byte-runner-backend/internal/models"
	"github.com/Knacksterslab/byte-runner-backend/internal/utils"
)

// StartRun délivre un token de run signé, à renvoyer tel quel à la fin
// de la partie
func StartRun(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	token, err := svc.Runs.StartRun(user.ID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Could not start run", err)
		return
	}

	utils.Success(w, map[string]string{"runToken": token})
}

// FinishRun valide et enregistre un run terminé
func FinishRun(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req model.FinishRunRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}
	if req.RunToken == "" {
		utils.ErrorSimple(w, http.StatusBadRequest, "runToken is required")
		return
	}
	if req.Score < 0 || req.Distance < 0 || req.DurationMs < 0 {
		utils.ErrorSimple(w, http.StatusBadRequest, "score, distance and durationMs must be non-negative")
		return
	}

	result, err := svc.Runs.FinishRun(r.Context(), &user, req)
	if err != nil {
		serviceError(w, err, "Could not record run")
		return
	}

	// L'attribution de badges n'est jamais bloquante pour le gameplay
	svc.Badges.CheckAndAward(r.Context(), user.ID)

	utils.Success(w, result)
}

// MyRunStats retourne les records et le rang du joueur connecté
func MyRunStats(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	stats, err := svc.Runs.UserStats(r.Context(), user.ID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Could not load run stats", err)
		return
	}

	utils.Success(w, stats)
}

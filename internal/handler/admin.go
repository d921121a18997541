package handler

import (
	"net/http"

	"github.com/Knacksterslab/byte-runner-backend/internal/middleware"
	"github.com/Knacksterslab/byte-runner-backend/internal/utils"
	"github.com/gorilla/mux"
)

// UserFraudFlags liste les signalements anti-fraude d'un joueur (admin)
func UserFraudFlags(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "Admin access required")
		return
	}

	userID := mux.Vars(r)["userId"]
	limit := utils.QueryInt(r, "limit", 50)

	flags, err := svc.Fraud.UserFlags(r.Context(), userID, limit)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Could not load fraud flags", err)
		return
	}

	score, err := svc.Fraud.Score(r.Context(), userID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Could not compute fraud score", err)
		return
	}

	utils.Success(w, map[string]interface{}{
		"fraudScore": score,
		"flags":      flags,
	})
}

// UserEligibility vérifie l'éligibilité d'un joueur aux prix (admin)
func UserEligibility(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "Admin access required")
		return
	}

	result, err := svc.Fraud.IsEligibleForPrize(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Could not check eligibility", err)
		return
	}

	utils.Success(w, result)
}

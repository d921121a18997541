package handler

import (
	"errors"
	"net/http"

	"github.com/Knacksterslab/byte-runner-backend/internal/services"
	"github.com/Knacksterslab/byte-runner-backend/internal/utils"
)

// svc est le registre des services, câblé une fois au démarrage
var svc *services.Registry

func Init(registry *services.Registry) {
	svc = registry
}

func HealthCheck(w http.ResponseWriter, r *http.Request) {
	utils.Message(w, "ok")
}

// serviceError traduit les erreurs métier en réponses HTTP
func serviceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.Error(w, http.StatusNotFound, "Resource not found", err)
	case errors.Is(err, services.ErrInvalidToken):
		utils.Error(w, http.StatusUnauthorized, "Invalid or expired run token", err)
	case errors.Is(err, services.ErrRateExceeded):
		utils.Error(w, http.StatusUnprocessableEntity, "Run rejected by validation", err)
	case errors.Is(err, services.ErrUsernameRequired):
		utils.Error(w, http.StatusBadRequest, "Username is required", err)
	case errors.Is(err, services.ErrUsernameTaken):
		utils.Error(w, http.StatusConflict, "Username already taken", err)
	case errors.Is(err, services.ErrNotEligible):
		utils.Error(w, http.StatusForbidden, err.Error(), err)
	case errors.Is(err, services.ErrBelowMinimum):
		utils.Error(w, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, services.ErrInsufficientBalance):
		utils.Error(w, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, services.ErrDuplicateEntry):
		utils.Error(w, http.StatusConflict, "Duplicate contest entry", err)
	case errors.Is(err, services.ErrContestClosed):
		utils.Error(w, http.StatusBadRequest, "Contest is not open for entries", err)
	case errors.Is(err, services.ErrEntryLimit):
		utils.Error(w, http.StatusBadRequest, "Entry limit reached for this contest", err)
	case errors.Is(err, services.ErrAlreadySubmitted):
		utils.Error(w, http.StatusConflict, "Claim has already been submitted", err)
	default:
		utils.Error(w, http.StatusInternalServerError, fallback, err)
	}
}

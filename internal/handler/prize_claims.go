package handler

import (
	"net/http"

	"github.com/Knacksterslab/byte-runner-backend/internal/middleware"
	"github.com/Knacksterslab/byte-runner-backend/internal/utils"
	"github.com/gorilla/mux"
)

// MyClaims liste les réclamations de prix du joueur connecté
func MyClaims(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	claims, err := svc.Claims.UserClaims(r.Context(), user.ID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Could not load prize claims", err)
		return
	}

	utils.Success(w, claims)
}

// MyContestClaim retourne la réclamation du joueur pour un concours donné
// (id ou slug) ; réponse sans données s'il n'a rien gagné
func MyContestClaim(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	contest, err := svc.Contests.ContestByIDOrSlug(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		serviceError(w, err, "Could not load contest")
		return
	}

	claim, err := svc.Claims.ClaimForContestUser(r.Context(), contest.ID, user.ID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Could not load prize claim", err)
		return
	}

	utils.Success(w, claim)
}

func GetClaim(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	ownerID := user.ID
	if middleware.IsAdmin(r) {
		ownerID = ""
	}

	claim, err := svc.Claims.ClaimByID(r.Context(), mux.Vars(r)["id"], ownerID)
	if err != nil {
		serviceError(w, err, "Could not load prize claim")
		return
	}

	utils.Success(w, claim)
}

type SubmitClaimRequest struct {
	ContactInfo map[string]interface{} `json:"contactInfo"`
}

// SubmitClaim enregistre les coordonnées du gagnant pour la remise du prix
func SubmitClaim(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req SubmitClaimRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}
	if len(req.ContactInfo) == 0 {
		utils.ErrorSimple(w, http.StatusBadRequest, "contactInfo is required")
		return
	}

	claim, err := svc.Claims.SubmitClaim(r.Context(), mux.Vars(r)["id"], user.ID, req.ContactInfo)
	if err != nil {
		serviceError(w, err, "Could not submit prize claim")
		return
	}

	utils.Success(w, claim)
}

// ReviewClaim approuve, rejette ou marque payé une réclamation (admin)
func ReviewClaim(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "Admin access required")
		return
	}
	admin, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req ReviewRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}

	claim, err := svc.Claims.ReviewClaim(r.Context(), mux.Vars(r)["id"], req.Status, admin.ID, req.Notes)
	if err != nil {
		serviceError(w, err, "Could not review prize claim")
		return
	}

	utils.Success(w, claim)
}

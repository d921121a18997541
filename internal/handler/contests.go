package handler

import (
	"net/http"

	"github.com/Knacksterslab/byte-runner-backend/internal/middleware"
	model "github.com/Knacksterslab/byte-runner-backend/internal/models"
	"github.com/Knacksterslab/byte-runner-backend/internal/utils"
	"github.com/gorilla/mux"
)

// ListContests liste tous les concours, filtrables par statut (?status=)
func ListContests(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	contests, err := svc.Contests.AllContests(r.Context(), status)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Could not load contests", err)
		return
	}

	utils.Success(w, contests)
}

// ActiveContests liste les concours ouverts aux inscriptions
func ActiveContests(w http.ResponseWriter, r *http.Request) {
	contests, err := svc.Contests.ActiveContests(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Could not load contests", err)
		return
	}

	utils.Success(w, contests)
}

func GetContest(w http.ResponseWriter, r *http.Request) {
	idOrSlug := mux.Vars(r)["id"]
	contest, err := svc.Contests.ContestByIDOrSlug(r.Context(), idOrSlug)
	if err != nil {
		serviceError(w, err, "Could not load contest")
		return
	}

	utils.Success(w, contest)
}

// ContestLeaderboard retourne le classement d'un concours
func ContestLeaderboard(w http.ResponseWriter, r *http.Request) {
	idOrSlug := mux.Vars(r)["id"]
	contest, err := svc.Contests.ContestByIDOrSlug(r.Context(), idOrSlug)
	if err != nil {
		serviceError(w, err, "Could not load contest")
		return
	}

	limit := utils.QueryInt(r, "limit", 50)
	ranked, err := svc.Contests.Leaderboard(r.Context(), contest.ID, limit)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Could not load leaderboard", err)
		return
	}

	utils.Success(w, ranked)
}

type EnterContestRequest struct {
	RunID    string `json:"runId"`
	Score    int    `json:"score"`
	Distance int    `json:"distance"`
}

// EnterContest inscrit manuellement un run du joueur dans un concours.
// Le score et la distance enregistrés côté serveur font foi, pas ceux du
// corps de la requête.
func EnterContest(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req EnterContestRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}
	if req.RunID == "" {
		utils.ErrorSimple(w, http.StatusBadRequest, "runId is required")
		return
	}

	contest, err := svc.Contests.ContestByIDOrSlug(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		serviceError(w, err, "Could not load contest")
		return
	}

	run, err := svc.Runs.RunByIDForUser(r.Context(), req.RunID, user.ID)
	if err != nil {
		serviceError(w, err, "Could not load run")
		return
	}

	entry, err := svc.Contests.EnterContest(r.Context(), contest, user.ID, run.ID, run.Score, run.Distance)
	if err != nil {
		serviceError(w, err, "Could not enter contest")
		return
	}

	utils.JSON(w, http.StatusCreated, utils.APIResponse{Success: true, Data: entry})
}

// MyContestEntries liste les entrées du joueur connecté dans un concours,
// avec son rang courant
func MyContestEntries(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	idOrSlug := mux.Vars(r)["id"]
	contest, err := svc.Contests.ContestByIDOrSlug(r.Context(), idOrSlug)
	if err != nil {
		serviceError(w, err, "Could not load contest")
		return
	}

	entries, err := svc.Contests.UserEntries(r.Context(), contest.ID, user.ID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Could not load entries", err)
		return
	}

	rank, err := svc.Contests.UserRank(r.Context(), contest.ID, user.ID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Could not compute rank", err)
		return
	}

	utils.Success(w, map[string]interface{}{
		"entries": entries,
		"rank":    rank,
	})
}

// Routes d'administration des concours

func CreateContest(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "Admin access required")
		return
	}

	var req model.CreateContestRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}
	if req.Name == "" {
		utils.ErrorSimple(w, http.StatusBadRequest, "name is required")
		return
	}
	if !req.EndDate.After(req.StartDate) {
		utils.ErrorSimple(w, http.StatusBadRequest, "endDate must be after startDate")
		return
	}

	contest, err := svc.Contests.CreateContest(r.Context(), req)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Could not create contest", err)
		return
	}

	utils.JSON(w, http.StatusCreated, utils.APIResponse{Success: true, Data: contest})
}

func UpdateContest(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "Admin access required")
		return
	}

	var req model.UpdateContestRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}

	contest, err := svc.Contests.UpdateContest(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		serviceError(w, err, "Could not update contest")
		return
	}

	utils.Success(w, contest)
}

func DeleteContest(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "Admin access required")
		return
	}

	if err := svc.Contests.DeleteContest(r.Context(), mux.Vars(r)["id"]); err != nil {
		serviceError(w, err, "Could not delete contest")
		return
	}

	utils.Message(w, "contest deleted")
}

// TriggerContestReconciliation force un passage de réconciliation sans
// attendre le prochain tick planifié (admin)
func TriggerContestReconciliation(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "Admin access required")
		return
	}

	svc.ContestCron.Run()
	utils.Message(w, "contest reconciliation executed")
}

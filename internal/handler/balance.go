package handler

import (
	"net/http"

	"github.com/Knacksterslab/byte-runner-backend/internal/middleware"
	model "github.com/Knacksterslab/byte-runner-backend/internal/models"
	"github.com/Knacksterslab/byte-runner-backend/internal/utils"
	"github.com/gorilla/mux"
)

func GetBalance(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	info, err := svc.Balance.GetUserBalance(r.Context(), user.ID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Could not load balance", err)
		return
	}

	utils.Success(w, info)
}

func GetTransactions(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	limit := utils.QueryInt(r, "limit", 20)
	offset := utils.QueryInt(r, "offset", 0)

	transactions, err := svc.Balance.Transactions(r.Context(), user.ID, limit, offset)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Could not load transactions", err)
		return
	}

	utils.Success(w, transactions)
}

// SubmitWithdrawal crée une demande de retrait et débite le solde
func SubmitWithdrawal(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req model.SubmitWithdrawalRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}
	if req.PaymentMethod == "" {
		utils.ErrorSimple(w, http.StatusBadRequest, "paymentMethod is required")
		return
	}

	withdrawal, err := svc.Balance.SubmitWithdrawal(r.Context(), user.ID, req)
	if err != nil {
		serviceError(w, err, "Could not submit withdrawal")
		return
	}

	utils.Success(w, withdrawal)
}

func MyWithdrawals(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	withdrawals, err := svc.Balance.UserWithdrawals(r.Context(), user.ID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Could not load withdrawals", err)
		return
	}

	utils.Success(w, withdrawals)
}

// AllWithdrawals liste les demandes de retrait, filtrables par statut (admin)
func AllWithdrawals(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "Admin access required")
		return
	}

	status := r.URL.Query().Get("status")
	withdrawals, err := svc.Balance.AllWithdrawals(r.Context(), status)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Could not load withdrawals", err)
		return
	}

	utils.Success(w, withdrawals)
}

type ReviewRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`
}

// ReviewWithdrawal change le statut d'une demande de retrait (admin)
func ReviewWithdrawal(w http.ResponseWriter, r *http.Request) {
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

	withdrawalID := mux.Vars(r)["id"]
	withdrawal, err := svc.Balance.UpdateWithdrawalStatus(r.Context(), withdrawalID, req.Status, admin.ID, req.Notes)
	if err != nil {
		serviceError(w, err, "Could not update withdrawal")
		return
	}

	utils.Success(w, withdrawal)
}

package api

import (
	"net/http"

	"github.com/Knacksterslab/byte-runner-backend/internal/config"
	"github.com/Knacksterslab/byte-runner-backend/internal/handler"
	"github.com/Knacksterslab/byte-runner-backend/internal/middleware"
	"github.com/Knacksterslab/byte-runner-backend/internal/utils"
	"github.com/fatih/color"
	"github.com/gorilla/mux"
)

func SetupRouter(cfg *config.Config) http.Handler {
	r := mux.NewRouter()

	limiter := middleware.NewRateLimiter(cfg)
	r.Use(limiter.Middleware)
	r.Use(middleware.LoggerMiddleware)

	authenticatedRoutes := r.PathPrefix("/").Subrouter()
	authenticatedRoutes.Use(middleware.AuthMiddleware)

	// Root - API documentation
	r.HandleFunc("/", handler.RootHandler).Methods(http.MethodGet)

	// Auth
	r.HandleFunc("/auth/session", handler.CreateSession).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/auth/logout", handler.Logout).Methods(http.MethodPost)

	// Users
	authenticatedRoutes.HandleFunc("/users/me", handler.Me).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/users/me/username", handler.SetUsername).Methods(http.MethodPut)
	authenticatedRoutes.HandleFunc("/users/me/continue", handler.SpendContinueToken).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/users/me/stats", handler.MyRunStats).Methods(http.MethodGet)

	// Runs
	authenticatedRoutes.HandleFunc("/runs/start", handler.StartRun).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/runs/finish", handler.FinishRun).Methods(http.MethodPost)

	// Leaderboard
	r.HandleFunc("/leaderboard", handler.GlobalLeaderboard).Methods(http.MethodGet)

	// Contests (la route littérale /contests/active doit précéder /contests/{id})
	r.HandleFunc("/contests", handler.ListContests).Methods(http.MethodGet)
	r.HandleFunc("/contests/active", handler.ActiveContests).Methods(http.MethodGet)
	r.HandleFunc("/contests/{id}", handler.GetContest).Methods(http.MethodGet)
	r.HandleFunc("/contests/{id}/leaderboard", handler.ContestLeaderboard).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/contests/{id}/enter", handler.EnterContest).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/contests/{id}/entries/me", handler.MyContestEntries).Methods(http.MethodGet)

	// Hourly challenge
	r.HandleFunc("/hourly/current", handler.CurrentHourlyChallenge).Methods(http.MethodGet)
	r.HandleFunc("/hourly/leaderboard", handler.HourlyLeaderboard).Methods(http.MethodGet)
	r.HandleFunc("/hourly/recent", handler.RecentHourlyChallenges).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/hourly/entries/me", handler.MyHourlyEntries).Methods(http.MethodGet)

	// Balance & withdrawals
	authenticatedRoutes.HandleFunc("/balance", handler.GetBalance).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/balance/transactions", handler.GetTransactions).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/balance/withdrawals", handler.SubmitWithdrawal).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/balance/withdrawals", handler.MyWithdrawals).Methods(http.MethodGet)

	// Prize claims
	authenticatedRoutes.HandleFunc("/claims", handler.MyClaims).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/claims/contest/{id}/my-claim", handler.MyContestClaim).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/claims/{id}", handler.GetClaim).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/claims/{id}/submit", handler.SubmitClaim).Methods(http.MethodPost)

	// Shares
	authenticatedRoutes.HandleFunc("/shares", handler.RecordShare).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/shares/stats", handler.MyShareStats).Methods(http.MethodGet)

	// Badges
	r.HandleFunc("/badges", handler.AllBadges).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/badges/me", handler.MyBadges).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/badges/me/featured", handler.SetFeaturedBadge).Methods(http.MethodPut)

	// Administration
	authenticatedRoutes.HandleFunc("/admin/contests", handler.CreateContest).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/admin/contests/reconcile", handler.TriggerContestReconciliation).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/admin/contests/{id}", handler.UpdateContest).Methods(http.MethodPut, http.MethodPatch)
	authenticatedRoutes.HandleFunc("/admin/contests/{id}", handler.DeleteContest).Methods(http.MethodDelete)
	authenticatedRoutes.HandleFunc("/admin/hourly/settle", handler.TriggerHourlySettlement).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/admin/withdrawals", handler.AllWithdrawals).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/admin/withdrawals/{id}", handler.ReviewWithdrawal).Methods(http.MethodPut)
	authenticatedRoutes.HandleFunc("/admin/claims/{id}", handler.ReviewClaim).Methods(http.MethodPut)
	authenticatedRoutes.HandleFunc("/admin/users/{userId}/fraud", handler.UserFraudFlags).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/admin/users/{userId}/eligibility", handler.UserEligibility).Methods(http.MethodGet)

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.LogError("404 Not Found: %s %s", r.Method, r.URL.Path)
		color.Yellow("[404] %s %s (route non trouvée)", r.Method, r.URL.Path)
		http.Error(w, "Route not found", http.StatusNotFound)
	})

	return r
}

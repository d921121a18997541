package handler

import (
	"net/http"

	"github.com/Knacksterslab/byte-runner-backend/internal/utils"
)

// RootHandler affiche toutes les routes disponibles de l'API
func RootHandler(w http.ResponseWriter, r *http.Request) {
	routes := map[string]interface{}{
		"name":    "Byte Runner API",
		"version": "1.0.0",
		"status":  "running",
		"routes": map[string]interface{}{
			"auth": []map[string]string{
				{"method": "POST", "path": "/auth/session", "description": "Échanger une identité vérifiée contre une session"},
				{"method": "POST", "path": "/auth/logout", "description": "Déconnexion"},
			},
			"users": []map[string]string{
				{"method": "GET", "path": "/users/me", "description": "Profil du joueur connecté"},
				{"method": "PUT", "path": "/users/me/username", "description": "Définir le pseudo public"},
				{"method": "POST", "path": "/users/me/continue", "description": "Consommer un jeton de reprise"},
				{"method": "GET", "path": "/users/me/stats", "description": "Records et rang du joueur"},
			},
			"runs": []map[string]string{
				{"method": "POST", "path": "/runs/start", "description": "Obtenir un token de run"},
				{"method": "POST", "path": "/runs/finish", "description": "Valider et enregistrer un run"},
			},
			"leaderboard": []map[string]string{
				{"method": "GET", "path": "/leaderboard", "description": "Classement glissant 24h"},
			},
			"contests": []map[string]string{
				{"method": "GET", "path": "/contests", "description": "Tous les concours (filtre ?status=)"},
				{"method": "GET", "path": "/contests/active", "description": "Concours ouverts"},
				{"method": "GET", "path": "/contests/{id}", "description": "Détail d'un concours (id ou slug)"},
				{"method": "GET", "path": "/contests/{id}/leaderboard", "description": "Classement d'un concours"},
				{"method": "POST", "path": "/contests/{id}/enter", "description": "Inscrire un de ses runs au concours"},
				{"method": "GET", "path": "/contests/{id}/entries/me", "description": "Mes entrées et mon rang"},
			},
			"hourly": []map[string]string{
				{"method": "GET", "path": "/hourly/current", "description": "Défi de l'heure en cours"},
				{"method": "GET", "path": "/hourly/leaderboard", "description": "Classement de l'heure en cours"},
				{"method": "GET", "path": "/hourly/entries/me", "description": "Mes runs de l'heure en cours"},
				{"method": "GET", "path": "/hourly/recent", "description": "Derniers défis et gagnants"},
			},
			"balance": []map[string]string{
				{"method": "GET", "path": "/balance", "description": "Solde et transactions récentes"},
				{"method": "GET", "path": "/balance/transactions", "description": "Historique du grand livre"},
				{"method": "POST", "path": "/balance/withdrawals", "description": "Demander un retrait"},
				{"method": "GET", "path": "/balance/withdrawals", "description": "Mes demandes de retrait"},
			},
			"claims": []map[string]string{
				{"method": "GET", "path": "/claims", "description": "Mes réclamations de prix"},
				{"method": "GET", "path": "/claims/contest/{id}/my-claim", "description": "Ma réclamation pour un concours"},
				{"method": "GET", "path": "/claims/{id}", "description": "Détail d'une réclamation"},
				{"method": "POST", "path": "/claims/{id}/submit", "description": "Soumettre ses coordonnées"},
			},
			"shares": []map[string]string{
				{"method": "POST", "path": "/shares", "description": "Enregistrer un partage social"},
				{"method": "GET", "path": "/shares/stats", "description": "Mes partages par plateforme"},
			},
			"badges": []map[string]string{
				{"method": "GET", "path": "/badges", "description": "Catalogue des badges"},
				{"method": "GET", "path": "/badges/me", "description": "Mes badges"},
				{"method": "PUT", "path": "/badges/me/featured", "description": "Choisir le badge affiché"},
			},
			"admin": []map[string]string{
				{"method": "POST", "path": "/admin/contests", "description": "Créer un concours"},
				{"method": "PUT", "path": "/admin/contests/{id}", "description": "Modifier un concours"},
				{"method": "DELETE", "path": "/admin/contests/{id}", "description": "Supprimer un concours"},
				{"method": "POST", "path": "/admin/contests/reconcile", "description": "Forcer la réconciliation"},
				{"method": "POST", "path": "/admin/hourly/settle", "description": "Forcer la clôture horaire"},
				{"method": "GET", "path": "/admin/withdrawals", "description": "Toutes les demandes de retrait"},
				{"method": "PUT", "path": "/admin/withdrawals/{id}", "description": "Traiter une demande de retrait"},
				{"method": "PUT", "path": "/admin/claims/{id}", "description": "Traiter une réclamation de prix"},
				{"method": "GET", "path": "/admin/users/{userId}/fraud", "description": "Signalements anti-fraude d'un joueur"},
				{"method": "GET", "path": "/admin/users/{userId}/eligibility", "description": "Éligibilité d'un joueur aux prix"},
			},
		},
	}

	utils.JSON(w, http.StatusOK, routes)
}

package middleware

import (
	"net/http"

	"github.com/Knacksterslab/byte-runner-backend/internal/config"
	"github.com/rs/cors"
)

// CORSMiddleware enveloppe le routeur avec la politique CORS configurée
func CORSMiddleware(cfg *config.Config, next http.Handler) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	return c.Handler(next)
}

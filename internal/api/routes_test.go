package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Knacksterslab/byte-runner-backend/internal/config"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		RateLimitRequests:      15,
		RateLimitWindowSeconds: 60,
	}
}

// matchRoute vérifie qu'une route est bien enregistrée ; avec un
// NotFoundHandler configuré, Match répond toujours vrai, c'est MatchErr
// qui distingue une vraie correspondance
func matchRoute(t *testing.T, router *mux.Router, method, path string) bool {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	var match mux.RouteMatch
	router.Match(req, &match)
	return match.MatchErr == nil
}

func TestRouterContestRoutes(t *testing.T) {
	router, ok := SetupRouter(testConfig()).(*mux.Router)
	require.True(t, ok)

	assert.True(t, matchRoute(t, router, http.MethodGet, "/contests"))
	assert.True(t, matchRoute(t, router, http.MethodGet, "/contests/active"))
	assert.True(t, matchRoute(t, router, http.MethodGet, "/contests/spring-sprint"))
	assert.True(t, matchRoute(t, router, http.MethodGet, "/contests/spring-sprint/leaderboard"))
	assert.True(t, matchRoute(t, router, http.MethodPost, "/contests/spring-sprint/enter"))
	assert.True(t, matchRoute(t, router, http.MethodGet, "/contests/spring-sprint/entries/me"))
}

func TestRouterClaimRoutes(t *testing.T) {
	router, ok := SetupRouter(testConfig()).(*mux.Router)
	require.True(t, ok)

	assert.True(t, matchRoute(t, router, http.MethodGet, "/claims"))
	assert.True(t, matchRoute(t, router, http.MethodGet, "/claims/contest/spring-sprint/my-claim"))
	assert.True(t, matchRoute(t, router, http.MethodGet, "/claims/abc123"))
	assert.True(t, matchRoute(t, router, http.MethodPost, "/claims/abc123/submit"))
}

func TestRouterRejectsUnknownRoute(t *testing.T) {
	router, ok := SetupRouter(testConfig()).(*mux.Router)
	require.True(t, ok)

	assert.False(t, matchRoute(t, router, http.MethodGet, "/nope"))
	assert.False(t, matchRoute(t, router, http.MethodDelete, "/contests"))
}

package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/Knacksterslab/byte-runner-backend/internal/config"
	"github.com/Knacksterslab/byte-runner-backend/internal/utils"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter limite le nombre de requêtes par client (adresse IP)
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	limit   rate.Limit
	burst   int
}

func NewRateLimiter(cfg *config.Config) *RateLimiter {
	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second
	rl := &RateLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Every(window / time.Duration(cfg.RateLimitRequests)),
		burst:   cfg.RateLimitRequests,
	}

	// Purger les clients inactifs pour ne pas accumuler de limiters
	go func() {
		for range time.Tick(5 * time.Minute) {
			rl.mu.Lock()
			for ip, c := range rl.clients {
				if time.Since(c.lastSeen) > 10*time.Minute {
					delete(rl.clients, ip)
				}
			}
			rl.mu.Unlock()
		}
	}()

	return rl
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		rl.mu.Lock()
		client, ok := rl.clients[ip]
		if !ok {
			client = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
			rl.clients[ip] = client
		}
		client.lastSeen = time.Now()
		rl.mu.Unlock()

		if !client.limiter.Allow() {
			utils.ErrorSimple(w, http.StatusTooManyRequests, "too many requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}

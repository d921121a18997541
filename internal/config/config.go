package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Run validation
	RunTokenSecret       string
	RunTokenTTLSeconds   int
	MaxScorePerSecond    int
	MaxDistancePerSecond int

	// Ledger
	MinWithdrawalCents int64
	HourlyRewardCents  int64

	// Leaderboard
	LeaderboardWindowHours int

	// Rate limiting
	RateLimitRequests      int
	RateLimitWindowSeconds int

	AdminEmails    []string
	AllowedOrigins []string
}

// LoadConfig charge la configuration depuis l'environnement (.env optionnel)
func LoadConfig() (*Config, error) {
	// .env absent en production, c'est normal
	_ = godotenv.Load()

	cfg := &Config{
		Port:                   getEnv("PORT", "3000"),
		DBHost:                 getEnv("DB_HOST", "localhost"),
		DBPort:                 getEnv("DB_PORT", "5432"),
		DBUser:                 getEnv("DB_USER", "postgres"),
		DBPassword:             getEnv("DB_PASSWORD", ""),
		DBName:                 getEnv("DB_NAME", "byte_runner"),
		DBSSLMode:              getEnv("DB_SSLMODE", "disable"),
		RunTokenSecret:         getEnv("RUN_TOKEN_SECRET", ""),
		RunTokenTTLSeconds:     getEnvInt("RUN_TOKEN_TTL_SECONDS", 3600),
		MaxScorePerSecond:      getEnvInt("MAX_SCORE_PER_SECOND", 500),
		MaxDistancePerSecond:   getEnvInt("MAX_DISTANCE_PER_SECOND", 200),
		MinWithdrawalCents:     int64(getEnvInt("MIN_WITHDRAWAL_CENTS", 1000)),
		HourlyRewardCents:      int64(getEnvInt("HOURLY_REWARD_CENTS", 100)),
		LeaderboardWindowHours: getEnvInt("LEADERBOARD_WINDOW_HOURS", 24),
		RateLimitRequests:      getEnvInt("RATE_LIMIT_LIMIT", 15),
		RateLimitWindowSeconds: getEnvInt("RATE_LIMIT_TTL_SECONDS", 60),
		AdminEmails:            getEnvList("ADMIN_EMAILS"),
		AllowedOrigins:         getEnvList("ALLOWED_ORIGINS"),
	}

	if cfg.RunTokenSecret == "" {
		return nil, fmt.Errorf("RUN_TOKEN_SECRET is missing")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

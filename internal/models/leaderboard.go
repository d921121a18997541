package model

import (
	"time"
)

// LeaderboardEntry sert à la fois le classement public, le classement d'un
// concours et celui d'un challenge horaire : meilleure run par joueur,
// tri score décroissant puis distance décroissante
type LeaderboardEntry struct {
	Rank       int       `json:"rank,omitempty"`
	UserID     string    `json:"userId,omitempty"`
	Username   string    `json:"username"`
	Score      int       `json:"score"`
	Distance   int       `json:"distance"`
	BadgeEmoji *string   `json:"badgeEmoji,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

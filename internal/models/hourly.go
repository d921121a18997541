package model

import (
	"time"
)

// Statuts d'un challenge horaire
const (
	HourlyStatusActive = "active"
	HourlyStatusEnded  = "ended"
	HourlyStatusPaid   = "paid"
)

type HourlyChallenge struct {
	ID             string     `json:"id"`
	ChallengeHour  time.Time  `json:"challengeHour"`
	Status         string     `json:"status"`
	WinnerUserID   *string    `json:"winnerUserId,omitempty"`
	WinnerRunID    *string    `json:"winnerRunId,omitempty"`
	WinnerScore    *int       `json:"winnerScore,omitempty"`
	WinnerDistance *int       `json:"winnerDistance,omitempty"`
	EndedAt        *time.Time `json:"endedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

type HourlyEntry struct {
	RunID     string    `json:"runId"`
	Score     int       `json:"score"`
	Distance  int       `json:"distance"`
	CreatedAt time.Time `json:"createdAt"`
}

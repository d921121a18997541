package model

import (
	"time"
)

// Statuts d'un concours
const (
	ContestStatusUpcoming  = "upcoming"
	ContestStatusActive    = "active"
	ContestStatusEnded     = "ended"
	ContestStatusCancelled = "cancelled"
)

// Statuts d'une réclamation de prix
const (
	ClaimStatusPending   = "pending"
	ClaimStatusSubmitted = "submitted"
	ClaimStatusApproved  = "approved"
	ClaimStatusRejected  = "rejected"
	ClaimStatusPaid      = "paid"
)

type Contest struct {
	ID                string                 `json:"id"`
	Name              string                 `json:"name"`
	Slug              string                 `json:"slug"`
	Description       *string                `json:"description,omitempty"`
	StartDate         time.Time              `json:"startDate"`
	EndDate           time.Time              `json:"endDate"`
	Timezone          string                 `json:"timezone"`
	Status            string                 `json:"status"`
	PrizePool         map[string]string      `json:"prizePool,omitempty"`
	Rules             map[string]interface{} `json:"rules,omitempty"`
	MaxEntriesPerUser int                    `json:"maxEntriesPerUser"`
	CreatedAt         time.Time              `json:"createdAt"`
	UpdatedAt         time.Time              `json:"updatedAt"`
}

type ContestEntry struct {
	ID        string    `json:"id"`
	ContestID string    `json:"contestId"`
	UserID    string    `json:"userId"`
	RunID     string    `json:"runId"`
	Score     int       `json:"score"`
	Distance  int       `json:"distance"`
	CreatedAt time.Time `json:"createdAt"`
}

type PrizeClaim struct {
	ID               string                 `json:"id"`
	ContestID        string                 `json:"contestId"`
	ContestName      *string                `json:"contestName,omitempty"`
	UserID           string                 `json:"userId"`
	Rank             int                    `json:"rank"`
	PrizeDescription string                 `json:"prizeDescription"`
	Status           string                 `json:"status"`
	ContactInfo      map[string]interface{} `json:"contactInfo,omitempty"`
	SubmittedAt      *time.Time             `json:"submittedAt,omitempty"`
	ReviewedAt       *time.Time             `json:"reviewedAt,omitempty"`
	ReviewedBy       *string                `json:"reviewedBy,omitempty"`
	Notes            *string                `json:"notes,omitempty"`
	CreatedAt        time.Time              `json:"createdAt"`
}

type CreateContestRequest struct {
	Name              string                 `json:"name"`
	Slug              string                 `json:"slug,omitempty"`
	Description       *string                `json:"description,omitempty"`
	StartDate         time.Time              `json:"startDate"`
	EndDate           time.Time              `json:"endDate"`
	Timezone          string                 `json:"timezone,omitempty"`
	Status            string                 `json:"status,omitempty"`
	PrizePool         map[string]string      `json:"prizePool,omitempty"`
	Rules             map[string]interface{} `json:"rules,omitempty"`
	MaxEntriesPerUser int                    `json:"maxEntriesPerUser,omitempty"`
}

type UpdateContestRequest struct {
	Name              *string                `json:"name,omitempty"`
	Slug              *string                `json:"slug,omitempty"`
	Description       *string                `json:"description,omitempty"`
	StartDate         *time.Time             `json:"startDate,omitempty"`
	EndDate           *time.Time             `json:"endDate,omitempty"`
	Timezone          *string                `json:"timezone,omitempty"`
	Status            *string                `json:"status,omitempty"`
	PrizePool         map[string]string      `json:"prizePool,omitempty"`
	Rules             map[string]interface{} `json:"rules,omitempty"`
	MaxEntriesPerUser *int                   `json:"maxEntriesPerUser,omitempty"`
}

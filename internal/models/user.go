package model

import (
	"time"
)

type User struct {
	ID               string     `json:"id"`
	SubjectID        string     `json:"-"`
	Email            string     `json:"email,omitempty"`
	Username         string     `json:"username,omitempty"`
	BalanceCents     int64      `json:"balanceCents"`
	ContinueTokens   int        `json:"continueTokens"`
	FeaturedBadge    *string    `json:"featuredBadge,omitempty"`
	LastWithdrawalAt *time.Time `json:"lastWithdrawalAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Token     string    `json:"token"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

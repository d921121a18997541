package model

import (
	"time"
)

// Types de signalements anti-fraude
const (
	FlagTypeNewAccount       = "new_account"
	FlagTypeInsufficientRuns = "insufficient_runs"
	FlagTypeMultipleWins     = "multiple_wins"
	FlagTypeRapidWithdrawal  = "rapid_withdrawal"
	FlagTypeUserNotFound     = "user_not_found"
)

type FraudFlag struct {
	ID          string                 `json:"id"`
	UserID      string                 `json:"userId"`
	FlagType    string                 `json:"flagType"`
	Severity    int                    `json:"severity"`
	ReferenceID *string                `json:"referenceId,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
}

type EligibilityResult struct {
	Eligible   bool     `json:"eligible"`
	Reason     string   `json:"reason,omitempty"`
	FraudScore int      `json:"fraudScore"`
	Flags      []string `json:"flags"`
}

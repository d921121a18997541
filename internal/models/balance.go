package model

import (
	"time"
)

// Types de transactions du grand livre
const (
	TransactionTypeHourlyWin    = "hourly_challenge"
	TransactionTypeContestPrize = "contest_prize"
	TransactionTypeWithdrawal   = "withdrawal"
)

// Statuts d'une demande de retrait
const (
	WithdrawalStatusPending  = "pending"
	WithdrawalStatusApproved = "approved"
	WithdrawalStatusRejected = "rejected"
	WithdrawalStatusPaid     = "paid"
)

type BalanceTransaction struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	AmountCents int64     `json:"amountCents"`
	Type        string    `json:"type"`
	ReferenceID *string   `json:"referenceId,omitempty"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Withdrawal struct {
	ID            string                 `json:"id"`
	UserID        string                 `json:"userId"`
	AmountCents   int64                  `json:"amountCents"`
	PaymentMethod string                 `json:"paymentMethod"`
	ContactInfo   map[string]interface{} `json:"contactInfo,omitempty"`
	Status        string                 `json:"status"`
	ReviewedAt    *time.Time             `json:"reviewedAt,omitempty"`
	ReviewedBy    *string                `json:"reviewedBy,omitempty"`
	Notes         *string                `json:"notes,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
}

type BalanceInfo struct {
	BalanceCents            int64                `json:"balanceCents"`
	PendingWithdrawalsCents int64                `json:"pendingWithdrawalsCents"`
	TotalEarnedCents        int64                `json:"totalEarnedCents"`
	RecentTransactions      []BalanceTransaction `json:"recentTransactions"`
}

type SubmitWithdrawalRequest struct {
	AmountCents   int64                  `json:"amountCents"`
	PaymentMethod string                 `json:"paymentMethod"`
	ContactInfo   map[string]interface{} `json:"contactInfo"`
}

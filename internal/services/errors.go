package services

import (
	"errors"
)

// Erreurs sentinelles des services, traduites en statuts HTTP par les handlers
var (
	ErrInvalidToken        = errors.New("invalid run token")
	ErrRateExceeded        = errors.New("rate exceeded")
	ErrUsernameRequired    = errors.New("username must be set before submitting scores")
	ErrUsernameTaken       = errors.New("username is already taken")
	ErrNotEligible         = errors.New("not eligible")
	ErrBelowMinimum        = errors.New("below minimum withdrawal")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNotFound            = errors.New("not found")
	ErrDuplicateEntry      = errors.New("duplicate entry")
	ErrContestClosed       = errors.New("contest is not open for entries")
	ErrEntryLimit          = errors.New("contest entry limit reached")
	ErrAlreadySubmitted    = errors.New("already submitted")
	ErrLedgerWrite         = errors.New("ledger write failed")
)

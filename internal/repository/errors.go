package repository

import "errors"

var (
	// ErrNotFound is returned when a lookup by id or identity matches no row.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidTransition is returned when a status update targets a
	// withdrawal request that has already been settled. PAID and REJECTED
	// are terminal.
	ErrInvalidTransition = errors.New("withdrawal request already settled")

	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNoWallet            = errors.New("no wallet address on account")

	ErrUnknownCode     = errors.New("unknown referral code")
	ErrSelfReferral    = errors.New("account cannot refer itself")
	ErrAlreadyReferred = errors.New("account already has a referrer")
)

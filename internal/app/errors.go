package app

import "errors"

// Sentinel errors surfaced by the state managers. Handlers map these to HTTP
// statuses; everything else is treated as an upstream or internal failure.
var (
	ErrEmptyAccountName      = errors.New("account name must not be empty")
	ErrAccountNotSelected    = errors.New("no account is selected")
	ErrInvalidAmount         = errors.New("amount must be a positive number")
	ErrUnsupportedBlockchain = errors.New("blockchain must be one of ethereum, polygon, base or celo")
	ErrNoPayoutRetained      = errors.New("no payout request has been created in this session")
	ErrPayoutNotExecutable   = errors.New("payout request is not awaiting execution")
	ErrExecutionInProgress   = errors.New("payout execution already in progress")
	ErrUnknownView           = errors.New("unknown view")
	ErrSessionNotFound       = errors.New("session not found or expired")
)

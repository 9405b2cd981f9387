package utils

import "errors"

var (
	ErrProjectNotFound      = errors.New("project not found")
	ErrDonationNotFound     = errors.New("donation not found")
	ErrAccountNotFound      = errors.New("account not found")
	ErrNoImpactData         = errors.New("project has no impact tracking data")
	ErrDonationNotPending   = errors.New("donation is not pending")
	ErrDuplicateEvent       = errors.New("payment event already processed")
	ErrPointsAlreadyApplied = errors.New("points already applied for donation")
	ErrLedgerAppendFailed   = errors.New("ledger append failed")
	ErrInvalidAmount        = errors.New("invalid donation amount")
	ErrDatabaseError        = errors.New("database error")
)

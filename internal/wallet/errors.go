package wallet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount occurs when an operation amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrWalletNotFound indicates the wallet does not exist.
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrWalletExists indicates a wallet already exists for the identifier.
	ErrWalletExists = errors.New("wallet already exists")

	// ErrInsufficientBalance occurs when the balance cannot cover a debit.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrSameWalletTransfer rejects transfers where source equals destination.
	ErrSameWalletTransfer = errors.New("source and destination wallets must differ")

	// ErrVersionConflict is reported by the store when a balance write was
	// made against a stale version stamp.
	ErrVersionConflict = errors.New("wallet version conflict")

	// ErrInvalidDateFormat marks unparseable history filter dates.
	ErrInvalidDateFormat = errors.New("invalid date format")

	// ErrInvalidDateRange occurs when a history start date is after the end date.
	ErrInvalidDateRange = errors.New("start date must not be after end date")
)

// DateFormatError carries the layouts a history date filter accepts.
type DateFormatError struct {
	Value    string
	Accepted []string
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("cannot parse %q, accepted formats: %s", e.Value, strings.Join(e.Accepted, ", "))
}

func (e *DateFormatError) Unwrap() error { return ErrInvalidDateFormat }

// InconsistencyError reports a committed balance write whose follow-up step
// failed, leaving durable state that needs reconciliation. It is surfaced to
// the caller and never masked as success.
type InconsistencyError struct {
	Op           string
	WalletID     string
	PeerWalletID string
	Amount       decimal.Decimal
	Cause        error
}

func (e *InconsistencyError) Error() string {
	if e.PeerWalletID != "" {
		return fmt.Sprintf("%s: inconsistent state between wallets %s and %s for amount %s: %v",
			e.Op, e.WalletID, e.PeerWalletID, e.Amount, e.Cause)
	}
	return fmt.Sprintf("%s: inconsistent state for wallet %s, amount %s: %v", e.Op, e.WalletID, e.Amount, e.Cause)
}

func (e *InconsistencyError) Unwrap() error { return e.Cause }

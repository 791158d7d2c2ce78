package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType classifies a ledger entry.
type EntryType string

const (
	// TypeDeposit records funds entering a wallet from outside the system.
	TypeDeposit EntryType = "DEPOSIT"
	// TypeWithdraw records funds leaving a wallet to outside the system.
	TypeWithdraw EntryType = "WITHDRAW"
	// TypeTransferIn is the credit side of a wallet-to-wallet transfer.
	TypeTransferIn EntryType = "TRANSFER_IN"
	// TypeTransferOut is the debit side of a wallet-to-wallet transfer.
	TypeTransferOut EntryType = "TRANSFER_OUT"
)

// Entry is one immutable balance-affecting event. Amount is always a
// positive magnitude; the type carries the direction.
type Entry struct {
	ID            string
	WalletID      string
	Amount        decimal.Decimal
	Type          EntryType
	Timestamp     time.Time
	RelatedUserID string
}

// Signed returns the amount with the sign implied by the entry type, so
// that a wallet's balance equals the sum of its entries' signed amounts.
func (e Entry) Signed() decimal.Decimal {
	switch e.Type {
	case TypeWithdraw, TypeTransferOut:
		return e.Amount.Neg()
	default:
		return e.Amount
	}
}

// Writer is the contract implemented by ledger backends. Entries are
// append-only: nothing updates or deletes a record once written.
type Writer interface {
	Append(ctx context.Context, entry Entry) error
	// Query returns the wallet's entries within the closed interval
	// [from, to], ordered by timestamp ascending. Nil bounds are open.
	Query(ctx context.Context, walletID string, from, to *time.Time) ([]Entry, error)
}

package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet is the balance aggregate for a single owner. Balance is a cached
// projection of the ledger; Version increments on every successful balance
// write and guards against concurrent lost updates.
type Wallet struct {
	ID        string
	OwnerID   string
	Balance   decimal.Decimal
	Version   int64
	CreatedAt time.Time
}

// BalanceView is a point-in-time view of available funds.
type BalanceView struct {
	WalletID string
	Amount   decimal.Decimal
	AsOf     time.Time
}

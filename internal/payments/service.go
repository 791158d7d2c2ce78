package payments

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zuri-pay/zuri_pay/internal/wallet"
)

// ErrNotOwner indicates the caller does not own the source wallet.
var ErrNotOwner = errors.New("not owner of source wallet")

// Service wires P2P transfers through the wallet engine, adding
// source-ownership enforcement on top of the engine's own rules.
type Service struct {
	wallets *wallet.Service
}

// NewService constructs a payment service.
func NewService(wallets *wallet.Service) *Service {
	return &Service{wallets: wallets}
}

// TransferInput captures the data needed to move funds between wallets.
type TransferInput struct {
	FromWalletID    string
	ToWalletID      string
	Amount          decimal.Decimal
	RequestorUserID string
}

// TransferResult describes the outcome of a P2P transfer.
type TransferResult struct {
	OutEntryID  string
	InEntryID   string
	Amount      decimal.Decimal
	CompletedAt time.Time
}

// Transfer moves funds between two wallets as a linked debit/credit pair.
func (s *Service) Transfer(ctx context.Context, input TransferInput) (TransferResult, error) {
	if input.RequestorUserID != "" {
		source, err := s.wallets.Get(ctx, input.FromWalletID)
		if err != nil {
			return TransferResult{}, err
		}
		if source.OwnerID != input.RequestorUserID {
			return TransferResult{}, ErrNotOwner
		}
	}

	res, err := s.wallets.Transfer(ctx, input.FromWalletID, input.ToWalletID, input.Amount)
	if err != nil {
		return TransferResult{}, err
	}

	return TransferResult{
		OutEntryID:  res.Out.ID,
		InEntryID:   res.In.ID,
		Amount:      input.Amount,
		CompletedAt: res.Out.Timestamp,
	}, nil
}

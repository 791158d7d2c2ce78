package funding

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/zuri-pay/zuri_pay/internal/ledger"
	"github.com/zuri-pay/zuri_pay/internal/wallet"
)

// Service coordinates money entering and leaving the platform through the
// wallet engine.
type Service struct {
	wallets *wallet.Service
}

// NewService prepares a funding service.
func NewService(wallets *wallet.Service) *Service {
	return &Service{wallets: wallets}
}

// MovementResult is the domain outcome of a deposit or withdrawal.
type MovementResult struct {
	Entry ledger.Entry
}

// Deposit credits the wallet and records one DEPOSIT entry.
func (s *Service) Deposit(ctx context.Context, walletID string, amount decimal.Decimal) (MovementResult, error) {
	entry, err := s.wallets.Deposit(ctx, walletID, amount)
	if err != nil {
		return MovementResult{}, err
	}
	return MovementResult{Entry: entry}, nil
}

// Withdraw debits the wallet and records one WITHDRAW entry.
func (s *Service) Withdraw(ctx context.Context, walletID string, amount decimal.Decimal) (MovementResult, error) {
	entry, err := s.wallets.Withdraw(ctx, walletID, amount)
	if err != nil {
		return MovementResult{}, err
	}
	return MovementResult{Entry: entry}, nil
}

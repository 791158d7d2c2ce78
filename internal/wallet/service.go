package wallet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zuri-pay/zuri_pay/internal/ledger"
	"github.com/zuri-pay/zuri_pay/internal/notification"
	"github.com/zuri-pay/zuri_pay/internal/retry"
)

// Service is the wallet transaction engine. It validates preconditions,
// mutates balances through version-guarded writes with bounded retry, and
// appends the corresponding ledger entries. The service holds no state of
// its own between calls and is safe for concurrent use.
type Service struct {
	store    Store
	ledger   ledger.Writer
	notifier notification.Notifier
	retryCfg retry.Config
	logger   *slog.Logger
}

// NewService builds a wallet engine instance.
func NewService(store Store, ledgerWriter ledger.Writer, notifier notification.Notifier, retryCfg retry.Config, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		ledger:   ledgerWriter,
		notifier: notifier,
		retryCfg: retryCfg,
		logger:   logger,
	}
}

// CreateInput captures data required to open a wallet.
type CreateInput struct {
	OwnerID string
}

// Create provisions a wallet with a zero balance.
func (s *Service) Create(ctx context.Context, input CreateInput) (Wallet, error) {
	if _, err := uuid.Parse(input.OwnerID); err != nil {
		return Wallet{}, err
	}

	wallet := Wallet{
		ID:        uuid.New().String(),
		OwnerID:   input.OwnerID,
		Balance:   decimal.Zero,
		Version:   0,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.Create(ctx, wallet); err != nil {
		return Wallet{}, err
	}
	return wallet, nil
}

// Get retrieves a wallet by identifier.
func (s *Service) Get(ctx context.Context, id string) (Wallet, error) {
	return s.store.Get(ctx, id)
}

// GetByOwner retrieves the wallet belonging to a user.
func (s *Service) GetByOwner(ctx context.Context, ownerID string) (Wallet, error) {
	return s.store.GetByOwner(ctx, ownerID)
}

// Balance returns the wallet's current balance.
func (s *Service) Balance(ctx context.Context, id string) (BalanceView, error) {
	wallet, err := s.store.Get(ctx, id)
	if err != nil {
		return BalanceView{}, err
	}
	return BalanceView{WalletID: wallet.ID, Amount: wallet.Balance, AsOf: time.Now().UTC()}, nil
}

// isConflict classifies transient store conflicts; only these are retried.
func isConflict(err error) bool {
	return errors.Is(err, ErrVersionConflict)
}

// Deposit atomically increases the wallet balance and appends one DEPOSIT entry.
func (s *Service) Deposit(ctx context.Context, walletID string, amount decimal.Decimal) (ledger.Entry, error) {
	s.logger.Info("deposit started", slog.String("wallet_id", walletID), slog.String("amount", amount.String()))

	if amount.Sign() <= 0 {
		s.logger.Info("deposit rejected", slog.String("wallet_id", walletID), slog.String("reason", "invalid_amount"))
		return ledger.Entry{}, ErrInvalidAmount
	}

	_, err := retry.Do(ctx, s.retryCfg, s.logger, "deposit", isConflict, func(ctx context.Context) (Wallet, error) {
		return s.applyDelta(ctx, walletID, amount)
	})
	if err != nil {
		s.logger.Error("deposit failed", slog.String("wallet_id", walletID), slog.Any("error", err))
		return ledger.Entry{}, err
	}

	entry := ledger.Entry{
		ID:        uuid.NewString(),
		WalletID:  walletID,
		Amount:    amount,
		Type:      ledger.TypeDeposit,
		Timestamp: time.Now().UTC(),
	}
	if err := s.ledger.Append(ctx, entry); err != nil {
		inconsistent := &InconsistencyError{Op: "deposit", WalletID: walletID, Amount: amount, Cause: err}
		s.logger.Error("deposit ledger append failed", slog.String("wallet_id", walletID), slog.Any("error", err))
		return ledger.Entry{}, inconsistent
	}

	s.logger.Info("deposit completed",
		slog.String("wallet_id", walletID),
		slog.String("amount", amount.String()),
		slog.String("entry_id", entry.ID),
	)
	return entry, nil
}

// Withdraw atomically decreases the wallet balance and appends one WITHDRAW
// entry. The balance check runs inside every attempt against the re-read
// balance, since a concurrent withdrawal may already have reduced it.
func (s *Service) Withdraw(ctx context.Context, walletID string, amount decimal.Decimal) (ledger.Entry, error) {
	s.logger.Info("withdraw started", slog.String("wallet_id", walletID), slog.String("amount", amount.String()))

	if amount.Sign() <= 0 {
		s.logger.Info("withdraw rejected", slog.String("wallet_id", walletID), slog.String("reason", "invalid_amount"))
		return ledger.Entry{}, ErrInvalidAmount
	}

	_, err := retry.Do(ctx, s.retryCfg, s.logger, "withdraw", isConflict, func(ctx context.Context) (Wallet, error) {
		return s.applyDelta(ctx, walletID, amount.Neg())
	})
	if err != nil {
		s.logger.Error("withdraw failed", slog.String("wallet_id", walletID), slog.Any("error", err))
		return ledger.Entry{}, err
	}

	entry := ledger.Entry{
		ID:        uuid.NewString(),
		WalletID:  walletID,
		Amount:    amount,
		Type:      ledger.TypeWithdraw,
		Timestamp: time.Now().UTC(),
	}
	if err := s.ledger.Append(ctx, entry); err != nil {
		inconsistent := &InconsistencyError{Op: "withdraw", WalletID: walletID, Amount: amount, Cause: err}
		s.logger.Error("withdraw ledger append failed", slog.String("wallet_id", walletID), slog.Any("error", err))
		return ledger.Entry{}, inconsistent
	}

	s.logger.Info("withdraw completed",
		slog.String("wallet_id", walletID),
		slog.String("amount", amount.String()),
		slog.String("entry_id", entry.ID),
	)
	return entry, nil
}

// TransferResult holds the two linked entries produced by a transfer.
type TransferResult struct {
	Out ledger.Entry
	In  ledger.Entry
}

// Transfer debits the source wallet and credits the destination, appending a
// linked TRANSFER_OUT/TRANSFER_IN entry pair sharing one timestamp. The debit
// runs first; a credit failure after the debit committed is surfaced as an
// InconsistencyError rather than compensated, since re-running the transfer
// would double-debit.
func (s *Service) Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal) (TransferResult, error) {
	s.logger.Info("transfer started",
		slog.String("from_wallet_id", fromID),
		slog.String("to_wallet_id", toID),
		slog.String("amount", amount.String()),
	)

	if amount.Sign() <= 0 {
		s.logger.Info("transfer rejected", slog.String("from_wallet_id", fromID), slog.String("reason", "invalid_amount"))
		return TransferResult{}, ErrInvalidAmount
	}
	if fromID == toID {
		s.logger.Info("transfer rejected", slog.String("from_wallet_id", fromID), slog.String("reason", "same_wallet"))
		return TransferResult{}, ErrSameWalletTransfer
	}

	from, err := s.store.Get(ctx, fromID)
	if err != nil {
		s.logger.Error("transfer failed", slog.String("from_wallet_id", fromID), slog.Any("error", err))
		return TransferResult{}, err
	}
	to, err := s.store.Get(ctx, toID)
	if err != nil {
		s.logger.Error("transfer failed", slog.String("to_wallet_id", toID), slog.Any("error", err))
		return TransferResult{}, err
	}

	// Debit first. Each attempt re-reads and re-validates the source balance.
	if _, err := retry.Do(ctx, s.retryCfg, s.logger, "transfer debit", isConflict, func(ctx context.Context) (Wallet, error) {
		return s.applyDelta(ctx, fromID, amount.Neg())
	}); err != nil {
		s.logger.Error("transfer debit failed", slog.String("from_wallet_id", fromID), slog.Any("error", err))
		return TransferResult{}, err
	}

	// Credit only after the debit committed. Failure here leaves the debit
	// in place and escalates instead of retrying the whole transfer.
	if _, err := retry.Do(ctx, s.retryCfg, s.logger, "transfer credit", isConflict, func(ctx context.Context) (Wallet, error) {
		return s.applyDelta(ctx, toID, amount)
	}); err != nil {
		inconsistent := &InconsistencyError{Op: "transfer", WalletID: fromID, PeerWalletID: toID, Amount: amount, Cause: err}
		s.logger.Error("transfer credit failed after debit committed",
			slog.String("from_wallet_id", fromID),
			slog.String("to_wallet_id", toID),
			slog.String("amount", amount.String()),
			slog.Any("error", err),
		)
		return TransferResult{}, inconsistent
	}

	committedAt := time.Now().UTC()
	out := ledger.Entry{
		ID:            uuid.NewString(),
		WalletID:      fromID,
		Amount:        amount,
		Type:          ledger.TypeTransferOut,
		Timestamp:     committedAt,
		RelatedUserID: to.OwnerID,
	}
	in := ledger.Entry{
		ID:            uuid.NewString(),
		WalletID:      toID,
		Amount:        amount,
		Type:          ledger.TypeTransferIn,
		Timestamp:     committedAt,
		RelatedUserID: from.OwnerID,
	}

	if err := s.ledger.Append(ctx, out); err != nil {
		inconsistent := &InconsistencyError{Op: "transfer", WalletID: fromID, PeerWalletID: toID, Amount: amount, Cause: err}
		s.logger.Error("transfer ledger append failed", slog.String("wallet_id", fromID), slog.Any("error", err))
		return TransferResult{}, inconsistent
	}
	if err := s.ledger.Append(ctx, in); err != nil {
		inconsistent := &InconsistencyError{Op: "transfer", WalletID: toID, PeerWalletID: fromID, Amount: amount, Cause: err}
		s.logger.Error("transfer ledger append failed", slog.String("wallet_id", toID), slog.Any("error", err))
		return TransferResult{}, inconsistent
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindTransferReceived,
			Destination: to.OwnerID,
			Body:        fmt.Sprintf("You received %s from wallet %s", amount, fromID),
		})
	}

	s.logger.Info("transfer completed",
		slog.String("from_wallet_id", fromID),
		slog.String("to_wallet_id", toID),
		slog.String("amount", amount.String()),
		slog.String("out_entry_id", out.ID),
		slog.String("in_entry_id", in.ID),
	)
	return TransferResult{Out: out, In: in}, nil
}

// applyDelta is one attempt of the read-validate-write cycle: it re-reads the
// wallet, rejects debits the fresh balance cannot cover, and issues the
// version-guarded write.
func (s *Service) applyDelta(ctx context.Context, walletID string, delta decimal.Decimal) (Wallet, error) {
	wallet, err := s.store.Get(ctx, walletID)
	if err != nil {
		return Wallet{}, err
	}

	newBalance := wallet.Balance.Add(delta)
	if newBalance.Sign() < 0 {
		return Wallet{}, ErrInsufficientBalance
	}

	if err := s.store.UpdateBalance(ctx, walletID, newBalance, wallet.Version); err != nil {
		return Wallet{}, err
	}

	wallet.Balance = newBalance
	wallet.Version++
	return wallet, nil
}

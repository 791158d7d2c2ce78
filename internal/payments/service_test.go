package payments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/zuri-pay/zuri_pay/internal/ledger"
	"github.com/zuri-pay/zuri_pay/internal/logging"
	"github.com/zuri-pay/zuri_pay/internal/retry"
	"github.com/zuri-pay/zuri_pay/internal/wallet"
)

func newFixture(t *testing.T) (*Service, *wallet.Service, wallet.Store) {
	t.Helper()
	store := wallet.NewMemoryStore()
	engine := wallet.NewService(store, ledger.NewInMemory(), nil,
		retry.Config{MaxAttempts: 3, BaseDelay: time.Millisecond}, logging.Discard())
	return NewService(engine), engine, store
}

func newWallet(t *testing.T, store wallet.Store, balance string) wallet.Wallet {
	t.Helper()
	w := wallet.Wallet{
		ID:        uuid.NewString(),
		OwnerID:   uuid.NewString(),
		Balance:   decimal.RequireFromString(balance),
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.Create(context.Background(), w))
	return w
}

func TestTransferByOwnerSucceeds(t *testing.T) {
	svc, engine, store := newFixture(t)
	from := newWallet(t, store, "100")
	to := newWallet(t, store, "0")

	res, err := svc.Transfer(context.Background(), TransferInput{
		FromWalletID:    from.ID,
		ToWalletID:      to.ID,
		Amount:          decimal.RequireFromString("25"),
		RequestorUserID: from.OwnerID,
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.OutEntryID)
	require.NotEmpty(t, res.InEntryID)
	require.False(t, res.CompletedAt.IsZero())

	got, err := engine.Get(context.Background(), to.ID)
	require.NoError(t, err)
	require.True(t, got.Balance.Equal(decimal.RequireFromString("25")))
}

func TestTransferByNonOwnerRejected(t *testing.T) {
	svc, engine, store := newFixture(t)
	from := newWallet(t, store, "100")
	to := newWallet(t, store, "0")

	_, err := svc.Transfer(context.Background(), TransferInput{
		FromWalletID:    from.ID,
		ToWalletID:      to.ID,
		Amount:          decimal.RequireFromString("25"),
		RequestorUserID: uuid.NewString(),
	})
	require.ErrorIs(t, err, ErrNotOwner)

	got, err := engine.Get(context.Background(), from.ID)
	require.NoError(t, err)
	require.True(t, got.Balance.Equal(decimal.RequireFromString("100")), "rejected transfer must not move funds")
}

func TestTransferPropagatesEngineErrors(t *testing.T) {
	svc, _, store := newFixture(t)
	from := newWallet(t, store, "10")
	to := newWallet(t, store, "0")

	_, err := svc.Transfer(context.Background(), TransferInput{
		FromWalletID:    from.ID,
		ToWalletID:      to.ID,
		Amount:          decimal.RequireFromString("50"),
		RequestorUserID: from.OwnerID,
	})
	require.ErrorIs(t, err, wallet.ErrInsufficientBalance)

	_, err = svc.Transfer(context.Background(), TransferInput{
		FromWalletID:    from.ID,
		ToWalletID:      from.ID,
		Amount:          decimal.RequireFromString("5"),
		RequestorUserID: from.OwnerID,
	})
	require.ErrorIs(t, err, wallet.ErrSameWalletTransfer)
}

func TestTransferUnknownSourceWallet(t *testing.T) {
	svc, _, _ := newFixture(t)
	_, err := svc.Transfer(context.Background(), TransferInput{
		FromWalletID:    uuid.NewString(),
		ToWalletID:      uuid.NewString(),
		Amount:          decimal.RequireFromString("5"),
		RequestorUserID: uuid.NewString(),
	})
	require.ErrorIs(t, err, wallet.ErrWalletNotFound)
}

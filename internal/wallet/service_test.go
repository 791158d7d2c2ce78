package wallet

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/zuri-pay/zuri_pay/internal/ledger"
	"github.com/zuri-pay/zuri_pay/internal/logging"
	"github.com/zuri-pay/zuri_pay/internal/retry"
)

func newTestService(t *testing.T) (*Service, Store, ledger.Writer) {
	t.Helper()
	store := NewMemoryStore()
	writer := ledger.NewInMemory()
	cfg := retry.Config{MaxAttempts: 3, BaseDelay: time.Millisecond}
	svc := NewService(store, writer, nil, cfg, logging.Discard())
	return svc, store, writer
}

func seedWallet(t *testing.T, store Store, balance string) Wallet {
	t.Helper()
	w := Wallet{
		ID:        uuid.NewString(),
		OwnerID:   uuid.NewString(),
		Balance:   decimal.RequireFromString(balance),
		Version:   0,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.Create(context.Background(), w))
	return w
}

func currentBalance(t *testing.T, store Store, id string) decimal.Decimal {
	t.Helper()
	w, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	return w.Balance
}

func TestDepositIncreasesBalanceAndRecordsEntry(t *testing.T) {
	svc, store, writer := newTestService(t)
	w := seedWallet(t, store, "100")

	entry, err := svc.Deposit(context.Background(), w.ID, decimal.RequireFromString("50"))
	require.NoError(t, err)

	require.True(t, currentBalance(t, store, w.ID).Equal(decimal.RequireFromString("150")))
	require.Equal(t, ledger.TypeDeposit, entry.Type)
	require.True(t, entry.Amount.Equal(decimal.RequireFromString("50")))

	entries, err := writer.Query(context.Background(), w.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, entry.ID, entries[0].ID)
}

func TestDepositRejectsNonPositiveAmount(t *testing.T) {
	svc, store, _ := newTestService(t)
	w := seedWallet(t, store, "100")

	for _, amount := range []string{"0", "-5"} {
		_, err := svc.Deposit(context.Background(), w.ID, decimal.RequireFromString(amount))
		require.ErrorIs(t, err, ErrInvalidAmount)
	}
	require.True(t, currentBalance(t, store, w.ID).Equal(decimal.RequireFromString("100")))
}

func TestWithdrawInsufficientBalanceLeavesNoTrace(t *testing.T) {
	svc, store, writer := newTestService(t)
	w := seedWallet(t, store, "100")

	_, err := svc.Withdraw(context.Background(), w.ID, decimal.RequireFromString("150"))
	require.ErrorIs(t, err, ErrInsufficientBalance)

	require.True(t, currentBalance(t, store, w.ID).Equal(decimal.RequireFromString("100")))
	entries, err := writer.Query(context.Background(), w.ID, nil, nil)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestWithdrawToExactlyZero(t *testing.T) {
	svc, store, _ := newTestService(t)
	w := seedWallet(t, store, "100")

	_, err := svc.Withdraw(context.Background(), w.ID, decimal.RequireFromString("100"))
	require.NoError(t, err)
	require.True(t, currentBalance(t, store, w.ID).IsZero())
}

func TestWithdrawUnknownWallet(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Withdraw(context.Background(), uuid.NewString(), decimal.RequireFromString("10"))
	require.ErrorIs(t, err, ErrWalletNotFound)
}

func TestTransferMovesFundsWithLinkedEntries(t *testing.T) {
	svc, store, writer := newTestService(t)
	a := seedWallet(t, store, "100")
	b := seedWallet(t, store, "0")

	result, err := svc.Transfer(context.Background(), a.ID, b.ID, decimal.RequireFromString("40"))
	require.NoError(t, err)

	require.True(t, currentBalance(t, store, a.ID).Equal(decimal.RequireFromString("60")))
	require.True(t, currentBalance(t, store, b.ID).Equal(decimal.RequireFromString("40")))

	require.Equal(t, ledger.TypeTransferOut, result.Out.Type)
	require.Equal(t, ledger.TypeTransferIn, result.In.Type)
	require.True(t, result.Out.Timestamp.Equal(result.In.Timestamp), "entry pair must share one timestamp")
	require.Equal(t, b.OwnerID, result.Out.RelatedUserID)
	require.Equal(t, a.OwnerID, result.In.RelatedUserID)

	outEntries, err := writer.Query(context.Background(), a.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, outEntries, 1)
	inEntries, err := writer.Query(context.Background(), b.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, inEntries, 1)
}

func TestTransferSameWalletRejectedBeforeAnyWrite(t *testing.T) {
	svc, store, writer := newTestService(t)
	w := seedWallet(t, store, "100")

	_, err := svc.Transfer(context.Background(), w.ID, w.ID, decimal.RequireFromString("10"))
	require.ErrorIs(t, err, ErrSameWalletTransfer)

	require.True(t, currentBalance(t, store, w.ID).Equal(decimal.RequireFromString("100")))
	entries, err := writer.Query(context.Background(), w.ID, nil, nil)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestTransferInsufficientSourceBalance(t *testing.T) {
	svc, store, _ := newTestService(t)
	a := seedWallet(t, store, "30")
	b := seedWallet(t, store, "0")

	_, err := svc.Transfer(context.Background(), a.ID, b.ID, decimal.RequireFromString("40"))
	require.ErrorIs(t, err, ErrInsufficientBalance)
	require.True(t, currentBalance(t, store, a.ID).Equal(decimal.RequireFromString("30")))
	require.True(t, currentBalance(t, store, b.ID).IsZero())
}

func TestTransferMissingDestinationFailsBeforeDebit(t *testing.T) {
	svc, store, _ := newTestService(t)
	a := seedWallet(t, store, "100")

	_, err := svc.Transfer(context.Background(), a.ID, uuid.NewString(), decimal.RequireFromString("10"))
	require.ErrorIs(t, err, ErrWalletNotFound)
	require.True(t, currentBalance(t, store, a.ID).Equal(decimal.RequireFromString("100")))
}

// conflictStore lets reads through but fails every versioned write.
type conflictStore struct{ Store }

func (s *conflictStore) UpdateBalance(context.Context, string, decimal.Decimal, int64) error {
	return ErrVersionConflict
}

func TestDepositSurfacesExhaustedRetryBudget(t *testing.T) {
	inner := NewMemoryStore()
	store := &conflictStore{Store: inner}
	writer := ledger.NewInMemory()
	cfg := retry.Config{MaxAttempts: 3, BaseDelay: time.Millisecond}
	svc := NewService(store, writer, nil, cfg, logging.Discard())

	w := seedWallet(t, inner, "100")
	_, err := svc.Deposit(context.Background(), w.ID, decimal.RequireFromString("10"))

	var exhausted *retry.ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	require.Equal(t, 3, exhausted.Attempts)
	require.ErrorIs(t, err, ErrVersionConflict)

	entries, qerr := writer.Query(context.Background(), w.ID, nil, nil)
	require.NoError(t, qerr)
	require.Empty(t, entries, "no ledger entry may exist for a failed deposit")
}

// brokenCreditStore delegates to the inner store but rejects writes to one
// wallet with a non-retryable failure, simulating a credit-side outage.
type brokenCreditStore struct {
	Store
	failID string
}

var errStorageDown = errors.New("storage unavailable")

func (s *brokenCreditStore) UpdateBalance(ctx context.Context, id string, b decimal.Decimal, v int64) error {
	if id == s.failID {
		return errStorageDown
	}
	return s.Store.UpdateBalance(ctx, id, b, v)
}

func TestTransferCreditFailureSurfacesInconsistency(t *testing.T) {
	inner := NewMemoryStore()
	writer := ledger.NewInMemory()
	cfg := retry.Config{MaxAttempts: 3, BaseDelay: time.Millisecond}

	a := seedWallet(t, inner, "100")
	b := seedWallet(t, inner, "0")
	store := &brokenCreditStore{Store: inner, failID: b.ID}
	svc := NewService(store, writer, nil, cfg, logging.Discard())

	_, err := svc.Transfer(context.Background(), a.ID, b.ID, decimal.RequireFromString("40"))

	var inconsistent *InconsistencyError
	require.ErrorAs(t, err, &inconsistent)
	require.Equal(t, a.ID, inconsistent.WalletID)
	require.Equal(t, b.ID, inconsistent.PeerWalletID)
	require.ErrorIs(t, err, errStorageDown)

	// The debit stays committed; nothing compensates it automatically.
	require.True(t, currentBalance(t, inner, a.ID).Equal(decimal.RequireFromString("60")))
	require.True(t, currentBalance(t, inner, b.ID).IsZero())
}

type failingLedger struct{}

var errLedgerDown = errors.New("ledger unavailable")

func (failingLedger) Append(context.Context, ledger.Entry) error { return errLedgerDown }
func (failingLedger) Query(context.Context, string, *time.Time, *time.Time) ([]ledger.Entry, error) {
	return nil, errLedgerDown
}

func TestDepositLedgerFailureSurfacesInconsistency(t *testing.T) {
	store := NewMemoryStore()
	cfg := retry.Config{MaxAttempts: 3, BaseDelay: time.Millisecond}
	svc := NewService(store, failingLedger{}, nil, cfg, logging.Discard())

	w := seedWallet(t, store, "100")
	_, err := svc.Deposit(context.Background(), w.ID, decimal.RequireFromString("10"))

	var inconsistent *InconsistencyError
	require.ErrorAs(t, err, &inconsistent)
	require.Equal(t, "deposit", inconsistent.Op)

	// The balance write already committed when the append failed.
	require.True(t, currentBalance(t, store, w.ID).Equal(decimal.RequireFromString("110")))
}

func TestConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	svc, store, writer := newTestService(t)
	w := seedWallet(t, store, "100")
	amount := decimal.RequireFromString("30")

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Withdraw(context.Background(), w.ID, amount)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var exhausted *retry.ExhaustedError
		ok := errors.Is(err, ErrInsufficientBalance) || errors.As(err, &exhausted)
		require.True(t, ok, "unexpected withdrawal error: %v", err)
	}
	require.LessOrEqual(t, succeeded, 3, "at most 3 withdrawals of 30 fit in 100")

	final := currentBalance(t, store, w.ID)
	require.True(t, final.Sign() >= 0, "balance went negative: %s", final)

	expected := decimal.RequireFromString("100").Sub(amount.Mul(decimal.NewFromInt(int64(succeeded))))
	require.True(t, final.Equal(expected), "balance %s, want %s", final, expected)

	entries, err := writer.Query(context.Background(), w.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, entries, succeeded, "exactly one entry per successful withdrawal")
}

func TestBalanceEqualsSumOfSignedEntries(t *testing.T) {
	svc, store, writer := newTestService(t)
	a := seedWallet(t, store, "0")
	b := seedWallet(t, store, "0")

	ctx := context.Background()
	_, err := svc.Deposit(ctx, a.ID, decimal.RequireFromString("120.50"))
	require.NoError(t, err)
	_, err = svc.Withdraw(ctx, a.ID, decimal.RequireFromString("20.25"))
	require.NoError(t, err)
	_, err = svc.Transfer(ctx, a.ID, b.ID, decimal.RequireFromString("50"))
	require.NoError(t, err)

	for _, id := range []string{a.ID, b.ID} {
		entries, err := writer.Query(ctx, id, nil, nil)
		require.NoError(t, err)
		sum := decimal.Zero
		for _, e := range entries {
			require.True(t, e.Amount.Sign() > 0, "stored amounts are positive magnitudes")
			sum = sum.Add(e.Signed())
		}
		require.True(t, currentBalance(t, store, id).Equal(sum),
			"wallet %s balance does not match its ledger", id)
	}
}

func TestCreateRejectsMalformedOwnerID(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Create(context.Background(), CreateInput{OwnerID: "not-a-uuid"})
	require.Error(t, err)
}

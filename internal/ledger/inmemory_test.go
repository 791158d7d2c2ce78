package ledger

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestInMemoryWriter_QueryAscending(t *testing.T) {
	w := NewInMemory()
	ctx := context.Background()
	walletID := uuid.NewString()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	// Append out of chronological order on purpose.
	for _, offset := range []time.Duration{2 * time.Hour, 0, time.Hour} {
		entry := Entry{
			ID:        uuid.NewString(),
			WalletID:  walletID,
			Amount:    decimal.NewFromInt(100),
			Type:      TypeDeposit,
			Timestamp: base.Add(offset),
		}
		if err := w.Append(ctx, entry); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	entries, err := w.Query(ctx, walletID, nil, nil)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Timestamp.Before(entries[i-1].Timestamp) {
			t.Fatalf("entries not ascending at index %d", i)
		}
	}
}

func TestInMemoryWriter_QueryClosedInterval(t *testing.T) {
	w := NewInMemory()
	ctx := context.Background()
	walletID := uuid.NewString()

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	SeedEntries(w,
		Entry{ID: uuid.NewString(), WalletID: walletID, Amount: decimal.NewFromInt(10), Type: TypeDeposit, Timestamp: day.Add(-time.Second)},
		Entry{ID: uuid.NewString(), WalletID: walletID, Amount: decimal.NewFromInt(20), Type: TypeDeposit, Timestamp: day},
		Entry{ID: uuid.NewString(), WalletID: walletID, Amount: decimal.NewFromInt(30), Type: TypeDeposit, Timestamp: day.Add(23*time.Hour + 59*time.Minute + 59*time.Second)},
		Entry{ID: uuid.NewString(), WalletID: walletID, Amount: decimal.NewFromInt(40), Type: TypeDeposit, Timestamp: day.Add(24 * time.Hour)},
	)

	from := day
	to := day.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	entries, err := w.Query(ctx, walletID, &from, &to)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries inside the day, got %d", len(entries))
	}
	if !entries[0].Amount.Equal(decimal.NewFromInt(20)) || !entries[1].Amount.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestInMemoryWriter_ConcurrentAppend(t *testing.T) {
	w := NewInMemory()
	ctx := context.Background()
	walletID := uuid.NewString()

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entry := Entry{
				ID:        fmt.Sprintf("entry-%d", i),
				WalletID:  walletID,
				Amount:    decimal.NewFromInt(5),
				Type:      TypeDeposit,
				Timestamp: time.Now().UTC(),
			}
			if err := w.Append(ctx, entry); err != nil {
				t.Errorf("append %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	entries, err := w.Query(ctx, walletID, nil, nil)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(entries) != workers {
		t.Fatalf("expected %d entries, got %d", workers, len(entries))
	}
}

func TestEntrySigned(t *testing.T) {
	amount := decimal.RequireFromString("12.50")
	cases := map[EntryType]string{
		TypeDeposit:     "12.5",
		TypeTransferIn:  "12.5",
		TypeWithdraw:    "-12.5",
		TypeTransferOut: "-12.5",
	}
	for entryType, want := range cases {
		entry := Entry{Amount: amount, Type: entryType}
		if got := entry.Signed().String(); got != want {
			t.Fatalf("%s: expected signed %s, got %s", entryType, want, got)
		}
	}
}

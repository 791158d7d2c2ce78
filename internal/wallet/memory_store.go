package wallet

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

type memoryStore struct {
	mu      sync.RWMutex
	storage map[string]Wallet
}

// NewMemoryStore constructs an in-memory store for tests and dev mode. It
// honors the same version-guarded write semantics as the Postgres store.
func NewMemoryStore() Store {
	return &memoryStore{storage: make(map[string]Wallet)}
}

func (s *memoryStore) Create(_ context.Context, wallet Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.storage[wallet.ID]; exists {
		return ErrWalletExists
	}
	s.storage[wallet.ID] = wallet
	return nil
}

func (s *memoryStore) Get(_ context.Context, id string) (Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wallet, ok := s.storage[id]
	if !ok {
		return Wallet{}, ErrWalletNotFound
	}
	return wallet, nil
}

func (s *memoryStore) GetByOwner(_ context.Context, ownerID string) (Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, wallet := range s.storage {
		if wallet.OwnerID == ownerID {
			return wallet, nil
		}
	}
	return Wallet{}, ErrWalletNotFound
}

func (s *memoryStore) UpdateBalance(_ context.Context, id string, newBalance decimal.Decimal, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	wallet, ok := s.storage[id]
	if !ok {
		return ErrWalletNotFound
	}
	if wallet.Version != expectedVersion {
		return ErrVersionConflict
	}
	wallet.Balance = newBalance
	wallet.Version++
	s.storage[id] = wallet
	return nil
}

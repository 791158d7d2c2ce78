package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Store persists wallet aggregates. UpdateBalance applies a write only when
// the stored version equals expectedVersion, which makes every balance
// mutation an optimistic compare-and-set.
type Store interface {
	Create(ctx context.Context, wallet Wallet) error
	Get(ctx context.Context, id string) (Wallet, error)
	GetByOwner(ctx context.Context, ownerID string) (Wallet, error)
	UpdateBalance(ctx context.Context, id string, newBalance decimal.Decimal, expectedVersion int64) error
}

// PostgresStore stores wallets in PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a store backed by PostgreSQL.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts a wallet row.
func (s *PostgresStore) Create(ctx context.Context, wallet Wallet) error {
	walletID, err := uuid.Parse(wallet.ID)
	if err != nil {
		return err
	}
	ownerID, err := uuid.Parse(wallet.OwnerID)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `INSERT INTO wallets (id, owner_id, balance, version, created_at)
        VALUES ($1, $2, $3, $4, $5)`, walletID, ownerID, wallet.Balance, wallet.Version, wallet.CreatedAt.UTC())
	return err
}

// Get fetches a wallet by identifier.
func (s *PostgresStore) Get(ctx context.Context, id string) (Wallet, error) {
	walletID, err := uuid.Parse(id)
	if err != nil {
		return Wallet{}, ErrWalletNotFound
	}
	row := s.db.QueryRow(ctx, `SELECT id, owner_id, balance, version, created_at FROM wallets WHERE id = $1`, walletID)
	return scanWallet(row)
}

// GetByOwner fetches the wallet belonging to a user.
func (s *PostgresStore) GetByOwner(ctx context.Context, ownerID string) (Wallet, error) {
	ownerUUID, err := uuid.Parse(ownerID)
	if err != nil {
		return Wallet{}, ErrWalletNotFound
	}
	row := s.db.QueryRow(ctx, `SELECT id, owner_id, balance, version, created_at FROM wallets WHERE owner_id = $1`, ownerUUID)
	return scanWallet(row)
}

// UpdateBalance performs the version-guarded balance write. A stale version
// yields ErrVersionConflict; a missing wallet yields ErrWalletNotFound.
func (s *PostgresStore) UpdateBalance(ctx context.Context, id string, newBalance decimal.Decimal, expectedVersion int64) error {
	walletID, err := uuid.Parse(id)
	if err != nil {
		return ErrWalletNotFound
	}
	cmd, err := s.db.Exec(ctx, `UPDATE wallets SET balance = $1, version = version + 1
        WHERE id = $2 AND version = $3`, newBalance, walletID, expectedVersion)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM wallets WHERE id = $1)`, walletID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrWalletNotFound
	}
	return ErrVersionConflict
}

func scanWallet(row pgx.Row) (Wallet, error) {
	var (
		w         Wallet
		id        uuid.UUID
		ownerID   uuid.UUID
		createdAt time.Time
	)
	if err := row.Scan(&id, &ownerID, &w.Balance, &w.Version, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Wallet{}, ErrWalletNotFound
		}
		return Wallet{}, err
	}
	w.ID = id.String()
	w.OwnerID = ownerID.String()
	w.CreatedAt = createdAt.UTC()
	return w, nil
}

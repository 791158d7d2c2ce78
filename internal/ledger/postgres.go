package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresWriter persists ledger entries in PostgreSQL.
type PostgresWriter struct {
	db *pgxpool.Pool
}

// NewPostgresWriter constructs a Postgres-backed ledger implementation.
func NewPostgresWriter(db *pgxpool.Pool) *PostgresWriter {
	return &PostgresWriter{db: db}
}

// Append inserts a single immutable entry.
func (w *PostgresWriter) Append(ctx context.Context, entry Entry) error {
	entryID, err := uuid.Parse(entry.ID)
	if err != nil {
		return err
	}
	walletID, err := uuid.Parse(entry.WalletID)
	if err != nil {
		return err
	}
	var related any
	if entry.RelatedUserID != "" {
		relatedID, err := uuid.Parse(entry.RelatedUserID)
		if err != nil {
			return err
		}
		related = relatedID
	}
	_, err = w.db.Exec(ctx, `INSERT INTO ledger_entries (id, wallet_id, amount, entry_type, occurred_at, related_user_id)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		entryID, walletID, entry.Amount, string(entry.Type), entry.Timestamp.UTC(), related)
	return err
}

// Query fetches entries for a wallet within the closed interval, ascending.
func (w *PostgresWriter) Query(ctx context.Context, walletID string, from, to *time.Time) ([]Entry, error) {
	walletUUID, err := uuid.Parse(walletID)
	if err != nil {
		return nil, err
	}

	const query = `
        SELECT id, wallet_id, amount, entry_type, occurred_at, related_user_id
        FROM ledger_entries
        WHERE wallet_id = $1
          AND ($2::timestamptz IS NULL OR occurred_at >= $2)
          AND ($3::timestamptz IS NULL OR occurred_at <= $3)
        ORDER BY occurred_at ASC`

	rows, err := w.db.Query(ctx, query, walletUUID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			id        uuid.UUID
			wID       uuid.UUID
			amount    decimal.Decimal
			entryType string
			occurred  time.Time
			related   *uuid.UUID
		)
		if err := rows.Scan(&id, &wID, &amount, &entryType, &occurred, &related); err != nil {
			return nil, err
		}
		entry := Entry{
			ID:        id.String(),
			WalletID:  wID.String(),
			Amount:    amount,
			Type:      EntryType(entryType),
			Timestamp: occurred.UTC(),
		}
		if related != nil {
			entry.RelatedUserID = related.String()
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

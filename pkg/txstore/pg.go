package txstore

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/kitswap/dex-middleware/pkg/tx"
)

type pgBackend struct {
	db *bun.DB
}

// NewPGBackend creates the postgres implementation of the transaction
// record backend
func NewPGBackend(db *bun.DB) *pgBackend {
	return &pgBackend{db: db}
}

// Upsert writes a record keyed by hash. The terminal write for a hash
// replaces the pending row, while a row that already reached success or
// error keeps its status even if a stale pending write arrives late.
func (s *pgBackend) Upsert(ctx context.Context, rec *tx.Record) error {
	dao := toTransactionDao(rec)

	_, err := s.db.NewInsert().
		Model(dao).
		On("CONFLICT (hash) DO UPDATE").
		Set("status = CASE WHEN tr.status = 'pending' THEN EXCLUDED.status ELSE tr.status END").
		Set("timestamp = EXCLUDED.timestamp").
		Set("amount = EXCLUDED.amount").
		Set("token = EXCLUDED.token").
		Set("to_token = EXCLUDED.to_token").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert transaction %s: %w", rec.Hash, err)
	}

	return nil
}

// ListByOwner returns the most recent records sent from the given
// address, newest first. Address comparison is case-insensitive since
// callers mix checksummed and lowercased hex.
func (s *pgBackend) ListByOwner(ctx context.Context, owner string, limit int) ([]*tx.Record, error) {
	var daos []TransactionDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("lower(from_address) = lower(?)", owner).
		OrderExpr("timestamp DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for %s: %w", owner, err)
	}

	records := make([]*tx.Record, len(daos))
	for i := range daos {
		records[i] = toRecord(&daos[i])
	}
	return records, nil
}

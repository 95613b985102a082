// Package txstore persists transaction records with a two-tier layout:
// a postgres backend as the source of truth and an in-memory fallback
// that absorbs writes when the database is unavailable.
package txstore

import (
	"context"

	"go.uber.org/zap"

	"github.com/kitswap/dex-middleware/internal/metrics"
	"github.com/kitswap/dex-middleware/pkg/tx"
)

// Backend is the durable tier of the store.
type Backend interface {
	Upsert(ctx context.Context, rec *tx.Record) error
	ListByOwner(ctx context.Context, owner string, limit int) ([]*tx.Record, error)
}

// SaveResult reports where a record landed. Err is the backend error
// when the record was diverted to the fallback; Save itself never fails.
type SaveResult struct {
	Record   *tx.Record
	Fallback bool
	Err      error
}

// Store is the two-tier record store.
type Store struct {
	backend  Backend
	fallback *Fallback
	logger   *zap.Logger
}

func NewStore(backend Backend, fallback *Fallback, logger *zap.Logger) *Store {
	return &Store{
		backend:  backend,
		fallback: fallback,
		logger:   logger,
	}
}

// Save writes the record to the backend, diverting to the fallback on
// any backend error. The caller always gets its record stored somewhere.
func (s *Store) Save(ctx context.Context, rec *tx.Record) SaveResult {
	err := s.backend.Upsert(ctx, rec)
	if err == nil {
		return SaveResult{Record: rec}
	}

	s.logger.Warn("database save failed, using in-memory fallback",
		zap.String("hash", rec.Hash),
		zap.String("status", string(rec.Status)),
		zap.Error(err))
	metrics.StoreFallbackSaves.Inc()
	s.fallback.Append(rec)

	return SaveResult{Record: rec, Fallback: true, Err: err}
}

// List returns the most recent records sent from the given address,
// newest first. When the backend cannot serve the query the fallback
// buffer answers instead, so a degraded database still yields the
// session's own transactions.
func (s *Store) List(ctx context.Context, owner string, limit int) ([]*tx.Record, error) {
	records, err := s.backend.ListByOwner(ctx, owner, limit)
	if err != nil {
		s.logger.Warn("database list failed, serving in-memory fallback",
			zap.String("owner", owner),
			zap.Error(err))
		return s.fallback.ListByOwner(owner, limit), nil
	}
	return records, nil
}

// Package txhistory serves the dashboard's transaction history: listing
// records per wallet and accepting records written by external clients.
package txhistory

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/kitswap/dex-middleware/pkg/app/errors"
	"github.com/kitswap/dex-middleware/pkg/tx"
	"github.com/kitswap/dex-middleware/pkg/txstore"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// Service defines the transaction history business logic
type Service interface {
	// List returns the most recent records sent from the given address,
	// newest first.
	List(ctx context.Context, address string, limit int) ([]*tx.Record, error)
	// Record stores an externally supplied record, applying the same
	// defaulting the dashboard relies on.
	Record(ctx context.Context, rec *tx.Record) (*tx.Record, error)
}

type historyService struct {
	store  *txstore.Store
	logger *zap.Logger
}

// NewService creates a new transaction history service
func NewService(store *txstore.Store, logger *zap.Logger) Service {
	return &historyService{
		store:  store,
		logger: logger,
	}
}

func (s *historyService) List(ctx context.Context, address string, limit int) ([]*tx.Record, error) {
	if address == "" {
		return nil, apperrors.BadRequestError(nil, "address is required")
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return s.store.List(ctx, address, limit)
}

func (s *historyService) Record(ctx context.Context, rec *tx.Record) (*tx.Record, error) {
	if rec.Hash == "" {
		return nil, apperrors.BadRequestError(nil, "hash is required")
	}
	if rec.From == "" {
		return nil, apperrors.BadRequestError(nil, "from is required")
	}

	applyDefaults(rec)
	if rec.Status != tx.StatusPending && !rec.Status.Terminal() {
		return nil, apperrors.BadRequestError(nil, fmt.Sprintf("invalid status %q", rec.Status))
	}

	res := s.store.Save(ctx, rec)
	if res.Fallback {
		s.logger.Debug("external record held in fallback store",
			zap.String("tx_hash", rec.Hash))
	}
	return res.Record, nil
}

// applyDefaults fills the optional fields of an externally supplied
// record the way the dashboard expects them.
func applyDefaults(rec *tx.Record) {
	if rec.Status == "" {
		rec.Status = tx.StatusPending
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	if rec.Kind == "" {
		rec.Kind = tx.KindFor(rec.Operation)
	}
	if rec.Value == "" {
		rec.Value = "0"
	}
	if rec.Args == "" {
		rec.Args = "[]"
	}
}

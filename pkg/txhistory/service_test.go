package txhistory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/kitswap/dex-middleware/pkg/app/errors"
	"github.com/kitswap/dex-middleware/pkg/tx"
	"github.com/kitswap/dex-middleware/pkg/txstore"
)

type stubBackend struct {
	listErr   error
	upsertErr error
	saved     []*tx.Record
	listed    []*tx.Record
	lastLimit int
}

func (b *stubBackend) Upsert(_ context.Context, rec *tx.Record) error {
	if b.upsertErr != nil {
		return b.upsertErr
	}
	b.saved = append(b.saved, rec.Clone())
	return nil
}

func (b *stubBackend) ListByOwner(_ context.Context, _ string, limit int) ([]*tx.Record, error) {
	b.lastLimit = limit
	if b.listErr != nil {
		return nil, b.listErr
	}
	return b.listed, nil
}

func newTestService(backend *stubBackend) Service {
	store := txstore.NewStore(backend, txstore.NewFallback(), zap.NewNop())
	return NewService(store, zap.NewNop())
}

func TestService_ListValidation(t *testing.T) {
	svc := newTestService(&stubBackend{})

	_, err := svc.List(context.Background(), "", 10)
	assert.True(t, apperrors.Is(err, apperrors.CategoryDataError))
}

func TestService_ListLimits(t *testing.T) {
	backend := &stubBackend{}
	svc := newTestService(backend)

	_, err := svc.List(context.Background(), "0xabc", 0)
	require.NoError(t, err)
	assert.Equal(t, defaultLimit, backend.lastLimit)

	_, err = svc.List(context.Background(), "0xabc", 500)
	require.NoError(t, err)
	assert.Equal(t, maxLimit, backend.lastLimit)

	_, err = svc.List(context.Background(), "0xabc", 25)
	require.NoError(t, err)
	assert.Equal(t, 25, backend.lastLimit)
}

func TestService_RecordDefaults(t *testing.T) {
	backend := &stubBackend{}
	svc := newTestService(backend)

	rec := &tx.Record{
		Hash:      "0xhash",
		From:      "0xfrom",
		To:        "0xto",
		Operation: "stake",
	}

	stored, err := svc.Record(context.Background(), rec)
	require.NoError(t, err)

	assert.Equal(t, tx.StatusPending, stored.Status)
	assert.Equal(t, tx.KindSend, stored.Kind)
	assert.Equal(t, "0", stored.Value)
	assert.Equal(t, "[]", stored.Args)
	assert.False(t, stored.Timestamp.IsZero())
	require.Len(t, backend.saved, 1)
}

func TestService_RecordKeepsProvidedFields(t *testing.T) {
	backend := &stubBackend{}
	svc := newTestService(backend)

	ts := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	rec := &tx.Record{
		Hash:      "0xhash",
		From:      "0xfrom",
		Operation: "swap",
		Status:    tx.StatusSuccess,
		Timestamp: ts,
		Kind:      tx.KindSwap,
		Value:     "1.5",
	}

	stored, err := svc.Record(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, tx.StatusSuccess, stored.Status)
	assert.Equal(t, ts, stored.Timestamp)
	assert.Equal(t, tx.KindSwap, stored.Kind)
	assert.Equal(t, "1.5", stored.Value)
}

func TestService_RecordValidation(t *testing.T) {
	svc := newTestService(&stubBackend{})

	_, err := svc.Record(context.Background(), &tx.Record{From: "0xfrom"})
	assert.True(t, apperrors.Is(err, apperrors.CategoryDataError))

	_, err = svc.Record(context.Background(), &tx.Record{Hash: "0xhash"})
	assert.True(t, apperrors.Is(err, apperrors.CategoryDataError))

	_, err = svc.Record(context.Background(), &tx.Record{Hash: "0xhash", From: "0xfrom", Status: "mined"})
	assert.True(t, apperrors.Is(err, apperrors.CategoryDataError))
}

func TestService_RecordSurvivesStoreOutage(t *testing.T) {
	backend := &stubBackend{upsertErr: errors.New("database down")}
	svc := newTestService(backend)

	stored, err := svc.Record(context.Background(), &tx.Record{Hash: "0xhash", From: "0xfrom"})
	require.NoError(t, err)
	assert.Equal(t, "0xhash", stored.Hash)
}

package txexec

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kitswap/dex-middleware/pkg/chain"
	"github.com/kitswap/dex-middleware/pkg/tx"
	"github.com/kitswap/dex-middleware/pkg/txstore"
)

var (
	testSender = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testTarget = common.HexToAddress("0x2222222222222222222222222222222222222222")
	testHash   = common.HexToHash("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
)

type fakeChain struct {
	broadcastErr error
	outcome      chain.Outcome
	awaitErr     error
	awaitHook    func(ctx context.Context) (chain.Outcome, error)
	broadcasts   int
}

func (f *fakeChain) Sender() common.Address {
	return testSender
}

func (f *fakeChain) Broadcast(_ context.Context, _ chain.Call) (common.Hash, error) {
	if f.broadcastErr != nil {
		return common.Hash{}, f.broadcastErr
	}
	f.broadcasts++
	return testHash, nil
}

func (f *fakeChain) AwaitConfirmation(ctx context.Context, _ common.Hash) (chain.Outcome, error) {
	if f.awaitHook != nil {
		return f.awaitHook(ctx)
	}
	return f.outcome, f.awaitErr
}

type recordingBackend struct {
	upsertErr error
	saved     []*tx.Record
}

func (b *recordingBackend) Upsert(_ context.Context, rec *tx.Record) error {
	if b.upsertErr != nil {
		return b.upsertErr
	}
	b.saved = append(b.saved, rec.Clone())
	return nil
}

func (b *recordingBackend) ListByOwner(_ context.Context, _ string, _ int) ([]*tx.Record, error) {
	return nil, nil
}

// ctxCheckingBackend rejects writes arriving on a done context, the way
// a real database driver would.
type ctxCheckingBackend struct {
	saved []*tx.Record
}

func (b *ctxCheckingBackend) Upsert(ctx context.Context, rec *tx.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.saved = append(b.saved, rec.Clone())
	return nil
}

func (b *ctxCheckingBackend) ListByOwner(_ context.Context, _ string, _ int) ([]*tx.Record, error) {
	return nil, nil
}

func newTestManager(c chain.Client, backend txstore.Backend) (*Manager, *txstore.Fallback) {
	fallback := txstore.NewFallback()
	store := txstore.NewStore(backend, fallback, zap.NewNop())
	return NewManager(c, store, zap.NewNop()), fallback
}

func swapRequest(onSuccess func(string), onError func(error)) Request {
	amount, _ := new(big.Int).SetString("1000000000000000000", 10)
	return Request{
		Target:    testTarget,
		ABI:       abi.ABI{},
		Operation: "swap",
		Args: []any{
			common.HexToAddress("0x3333333333333333333333333333333333333333"),
			common.HexToAddress("0x4444444444444444444444444444444444444444"),
			amount,
		},
		OnSuccess: onSuccess,
		OnError:   onError,
	}
}

func TestManager_ExecuteSuccess(t *testing.T) {
	backend := &recordingBackend{}
	m, _ := newTestManager(&fakeChain{outcome: chain.OutcomeSuccess}, backend)

	var gotHash string
	hash, err := m.Execute(context.Background(), swapRequest(func(h string) { gotHash = h }, nil))
	require.NoError(t, err)
	assert.Equal(t, testHash.Hex(), hash)
	assert.Equal(t, testHash.Hex(), gotHash)
	assert.Equal(t, StateSuccess, m.State())
	assert.Equal(t, testHash.Hex(), m.LastHash())

	// Pending record first, then the terminal one, same classification.
	require.Len(t, backend.saved, 2)
	assert.Equal(t, tx.StatusPending, backend.saved[0].Status)
	assert.Equal(t, tx.StatusSuccess, backend.saved[1].Status)
	assert.Equal(t, tx.KindSwap, backend.saved[0].Kind)
	assert.Equal(t, backend.saved[0].Amount, backend.saved[1].Amount)
	assert.Equal(t, "1000000000000000000", backend.saved[1].Amount)
	assert.Equal(t, testSender.Hex(), backend.saved[0].From)
}

func TestManager_ExecuteReverted(t *testing.T) {
	backend := &recordingBackend{}
	m, _ := newTestManager(&fakeChain{outcome: chain.OutcomeError}, backend)

	var gotErr error
	hash, err := m.Execute(context.Background(), swapRequest(nil, func(e error) { gotErr = e }))

	// The hash is still returned so the caller can link to the explorer.
	assert.Equal(t, testHash.Hex(), hash)
	assert.ErrorIs(t, err, ErrConfirmationFailed)
	assert.ErrorIs(t, gotErr, ErrConfirmationFailed)
	assert.Equal(t, StateError, m.State())

	require.Len(t, backend.saved, 2)
	assert.Equal(t, tx.StatusPending, backend.saved[0].Status)
	assert.Equal(t, tx.StatusError, backend.saved[1].Status)
}

func TestManager_ExecuteBroadcastFailure(t *testing.T) {
	backend := &recordingBackend{}
	m, _ := newTestManager(&fakeChain{broadcastErr: errors.New("insufficient funds")}, backend)

	var gotErr error
	hash, err := m.Execute(context.Background(), swapRequest(nil, func(e error) { gotErr = e }))

	assert.Empty(t, hash)
	assert.ErrorIs(t, err, ErrBroadcastFailed)
	assert.ErrorIs(t, gotErr, ErrBroadcastFailed)
	assert.Equal(t, StateError, m.State())
	assert.Empty(t, m.LastHash())
	// Nothing reached the mempool, so nothing is recorded.
	assert.Empty(t, backend.saved)
}

func TestManager_ExecuteNotConnected(t *testing.T) {
	backend := &recordingBackend{}
	m, _ := newTestManager(nil, backend)

	hash, err := m.Execute(context.Background(), swapRequest(nil, nil))

	assert.Empty(t, hash)
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.Equal(t, StateIdle, m.State())
	assert.Empty(t, backend.saved)
}

func TestManager_ExecuteInvalidValue(t *testing.T) {
	fc := &fakeChain{outcome: chain.OutcomeSuccess}
	backend := &recordingBackend{}
	m, _ := newTestManager(fc, backend)

	req := swapRequest(nil, nil)
	req.Value = "not-a-number"

	hash, err := m.Execute(context.Background(), req)

	assert.Empty(t, hash)
	assert.ErrorIs(t, err, ErrBroadcastFailed)
	assert.Equal(t, StateError, m.State())
	assert.Zero(t, fc.broadcasts)
}

func TestManager_ExecuteConfirmationAborted(t *testing.T) {
	backend := &recordingBackend{}
	m, _ := newTestManager(&fakeChain{awaitErr: context.DeadlineExceeded}, backend)

	hash, err := m.Execute(context.Background(), swapRequest(nil, nil))

	assert.Equal(t, testHash.Hex(), hash)
	assert.ErrorIs(t, err, ErrConfirmationFailed)

	require.Len(t, backend.saved, 2)
	assert.Equal(t, tx.StatusError, backend.saved[1].Status)
}

func TestManager_TerminalRecordSurvivesCanceledRequest(t *testing.T) {
	backend := &ctxCheckingBackend{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The caller gives up mid-wait, as a disconnecting client would.
	fc := &fakeChain{awaitHook: func(ctx context.Context) (chain.Outcome, error) {
		cancel()
		return chain.OutcomeError, ctx.Err()
	}}
	m, fallback := newTestManager(fc, backend)

	hash, err := m.Execute(ctx, swapRequest(nil, nil))

	assert.Equal(t, testHash.Hex(), hash)
	assert.ErrorIs(t, err, ErrConfirmationFailed)

	// The terminal row still reaches the backend; nothing is diverted
	// to the volatile fallback, so the durable record is not left pending.
	require.Len(t, backend.saved, 2)
	assert.Equal(t, tx.StatusPending, backend.saved[0].Status)
	assert.Equal(t, tx.StatusError, backend.saved[1].Status)
	assert.Equal(t, 0, fallback.Len())
}

func TestManager_RecordsSurviveStoreOutage(t *testing.T) {
	backend := &recordingBackend{upsertErr: errors.New("database down")}
	m, fallback := newTestManager(&fakeChain{outcome: chain.OutcomeSuccess}, backend)

	hash, err := m.Execute(context.Background(), swapRequest(nil, nil))
	require.NoError(t, err)
	assert.Equal(t, testHash.Hex(), hash)

	// Both writes were diverted and collapsed into one terminal entry;
	// the lifecycle itself is unaffected.
	assert.Equal(t, StateSuccess, m.State())
	assert.Equal(t, 1, fallback.Len())

	buffered := fallback.ListByOwner(testSender.Hex(), 10)
	require.Len(t, buffered, 1)
	assert.Equal(t, tx.StatusSuccess, buffered[0].Status)
}

func TestManager_Reset(t *testing.T) {
	backend := &recordingBackend{}
	m, _ := newTestManager(&fakeChain{outcome: chain.OutcomeSuccess}, backend)

	_, err := m.Execute(context.Background(), swapRequest(nil, nil))
	require.NoError(t, err)
	require.Equal(t, StateSuccess, m.State())

	m.Reset()
	assert.Equal(t, StateIdle, m.State())
	assert.Empty(t, m.LastHash())
}

// Package txexec drives the transaction lifecycle: broadcast, pending
// record, confirmation and terminal record.
package txexec

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kitswap/dex-middleware/internal/metrics"
	"github.com/kitswap/dex-middleware/pkg/chain"
	"github.com/kitswap/dex-middleware/pkg/tx"
	"github.com/kitswap/dex-middleware/pkg/txstore"
)

var (
	// ErrNotConnected means no chain client is available to sign with.
	ErrNotConnected = errors.New("no chain connection available")
	// ErrBroadcastFailed wraps failures before the transaction reached the mempool.
	ErrBroadcastFailed = errors.New("failed to broadcast transaction")
	// ErrConfirmationFailed means the transaction was mined but reverted.
	ErrConfirmationFailed = errors.New("transaction failed on chain")
)

// State is the observable execution state, mirroring what the dashboard
// renders next to the submit button.
type State string

const (
	StateIdle    State = "idle"
	StatePending State = "pending"
	StateSuccess State = "success"
	StateError   State = "error"
)

// Request describes one contract write to execute end to end.
type Request struct {
	Target    common.Address
	ABI       abi.ABI
	Operation string
	Args      []any
	// Value is the native amount in ether units, e.g. "0.05".
	Value string

	// OnSuccess runs after the terminal record is stored for a
	// confirmed transaction. OnError runs on any failure. Both may be nil.
	OnSuccess func(hash string)
	OnError   func(err error)
}

// Executor runs transactions through their full lifecycle.
type Executor interface {
	// Execute broadcasts the request and blocks until the transaction
	// reaches a terminal status or ctx is done. It returns the
	// transaction hash once known, even when the transaction reverts.
	Execute(ctx context.Context, req Request) (string, error)
	State() State
	LastHash() string
	Reset()
}

// Manager is the Executor implementation bound to a chain client and
// the record store.
type Manager struct {
	chain  chain.Client
	store  *txstore.Store
	logger *zap.Logger

	mu       sync.Mutex
	state    State
	lastHash string
}

// NewManager creates a lifecycle manager. chainClient may be nil when
// the server runs without a chain connection; Execute then fails fast
// with ErrNotConnected.
func NewManager(chainClient chain.Client, store *txstore.Store, logger *zap.Logger) *Manager {
	return &Manager{
		chain:  chainClient,
		store:  store,
		logger: logger,
		state:  StateIdle,
	}
}

// State returns the current execution state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// LastHash returns the hash of the most recently broadcast transaction,
// or empty when nothing has been broadcast yet.
func (m *Manager) LastHash() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastHash
}

// Reset returns the manager to idle and clears the last hash.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateIdle
	m.lastHash = ""
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
}

func (m *Manager) setBroadcast(hash string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastHash = hash
}

// Execute runs the full lifecycle for one contract write.
func (m *Manager) Execute(ctx context.Context, req Request) (string, error) {
	if m.chain == nil {
		// No state transition: the request never started.
		return "", ErrNotConnected
	}

	execID := uuid.NewString()
	m.setState(StatePending)

	value, err := chain.ParseEther(req.Value)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrBroadcastFailed, err)
		return "", m.fail(req, err)
	}

	start := time.Now()
	hash, err := m.chain.Broadcast(ctx, chain.Call{
		Target:    req.Target,
		ABI:       req.ABI,
		Operation: req.Operation,
		Args:      req.Args,
		Value:     value,
	})
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrBroadcastFailed, err)
		return "", m.fail(req, err)
	}
	m.setBroadcast(hash.Hex())

	// Once the transaction is in the mempool its records must outlive
	// the request: a canceled caller still gets the terminal row written.
	storeCtx := context.WithoutCancel(ctx)

	rec := tx.NewRecord(hash.Hex(), m.chain.Sender().Hex(), req.Target.Hex(), req.Operation, req.Args, req.Value)
	metrics.TransactionsSubmitted.WithLabelValues(string(rec.Kind)).Inc()

	m.logger.Info("Transaction broadcast, recording pending state",
		zap.String("exec_id", execID),
		zap.String("tx_hash", rec.Hash),
		zap.String("operation", req.Operation),
		zap.String("type", string(rec.Kind)))

	if res := m.store.Save(storeCtx, rec); res.Fallback {
		m.logger.Debug("pending record held in fallback store",
			zap.String("exec_id", execID),
			zap.String("tx_hash", rec.Hash))
	}

	outcome, err := m.chain.AwaitConfirmation(ctx, hash)
	if err != nil {
		m.logger.Warn("Confirmation wait aborted, recording as failed",
			zap.String("exec_id", execID),
			zap.String("tx_hash", rec.Hash),
			zap.Error(err))
		outcome = chain.OutcomeError
	}

	terminal := rec.Clone()
	status := tx.StatusSuccess
	if outcome != chain.OutcomeSuccess {
		status = tx.StatusError
	}
	if err := terminal.Advance(status); err != nil {
		m.logger.Error("Failed to advance record", zap.String("exec_id", execID), zap.Error(err))
	}

	metrics.TransactionsConfirmed.WithLabelValues(string(terminal.Kind), string(terminal.Status)).Inc()
	metrics.ConfirmationDuration.WithLabelValues(string(terminal.Kind)).Observe(time.Since(start).Seconds())

	m.store.Save(storeCtx, terminal)

	m.logger.Info("Transaction reached terminal state",
		zap.String("exec_id", execID),
		zap.String("tx_hash", terminal.Hash),
		zap.String("status", string(terminal.Status)),
		zap.Duration("duration", time.Since(start)))

	if status == tx.StatusSuccess {
		m.setState(StateSuccess)
		if req.OnSuccess != nil {
			req.OnSuccess(terminal.Hash)
		}
		return terminal.Hash, nil
	}

	m.setState(StateError)
	if req.OnError != nil {
		req.OnError(ErrConfirmationFailed)
	}
	return terminal.Hash, ErrConfirmationFailed
}

// fail records a pre-broadcast failure: state moves to error, the error
// callback fires and the error is returned for the transport layer.
func (m *Manager) fail(req Request, err error) error {
	m.setState(StateError)
	m.logger.Error("Transaction execution failed before broadcast",
		zap.String("operation", req.Operation),
		zap.Error(err))
	if req.OnError != nil {
		req.OnError(err)
	}
	return err
}

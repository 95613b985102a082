// Package chain talks to the EVM network: broadcasting contract writes
// and polling for their receipts.
package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Outcome is the terminal result of a confirmed transaction.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeError   Outcome = "error"
)

// Call describes a contract write to broadcast.
type Call struct {
	Target    common.Address
	ABI       abi.ABI
	Operation string
	Args      []any
	Value     *big.Int
}

// Client is the EVM connection used by the transaction lifecycle.
type Client interface {
	// Sender returns the address transactions are signed with.
	Sender() common.Address
	// Broadcast signs and submits the call, returning the transaction hash.
	Broadcast(ctx context.Context, call Call) (common.Hash, error)
	// AwaitConfirmation polls until the transaction has a receipt and
	// reports whether it succeeded or reverted. It returns early only
	// when ctx is done.
	AwaitConfirmation(ctx context.Context, hash common.Hash) (Outcome, error)
}

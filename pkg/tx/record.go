// Package tx defines the durable transaction record written by the
// lifecycle manager, the operation classification applied to contract
// writes, and the JSON-safe encoding of call arguments.
package tx

import (
	"fmt"
	"time"
)

// Status represents the lifecycle state of a recorded transaction
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusError
}

// Record is the durable unit of record for an attempted transaction.
// JSON field names match the dashboard wire format.
type Record struct {
	Hash      string    `json:"hash"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Operation string    `json:"functionName"`
	Args      string    `json:"args"`
	Value     string    `json:"value"`
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Kind      Kind      `json:"type"`
	Amount    string    `json:"amount,omitempty"`
	Token     string    `json:"token,omitempty"`
	ToToken   string    `json:"toToken,omitempty"`
}

// NewRecord builds a pending record for a freshly broadcast transaction.
// The classification derived here is reused for the terminal write: the
// pending and terminal rows must never disagree on type/amount/token.
func NewRecord(hash, from, to, operation string, args []any, value string) *Record {
	class := Classify(operation, args)
	if value == "" {
		value = "0"
	}
	return &Record{
		Hash:      hash,
		From:      from,
		To:        to,
		Operation: operation,
		Args:      EncodeArgs(args),
		Value:     value,
		Status:    StatusPending,
		Timestamp: time.Now().UTC(),
		Kind:      class.Kind,
		Amount:    class.Amount,
		Token:     class.Token,
		ToToken:   class.ToToken,
	}
}

// Advance moves a pending record to a terminal status. A terminal
// record is never reopened.
func (r *Record) Advance(status Status) error {
	if !status.Terminal() {
		return fmt.Errorf("cannot advance record %s to non-terminal status %q", r.Hash, status)
	}
	if r.Status.Terminal() {
		return fmt.Errorf("record %s already terminal (%s)", r.Hash, r.Status)
	}
	r.Status = status
	return nil
}

// Clone returns a shallow copy of the record.
func (r *Record) Clone() *Record {
	clone := *r
	return &clone
}

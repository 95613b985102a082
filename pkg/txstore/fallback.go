package txstore

import (
	"sort"
	"strings"
	"sync"

	"github.com/kitswap/dex-middleware/pkg/tx"
)

// Fallback is an in-memory record buffer used when the database is
// unreachable. Records accepted here survive only for the lifetime of
// the process; the point is that a broadcast transaction is never lost
// to the user just because persistence is down.
type Fallback struct {
	mu      sync.Mutex
	records []*tx.Record
}

func NewFallback() *Fallback {
	return &Fallback{}
}

// Append stores a copy of the record, replacing any buffered record
// with the same hash. A terminal status is never replaced by pending,
// matching the upsert contract of the durable tier.
func (f *Fallback) Append(rec *tx.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()

	clone := rec.Clone()
	for i, existing := range f.records {
		if existing.Hash == clone.Hash {
			if existing.Status.Terminal() && !clone.Status.Terminal() {
				clone.Status = existing.Status
			}
			f.records[i] = clone
			return
		}
	}
	f.records = append(f.records, clone)
}

// ListByOwner returns up to limit records from the given address,
// newest first.
func (f *Fallback) ListByOwner(owner string, limit int) []*tx.Record {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*tx.Record
	for _, rec := range f.records {
		if strings.EqualFold(rec.From, owner) {
			out = append(out, rec.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Len reports how many records are buffered.
func (f *Fallback) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

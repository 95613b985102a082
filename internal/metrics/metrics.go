package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TransactionsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dex_transactions_submitted_total",
		Help: "Number of transactions broadcast to the chain, by transaction type",
	}, []string{"type"})

	TransactionsConfirmed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dex_transactions_confirmed_total",
		Help: "Number of transactions that reached a terminal status, by type and status",
	}, []string{"type", "status"})

	ConfirmationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dex_transaction_confirmation_seconds",
		Help:    "Time from broadcast to terminal receipt, by transaction type",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
	}, []string{"type"})

	StoreFallbackSaves = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dex_store_fallback_saves_total",
		Help: "Number of transaction records diverted to the in-memory fallback store",
	})
)

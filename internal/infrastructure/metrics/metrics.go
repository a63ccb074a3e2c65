package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dcastano/walletcore/internal/domain"
)

// Metrics holds all Prometheus metrics for the wallet core.
type Metrics struct {
	// Money movement
	EntriesRecorded   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	OperationErrors   *prometheus.CounterVec
	MovedAmount       *prometheus.HistogramVec

	// Accounts
	AccountsOpened    prometheus.Counter
	AccountOperations *prometheus.CounterVec

	// Locking
	LockWaitDuration prometheus.Histogram
	LockTimeouts     prometheus.Counter

	// Cache
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
}

// New creates and registers all wallet metrics on the default
// registry.
func New() *Metrics {
	return NewWithRegistry(nil)
}

// NewWithRegistry registers the metrics on the given registry. A nil
// registry uses the default one. Tests pass their own registry so
// parallel tests do not collide on duplicate registration.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	if reg == nil {
		factory = promauto.With(prometheus.DefaultRegisterer)
	}

	return &Metrics{
		EntriesRecorded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletcore_ledger_entries_total",
				Help: "Total ledger entries recorded by type",
			},
			[]string{"type"},
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "walletcore_operation_duration_seconds",
				Help:    "Duration of money-movement operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		OperationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletcore_operation_errors_total",
				Help: "Total money-movement errors by type",
			},
			[]string{"operation", "error_type"},
		),
		MovedAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "walletcore_moved_amount",
				Help:    "Amounts moved per operation",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"operation", "currency"},
		),
		AccountsOpened: factory.NewCounter(prometheus.CounterOpts{
			Name: "walletcore_accounts_opened_total",
			Help: "Total number of accounts opened",
		}),
		AccountOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletcore_account_operations_total",
				Help: "Total account operations by type",
			},
			[]string{"operation"},
		),
		LockWaitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "walletcore_lock_wait_seconds",
			Help:    "Time spent waiting for account locks",
			Buckets: []float64{.0001, .001, .01, .05, .1, .5, 1, 5},
		}),
		LockTimeouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "walletcore_lock_timeouts_total",
			Help: "Total lock acquisitions that timed out",
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "walletcore_account_cache_hits_total",
			Help: "Total account cache hits",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "walletcore_account_cache_misses_total",
			Help: "Total account cache misses",
		}),
	}
}

// RecordEntry counts a recorded ledger entry and observes its amount.
func (m *Metrics) RecordEntry(entry *domain.LedgerEntry) {
	if m == nil || entry == nil {
		return
	}

	m.EntriesRecorded.WithLabelValues(string(entry.Type)).Inc()
	amount, _ := entry.Amount.Amount().Float64()
	m.MovedAmount.WithLabelValues(string(entry.Type), entry.Amount.Currency()).Observe(amount)
}

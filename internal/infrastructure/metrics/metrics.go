package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	domainerrors "parcel-ledger.backend/internal/domain/errors"
)

// Metrics groups the collectors of code allocation and the wallet ledger.
// A nil *Metrics records nothing.
type Metrics struct {
	allocations        *prometheus.CounterVec
	allocationDuration prometheus.Histogram
	fallbackCodes      prometheus.Counter
	ledgerOperations   *prometheus.CounterVec
	wallets            *prometheus.GaugeVec
}

// New creates and registers the collectors on registerer
func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	allocations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parcel_sequence_allocations_total",
			Help: "Sequence allocations by outcome.",
		},
		[]string{"result"}, // success | timeout | unavailable | error
	)

	allocationDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "parcel_sequence_allocation_duration_seconds",
			Help:    "Time spent holding or waiting for a scope counter lock.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	fallbackCodes := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "parcel_fallback_codes_total",
			Help: "Packages that received a random fallback code.",
		},
	)

	ledgerOperations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_operations_total",
			Help: "Wallet ledger operations by operation and outcome.",
		},
		[]string{"operation", "result"},
	)

	wallets := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ledger_wallets",
			Help: "Wallets by status as of the last statistics run.",
		},
		[]string{"status"}, // active | suspended
	)

	registerer.MustRegister(allocations, allocationDuration, fallbackCodes, ledgerOperations, wallets)

	return &Metrics{
		allocations:        allocations,
		allocationDuration: allocationDuration,
		fallbackCodes:      fallbackCodes,
		ledgerOperations:   ledgerOperations,
		wallets:            wallets,
	}
}

// Handler serves the metrics of gatherer
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveAllocation records one allocator call
func (m *Metrics) ObserveAllocation(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.allocations.WithLabelValues(allocationResult(err)).Inc()
	m.allocationDuration.Observe(elapsed.Seconds())
}

// IncFallbackCode counts one fallback code assignment
func (m *Metrics) IncFallbackCode() {
	if m == nil {
		return
	}
	m.fallbackCodes.Inc()
}

// ObserveLedgerOperation records one wallet mutation outcome
func (m *Metrics) ObserveLedgerOperation(operation string, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = domainerrors.KindOf(err).String()
	}
	m.ledgerOperations.WithLabelValues(operation, result).Inc()
}

// SetWallets publishes wallet counts by status
func (m *Metrics) SetWallets(active, suspended int64) {
	if m == nil {
		return
	}
	m.wallets.WithLabelValues("active").Set(float64(active))
	m.wallets.WithLabelValues("suspended").Set(float64(suspended))
}

func allocationResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domainerrors.ErrAllocationTimeout), errors.Is(err, domainerrors.ErrLockTimeout):
		return "timeout"
	case errors.Is(err, domainerrors.ErrStoreUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}

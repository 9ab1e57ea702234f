package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainerrors "parcel-ledger.backend/internal/domain/errors"
)

func TestMetrics_Allocation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveAllocation(nil, 2*time.Millisecond)
	m.ObserveAllocation(nil, time.Millisecond)
	m.ObserveAllocation(fmt.Errorf("%w: %w", domainerrors.ErrAllocationTimeout, domainerrors.ErrLockTimeout), time.Second)
	m.ObserveAllocation(domainerrors.ErrStoreUnavailable, 0)
	m.ObserveAllocation(errors.New("boom"), 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.allocations.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.allocations.WithLabelValues("timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.allocations.WithLabelValues("unavailable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.allocations.WithLabelValues("error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.allocationDuration))
}

func TestMetrics_LedgerAndWallets(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveLedgerOperation("credit", nil)
	m.ObserveLedgerOperation("debit", domainerrors.ErrInsufficientFunds)
	m.ObserveLedgerOperation("debit", domainerrors.ErrInvalidAmount)
	m.IncFallbackCode()
	m.SetWallets(7, 2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ledgerOperations.WithLabelValues("credit", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ledgerOperations.WithLabelValues("debit", "business_rule")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ledgerOperations.WithLabelValues("debit", "precondition")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fallbackCodes))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.wallets.WithLabelValues("active")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.wallets.WithLabelValues("suspended")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveAllocation(nil, time.Second)
		m.IncFallbackCode()
		m.ObserveLedgerOperation("credit", nil)
		m.SetWallets(1, 1)
	})
}

func TestHandler_ServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.IncFallbackCode()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "parcel_fallback_codes_total 1"))
}

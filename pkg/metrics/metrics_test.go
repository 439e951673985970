package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve_CountsByOutcome(t *testing.T) {
	before := testutil.ToFloat64(remoteCalls.WithLabelValues(ServiceStore, "get", "error"))

	Observe(ServiceStore, "get", time.Now(), errors.New("boom"))
	Observe(ServiceStore, "get", time.Now(), nil)

	assert.Equal(t, before+1, testutil.ToFloat64(remoteCalls.WithLabelValues(ServiceStore, "get", "error")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(remoteCalls.WithLabelValues(ServiceStore, "get", "ok")), 1.0)
}

func TestPendingTotalsGauge(t *testing.T) {
	PendingTotals(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(pendingTotals))
	PendingTotals(0)
	assert.Equal(t, 0.0, testutil.ToFloat64(pendingTotals))
}

func TestRegister_Twice(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	assert.Error(t, Register(reg))
}

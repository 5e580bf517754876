package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	collector := NewCollector("weaver_test")
	collector.ObserveCompile(time.Now(), nil)
	collector.ObserveCompile(time.Now(), errors.New("boom"))
	collector.ObserveNode("provider", nil)
	collector.ObserveSlot("granted", 1)
	collector.ObserveSlot("denied", 1)
	collector.ObserveStale(2)
	collector.ObserveSessionCreated()
	collector.ObserveSessionCreated()
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.ActiveSessions))
	collector.ObserveSessionRemoved()
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.ActiveSessions))
	collector.ObserveSessionsExpired(3)
	collector.SetActiveSessions(5)

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.Compilations.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.Compilations.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.NodeExecutions.WithLabelValues("provider", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.ActiveSlots))
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.StaleSlots))
	assert.Equal(t, 3.0, testutil.ToFloat64(collector.SessionsExpired))
	assert.Equal(t, 5.0, testutil.ToFloat64(collector.ActiveSessions))

	families, err := collector.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	var nilCollector *Collector
	nilCollector.ObserveNode("generic", nil)
	nilCollector.ObserveSessionRemoved()
	assert.Nil(t, nilCollector.Registry())
}

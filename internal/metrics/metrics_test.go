package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := New(prometheus.NewRegistry())

	c.ObserveCheck("newer")
	c.ObserveCheck("newer")
	c.ObserveRun("failed")
	c.SetProgress(42, 4200)
	c.SetPhase("installing", []string{"idle", "installing"})

	require.Equal(t, 2.0, testutil.ToFloat64(c.checks.WithLabelValues("newer")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.runs.WithLabelValues("failed")))
	require.Equal(t, 42.0, testutil.ToFloat64(c.progress))
	require.Equal(t, 4200.0, testutil.ToFloat64(c.downloaded))
	require.Equal(t, 1.0, testutil.ToFloat64(c.phase.WithLabelValues("installing")))
	require.Equal(t, 0.0, testutil.ToFloat64(c.phase.WithLabelValues("idle")))
}

package metrics_test

import (
	"strings"
	"testing"
	"time"

	"logistics/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCollector(t *testing.T) {
	t.Run("should register every series", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		c, err := metrics.NewCollector(reg)
		require.NoError(t, err)

		c.JobPlanned("bread")
		c.TickObserved(time.Millisecond)

		families, err := reg.Gather()
		require.NoError(t, err)
		names := make([]string, 0, len(families))
		for _, f := range families {
			names = append(names, f.GetName())
		}
		assert.Contains(t, names, "logistics_transport_jobs_planned_total")
		assert.Contains(t, names, "logistics_transport_carriers_active")
		assert.Contains(t, names, "logistics_transport_tick_duration_seconds")
	})

	t.Run("should refuse a second registration", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		_, err := metrics.NewCollector(reg)
		require.NoError(t, err)

		_, err = metrics.NewCollector(reg)
		require.Error(t, err)
	})
}

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := metrics.NewCollector(reg)
	require.NoError(t, err)

	c.JobPlanned("bread")
	c.JobPlanned("bread")
	c.JobPlanned("wheat")
	c.JobStarted("bread")
	c.JobCompleted("bread", 10)
	c.JobCompleted("bread", 0)
	c.JobFailed("wheat")
	c.PlanRejected("no_suppliers")
	c.FaultRecovered("movement")
	c.CarriersActive(3)
	c.CarriersActive(2)

	expected := `
# HELP logistics_transport_jobs_planned_total Jobs created by planning, routes or manual requests
# TYPE logistics_transport_jobs_planned_total counter
logistics_transport_jobs_planned_total{resource="bread"} 2
logistics_transport_jobs_planned_total{resource="wheat"} 1
# HELP logistics_transport_units_delivered_total Units unloaded at job targets
# TYPE logistics_transport_units_delivered_total counter
logistics_transport_units_delivered_total{resource="bread"} 10
# HELP logistics_transport_carriers_active Carriers currently on the road
# TYPE logistics_transport_carriers_active gauge
logistics_transport_carriers_active 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"logistics_transport_jobs_planned_total",
		"logistics_transport_units_delivered_total",
		"logistics_transport_carriers_active",
	))

	for name, want := range map[string]int{
		"logistics_transport_jobs_completed_total":   1,
		"logistics_transport_jobs_failed_total":      1,
		"logistics_transport_plans_rejected_total":   1,
		"logistics_transport_faults_recovered_total": 1,
	} {
		got, err := testutil.GatherAndCount(reg, name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
}

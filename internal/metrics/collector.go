// Package metrics exports transport counters and gauges to Prometheus.
//
// Exposed series (namespace "logistics", subsystem "transport"):
//
//	jobs_planned_total{resource}
//	jobs_started_total{resource}
//	jobs_completed_total{resource}
//	units_delivered_total{resource}
//	jobs_failed_total{resource}
//	plans_rejected_total{reason}
//	faults_recovered_total{phase}
//	carriers_active
//	tick_duration_seconds
package metrics

import (
	"time"

	"logistics/internal/core/ports"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "logistics"
	subsystem = "transport"
)

var _ ports.Metrics = (*Collector)(nil)

// Collector implements ports.Metrics.
type Collector struct {
	jobsPlanned    *prometheus.CounterVec
	jobsStarted    *prometheus.CounterVec
	jobsCompleted  *prometheus.CounterVec
	unitsDelivered *prometheus.CounterVec
	jobsFailed     *prometheus.CounterVec
	plansRejected  *prometheus.CounterVec
	faults         *prometheus.CounterVec
	carriersActive prometheus.Gauge
	tickDuration   prometheus.Histogram
}

func counter(name, help, label string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		},
		[]string{label},
	)
}

// NewCollector creates the collectors and registers them with reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		jobsPlanned:    counter("jobs_planned_total", "Jobs created by planning, routes or manual requests", "resource"),
		jobsStarted:    counter("jobs_started_total", "Jobs that left with a carrier", "resource"),
		jobsCompleted:  counter("jobs_completed_total", "Jobs delivered", "resource"),
		unitsDelivered: counter("units_delivered_total", "Units unloaded at job targets", "resource"),
		jobsFailed:     counter("jobs_failed_total", "Jobs cancelled or lost", "resource"),
		plansRejected:  counter("plans_rejected_total", "Planning requests refused, by reason", "reason"),
		faults:         counter("faults_recovered_total", "Panics recovered inside a tick, by phase", "phase"),
		carriersActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "carriers_active",
			Help:      "Carriers currently on the road",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tick_duration_seconds",
			Help:      "Wall time spent inside one coordinator tick",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
	}

	for _, m := range []prometheus.Collector{
		c.jobsPlanned,
		c.jobsStarted,
		c.jobsCompleted,
		c.unitsDelivered,
		c.jobsFailed,
		c.plansRejected,
		c.faults,
		c.carriersActive,
		c.tickDuration,
	} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *Collector) JobPlanned(resource string) {
	c.jobsPlanned.WithLabelValues(resource).Inc()
}

func (c *Collector) JobStarted(resource string) {
	c.jobsStarted.WithLabelValues(resource).Inc()
}

func (c *Collector) JobCompleted(resource string, delivered int) {
	c.jobsCompleted.WithLabelValues(resource).Inc()
	if delivered > 0 {
		c.unitsDelivered.WithLabelValues(resource).Add(float64(delivered))
	}
}

func (c *Collector) JobFailed(resource string) {
	c.jobsFailed.WithLabelValues(resource).Inc()
}

func (c *Collector) PlanRejected(reason string) {
	c.plansRejected.WithLabelValues(reason).Inc()
}

func (c *Collector) CarriersActive(n int) {
	c.carriersActive.Set(float64(n))
}

func (c *Collector) TickObserved(d time.Duration) {
	c.tickDuration.Observe(d.Seconds())
}

func (c *Collector) FaultRecovered(phase string) {
	c.faults.WithLabelValues(phase).Inc()
}

package ports

import "time"

// Metrics receives counters and gauges from the coordinator.
type Metrics interface {
	JobPlanned(resource string)
	JobStarted(resource string)
	JobCompleted(resource string, delivered int)
	JobFailed(resource string)
	PlanRejected(reason string)
	CarriersActive(n int)
	TickObserved(d time.Duration)
	FaultRecovered(phase string)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) JobPlanned(string) {}
func (NopMetrics) JobStarted(string) {}
func (NopMetrics) JobCompleted(string, int) {}
func (NopMetrics) JobFailed(string) {}
func (NopMetrics) PlanRejected(string) {}
func (NopMetrics) CarriersActive(int) {}
func (NopMetrics) TickObserved(time.Duration) {}
func (NopMetrics) FaultRecovered(string) {}

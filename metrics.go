package syncbox

import "time"

// Metrics captures processor-level telemetry.
type Metrics interface {
	// ObserveDrainDuration records the time a full drain pass took.
	ObserveDrainDuration(duration time.Duration)
	// AddDelivered increments the count of successfully delivered operations.
	AddDelivered(count int)
	// AddRetries increments the count of failed attempts left retryable.
	AddRetries(count int)
	// AddExhausted increments the count of operations that ran out of retries.
	AddExhausted(count int)
	// AddCleared increments the count of explicitly cleared operations.
	AddCleared(count int)
	// SetPending updates the current pending operation count.
	SetPending(count int)
}

// NopMetrics is a no-op metrics recorder.
type NopMetrics struct{}

// ObserveDrainDuration implements Metrics.
func (NopMetrics) ObserveDrainDuration(time.Duration) {}

// AddDelivered implements Metrics.
func (NopMetrics) AddDelivered(int) {}

// AddRetries implements Metrics.
func (NopMetrics) AddRetries(int) {}

// AddExhausted implements Metrics.
func (NopMetrics) AddExhausted(int) {}

// AddCleared implements Metrics.
func (NopMetrics) AddCleared(int) {}

// SetPending implements Metrics.
func (NopMetrics) SetPending(int) {}

package syncbox

import "time"

const (
	defaultDrainInterval = 30 * time.Second
	defaultItemDelay     = 100 * time.Millisecond
)

// ProcessorConfig defines how the Processor triggers and paces drains.
type ProcessorConfig struct {
	// DrainInterval is the periodic re-trigger interval while online.
	DrainInterval time.Duration
	// ItemDelay is the fixed pause between consecutive operations in a drain.
	ItemDelay    time.Duration
	itemDelaySet bool
	Monitor      *Monitor
	Bus          *Bus
	Clock        Clock
	Logger       Logger
	Metrics      Metrics
	// FailureClassifier decides retry vs permanent failure; every failure is
	// retryable by default.
	FailureClassifier FailureClassifier
}

func (c ProcessorConfig) withDefaults() ProcessorConfig {
	if c.DrainInterval <= 0 {
		c.DrainInterval = defaultDrainInterval
	}
	if !c.itemDelaySet || c.ItemDelay < 0 {
		c.ItemDelay = defaultItemDelay
	}
	if c.Clock == nil {
		c.Clock = SystemClock{}
	}
	if c.Logger == nil {
		c.Logger = NopLogger{}
	}
	if c.Metrics == nil {
		c.Metrics = NopMetrics{}
	}
	if c.FailureClassifier == nil {
		c.FailureClassifier = defaultFailureClassifier
	}

	return c
}

// ProcessorOption configures Processor behavior.
type ProcessorOption func(*ProcessorConfig)

// WithDrainInterval sets the periodic drain interval.
func WithDrainInterval(interval time.Duration) ProcessorOption {
	return func(c *ProcessorConfig) {
		c.DrainInterval = interval
	}
}

// WithItemDelay sets the inter-item delay within a drain. Zero disables it.
func WithItemDelay(delay time.Duration) ProcessorOption {
	return func(c *ProcessorConfig) {
		c.ItemDelay = delay
		c.itemDelaySet = true
	}
}

// WithMonitor gates drains on connectivity and triggers one on every restore.
func WithMonitor(monitor *Monitor) ProcessorOption {
	return func(c *ProcessorConfig) {
		c.Monitor = monitor
	}
}

// WithBus publishes delivery events on the given bus.
func WithBus(bus *Bus) ProcessorOption {
	return func(c *ProcessorConfig) {
		c.Bus = bus
	}
}

// WithProcessorClock sets the processor clock.
func WithProcessorClock(clock Clock) ProcessorOption {
	return func(c *ProcessorConfig) {
		c.Clock = clock
	}
}

// WithProcessorLogger sets the processor logger.
func WithProcessorLogger(logger Logger) ProcessorOption {
	return func(c *ProcessorConfig) {
		c.Logger = logger
	}
}

// WithProcessorMetrics sets the processor metrics recorder.
func WithProcessorMetrics(metrics Metrics) ProcessorOption {
	return func(c *ProcessorConfig) {
		c.Metrics = metrics
	}
}

// WithFailureClassifier sets the retry/permanent failure classifier.
func WithFailureClassifier(classifier FailureClassifier) ProcessorOption {
	return func(c *ProcessorConfig) {
		c.FailureClassifier = classifier
	}
}

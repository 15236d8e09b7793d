package task

import "time"

// Config holds the tunables of a Processor. It is read once at construction.
type Config struct {
	// MaxConcurrentOperations caps how many operations execute at once.
	MaxConcurrentOperations int

	// MaxQueueSize is the admission limit; submissions beyond it fail with ErrQueueFull.
	MaxQueueSize int

	// OperationTimeout bounds each delegated call. Operations exceeding it end TimedOut.
	OperationTimeout time.Duration

	// BatchSize is the number of batch items processed between progress reports.
	BatchSize int

	// ProgressUpdateInterval and EnableStreaming are accepted for compatibility
	// with the AI service configuration; the processor does not use them.
	ProgressUpdateInterval time.Duration
	EnableStreaming        bool

	// MaxRetries is only meaningful to the AI service, which does its own retrying.
	MaxRetries int

	// IdlePollInterval is how long the dispatch loop waits when the queue is empty.
	IdlePollInterval time.Duration

	// StatsRefreshInterval is the cadence of the active-count gauge refresh.
	StatsRefreshInterval time.Duration

	// BatchItemDelay is the pause between consecutive batch items.
	BatchItemDelay time.Duration
}

// DefaultConfig returns a Config with reasonable defaults
func DefaultConfig() Config {
	return Config{
		MaxConcurrentOperations: 4,
		MaxQueueSize:            100,
		OperationTimeout:        30 * time.Second,
		BatchSize:               10,
		ProgressUpdateInterval:  500 * time.Millisecond,
		EnableStreaming:         true,
		MaxRetries:              2,
		IdlePollInterval:        100 * time.Millisecond,
		StatsRefreshInterval:    5 * time.Second,
		BatchItemDelay:          100 * time.Millisecond,
	}
}

// withDefaults replaces invalid values with defaults and reports which fields
// were replaced.
func (c Config) withDefaults() (Config, []string) {
	d := DefaultConfig()
	var fixed []string
	if c.MaxConcurrentOperations <= 0 {
		c.MaxConcurrentOperations = d.MaxConcurrentOperations
		fixed = append(fixed, "max_concurrent_operations")
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = d.MaxQueueSize
		fixed = append(fixed, "max_queue_size")
	}
	if c.OperationTimeout <= 0 {
		c.OperationTimeout = d.OperationTimeout
		fixed = append(fixed, "operation_timeout")
	}
	if c.BatchSize <= 0 {
		c.BatchSize = d.BatchSize
		fixed = append(fixed, "batch_size")
	}
	if c.IdlePollInterval <= 0 {
		c.IdlePollInterval = d.IdlePollInterval
		fixed = append(fixed, "idle_poll_interval")
	}
	if c.StatsRefreshInterval <= 0 {
		c.StatsRefreshInterval = d.StatsRefreshInterval
		fixed = append(fixed, "stats_refresh_interval")
	}
	if c.BatchItemDelay < 0 {
		c.BatchItemDelay = d.BatchItemDelay
		fixed = append(fixed, "batch_item_delay")
	}
	return c, fixed
}

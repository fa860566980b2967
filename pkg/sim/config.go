package sim

import (
	"log"
	"strconv"
	"time"
)

// Config controls the simulation actor.
type Config struct {
	// QueueSize is the depth of the command queue. Callers block when it is full.
	QueueSize int
	// Interval is the delay between generations while running.
	Interval time.Duration
	// DeliveryTimeout bounds how long a broadcast waits on one full
	// subscriber channel before dropping that subscriber. Zero selects the
	// default; a negative value drops a full subscriber without waiting.
	DeliveryTimeout time.Duration
	// Logger receives diagnostics. Nil discards them.
	Logger *log.Logger
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		QueueSize:       100,
		Interval:        200 * time.Millisecond,
		DeliveryTimeout: 100 * time.Millisecond,
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["queue"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.QueueSize = parsed
		}
	}
	if v, ok := cfg["interval"]; ok {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			c.Interval = parsed
		}
	}
	if v, ok := cfg["delivery_timeout"]; ok {
		if parsed, err := time.ParseDuration(v); err == nil && parsed != 0 {
			c.DeliveryTimeout = parsed
		}
	}
	return c
}

func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.QueueSize <= 0 {
		c.QueueSize = d.QueueSize
	}
	if c.Interval <= 0 {
		c.Interval = d.Interval
	}
	if c.DeliveryTimeout == 0 {
		c.DeliveryTimeout = d.DeliveryTimeout
	}
	return c
}

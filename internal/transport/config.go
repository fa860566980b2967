package transport

import (
	"log"
	"strconv"
	"time"
)

// Config controls the websocket transport.
type Config struct {
	// BatchSize caps the number of cells per server message.
	BatchSize int
	// SubscriberBuffer is the notification buffer of each connection.
	SubscriberBuffer int
	// WriteTimeout bounds a single websocket write.
	WriteTimeout time.Duration
	// LivenessInterval is how often a connection confirms that its
	// subscription is still registered with the simulation.
	LivenessInterval time.Duration
	// Logger receives per-connection diagnostics. Nil discards them.
	Logger *log.Logger
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		BatchSize:        100,
		SubscriberBuffer: 100,
		WriteTimeout:     10 * time.Second,
		LivenessInterval: time.Second,
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["batch"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.BatchSize = parsed
		}
	}
	if v, ok := cfg["subscriber_buffer"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.SubscriberBuffer = parsed
		}
	}
	if v, ok := cfg["write_timeout"]; ok {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			c.WriteTimeout = parsed
		}
	}
	if v, ok := cfg["liveness"]; ok {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			c.LivenessInterval = parsed
		}
	}
	return c
}

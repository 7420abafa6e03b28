package simulation

import (
	"errors"
	"time"
)

// Defaults for a run: 0.1 s of simulated time per tick, one tick every
// 100 ms of wall-clock time.
const (
	DefaultTickSeconds = 0.1
	DefaultIntervalMS  = 100
)

// Config defines the cadence of the tick driver.
type Config struct {
	// TickSeconds is the simulated time added by every tick.
	TickSeconds float64 `json:"tick_seconds"`
	// IntervalMS is the wall-clock period between ticks in Run.
	IntervalMS int `json:"interval_ms"`
	// MaxTicks stops Run after that many ticks when positive.
	MaxTicks int64 `json:"max_ticks"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.TickSeconds == 0 {
		c.TickSeconds = DefaultTickSeconds
	}
	if c.IntervalMS == 0 {
		c.IntervalMS = DefaultIntervalMS
	}
}

// Validate checks the cadence values.
func (c Config) Validate() error {
	if c.TickSeconds <= 0 {
		return errors.New("tick_seconds must be positive")
	}
	if c.IntervalMS <= 0 {
		return errors.New("interval_ms must be positive")
	}
	if c.MaxTicks < 0 {
		return errors.New("max_ticks must not be negative")
	}
	return nil
}

// Interval returns the wall-clock tick period.
func (c Config) Interval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}

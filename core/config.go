package core

import (
	"errors"
	"time"
)

// DefaultCyclePeriod is the minimum gap between two pad cycles. The console
// polls about once per frame, so this keeps the companion read rate bounded.
const DefaultCyclePeriod = 14 * time.Millisecond

// Config holds the pad's tunables. Pin numbers live with the target.
type Config struct {
	CompanionAddr I2CAddress    // Companion device address on the polling bus
	CyclePeriod   time.Duration // Delay from the end of one cycle to the next poll
	AckSettle     time.Duration // Wait after a byte before pulling ACK low
	AckHold       time.Duration // ACK low time
	Bus           SPIConfig     // Responder bus settings
	StatsInterval uint32        // Emit a STATS line every N cycles, 0 = never
	TraceOnErrors uint32        // Dump the trace ring after N bus errors in a row, 0 = never
}

// DefaultConfig returns the settings of the stock firmware
func DefaultConfig() Config {
	return Config{
		CompanionAddr: DefaultCompanionAddr,
		CyclePeriod:   DefaultCyclePeriod,
		AckSettle:     DefaultAckSettle,
		AckHold:       DefaultAckHold,
		Bus:           DefaultResponderConfig(),
	}
}

// Validate checks the configuration for values the firmware cannot run with
func (c *Config) Validate() error {
	if c.CompanionAddr > 0x7F {
		return errors.New("companion address must be 7-bit")
	}
	if c.CyclePeriod <= 0 {
		return errors.New("cycle period must be positive")
	}
	if c.AckHold <= 0 {
		return errors.New("ACK hold time must be positive")
	}
	if c.AckSettle < 0 {
		return errors.New("ACK settle time must not be negative")
	}
	if c.Bus.Mode > 3 {
		return errors.New("invalid SPI mode")
	}
	if c.Bus.Rate == 0 {
		return errors.New("SPI rate must be positive")
	}
	return nil
}

package core

import (
	"errors"

	"tinygo.org/x/drivers"
)

// SPIMode represents SPI clock polarity and phase (0-3)
// Mode 0: CPOL=0, CPHA=0 (clock idle low, sample on rising edge)
// Mode 1: CPOL=0, CPHA=1 (clock idle low, sample on falling edge)
// Mode 2: CPOL=1, CPHA=0 (clock idle high, sample on falling edge)
// Mode 3: CPOL=1, CPHA=1 (clock idle high, sample on rising edge)
type SPIMode uint8

// SPIConfig holds the configuration for the responder bus
type SPIConfig struct {
	Mode     SPIMode // SPI mode (0-3)
	Rate     uint32  // Maximum clock rate in Hz the host may drive
	LSBFirst bool    // Bit order on the wire
}

// DefaultResponderConfig returns the console pad bus settings: mode 3,
// LSB first, up to 50MHz.
func DefaultResponderConfig() SPIConfig {
	return SPIConfig{
		Mode:     3,
		Rate:     50000000,
		LSBFirst: true,
	}
}

// ErrDeselected is returned by a ResponderBus when the host releases the
// attention line in the middle of a byte exchange.
var ErrDeselected = errors.New("host released attention")

// ResponderBus is a clocked-in SPI peripheral. The host drives the clock, so
// every Transfer blocks until the host has shifted a full byte.
//
// Transfer(tx) loads tx for the next byte and returns what the host sent
// during that byte.
type ResponderBus interface {
	drivers.SPI

	// Begin arms the peripheral in responder role for one transaction.
	Begin(config SPIConfig) error

	// End releases the transaction. Safe to call after a failed Begin.
	End()
}

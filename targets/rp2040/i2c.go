//go:build rp2040

package main

import (
	"machine"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/i2csoft"
)

// PollingBusConfig selects how the companion device is reached
type PollingBusConfig struct {
	Frequency uint32
	SDA       machine.Pin
	SCL       machine.Pin

	// Software bit-bangs the bus on SDA/SCL instead of using I2C0. Use it
	// when the companion sits on pins the hardware block cannot reach.
	Software bool
}

// newPollingBus configures the I2C bus the companion device answers on
func newPollingBus(cfg PollingBusConfig) (drivers.I2C, error) {
	if cfg.Software {
		bus := i2csoft.New(cfg.SCL, cfg.SDA)
		if err := bus.Configure(i2csoft.I2CConfig{
			Frequency: cfg.Frequency,
			SCL:       cfg.SCL,
			SDA:       cfg.SDA,
		}); err != nil {
			return nil, err
		}
		return bus, nil
	}

	bus := machine.I2C0
	if err := bus.Configure(machine.I2CConfig{
		Frequency: cfg.Frequency,
		SDA:       cfg.SDA,
		SCL:       cfg.SCL,
	}); err != nil {
		return nil, err
	}
	return bus, nil
}

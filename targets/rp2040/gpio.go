//go:build rp2040

package main

import (
	"machine"
	"psxpad/core"
)

// RPGPIODriver implements the GPIODriver interface for RP2040
type RPGPIODriver struct {
	// Configured pins and whether each is currently an output. The ACK line
	// flips between output and input every transaction, so direction is
	// tracked rather than configured once.
	configuredPins map[core.GPIOPin]bool
}

// NewRPGPIODriver creates a new RP2040 GPIO driver
func NewRPGPIODriver() *RPGPIODriver {
	return &RPGPIODriver{
		configuredPins: make(map[core.GPIOPin]bool),
	}
}

// ConfigureOutput configures a pin as a digital output
func (d *RPGPIODriver) ConfigureOutput(pin core.GPIOPin) error {
	if output, exists := d.configuredPins[pin]; exists && output {
		return nil
	}
	machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinOutput})
	d.configuredPins[pin] = true
	return nil
}

// ConfigureInput floats a pin
func (d *RPGPIODriver) ConfigureInput(pin core.GPIOPin) error {
	if output, exists := d.configuredPins[pin]; exists && !output {
		return nil
	}
	machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinInput})
	d.configuredPins[pin] = false
	return nil
}

// SetPin sets the pin to high (true) or low (false)
func (d *RPGPIODriver) SetPin(pin core.GPIOPin, value bool) error {
	if output, exists := d.configuredPins[pin]; !exists || !output {
		if err := d.ConfigureOutput(pin); err != nil {
			return err
		}
	}
	machine.Pin(pin).Set(value)
	return nil
}

// GetPin reads the current pin state
func (d *RPGPIODriver) GetPin(pin core.GPIOPin) (bool, error) {
	if _, exists := d.configuredPins[pin]; !exists {
		return false, nil
	}
	return machine.Pin(pin).Get(), nil
}

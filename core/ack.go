package core

import "time"

// Default ACK timing. The host samples ACK a few microseconds after each byte
// and gives up on the pad if the pulse is missing or late.
const (
	DefaultAckSettle = 5 * time.Microsecond
	DefaultAckHold   = 3 * time.Microsecond
)

// AckSignaler drives the pad's ACK line. The line is an output only while a
// transaction is open; outside of one it floats so other pads on the bus can
// use it.
type AckSignaler struct {
	gpio   GPIODriver
	pin    GPIOPin
	settle time.Duration
	hold   time.Duration
	wait   func(time.Duration)
	armed  bool
	pulses uint32
	faults uint32
}

// NewAckSignaler creates a signaler on pin with the given settle and hold times
func NewAckSignaler(gpio GPIODriver, pin GPIOPin, settle, hold time.Duration) *AckSignaler {
	return &AckSignaler{
		gpio:   gpio,
		pin:    pin,
		settle: settle,
		hold:   hold,
		wait:   busyWait,
	}
}

// Arm takes the line as an output, idling high
func (a *AckSignaler) Arm() error {
	if err := a.gpio.ConfigureOutput(a.pin); err != nil {
		return err
	}
	a.armed = true
	return a.gpio.SetPin(a.pin, true)
}

// Pulse waits for the host to finish the byte, then pulls ACK low for the
// hold time. Interrupts stay off for the whole sequence so the pulse lands
// inside the host's window. A failed pin write cannot abort a byte the host
// is already clocking; it is counted and the transaction goes on.
func (a *AckSignaler) Pulse() {
	state := disableInterrupts()
	a.wait(a.settle)
	errLow := a.gpio.SetPin(a.pin, false)
	a.wait(a.hold)
	errHigh := a.gpio.SetPin(a.pin, true)
	restoreInterrupts(state)

	if errLow != nil || errHigh != nil {
		a.faults++
	}
	a.pulses++
}

// Release returns the line to high impedance
func (a *AckSignaler) Release() error {
	if !a.armed {
		return nil
	}
	a.armed = false
	return a.gpio.ConfigureInput(a.pin)
}

// Pulses returns the number of pulses emitted since boot
func (a *AckSignaler) Pulses() uint32 {
	return a.pulses
}

// Faults returns the number of pulses with a rejected pin write
func (a *AckSignaler) Faults() uint32 {
	return a.faults
}

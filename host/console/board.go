package console

import (
	"errors"

	"psxpad/core"
)

var errNotOutput = errors.New("pin written while not an output")

// Board stands in for the pad's GPIO. It counts ACK pulses as the console
// sees them: falling edges while the line is driven.
type Board struct {
	ackPin  core.GPIOPin
	levels  map[core.GPIOPin]bool
	outputs map[core.GPIOPin]bool
	acks    int
}

// NewBoard creates a board whose ACK line is ackPin
func NewBoard(ackPin core.GPIOPin) *Board {
	return &Board{
		ackPin:  ackPin,
		levels:  make(map[core.GPIOPin]bool),
		outputs: make(map[core.GPIOPin]bool),
	}
}

func (b *Board) ConfigureOutput(pin core.GPIOPin) error {
	b.outputs[pin] = true
	return nil
}

func (b *Board) ConfigureInput(pin core.GPIOPin) error {
	b.outputs[pin] = false
	b.levels[pin] = true // pulled up by the console
	return nil
}

func (b *Board) SetPin(pin core.GPIOPin, value bool) error {
	if !b.outputs[pin] {
		return errNotOutput
	}
	if pin == b.ackPin && b.levels[pin] && !value {
		b.acks++
	}
	b.levels[pin] = value
	return nil
}

func (b *Board) GetPin(pin core.GPIOPin) (bool, error) {
	return b.levels[pin], nil
}

// Acks returns the ACK pulses seen so far
func (b *Board) Acks() int {
	return b.acks
}

// Level returns the last level written to pin
func (b *Board) Level(pin core.GPIOPin) bool {
	return b.levels[pin]
}

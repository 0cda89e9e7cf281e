package console

import (
	"errors"

	"psxpad/core"
)

var (
	errNotSelected = errors.New("bus transfer outside a transaction")
	errBadMode     = errors.New("console bus runs SPI mode 3, LSB first")
)

// Bus plays the console side of the responder bus from a loaded frame.
// Once the frame runs out the console deasserts ATT.
type Bus struct {
	frame  []byte
	pos    int
	active bool
	sent   []byte
}

// NewBus creates an idle console bus
func NewBus() *Bus {
	return &Bus{}
}

// Load sets the bytes the console clocks in the next transaction
func (b *Bus) Load(frame []byte) {
	b.frame = append(b.frame[:0], frame...)
	b.pos = 0
	b.sent = b.sent[:0]
}

// Begin selects the pad
func (b *Bus) Begin(config core.SPIConfig) error {
	if config.Mode != 3 || !config.LSBFirst {
		return errBadMode
	}
	b.active = true
	return nil
}

// End deselects the pad
func (b *Bus) End() {
	b.active = false
}

// Transfer clocks one byte each way
func (b *Bus) Transfer(tx byte) (byte, error) {
	if !b.active {
		return 0, errNotSelected
	}
	if b.pos >= len(b.frame) {
		return 0, core.ErrDeselected
	}
	rx := b.frame[b.pos]
	b.pos++
	b.sent = append(b.sent, tx)
	return rx, nil
}

// Tx clocks len(w) bytes; r may be nil
func (b *Bus) Tx(w, r []byte) error {
	for i, tx := range w {
		rx, err := b.Transfer(tx)
		if err != nil {
			return err
		}
		if i < len(r) {
			r[i] = rx
		}
	}
	return nil
}

// Sent returns the bytes the pad shifted out in the current frame
func (b *Bus) Sent() []byte {
	return b.sent
}

// Clocked reports how many console bytes the pad consumed
func (b *Bus) Clocked() int {
	return b.pos
}

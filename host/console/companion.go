package console

import (
	"errors"

	"psxpad/core"
)

var errWrongAddress = errors.New("no device at address")

// Companion is the I2C device the pad polls for its button state
type Companion struct {
	addr     uint16
	snapshot core.ButtonsSnapshot
	requests int
	short    int // Bytes to send per read, 0 for a full snapshot
}

// NewCompanion creates a companion at addr reporting an idle pad
func NewCompanion(addr core.I2CAddress) *Companion {
	return &Companion{
		addr:     uint16(addr),
		snapshot: core.IdleSnapshot(),
	}
}

// Set replaces the state the companion reports
func (c *Companion) Set(snap core.ButtonsSnapshot) {
	c.snapshot = snap
}

// Truncate makes the companion stop after n bytes per read, like a device
// that is busy or half-booted. Zero restores full reads.
func (c *Companion) Truncate(n int) {
	c.short = n
}

// Tx answers read requests with the current snapshot
func (c *Companion) Tx(addr uint16, w, r []byte) error {
	if addr != c.addr {
		return errWrongAddress
	}
	if len(w) > 0 && w[0] == core.ReadRequest {
		c.requests++
	}
	copy(r, c.snapshot[:])
	return nil
}

// ReadUpTo sends at most the truncated length, so the pad keeps the rest
// of its previous snapshot
func (c *Companion) ReadUpTo(addr uint16, buf []byte) (int, error) {
	if addr != c.addr {
		return 0, errWrongAddress
	}
	data := c.snapshot[:]
	if c.short > 0 && c.short < len(data) {
		data = data[:c.short]
	}
	return copy(buf, data), nil
}

// Requests returns how many read requests were received
func (c *Companion) Requests() int {
	return c.requests
}

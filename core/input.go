package core

import (
	"errors"

	"tinygo.org/x/drivers"
)

// ReadRequest is the single byte the companion device answers with a snapshot ('r')
const ReadRequest byte = 0x72

// DefaultCompanionAddr is the companion device's 7-bit I2C address
const DefaultCompanionAddr I2CAddress = 0x6A

var errNoInput = errors.New("companion sent no input bytes")

// InputSource fetches the button snapshot from the companion device over I2C
type InputSource struct {
	bus     drivers.I2C
	addr    uint16
	request [1]byte
	buf     [SnapshotLen]byte
}

// NewInputSource creates a client for the companion at addr
func NewInputSource(bus drivers.I2C, addr I2CAddress) *InputSource {
	return &InputSource{
		bus:     bus,
		addr:    uint16(addr),
		request: [1]byte{ReadRequest},
	}
}

// Poll sends the read request and copies the reply into snap. Bytes the
// device did not send keep their previous value; on a failed read snap is
// left as it was. Returns the number of bytes stored.
func (s *InputSource) Poll(snap *ButtonsSnapshot) (int, error) {
	if err := s.bus.Tx(s.addr, s.request[:], nil); err != nil {
		return 0, err
	}

	n, err := s.read()
	copy(snap[:n], s.buf[:n])
	if err != nil {
		return n, err
	}
	if n == 0 {
		return 0, errNoInput
	}
	return n, nil
}

// read fills s.buf and returns how many leading bytes are valid
func (s *InputSource) read() (int, error) {
	if pr, ok := s.bus.(PartialReader); ok {
		n, err := pr.ReadUpTo(s.addr, s.buf[:])
		if n > len(s.buf) {
			n = len(s.buf)
		}
		if n < 0 {
			n = 0
		}
		return n, err
	}

	if err := s.bus.Tx(s.addr, nil, s.buf[:]); err != nil {
		return 0, err
	}
	return len(s.buf), nil
}

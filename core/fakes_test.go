package core

import (
	"errors"
	"time"
)

// busLog is shared by the fake bus and fake GPIO so tests can check the
// order of exchanges and ACK pulses.
type busLog struct {
	events []string
}

func (l *busLog) add(ev string) {
	l.events = append(l.events, ev)
}

func (l *busLog) String() string {
	s := ""
	for _, ev := range l.events {
		s += ev
	}
	return s
}

// mockGPIODriver is a test implementation of GPIODriver
type mockGPIODriver struct {
	log        *busLog
	pins       map[GPIOPin]bool
	outputs    map[GPIOPin]bool
	ackPin     GPIOPin
	lowOutside int // ACK falling edges seen with interrupts enabled
}

func newMockGPIODriver(log *busLog, ackPin GPIOPin) *mockGPIODriver {
	return &mockGPIODriver{
		log:     log,
		pins:    make(map[GPIOPin]bool),
		outputs: make(map[GPIOPin]bool),
		ackPin:  ackPin,
	}
}

func (m *mockGPIODriver) ConfigureOutput(pin GPIOPin) error {
	m.outputs[pin] = true
	return nil
}

func (m *mockGPIODriver) ConfigureInput(pin GPIOPin) error {
	m.outputs[pin] = false
	return nil
}

func (m *mockGPIODriver) SetPin(pin GPIOPin, value bool) error {
	if pin == m.ackPin && !value && m.pins[pin] {
		if m.log != nil {
			m.log.add("A")
		}
		if !inCriticalSection() {
			m.lowOutside++
		}
	}
	m.pins[pin] = value
	return nil
}

func (m *mockGPIODriver) GetPin(pin GPIOPin) (bool, error) {
	return m.pins[pin], nil
}

// scriptedHost plays the console side of the responder bus. Each Transfer
// returns the next scripted host byte; once the script runs out the host
// sends 0x00 like a real console's filler.
type scriptedHost struct {
	log      *busLog
	script   []byte
	pos      int
	sent     []byte
	begun    int
	ended    int
	failAt   int // Transfer index that returns ErrDeselected, -1 for never
	beginErr error
}

func newScriptedHost(log *busLog, script ...byte) *scriptedHost {
	return &scriptedHost{log: log, script: script, failAt: -1}
}

func (h *scriptedHost) Begin(config SPIConfig) error {
	h.begun++
	return h.beginErr
}

func (h *scriptedHost) End() {
	h.ended++
}

func (h *scriptedHost) Transfer(b byte) (byte, error) {
	if h.failAt == len(h.sent) {
		return 0, ErrDeselected
	}
	h.sent = append(h.sent, b)
	if h.log != nil {
		h.log.add("X")
	}
	var rx byte
	if h.pos < len(h.script) {
		rx = h.script[h.pos]
	}
	h.pos++
	return rx, nil
}

func (h *scriptedHost) Tx(w, r []byte) error {
	for i := range w {
		rx, err := h.Transfer(w[i])
		if err != nil {
			return err
		}
		if i < len(r) {
			r[i] = rx
		}
	}
	return nil
}

// payload returns what the pad sent after the three header bytes
func (h *scriptedHost) payload() []byte {
	if len(h.sent) <= 3 {
		return nil
	}
	return h.sent[3:]
}

var errNack = errors.New("I2C error: expected ACK not NACK")

// mockI2C answers the companion read request with a canned reply
type mockI2C struct {
	reply    []byte
	writes   [][]byte
	writeErr error
	readErr  error
}

func (m *mockI2C) Tx(addr uint16, w, r []byte) error {
	if len(w) > 0 {
		m.writes = append(m.writes, append([]byte(nil), w...))
		return m.writeErr
	}
	if m.readErr != nil {
		return m.readErr
	}
	copy(r, m.reply)
	return nil
}

// shortI2C reports how many bytes the companion actually sent
type shortI2C struct {
	mockI2C
}

func (m *shortI2C) ReadUpTo(addr uint16, buf []byte) (int, error) {
	n := copy(buf, m.reply)
	return n, m.readErr
}

func noWait(d time.Duration) {}

var errPinStuck = errors.New("pin stuck")

// stuckHighGPIO rejects every attempt to drive a pin low
type stuckHighGPIO struct {
	*mockGPIODriver
}

func (s stuckHighGPIO) SetPin(pin GPIOPin, value bool) error {
	if !value {
		return errPinStuck
	}
	return s.mockGPIODriver.SetPin(pin, value)
}

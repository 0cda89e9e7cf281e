//go:build rp2040

package pio

// PIO SPI responder for the console pad bus.
//
// The console is the clock master: CLK idles high, the pad shifts a bit out
// on the falling edge and the console samples on the rising edge (mode 3),
// least significant bit first. One PIO state machine follows the clock with
// autopull/autopush at 8 bits, so each byte costs one TX FIFO write and one
// RX FIFO read and the CPU is free to pulse ACK between bytes.

import (
	"errors"
	"machine"

	"psxpad/core"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

// buildResponderProgram creates the responder PIO program using AssemblerV0.
// clk is the absolute GPIO number of the console clock.
func buildResponderProgram(clk uint8) []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.WaitGPIO(false, clk).Encode(),       // 0: wait 0 gpio clk (falling edge)
		asm.Out(rp2pio.OutDestPins, 1).Encode(), // 1: out pins, 1 (drive DAT)
		asm.WaitGPIO(true, clk).Encode(),        // 2: wait 1 gpio clk (rising edge)
		asm.In(rp2pio.InSrcPins, 1).Encode(),    // 3: in pins, 1 (sample CMD)
		// .wrap
	}
}

const responderPIOOrigin = -1 // Let the PIO block pick a free offset

var (
	errResponderMode  = errors.New("PIO responder only supports mode 3, LSB first")
	errNoStateMachine = errors.New("no free PIO state machine")
)

// ResponderPins is the console-facing side of the pad connector
type ResponderPins struct {
	CLK machine.Pin // Clock from console
	CMD machine.Pin // Data from console
	DAT machine.Pin // Data to console
	ATT machine.Pin // Attention (chip select), active low
}

// SPIResponder implements core.ResponderBus on a PIO state machine
type SPIResponder struct {
	pio      *rp2pio.PIO
	sm       rp2pio.StateMachine
	pins     ResponderPins
	offset   uint8
	selected bool // attention seen low during the current transaction
}

// NewSPIResponder claims a state machine on PIO0 (or PIO1 when PIO0 is full)
func NewSPIResponder(pins ResponderPins) (*SPIResponder, error) {
	for _, block := range []*rp2pio.PIO{rp2pio.PIO0, rp2pio.PIO1} {
		sm, err := block.ClaimStateMachine()
		if err != nil {
			continue
		}
		r := &SPIResponder{pio: block, sm: sm, pins: pins}
		if err := r.init(); err != nil {
			sm.Unclaim()
			return nil, err
		}
		return r, nil
	}
	return nil, errNoStateMachine
}

// init loads the program and configures pins and shift registers
func (r *SPIResponder) init() error {
	program := buildResponderProgram(uint8(r.pins.CLK))
	offset, err := r.pio.AddProgram(program, responderPIOOrigin)
	if err != nil {
		return err
	}
	r.offset = offset

	r.pins.DAT.Configure(machine.PinConfig{Mode: r.pio.PinMode()})
	r.pins.CMD.Configure(machine.PinConfig{Mode: machine.PinInput})
	r.pins.CLK.Configure(machine.PinConfig{Mode: machine.PinInput})
	r.pins.ATT.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetOutPins(r.pins.DAT, 1)
	cfg.SetInPins(r.pins.CMD, 1)

	// Shift right on both sides: first bit on the wire is bit 0.
	// Autopull/autopush every 8 bits.
	cfg.SetOutShift(true, true, 8)
	cfg.SetInShift(true, true, 8)

	cfg.SetWrap(offset+uint8(len(program))-1, offset)

	// Full system clock: the console may clock up to several MHz
	cfg.SetClkDivIntFrac(1, 0)

	r.sm.Init(offset, cfg)
	r.sm.SetPindirsConsecutive(r.pins.DAT, 1, true)
	r.sm.SetPinsConsecutive(r.pins.DAT, 1, true) // DAT idles high
	return nil
}

// Begin arms the state machine for one transaction
func (r *SPIResponder) Begin(config core.SPIConfig) error {
	if config.Mode != 3 || !config.LSBFirst {
		return errResponderMode
	}
	r.sm.SetEnabled(false)
	r.sm.ClearFIFOs()
	r.sm.Restart()
	r.sm.Jmp(r.offset, rp2pio.JmpAlways)
	r.selected = false
	r.sm.SetEnabled(true)
	return nil
}

// Transfer queues tx for the next byte and blocks until the console has
// clocked it. Returns core.ErrDeselected if attention goes high mid-byte.
func (r *SPIResponder) Transfer(tx byte) (byte, error) {
	r.sm.TxPut(uint32(tx))
	for r.sm.IsRxFIFOEmpty() {
		if !r.pins.ATT.Get() {
			r.selected = true
		} else if r.selected {
			return 0, core.ErrDeselected
		}
	}
	// Input shifts right, so the byte lands in the top 8 bits
	return byte(r.sm.RxGet() >> 24), nil
}

// Tx transfers w while filling r, as drivers.SPI expects
func (r *SPIResponder) Tx(w, rx []byte) error {
	n := len(w)
	if len(rx) > n {
		n = len(rx)
	}
	for i := 0; i < n; i++ {
		var out byte
		if i < len(w) {
			out = w[i]
		}
		in, err := r.Transfer(out)
		if err != nil {
			return err
		}
		if i < len(rx) {
			rx[i] = in
		}
	}
	return nil
}

// End stops the state machine and lets DAT idle high
func (r *SPIResponder) End() {
	r.sm.SetEnabled(false)
	r.sm.ClearFIFOs()
	r.sm.SetPinsConsecutive(r.pins.DAT, 1, true)
}

package core

// Outcome is how a bus transaction ended
type Outcome uint8

const (
	OutcomeNone           Outcome = iota // No transaction recorded
	OutcomeComplete                      // Full response sent
	OutcomeBadSync                       // First host byte was not 0x01
	OutcomeUnknownCommand                // Command id not in the response table
	OutcomeSelectorAbort                 // Selector out of range on a paged query
	OutcomeBusError                      // Peripheral failed or host dropped attention
)

// String returns the name used in diagnostic lines
func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeComplete:
		return "ok"
	case OutcomeBadSync:
		return "badsync"
	case OutcomeUnknownCommand:
		return "unknown"
	case OutcomeSelectorAbort:
		return "selector"
	case OutcomeBusError:
		return "buserr"
	default:
		return "invalid"
	}
}

// MaxFrameLen is the longest transaction the pad takes part in: three header
// bytes plus six payload bytes.
const MaxFrameLen = 9

// Frame is the byte log of one transaction
type Frame struct {
	Command CommandID
	Rx      [MaxFrameLen]byte
	Tx      [MaxFrameLen]byte
	Len     int
	Acks    int
}

// Received returns the bytes sent by the host
func (f *Frame) Received() []byte {
	return f.Rx[:f.Len]
}

// Sent returns the bytes sent by the pad
func (f *Frame) Sent() []byte {
	return f.Tx[:f.Len]
}

// Payload returns the pad bytes after the three header bytes
func (f *Frame) Payload() []byte {
	if f.Len <= 3 {
		return nil
	}
	return f.Tx[3:f.Len]
}

// String renders the frame as host and pad byte columns
func (f *Frame) String() string {
	return "rx[" + hexBytes(f.Received()) + "] tx[" + hexBytes(f.Sent()) + "] acks=" + utoa(uint32(f.Acks))
}

// stageFn is one step of the transaction. It returns the next step, or nil
// together with the terminal outcome.
type stageFn func(r *Responder, state *PadState) (stageFn, Outcome)

// Responder answers one host transaction at a time on the responder bus
type Responder struct {
	bus    ResponderBus
	ack    *AckSignaler
	table  *ResponseTable
	config SPIConfig
	frame  Frame
	cmd    *Command
}

// NewResponder creates a responder using the given bus, ACK line and table
func NewResponder(bus ResponderBus, ack *AckSignaler, table *ResponseTable, config SPIConfig) *Responder {
	return &Responder{
		bus:    bus,
		ack:    ack,
		table:  table,
		config: config,
	}
}

// Transact runs one transaction to completion or abort. The bus and the ACK
// line are released before it returns on every path.
func (r *Responder) Transact(state *PadState) (outcome Outcome) {
	r.frame = Frame{}
	r.cmd = nil

	defer r.teardown()

	if err := r.ack.Arm(); err != nil {
		return OutcomeBusError
	}
	if err := r.bus.Begin(r.config); err != nil {
		return OutcomeBusError
	}

	var stage stageFn = syncCheck
	for stage != nil {
		stage, outcome = stage(r, state)
	}
	return outcome
}

// LastFrame returns the byte log of the most recent transaction
func (r *Responder) LastFrame() Frame {
	return r.frame
}

// teardown ends the bus transaction and floats the ACK line
func (r *Responder) teardown() {
	r.bus.End()
	r.ack.Release()
}

// exchange clocks one byte each way and logs it
func (r *Responder) exchange(tx byte) (byte, error) {
	rx, err := r.bus.Transfer(tx)
	if err != nil {
		return 0, err
	}
	if r.frame.Len < MaxFrameLen {
		r.frame.Tx[r.frame.Len] = tx
		r.frame.Rx[r.frame.Len] = rx
		r.frame.Len++
	}
	return rx, nil
}

// ackExchange sends one payload byte: ACK for the previous byte, then the exchange
func (r *Responder) ackExchange(tx byte) (byte, error) {
	r.pulse()
	return r.exchange(tx)
}

func (r *Responder) pulse() {
	r.ack.Pulse()
	r.frame.Acks++
}

// syncCheck waits for the host's first byte and requires it to be 0x01
func syncCheck(r *Responder, state *PadState) (stageFn, Outcome) {
	rx, err := r.exchange(IdleTxByte)
	if err != nil {
		return nil, OutcomeBusError
	}
	if rx != SyncByte {
		return nil, OutcomeBadSync
	}
	r.pulse()
	return commandCheck, OutcomeNone
}

// commandCheck sends the mode byte and receives the command id
func commandCheck(r *Responder, state *PadState) (stageFn, Outcome) {
	rx, err := r.exchange(ModeByte(state.Mode))
	if err != nil {
		return nil, OutcomeBusError
	}
	r.frame.Command = CommandID(rx)

	cmd, ok := r.table.Lookup(CommandID(rx))
	if !ok {
		return nil, OutcomeUnknownCommand
	}
	r.cmd = cmd
	r.pulse()
	return headerSeparator, OutcomeNone
}

// headerSeparator sends 0x5A; the host byte carries nothing
func headerSeparator(r *Responder, state *PadState) (stageFn, Outcome) {
	if _, err := r.exchange(HeaderByte); err != nil {
		return nil, OutcomeBusError
	}
	return dispatch, OutcomeNone
}

// dispatch produces the payload for the command accepted in commandCheck
func dispatch(r *Responder, state *PadState) (stageFn, Outcome) {
	rule := &r.cmd.Rule

	var outcome Outcome
	switch rule.Kind {
	case RuleHeaderOnly:
		outcome = OutcomeComplete
	case RuleSnapshot:
		outcome = r.sendSnapshot(state)
	case RuleFixed:
		outcome = r.sendBytes(rule.Payload)
	case RuleSelector:
		outcome = r.sendSelected(rule.Branches)
	default:
		outcome = OutcomeUnknownCommand
	}

	if outcome == OutcomeComplete && rule.Notice != "" {
		DebugAsync(rule.Notice)
	}
	return nil, outcome
}

// sendSnapshot answers 0x42/0x43. The host's first payload byte is the enter
// parameter; it arrives while the pad sends the first snapshot byte.
//
// Config mode is recomputed on both commands, so a 0x42 always leaves it off.
func (r *Responder) sendSnapshot(state *PadState) Outcome {
	enter, err := r.ackExchange(state.Snapshot[ButtonsLow])
	if err != nil {
		return OutcomeBusError
	}
	state.Mode.Config = enter == EnterConfig && r.cmd.ID == CmdConfig

	n := ReportLen(state.Mode.Analog)
	for i := 1; i < n; i++ {
		if _, err := r.ackExchange(state.Snapshot[i]); err != nil {
			return OutcomeBusError
		}
	}
	return OutcomeComplete
}

// sendBytes answers with a constant sequence
func (r *Responder) sendBytes(payload []byte) Outcome {
	for _, b := range payload {
		if _, err := r.ackExchange(b); err != nil {
			return OutcomeBusError
		}
	}
	return OutcomeComplete
}

// sendSelected reads the page selector and answers with that page. Any
// selector without a page ends the transaction right after the selector byte.
func (r *Responder) sendSelected(branches [][]byte) Outcome {
	sel, err := r.ackExchange(0x00)
	if err != nil {
		return OutcomeBusError
	}
	if int(sel) >= len(branches) {
		return OutcomeSelectorAbort
	}
	return r.sendBytes(branches[sel])
}

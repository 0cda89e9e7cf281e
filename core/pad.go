package core

import (
	"errors"

	"tinygo.org/x/drivers"
)

// Hardware bundles the drivers and pins a Pad runs on
type Hardware struct {
	GPIO      GPIODriver
	Bus       ResponderBus
	Poll      drivers.I2C
	AckPin    GPIOPin
	Indicator GPIOPin

	// Clock reads the free-running tick counter directly. The pad uses it
	// to time the next cycle from the end of a transaction, which the
	// main loop's cached system time does not see. Defaults to GetTime.
	Clock func() uint32
}

// Stats counts cycle results since boot
type Stats struct {
	Cycles         uint32
	Complete       uint32
	BadSync        uint32
	UnknownCommand uint32
	SelectorAbort  uint32
	BusErrors      uint32
	PollErrors     uint32
	AckPulses      uint32
	PinErrors      uint32 // ACK or indicator writes the GPIO driver rejected
}

// Pad is the whole emulated controller: it owns the pad state and runs
// poll, mode toggle and one bus transaction per cycle.
type Pad struct {
	config    Config
	state     *PadState
	input     *InputSource
	modes     *ModeController
	ack       *AckSignaler
	responder *Responder
	sched     *Scheduler
	clock     func() uint32
	cycle     Timer
	stats     Stats
	busErrRun uint32
}

// NewPad wires the pad components onto the given hardware
func NewPad(config Config, hw Hardware) (*Pad, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if hw.GPIO == nil || hw.Bus == nil || hw.Poll == nil {
		return nil, errors.New("pad hardware incomplete")
	}

	ack := NewAckSignaler(hw.GPIO, hw.AckPin, config.AckSettle, config.AckHold)
	p := &Pad{
		config:    config,
		state:     NewPadState(),
		input:     NewInputSource(hw.Poll, config.CompanionAddr),
		modes:     NewModeController(hw.GPIO, hw.Indicator),
		ack:       ack,
		responder: NewResponder(hw.Bus, ack, DefaultResponseTable(), config.Bus),
		clock:     hw.Clock,
	}
	if p.clock == nil {
		p.clock = GetTime
	}
	p.cycle.Handler = p.cycleEvent
	return p, nil
}

// Start announces the pad, shows the initial mode and schedules the first cycle
func (p *Pad) Start(now uint32) error {
	DebugPrintln("STARTED")
	if err := p.ack.Release(); err != nil {
		return err
	}
	if err := p.modes.Init(p.state); err != nil {
		return err
	}

	p.sched = NewScheduler(now)
	p.cycle.WakeTime = now + TimerFromDuration(p.config.CyclePeriod)
	p.sched.Schedule(&p.cycle)
	return nil
}

// Service runs any cycle that is due. Call it from the main loop with the
// current system time.
func (p *Pad) Service(now uint32) int {
	if p.sched == nil {
		return 0
	}
	if !p.sched.Contains(&p.cycle) {
		// The last cycle panicked out of its handler before it could rearm
		p.cycle.WakeTime = now + TimerFromDuration(p.config.CyclePeriod)
		p.sched.Schedule(&p.cycle)
	}
	return p.sched.Dispatch(now)
}

// cycleEvent is the scheduler handler: one full cycle, then rearm
func (p *Pad) cycleEvent(t *Timer) uint8 {
	p.RunCycle()
	t.WakeTime = p.clock() + TimerFromDuration(p.config.CyclePeriod)
	return SF_RESCHEDULE
}

// RunCycle refreshes the snapshot, updates the mode toggle and answers one
// transaction.
func (p *Pad) RunCycle() Outcome {
	if _, err := p.input.Poll(&p.state.Snapshot); err != nil {
		p.stats.PollErrors++
	}
	p.modes.UpdateToggle(p.state)

	outcome := p.responder.Transact(p.state)
	p.record(outcome)
	return outcome
}

// record updates counters, the trace ring and periodic diagnostics
func (p *Pad) record(outcome Outcome) {
	p.stats.Cycles++
	switch outcome {
	case OutcomeComplete:
		p.stats.Complete++
	case OutcomeBadSync:
		p.stats.BadSync++
	case OutcomeUnknownCommand:
		p.stats.UnknownCommand++
	case OutcomeSelectorAbort:
		p.stats.SelectorAbort++
	case OutcomeBusError:
		p.stats.BusErrors++
	}

	frame := &p.responder.frame
	RecordTrace(TraceEvent{
		Command: frame.Command,
		Outcome: outcome,
		Clock:   p.clock(),
		Bytes:   uint8(frame.Len),
		Acks:    uint8(frame.Acks),
	})

	if outcome == OutcomeBusError {
		p.busErrRun++
		if p.config.TraceOnErrors != 0 && p.busErrRun == p.config.TraceOnErrors {
			DumpTrace()
		}
	} else {
		p.busErrRun = 0
	}

	if p.config.StatsInterval != 0 && p.stats.Cycles%p.config.StatsInterval == 0 {
		DebugAsync(FormatStats(p.Stats()))
	}
}

// State returns the pad state owned by this pad
func (p *Pad) State() *PadState {
	return p.state
}

// Stats returns the counters since boot
func (p *Pad) Stats() Stats {
	st := p.stats
	st.AckPulses = p.ack.Pulses()
	st.PinErrors = p.ack.Faults() + p.modes.Faults()
	return st
}

// SetAnalog switches the report format and indicator outside the combo,
// e.g. to boot a digital-only pad
func (p *Pad) SetAnalog(analog bool) {
	p.modes.Set(p.state, analog)
}

// Responder returns the pad's bus responder
func (p *Pad) Responder() *Responder {
	return p.responder
}

// FormatStats renders counters as a diagnostic line
func FormatStats(s Stats) string {
	return "STATS cycles=" + utoa(s.Cycles) +
		" ok=" + utoa(s.Complete) +
		" badsync=" + utoa(s.BadSync) +
		" unknown=" + utoa(s.UnknownCommand) +
		" selector=" + utoa(s.SelectorAbort) +
		" buserr=" + utoa(s.BusErrors) +
		" pollerr=" + utoa(s.PollErrors) +
		" acks=" + utoa(s.AckPulses) +
		" pinerr=" + utoa(s.PinErrors)
}

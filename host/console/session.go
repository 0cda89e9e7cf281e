package console

import (
	"psxpad/core"
)

const (
	simAckPin       core.GPIOPin = 3
	simIndicatorPin core.GPIOPin = 13
)

// Result is one transaction as the pad saw it
type Result struct {
	Frame   core.Frame
	Outcome core.Outcome
	Acks    int // ACK pulses the console saw
}

// Session runs a real pad against the simulated console, bus and companion
type Session struct {
	Pad       *core.Pad
	Bus       *Bus
	Board     *Board
	Companion *Companion
}

// NewSession builds and starts a pad on simulated hardware
func NewSession(config core.Config) (*Session, error) {
	s := &Session{
		Bus:       NewBus(),
		Board:     NewBoard(simAckPin),
		Companion: NewCompanion(config.CompanionAddr),
	}

	pad, err := core.NewPad(config, core.Hardware{
		GPIO:      s.Board,
		Bus:       s.Bus,
		Poll:      s.Companion,
		AckPin:    simAckPin,
		Indicator: simIndicatorPin,
	})
	if err != nil {
		return nil, err
	}
	if err := pad.Start(core.GetTime()); err != nil {
		return nil, err
	}
	s.Pad = pad
	return s, nil
}

// Exchange runs one pad cycle with the console clocking frame
func (s *Session) Exchange(frame []byte) Result {
	s.Bus.Load(frame)
	before := s.Board.Acks()
	outcome := s.Pad.RunCycle()
	return Result{
		Frame:   s.Pad.Responder().LastFrame(),
		Outcome: outcome,
		Acks:    s.Board.Acks() - before,
	}
}

// Run plays frames in order
func (s *Session) Run(frames [][]byte) []Result {
	results := make([]Result, 0, len(frames))
	for _, f := range frames {
		results = append(results, s.Exchange(f))
	}
	return results
}

// Indicator reports the level of the mode indicator
func (s *Session) Indicator() bool {
	return s.Board.Level(simIndicatorPin)
}

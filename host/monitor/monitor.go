package monitor

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"psxpad/core"
)

// Monitor follows the pad's diagnostic stream and keeps what it learned
type Monitor struct {
	r io.Reader

	Boots         int
	Analog        bool
	VibrationMaps int
	LastStats     *core.Stats
	LastTrace     []core.TraceEvent
	Unknown       int

	trace   []core.TraceEvent
	inTrace bool
}

// New creates a monitor reading lines from r. The pad boots in analog mode.
func New(r io.Reader) *Monitor {
	return &Monitor{
		r:      r,
		Analog: true,
	}
}

// Run reads lines until r ends, applying each event and handing it to
// handle if set. Returns nil on a clean EOF, or the first error handle
// returns.
func (m *Monitor) Run(handle func(Event) error) error {
	reader := bufio.NewReader(m.r)
	for {
		line, isPrefix, err := reader.ReadLine()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read diagnostic line: %w", err)
		}
		if isPrefix {
			return fmt.Errorf("diagnostic line too long: %q", string(line))
		}

		trimmed := strings.TrimSpace(string(line))
		if len(trimmed) == 0 {
			continue
		}
		ev := ParseLine(trimmed)
		m.Apply(ev)
		if handle != nil {
			if err := handle(ev); err != nil {
				return err
			}
		}
	}
}

// Apply folds one event into the monitor state
func (m *Monitor) Apply(ev Event) {
	switch ev.Kind {
	case Started:
		m.Boots++
		m.Analog = true
		m.LastStats = nil
	case VibrationMap:
		m.VibrationMaps++
	case ModeChanged:
		m.Analog = ev.Analog
	case Stats:
		st := ev.Stats
		m.LastStats = &st
	case TraceBegin:
		m.inTrace = true
		m.trace = m.trace[:0]
	case Trace:
		if m.inTrace {
			m.trace = append(m.trace, ev.Trace)
		}
	case TraceEnd:
		if m.inTrace {
			m.LastTrace = append([]core.TraceEvent(nil), m.trace...)
			m.inTrace = false
		}
	default:
		m.Unknown++
	}
}

package monitor

import (
	"fmt"

	"psxpad/core"
)

// Kind identifies a diagnostic line
type Kind int

// Kind values
const (
	Unknown Kind = iota
	Started
	VibrationMap
	ModeChanged
	Stats
	TraceBegin
	Trace
	TraceEnd
)

func (k Kind) String() string {
	switch k {
	case Started:
		return "started"
	case VibrationMap:
		return "vibration_map"
	case ModeChanged:
		return "mode"
	case Stats:
		return "stats"
	case TraceBegin:
		return "trace_begin"
	case Trace:
		return "trace"
	case TraceEnd:
		return "trace_end"
	default:
		return "unknown"
	}
}

// Event is one parsed diagnostic line
type Event struct {
	Kind   Kind
	Analog bool            // ModeChanged
	Stats  core.Stats      // Stats
	Trace  core.TraceEvent // Trace
	Line   string
}

// ParseLine turns a diagnostic line into an Event. Lines the pad does not
// produce come back as Unknown with the text kept in Line.
func ParseLine(s string) Event {
	ev := Event{Line: s}

	var analog int
	var st core.Stats
	var cmd, bytes, acks, clock uint32
	var outcome string

	switch {
	case s == "STARTED":
		ev.Kind = Started
	case s == "Map vibration motors":
		ev.Kind = VibrationMap
	case s == "TRACE begin":
		ev.Kind = TraceBegin
	case s == "TRACE end":
		ev.Kind = TraceEnd
	case scan(s, "MODE analog=%d", &analog):
		if analog != 0 && analog != 1 {
			break
		}
		ev.Kind = ModeChanged
		ev.Analog = analog == 1
	case scan(s, "STATS cycles=%d ok=%d badsync=%d unknown=%d selector=%d buserr=%d pollerr=%d acks=%d pinerr=%d",
		&st.Cycles, &st.Complete, &st.BadSync, &st.UnknownCommand, &st.SelectorAbort, &st.BusErrors, &st.PollErrors,
		&st.AckPulses, &st.PinErrors):
		ev.Kind = Stats
		ev.Stats = st
	case scan(s, "TRACE cmd=0x%x outcome=%s bytes=%d acks=%d clock=%d", &cmd, &outcome, &bytes, &acks, &clock):
		o, ok := parseOutcome(outcome)
		if !ok || cmd > 0xFF {
			break
		}
		ev.Kind = Trace
		ev.Trace = core.TraceEvent{
			Command: core.CommandID(cmd),
			Outcome: o,
			Clock:   clock,
			Bytes:   uint8(bytes),
			Acks:    uint8(acks),
		}
	}
	return ev
}

// scan reports whether s matches format completely
func scan(s, format string, args ...interface{}) bool {
	n, err := fmt.Sscanf(s, format, args...)
	return err == nil && n == len(args)
}

func parseOutcome(s string) (core.Outcome, bool) {
	for o := core.OutcomeNone; o <= core.OutcomeBusError; o++ {
		if o.String() == s {
			return o, true
		}
	}
	return core.OutcomeNone, false
}

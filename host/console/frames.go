package console

import (
	"fmt"
	"strconv"
	"strings"

	"psxpad/core"
)

// FrameLen is how many bytes the console clocks per transaction
const FrameLen = core.MaxFrameLen

// frame pads a header with idle bytes up to FrameLen
func frame(header ...byte) []byte {
	f := make([]byte, FrameLen)
	copy(f, header)
	return f
}

// Poll reads the pad state without touching config mode
func Poll() []byte {
	return frame(core.SyncByte, byte(core.CmdPoll), 0x00)
}

// EnterConfig asks the pad to enter config mode
func EnterConfig() []byte {
	return frame(core.SyncByte, byte(core.CmdConfig), 0x00, core.EnterConfig)
}

// ExitConfig leaves config mode
func ExitConfig() []byte {
	return frame(core.SyncByte, byte(core.CmdConfig), 0x00, 0x00, 0x5A, 0x5A, 0x5A, 0x5A, 0x5A)
}

// SetMode requests analog or digital mode, optionally locking the mode button
func SetMode(analog, lock bool) []byte {
	var mode, lck byte
	if analog {
		mode = 0x01
	}
	if lock {
		lck = 0x03
	}
	return frame(core.SyncByte, byte(core.CmdSetMode), 0x00, mode, lck)
}

// MapMotors maps the small motor to byte 0 and the large one to byte 1
func MapMotors() []byte {
	return frame(core.SyncByte, byte(core.CmdVibrationMap), 0x00, 0x00, 0x01, 0xFF, 0xFF, 0xFF, 0xFF)
}

// QueryModel asks for the pad model descriptor
func QueryModel() []byte {
	return frame(core.SyncByte, byte(core.CmdQueryModel), 0x00, 0x5A, 0x5A, 0x5A, 0x5A, 0x5A, 0x5A)
}

// QueryAct asks for actuator page sel
func QueryAct(sel byte) []byte {
	return frame(core.SyncByte, byte(core.CmdQueryAct), 0x00, sel)
}

// QueryComb asks for the combination table
func QueryComb() []byte {
	return frame(core.SyncByte, byte(core.CmdQueryComb), 0x00, 0x00)
}

// QueryMode asks for mode page sel
func QueryMode(sel byte) []byte {
	return frame(core.SyncByte, byte(core.CmdQueryMode), 0x00, sel)
}

// Scripts are the named console sequences padsim can play
var Scripts = map[string]func() [][]byte{
	"poll": func() [][]byte {
		return [][]byte{Poll()}
	},
	// The startup handshake a console runs before switching a pad to analog
	"handshake": func() [][]byte {
		return [][]byte{
			Poll(),
			EnterConfig(),
			QueryModel(),
			QueryAct(0), QueryAct(1),
			QueryComb(),
			QueryMode(0), QueryMode(1),
			SetMode(true, true),
			MapMotors(),
			ExitConfig(),
			Poll(),
		}
	},
	"queries": func() [][]byte {
		return [][]byte{
			QueryModel(),
			QueryAct(0), QueryAct(1), QueryAct(2),
			QueryComb(),
			QueryMode(0), QueryMode(1), QueryMode(2),
		}
	},
}

// ParseFrame reads a frame written as hex bytes, e.g. "01 42 00"
func ParseFrame(s string) ([]byte, error) {
	fields := strings.Fields(strings.ReplaceAll(s, ",", " "))
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty frame")
	}
	if len(fields) > FrameLen {
		return nil, fmt.Errorf("frame has %d bytes, at most %d allowed", len(fields), FrameLen)
	}

	out := make([]byte, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(f), "0x"), 16, 8)
		if err != nil {
			return nil, fmt.Errorf("bad byte %q: %w", f, err)
		}
		out = append(out, byte(v))
	}
	return out, nil
}

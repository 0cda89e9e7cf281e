package core

// SnapshotLen is the number of bytes the companion device returns per poll.
const SnapshotLen = 6

// SnapshotIndex names a position in a ButtonsSnapshot.
type SnapshotIndex uint8

// Snapshot positions, in the order the companion sends them and the order
// they go out on the wire.
const (
	ButtonsLow  SnapshotIndex = 0 // SELECT, L3, R3, START, D-pad (active low)
	ButtonsHigh SnapshotIndex = 1 // L2, R2, L1, R1, triangle, circle, cross, square (active low)
	RightX      SnapshotIndex = 2
	RightY      SnapshotIndex = 3
	LeftX       SnapshotIndex = 4
	LeftY       SnapshotIndex = 5
)

// Rest values
const (
	ButtonsReleased byte = 0xFF
	AxisCenter      byte = 0x7F
)

// ToggleCombo is the ButtonsLow value that flips analog mode (SELECT + R3 held).
const ToggleCombo byte = 0xFC

// ButtonsSnapshot is the latest input state read from the companion device.
type ButtonsSnapshot [SnapshotLen]byte

// IdleSnapshot returns a snapshot with every button released and both sticks centered.
func IdleSnapshot() ButtonsSnapshot {
	return ButtonsSnapshot{
		ButtonsLow:  ButtonsReleased,
		ButtonsHigh: ButtonsReleased,
		RightX:      AxisCenter,
		RightY:      AxisCenter,
		LeftX:       AxisCenter,
		LeftY:       AxisCenter,
	}
}

// At returns the byte at a named position.
func (s *ButtonsSnapshot) At(i SnapshotIndex) byte {
	return s[i]
}

// ReportLen returns how many snapshot bytes a poll reply carries in the given mode.
func ReportLen(analog bool) int {
	if analog {
		return SnapshotLen
	}
	return 2
}

// ControllerMode holds the report-format and config flags the host sees.
type ControllerMode struct {
	Analog bool
	Config bool
}

// PadState is the single owned controller state: the input snapshot and the
// mode flags. The poller, mode controller and responder all receive it by pointer.
type PadState struct {
	Snapshot ButtonsSnapshot
	Mode     ControllerMode
}

// NewPadState returns the power-on state: idle input, analog mode, not configuring.
func NewPadState() *PadState {
	return &PadState{
		Snapshot: IdleSnapshot(),
		Mode:     ControllerMode{Analog: true},
	}
}

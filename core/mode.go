package core

// ModeController flips analog mode on the SELECT+R3 combo and mirrors the
// result on the indicator pin. Config mode lives in the same PadState but is
// written by the responder.
type ModeController struct {
	gpio      GPIODriver
	indicator GPIOPin
	latched   bool // combo already handled for the current hold
	faults    uint32
}

// NewModeController creates a mode controller driving the given indicator pin
func NewModeController(gpio GPIODriver, indicator GPIOPin) *ModeController {
	return &ModeController{
		gpio:      gpio,
		indicator: indicator,
	}
}

// Init configures the indicator and shows the current mode on it
func (m *ModeController) Init(state *PadState) error {
	if err := m.gpio.ConfigureOutput(m.indicator); err != nil {
		return err
	}
	return m.gpio.SetPin(m.indicator, state.Mode.Analog)
}

// UpdateToggle flips analog mode once per continuous hold of the combo.
// Returns true when the mode changed.
func (m *ModeController) UpdateToggle(state *PadState) bool {
	if state.Snapshot.At(ButtonsLow) != ToggleCombo {
		m.latched = false
		return false
	}
	if m.latched {
		return false
	}

	m.latched = true
	m.Set(state, !state.Mode.Analog)
	return true
}

// Set puts the pad in analog or digital mode and shows it on the indicator.
// A failed indicator write is counted; the mode change stands.
func (m *ModeController) Set(state *PadState, analog bool) {
	state.Mode.Analog = analog
	if err := m.gpio.SetPin(m.indicator, analog); err != nil {
		m.faults++
	}
	DebugAsync("MODE analog=" + flag01(analog))
}

// Faults returns the number of indicator writes the driver rejected
func (m *ModeController) Faults() uint32 {
	return m.faults
}

// ModeByte returns the byte the pad sends while the host sends its command id
func ModeByte(mode ControllerMode) byte {
	switch {
	case mode.Config:
		return ModeByteConfig
	case mode.Analog:
		return ModeByteAnalog
	default:
		return ModeByteDigital
	}
}

package core

import (
	"bytes"
	"testing"
)

const testAckPin GPIOPin = 3

type harness struct {
	log   *busLog
	gpio  *mockGPIODriver
	host  *scriptedHost
	ack   *AckSignaler
	r     *Responder
	state *PadState
}

func newHarness(script ...byte) *harness {
	log := &busLog{}
	gpio := newMockGPIODriver(log, testAckPin)
	host := newScriptedHost(log, script...)
	ack := NewAckSignaler(gpio, testAckPin, DefaultAckSettle, DefaultAckHold)
	ack.wait = noWait
	return &harness{
		log:   log,
		gpio:  gpio,
		host:  host,
		ack:   ack,
		r:     NewResponder(host, ack, DefaultResponseTable(), DefaultResponderConfig()),
		state: NewPadState(),
	}
}

func (h *harness) run() Outcome {
	return h.r.Transact(h.state)
}

func TestPollAnalogScenario(t *testing.T) {
	h := newHarness(0x01, 0x42, 0x00, 0x00)

	outcome := h.run()
	if outcome != OutcomeComplete {
		t.Fatalf("Expected outcome ok, got %s", outcome)
	}

	if h.host.sent[1] != 0x73 {
		t.Errorf("Expected mode byte 0x73, got 0x%02X", h.host.sent[1])
	}
	if h.host.sent[2] != HeaderByte {
		t.Errorf("Expected header byte 0x5A, got 0x%02X", h.host.sent[2])
	}

	want := []byte{0xFF, 0xFF, 0x7F, 0x7F, 0x7F, 0x7F}
	if !bytes.Equal(h.host.payload(), want) {
		t.Errorf("Expected payload % X, got % X", want, h.host.payload())
	}
	if h.state.Mode.Config {
		t.Error("Config mode should stay off after 0x42")
	}
}

func TestPollDigitalSendsTwoBytes(t *testing.T) {
	h := newHarness(0x01, 0x42, 0x00, 0x00)
	h.state.Mode.Analog = false
	h.state.Snapshot = ButtonsSnapshot{0xEF, 0xBF, 0x10, 0x20, 0x30, 0x40}

	if outcome := h.run(); outcome != OutcomeComplete {
		t.Fatalf("Expected outcome ok, got %s", outcome)
	}
	if h.host.sent[1] != ModeByteDigital {
		t.Errorf("Expected mode byte 0x41, got 0x%02X", h.host.sent[1])
	}
	want := []byte{0xEF, 0xBF}
	if !bytes.Equal(h.host.payload(), want) {
		t.Errorf("Expected payload % X, got % X", want, h.host.payload())
	}
}

func TestPollAnalogPassesSnapshotThrough(t *testing.T) {
	h := newHarness(0x01, 0x43, 0x00, 0x00)
	h.state.Snapshot = ButtonsSnapshot{0xEF, 0xBF, 0x10, 0x20, 0x30, 0x40}

	h.run()
	if !bytes.Equal(h.host.payload(), h.state.Snapshot[:]) {
		t.Errorf("Expected payload % X, got % X", h.state.Snapshot[:], h.host.payload())
	}
}

func TestEnterConfigMode(t *testing.T) {
	h := newHarness(0x01, 0x43, 0x00, 0x01)

	if outcome := h.run(); outcome != OutcomeComplete {
		t.Fatalf("Expected outcome ok, got %s", outcome)
	}
	if !h.state.Mode.Config {
		t.Fatal("Expected config mode after 0x43 with enter byte 0x01")
	}

	// Next transaction reports config mode in its mode byte
	h2 := newHarness(0x01, 0x45)
	h2.state = h.state
	h2.run()
	if h2.host.sent[1] != ModeByteConfig {
		t.Errorf("Expected mode byte 0xF3 in config mode, got 0x%02X", h2.host.sent[1])
	}
}

func TestConfigRecomputedOnPollCommands(t *testing.T) {
	tests := []struct {
		name  string
		cmd   byte
		enter byte
		want  bool
	}{
		{"exit config", 0x43, 0x00, false},
		{"config other value", 0x43, 0x02, false},
		{"poll with 0x01 clears", 0x42, 0x01, false},
		{"poll with 0x00 clears", 0x42, 0x00, false},
		{"enter config", 0x43, 0x01, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(0x01, tt.cmd, 0x00, tt.enter)
			h.state.Mode.Config = !tt.want
			h.run()
			if h.state.Mode.Config != tt.want {
				t.Errorf("Expected config=%v, got %v", tt.want, h.state.Mode.Config)
			}
		})
	}
}

func TestQueryModelIgnoresMode(t *testing.T) {
	want := []byte{0x03, 0x02, 0x01, 0x02, 0x01, 0x00}
	modes := []ControllerMode{
		{Analog: true},
		{Analog: false},
		{Analog: true, Config: true},
		{Analog: false, Config: true},
	}

	for _, mode := range modes {
		h := newHarness(0x01, 0x45)
		h.state.Mode = mode
		if outcome := h.run(); outcome != OutcomeComplete {
			t.Fatalf("Expected outcome ok, got %s", outcome)
		}
		if !bytes.Equal(h.host.payload(), want) {
			t.Errorf("Mode %+v: expected payload % X, got % X", mode, want, h.host.payload())
		}
		if h.state.Mode != mode {
			t.Errorf("Mode changed by 0x45: %+v -> %+v", mode, h.state.Mode)
		}
	}
}

func TestFixedResponses(t *testing.T) {
	tests := []struct {
		cmd  byte
		want []byte
	}{
		{0x47, []byte{0x00, 0x00, 0x02, 0x00, 0x00, 0x00}},
		{0x4D, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}},
	}

	for _, tt := range tests {
		h := newHarness(0x01, tt.cmd)
		if outcome := h.run(); outcome != OutcomeComplete {
			t.Fatalf("0x%02X: expected outcome ok, got %s", tt.cmd, outcome)
		}
		if !bytes.Equal(h.host.payload(), tt.want) {
			t.Errorf("0x%02X: expected payload % X, got % X", tt.cmd, tt.want, h.host.payload())
		}
	}
}

func TestVibrationMapNotice(t *testing.T) {
	var lines []string
	SetDebugWriter(func(s string) { lines = append(lines, s) })
	defer SetDebugWriter(func(s string) {})

	h := newHarness(0x01, 0x4D)
	h.run()

	if len(lines) != 1 || lines[0] != "Map vibration motors" {
		t.Errorf("Expected vibration notice, got %q", lines)
	}
}

func TestSelectorCommands(t *testing.T) {
	tests := []struct {
		cmd     byte
		sel     byte
		outcome Outcome
		want    []byte
	}{
		{0x46, 0x00, OutcomeComplete, []byte{0x00, 0x00, 0x00, 0x02, 0x00, 0x00}},
		{0x46, 0x01, OutcomeComplete, []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x14}},
		{0x46, 0x02, OutcomeSelectorAbort, []byte{0x00}},
		{0x4C, 0x00, OutcomeComplete, []byte{0x00, 0x00, 0x00, 0x04, 0x00, 0x00}},
		{0x4C, 0x01, OutcomeComplete, []byte{0x00, 0x00, 0x00, 0x06, 0x00, 0x00}},
		{0x4C, 0x02, OutcomeSelectorAbort, []byte{0x00}},
		{0x4C, 0xFF, OutcomeSelectorAbort, []byte{0x00}},
	}

	for _, tt := range tests {
		h := newHarness(0x01, tt.cmd, 0x00, tt.sel)
		outcome := h.run()
		if outcome != tt.outcome {
			t.Errorf("0x%02X sel=%d: expected outcome %s, got %s", tt.cmd, tt.sel, tt.outcome, outcome)
		}
		// First payload byte is the pad's filler during the selector read
		if !bytes.Equal(h.host.payload(), tt.want) {
			t.Errorf("0x%02X sel=%d: expected payload % X, got % X", tt.cmd, tt.sel, tt.want, h.host.payload())
		}
	}
}

func TestBadSyncAbortsWithoutAck(t *testing.T) {
	for _, first := range []byte{0x00, 0x02, 0x42, 0x81, 0xFF} {
		h := newHarness(first, 0x42, 0x00, 0x00)

		if outcome := h.run(); outcome != OutcomeBadSync {
			t.Errorf("0x%02X: expected outcome badsync, got %s", first, outcome)
		}
		if len(h.host.sent) != 1 {
			t.Errorf("0x%02X: expected a single exchange, got %d", first, len(h.host.sent))
		}
		if h.log.String() != "X" {
			t.Errorf("0x%02X: expected no ACK, got event log %q", first, h.log.String())
		}
		if h.host.ended != 1 {
			t.Errorf("0x%02X: expected one teardown, got %d", first, h.host.ended)
		}
	}
}

func TestUnknownCommandAborts(t *testing.T) {
	known := DefaultResponseTable()
	for cmd := 0; cmd < 256; cmd++ {
		if known.Known(CommandID(cmd)) {
			continue
		}
		h := newHarness(0x01, byte(cmd), 0x00, 0x00)

		if outcome := h.run(); outcome != OutcomeUnknownCommand {
			t.Fatalf("0x%02X: expected outcome unknown, got %s", cmd, outcome)
		}
		if h.log.String() != "XAX" {
			t.Fatalf("0x%02X: expected sync ACK only, got event log %q", cmd, h.log.String())
		}
		if h.host.payload() != nil {
			t.Fatalf("0x%02X: expected no payload, got % X", cmd, h.host.payload())
		}
		if h.host.ended != 1 {
			t.Fatalf("0x%02X: expected one teardown, got %d", cmd, h.host.ended)
		}
	}
}

func TestSetModeIsHeaderOnly(t *testing.T) {
	h := newHarness(0x01, 0x44, 0x00, 0x01, 0x03)

	if outcome := h.run(); outcome != OutcomeComplete {
		t.Fatalf("Expected outcome ok, got %s", outcome)
	}
	if h.log.String() != "XAXAX" {
		t.Errorf("Expected two ACKs and no trailing ACK, got %q", h.log.String())
	}
	if h.state.Mode != (ControllerMode{Analog: true}) {
		t.Errorf("0x44 must not change mode, got %+v", h.state.Mode)
	}
}

func TestAckBeforeEveryPayloadByte(t *testing.T) {
	h := newHarness(0x01, 0x42, 0x00, 0x00)
	h.run()

	// sync, ACK, command, ACK, header, then ACK+byte six times; no trailing ACK
	want := "XAXAX" + "AXAXAXAXAXAX"
	if h.log.String() != want {
		t.Errorf("Expected event log %q, got %q", want, h.log.String())
	}

	frame := h.r.LastFrame()
	if frame.Acks != 8 {
		t.Errorf("Expected 8 ACKs in frame, got %d", frame.Acks)
	}
	if frame.Len != 9 {
		t.Errorf("Expected 9 bytes in frame, got %d", frame.Len)
	}
	if frame.Command != CmdPoll {
		t.Errorf("Expected frame command 0x42, got 0x%02X", byte(frame.Command))
	}
}

func TestAckPulsesInsideCriticalSection(t *testing.T) {
	h := newHarness(0x01, 0x45)
	h.run()

	if h.gpio.lowOutside != 0 {
		t.Errorf("Expected all ACK edges with interrupts masked, %d were not", h.gpio.lowOutside)
	}
	if inCriticalSection() {
		t.Error("Interrupts left masked after transaction")
	}
}

func TestTeardownReleasesAckLine(t *testing.T) {
	h := newHarness(0x01, 0x42)
	h.run()

	if h.gpio.outputs[testAckPin] {
		t.Error("ACK line still driven after teardown")
	}
	if h.host.begun != 1 || h.host.ended != 1 {
		t.Errorf("Expected one begin and one end, got %d/%d", h.host.begun, h.host.ended)
	}
}

func TestBusErrorMidPayload(t *testing.T) {
	h := newHarness(0x01, 0x42, 0x00, 0x00)
	h.host.failAt = 5

	if outcome := h.run(); outcome != OutcomeBusError {
		t.Fatalf("Expected outcome buserr, got %s", outcome)
	}
	if h.host.ended != 1 {
		t.Errorf("Expected one teardown, got %d", h.host.ended)
	}
	if h.gpio.outputs[testAckPin] {
		t.Error("ACK line still driven after bus error")
	}
}

func TestBeginFailureStillTearsDown(t *testing.T) {
	h := newHarness(0x01, 0x42)
	h.host.beginErr = ErrDeselected

	if outcome := h.run(); outcome != OutcomeBusError {
		t.Fatalf("Expected outcome buserr, got %s", outcome)
	}
	if len(h.host.sent) != 0 {
		t.Errorf("Expected no exchange, got %d", len(h.host.sent))
	}
	if h.host.ended != 1 {
		t.Errorf("Expected one teardown, got %d", h.host.ended)
	}
}

func TestFrameString(t *testing.T) {
	h := newHarness(0x01, 0x44)
	h.run()

	frame := h.r.LastFrame()
	want := "rx[01 44 00] tx[FF 73 5A] acks=2"
	if frame.String() != want {
		t.Errorf("Expected %q, got %q", want, frame.String())
	}
}

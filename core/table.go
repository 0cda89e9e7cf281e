package core

// CommandID is the second byte of a transaction, sent by the host
type CommandID uint8

// Commands the pad answers
const (
	CmdPoll         CommandID = 0x42 // Read buttons (and sticks in analog mode)
	CmdConfig       CommandID = 0x43 // Read buttons, enter/exit config mode
	CmdSetMode      CommandID = 0x44 // Set analog/digital, header only here
	CmdQueryModel   CommandID = 0x45 // Controller model and mode
	CmdQueryAct     CommandID = 0x46 // Actuator table, two pages
	CmdQueryComb    CommandID = 0x47 // Combination table
	CmdQueryMode    CommandID = 0x4C // Mode table, two pages
	CmdVibrationMap CommandID = 0x4D // Map vibration motors
)

// Transaction framing bytes
const (
	SyncByte    byte = 0x01 // First host byte of every transaction
	HeaderByte  byte = 0x5A // Pad's third byte, after the mode byte
	IdleTxByte  byte = 0xFF // Pad's first byte
	EnterConfig byte = 0x01 // Enter parameter value that turns config mode on
)

// Mode bytes sent while the host transmits the command id
const (
	ModeByteDigital byte = 0x41
	ModeByteAnalog  byte = 0x73
	ModeByteConfig  byte = 0xF3
)

// RuleKind selects how a command's payload is produced
type RuleKind uint8

const (
	// RuleHeaderOnly sends nothing after the header
	RuleHeaderOnly RuleKind = iota
	// RuleSnapshot sends the snapshot and reads the enter parameter alongside the first byte
	RuleSnapshot
	// RuleFixed sends a constant sequence
	RuleFixed
	// RuleSelector reads a selector byte and sends the matching branch
	RuleSelector
)

// Rule describes the payload of one command
type Rule struct {
	Kind     RuleKind
	Payload  []byte   // RuleFixed
	Branches [][]byte // RuleSelector, indexed by selector value
	Notice   string   // Diagnostic line emitted once the payload is out
}

// Command is one entry of the response table
type Command struct {
	ID   CommandID
	Name string
	Rule Rule
}

// ResponseTable maps command ids to their payload rules. It is filled once
// at boot and only read afterwards.
type ResponseTable struct {
	commands map[CommandID]*Command
	order    []CommandID
}

// NewResponseTable creates an empty table
func NewResponseTable() *ResponseTable {
	return &ResponseTable{
		commands: make(map[CommandID]*Command),
	}
}

// Register adds a command, replacing any earlier rule for the same id
func (t *ResponseTable) Register(id CommandID, name string, rule Rule) *Command {
	cmd := &Command{ID: id, Name: name, Rule: rule}
	if _, exists := t.commands[id]; !exists {
		t.order = append(t.order, id)
	}
	t.commands[id] = cmd
	return cmd
}

// Lookup returns the command registered for id
func (t *ResponseTable) Lookup(id CommandID) (*Command, bool) {
	cmd, ok := t.commands[id]
	return cmd, ok
}

// Known reports whether id passes the command check
func (t *ResponseTable) Known(id CommandID) bool {
	_, ok := t.commands[id]
	return ok
}

// Count returns the number of registered commands
func (t *ResponseTable) Count() int {
	return len(t.commands)
}

// Commands returns the registered commands in registration order
func (t *ResponseTable) Commands() []*Command {
	cmds := make([]*Command, 0, len(t.order))
	for _, id := range t.order {
		cmds = append(cmds, t.commands[id])
	}
	return cmds
}

// DefaultResponseTable returns the command set of the emulated pad
func DefaultResponseTable() *ResponseTable {
	t := NewResponseTable()

	t.Register(CmdPoll, "poll", Rule{Kind: RuleSnapshot})
	t.Register(CmdConfig, "config", Rule{Kind: RuleSnapshot})
	t.Register(CmdSetMode, "set_mode", Rule{Kind: RuleHeaderOnly})
	t.Register(CmdQueryModel, "query_model", Rule{
		Kind:    RuleFixed,
		Payload: []byte{0x03, 0x02, 0x01, 0x02, 0x01, 0x00},
	})
	t.Register(CmdQueryAct, "query_act", Rule{
		Kind: RuleSelector,
		Branches: [][]byte{
			{0x00, 0x00, 0x02, 0x00, 0x00},
			{0x00, 0x00, 0x00, 0x00, 0x14},
		},
	})
	t.Register(CmdQueryComb, "query_comb", Rule{
		Kind:    RuleFixed,
		Payload: []byte{0x00, 0x00, 0x02, 0x00, 0x00, 0x00},
	})
	t.Register(CmdQueryMode, "query_mode", Rule{
		Kind: RuleSelector,
		Branches: [][]byte{
			{0x00, 0x00, 0x04, 0x00, 0x00},
			{0x00, 0x00, 0x06, 0x00, 0x00},
		},
	})
	t.Register(CmdVibrationMap, "vibration_map", Rule{
		Kind:    RuleFixed,
		Payload: []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
		Notice:  "Map vibration motors",
	})

	return t
}

//go:build !tinygo

package core

// State records whether interrupts were masked before disableInterrupts.
type State uintptr

// interruptsMasked mirrors the hardware mask on regular Go so tests can see
// whether pin writes happened inside a critical section.
var interruptsMasked bool

// disableInterrupts marks interrupts as masked and returns the previous state
func disableInterrupts() State {
	if interruptsMasked {
		return 1
	}
	interruptsMasked = true
	return 0
}

// restoreInterrupts puts the mask back to what disableInterrupts saw
func restoreInterrupts(state State) {
	interruptsMasked = state != 0
}

// inCriticalSection reports whether interrupts are currently masked
func inCriticalSection() bool {
	return interruptsMasked
}

package core

// DebugWriter is a function type for writing diagnostic lines
type DebugWriter func(string)

// TraceEvent captures the outcome of one bus transaction for post-mortem analysis
type TraceEvent struct {
	Command CommandID // Command byte received, 0 if the frame never got that far
	Outcome Outcome   // How the transaction ended
	Clock   uint32    // System clock when the transaction ended
	Bytes   uint8     // Bytes exchanged including the header
	Acks    uint8     // ACK pulses emitted
}

const (
	TraceRingSize = 32 // Keep last 32 transactions for post-mortem
)

var (
	// debugPrintln is the global diagnostic sink (set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled gates DebugPrintln and DebugAsync
	debugEnabled bool = true

	// Transaction ring buffer (non-blocking, for post-mortem)
	traceRing     [TraceRingSize]TraceEvent
	traceRingHead uint8
	traceEnabled  bool = true

	// Async debug output channel
	debugChan chan string
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables diagnostic output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// InitAsyncDebug starts the async debug output goroutine
// Call this from main() after SetDebugWriter
func InitAsyncDebug() {
	debugChan = make(chan string, 16) // Buffer 16 messages
	go debugOutputWorker()
}

// debugOutputWorker runs in background, drains debug channel
func debugOutputWorker() {
	for msg := range debugChan {
		if debugPrintln != nil {
			debugPrintln(msg)
		}
	}
}

// DebugPrintln writes a line using the platform-specific writer.
// Blocks until the writer returns; use DebugAsync from protocol paths.
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugAsync queues a line for async output (non-blocking).
// Falls back to a direct write when no worker was started, and drops the
// line when the queue is full.
func DebugAsync(msg string) {
	if !debugEnabled {
		return
	}
	if debugChan == nil {
		DebugPrintln(msg)
		return
	}
	select {
	case debugChan <- msg:
	default:
	}
}

// RecordTrace stores a transaction outcome in the ring buffer
func RecordTrace(ev TraceEvent) {
	if !traceEnabled {
		return
	}
	idx := traceRingHead
	traceRing[idx] = ev
	traceRingHead = (idx + 1) % TraceRingSize
}

// TraceSnapshot returns the recorded events, oldest first
func TraceSnapshot() []TraceEvent {
	events := make([]TraceEvent, 0, TraceRingSize)
	start := traceRingHead
	for i := uint8(0); i < TraceRingSize; i++ {
		ev := traceRing[(start+i)%TraceRingSize]
		if ev.Outcome == OutcomeNone {
			continue // Empty slot
		}
		events = append(events, ev)
	}
	return events
}

// FormatTrace renders one trace event as a diagnostic line
func FormatTrace(ev TraceEvent) string {
	return "TRACE cmd=" + hex8(byte(ev.Command)) +
		" outcome=" + ev.Outcome.String() +
		" bytes=" + utoa(uint32(ev.Bytes)) +
		" acks=" + utoa(uint32(ev.Acks)) +
		" clock=" + utoa(ev.Clock)
}

// DumpTrace outputs the ring buffer (call after a run of failed transactions)
func DumpTrace() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("TRACE begin")
	for _, ev := range TraceSnapshot() {
		debugPrintln(FormatTrace(ev))
	}
	debugPrintln("TRACE end")
}

// ClearTrace clears the trace buffer
func ClearTrace() {
	for i := range traceRing {
		traceRing[i] = TraceEvent{}
	}
	traceRingHead = 0
}

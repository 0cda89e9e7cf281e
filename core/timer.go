package core

import "time"

// TimerFreq is the system tick rate. RP2040 exposes a free-running 1MHz counter.
const TimerFreq = 1000000

// GetTime returns the current system time in timer ticks
func GetTime() uint32 {
	return getSystemTicks()
}

// SetTime sets the current system time (for testing/hardware integration)
func SetTime(ticks uint32) {
	setSystemTicks(ticks)
}

// TimerFromUS converts microseconds to timer ticks
func TimerFromUS(us uint32) uint32 {
	return uint32(uint64(us) * TimerFreq / 1000000)
}

// TimerFromDuration converts a duration to timer ticks, rounding down
func TimerFromDuration(d time.Duration) uint32 {
	return TimerFromUS(uint32(d / time.Microsecond))
}

// timerBefore reports whether tick a comes before tick b, tolerating wraparound
// of the 32-bit counter.
func timerBefore(a, b uint32) bool {
	return int32(a-b) < 0
}

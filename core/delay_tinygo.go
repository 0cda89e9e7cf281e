//go:build tinygo

package core

import (
	"time"

	"tinygo.org/x/drivers/delay"
)

// busyWait spins for d without yielding to the scheduler. Used for the
// microsecond waits around the ACK pulse where time.Sleep is far too coarse.
func busyWait(d time.Duration) {
	delay.Sleep(d)
}

//go:build !tinygo

package core

import "time"

// busyWait spins on the monotonic clock for d
func busyWait(d time.Duration) {
	start := time.Now()
	for time.Since(start) < d {
	}
}

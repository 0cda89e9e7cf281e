package monitor

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"psxpad/core"
)

func TestMonitorFollowsStream(t *testing.T) {
	stream := strings.Join([]string{
		"STARTED",
		"",
		"Map vibration motors",
		"MODE analog=0",
		"STATS cycles=10 ok=9 badsync=0 unknown=1 selector=0 buserr=0 pollerr=0 acks=80 pinerr=0",
		"TRACE begin",
		"TRACE cmd=0x42 outcome=buserr bytes=3 acks=2 clock=1000",
		"TRACE cmd=0x00 outcome=badsync bytes=1 acks=0 clock=15000",
		"TRACE end",
		"noise",
	}, "\r\n")

	m := New(strings.NewReader(stream))
	var kinds []Kind
	require.NoError(t, m.Run(func(ev Event) error {
		kinds = append(kinds, ev.Kind)
		return nil
	}))

	assert.Equal(t, []Kind{Started, VibrationMap, ModeChanged, Stats, TraceBegin, Trace, Trace, TraceEnd, Unknown}, kinds)
	assert.Equal(t, 1, m.Boots)
	assert.False(t, m.Analog)
	assert.Equal(t, 1, m.VibrationMaps)
	require.NotNil(t, m.LastStats)
	assert.Equal(t, uint32(10), m.LastStats.Cycles)
	require.Len(t, m.LastTrace, 2)
	assert.Equal(t, core.OutcomeBadSync, m.LastTrace[1].Outcome)
	assert.Equal(t, 1, m.Unknown)
}

func TestMonitorResetsOnReboot(t *testing.T) {
	m := New(strings.NewReader("MODE analog=0\nSTATS cycles=1 ok=1 badsync=0 unknown=0 selector=0 buserr=0 pollerr=0 acks=8 pinerr=0\nSTARTED\n"))
	require.NoError(t, m.Run(nil))

	assert.True(t, m.Analog)
	assert.Nil(t, m.LastStats)
	assert.Equal(t, 1, m.Boots)
}

func TestTraceLinesOutsideDumpIgnored(t *testing.T) {
	m := New(strings.NewReader("TRACE cmd=0x42 outcome=ok bytes=9 acks=8 clock=1\n"))
	require.NoError(t, m.Run(nil))
	assert.Empty(t, m.LastTrace)
}

func TestRunStopsOnHandlerError(t *testing.T) {
	stop := errors.New("stop")
	m := New(strings.NewReader("STARTED\nSTARTED\nSTARTED\n"))
	err := m.Run(func(ev Event) error {
		if m.Boots == 2 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, m.Boots)
}

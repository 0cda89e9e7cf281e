//go:build rp2040

package main

import (
	"machine"
	"time"

	"psxpad/core"
	"psxpad/targets/pio"
)

// Board wiring. The console bus pins must be consecutive so the PIO state
// machine can follow CLK by absolute GPIO number.
const (
	pinCLK = machine.GPIO2
	pinCMD = machine.GPIO3
	pinDAT = machine.GPIO4
	pinATT = machine.GPIO5
	pinACK = machine.GPIO6

	pinSDA = machine.GPIO16
	pinSCL = machine.GPIO17

	pinDebugTX = machine.GPIO8
	pinDebugRX = machine.GPIO9

	pinIndicator = machine.LED
)

var (
	// Panics caught by the main loop
	loopErrors uint32
)

func main() {
	// Disable watchdog on boot to clear any previous state
	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0}); err != nil {
		return
	}

	if err := InitDebugUART(pinDebugTX, pinDebugRX); err == nil {
		core.SetDebugWriter(uartPrintln)
	}
	core.InitAsyncDebug()

	UpdateSystemTime()

	bus, err := pio.NewSPIResponder(pio.ResponderPins{
		CLK: pinCLK,
		CMD: pinCMD,
		DAT: pinDAT,
		ATT: pinATT,
	})
	if err != nil {
		halt("pio: " + err.Error())
	}

	poll, err := newPollingBus(PollingBusConfig{
		Frequency: 400 * machine.KHz,
		SDA:       pinSDA,
		SCL:       pinSCL,
	})
	if err != nil {
		halt("i2c: " + err.Error())
	}

	config := core.DefaultConfig()
	config.StatsInterval = 4096 // About once a minute at the console's poll rate
	config.TraceOnErrors = 16

	pad, err := core.NewPad(config, core.Hardware{
		GPIO:      NewRPGPIODriver(),
		Bus:       bus,
		Poll:      poll,
		AckPin:    core.GPIOPin(pinACK),
		Indicator: core.GPIOPin(pinIndicator),
		Clock:     GetHardwareTime,
	})
	if err != nil {
		halt("pad: " + err.Error())
	}
	if err := pad.Start(core.GetTime()); err != nil {
		halt("start: " + err.Error())
	}

	for {
		// Recover from panics in the main loop to prevent a firmware crash
		func() {
			defer func() {
				if r := recover(); r != nil {
					loopErrors++
				}
			}()

			UpdateSystemTime()
			pad.Service(core.GetTime())
		}()

		// Yield so the debug worker can drain
		time.Sleep(10 * time.Microsecond)
	}
}

// halt reports a fatal setup error and parks the core
func halt(msg string) {
	core.DebugPrintln("FATAL " + msg)
	for {
		time.Sleep(time.Second)
	}
}

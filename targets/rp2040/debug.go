//go:build rp2040

package main

import (
	"machine"
)

var debugUART *machine.UART

// InitDebugUART brings up the diagnostic UART at 115200 baud
func InitDebugUART(tx, rx machine.Pin) error {
	debugUART = machine.UART1

	return debugUART.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       tx,
		RX:       rx,
	})
}

// uartPrintln writes one diagnostic line to the UART
func uartPrintln(s string) {
	if debugUART == nil {
		return
	}
	debugUART.Write([]byte(s))
	debugUART.Write([]byte("\r\n"))
}

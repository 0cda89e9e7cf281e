package serial

import (
	"io"
)

// Port represents a serial port interface
// Native ports use github.com/tarm/serial; tests substitute an in-memory pipe.
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string `yaml:"device"`

	// Baud rate of the pad's diagnostic UART
	Baud int `yaml:"baud"`

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int `yaml:"read_timeout"`
}

// DefaultBaud matches the firmware's diagnostic UART
const DefaultBaud = 115200

// DefaultConfig returns the configuration for a pad diagnostic port
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        DefaultBaud,
		ReadTimeout: 0, // Block; the pad only talks when something happens
	}
}

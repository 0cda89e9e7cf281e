package core

// I2CAddress is a 7-bit I2C device address.
type I2CAddress uint8

// PartialReader is implemented by polling buses that can report a short
// read instead of failing the whole transfer. ReadUpTo fills buf from the
// start and returns how many bytes the device actually sent.
type PartialReader interface {
	ReadUpTo(addr uint16, buf []byte) (int, error)
}

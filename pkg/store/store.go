// Package store provides byte-addressable non-volatile storage backends.
package store

import (
	"errors"
	"fmt"
)

// Device reads and writes single bytes at an address. Both calls block
// until the access completes.
type Device interface {
	WriteByte(addr uint16, b byte) error
	ReadByte(addr uint16) (byte, error)
}

// Erased is the value of a never-written cell.
const Erased byte = 0xff

var (
	// ErrClosed indicates the device has been closed.
	ErrClosed = errors.New("store closed")
)

// AddressError indicates the address is outside the device.
type AddressError struct {
	Addr uint16
	Size int
}

// Error implements error.
func (e *AddressError) Error() string {
	return fmt.Sprintf("address 0x%04x out of range (size %d)", e.Addr, e.Size)
}

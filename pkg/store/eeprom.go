package store

import (
	"periph.io/x/conn/v3/i2c"
)

// EEPROM drives a 24C16-class I2C EEPROM: 2KiB in eight 256-byte blocks,
// the block number carried in the low bits of the device address and the
// cell offset in the single word-address byte.
type EEPROM struct {
	Bus  i2c.Bus
	Addr uint16
}

// EEPROM geometry.
const (
	DefaultEEPROMAddr uint16 = 0x50
	EEPROMSize               = 2048
)

// NewEEPROM creates an EEPROM on bus at the default device address.
func NewEEPROM(bus i2c.Bus) *EEPROM {
	return &EEPROM{Bus: bus, Addr: DefaultEEPROMAddr}
}

func (e *EEPROM) device(addr uint16) (uint16, error) {
	if int(addr) >= EEPROMSize {
		return 0, &AddressError{Addr: addr, Size: EEPROMSize}
	}
	return e.Addr | (addr>>8)&0x07, nil
}

// WriteByte implements Device. The write cycle runs in the chip after the
// transfer returns; callers must wait before the next access.
func (e *EEPROM) WriteByte(addr uint16, b byte) error {
	dev, err := e.device(addr)
	if err != nil {
		return err
	}
	return e.Bus.Tx(dev, []byte{byte(addr), b}, nil)
}

// ReadByte implements Device.
func (e *EEPROM) ReadByte(addr uint16) (byte, error) {
	dev, err := e.device(addr)
	if err != nil {
		return 0, err
	}
	var r [1]byte
	if err := e.Bus.Tx(dev, []byte{byte(addr)}, r[:]); err != nil {
		return 0, err
	}
	return r[0], nil
}

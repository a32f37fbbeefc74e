package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/i2c/i2ctest"
)

func TestMemory(t *testing.T) {
	m := NewMemory(16)
	b, err := m.ReadByte(3)
	require.NoError(t, err)
	require.Equal(t, Erased, b)

	require.NoError(t, m.WriteByte(3, 0x42))
	b, err = m.ReadByte(3)
	require.NoError(t, err)
	require.Equal(t, byte(0x42), b)

	var addrErr *AddressError
	require.True(t, errors.As(m.WriteByte(16, 1), &addrErr))
	_, err = m.ReadByte(100)
	require.True(t, errors.As(err, &addrErr))
}

func TestFilePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eeprom.bin")
	f, err := OpenFile(path, 1024)
	require.NoError(t, err)
	b, err := f.ReadByte(0x311)
	require.NoError(t, err)
	require.Equal(t, Erased, b)
	for i, v := range []byte{3, 3, 3, 3, 3} {
		require.NoError(t, f.WriteByte(0x311+uint16(i), v))
	}
	require.NoError(t, f.Close())
	require.Equal(t, ErrClosed, f.WriteByte(0, 0))

	f, err = OpenFile(path, 1024)
	require.NoError(t, err)
	defer f.Close()
	for i := 0; i < 5; i++ {
		b, err := f.ReadByte(0x311 + uint16(i))
		require.NoError(t, err)
		require.Equal(t, byte(3), b)
	}
	var addrErr *AddressError
	require.True(t, errors.As(f.WriteByte(1024, 0), &addrErr))
}

func TestEEPROM(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x53, W: []byte{0x11, 7}},
			{Addr: 0x53, W: []byte{0x11}, R: []byte{7}},
			{Addr: 0x50, W: []byte{0x00}, R: []byte{0xff}},
		},
	}
	e := NewEEPROM(bus)
	require.NoError(t, e.WriteByte(0x0311, 7))
	b, err := e.ReadByte(0x0311)
	require.NoError(t, err)
	require.Equal(t, byte(7), b)
	b, err = e.ReadByte(0)
	require.NoError(t, err)
	require.Equal(t, byte(0xff), b)

	var addrErr *AddressError
	require.True(t, errors.As(e.WriteByte(EEPROMSize, 0), &addrErr))
	require.NoError(t, bus.Close())
}

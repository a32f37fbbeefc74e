package store

import "sync"

// Memory is a volatile Device, erased on creation.
type Memory struct {
	cells []byte
	lock  sync.RWMutex
}

// NewMemory creates a Memory of size bytes.
func NewMemory(size int) *Memory {
	m := &Memory{cells: make([]byte, size)}
	for i := range m.cells {
		m.cells[i] = Erased
	}
	return m
}

// WriteByte implements Device.
func (m *Memory) WriteByte(addr uint16, b byte) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if int(addr) >= len(m.cells) {
		return &AddressError{Addr: addr, Size: len(m.cells)}
	}
	m.cells[addr] = b
	return nil
}

// ReadByte implements Device.
func (m *Memory) ReadByte(addr uint16) (byte, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if int(addr) >= len(m.cells) {
		return 0, &AddressError{Addr: addr, Size: len(m.cells)}
	}
	return m.cells[addr], nil
}

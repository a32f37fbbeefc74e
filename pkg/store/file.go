package store

import (
	"bytes"
	"os"
	"sync"
)

// File is a Device backed by an image file, so the content survives
// restarts. Each write is synced before returning.
type File struct {
	f    *os.File
	size int
	lock sync.Mutex
}

// OpenFile opens the image at path, creating an erased image of size
// bytes when it doesn't exist yet.
func OpenFile(path string, size int) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if cur := int(info.Size()); cur < size {
		if _, err = f.WriteAt(bytes.Repeat([]byte{Erased}, size-cur), int64(cur)); err == nil {
			err = f.Sync()
		}
		if err != nil {
			f.Close()
			return nil, err
		}
	}
	return &File{f: f, size: size}, nil
}

// WriteByte implements Device.
func (s *File) WriteByte(addr uint16, b byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.f == nil {
		return ErrClosed
	}
	if int(addr) >= s.size {
		return &AddressError{Addr: addr, Size: s.size}
	}
	if _, err := s.f.WriteAt([]byte{b}, int64(addr)); err != nil {
		return err
	}
	return s.f.Sync()
}

// ReadByte implements Device.
func (s *File) ReadByte(addr uint16) (byte, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.f == nil {
		return 0, ErrClosed
	}
	if int(addr) >= s.size {
		return 0, &AddressError{Addr: addr, Size: s.size}
	}
	var buf [1]byte
	if _, err := s.f.ReadAt(buf[:], int64(addr)); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// Close implements io.Closer.
func (s *File) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

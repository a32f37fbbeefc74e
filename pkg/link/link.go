package link

import (
	"io"
)

// Link exchanges single bytes with the peer. Both operations block.
type Link interface {
	SendByte(byte) error
	ReceiveByte() (byte, error)
}

// Stream implements Link over an io.ReadWriter.
type Stream struct {
	ReadWriter io.ReadWriter

	buf [1]byte
}

// NewStream wraps an io.ReadWriter.
func NewStream(rw io.ReadWriter) *Stream {
	return &Stream{ReadWriter: rw}
}

// SendByte implements Link.
func (s *Stream) SendByte(b byte) error {
	_, err := s.ReadWriter.Write([]byte{b})
	return err
}

// ReceiveByte implements Link.
func (s *Stream) ReceiveByte() (byte, error) {
	for {
		n, err := s.ReadWriter.Read(s.buf[:])
		if n > 0 {
			return s.buf[0], nil
		}
		if err != nil {
			return 0, err
		}
	}
}

// Close implements io.Closer.
func (s *Stream) Close() error {
	if closer, ok := s.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

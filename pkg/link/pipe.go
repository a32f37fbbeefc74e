package link

import (
	"io"
	"sync"
)

// PipeEnd is one end of an in-memory link created by Pipe.
type PipeEnd struct {
	recvCh <-chan byte
	sendCh chan<- byte
	closed chan struct{}
	once   *sync.Once
}

// DefaultPipeBuffer is the number of bytes buffered in each direction.
const DefaultPipeBuffer = 64

// Pipe creates two connected links. Bytes sent on one end are received on
// the other, in order.
func Pipe() (*PipeEnd, *PipeEnd) {
	ab, ba := make(chan byte, DefaultPipeBuffer), make(chan byte, DefaultPipeBuffer)
	closed := make(chan struct{})
	once := &sync.Once{}
	a := &PipeEnd{recvCh: ba, sendCh: ab, closed: closed, once: once}
	b := &PipeEnd{recvCh: ab, sendCh: ba, closed: closed, once: once}
	return a, b
}

// SendByte implements Link.
func (p *PipeEnd) SendByte(b byte) error {
	select {
	case <-p.closed:
		return io.ErrClosedPipe
	default:
	}
	select {
	case p.sendCh <- b:
		return nil
	case <-p.closed:
		return io.ErrClosedPipe
	}
}

// ReceiveByte implements Link. Bytes sent before Close are still
// delivered.
func (p *PipeEnd) ReceiveByte() (byte, error) {
	select {
	case b := <-p.recvCh:
		return b, nil
	default:
	}
	select {
	case b := <-p.recvCh:
		return b, nil
	case <-p.closed:
		return 0, io.EOF
	}
}

// Close closes both ends of the pipe.
func (p *PipeEnd) Close() error {
	p.once.Do(func() { close(p.closed) })
	return nil
}

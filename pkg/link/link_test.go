package link

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPipe(t *testing.T) {
	a, b := Pipe()
	for _, v := range []byte{'$', '&', 0, 0xff} {
		require.NoError(t, a.SendByte(v))
	}
	for _, v := range []byte{'$', '&', 0, 0xff} {
		got, err := b.ReceiveByte()
		require.NoError(t, err)
		require.Equal(t, v, got)
	}

	require.NoError(t, b.SendByte('@'))
	got, err := a.ReceiveByte()
	require.NoError(t, err)
	require.Equal(t, byte('@'), got)
}

func TestPipeClose(t *testing.T) {
	a, b := Pipe()
	errCh := make(chan error, 1)
	go func() {
		_, err := b.ReceiveByte()
		errCh <- err
	}()
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, a.Close())
	select {
	case err := <-errCh:
		require.Equal(t, io.EOF, err)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("receive not unblocked by close")
	}
	require.Equal(t, io.ErrClosedPipe, b.SendByte(1))
	require.NoError(t, b.Close())
}

func TestPipeDrainAfterClose(t *testing.T) {
	a, b := Pipe()
	require.NoError(t, a.SendByte('@'))
	require.NoError(t, a.Close())
	got, err := b.ReceiveByte()
	require.NoError(t, err)
	require.Equal(t, byte('@'), got)
	_, err = b.ReceiveByte()
	require.Equal(t, io.EOF, err)
}

type chunkReader struct {
	chunks [][]byte
	out    bytes.Buffer
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}
	c := r.chunks[0]
	r.chunks = r.chunks[1:]
	return copy(p, c), nil
}

func (r *chunkReader) Write(p []byte) (int, error) {
	return r.out.Write(p)
}

func TestStream(t *testing.T) {
	rw := &chunkReader{chunks: [][]byte{{}, {'^'}, {}, {'?'}}}
	s := NewStream(rw)
	b, err := s.ReceiveByte()
	require.NoError(t, err)
	require.Equal(t, byte('^'), b)
	b, err = s.ReceiveByte()
	require.NoError(t, err)
	require.Equal(t, byte('?'), b)
	_, err = s.ReceiveByte()
	require.Equal(t, io.EOF, err)

	require.NoError(t, s.SendByte('$'))
	require.NoError(t, s.SendByte('@'))
	require.Equal(t, []byte("$@"), rw.out.Bytes())
	require.NoError(t, s.Close())
}

func TestOpenUnknownScheme(t *testing.T) {
	_, err := Open(context.Background(), "carrier-pigeon://coop")
	require.Error(t, err)
	var openErr *OpenError
	require.True(t, errors.As(err, &openErr))
	require.Equal(t, ErrUnknownScheme, openErr.Err)
}

func TestOpenInvalidBaud(t *testing.T) {
	_, err := Open(context.Background(), "serial:///dev/ttyS0?baud=fast")
	require.Error(t, err)
}

func TestWebsocket(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	srvCh := make(chan *Stream, 1)
	go func() {
		s, err := Open(ctx, "ws+listen://127.0.0.1:18931/link")
		if err == nil {
			srvCh <- s
		}
		close(srvCh)
	}()

	var client *Stream
	var err error
	for i := 0; i < 50; i++ {
		if client, err = Open(ctx, "ws://127.0.0.1:18931/link"); err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	require.NoError(t, err)
	defer client.Close()
	server, ok := <-srvCh
	require.True(t, ok)
	defer server.Close()

	require.NoError(t, client.SendByte('$'))
	b, err := server.ReceiveByte()
	require.NoError(t, err)
	require.Equal(t, byte('$'), b)

	require.NoError(t, server.SendByte('&'))
	b, err = client.ReceiveByte()
	require.NoError(t, err)
	require.Equal(t, byte('&'), b)
}

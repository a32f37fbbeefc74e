package link

import (
	"context"
	"net"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"
)

type wsConn struct {
	*websocket.Conn
	done chan struct{}
	once sync.Once
}

func newWsConn(conn *websocket.Conn) *wsConn {
	conn.PayloadType = websocket.BinaryFrame
	return &wsConn{Conn: conn, done: make(chan struct{})}
}

// Close implements io.Closer.
func (c *wsConn) Close() error {
	err := c.Conn.Close()
	c.once.Do(func() { close(c.done) })
	return err
}

// DialWebsocket connects to a websocket link served by ListenWebsocket.
func DialWebsocket(url string) (*Stream, error) {
	conn, err := websocket.Dial(url, "", "http://localhost/")
	if err != nil {
		return nil, &OpenError{URL: url, Err: err}
	}
	return NewStream(newWsConn(conn)), nil
}

// ListenWebsocket serves a websocket endpoint at addr/path and returns the
// first connection as a Stream. Further connections are refused while the
// first one is open. The server stops when the stream is closed.
func ListenWebsocket(ctx context.Context, addr, path string) (*Stream, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, &OpenError{URL: "ws+listen://" + addr + path, Err: err}
	}
	glog.Infof("waiting for remote unit on ws://%s%s", ln.Addr(), path)

	connCh := make(chan *wsConn)
	var mu sync.Mutex
	var taken bool
	mux := http.NewServeMux()
	mux.Handle(path, websocket.Handler(func(conn *websocket.Conn) {
		mu.Lock()
		first := !taken
		taken = true
		mu.Unlock()
		if !first {
			glog.Warningf("refused extra remote unit from %s", conn.Request().RemoteAddr)
			return
		}
		c := newWsConn(conn)
		connCh <- c
		<-c.done
	}))
	server := &http.Server{Handler: mux}
	go server.Serve(ln)

	select {
	case c := <-connCh:
		glog.Infof("remote unit connected from %s", c.Request().RemoteAddr)
		go func() {
			<-c.done
			server.Close()
		}()
		return NewStream(c), nil
	case <-ctx.Done():
		server.Close()
		return nil, ctx.Err()
	}
}

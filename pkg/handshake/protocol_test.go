package handshake

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/doorlock/pkg/link"
	"github.com/robotalks/doorlock/pkg/password"
)

type chanLink struct {
	readCh  chan byte
	writeCh chan byte
}

func (c *chanLink) SendByte(b byte) error {
	c.writeCh <- b
	return nil
}

func (c *chanLink) ReceiveByte() (byte, error) {
	b, ok := <-c.readCh
	if !ok {
		return 0, io.EOF
	}
	return b, nil
}

type protocolTestEnv struct {
	t     *testing.T
	link  *chanLink
	proto *Protocol
}

func newProtocolTestEnv(t *testing.T) *protocolTestEnv {
	env := &protocolTestEnv{
		t:    t,
		link: &chanLink{readCh: make(chan byte, 1), writeCh: make(chan byte, 1)},
	}
	env.proto = &Protocol{Link: env.link}
	return env
}

func (e *protocolTestEnv) wrapFn(name string, fn func(string)) {
	e.t.Logf("START %s", name)
	fn(name)
	e.t.Logf("STOP %s", name)
}

func (e *protocolTestEnv) run(fns ...func(string)) {
	for n, fn := range fns {
		e.wrapFn(fmt.Sprintf("step-%d", n), fn)
	}
}

func (e *protocolTestEnv) parallel(fns ...func(string)) func(string) {
	return func(name string) {
		var wg sync.WaitGroup
		for n, fn := range fns {
			wg.Add(1)
			go func(name string, fn func(string)) {
				defer wg.Done()
				e.wrapFn(name, fn)
			}(name+fmt.Sprintf(".%d", n), fn)
		}
		wg.Wait()
	}
}

func (e *protocolTestEnv) expect(bs ...byte) func(string) {
	return func(name string) {
		for i, b := range bs {
			select {
			case got := <-e.link.writeCh:
				require.Equalf(e.t, b, got, "%s.byte[%d] mismatch", name, i)
			case <-time.After(500 * time.Millisecond):
				e.t.Errorf("%s.byte[%d] timeout", name, i)
				return
			}
		}
	}
}

func (e *protocolTestEnv) inject(bs ...byte) func(string) {
	return func(name string) {
		for _, b := range bs {
			e.link.readCh <- b
		}
	}
}

func (e *protocolTestEnv) sendCommand(cmd Command) func(string) {
	return func(name string) {
		require.NoErrorf(e.t, e.proto.SendCommand(cmd), "%s send", name)
	}
}

func (e *protocolTestEnv) receiveCommand(expected Command) func(string) {
	return func(name string) {
		cmd, err := e.proto.ReceiveCommand()
		require.NoErrorf(e.t, err, "%s receive", name)
		require.Equalf(e.t, expected, cmd, "%s command mismatch", name)
	}
}

func (e *protocolTestEnv) expectCommand(cmd Command) func(string) {
	return func(name string) {
		require.NoErrorf(e.t, e.proto.Expect(cmd), "%s expect", name)
	}
}

func (e *protocolTestEnv) receivePassword(expected password.Password) func(string) {
	return func(name string) {
		pw, err := e.proto.ReceivePassword()
		require.NoErrorf(e.t, err, "%s receive password", name)
		require.Equalf(e.t, expected, pw, "%s password mismatch", name)
	}
}

func TestProtocol(t *testing.T) {
	testCases := []struct {
		name  string
		logic func(*protocolTestEnv)
	}{
		{
			"send command",
			func(env *protocolTestEnv) {
				env.run(env.parallel(
					env.sendCommand(OpeningDoor),
					func(name string) {
						env.expect('$')(name)
						env.inject('&')(name)
						env.expect(')')(name)
						env.inject('@')(name)
					},
				))
			},
		},
		{
			"send command drops noise",
			func(env *protocolTestEnv) {
				env.run(env.parallel(
					env.sendCommand(Matched),
					func(name string) {
						env.expect('$')(name)
						env.inject('x', '@', '&')(name)
						env.expect(1)(name)
						env.inject('&', '$', '@')(name)
					},
				))
			},
		},
		{
			"receive command",
			func(env *protocolTestEnv) {
				env.run(env.parallel(
					env.receiveCommand(SendCheckPassword),
					func(name string) {
						env.inject('$')(name)
						env.expect('&')(name)
						env.inject(',')(name)
						env.expect('@')(name)
					},
				))
			},
		},
		{
			"receive command waits for ready to send",
			func(env *protocolTestEnv) {
				env.run(env.parallel(
					env.receiveCommand(OpenDoor),
					func(name string) {
						env.inject('+', 0, '&', '$')(name)
						env.expect('&')(name)
						env.inject('+')(name)
						env.expect('@')(name)
					},
				))
			},
		},
		{
			"expect drops other commands",
			func(env *protocolTestEnv) {
				env.run(env.parallel(
					env.expectCommand(SendFirstPassword),
					func(name string) {
						env.inject('$')(name)
						env.expect('&')(name)
						env.inject(',')(name)
						env.expect('@')(name)
						env.inject('$')(name)
						env.expect('&')(name)
						env.inject('^')(name)
						env.expect('@')(name)
					},
				))
			},
		},
		{
			"receive password",
			func(env *protocolTestEnv) {
				env.run(env.parallel(
					env.receivePassword(password.Password{1, 2, 3, 4, '$'}),
					env.inject(1, 2, 3, 4, '$'),
				))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.logic(newProtocolTestEnv(t))
		})
	}
}

func TestProtocolPeers(t *testing.T) {
	a, b := link.Pipe()
	defer a.Close()
	ctl, remote := New(a), New(b)
	ctl.ByteDelay, remote.ByteDelay = 0, time.Millisecond

	errCh := make(chan error, 1)
	go func() {
		if err := remote.SendCommand(SendCheckPassword); err != nil {
			errCh <- err
			return
		}
		errCh <- remote.SendPassword(password.Password{9, 9, 9, 9, 9})
	}()
	require.NoError(t, ctl.Expect(SendCheckPassword))
	pw, err := ctl.ReceivePassword()
	require.NoError(t, err)
	require.Equal(t, password.Password{9, 9, 9, 9, 9}, pw)
	require.NoError(t, <-errCh)

	go func() {
		errCh <- ctl.SendCommand(WrongPassword)
	}()
	cmd, err := remote.ReceiveCommand()
	require.NoError(t, err)
	require.Equal(t, WrongPassword, cmd)
	require.NoError(t, <-errCh)
}

func TestProtocolLinkFailure(t *testing.T) {
	a, b := link.Pipe()
	p := New(a)
	b.Close()
	_, err := p.ReceiveCommand()
	require.Error(t, err)
	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	require.Equal(t, io.EOF, stepErr.Err)
	require.Error(t, p.SendCommand(OpenDoor))
}

func TestCommandString(t *testing.T) {
	require.Equal(t, "OPEN_DOOR", OpenDoor.String())
	require.Equal(t, "MATCHED", Matched.String())
	require.Equal(t, "0x7a", Command('z').String())
	require.True(t, ChangePassword.IsAction())
	require.False(t, WrongPassword.IsAction())
}

type stampedLink struct {
	incoming []byte
	sent     []time.Time
	received []time.Time
}

func (l *stampedLink) SendByte(b byte) error {
	l.sent = append(l.sent, time.Now())
	return nil
}

func (l *stampedLink) ReceiveByte() (byte, error) {
	if len(l.incoming) == 0 {
		return 0, io.EOF
	}
	b := l.incoming[0]
	l.incoming = l.incoming[1:]
	l.received = append(l.received, time.Now())
	return b, nil
}

func requireSpaced(t *testing.T, stamps []time.Time, delay time.Duration) {
	require.Len(t, stamps, password.Size)
	for i := 1; i < len(stamps); i++ {
		gap := stamps[i].Sub(stamps[i-1])
		require.Truef(t, gap >= delay, "byte %d after %v", i, gap)
	}
}

func TestPasswordByteDelay(t *testing.T) {
	l := &stampedLink{incoming: []byte{5, 4, 3, 2, 1}}
	p := New(l)
	p.ByteDelay = 5 * time.Millisecond

	require.NoError(t, p.SendPassword(password.Password{1, 2, 3, 4, 5}))
	requireSpaced(t, l.sent, p.ByteDelay)

	pw, err := p.ReceivePassword()
	require.NoError(t, err)
	require.Equal(t, password.Password{5, 4, 3, 2, 1}, pw)
	requireSpaced(t, l.received, p.ByteDelay)
}

package handshake

import (
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/doorlock/pkg/link"
	"github.com/robotalks/doorlock/pkg/password"
)

// DefaultByteDelay is the pause after each password byte.
const DefaultByteDelay = 10 * time.Millisecond

// Protocol exchanges commands and passwords over a Link. The exchange is
// symmetric, the same Protocol serves either end.
// It is not safe for concurrent use: one exchange at a time.
type Protocol struct {
	Link      link.Link
	ByteDelay time.Duration
}

// New creates a Protocol with the default timing.
func New(l link.Link) *Protocol {
	return &Protocol{Link: l, ByteDelay: DefaultByteDelay}
}

// SendCommand delivers one command. It returns after the peer confirmed
// delivery.
func (p *Protocol) SendCommand(cmd Command) error {
	if err := p.Link.SendByte(byte(ReadyToSend)); err != nil {
		return stepErr("send READY_TO_SEND", err)
	}
	if err := p.waitFor(ReadyToReceive); err != nil {
		return err
	}
	if err := p.Link.SendByte(byte(cmd)); err != nil {
		return stepErr("send "+cmd.String(), err)
	}
	if err := p.waitFor(ReceiveDone); err != nil {
		return err
	}
	glog.V(2).Infof("sent %s", cmd)
	return nil
}

// ReceiveCommand waits for the peer to deliver one command.
func (p *Protocol) ReceiveCommand() (Command, error) {
	if err := p.waitFor(ReadyToSend); err != nil {
		return 0, err
	}
	if err := p.Link.SendByte(byte(ReadyToReceive)); err != nil {
		return 0, stepErr("send READY_TO_RECEIVE", err)
	}
	b, err := p.Link.ReceiveByte()
	if err != nil {
		return 0, stepErr("receive command", err)
	}
	if err = p.Link.SendByte(byte(ReceiveDone)); err != nil {
		return 0, stepErr("send RECEIVE_DONE", err)
	}
	cmd := Command(b)
	glog.V(2).Infof("received %s", cmd)
	return cmd, nil
}

// Expect receives commands until cmd arrives, dropping all others.
func (p *Protocol) Expect(cmd Command) error {
	for {
		got, err := p.ReceiveCommand()
		if err != nil {
			return err
		}
		if got == cmd {
			return nil
		}
		glog.V(1).Infof("waiting for %s, dropped %s", cmd, got)
	}
}

// SendPassword sends the password bytes.
func (p *Protocol) SendPassword(pw password.Password) error {
	for i := 0; i < password.Size; i++ {
		if err := p.Link.SendByte(pw[i]); err != nil {
			return stepErr("send password", err)
		}
		p.pause()
	}
	return nil
}

// ReceivePassword receives the password bytes.
func (p *Protocol) ReceivePassword() (pw password.Password, err error) {
	for i := 0; i < password.Size; i++ {
		if pw[i], err = p.Link.ReceiveByte(); err != nil {
			return pw, stepErr("receive password", err)
		}
		p.pause()
	}
	return pw, nil
}

func (p *Protocol) waitFor(cmd Command) error {
	for {
		b, err := p.Link.ReceiveByte()
		if err != nil {
			return stepErr("wait "+cmd.String(), err)
		}
		if Command(b) == cmd {
			return nil
		}
		glog.V(2).Infof("waiting for %s, dropped 0x%02x", cmd, b)
	}
}

func (p *Protocol) pause() {
	if p.ByteDelay > 0 {
		time.Sleep(p.ByteDelay)
	}
}

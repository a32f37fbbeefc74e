// Package remote drives the control unit from the remote side of the link.
package remote

import (
	"fmt"

	"github.com/robotalks/doorlock/pkg/handshake"
	"github.com/robotalks/doorlock/pkg/link"
	"github.com/robotalks/doorlock/pkg/password"
)

// Remote issues requests to a control unit.
type Remote struct {
	Proto *handshake.Protocol
}

// New creates a Remote over l.
func New(l link.Link) *Remote {
	return &Remote{Proto: handshake.New(l)}
}

// Setup provisions a password with its confirmation and returns the
// verdict of the control unit. On Mismatched the control unit expects
// another Setup.
func (r *Remote) Setup(first, confirm password.Password) (password.MatchStatus, error) {
	if err := r.send(handshake.SendFirstPassword, first); err != nil {
		return password.Mismatched, err
	}
	if err := r.send(handshake.SendConfirmPassword, confirm); err != nil {
		return password.Mismatched, err
	}
	reply, err := r.Proto.ReceiveCommand()
	if err != nil {
		return password.Mismatched, err
	}
	switch reply {
	case handshake.Matched:
		return password.Matched, nil
	case handshake.Mismatched:
		return password.Mismatched, nil
	}
	return password.Mismatched, &UnexpectedReplyError{Request: handshake.SendConfirmPassword, Reply: reply}
}

// Check submits candidate for action and returns the reply, one of
// OpeningDoor, ChangingPassword or WrongPassword. After ChangingPassword
// the control unit waits for Setup.
// The control unit never replies to an unknown action, so action must be
// OpenDoor or ChangePassword.
func (r *Remote) Check(candidate password.Password, action handshake.Command) (handshake.Command, error) {
	if !action.IsAction() {
		return 0, fmt.Errorf("%s is not an action", action)
	}
	if err := r.send(handshake.SendCheckPassword, candidate); err != nil {
		return 0, err
	}
	if err := r.Proto.SendCommand(action); err != nil {
		return 0, err
	}
	reply, err := r.Proto.ReceiveCommand()
	if err != nil {
		return 0, err
	}
	switch reply {
	case handshake.OpeningDoor, handshake.ChangingPassword, handshake.WrongPassword:
		return reply, nil
	}
	return reply, &UnexpectedReplyError{Request: action, Reply: reply}
}

// Send delivers a single raw command.
func (r *Remote) Send(cmd handshake.Command) error {
	return r.Proto.SendCommand(cmd)
}

func (r *Remote) send(cmd handshake.Command, pw password.Password) error {
	if err := r.Proto.SendCommand(cmd); err != nil {
		return err
	}
	return r.Proto.SendPassword(pw)
}

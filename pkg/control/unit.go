// Package control implements the control unit: provisioning, password
// verification, the door task and the alarm task, driven by commands
// from the remote unit.
package control

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/golang/glog"

	"github.com/robotalks/doorlock/pkg/actuator"
	"github.com/robotalks/doorlock/pkg/events"
	fx "github.com/robotalks/doorlock/pkg/framework"
	"github.com/robotalks/doorlock/pkg/handshake"
	"github.com/robotalks/doorlock/pkg/link"
	"github.com/robotalks/doorlock/pkg/password"
	"github.com/robotalks/doorlock/pkg/store"
	"github.com/robotalks/doorlock/pkg/tick"
)

// Unit is the control unit. It owns all mutable state of the application
// and runs a single flow of control: no method may be called concurrently
// with Run, except the read-only accessors.
type Unit struct {
	Config   Config
	Proto    *handshake.Protocol
	Vault    *password.Vault
	Actuator actuator.Driver
	Ticks    tick.Source
	Reporter events.Reporter

	received password.Password
	confirm  password.Password
	mistakes atomic.Uint32
	counter  tick.Counter
	door     atomic.Int32
	alarm    bool
}

// NewUnit creates a Unit from its collaborators.
func (c *Config) NewUnit(l link.Link, dev store.Device, drv actuator.Driver, src tick.Source) (*Unit, error) {
	if c.StoreBase > password.MaxBase {
		return nil, fmt.Errorf("store base 0x%x exceeds 0x%04x", c.StoreBase, password.MaxBase)
	}
	proto := handshake.New(l)
	proto.ByteDelay = c.ByteDelay
	vault := password.NewVault(dev)
	vault.Base, vault.Settle = uint16(c.StoreBase), c.SettleDelay
	return &Unit{
		Config:   *c,
		Proto:    proto,
		Vault:    vault,
		Actuator: drv,
		Ticks:    src,
		Reporter: events.Discard,
	}, nil
}

// Name implements framework.Named.
func (u *Unit) Name() string {
	return "control"
}

// Mistakes returns the consecutive failed verifications counted so far.
func (u *Unit) Mistakes() uint {
	return uint(u.mistakes.Load())
}

// DoorState returns the state of the door task.
func (u *Unit) DoorState() DoorState {
	return DoorState(u.door.Load())
}

// Counter exposes the tick counter.
func (u *Unit) Counter() *tick.Counter {
	return &u.counter
}

// Run provisions the first password and then serves requests until the
// link fails or ctx is done. Closing the link is how a blocked exchange
// is interrupted.
func (u *Unit) Run(ctx context.Context) error {
	if closer, ok := u.Proto.Link.(interface{ Close() error }); ok {
		return fx.RunWithContextCloser(ctx, closer, func() error {
			return u.run(ctx)
		})
	}
	return u.run(ctx)
}

func (u *Unit) run(ctx context.Context) error {
	glog.Info("waiting for the initial password")
	if err := u.Provision(ctx); err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := u.Serve(ctx); err != nil {
			return err
		}
	}
}

// Serve handles one check-password request: wait for it, verify the
// candidate and dispatch the requested action. A password that can't be
// loaded matches no candidate.
func (u *Unit) Serve(ctx context.Context) error {
	if err := u.Proto.Expect(handshake.SendCheckPassword); err != nil {
		return err
	}
	candidate, err := u.Proto.ReceivePassword()
	if err != nil {
		return err
	}
	action, err := u.Proto.ReceiveCommand()
	if err != nil {
		return err
	}
	if !action.IsAction() {
		glog.V(1).Infof("ignored action %s", action)
		ev := events.New(events.KindUnknownCommand)
		ev.Status = uint32(action)
		u.report(ctx, ev)
		return nil
	}

	status := password.Mismatched
	if stored, err := u.Vault.Load(); err != nil {
		u.storeError(ctx, fmt.Errorf("load password: %v", err))
	} else {
		status = password.Compare(candidate, stored)
	}
	var reply handshake.Command
	switch {
	case status == password.Mismatched:
		reply = handshake.WrongPassword
	case action == handshake.OpenDoor:
		reply = handshake.OpeningDoor
	default:
		reply = handshake.ChangingPassword
	}
	glog.Infof("verification for %s: %s", action, status)
	if err = u.Proto.SendCommand(reply); err != nil {
		return err
	}
	ev := events.New(events.KindVerified)
	ev.Status = uint32(reply)
	u.report(ctx, ev)

	switch reply {
	case handshake.OpeningDoor:
		u.mistakes.Store(0)
		return u.OpenDoor(ctx)
	case handshake.ChangingPassword:
		u.mistakes.Store(0)
		return u.Provision(ctx)
	default:
		return u.WrongPassword(ctx)
	}
}

func (u *Unit) storeError(ctx context.Context, err error) {
	glog.Warningf("store: %v", err)
	ev := events.New(events.KindStoreError)
	ev.Error = err.Error()
	u.report(ctx, ev)
}

func (u *Unit) report(ctx context.Context, ev *events.Event) {
	ev.Mistakes = u.mistakes.Load()
	ev.Door = int32(u.DoorState())
	if u.Reporter == nil {
		return
	}
	if err := u.Reporter.Report(ctx, ev); err != nil {
		glog.Warningf("report %s: %v", ev.Kind, err)
	}
}

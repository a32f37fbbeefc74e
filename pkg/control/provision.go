package control

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/doorlock/pkg/events"
	"github.com/robotalks/doorlock/pkg/handshake"
	"github.com/robotalks/doorlock/pkg/password"
)

// Provision sets a new password: it receives a password and its
// confirmation until both match and the password is persisted. A failed
// persist is answered with MISMATCHED so the remote asks again. It
// returns only when a password is stored or the link fails.
func (u *Unit) Provision(ctx context.Context) error {
	for {
		if err := u.Proto.Expect(handshake.SendFirstPassword); err != nil {
			return err
		}
		pw, err := u.Proto.ReceivePassword()
		if err != nil {
			return err
		}
		u.received = pw
		if err = u.Proto.Expect(handshake.SendConfirmPassword); err != nil {
			return err
		}
		if u.confirm, err = u.Proto.ReceivePassword(); err != nil {
			return err
		}

		status := password.Compare(u.received, u.confirm)
		if status == password.Matched {
			if err = u.Vault.Persist(u.received); err != nil {
				u.storeError(ctx, fmt.Errorf("persist password: %v", err))
				status = password.Mismatched
			}
		}
		reply := handshake.Command(status)
		if err = u.Proto.SendCommand(reply); err != nil {
			return err
		}
		ev := events.New(events.KindProvisioned)
		ev.Status = uint32(reply)
		u.report(ctx, ev)
		if status == password.Matched {
			glog.Info("password provisioned")
			return nil
		}
		glog.Info("password confirmation mismatched")
	}
}

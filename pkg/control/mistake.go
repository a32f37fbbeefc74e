package control

import (
	"context"

	"github.com/golang/glog"

	"github.com/robotalks/doorlock/pkg/events"
)

// WrongPassword counts a failed verification. On reaching MaxMistakes it
// sounds the alarm for WarningTicks and clears the count. The alarm is
// always off when it returns.
func (u *Unit) WrongPassword(ctx context.Context) (err error) {
	defer u.setAlarm(ctx, false)

	mistakes := u.mistakes.Add(1)
	u.report(ctx, events.New(events.KindMistake))
	glog.Infof("wrong password %d/%d", mistakes, u.Config.MaxMistakes)
	if uint(mistakes) < u.Config.MaxMistakes {
		return nil
	}

	u.counter.Reset()
	if err = u.Ticks.Start(u.Config.TickInterval, u.counter.Incr); err != nil {
		return err
	}
	defer u.Ticks.Stop()
	u.setAlarm(ctx, true)
	if err = u.counter.Wait(ctx, uint32(u.Config.WarningTicks)); err != nil {
		return err
	}
	u.mistakes.Store(0)
	return nil
}

func (u *Unit) setAlarm(ctx context.Context, on bool) {
	if err := u.Actuator.SetAlarm(on); err != nil {
		glog.Errorf("alarm on=%v: %v", on, err)
	}
	if u.alarm == on {
		return
	}
	u.alarm = on
	ev := events.New(events.KindAlarm)
	ev.Alarm = on
	if on {
		ev.Ticks = uint32(u.Config.WarningTicks)
	}
	u.report(ctx, ev)
}

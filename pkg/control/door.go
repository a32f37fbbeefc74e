package control

import (
	"context"

	"github.com/golang/glog"

	"github.com/robotalks/doorlock/pkg/actuator"
	"github.com/robotalks/doorlock/pkg/events"
)

// DoorState is the state of the door task.
type DoorState int32

// Door states.
const (
	DoorIdle DoorState = iota
	DoorOpening
	DoorHolding
	DoorClosing
	DoorStopped
)

var doorStateNames = [...]string{"idle", "opening", "holding", "closing", "stopped"}

// String implements fmt.Stringer.
func (s DoorState) String() string {
	if s >= 0 && int(s) < len(doorStateNames) {
		return doorStateNames[s]
	}
	return "invalid"
}

type doorPhase struct {
	state DoorState
	motor actuator.Direction
	ticks uint
}

// OpenDoor opens the door, holds it and closes it again, blocking for the
// whole sequence. The motor is stopped and the tick source released on
// every return path.
func (u *Unit) OpenDoor(ctx context.Context) (err error) {
	u.counter.Reset()
	if err = u.Ticks.Start(u.Config.TickInterval, u.counter.Incr); err != nil {
		return err
	}
	defer u.Ticks.Stop()
	defer func() {
		if err != nil {
			u.setMotor(actuator.Stop)
			u.setDoor(ctx, DoorIdle)
		}
	}()

	phases := []doorPhase{
		{DoorOpening, actuator.Forward, u.Config.OpenTicks},
		{DoorHolding, actuator.Stop, u.Config.HoldTicks},
		{DoorClosing, actuator.Reverse, u.Config.CloseTicks},
	}
	for _, phase := range phases {
		u.setMotor(phase.motor)
		u.setDoor(ctx, phase.state)
		if err = u.counter.Wait(ctx, uint32(phase.ticks)); err != nil {
			return err
		}
	}
	u.setMotor(actuator.Stop)
	u.setDoor(ctx, DoorStopped)
	return nil
}

func (u *Unit) setMotor(d actuator.Direction) {
	if err := u.Actuator.SetMotor(d); err != nil {
		glog.Errorf("motor %s: %v", d, err)
	}
}

func (u *Unit) setDoor(ctx context.Context, s DoorState) {
	u.door.Store(int32(s))
	glog.V(1).Infof("door %s", s)
	u.report(ctx, events.New(events.KindDoor))
}

package actuator

import (
	"sync"

	"github.com/golang/glog"
)

// Simulated logs actuator changes and keeps the last state.
type Simulated struct {
	lock  sync.Mutex
	motor Direction
	alarm bool
}

// SetMotor implements Driver.
func (s *Simulated) SetMotor(d Direction) error {
	s.lock.Lock()
	s.motor = d
	s.lock.Unlock()
	glog.Infof("motor %s", d)
	return nil
}

// SetAlarm implements Driver.
func (s *Simulated) SetAlarm(on bool) error {
	s.lock.Lock()
	changed := s.alarm != on
	s.alarm = on
	s.lock.Unlock()
	if changed {
		glog.Infof("alarm on=%v", on)
	}
	return nil
}

// State returns the last motor direction and alarm state.
func (s *Simulated) State() (Direction, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.motor, s.alarm
}

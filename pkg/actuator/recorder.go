package actuator

import "sync"

// Call is one recorded actuator call.
type Call struct {
	Motor *Direction
	Alarm *bool
	Stamp uint64
}

// Recorder is a Driver that records calls, stamped by Clock when set.
type Recorder struct {
	Clock func() uint64

	lock  sync.Mutex
	calls []Call
}

// SetMotor implements Driver.
func (r *Recorder) SetMotor(d Direction) error {
	r.record(Call{Motor: &d})
	return nil
}

// SetAlarm implements Driver.
func (r *Recorder) SetAlarm(on bool) error {
	r.record(Call{Alarm: &on})
	return nil
}

func (r *Recorder) record(c Call) {
	if r.Clock != nil {
		c.Stamp = r.Clock()
	}
	r.lock.Lock()
	r.calls = append(r.calls, c)
	r.lock.Unlock()
}

// Calls returns the recorded calls.
func (r *Recorder) Calls() []Call {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]Call(nil), r.calls...)
}

// Motor returns the recorded motor directions with their stamps.
func (r *Recorder) Motor() (dirs []Direction, stamps []uint64) {
	for _, c := range r.Calls() {
		if c.Motor != nil {
			dirs, stamps = append(dirs, *c.Motor), append(stamps, c.Stamp)
		}
	}
	return
}

// Alarm returns the recorded alarm states with their stamps.
func (r *Recorder) Alarm() (states []bool, stamps []uint64) {
	for _, c := range r.Calls() {
		if c.Alarm != nil {
			states, stamps = append(states, *c.Alarm), append(stamps, c.Stamp)
		}
	}
	return
}

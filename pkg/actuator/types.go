// Package actuator drives the door motor and the alarm sounder.
package actuator

// Direction is the door motor command.
type Direction int

// Motor directions.
const (
	Stop Direction = iota
	Forward
	Reverse
)

// String implements fmt.Stringer.
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	default:
		return "stop"
	}
}

// Driver controls the actuators.
type Driver interface {
	SetMotor(Direction) error
	SetAlarm(on bool) error
}

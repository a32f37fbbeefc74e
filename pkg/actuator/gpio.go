package actuator

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// GPIO drives an H-bridge motor on two pins and the sounder on a third.
//
//	Forward: A high, B low
//	Reverse: A low,  B high
//	Stop:    both low
type GPIO struct {
	MotorA gpio.PinOut
	MotorB gpio.PinOut
	Alarm  gpio.PinOut
}

// PinNames names the pins used by GPIO, e.g. "GPIO17".
type PinNames struct {
	MotorA string
	MotorB string
	Alarm  string
}

// OpenGPIO looks up the pins in the registry and drives them all low.
// The host drivers must be initialized before.
func OpenGPIO(names PinNames) (*GPIO, error) {
	var pins [3]gpio.PinIO
	for n, name := range []string{names.MotorA, names.MotorB, names.Alarm} {
		if pins[n] = gpioreg.ByName(name); pins[n] == nil {
			return nil, fmt.Errorf("unknown pin %q", name)
		}
	}
	g := &GPIO{MotorA: pins[0], MotorB: pins[1], Alarm: pins[2]}
	if err := g.SetMotor(Stop); err != nil {
		return nil, err
	}
	if err := g.SetAlarm(false); err != nil {
		return nil, err
	}
	return g, nil
}

// SetMotor implements Driver.
func (g *GPIO) SetMotor(d Direction) error {
	a, b := gpio.Low, gpio.Low
	switch d {
	case Forward:
		a = gpio.High
	case Reverse:
		b = gpio.High
	}
	// drop the released side first so both are never high together.
	if a == gpio.Low {
		if err := g.MotorA.Out(a); err != nil {
			return err
		}
		return g.MotorB.Out(b)
	}
	if err := g.MotorB.Out(b); err != nil {
		return err
	}
	return g.MotorA.Out(a)
}

// SetAlarm implements Driver.
func (g *GPIO) SetAlarm(on bool) error {
	return g.Alarm.Out(gpio.Level(on))
}

package env

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/golang/glog"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/robotalks/doorlock/pkg/actuator"
	"github.com/robotalks/doorlock/pkg/events"
	"github.com/robotalks/doorlock/pkg/events/mqtt"
	fx "github.com/robotalks/doorlock/pkg/framework"
	"github.com/robotalks/doorlock/pkg/link"
	"github.com/robotalks/doorlock/pkg/store"
)

// Default GPIO pins of the actuator.
const (
	DefaultMotorAPin = "GPIO17"
	DefaultMotorBPin = "GPIO27"
	DefaultAlarmPin  = "GPIO22"
)

var (
	hostOnce sync.Once
	hostErr  error
)

func initHost() error {
	hostOnce.Do(func() {
		if _, hostErr = host.Init(); hostErr != nil {
			hostErr = fmt.Errorf("init host drivers: %v", hostErr)
		}
	})
	return hostErr
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenLink opens the link to the remote unit.
func (c *Config) OpenLink(ctx context.Context) (*link.Stream, error) {
	return link.Open(ctx, c.LinkURL)
}

// OpenStore opens the password store. The returned closer releases the
// underlying file or bus.
func (c *Config) OpenStore() (store.Device, io.Closer, error) {
	u, err := url.Parse(c.StoreURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid store URL: %v", err)
	}
	switch u.Scheme {
	case "mem":
		return store.NewMemory(store.EEPROMSize), nopCloser{}, nil
	case "file":
		if u.Path == "" {
			return nil, nil, fmt.Errorf("store file path missing in %q", c.StoreURL)
		}
		f, err := store.OpenFile(u.Path, store.EEPROMSize)
		if err != nil {
			return nil, nil, err
		}
		return f, f, nil
	case "i2c":
		busName, addr, err := parseEEPROMURL(u)
		if err != nil {
			return nil, nil, err
		}
		if err = initHost(); err != nil {
			return nil, nil, err
		}
		bus, err := i2creg.Open(busName)
		if err != nil {
			return nil, nil, fmt.Errorf("open i2c bus %q: %v", busName, err)
		}
		dev := store.NewEEPROM(bus)
		dev.Addr = addr
		return dev, bus, nil
	default:
		return nil, nil, fmt.Errorf("unknown store URL scheme: %q", u.Scheme)
	}
}

func parseEEPROMURL(u *url.URL) (bus string, addr uint16, err error) {
	bus = strings.TrimPrefix(u.Path, "/")
	addr = store.DefaultEEPROMAddr
	if val := u.Query().Get("addr"); val != "" {
		n, err := strconv.ParseUint(val, 0, 7)
		if err != nil {
			return "", 0, fmt.Errorf("invalid i2c address %q", val)
		}
		addr = uint16(n)
	}
	return bus, addr, nil
}

// OpenActuator opens the motor and alarm driver.
func (c *Config) OpenActuator() (actuator.Driver, error) {
	u, err := url.Parse(c.ActuatorURL)
	if err != nil {
		return nil, fmt.Errorf("invalid actuator URL: %v", err)
	}
	switch u.Scheme {
	case "sim":
		return &actuator.Simulated{}, nil
	case "gpio":
		if err = initHost(); err != nil {
			return nil, err
		}
		return actuator.OpenGPIO(parsePinNames(u))
	default:
		return nil, fmt.Errorf("unknown actuator URL scheme: %q", u.Scheme)
	}
}

func parsePinNames(u *url.URL) actuator.PinNames {
	q := u.Query()
	names := actuator.PinNames{
		MotorA: q.Get("motor-a"),
		MotorB: q.Get("motor-b"),
		Alarm:  q.Get("alarm"),
	}
	if names.MotorA == "" {
		names.MotorA = DefaultMotorAPin
	}
	if names.MotorB == "" {
		names.MotorB = DefaultMotorBPin
	}
	if names.Alarm == "" {
		names.Alarm = DefaultAlarmPin
	}
	return names
}

// NewReporter creates the event reporter. Events are always logged at
// verbosity 1, and published when MQTTURL is set. The returned Runnables
// must run for the publishers to connect.
func (c *Config) NewReporter() (events.Reporter, []fx.Runnable, error) {
	mux := (&events.Mux{}).Add(&events.Log{V: 1})
	if c.MQTTURL == "" {
		return mux, nil, nil
	}
	pub, err := mqtt.NewPublisher(c.MQTTURL, c.UnitInfo())
	if err != nil {
		return nil, nil, fmt.Errorf("mqtt publisher: %v", err)
	}
	glog.Infof("publishing events to %s as %s", c.MQTTURL, pub.Info.Name())
	return mux.Add(pub), []fx.Runnable{pub}, nil
}

package env

import (
	"context"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/doorlock/pkg/actuator"
	"github.com/robotalks/doorlock/pkg/events"
	"github.com/robotalks/doorlock/pkg/store"
)

func TestOpenStore(t *testing.T) {
	conf := NewConfig()
	conf.StoreURL = "mem:"
	dev, closer, err := conf.OpenStore()
	require.NoError(t, err)
	require.IsType(t, &store.Memory{}, dev)
	require.NoError(t, closer.Close())

	conf.StoreURL = "file://" + filepath.Join(t.TempDir(), "eeprom.img")
	dev, closer, err = conf.OpenStore()
	require.NoError(t, err)
	require.NoError(t, dev.WriteByte(0x0311, 7))
	require.NoError(t, closer.Close())
	dev, closer, err = conf.OpenStore()
	require.NoError(t, err)
	b, err := dev.ReadByte(0x0311)
	require.NoError(t, err)
	require.Equal(t, byte(7), b)
	require.NoError(t, closer.Close())

	for _, bad := range []string{"file://", "nvram:", "%zz"} {
		conf.StoreURL = bad
		_, _, err = conf.OpenStore()
		require.Error(t, err, bad)
	}
}

func TestParseEEPROMURL(t *testing.T) {
	cases := []struct {
		url  string
		bus  string
		addr uint16
		fail bool
	}{
		{url: "i2c:", addr: store.DefaultEEPROMAddr},
		{url: "i2c:///1", bus: "1", addr: store.DefaultEEPROMAddr},
		{url: "i2c:///I2C1?addr=0x51", bus: "I2C1", addr: 0x51},
		{url: "i2c:///1?addr=81", bus: "1", addr: 81},
		{url: "i2c:///1?addr=0x80", fail: true},
		{url: "i2c:///1?addr=x", fail: true},
	}
	for _, c := range cases {
		t.Run(c.url, func(t *testing.T) {
			u, err := url.Parse(c.url)
			require.NoError(t, err)
			bus, addr, err := parseEEPROMURL(u)
			if c.fail {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, c.bus, bus)
			require.Equal(t, c.addr, addr)
		})
	}
}

func TestOpenActuator(t *testing.T) {
	conf := NewConfig()
	conf.ActuatorURL = "sim:"
	drv, err := conf.OpenActuator()
	require.NoError(t, err)
	require.IsType(t, &actuator.Simulated{}, drv)

	conf.ActuatorURL = "servo:"
	_, err = conf.OpenActuator()
	require.Error(t, err)
}

func TestParsePinNames(t *testing.T) {
	u, err := url.Parse("gpio:?motor-a=GPIO5&alarm=GPIO6")
	require.NoError(t, err)
	require.Equal(t, actuator.PinNames{
		MotorA: "GPIO5",
		MotorB: DefaultMotorBPin,
		Alarm:  "GPIO6",
	}, parsePinNames(u))
}

func TestNewReporter(t *testing.T) {
	conf := NewConfig()
	conf.MQTTURL = ""
	r, runners, err := conf.NewReporter()
	require.NoError(t, err)
	require.Empty(t, runners)
	require.NoError(t, r.Report(context.Background(), events.New(events.KindDoor)))

	conf.ID = "front"
	conf.MQTTURL = "mqtt://localhost:1883/home/"
	r, runners, err = conf.NewReporter()
	require.NoError(t, err)
	require.Len(t, runners, 1)
	require.Len(t, r.(*events.Mux).Reporters, 2)
}

func TestUnitInfo(t *testing.T) {
	conf := NewConfig()
	conf.Type, conf.ID = "doorlock", "front"
	require.Equal(t, "doorlock/front", conf.UnitInfo().Name())
	conf.ID = ""
	require.NotEmpty(t, conf.UnitInfo().ID)
}

// Package env builds the collaborators of the control unit from flags and
// environment variables.
package env

import (
	"flag"
	"os"

	"github.com/robotalks/doorlock/pkg/events/mqtt"
)

// DefaultUnitType is the type part of the unit name.
const DefaultUnitType = "doorlock"

// Config provides options to set up the control unit.
type Config struct {
	Type string
	ID   string

	// LinkURL selects the link to the remote unit.
	// e.g. serial:///dev/ttyUSB0?baud=9600, ws+listen://:8080/link
	LinkURL string
	// StoreURL selects the password store.
	// e.g. mem:, file:///var/lib/doorlock/eeprom.img, i2c:///1?addr=0x50
	StoreURL string
	// ActuatorURL selects the motor and alarm driver.
	// e.g. sim:, gpio:?motor-a=GPIO17&motor-b=GPIO27&alarm=GPIO22
	ActuatorURL string
	// MQTTURL is the broker to publish events to, disabled when empty.
	// e.g. mqtt://localhost:1883/doorlock/
	MQTTURL string
}

var defaultConfig = Config{
	Type:        DefaultUnitType,
	LinkURL:     "serial:///dev/ttyUSB0",
	StoreURL:    "mem:",
	ActuatorURL: "sim:",
}

func init() {
	if val := os.Getenv("DOORLOCK_TYPE"); val != "" {
		defaultConfig.Type = val
	}
	if val := os.Getenv("DOORLOCK_ID"); val != "" {
		defaultConfig.ID = val
	}
	if val := os.Getenv("DOORLOCK_LINK"); val != "" {
		defaultConfig.LinkURL = val
	}
	if val := os.Getenv("DOORLOCK_STORE"); val != "" {
		defaultConfig.StoreURL = val
	}
	if val := os.Getenv("DOORLOCK_ACTUATOR"); val != "" {
		defaultConfig.ActuatorURL = val
	}
	if val := os.Getenv("DOORLOCK_MQTT_URL"); val != "" {
		defaultConfig.MQTTURL = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Type, "unit-type", defaultConfig.Type, "Unit type.")
	flag.StringVar(&defaultConfig.ID, "unit-id", defaultConfig.ID, "Unit ID, defaults to an ID derived from the machine ID.")
	flag.StringVar(&defaultConfig.LinkURL, "link", defaultConfig.LinkURL, "Link URL to the remote unit.")
	flag.StringVar(&defaultConfig.StoreURL, "store", defaultConfig.StoreURL, "Password store URL.")
	flag.StringVar(&defaultConfig.ActuatorURL, "actuator", defaultConfig.ActuatorURL, "Actuator URL.")
	flag.StringVar(&defaultConfig.MQTTURL, "mqtt", defaultConfig.MQTTURL, "MQTT broker URL for events.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// UnitInfo describes the unit for event publishing.
func (c *Config) UnitInfo() mqtt.UnitInfo {
	info := mqtt.UnitInfo{Type: c.Type, ID: c.ID}
	if info.ID == "" {
		info.ID = MachineID()
	}
	if host, err := os.Hostname(); err == nil {
		info.Labels = map[string]string{"host": host}
	}
	return info
}

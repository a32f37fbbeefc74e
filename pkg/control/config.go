package control

import (
	"flag"
	"time"

	"github.com/robotalks/doorlock/pkg/handshake"
	"github.com/robotalks/doorlock/pkg/password"
)

// Config defines the timing and thresholds of the control unit.
type Config struct {
	TickInterval time.Duration
	OpenTicks    uint
	HoldTicks    uint
	CloseTicks   uint
	WarningTicks uint
	MaxMistakes  uint

	ByteDelay   time.Duration
	SettleDelay time.Duration
	StoreBase   uint
}

// Defaults of the reference unit.
const (
	DefaultTickInterval = time.Second
	DefaultOpenTicks    = 15
	DefaultHoldTicks    = 3
	DefaultCloseTicks   = 15
	DefaultWarningTicks = 60
	DefaultMaxMistakes  = 3
)

var defaultConfig = Config{
	TickInterval: DefaultTickInterval,
	OpenTicks:    DefaultOpenTicks,
	HoldTicks:    DefaultHoldTicks,
	CloseTicks:   DefaultCloseTicks,
	WarningTicks: DefaultWarningTicks,
	MaxMistakes:  DefaultMaxMistakes,
	ByteDelay:    handshake.DefaultByteDelay,
	SettleDelay:  password.DefaultSettle,
	StoreBase:    uint(password.DefaultBase),
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.DurationVar(&defaultConfig.TickInterval, "tick", defaultConfig.TickInterval, "Tick interval.")
	flag.UintVar(&defaultConfig.OpenTicks, "open-ticks", defaultConfig.OpenTicks, "Ticks the motor runs forward to open the door.")
	flag.UintVar(&defaultConfig.HoldTicks, "hold-ticks", defaultConfig.HoldTicks, "Ticks the door is held open.")
	flag.UintVar(&defaultConfig.CloseTicks, "close-ticks", defaultConfig.CloseTicks, "Ticks the motor runs in reverse to close the door.")
	flag.UintVar(&defaultConfig.WarningTicks, "warning-ticks", defaultConfig.WarningTicks, "Ticks the alarm sounds.")
	flag.UintVar(&defaultConfig.MaxMistakes, "max-mistakes", defaultConfig.MaxMistakes, "Consecutive wrong passwords before the alarm.")
	flag.DurationVar(&defaultConfig.ByteDelay, "byte-delay", defaultConfig.ByteDelay, "Pause after each password byte on the link.")
	flag.DurationVar(&defaultConfig.SettleDelay, "settle-delay", defaultConfig.SettleDelay, "Pause after each store access.")
	flag.UintVar(&defaultConfig.StoreBase, "store-base", defaultConfig.StoreBase, "Store address of the password.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

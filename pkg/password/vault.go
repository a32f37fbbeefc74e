package password

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/doorlock/pkg/framework"
	"github.com/robotalks/doorlock/pkg/store"
)

// Defaults for the reference EEPROM layout and timing.
const (
	DefaultBase   uint16 = 0x0311
	DefaultSettle        = 80 * time.Millisecond
)

// MaxBase is the highest base address that fits a password below 64KiB.
const MaxBase = 1<<16 - Size

// ErrBaseRange indicates the password doesn't fit above the base address.
var ErrBaseRange = errors.New("password base address out of range")

// Vault persists the password at Size consecutive addresses from Base.
// Every access is followed by Settle to respect the store write cycle.
type Vault struct {
	Device store.Device
	Base   uint16
	Settle time.Duration
}

// NewVault creates a Vault with the default layout.
func NewVault(dev store.Device) *Vault {
	return &Vault{Device: dev, Base: DefaultBase, Settle: DefaultSettle}
}

// Persist writes the password, one byte per address. All bytes are
// attempted; failures are aggregated.
func (v *Vault) Persist(pw Password) error {
	if v.Base > MaxBase {
		return ErrBaseRange
	}
	var errs fx.AggregatedError
	for i := 0; i < Size; i++ {
		addr := v.Base + uint16(i)
		if err := v.Device.WriteByte(addr, pw[i]); err != nil {
			errs.Add(fmt.Errorf("write 0x%04x: %w", addr, err))
		}
		v.settle()
	}
	glog.V(2).Infof("password persisted at 0x%04x", v.Base)
	return errs.Aggregate()
}

// Load reads the password back. Bytes that fail to read are left zero.
func (v *Vault) Load() (pw Password, err error) {
	if v.Base > MaxBase {
		return pw, ErrBaseRange
	}
	var errs fx.AggregatedError
	for i := 0; i < Size; i++ {
		addr := v.Base + uint16(i)
		b, err := v.Device.ReadByte(addr)
		if err != nil {
			errs.Add(fmt.Errorf("read 0x%04x: %w", addr, err))
		} else {
			pw[i] = b
		}
		v.settle()
	}
	return pw, errs.Aggregate()
}

func (v *Vault) settle() {
	if v.Settle > 0 {
		time.Sleep(v.Settle)
	}
}

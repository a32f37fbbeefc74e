// Package events carries observable changes of the control unit to
// monitoring sinks.
package events

import (
	"fmt"
	"time"

	"github.com/golang/protobuf/proto"
)

// Kind identifies what happened.
type Kind int32

// Event kinds.
const (
	KindUnknown Kind = iota
	// KindProvisioned: a password pair was compared during provisioning.
	// Status holds MATCHED or MISMATCHED.
	KindProvisioned
	// KindVerified: a candidate was checked. Status holds the status byte
	// sent to the remote unit.
	KindVerified
	// KindDoor: the door task changed state (Door).
	KindDoor
	// KindAlarm: the alarm was switched (Alarm, Ticks, Mistakes).
	KindAlarm
	// KindMistake: a failed verification was counted (Mistakes).
	KindMistake
	// KindUnknownCommand: an action byte other than open/change (Status).
	KindUnknownCommand
	// KindStoreError: the persistent store reported a failure (Error).
	KindStoreError
)

var kindNames = map[Kind]string{
	KindUnknown:        "UNKNOWN",
	KindProvisioned:    "PROVISIONED",
	KindVerified:       "VERIFIED",
	KindDoor:           "DOOR",
	KindAlarm:          "ALARM",
	KindMistake:        "MISTAKE",
	KindUnknownCommand: "UNKNOWN_COMMAND",
	KindStoreError:     "STORE_ERROR",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KIND_%d", int32(k))
}

// Event is the wire message, see events.proto.
type Event struct {
	Kind      Kind   `protobuf:"varint,1,opt,name=kind,proto3" json:"kind,omitempty"`
	Unit      string `protobuf:"bytes,2,opt,name=unit,proto3" json:"unit,omitempty"`
	Status    uint32 `protobuf:"varint,3,opt,name=status,proto3" json:"status,omitempty"`
	Door      int32  `protobuf:"varint,4,opt,name=door,proto3" json:"door,omitempty"`
	Alarm     bool   `protobuf:"varint,5,opt,name=alarm,proto3" json:"alarm,omitempty"`
	Mistakes  uint32 `protobuf:"varint,6,opt,name=mistakes,proto3" json:"mistakes,omitempty"`
	Ticks     uint32 `protobuf:"varint,7,opt,name=ticks,proto3" json:"ticks,omitempty"`
	Error     string `protobuf:"bytes,8,opt,name=error,proto3" json:"error,omitempty"`
	Timestamp int64  `protobuf:"varint,9,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
}

// Reset implements proto.Message.
func (m *Event) Reset() { *m = Event{} }

// String implements proto.Message.
func (m *Event) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*Event) ProtoMessage() {}

// New creates an Event of kind stamped with the current time.
func New(kind Kind) *Event {
	return &Event{Kind: kind, Timestamp: time.Now().UnixNano()}
}

// Time returns the event timestamp.
func (m *Event) Time() time.Time {
	return time.Unix(0, m.Timestamp)
}

// Encode encodes the event to bytes.
func (m *Event) Encode() ([]byte, error) {
	return proto.Marshal(m)
}

// Decode decodes an Event from bytes.
func Decode(data []byte) (*Event, error) {
	var ev Event
	if err := proto.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

package handshake

import "fmt"

// Command is a single-byte opcode on the link.
type Command byte

// Protocol primitives.
const (
	ReadyToSend    Command = '$'
	ReadyToReceive Command = '&'
	ReceiveDone    Command = '@'
)

// Requests from the remote unit.
const (
	SendFirstPassword   Command = '^'
	SendConfirmPassword Command = '?'
	SendCheckPassword   Command = ','
	OpenDoor            Command = '+'
	ChangePassword      Command = '-'
)

// Status replies from the control unit.
const (
	OpeningDoor      Command = ')'
	ChangingPassword Command = '('
	WrongPassword    Command = '_'
	Mismatched       Command = 0
	Matched          Command = 1
)

var commandNames = map[Command]string{
	ReadyToSend:         "READY_TO_SEND",
	ReadyToReceive:      "READY_TO_RECEIVE",
	ReceiveDone:         "RECEIVE_DONE",
	SendFirstPassword:   "SEND_FIRST_PASSWORD",
	SendConfirmPassword: "SEND_CONFIRM_PASSWORD",
	SendCheckPassword:   "SEND_CHECK_PASSWORD",
	OpenDoor:            "OPEN_DOOR",
	ChangePassword:      "CHANGE_PASSWORD",
	OpeningDoor:         "OPENING_DOOR",
	ChangingPassword:    "CHANGING_PASSWORD",
	WrongPassword:       "WRONG_PASSWORD",
	Mismatched:          "MISMATCHED",
	Matched:             "MATCHED",
}

// String implements fmt.Stringer.
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("0x%02x", byte(c))
}

// IsAction tells whether the command is an action the remote unit may
// request after a check password.
func (c Command) IsAction() bool {
	return c == OpenDoor || c == ChangePassword
}

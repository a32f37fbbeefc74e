package sh

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/doorlock/pkg/handshake"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		arg string
		cmd handshake.Command
	}{
		{"+", handshake.OpenDoor},
		{"0x2d", handshake.ChangePassword},
		{"1", handshake.Command('1')},
		{"01", handshake.Matched},
		{"95", handshake.WrongPassword},
	}
	for _, c := range cases {
		cmd, err := ParseCommand(c.arg)
		require.NoError(t, err, c.arg)
		require.Equal(t, c.cmd, cmd, c.arg)
	}
	for _, bad := range []string{"", "0x100", "xyz"} {
		_, err := ParseCommand(bad)
		require.Error(t, err, bad)
	}
}

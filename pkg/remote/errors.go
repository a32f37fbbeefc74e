package remote

import (
	"fmt"

	"github.com/robotalks/doorlock/pkg/handshake"
)

// UnexpectedReplyError is returned when the control unit replies with a
// command outside of those defined for the request.
type UnexpectedReplyError struct {
	Request handshake.Command
	Reply   handshake.Command
}

// Error implements error.
func (e *UnexpectedReplyError) Error() string {
	return fmt.Sprintf("unexpected reply %s to %s", e.Reply, e.Request)
}

package link

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownScheme indicates the link URL scheme is not supported.
	ErrUnknownScheme = errors.New("unknown link scheme")
)

// OpenError wraps a failure to open a link.
type OpenError struct {
	URL string
	Err error
}

// Error implements error.
func (e *OpenError) Error() string {
	return fmt.Sprintf("open link %s: %v", e.URL, e.Err)
}

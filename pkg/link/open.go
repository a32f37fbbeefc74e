package link

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Open opens a link from URL:
//
//	serial:///dev/ttyUSB0?baud=9600
//	ws://host:port/path          dial a listening peer
//	ws+listen://:8080/path       accept one peer
func Open(ctx context.Context, rawURL string) (*Stream, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &OpenError{URL: rawURL, Err: err}
	}
	switch u.Scheme {
	case "serial":
		baud := DefaultBaudRate
		if val := u.Query().Get("baud"); val != "" {
			if baud, err = strconv.Atoi(val); err != nil {
				return nil, &OpenError{URL: rawURL, Err: fmt.Errorf("invalid baud %q", val)}
			}
		}
		port := u.Path
		if port == "" {
			port = u.Opaque
		}
		return OpenSerial(port, baud)
	case "ws", "wss":
		return DialWebsocket(rawURL)
	case "ws+listen":
		path := u.Path
		if path == "" {
			path = "/"
		}
		return ListenWebsocket(ctx, u.Host, path)
	default:
		return nil, &OpenError{URL: rawURL, Err: ErrUnknownScheme}
	}
}

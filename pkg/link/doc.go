// Package link provides the byte transport between the control unit and
// the remote unit.
package link

// The link is a bare, half-duplex byte channel (a UART on the reference
// hardware). It provides no framing, no error detection and no timeout:
// units of transfer and flow control are built on top of it by the
// handshake package.

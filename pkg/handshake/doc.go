// Package handshake provides the command exchange between the control
// unit and the remote unit.
package handshake

// Every command byte crosses the link inside a four-step rendezvous:
//
//	sender                 receiver
//	READY_TO_SEND    --->
//	                 <---  READY_TO_RECEIVE
//	payload          --->
//	                 <---  RECEIVE_DONE
//
// The rendezvous gives the bare byte channel flow control. It does not
// detect corruption: a lost or garbled control byte leaves the waiting
// side blocked, as the waits discard anything but the byte they expect.
//
// Passwords follow a command as Size raw bytes without handshake, paced
// by a fixed delay so the sender's transmit buffer isn't overrun.

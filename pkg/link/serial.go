package link

import (
	"go.bug.st/serial"
)

// DefaultBaudRate is the baud rate of the reference UART configuration.
const DefaultBaudRate = 9600

// OpenSerial opens a serial port with 8 data bits, no parity and one stop bit.
func OpenSerial(portName string, baudRate int) (*Stream, error) {
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, &OpenError{URL: "serial://" + portName, Err: err}
	}
	return NewStream(port), nil
}

// ListSerialPorts lists serial ports available on the system.
func ListSerialPorts() ([]string, error) {
	return serial.GetPortsList()
}

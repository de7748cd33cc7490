package serial

import (
	"io"

	goserial "github.com/jacobsa/go-serial/serial"
)

// Options of the UART device.
type Options struct {
	PortName string
	BaudRate uint
}

// Open opens the UART device in raw 8N1 mode.
func Open(opts Options) (io.ReadWriteCloser, error) {
	return goserial.Open(goserial.OpenOptions{
		PortName:        opts.PortName,
		BaudRate:        opts.BaudRate,
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
		ParityMode:      goserial.PARITY_NONE,
	})
}

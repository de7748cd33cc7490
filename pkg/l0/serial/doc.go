// Package serial provides the non-blocking byte transport between the UART
// and the navigation receiver.
package serial

// The Transport owns a receive and a transmit ring buffer. Hardware events
// are modelled as two handlers:
//
//   OnByteReceived  - a byte arrived, runs in interrupt context (producer of rx)
//   OnTransmitReady - the transmitter can take a byte (consumer of tx)
//
// The poll loop is the consumer of rx and the producer of tx. Neither side
// ever blocks; a full rx drops and counts the byte, an empty tx leaves the
// transmitter idle.
//
// Port plays the interrupt role against an io.ReadWriter, e.g. a UART
// device opened with Open.

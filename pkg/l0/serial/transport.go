package serial

import (
	"github.com/robotalks/navrx/pkg/l0/ring"
)

// NoByte is returned by NextByte when nothing is buffered.
const NoByte byte = 0

// Transport pairs the rx and tx ring buffers with the hardware handlers.
type Transport struct {
	rx *ring.Buffer
	tx *ring.Buffer
}

// NewTransport creates a Transport with the specified buffer capacities.
func NewTransport(rxCap, txCap int) *Transport {
	return &Transport{
		rx: ring.New(rxCap),
		tx: ring.New(txCap),
	}
}

// OnByteReceived is the receive interrupt handler.
// A byte that doesn't fit is dropped and counted.
func (t *Transport) OnByteReceived(b byte) {
	t.rx.Push(b)
}

// OnTransmitReady is the transmit interrupt handler. It returns the next
// byte to hand to hardware, ok is false if the transmitter should stay idle.
func (t *Transport) OnTransmitReady() (b byte, ok bool) {
	return t.tx.Pop()
}

// HasByte implements ubx.ByteSource.
func (t *Transport) HasByte() bool {
	return !t.rx.IsEmpty()
}

// NextByte implements ubx.ByteSource. It returns NoByte when empty,
// callers are expected to check HasByte first.
func (t *Transport) NextByte() byte {
	b, ok := t.rx.Pop()
	if !ok {
		return NoByte
	}
	return b
}

// TrySend queues a byte for transmitting.
func (t *Transport) TrySend(b byte) bool {
	return t.tx.Push(b)
}

// TrySendAll queues all bytes or none of them.
// Only the poll side produces into tx, so free space can only grow
// between the check and the pushes.
func (t *Transport) TrySendAll(p []byte) error {
	if t.tx.Free() < len(p) {
		return ErrSendQueueFull
	}
	for _, b := range p {
		t.tx.Push(b)
	}
	return nil
}

// IsSendQueueEmpty indicates everything queued has been handed to hardware.
func (t *Transport) IsSendQueueEmpty() bool {
	return t.tx.IsEmpty()
}

// RxOverflow returns the number of received bytes dropped.
func (t *Transport) RxOverflow() uint32 {
	return t.rx.Overflow()
}

// TxOverflow returns the number of bytes refused by TrySend.
func (t *Transport) TxOverflow() uint32 {
	return t.tx.Overflow()
}

// Buffered returns the number of received bytes waiting to be polled.
func (t *Transport) Buffered() int {
	return t.rx.Len()
}

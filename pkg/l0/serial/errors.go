package serial

import "errors"

var (
	// ErrSendQueueFull indicates the transmit queue can't take the whole frame.
	ErrSendQueueFull = errors.New("send queue full")
)

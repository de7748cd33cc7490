package gps

import "errors"

var (
	// ErrNoSink indicates the receiver has nowhere to send requests.
	ErrNoSink = errors.New("no transmit sink")
)

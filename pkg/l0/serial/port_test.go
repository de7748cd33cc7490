package serial

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type chanReadWriter struct {
	readCh chan []byte
	lock   sync.Mutex
	out    []byte
}

func (c *chanReadWriter) Read(p []byte) (int, error) {
	data, ok := <-c.readCh
	if !ok {
		return 0, io.EOF
	}
	return copy(p, data), nil
}

func (c *chanReadWriter) Write(p []byte) (int, error) {
	c.lock.Lock()
	c.out = append(c.out, p...)
	c.lock.Unlock()
	return len(p), nil
}

func (c *chanReadWriter) written() []byte {
	c.lock.Lock()
	defer c.lock.Unlock()
	return append([]byte(nil), c.out...)
}

func waitFor(t *testing.T, cond func() bool) {
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition timeout")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestPortPump(t *testing.T) {
	rw := &chanReadWriter{readCh: make(chan []byte)}
	tr := NewTransport(16, 16)
	port := NewPort(rw, tr)
	port.DrainInterval = time.Millisecond

	ctx, cancel := context.WithCancel(context.TODO())
	errCh := make(chan error, 1)
	go func() { errCh <- port.Run(ctx) }()

	rw.readCh <- []byte{0xb5, 0x62, 0x01}
	waitFor(t, func() bool { return tr.Buffered() == 3 })
	require.Equal(t, byte(0xb5), tr.NextByte())

	require.NoError(t, tr.TrySendAll([]byte{9, 8, 7}))
	waitFor(t, func() bool { return len(rw.written()) == 3 })
	require.Equal(t, []byte{9, 8, 7}, rw.written())
	require.True(t, tr.IsSendQueueEmpty())

	cancel()
	require.Equal(t, context.Canceled, <-errCh)
}

func TestPortEOF(t *testing.T) {
	rw := &chanReadWriter{readCh: make(chan []byte)}
	tr := NewTransport(16, 16)
	port := NewPort(rw, tr)
	close(rw.readCh)
	require.Equal(t, io.EOF, port.Run(context.TODO()))
}

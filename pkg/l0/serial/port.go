package serial

import (
	"context"
	"io"
	"time"

	"github.com/golang/glog"
)

// Port pumps bytes between an io.ReadWriter and a Transport,
// standing in for the UART receive and transmit interrupts.
type Port struct {
	ReadWriter io.ReadWriter
	Transport  *Transport
	// DrainInterval is how often the transmit queue is flushed.
	DrainInterval time.Duration
	// ReadSize is the maximum chunk read from ReadWriter at once.
	ReadSize int
}

// NewPort creates a Port.
func NewPort(rw io.ReadWriter, t *Transport) *Port {
	return &Port{
		ReadWriter:    rw,
		Transport:     t,
		DrainInterval: 10 * time.Millisecond,
		ReadSize:      64,
	}
}

// Run implements framework.Runnable.
func (p *Port) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go p.readLoop(subCtx, errCh)

	interval := p.DrainInterval
	if interval <= 0 {
		interval = 10 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			return err
		case <-ticker.C:
			if err := p.drain(); err != nil {
				return err
			}
		}
	}
}

func (p *Port) readLoop(ctx context.Context, errCh chan error) {
	size := p.ReadSize
	if size <= 0 {
		size = 1
	}
	buf := make([]byte, size)
	for {
		n, err := p.ReadWriter.Read(buf)
		for _, b := range buf[:n] {
			p.Transport.OnByteReceived(b)
		}
		if err != nil {
			if err != io.EOF {
				glog.Warningf("serial read error: %v", err)
			}
			errCh <- err
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

func (p *Port) drain() error {
	var out []byte
	for {
		b, ok := p.Transport.OnTransmitReady()
		if !ok {
			break
		}
		out = append(out, b)
	}
	if len(out) == 0 {
		return nil
	}
	glog.V(3).Infof("serial TX %d bytes", len(out))
	_, err := p.ReadWriter.Write(out)
	return err
}

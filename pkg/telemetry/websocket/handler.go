// Package websocket streams telemetry snapshots to websocket clients as JSON.
package websocket

import (
	"context"
	"net/http"
	"time"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/navrx/pkg/telemetry"
)

// SnapshotLoader provides the latest snapshot, nil if none yet.
type SnapshotLoader interface {
	Load() *telemetry.Snapshot
}

// Handler sends the latest snapshot to each client at a fixed interval.
type Handler struct {
	Latest   SnapshotLoader
	Interval time.Duration
}

// NewHandler creates a Handler.
func NewHandler(latest SnapshotLoader) *Handler {
	return &Handler{Latest: latest, Interval: time.Second}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	websocket.Handler(h.serve).ServeHTTP(w, req)
}

func (h *Handler) serve(conn *websocket.Conn) {
	defer conn.Close()
	glog.V(2).Infof("websocket client %s connected", conn.Request().RemoteAddr)
	interval := h.Interval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		var discard []byte
		for websocket.Message.Receive(conn, &discard) == nil {
		}
	}()
	var last int64
	for {
		if s := h.Latest.Load(); s != nil && s.TimestampMs != last {
			last = s.TimestampMs
			if err := websocket.JSON.Send(conn, s); err != nil {
				glog.V(2).Infof("websocket client %s: %v", conn.Request().RemoteAddr, err)
				return
			}
		}
		select {
		case <-ticker.C:
		case <-closed:
			glog.V(2).Infof("websocket client %s disconnected", conn.Request().RemoteAddr)
			return
		}
	}
}

// Server serves Handler on an address.
type Server struct {
	Addr    string
	Handler *Handler
}

// Run implements framework.Runnable.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/telemetry", s.Handler)
	srv := &http.Server{Addr: s.Addr, Handler: mux}
	errCh := make(chan error, 1)
	go func() {
		glog.Infof("websocket telemetry on %s/telemetry", s.Addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case <-ctx.Done():
		srv.Close()
		<-errCh
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

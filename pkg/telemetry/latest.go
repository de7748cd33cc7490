package telemetry

import (
	"sync/atomic"
	"time"

	fx "github.com/robotalks/navrx/pkg/framework"
)

// Source produces snapshots, it's only called inside the control loop.
type Source interface {
	Snapshot(now time.Time) *Snapshot
}

// Latest keeps the snapshot of the last tick for readers outside the loop.
type Latest struct {
	Source Source

	value atomic.Pointer[Snapshot]
}

// NewLatest creates a Latest.
func NewLatest(src Source) *Latest {
	return &Latest{Source: src}
}

// AddToLoop implements LoopAdder.
func (l *Latest) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvPublish, l)
}

// Control implements Controller.
func (l *Latest) Control(cc fx.ControlContext) error {
	l.value.Store(l.Source.Snapshot(cc.Time()))
	return nil
}

// Load returns the latest snapshot, nil before the first tick.
// The returned snapshot must not be modified.
func (l *Latest) Load() *Snapshot {
	return l.value.Load()
}

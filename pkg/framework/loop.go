package framework

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/golang/glog"
)

// DefaultInterval is the tick interval of NewLoop.
const DefaultInterval = 10 * time.Millisecond

// LoopAdder knows how to add itself to a loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}

// Loop ticks controllers by priority at a fixed interval, and runs the
// attached Runnables for its lifetime.
type Loop struct {
	Interval time.Duration

	levels   [PriorityLevels][]Controller
	runnable []Runnable

	lock    sync.Mutex
	pending []Message
	wakeCh  chan struct{}
}

// NewLoop creates a Loop with DefaultInterval.
func NewLoop() *Loop {
	return &Loop{Interval: DefaultInterval}
}

// Add calls AddToLoop of each adder.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddController adds controllers at a priority level. Controllers also
// implementing Runnable are run with the loop.
func (l *Loop) AddController(level int, ctls ...Controller) *Loop {
	for _, ctl := range ctls {
		l.levels[level] = append(l.levels[level], ctl)
		if r, ok := ctl.(Runnable); ok {
			l.runnable = append(l.runnable, r)
		}
	}
	return l
}

// AddRunnable adds Runnables started by Run.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runnable = append(l.runnable, runnables...)
	return l
}

// Run implements Runnable.
func (l *Loop) Run(ctx context.Context) error {
	wakeCh := l.wakeChan()
	runner := NewRunnerWith(ctx).Go(l.runnable...)
	defer func() {
		runner.Stop()
		if err := runner.Wait(); err != nil {
			glog.Errorf("loop runners: %v", err)
		}
	}()

	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-wakeCh:
		}
		l.RunIteration(ctx)
	}
}

// RunOrFail runs the loop in main until it fails.
func (l *Loop) RunOrFail() {
	if err := l.Run(context.Background()); err != nil {
		log.Fatalln(err)
	}
}

// PostMessage implements LoopControl.
func (l *Loop) PostMessage(msg Message) {
	l.lock.Lock()
	l.pending = append(l.pending, msg)
	l.lock.Unlock()
}

// TriggerNext implements LoopControl.
func (l *Loop) TriggerNext() {
	select {
	case l.wakeChan() <- struct{}{}:
	default:
	}
}

func (l *Loop) wakeChan() chan struct{} {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.wakeCh == nil {
		l.wakeCh = make(chan struct{}, 1)
	}
	return l.wakeCh
}

// RunIteration runs a single tick, Run calls it on each tick.
func (l *Loop) RunIteration(ctx context.Context) {
	t := &tick{Loop: l, ctx: ctx, time: time.Now()}
	l.lock.Lock()
	t.inbox, l.pending = l.pending, nil
	l.lock.Unlock()
	for level, ctls := range l.levels {
		t.level = level
		for _, ctl := range ctls {
			if err := ctl.Control(t); err != nil {
				glog.Errorf("controller at level %d: %v", level, err)
			}
		}
	}
	if n := len(t.inbox); n > 0 {
		glog.V(2).Infof("%d messages not taken, dropped", n)
	}
}

// tick implements ControlContext and Inbox.
type tick struct {
	*Loop
	ctx   context.Context
	time  time.Time
	level int
	inbox []Message
}

func (t *tick) Context() context.Context { return t.ctx }
func (t *tick) Time() time.Time          { return t.time }
func (t *tick) PriorityLevel() int       { return t.level }
func (t *tick) Inbox() Inbox             { return t }
func (t *tick) Len() int                 { return len(t.inbox) }

func (t *tick) Take(fn func(Message) bool) {
	remains := t.inbox[:0]
	for _, msg := range t.inbox {
		if !fn(msg) {
			remains = append(remains, msg)
		}
	}
	t.inbox = remains
}

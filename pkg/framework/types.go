// Package framework provides the control loop the drivers are ticked by.
package framework

import (
	"context"
	"time"
)

// Named is implemented by things having a name in logs.
type Named interface {
	Name() string
}

// Runnable is a background task stopped by canceling its context.
type Runnable interface {
	Run(context.Context) error
}

// RunFunc is the func form of Runnable.
type RunFunc func(context.Context) error

// Run implements Runnable.
func (f RunFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Message is anything posted to the loop for controllers to take.
type Message interface{}

// Controller is called once per tick.
type Controller interface {
	Control(ControlContext) error
}

// ControlFunc is the func form of Controller.
type ControlFunc func(ControlContext) error

// Control implements Controller.
func (f ControlFunc) Control(cc ControlContext) error {
	return f(cc)
}

// ControlContext is what a Controller sees of the current tick.
type ControlContext interface {
	LoopControl
	// Time is when the tick started, the same for all controllers.
	Time() time.Time
	Context() context.Context
	PriorityLevel() int
	// Inbox holds messages posted before the tick started.
	Inbox() Inbox
}

// Inbox holds the messages of a tick not taken yet. Messages left after
// the last controller are dropped.
type Inbox interface {
	// Take calls fn on each message in order, and removes the ones
	// fn returns true for.
	Take(fn func(Message) bool)
	Len() int
}

// LoopControl is safe to use from any goroutine.
type LoopControl interface {
	// PostMessage queues msg for the next tick.
	PostMessage(msg Message)
	// TriggerNext starts the next tick without waiting for the interval.
	TriggerNext()
}

// PriorityLevels is the number of priority levels, 0 runs first.
const PriorityLevels = 16

// Priority levels.
const (
	PrLvTop    = 0
	PrLvHigh   = 4
	PrLvNormal = 8
	PrLvLow    = 12
	PrLvIdle   = PriorityLevels - 1

	// PrLvSense is for drivers reading hardware.
	PrLvSense = PrLvHigh
	// PrLvPublish is for exporting the state after sensing.
	PrLvPublish = PrLvLow
)

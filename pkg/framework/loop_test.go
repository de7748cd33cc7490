package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recorder struct {
	order []string
}

func (r *recorder) ctl(name string) Controller {
	return ControlFunc(func(ctx ControlContext) error {
		r.order = append(r.order, name)
		return nil
	})
}

func TestLoopPriority(t *testing.T) {
	var r recorder
	loop := NewLoop().
		AddController(PrLvPublish, r.ctl("publish")).
		AddController(PrLvSense, r.ctl("sense1"), r.ctl("sense2")).
		AddController(PrLvIdle, ControlFunc(func(ControlContext) error { return errors.New("ignored") }))
	loop.RunIteration(context.TODO())
	require.Equal(t, []string{"sense1", "sense2", "publish"}, r.order)
}

func TestLoopMessages(t *testing.T) {
	var got []Message
	loop := NewLoop()
	loop.AddController(PrLvSense, ControlFunc(func(ctx ControlContext) error {
		ctx.Inbox().Take(func(msg Message) bool {
			if n, ok := msg.(int); ok {
				got = append(got, n)
				return true
			}
			return false
		})
		return nil
	}))
	var seen []Message
	var lens []int
	loop.AddController(PrLvPublish, ControlFunc(func(ctx ControlContext) error {
		lens = append(lens, ctx.Inbox().Len())
		ctx.Inbox().Take(func(msg Message) bool {
			seen = append(seen, msg)
			return false
		})
		return nil
	}))

	loop.PostMessage(1)
	loop.PostMessage("text")
	loop.PostMessage(2)
	loop.RunIteration(context.TODO())
	require.Equal(t, []Message{1, 2}, got)
	require.Equal(t, []Message{"text"}, seen)

	loop.RunIteration(context.TODO())
	require.Len(t, got, 2)
	require.Len(t, seen, 1)
	require.Equal(t, []int{1, 0}, lens)
}

func TestLoopRun(t *testing.T) {
	ticks := make(chan struct{}, 1)
	loop := NewLoop()
	loop.AddController(PrLvSense, ControlFunc(func(ControlContext) error {
		select {
		case ticks <- struct{}{}:
		default:
		}
		return nil
	}))
	ctx, cancel := context.WithCancel(context.TODO())
	errCh := make(chan error, 1)
	go func() { errCh <- loop.Run(ctx) }()
	<-ticks
	<-ticks
	cancel()
	require.Equal(t, context.Canceled, <-errCh)
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Add(nil).Aggregate())
	err := errs.Add(errors.New("a"), nil, errors.New("b")).Aggregate()
	require.Error(t, err)
	require.Equal(t, "2 errors: a; b", err.Error())

	var single AggregatedError
	require.Equal(t, "a", single.Add(errors.New("a")).Error())
}

func TestLoopRunnablesAndTrigger(t *testing.T) {
	started, stopped := make(chan struct{}), make(chan struct{})
	ticks := make(chan struct{}, 4)
	loop := NewLoop()
	loop.Interval = time.Hour
	loop.AddController(PrLvSense, ControlFunc(func(ControlContext) error {
		ticks <- struct{}{}
		return nil
	}))
	loop.AddRunnable(NamedRun("bg", RunFunc(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		close(stopped)
		return ctx.Err()
	})))
	loop.TriggerNext()

	ctx, cancel := context.WithCancel(context.TODO())
	errCh := make(chan error, 1)
	go func() { errCh <- loop.Run(ctx) }()
	<-started
	<-ticks
	cancel()
	require.Equal(t, context.Canceled, <-errCh)
	<-stopped
}

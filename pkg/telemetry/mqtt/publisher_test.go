package mqtt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/navrx/pkg/framework"
	"github.com/robotalks/navrx/pkg/telemetry"
)

type published struct {
	topic   string
	payload []byte
}

type fakeOut struct {
	msgs []published
}

func (q *fakeOut) Pub(topic string, payload []byte) {
	q.msgs = append(q.msgs, published{topic, payload})
}

type counterSource struct {
	n uint32
}

func (s *counterSource) Snapshot(now time.Time) *telemetry.Snapshot {
	s.n++
	return &telemetry.Snapshot{Frames: s.n, Connected: true}
}

type tickContext struct {
	fx.ControlContext
	now time.Time
}

func (c *tickContext) Time() time.Time { return c.now }

func TestPublisherInterval(t *testing.T) {
	q := &fakeOut{}
	p := &Publisher{
		Out:      q,
		Source:   &counterSource{},
		DeviceID: "dev1",
		Interval: time.Second,
	}
	start := time.Unix(1700000000, 0)
	for _, offset := range []time.Duration{0, 100 * time.Millisecond, 999 * time.Millisecond, time.Second, 1500 * time.Millisecond, 2 * time.Second} {
		require.NoError(t, p.Control(&tickContext{now: start.Add(offset)}))
	}
	require.Len(t, q.msgs, 3)
	for n, msg := range q.msgs {
		require.Equal(t, "navrx/dev1/telemetry", msg.topic)
		s, err := telemetry.Decode(msg.payload)
		require.NoError(t, err)
		require.Equal(t, uint32(n+1), s.Frames)
		require.True(t, s.Connected)
	}
}

func TestPublisherInLoop(t *testing.T) {
	q := &fakeOut{}
	p := &Publisher{Out: q, Source: &counterSource{}, DeviceID: "dev1"}
	loop := fx.NewLoop().Add(p)
	loop.RunIteration(context.TODO())
	require.Len(t, q.msgs, 1)
}

func TestTopics(t *testing.T) {
	require.Equal(t, "navrx/x/telemetry", TelemetryTopic("x"))
	require.Equal(t, "navrx/x/status", StatusTopic("x"))
}

package gps

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/navrx/pkg/framework"
	"github.com/robotalks/navrx/pkg/l0/serial"
	"github.com/robotalks/navrx/pkg/l0/ubx"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

type receiverTestEnv struct {
	t         *testing.T
	clock     *fakeClock
	transport *serial.Transport
	receiver  *Receiver
}

func newReceiverTestEnv(t *testing.T) *receiverTestEnv {
	e := &receiverTestEnv{
		t:         t,
		clock:     &fakeClock{now: time.Unix(1700000000, 0)},
		transport: serial.NewTransport(512, 64),
	}
	timer := &ClockTimer{Now: e.clock.Now}
	e.receiver = NewReceiver(e.transport, timer).WithSink(e.transport)
	return e
}

func (e *receiverTestEnv) inject(frames ...[]byte) *receiverTestEnv {
	for _, f := range frames {
		for _, b := range f {
			e.transport.OnByteReceived(b)
		}
	}
	return e
}

func (e *receiverTestEnv) settle() *receiverTestEnv {
	for i := 0; i < 10000; i++ {
		if !e.receiver.hasWork() {
			return e
		}
		e.receiver.Poll()
	}
	e.t.Fatal("receiver didn't settle")
	return e
}

func TestReceiverInitialState(t *testing.T) {
	e := newReceiverTestEnv(t)
	r := e.receiver
	require.True(t, r.IsInitialized())
	require.False(t, (&Receiver{}).IsInitialized())
	require.False(t, r.HasFix())
	require.False(t, r.HasPosition())
	require.False(t, r.IsConnected())
	require.Zero(t, r.Latitude())
	r.Poll()
	require.False(t, r.IsConnected())
}

func TestReceiverPosition(t *testing.T) {
	e := newReceiverTestEnv(t)
	e.inject(ubx.Encode(ubx.ClassNAV, ubx.IDNavPosLLH, ubx.PosLLHPayload(1, 2, 3))).settle()
	r := e.receiver
	require.True(t, r.HasPosition())
	raw := r.Raw()
	require.Equal(t, int32(1), raw.Longitude)
	require.Equal(t, int32(2), raw.Latitude)
	require.Equal(t, int32(3), raw.Altitude)
	require.InDelta(t, 1e-7, r.Longitude(), 1e-15)
	require.InDelta(t, 2e-7, r.Latitude(), 1e-15)
	require.InDelta(t, 0.003, r.Altitude(), 1e-12)
	require.True(t, r.IsConnected())
}

func TestReceiverTelemetry(t *testing.T) {
	e := newReceiverTestEnv(t)
	e.inject(
		[]byte{0x00, 0x13, 0xb5},
		ubx.Encode(ubx.ClassNAV, ubx.IDNavStatus, ubx.StatusPayload(ubx.Fix3D)),
		ubx.Encode(ubx.ClassNAV, ubx.IDNavPosLLH, ubx.PosLLHPayload(-1219876543, 372345678, 15250)),
		ubx.Encode(ubx.ClassNAV, ubx.IDNavVelNED, ubx.VelNEDPayload(-150, 230, 9012345)),
	).settle()
	r := e.receiver
	require.True(t, r.HasFix())
	require.Equal(t, ubx.Fix3D, r.FixStatus())
	require.InDelta(t, 37.2345678, r.Latitude(), 1e-9)
	require.InDelta(t, -121.9876543, r.Longitude(), 1e-9)
	require.InDelta(t, 15.25, r.Altitude(), 1e-9)
	require.Equal(t, int32(-150), r.NorthVelocity())
	require.Equal(t, int32(230), r.EastVelocity())
	require.Equal(t, int32(9012345), r.Heading())
	require.InDelta(t, 90.12345, HeadingToDegrees(r.Heading()), 1e-9)
	require.InDelta(t, -1.5, CentimetersToMeters(r.NorthVelocity()), 1e-9)

	stats := r.Stats()
	require.Equal(t, uint32(3), stats.Frames)
	require.Equal(t, uint32(7), stats.FieldsDecoded)
	require.NotZero(t, stats.SyncErrors)
}

func TestReceiverErrorCorrection(t *testing.T) {
	const lat, lon int32 = 372345678, -1219876543
	const dLat, dLon int32 = 1234, -5678
	e := newReceiverTestEnv(t)
	e.inject(ubx.Encode(ubx.ClassNAV, ubx.IDNavPosLLH, ubx.PosLLHPayload(lon, lat, 0))).settle()
	r := e.receiver

	r.SetLatitudeErrorOffset(dLat)
	r.SetLongitudeErrorOffset(dLon)
	require.InDelta(t, CoordinateToDegrees(lat), r.Latitude(), 1e-12)
	require.InDelta(t, CoordinateToDegrees(lon), r.Longitude(), 1e-12)

	r.EnableErrorCorrection()
	require.True(t, r.Correction().Enabled)
	require.InDelta(t, CoordinateToDegrees(lat)-float64(dLat)*1e-7, r.Latitude(), 1e-12)
	require.InDelta(t, CoordinateToDegrees(lon)-float64(dLon)*1e-7, r.Longitude(), 1e-12)
	require.Equal(t, lat, r.Raw().Latitude)
	require.Equal(t, lon, r.Raw().Longitude)

	r.DisableErrorCorrection()
	require.InDelta(t, CoordinateToDegrees(lat), r.Latitude(), 1e-12)
}

func TestReceiverCorrectionNoOverflow(t *testing.T) {
	e := newReceiverTestEnv(t)
	e.inject(ubx.Encode(ubx.ClassNAV, ubx.IDNavPosLLH, ubx.PosLLHPayload(0, -0x80000000, 0))).settle()
	r := e.receiver
	r.SetLatitudeErrorOffset(0x7fffffff)
	r.EnableErrorCorrection()
	require.InDelta(t, (-float64(0x80000000)-float64(0x7fffffff))/1e7, r.Latitude(), 1e-9)
}

func TestReceiverWatchdog(t *testing.T) {
	e := newReceiverTestEnv(t)
	r := e.receiver
	e.inject(ubx.Encode(ubx.ClassNAV, ubx.IDNavStatus, ubx.StatusPayload(ubx.Fix2D))).settle()
	require.True(t, r.IsConnected())

	e.clock.advance(4999 * time.Millisecond)
	r.Poll()
	require.True(t, r.IsConnected())

	// noise without a sync pair doesn't re-arm
	e.inject([]byte{0xb5, 0x00, 0x62}).settle()
	e.clock.advance(time.Millisecond)
	r.Poll()
	require.False(t, r.IsConnected())

	e.clock.advance(time.Hour)
	e.inject([]byte{0xb5, 0x62})
	for i := 0; i < 3; i++ {
		r.Poll()
	}
	require.True(t, r.IsConnected())

	e.clock.advance(4999 * time.Millisecond)
	r.Poll()
	require.True(t, r.IsConnected())
	e.clock.advance(time.Millisecond)
	r.Poll()
	require.False(t, r.IsConnected())
}

func TestReceiverRequestMessage(t *testing.T) {
	e := newReceiverTestEnv(t)
	require.NoError(t, e.receiver.RequestMessage(ubx.ClassNAV, ubx.IDNavPosLLH))
	var out []byte
	for {
		b, ok := e.transport.OnTransmitReady()
		if !ok {
			break
		}
		out = append(out, b)
	}
	require.Equal(t, []byte{0xb5, 0x62, 0x01, 0x02, 0x00, 0x00, 0x03, 0x0a}, out)

	for i := 0; i < 7; i++ {
		require.NoError(t, e.receiver.RequestMessage(ubx.ClassNAV, ubx.IDNavStatus))
	}
	require.Equal(t, serial.ErrSendQueueFull, e.receiver.RequestMessage(ubx.ClassNAV, ubx.IDNavStatus))

	r := NewReceiver(e.transport, NewClockTimer())
	require.Equal(t, ErrNoSink, r.RequestMessage(ubx.ClassNAV, ubx.IDNavStatus))
}

func TestReceiverRxOverflow(t *testing.T) {
	e := newReceiverTestEnv(t)
	e.inject(make([]byte, 600))
	require.Equal(t, uint32(600-511), e.receiver.Stats().RxOverflow)
}

func TestReceiverControl(t *testing.T) {
	e := newReceiverTestEnv(t)
	e.receiver.PollsPerTick = 16
	loop := fx.NewLoop().Add(e.receiver)

	frame := ubx.Encode(ubx.ClassNAV, ubx.IDNavPosLLH, ubx.PosLLHPayload(10, 20, 30))
	e.inject(frame)
	loop.PostMessage(&SetErrorOffsetMsg{Latitude: 5, Longitude: 3})
	loop.PostMessage(&SetCorrectionMsg{Enabled: true})
	loop.PostMessage(&PollRequestMsg{Class: ubx.ClassNAV, ID: ubx.IDNavVelNED})

	loop.RunIteration(context.TODO())
	require.Equal(t, len(frame)-15, e.transport.Buffered())
	require.Equal(t, ErrorCorrection{Latitude: 5, Longitude: 3, Enabled: true}, e.receiver.Correction())
	require.False(t, e.transport.IsSendQueueEmpty())

	for i := 0; i < 10 && e.receiver.hasWork(); i++ {
		loop.RunIteration(context.TODO())
	}
	require.True(t, e.receiver.HasPosition())
	require.InDelta(t, 15e-7, e.receiver.Latitude(), 1e-15)

	loop.PostMessage(&SetCorrectionMsg{Enabled: false})
	loop.RunIteration(context.TODO())
	require.False(t, e.receiver.Correction().Enabled)
}

func TestReceiverSnapshot(t *testing.T) {
	e := newReceiverTestEnv(t)
	e.inject(
		ubx.Encode(ubx.ClassNAV, ubx.IDNavStatus, ubx.StatusPayload(ubx.Fix3D)),
		ubx.Encode(ubx.ClassNAV, ubx.IDNavVelNED, ubx.VelNEDPayload(1, 2, 3)),
	).settle()
	s := e.receiver.Snapshot(e.clock.now)
	require.Equal(t, int64(1700000000000), s.TimestampMs)
	require.True(t, s.Connected)
	require.True(t, s.HasFix())
	require.False(t, s.HasPosition)
	require.Equal(t, int32(3), s.Heading)
	require.Equal(t, uint32(2), s.Frames)
}

func TestUnits(t *testing.T) {
	require.InDelta(t, 1.0, CoordinateToDegrees(10000000), 1e-12)
	require.InDelta(t, -0.5, MillimetersToMeters(-500), 1e-12)
	require.InDelta(t, 2.5, CentimetersToMeters(250), 1e-12)
	require.InDelta(t, 359.99999, HeadingToDegrees(35999999), 1e-9)
}

func TestClockTimer(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	timer := &ClockTimer{Now: clock.Now}
	require.False(t, timer.IsExpired())
	timer.Arm(10)
	require.False(t, timer.IsExpired())
	clock.advance(10 * time.Millisecond)
	require.True(t, timer.IsExpired())
	clock.advance(time.Second)
	require.True(t, timer.IsExpired())
	timer.Arm(10)
	require.False(t, timer.IsExpired())
}

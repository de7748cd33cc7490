// Package gps provides the navigation receiver driver of the vehicle.
package gps

import (
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/navrx/pkg/framework"
	"github.com/robotalks/navrx/pkg/l0/ubx"
	"github.com/robotalks/navrx/pkg/telemetry"
)

// DefaultWatchdogTimeout is how long the link stays connected without a sync pair.
const DefaultWatchdogTimeout uint32 = 5000

// DefaultPollsPerTick bounds the Poll calls of one loop tick.
const DefaultPollsPerTick = 64

// FrameSink queues bytes for transmitting, all or nothing.
type FrameSink interface {
	TrySendAll([]byte) error
}

type overflowCounter interface {
	RxOverflow() uint32
}

// ErrorCorrection holds the coordinate offsets applied at read time.
type ErrorCorrection struct {
	Latitude  int32
	Longitude int32
	Enabled   bool
}

// Stats aggregates counters of the receive path.
type Stats struct {
	ubx.FramerStats
	ubx.DecoderStats
	RxOverflow uint32
}

// Receiver owns the framer, decoder and telemetry of one navigation receiver.
//
// Poll and the setters mutate state and must be called from a single
// goroutine, normally the control loop via Control.
type Receiver struct {
	// Sink receives request frames, optional.
	Sink FrameSink
	// WatchdogTimeout in milliseconds.
	WatchdogTimeout uint32
	// PollsPerTick bounds the Poll calls in Control.
	PollsPerTick int

	source     ubx.ByteSource
	timer      HardwareTimer
	framer     *ubx.Framer
	decoder    *ubx.Decoder
	telemetry  ubx.Telemetry
	correction ErrorCorrection
	connected  bool
	logger     ubx.Logger
}

// NewReceiver creates a Receiver reading from src.
func NewReceiver(src ubx.ByteSource, timer HardwareTimer) *Receiver {
	r := &Receiver{
		WatchdogTimeout: DefaultWatchdogTimeout,
		PollsPerTick:    DefaultPollsPerTick,
		source:          src,
		timer:           timer,
		logger:          ubx.NopLogger,
	}
	r.decoder = ubx.NewDecoder(&r.telemetry)
	r.framer = ubx.NewFramer(src, r.decoder)
	r.framer.OnSync = r.setConnected
	return r
}

// WithLogger sets the logger of the receive path.
func (r *Receiver) WithLogger(logger ubx.Logger) *Receiver {
	r.logger = logger
	r.framer.Logger = logger
	r.decoder.Logger = logger
	return r
}

// WithSink sets the FrameSink.
func (r *Receiver) WithSink(sink FrameSink) *Receiver {
	r.Sink = sink
	return r
}

// IsInitialized indicates the receiver was created by NewReceiver.
func (r *Receiver) IsInitialized() bool {
	return r.framer != nil
}

// Framer exposes the underlying framer.
func (r *Receiver) Framer() *ubx.Framer {
	return r.framer
}

// Poll advances the frame state machine by one step and updates the
// connection state.
func (r *Receiver) Poll() {
	r.framer.Poll()
	if r.timer.IsExpired() && r.connected {
		r.connected = false
		r.logger.Warningf("navigation receiver disconnected")
	}
}

func (r *Receiver) setConnected() {
	if !r.connected {
		r.logger.Debugf("navigation receiver connected")
	}
	r.connected = true
	r.timer.Arm(r.WatchdogTimeout)
}

func (r *Receiver) hasWork() bool {
	return r.source.HasByte() || r.framer.Busy()
}

// HasFix indicates some fix type is reported.
func (r *Receiver) HasFix() bool {
	return r.telemetry.HasFix()
}

// FixStatus returns the raw fix type.
func (r *Receiver) FixStatus() byte {
	return r.telemetry.FixStatus
}

// HasPosition indicates a position has been decoded.
func (r *Receiver) HasPosition() bool {
	return r.telemetry.HasPosition
}

// Latitude in degrees, corrected when error correction is enabled.
func (r *Receiver) Latitude() float64 {
	return r.corrected(r.telemetry.Latitude, r.correction.Latitude)
}

// Longitude in degrees, corrected when error correction is enabled.
func (r *Receiver) Longitude() float64 {
	return r.corrected(r.telemetry.Longitude, r.correction.Longitude)
}

func (r *Receiver) corrected(raw, offset int32) float64 {
	v := int64(raw)
	if r.correction.Enabled {
		v -= int64(offset)
	}
	return float64(v) / CoordinateScale
}

// Altitude above mean sea level in meters.
func (r *Receiver) Altitude() float64 {
	return MillimetersToMeters(r.telemetry.Altitude)
}

// NorthVelocity in cm/s.
func (r *Receiver) NorthVelocity() int32 {
	return r.telemetry.NorthVelocity
}

// EastVelocity in cm/s.
func (r *Receiver) EastVelocity() int32 {
	return r.telemetry.EastVelocity
}

// Heading in 1e-5 degrees.
func (r *Receiver) Heading() int32 {
	return r.telemetry.Heading
}

// IsConnected reports whether a sync pair was seen within the watchdog timeout.
func (r *Receiver) IsConnected() bool {
	return r.connected
}

// Raw returns the stored raw telemetry.
func (r *Receiver) Raw() ubx.Telemetry {
	return r.telemetry
}

// SetLatitudeErrorOffset sets the latitude offset in 1e-7 degrees.
func (r *Receiver) SetLatitudeErrorOffset(v int32) {
	r.correction.Latitude = v
}

// SetLongitudeErrorOffset sets the longitude offset in 1e-7 degrees.
func (r *Receiver) SetLongitudeErrorOffset(v int32) {
	r.correction.Longitude = v
}

// EnableErrorCorrection applies offsets to Latitude and Longitude.
func (r *Receiver) EnableErrorCorrection() {
	r.correction.Enabled = true
}

// DisableErrorCorrection stops applying offsets.
func (r *Receiver) DisableErrorCorrection() {
	r.correction.Enabled = false
}

// Correction returns the error correction settings.
func (r *Receiver) Correction() ErrorCorrection {
	return r.correction
}

// Stats returns the counters of the receive path.
func (r *Receiver) Stats() Stats {
	s := Stats{
		FramerStats:  r.framer.Stats(),
		DecoderStats: r.decoder.Stats(),
	}
	if c, ok := r.source.(overflowCounter); ok {
		s.RxOverflow = c.RxOverflow()
	}
	return s
}

// RequestMessage queues a poll request for (class, id).
func (r *Receiver) RequestMessage(class, id byte) error {
	if r.Sink == nil {
		return ErrNoSink
	}
	return r.Sink.TrySendAll(ubx.PollRequest(class, id))
}

// Snapshot implements telemetry.Source.
func (r *Receiver) Snapshot(now time.Time) *telemetry.Snapshot {
	stats := r.Stats()
	return &telemetry.Snapshot{
		TimestampMs:       now.UnixNano() / int64(time.Millisecond),
		Connected:         r.connected,
		FixStatus:         uint32(r.telemetry.FixStatus),
		HasPosition:       r.telemetry.HasPosition,
		Latitude:          r.Latitude(),
		Longitude:         r.Longitude(),
		Altitude:          r.Altitude(),
		NorthVelocity:     r.telemetry.NorthVelocity,
		EastVelocity:      r.telemetry.EastVelocity,
		Heading:           r.telemetry.Heading,
		CorrectionEnabled: r.correction.Enabled,
		Frames:            stats.Frames,
		SyncErrors:        stats.SyncErrors,
		Oversized:         stats.Oversized,
		ChecksumErrors:    stats.ChecksumErrors,
		UnknownMessages:   stats.UnknownMessages,
		RxOverflow:        stats.RxOverflow,
	}
}

// AddToLoop implements LoopAdder.
func (r *Receiver) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvSense, r)
}

// Control implements Controller. Pending control messages are applied, then
// Poll runs at least once and up to PollsPerTick times while there's work.
func (r *Receiver) Control(cc fx.ControlContext) error {
	cc.Inbox().Take(r.processMessage)
	r.Poll()
	for n := 1; n < r.PollsPerTick && r.hasWork(); n++ {
		r.Poll()
	}
	return nil
}

func (r *Receiver) processMessage(msg fx.Message) bool {
	switch msg := msg.(type) {
	case *SetErrorOffsetMsg:
		r.SetLatitudeErrorOffset(msg.Latitude)
		r.SetLongitudeErrorOffset(msg.Longitude)
	case *SetCorrectionMsg:
		if msg.Enabled {
			r.EnableErrorCorrection()
		} else {
			r.DisableErrorCorrection()
		}
	case *PollRequestMsg:
		if err := r.RequestMessage(msg.Class, msg.ID); err != nil {
			glog.Warningf("poll request 0x%02X/0x%02X: %v", msg.Class, msg.ID, err)
		}
	default:
		return false
	}
	return true
}

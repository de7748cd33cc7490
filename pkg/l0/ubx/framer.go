package ubx

// ByteSource provides received bytes without blocking.
type ByteSource interface {
	HasByte() bool
	// NextByte must only be called when HasByte returns true.
	NextByte() byte
}

// State is the framer state.
type State int

const (
	// StateIdle waits for incoming bytes.
	StateIdle State = iota
	// StateReading accumulates a frame byte by byte.
	StateReading
	// StateParsing hands the completed payload to the FieldDecoder.
	StateParsing
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReading:
		return "reading"
	case StateParsing:
		return "parsing"
	}
	return "unknown"
}

// FramerStats counts framing outcomes.
type FramerStats struct {
	Frames         uint32
	SyncErrors     uint32
	Oversized      uint32
	ChecksumErrors uint32
}

// Framer is the incremental frame reader.
//
// Every Poll does a bounded amount of work: at most one byte is taken from
// Source while reading, and at most one field is decoded while parsing.
type Framer struct {
	Source  ByteSource
	Decoder FieldDecoder
	Logger  Logger
	// OnSync is called whenever a valid sync pair is seen.
	OnSync func()
	// AcceptBadChecksum keeps frames whose checksum doesn't match.
	AcceptBadChecksum bool

	state      State
	raw        [MaxFrameLen]byte
	cursor     int
	class      byte
	id         byte
	payloadLen int
	frameLen   int
	ready      bool
	checksumOK bool
	stats      FramerStats
}

// NewFramer creates a Framer.
func NewFramer(src ByteSource, dec FieldDecoder) *Framer {
	return &Framer{Source: src, Decoder: dec, Logger: NopLogger}
}

// State returns the current state.
func (f *Framer) State() State {
	return f.state
}

// Stats returns the counters.
func (f *Framer) Stats() FramerStats {
	return f.stats
}

// LastChecksumValid reports whether the last completed frame had a valid checksum.
func (f *Framer) LastChecksumValid() bool {
	return f.checksumOK
}

// Message returns class and id of the frame being read or parsed.
func (f *Framer) Message() (class, id byte) {
	return f.class, f.id
}

// Busy indicates Poll has work to do without new input.
func (f *Framer) Busy() bool {
	return f.state == StateParsing
}

// Poll advances the state machine by one step.
func (f *Framer) Poll() {
	switch f.state {
	case StateIdle:
		if f.Source.HasByte() {
			f.startReading()
		}
	case StateReading:
		if f.Source.HasByte() && !f.ready {
			if !f.readByte(f.Source.NextByte()) {
				f.state = StateIdle
			}
		}
		if f.ready {
			f.startParsing()
		}
	case StateParsing:
		if f.ready {
			f.parse()
		} else {
			f.state = StateIdle
		}
	}
}

func (f *Framer) startReading() {
	f.state = StateReading
	f.cursor = 0
	f.frameLen = HeaderLen
	f.payloadLen = 0
	f.ready = false
}

func (f *Framer) startParsing() {
	f.state = StateParsing
	f.cursor = HeaderLen
}

// readByte interprets b at the cursor, false aborts the frame.
func (f *Framer) readByte(b byte) bool {
	f.raw[f.cursor] = b
	switch f.cursor {
	case indexSync1:
		if b != Sync1 {
			f.stats.SyncErrors++
			return false
		}
	case indexSync2:
		if b != Sync2 {
			f.stats.SyncErrors++
			if b == Sync1 {
				// a stray sync1 may start the real frame.
				f.raw[indexSync1] = b
				return true
			}
			return false
		}
		if f.OnSync != nil {
			f.OnSync()
		}
	case indexClass:
		f.class = b
	case indexID:
		f.id = b
	case indexLength1:
		f.payloadLen = int(b)
	case indexLength2:
		f.payloadLen |= int(b) << 8
		f.frameLen = HeaderLen + f.payloadLen + ChecksumLen
		if f.frameLen > MaxFrameLen {
			f.stats.Oversized++
			f.logger().Warningf("frame 0x%02X/0x%02X declares %d bytes payload, drop", f.class, f.id, f.payloadLen)
			return false
		}
	default:
		if f.cursor >= f.frameLen-1 {
			return f.complete()
		}
	}
	f.cursor++
	return true
}

func (f *Framer) complete() bool {
	end := f.frameLen - ChecksumLen
	ckA, ckB := Checksum(f.raw[indexClass:end])
	f.checksumOK = ckA == f.raw[end] && ckB == f.raw[end+1]
	if !f.checksumOK {
		f.stats.ChecksumErrors++
		if !f.AcceptBadChecksum {
			f.logger().Warningf("frame 0x%02X/0x%02X checksum mismatch, drop", f.class, f.id)
			return false
		}
	}
	f.stats.Frames++
	f.ready = true
	return true
}

func (f *Framer) parse() {
	end := f.frameLen - ChecksumLen
	if f.cursor >= end {
		f.ready = false
		return
	}
	n := 1
	if f.Decoder != nil {
		payload := f.raw[HeaderLen:end]
		if n = f.Decoder.DecodeField(f.class, f.id, payload, f.cursor-HeaderLen); n < 1 {
			n = 1
		}
	}
	f.cursor += n
}

func (f *Framer) logger() Logger {
	if f.Logger == nil {
		return NopLogger
	}
	return f.Logger
}

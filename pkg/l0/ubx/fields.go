package ubx

// FieldDecoder interprets a payload one field group at a time.
type FieldDecoder interface {
	// DecodeField decodes what starts at offset in payload and returns the
	// number of bytes consumed, which is always at least 1.
	DecodeField(class, id byte, payload []byte, offset int) int
}

// MessageKey identifies a message type.
type MessageKey struct {
	Class byte
	ID    byte
}

// FieldAction stores the field at payload[offset:] into Telemetry.
type FieldAction func(t *Telemetry, payload []byte, offset int)

// Field describes one payload field. Fields without Action are skipped by Width.
type Field struct {
	Name   string
	Offset int
	Width  int
	Action FieldAction
}

// Layout is the payload layout of a message type.
type Layout struct {
	MessageKey
	Name   string
	Fields []Field
}

// Find returns the field starting at offset.
func (l *Layout) Find(offset int) *Field {
	for i := range l.Fields {
		if l.Fields[i].Offset == offset {
			return &l.Fields[i]
		}
	}
	return nil
}

// Messages is the table of supported navigation messages.
var Messages = []Layout{
	{
		MessageKey: MessageKey{ClassNAV, IDNavPosLLH},
		Name:       "NAV-POSLLH",
		Fields: []Field{
			{Name: "iTOW", Offset: 0, Width: 4},
			{Name: "lon", Offset: 4, Width: 4, Action: func(t *Telemetry, p []byte, off int) {
				t.Longitude = Int32LE(p, off)
			}},
			{Name: "lat", Offset: 8, Width: 4, Action: func(t *Telemetry, p []byte, off int) {
				t.Latitude = Int32LE(p, off)
			}},
			{Name: "height", Offset: 12, Width: 4},
			{Name: "hMSL", Offset: 16, Width: 4, Action: func(t *Telemetry, p []byte, off int) {
				t.Altitude = Int32LE(p, off)
				t.HasPosition = true
			}},
			{Name: "hAcc", Offset: 20, Width: 4},
			{Name: "vAcc", Offset: 24, Width: 4},
		},
	},
	{
		MessageKey: MessageKey{ClassNAV, IDNavStatus},
		Name:       "NAV-STATUS",
		Fields: []Field{
			{Name: "iTOW", Offset: 0, Width: 4},
			{Name: "gpsFix", Offset: 4, Width: 1, Action: func(t *Telemetry, p []byte, off int) {
				t.FixStatus = p[off]
			}},
			{Name: "flags", Offset: 5, Width: 1},
			{Name: "diffStat", Offset: 6, Width: 1},
			{Name: "res", Offset: 7, Width: 1},
			{Name: "ttff", Offset: 8, Width: 4},
			{Name: "msss", Offset: 12, Width: 4},
		},
	},
	{
		MessageKey: MessageKey{ClassNAV, IDNavVelNED},
		Name:       "NAV-VELNED",
		Fields: []Field{
			{Name: "iTOW", Offset: 0, Width: 4},
			{Name: "velN", Offset: 4, Width: 4, Action: func(t *Telemetry, p []byte, off int) {
				t.NorthVelocity = Int32LE(p, off)
			}},
			{Name: "velE", Offset: 8, Width: 4, Action: func(t *Telemetry, p []byte, off int) {
				t.EastVelocity = Int32LE(p, off)
			}},
			{Name: "velD", Offset: 12, Width: 4},
			{Name: "speed", Offset: 16, Width: 4},
			{Name: "gSpeed", Offset: 20, Width: 4},
			{Name: "heading", Offset: 24, Width: 4, Action: func(t *Telemetry, p []byte, off int) {
				t.Heading = Int32LE(p, off)
			}},
			{Name: "sAcc", Offset: 28, Width: 4},
			{Name: "cAcc", Offset: 32, Width: 4},
		},
	},
}

// DecoderStats counts decoder activity.
type DecoderStats struct {
	FieldsDecoded   uint32
	FieldsSkipped   uint32
	UnknownMessages uint32
}

// Decoder is the table driven FieldDecoder writing into Telemetry.
type Decoder struct {
	Telemetry *Telemetry
	// Layouts defaults to Messages.
	Layouts []Layout
	Logger  Logger

	stats DecoderStats
}

// NewDecoder creates a Decoder over the default message table.
func NewDecoder(t *Telemetry) *Decoder {
	return &Decoder{Telemetry: t, Layouts: Messages, Logger: NopLogger}
}

// Stats returns the counters.
func (d *Decoder) Stats() DecoderStats {
	return d.stats
}

// Lookup finds the layout of a message type.
func (d *Decoder) Lookup(class, id byte) *Layout {
	layouts := d.Layouts
	if layouts == nil {
		layouts = Messages
	}
	for i := range layouts {
		if layouts[i].Class == class && layouts[i].ID == id {
			return &layouts[i]
		}
	}
	return nil
}

// DecodeField implements FieldDecoder.
func (d *Decoder) DecodeField(class, id byte, payload []byte, offset int) int {
	remain := len(payload) - offset
	if remain <= 0 {
		return 1
	}
	layout := d.Lookup(class, id)
	if layout == nil {
		d.stats.UnknownMessages++
		d.logger().Debugf("unhandled message class 0x%02X id 0x%02X, skip %d bytes", class, id, remain)
		return remain
	}
	field := layout.Find(offset)
	if field == nil || field.Width <= 0 {
		d.stats.FieldsSkipped++
		d.logger().Debugf("%s: no field at offset %d, skip %d bytes", layout.Name, offset, remain)
		return remain
	}
	if field.Width > remain {
		d.stats.FieldsSkipped++
		d.logger().Warningf("%s: field %s truncated (%d of %d bytes)", layout.Name, field.Name, remain, field.Width)
		return remain
	}
	if field.Action != nil && d.Telemetry != nil {
		field.Action(d.Telemetry, payload, offset)
		d.stats.FieldsDecoded++
	}
	return field.Width
}

func (d *Decoder) logger() Logger {
	if d.Logger == nil {
		return NopLogger
	}
	return d.Logger
}

package sh

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	fx "github.com/robotalks/navrx/pkg/framework"
	"github.com/robotalks/navrx/pkg/l0/gps"
	"github.com/robotalks/navrx/pkg/telemetry"
)

type loopStack struct {
	*fx.Loop
	latest *telemetry.Latest
}

func (s *loopStack) Load() *telemetry.Snapshot {
	return s.latest.Load()
}

// NewStack combines a running loop and its Latest snapshot.
func NewStack(loop *fx.Loop, latest *telemetry.Latest) Stack {
	return &loopStack{Loop: loop, latest: latest}
}

// FormatStatus prints position related fields of a snapshot.
func FormatStatus(s *telemetry.Snapshot) string {
	if !s.Connected {
		return "disconnected"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "connected fix=%s", FixName(byte(s.FixStatus)))
	if s.HasPosition {
		fmt.Fprintf(&b, " lat=%.7f lon=%.7f alt=%.3fm", s.Latitude, s.Longitude, s.Altitude)
	}
	fmt.Fprintf(&b, " vel=(N %dcm/s, E %dcm/s) heading=%.5f",
		s.NorthVelocity, s.EastVelocity, gps.HeadingToDegrees(s.Heading))
	if s.CorrectionEnabled {
		b.WriteString(" corrected")
	}
	return b.String()
}

// FormatStats prints counters of a snapshot.
func FormatStats(s *telemetry.Snapshot) string {
	return fmt.Sprintf("frames=%d sync-errors=%d oversized=%d checksum-errors=%d unknown=%d rx-overflow=%d",
		s.Frames, s.SyncErrors, s.Oversized, s.ChecksumErrors, s.UnknownMessages, s.RxOverflow)
}

var fixNames = []string{"none", "dead-reckoning", "2d", "3d", "gps+dr", "time-only"}

// FixName names a NAV-STATUS fix type.
func FixName(fix byte) string {
	if int(fix) < len(fixNames) {
		return fixNames[fix]
	}
	return fmt.Sprintf("0x%02x", fix)
}

// ParseOffset parses "LAT LON" in 1e-7 degrees.
func ParseOffset(args []string) (*gps.SetErrorOffsetMsg, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("LAT and LON required")
	}
	lat, err := strconv.ParseInt(args[0], 0, 32)
	if err != nil {
		return nil, fmt.Errorf("Invalid LAT: %v", err)
	}
	lon, err := strconv.ParseInt(args[1], 0, 32)
	if err != nil {
		return nil, fmt.Errorf("Invalid LON: %v", err)
	}
	return &gps.SetErrorOffsetMsg{Latitude: int32(lat), Longitude: int32(lon)}, nil
}

// ParseCorrection parses "on" or "off".
func ParseCorrection(args []string) (*gps.SetCorrectionMsg, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("on|off required")
	}
	switch strings.ToLower(args[0]) {
	case "on", "enable", "true", "1":
		return &gps.SetCorrectionMsg{Enabled: true}, nil
	case "off", "disable", "false", "0":
		return &gps.SetCorrectionMsg{Enabled: false}, nil
	}
	return nil, fmt.Errorf("Invalid argument %q, on|off expected", args[0])
}

// ParsePoll parses "CLASS ID", hex with 0x prefix accepted.
func ParsePoll(args []string) (*gps.PollRequestMsg, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("CLASS and ID required")
	}
	class, err := strconv.ParseUint(args[0], 0, 8)
	if err != nil {
		return nil, fmt.Errorf("Invalid CLASS: %v", err)
	}
	id, err := strconv.ParseUint(args[1], 0, 8)
	if err != nil {
		return nil, fmt.Errorf("Invalid ID: %v", err)
	}
	return &gps.PollRequestMsg{Class: byte(class), ID: byte(id)}, nil
}

func printStatus(c *ishell.Context, s *telemetry.Snapshot) {
	ShellFrom(c).Print(c, s, func() string { return FormatStatus(s) })
}

// post wraps a command sending a loop message.
func post(parse func([]string) (fx.Message, error)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		msg, err := parse(c.Args)
		if err != nil {
			c.Err(err)
			return
		}
		snapshot, err := ShellFrom(c).Post(msg)
		if err != nil {
			c.Err(err)
			return
		}
		printStatus(c, snapshot)
	}
}

var (
	// StatusCmd prints the latest position.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"s"},
		Help:    "",
		Func: func(c *ishell.Context) {
			snapshot, err := ShellFrom(c).Current()
			if err != nil {
				c.Err(err)
				return
			}
			printStatus(c, snapshot)
		},
	}

	// StatsCmd prints counters of the receive path.
	StatsCmd = ishell.Cmd{
		Name: "stats",
		Help: "",
		Func: func(c *ishell.Context) {
			snapshot, err := ShellFrom(c).Current()
			if err != nil {
				c.Err(err)
				return
			}
			ShellFrom(c).Print(c, snapshot, func() string { return FormatStats(snapshot) })
		},
	}

	// OffsetCmd sets error correction offsets.
	OffsetCmd = ishell.Cmd{
		Name:    "offset",
		Aliases: []string{"o"},
		Help:    "LAT LON (1e-7 degrees)",
		Func: post(func(args []string) (fx.Message, error) {
			return ParseOffset(args)
		}),
	}

	// CorrectionCmd turns error correction on or off.
	CorrectionCmd = ishell.Cmd{
		Name:    "correction",
		Aliases: []string{"c"},
		Help:    "on|off",
		Func: post(func(args []string) (fx.Message, error) {
			return ParseCorrection(args)
		}),
	}

	// PollCmd requests a message from the receiver.
	PollCmd = ishell.Cmd{
		Name:    "poll",
		Aliases: []string{"p"},
		Help:    "CLASS ID",
		Func: post(func(args []string) (fx.Message, error) {
			return ParsePoll(args)
		}),
	}
)

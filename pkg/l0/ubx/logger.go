package ubx

import "github.com/golang/glog"

// Logger receives diagnostics from the decoder. It's never required for
// correctness.
type Logger interface {
	Debugf(format string, args ...interface{})
	Warningf(format string, args ...interface{})
}

// NopLogger discards everything.
var NopLogger Logger = nopLogger{}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{})   {}
func (nopLogger) Warningf(string, ...interface{}) {}

// GlogLogger forwards to glog, Debugf only at the given verbosity.
type GlogLogger struct {
	Level glog.Level
}

// Debugf implements Logger.
func (l GlogLogger) Debugf(format string, args ...interface{}) {
	glog.V(l.Level).Infof(format, args...)
}

// Warningf implements Logger.
func (l GlogLogger) Warningf(format string, args ...interface{}) {
	glog.Warningf(format, args...)
}

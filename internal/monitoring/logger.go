// Package monitoring holds the replaceable package-level diagnostic loggers
// shared by the planner, storage and HTTP layers.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// Debugf receives per-stage planning detail. It is muted by default; enable it
// with SetDebugLogger or EnableDebug.
var Debugf func(format string, v ...interface{}) = noop

func noop(string, ...interface{}) {}

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = noop
		return
	}
	Logf = f
}

// SetDebugLogger replaces the debug logger. Passing nil mutes debug output.
func SetDebugLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Debugf = noop
		return
	}
	Debugf = f
}

// EnableDebug routes debug output through log.Printf with a [debug] prefix,
// or mutes it when on is false.
func EnableDebug(on bool) {
	if !on {
		SetDebugLogger(nil)
		return
	}
	SetDebugLogger(func(format string, v ...interface{}) {
		log.Printf("[debug] "+format, v...)
	})
}

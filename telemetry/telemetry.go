// Package telemetry wraps logrus into the allocator's single allowed
// logging surface: debug-level traces only. The allocator itself must
// never emit Info or above, so nothing louder is exposed.
package telemetry

import "github.com/sirupsen/logrus"

// Logger is a debug-only trace sink. The zero value is safe to use and
// silently discards every trace, since it is not wired to an output; call
// New to get one backed by a *logrus.Logger.
type Logger struct {
	entry *logrus.Entry
}

// New returns a Logger derived from base, tagged with component for every
// subsequent trace.
func New(base *logrus.Logger, component string) Logger {
	if base == nil {
		base = logrus.New()
	}
	return Logger{entry: base.WithField("component", component)}
}

// Trace records a single debug-level event with structured fields. It is a
// no-op if the underlying logger's level is above Debug, same as calling
// logrus directly, so call sites do not need to guard it.
func (l Logger) Trace(msg string, fields map[string]interface{}) {
	if l.entry == nil {
		return
	}
	l.entry.WithFields(fields).Debug(msg)
}

// With returns a Logger with an additional field attached, for a call that
// wants every subsequent Trace in its scope tagged (e.g. a request id).
func (l Logger) With(key string, value interface{}) Logger {
	if l.entry == nil {
		return l
	}
	return Logger{entry: l.entry.WithField(key, value)}
}

// Package logging defines the logger collaborator the simulation core
// calls out to at debug/notice/warning levels (spec.md §6). Logging is
// explicitly not part of the correctness contract — callers are free to
// pass a no-op implementation in tests.
package logging

import (
	"strconv"

	"github.com/sirupsen/logrus"
)

// Logger is the collaborator the simulation core logs through. timestamp
// is optional context (the simulated clock reading at the call site, not
// wall-clock time) — pass "" when none is available.
type Logger interface {
	Debug(timestamp string, format string, args ...any)
	Notice(timestamp string, format string, args ...any)
	Warning(timestamp string, format string, args ...any)
}

// Logrus adapts a *logrus.Logger to the Logger interface, matching the
// teacher's use of structured logging fields throughout internal/broker
// and cmd/bot.
type Logrus struct {
	entry *logrus.Logger
}

// NewLogrus wraps l, or a freshly constructed default logrus.Logger if l
// is nil.
func NewLogrus(l *logrus.Logger) *Logrus {
	if l == nil {
		l = logrus.New()
	}
	return &Logrus{entry: l}
}

func (l *Logrus) fields(timestamp string) logrus.Fields {
	if timestamp == "" {
		return logrus.Fields{}
	}
	return logrus.Fields{"sim_time": timestamp}
}

// Debug logs at debug level.
func (l *Logrus) Debug(timestamp, format string, args ...any) {
	l.entry.WithFields(l.fields(timestamp)).Debugf(format, args...)
}

// Notice logs at info level — logrus has no distinct "notice" level, so
// this maps to the nearest one above debug.
func (l *Logrus) Notice(timestamp, format string, args ...any) {
	l.entry.WithFields(l.fields(timestamp)).Infof(format, args...)
}

// Warning logs at warn level.
func (l *Logrus) Warning(timestamp, format string, args ...any) {
	l.entry.WithFields(l.fields(timestamp)).Warnf(format, args...)
}

// TimestampString formats a simulated uint64 timestamp the way the
// original source's command server calls did: as a plain decimal string.
func TimestampString(ts uint64) string {
	return strconv.FormatUint(ts, 10)
}

// Noop discards everything. Used by tests and by callers that have no
// logging collaborator to offer.
type Noop struct{}

func (Noop) Debug(string, string, ...any)   {}
func (Noop) Notice(string, string, ...any)  {}
func (Noop) Warning(string, string, ...any) {}

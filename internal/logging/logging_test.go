package logging

import "testing"

func TestTimestampString(t *testing.T) {
	if got, want := TimestampString(12345), "12345"; got != want {
		t.Fatalf("TimestampString() = %q, want %q", got, want)
	}
	if got, want := TimestampString(0), "0"; got != want {
		t.Fatalf("TimestampString() = %q, want %q", got, want)
	}
}

func TestNoopDoesNotPanic(t *testing.T) {
	var l Logger = Noop{}
	l.Debug("1", "test %d", 1)
	l.Notice("1", "test %d", 1)
	l.Warning("1", "test %d", 1)
}

func TestNewLogrusDefaultsNilLogger(t *testing.T) {
	l := NewLogrus(nil)
	if l == nil {
		t.Fatal("NewLogrus(nil) returned nil")
	}
	// Should not panic even with a default logger.
	l.Debug("", "hello")
	l.Notice("10", "world")
	l.Warning("20", "warn %d", 1)
}

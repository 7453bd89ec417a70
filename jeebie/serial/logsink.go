package serial

import (
	"log/slog"
	"strings"
)

// LogSink is a Supervisor subscriber that logs outgoing bytes as text.
// Handy for debugging test roms that output to serial.
type LogSink struct {
	logger *slog.Logger
	line   []byte
	output strings.Builder
}

// NewLogSink creates a sink that logs through the default slog logger.
func NewLogSink() *LogSink {
	return &LogSink{logger: slog.Default()}
}

// Attach subscribes the sink to the supervisor.
func (l *LogSink) Attach(s *Supervisor) {
	s.Subscribe(l.Receive)
}

// Receive buffers bytes until a line terminator, then logs the line.
func (l *LogSink) Receive(ev ByteTransmitted) {
	b := ev.Data
	if b != 0 {
		l.output.WriteByte(b)
	}
	if b == 0 || b == '\n' || b == '\r' {
		l.Flush()
		return
	}
	l.line = append(l.line, b)
}

// SetLogger replaces the logger lines are written to. A nil logger only
// collects the output.
func (l *LogSink) SetLogger(logger *slog.Logger) {
	l.logger = logger
}

// Flush logs any partial line.
func (l *LogSink) Flush() {
	if len(l.line) == 0 {
		return
	}
	if l.logger != nil {
		l.logger.Info("serial", "line", string(l.line))
	}
	l.line = l.line[:0]
}

// Output returns everything received so far, NUL bytes excluded.
func (l *LogSink) Output() string {
	return l.output.String()
}

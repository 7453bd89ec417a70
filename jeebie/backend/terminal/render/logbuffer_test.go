package render

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogBufferWraps(t *testing.T) {
	lb := NewLogBuffer(3)
	for i := 0; i < 5; i++ {
		lb.Add(LogEntry{Level: slog.LevelInfo, Message: string(rune('a' + i))})
	}

	assert.Equal(t, 3, lb.Len())
	recent := lb.GetRecent(10, slog.LevelDebug)
	require.Len(t, recent, 3)
	assert.Equal(t, "e", recent[0].Message)
	assert.Equal(t, "c", recent[2].Message)

	lb.Clear()
	assert.Empty(t, lb.GetRecent(10, slog.LevelDebug))
}

func TestLogBufferLevelFilter(t *testing.T) {
	lb := NewLogBuffer(10)
	lb.Add(LogEntry{Level: slog.LevelDebug, Message: "debug"})
	lb.Add(LogEntry{Level: slog.LevelWarn, Message: "warn"})
	lb.Add(LogEntry{Level: slog.LevelInfo, Message: "info"})

	recent := lb.GetRecent(10, slog.LevelInfo)
	require.Len(t, recent, 2)
	assert.Equal(t, "info", recent[0].Message)
	assert.Equal(t, "warn", recent[1].Message)
}

func TestLogBufferHandler(t *testing.T) {
	lb := NewLogBuffer(10)
	logger := slog.New(NewLogBufferHandler(lb, slog.LevelInfo))

	logger.Debug("dropped")
	logger.With("component", "dma").WithGroup("src").Info("transfer", "bank", "0xC0")

	recent := lb.GetRecent(10, slog.LevelDebug)
	require.Len(t, recent, 1)
	assert.Equal(t, "transfer component=dma src.bank=0xC0", recent[0].Message)
}

func TestFormatLogEntry(t *testing.T) {
	entry := LogEntry{
		Time:    time.Date(2024, 1, 1, 12, 30, 45, 0, time.UTC),
		Level:   slog.LevelWarn,
		Message: "hello",
	}
	assert.Equal(t, "12:30:45 [WRN] hello", FormatLogEntry(entry))
}

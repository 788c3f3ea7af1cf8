package cancellation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetLogger_DefaultIsNoop(t *testing.T) {
	r := require.New(t)
	r.NotPanics(func() {
		getGlobalLogger().Log(LevelDebug, "no subscribers, must not panic")
	})
}

func TestSetLogger_RoutesToInstalledLogger(t *testing.T) {
	r := require.New(t)

	var captured []string
	SetLogger(LoggerFunc(func(level LogLevel, msg string, fields ...any) {
		captured = append(captured, msg)
	}))
	defer SetLogger(nil)

	logDebug(nil, "task-a", "started")
	r.Equal([]string{"started"}, captured)
}

func TestLogLevel_String(t *testing.T) {
	r := require.New(t)
	r.Equal("DEBUG", LevelDebug.String())
	r.Equal("INFO", LevelInfo.String())
	r.Equal("WARN", LevelWarn.String())
	r.Equal("ERROR", LevelError.String())
}

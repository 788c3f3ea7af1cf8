package cancellation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveTaskOptions_Defaults(t *testing.T) {
	r := require.New(t)

	cfg, err := resolveTaskOptions(nil)
	r.NoError(err)
	r.Equal("", cfg.name)
	r.Nil(cfg.metrics)
	r.NotNil(cfg.logger)
}

func TestResolveTaskOptions_AppliesEachOption(t *testing.T) {
	r := require.New(t)

	m := NewMetrics()
	logger := LoggerFunc(func(LogLevel, string, ...any) {})

	cfg, err := resolveTaskOptions([]TaskOption{
		WithName("my-task"),
		WithMetrics(m),
		WithLogger(logger),
		nil, // nil options are skipped, matching eventloop's resolveLoopOptions
	})
	r.NoError(err)
	r.Equal("my-task", cfg.name)
	r.Same(m, cfg.metrics)
}

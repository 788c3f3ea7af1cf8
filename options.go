package cancellation

// taskConfig holds the resolved configuration for a single New call.
type taskConfig struct {
	logger  Logger
	name    string
	metrics *Metrics
}

// TaskOption configures a Task at construction time, following
// eventloop/options.go's functional-options-over-an-interface shape.
type TaskOption interface {
	applyTask(*taskConfig) error
}

type taskOptionFunc struct {
	fn func(*taskConfig) error
}

func (o *taskOptionFunc) applyTask(cfg *taskConfig) error {
	return o.fn(cfg)
}

// WithLogger attaches a Logger to the task, used instead of the process-wide
// default installed via SetLogger.
func WithLogger(logger Logger) TaskOption {
	return &taskOptionFunc{func(cfg *taskConfig) error {
		cfg.logger = logger
		return nil
	}}
}

// WithName attaches a diagnostic name to the task, included in its log lines.
// ContractViolationError panic values do not carry the name.
func WithName(name string) TaskOption {
	return &taskOptionFunc{func(cfg *taskConfig) error {
		cfg.name = name
		return nil
	}}
}

// WithMetrics attaches a Metrics collector, incremented as the task moves
// through its lifecycle.
func WithMetrics(m *Metrics) TaskOption {
	return &taskOptionFunc{func(cfg *taskConfig) error {
		cfg.metrics = m
		return nil
	}}
}

func resolveTaskOptions(opts []TaskOption) (*taskConfig, error) {
	cfg := &taskConfig{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyTask(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.logger == nil {
		cfg.logger = getGlobalLogger()
	}
	return cfg, nil
}
